package domain

import "time"

// Session durations. The short session lasts one hour; the extended
// "stay signed in" session lasts thirty days.
const (
	SessionShortTTL    = time.Hour
	SessionExtendedTTL = 30 * 24 * time.Hour

	// SessionCheckInterval is how often clients re-validate a stored
	// session against its expiry.
	SessionCheckInterval = time.Minute
)

// Session is the ephemeral login record handed to the client. It is not
// persisted server-side.
type Session struct {
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given
// instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
