package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleDisplay(t *testing.T) {
	assert.Equal(t, "Branch Manager", RoleBranchManager.Display())
	assert.Equal(t, "Operation Manager", RoleOperationManager.Display())
	assert.Equal(t, "CEO", RoleCEO.Display())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleCEO.Valid())
	assert.False(t, Role("JANITOR").Valid())
	assert.False(t, Role("").Valid())
}

func TestAccountUserStripsPassword(t *testing.T) {
	account := Account{ID: "bm1", Name: "Laila", Role: RoleBranchManager, Password: "secret", Branch: "Downtown"}
	user := account.User()
	assert.Equal(t, User{ID: "bm1", Name: "Laila", Role: RoleBranchManager, Branch: "Downtown"}, user)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))
}
