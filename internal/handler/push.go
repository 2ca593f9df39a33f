package handler

import (
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/labstack/echo/v4"

	"github.com/dawarsaada/siyana/internal/push"
)

// PushHandler exposes the web-push plumbing: key exchange, subscription,
// and manual sends.
type PushHandler struct {
	push *push.Service
}

// NewPushHandler creates a new PushHandler.
func NewPushHandler(p *push.Service) *PushHandler {
	return &PushHandler{push: p}
}

// VAPIDKey returns the public key clients subscribe with.
func (h *PushHandler) VAPIDKey(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"publicKey": h.push.PublicKey()})
}

// Subscribe registers a browser push subscription.
func (h *PushHandler) Subscribe(c echo.Context) error {
	var sub webpush.Subscription
	if err := c.Bind(&sub); err != nil {
		return err
	}
	h.push.Subscribe(sub)
	return c.JSON(http.StatusCreated, map[string]string{"message": "Subscription received."})
}

type sendRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
	URL   string `json:"url"`
}

// Send broadcasts a push message to all subscriptions.
func (h *PushHandler) Send(c echo.Context) error {
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	h.push.Broadcast(c.Request().Context(), req.Title, req.Body, req.URL)
	return c.JSON(http.StatusOK, map[string]string{"message": "Notifications sent successfully."})
}

// Health reports service liveness.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
