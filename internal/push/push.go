// Package push delivers browser web-push notifications. Subscriptions are
// held in memory for the lifetime of the process, matching the original
// deployment of this tool.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Service holds the VAPID keypair and the subscription registry.
type Service struct {
	publicKey  string
	privateKey string
	subscriber string

	mu   sync.RWMutex
	subs map[string]webpush.Subscription
}

// NewService creates a push service. When the keypair is empty a fresh one
// is generated at startup.
func NewService(publicKey, privateKey, subscriber string) (*Service, error) {
	if publicKey == "" || privateKey == "" {
		var err error
		privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
		if err != nil {
			return nil, fmt.Errorf("generate vapid keys: %w", err)
		}
		slog.Info("generated ephemeral vapid keypair", "public_key", publicKey)
	}
	return &Service{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		subs:       make(map[string]webpush.Subscription),
	}, nil
}

// PublicKey returns the VAPID public key clients subscribe with.
func (s *Service) PublicKey() string {
	return s.publicKey
}

// Subscribe registers a browser subscription, keyed by endpoint so
// re-subscribing is idempotent.
func (s *Service) Subscribe(sub webpush.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.Endpoint] = sub
}

// Message is the payload delivered to the service worker.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Broadcast sends the message to every subscription. Delivery is
// best-effort: failures are logged and the subscription is dropped when the
// endpoint reports it gone.
func (s *Service) Broadcast(ctx context.Context, title, body, url string) {
	payload, err := json.Marshal(Message{Title: title, Body: body, URL: url})
	if err != nil {
		slog.Error("marshal push payload", "error", err)
		return
	}

	s.mu.RLock()
	subs := make([]webpush.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.RUnlock()

	for _, sub := range subs {
		resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &webpush.Options{
			Subscriber:      s.subscriber,
			VAPIDPublicKey:  s.publicKey,
			VAPIDPrivateKey: s.privateKey,
			TTL:             60,
		})
		if err != nil {
			slog.Warn("push delivery failed", "endpoint", sub.Endpoint, "error", err)
			continue
		}
		if resp.StatusCode == 404 || resp.StatusCode == 410 {
			s.mu.Lock()
			delete(s.subs, sub.Endpoint)
			s.mu.Unlock()
		}
		resp.Body.Close()
	}
}
