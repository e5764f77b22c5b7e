// Package client holds one thin client per slot API service. Each method maps
// to exactly one endpoint and returns the domain record built from a
// schema-checked response.
package client

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// Clients bundles the per-service clients sharing one Transport.
type Clients struct {
	User         *UserClient
	Payment      *PaymentClient
	Game         *GameClient
	Notification *NotificationClient
}

// New creates all service clients against baseURL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Clients {
	t := NewTransport(baseURL, timeout, logger)
	return &Clients{
		User:         NewUserClient(t),
		Payment:      NewPaymentClient(t),
		Game:         NewGameClient(t),
		Notification: NewNotificationClient(t),
	}
}

// amount renders a decimal as a bare JSON number.
func amount(v decimal.Decimal) json.Number {
	return json.Number(v.String())
}
