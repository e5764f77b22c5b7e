package client

import (
	"context"

	"github.com/attaboy/slotcheck/internal/domain"
)

// NotificationClient talks to the notification service.
type NotificationClient struct {
	t *Transport
}

// NewNotificationClient creates a notification service client.
func NewNotificationClient(t *Transport) *NotificationClient {
	return &NotificationClient{t: t}
}

type notifyRequest struct {
	UserID        int64  `json:"userId"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

// Notify sends the round's outcome message to the user.
func (c *NotificationClient) Notify(ctx context.Context, userID int64, transactionID, message string) (domain.Notification, error) {
	const op = "notify"

	body, err := c.t.post(ctx, op, "/notify", notifyRequest{
		UserID:        userID,
		TransactionID: transactionID,
		Message:       message,
	})
	if err != nil {
		return domain.Notification{}, err
	}
	if err := body.expectString(op, "status", domain.StatusSent); err != nil {
		return domain.Notification{}, err
	}
	id, err := body.identifier(op, "notificationId")
	if err != nil {
		return domain.Notification{}, err
	}

	return domain.Notification{Status: domain.StatusSent, NotificationID: id}, nil
}
