package api

import (
	"context"
	"fmt"
	"net/http"
)

// NotificationService talks to the message-notification and general
// notification endpoints.
type NotificationService struct {
	client *Client
}

// NewNotificationService creates a notification service on top of the shared client.
func NewNotificationService(c *Client) *NotificationService {
	return &NotificationService{client: c}
}

// ListMessageNotifications fetches the unread-message markers for the
// authenticated company.
func (s *NotificationService) ListMessageNotifications(ctx context.Context) ([]MessageNotification, error) {
	var notifs []MessageNotification
	if err := s.client.get(ctx, "/message-notifications", nil, &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

// MarkMessageNotificationRead acknowledges a single message notification.
// The backend treats re-acknowledging a read notification as a no-op.
func (s *NotificationService) MarkMessageNotificationRead(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodPut, fmt.Sprintf("/message-notifications/%d/read", id), nil, nil, nil, true)
}

// List fetches general notifications.
func (s *NotificationService) List(ctx context.Context) ([]Notification, error) {
	var notifs []Notification
	if err := s.client.get(ctx, "/notifications", nil, &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

// MarkRead acknowledges a general notification.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), nil, nil, nil, true)
}

// Delete removes a general notification.
func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/notifications/%d", id), nil, nil, nil, true)
}
