package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Mohahamed99-by/Texturnhub/internal/pkg/validate"
)

// MessageService talks to the /messages endpoints. The backend returns every
// message involving the caller; filtering by counterpart happens client-side.
type MessageService struct {
	client *Client
}

// NewMessageService creates a message service on top of the shared client.
func NewMessageService(c *Client) *MessageService {
	return &MessageService{client: c}
}

// SendRequest is the payload for POST /messages.
type SendRequest struct {
	ReceiverID int64  `json:"receiver_id" validate:"required,gt=0"`
	Content    string `json:"content" validate:"required"`
}

// sendResponse carries the server-assigned message id.
type sendResponse struct {
	ID int64 `json:"id"`
}

// List fetches all messages involving the authenticated company.
func (s *MessageService) List(ctx context.Context) ([]Message, error) {
	var msgs []Message
	if err := s.client.get(ctx, "/messages", nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Send delivers a message and returns the id the server assigned it.
func (s *MessageService) Send(ctx context.Context, receiverID int64, content string) (int64, error) {
	req := SendRequest{ReceiverID: receiverID, Content: content}
	if err := validate.Struct(req); err != nil {
		return 0, err
	}
	var resp sendResponse
	if err := s.client.do(ctx, http.MethodPost, "/messages", nil, req, &resp, true); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Delete removes a message by its server id.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/messages/%d", id), nil, nil, nil, true)
}
