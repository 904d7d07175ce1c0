package api

import (
	"context"
	"net/http"
)

// SubscriptionService checks and initiates the posting subscription.
// Payment itself happens on the billing provider's checkout page; the client
// only ever sees the redirect URL.
type SubscriptionService struct {
	client *Client
}

// NewSubscriptionService creates a subscription service on top of the shared client.
func NewSubscriptionService(c *Client) *SubscriptionService {
	return &SubscriptionService{client: c}
}

type subscriptionStatusResponse struct {
	IsSubscribed bool `json:"is_subscribed"`
}

type subscribeRequest struct {
	Plan string `json:"plan"`
}

type subscribeResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// Status reports whether the authenticated company holds an active
// subscription (required to post offers).
func (s *SubscriptionService) Status(ctx context.Context) (bool, error) {
	var resp subscriptionStatusResponse
	if err := s.client.get(ctx, "/subscription-status", nil, &resp); err != nil {
		return false, err
	}
	return resp.IsSubscribed, nil
}

// Subscribe starts a checkout session and returns the URL to complete it.
func (s *SubscriptionService) Subscribe(ctx context.Context, plan string) (string, error) {
	var resp subscribeResponse
	if err := s.client.do(ctx, http.MethodPost, "/subscribe", nil, subscribeRequest{Plan: plan}, &resp, true); err != nil {
		return "", err
	}
	return resp.CheckoutURL, nil
}
