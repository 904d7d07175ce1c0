package api

import "time"

// Message is a message record as the backend returns it. Owned by the remote
// store; the client only ever holds a snapshot.
type Message struct {
	ID           int64     `json:"message_id"`
	SenderID     int64     `json:"sender_id"`
	ReceiverID   int64     `json:"receiver_id"`
	SenderName   string    `json:"sender_name,omitempty"`
	ReceiverName string    `json:"receiver_name,omitempty"`
	CompanyName  string    `json:"company_name,omitempty"`
	Content      string    `json:"content"`
	SentAt       time.Time `json:"sent_at"`
}

// MessageNotification is an unread-message marker. The backend identifies the
// sender by display name only; the inbox package resolves that back to a
// counterpart id.
type MessageNotification struct {
	ID         int64     `json:"id"`
	SenderName string    `json:"sender_name"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification is a general (non-message) notification.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Company is the authenticated account profile.
type Company struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

// Offer is a textile waste listing.
type Offer struct {
	ID                int64     `json:"offer_id"`
	CompanyID         int64     `json:"company_id"`
	CompanyName       string    `json:"company_name,omitempty"`
	MaterialType      string    `json:"material_type"`
	Quantity          float64   `json:"quantity"`
	MaterialCondition string    `json:"material_condition"`
	Price             float64   `json:"price"`
	Location          string    `json:"location"`
	ImageURL          string    `json:"image_url_1,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
