package store

// Correspondent is a cached roster entry: a company the user has exchanged
// (or could exchange) messages with.
type Correspondent struct {
	ID      int64
	Name    string
	Company string
}

// Message is a cached message snapshot. MsgKey is the server message id for
// synced messages and the client-minted id for optimistic outbox echoes.
type Message struct {
	ID            int64
	CounterpartID int64
	MsgKey        string
	SenderID      int64
	ReceiverID    int64
	Content       string
	FromMe        bool
	Status        string
	SentAt        int64
}

// Offer is a cached listing snapshot.
type Offer struct {
	ID                int64
	CompanyID         int64
	CompanyName       string
	MaterialType      string
	Quantity          float64
	MaterialCondition string
	Price             float64
	Location          string
	ImageURL          string
	CreatedAt         int64
	Saved             bool
}

// OutboxEntry represents a pending outgoing message.
type OutboxEntry struct {
	ID           int64
	ClientMsgID  string
	ReceiverID   int64
	Content      string
	Status       string // queued, sending, sent, failed
	ErrorMessage string
	ServerMsgID  int64
}
