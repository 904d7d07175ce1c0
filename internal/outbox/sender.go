// Package outbox gives message sending a durable queue: the composer enqueues
// locally and the sender loop delivers, so a send survives a crash or a flaky
// connection and the interface never blocks on the network.
package outbox

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
	"github.com/Mohahamed99-by/Texturnhub/internal/store"
)

// MessageSender delivers one message to the backend and returns the server
// message id.
type MessageSender interface {
	Send(ctx context.Context, receiverID int64, content string) (int64, error)
}

// Sender drains the outbox and delivers messages through the backend API.
type Sender struct {
	db     *store.DB
	sender MessageSender
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewSender creates a new outbox sender.
func NewSender(db *store.DB, sender MessageSender, b *bus.Bus, logger *zap.Logger) *Sender {
	return &Sender{
		db:     db,
		sender: sender,
		bus:    b,
		logger: logger,
	}
}

// Enqueue queues a message for delivery and returns its client id.
func (s *Sender) Enqueue(receiverID int64, content string) (string, error) {
	clientMsgID := uuid.NewString()
	if err := s.db.QueueOutbox(clientMsgID, receiverID, content); err != nil {
		return "", err
	}
	return clientMsgID, nil
}

// Start begins polling the outbox for pending messages.
func (s *Sender) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
}

// Stop stops the sender loop.
func (s *Sender) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Sender) loop(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.ProcessPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ProcessPending delivers every queued entry once. Exported so a one-shot
// command can flush the queue without running the loop.
func (s *Sender) ProcessPending(ctx context.Context) {
	pending, err := s.db.PendingOutbox()
	if err != nil {
		s.logger.Error("failed to read outbox", zap.Error(err))
		return
	}

	for _, entry := range pending {
		if err := s.db.MarkOutboxSending(entry.ClientMsgID); err != nil {
			s.logger.Error("failed to mark sending", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
			continue
		}

		// Optimistic echo: show the message in the thread immediately.
		now := time.Now().UnixMilli()
		_ = s.db.UpsertMessage(&store.Message{
			CounterpartID: entry.ReceiverID,
			MsgKey:        entry.ClientMsgID,
			ReceiverID:    entry.ReceiverID,
			Content:       entry.Content,
			FromMe:        true,
			Status:        "sending",
			SentAt:        now,
		})
		s.bus.Publish(bus.Event{
			Kind:      bus.KindMessageUpserted,
			Timestamp: time.Now(),
			Payload:   map[string]string{"client_msg_id": entry.ClientMsgID},
		})

		serverMsgID, err := s.sender.Send(ctx, entry.ReceiverID, entry.Content)
		if err != nil {
			s.logger.Error("failed to send message", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
			_ = s.db.MarkOutboxFailed(entry.ClientMsgID, err.Error())
			_ = s.db.UpsertMessage(&store.Message{
				CounterpartID: entry.ReceiverID, MsgKey: entry.ClientMsgID,
				ReceiverID: entry.ReceiverID, Content: entry.Content,
				FromMe: true, Status: "failed", SentAt: now,
			})
			s.bus.Publish(bus.Event{
				Kind:      bus.KindMessageSendFailed,
				Timestamp: time.Now(),
				Payload: map[string]string{
					"client_msg_id": entry.ClientMsgID,
					"error":         err.Error(),
				},
			})
			continue
		}

		if err := s.db.MarkOutboxSent(entry.ClientMsgID, serverMsgID); err != nil {
			s.logger.Error("failed to mark sent", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
		}

		// Re-key the echo to the server id so the next snapshot replace
		// dedupes instead of duplicating.
		_ = s.db.DeleteMessage(entry.ReceiverID, entry.ClientMsgID)
		_ = s.db.UpsertMessage(&store.Message{
			CounterpartID: entry.ReceiverID,
			MsgKey:        formatServerID(serverMsgID),
			ReceiverID:    entry.ReceiverID,
			Content:       entry.Content,
			FromMe:        true,
			Status:        "sent",
			SentAt:        now,
		})

		s.logger.Info("message sent", zap.String("client_msg_id", entry.ClientMsgID), zap.Int64("server_msg_id", serverMsgID))
		s.bus.Publish(bus.Event{
			Kind:      bus.KindMessageSendAck,
			Timestamp: time.Now(),
			Payload: map[string]string{
				"client_msg_id": entry.ClientMsgID,
				"server_msg_id": formatServerID(serverMsgID),
			},
		})
	}
}

func formatServerID(id int64) string {
	return strconv.FormatInt(id, 10)
}
