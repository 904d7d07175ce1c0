// Package sync moves backend snapshots into the local cache. The refresher
// fetches and publishes, the engine subscribes and ingests, so fetching and
// persistence never block each other.
package sync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
	"github.com/Mohahamed99-by/Texturnhub/internal/inbox"
	"github.com/Mohahamed99-by/Texturnhub/internal/store"
)

// MessageSnapshot is the payload of remote.messages events.
type MessageSnapshot struct {
	SelfID   int64
	Messages []api.Message
}

// OfferSnapshot is the payload of remote.offers events.
type OfferSnapshot struct {
	Offers []api.Offer
}

// SnapshotResult is the payload of sync.snapshot events.
type SnapshotResult struct {
	Messages       int
	Correspondents int
	Offers         int
}

// Engine handles idempotent ingestion of backend snapshots into the cache.
// It subscribes to "remote.*" events on the bus and processes them.
type Engine struct {
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewEngine creates a new sync engine.
func NewEngine(db *store.DB, b *bus.Bus, logger *zap.Logger) *Engine {
	return &Engine{
		db:     db,
		bus:    b,
		logger: logger,
	}
}

// Start subscribes to remote snapshot events on the bus.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	ch, unsub := e.bus.Subscribe("remote.", 256)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				e.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the engine.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindRemoteMessages:
		snap, ok := evt.Payload.(MessageSnapshot)
		if !ok {
			return
		}
		if err := e.IngestMessageSnapshot(snap.SelfID, snap.Messages); err != nil {
			e.logger.Error("failed to ingest message snapshot", zap.Error(err), zap.Int("count", len(snap.Messages)))
		}
	case bus.KindRemoteOffers:
		snap, ok := evt.Payload.(OfferSnapshot)
		if !ok {
			return
		}
		if err := e.IngestOfferSnapshot(snap.Offers); err != nil {
			e.logger.Error("failed to ingest offer snapshot", zap.Error(err), zap.Int("count", len(snap.Offers)))
		}
	}
}

// IngestMessageSnapshot replaces the cached message history with a full
// backend snapshot in one transaction. Optimistic outbox echoes that are
// still in flight survive the replace; everything else mirrors the server,
// so remote deletions disappear locally on the next pass.
func (e *Engine) IngestMessageSnapshot(selfID int64, msgs []api.Message) error {
	roster := inbox.DeriveCorrespondents(selfID, msgs)

	tx, err := e.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixMilli()

	for _, c := range roster {
		if _, err := tx.Exec(`
			INSERT INTO correspondents (id, name, company, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = CASE WHEN excluded.name != '' THEN excluded.name ELSE correspondents.name END,
				company = CASE WHEN excluded.company != '' THEN excluded.company ELSE correspondents.company END,
				updated_at = excluded.updated_at`,
			c.ID, c.Name, c.Company, now); err != nil {
			return fmt.Errorf("upsert correspondent in batch: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE status IN ('received', 'sent')`); err != nil {
		return fmt.Errorf("prune synced messages: %w", err)
	}

	msgsCount := 0
	for _, m := range msgs {
		var counterpartID int64
		var fromMe bool
		switch selfID {
		case m.SenderID:
			counterpartID, fromMe = m.ReceiverID, true
		case m.ReceiverID:
			counterpartID, fromMe = m.SenderID, false
		default:
			continue
		}
		status := "received"
		if fromMe {
			status = "sent"
		}
		if _, err := tx.Exec(`
			INSERT INTO messages (counterpart_id, msg_key, sender_id, receiver_id, content, from_me, status, sent_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(counterpart_id, msg_key) DO UPDATE SET
				content = excluded.content,
				status = excluded.status,
				sent_at = excluded.sent_at`,
			counterpartID, strconv.FormatInt(m.ID, 10), m.SenderID, m.ReceiverID,
			m.Content, fromMe, status, m.SentAt.UnixMilli(), now); err != nil {
			return fmt.Errorf("upsert message in batch: %w", err)
		}
		msgsCount++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	e.bus.Publish(bus.Event{
		Kind:      bus.KindSyncSnapshot,
		Timestamp: time.Now(),
		Payload:   SnapshotResult{Messages: msgsCount, Correspondents: len(roster)},
	})

	return nil
}

// IngestOfferSnapshot replaces the cached marketplace listings. Saved markers
// are kept; a marker whose listing vanished remotely simply stops matching
// until the listing comes back.
func (e *Engine) IngestOfferSnapshot(offers []api.Offer) error {
	tx, err := e.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM offers`); err != nil {
		return fmt.Errorf("prune offers: %w", err)
	}

	now := time.Now().UnixMilli()
	for _, o := range offers {
		if _, err := tx.Exec(`
			INSERT INTO offers (offer_id, company_id, company_name, material_type, quantity, material_condition, price, location, image_url, created_at, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.CompanyID, o.CompanyName, o.MaterialType, o.Quantity,
			o.MaterialCondition, o.Price, o.Location, o.ImageURL, o.CreatedAt.UnixMilli(), now); err != nil {
			return fmt.Errorf("insert offer in batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	e.bus.Publish(bus.Event{
		Kind:      bus.KindSyncSnapshot,
		Timestamp: time.Now(),
		Payload:   SnapshotResult{Offers: len(offers)},
	})

	return nil
}
