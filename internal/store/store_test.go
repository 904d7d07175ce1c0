package store

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateAppliesOnFreshDB(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate, so run it again to check idempotency.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestCorrespondentUpsertAndList(t *testing.T) {
	db := testDB(t)

	c := &Correspondent{ID: 2, Name: "Acme Textiles", Company: "Acme Textiles"}
	if err := db.UpsertCorrespondent(c); err != nil {
		t.Fatal(err)
	}

	// Update name.
	c.Name = "Acme Updated"
	if err := db.UpsertCorrespondent(c); err != nil {
		t.Fatal(err)
	}

	list, err := db.ListCorrespondents()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d correspondents, want 1", len(list))
	}
	if list[0].Name != "Acme Updated" {
		t.Errorf("name = %q, want Acme Updated", list[0].Name)
	}
}

func TestCorrespondentUpsertKeepsKnownName(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertCorrespondent(&Correspondent{ID: 2, Name: "Acme"}); err != nil {
		t.Fatal(err)
	}
	// A later upsert with an empty name must not erase the known one.
	if err := db.UpsertCorrespondent(&Correspondent{ID: 2}); err != nil {
		t.Fatal(err)
	}

	c, err := db.GetCorrespondent(2)
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.Name != "Acme" {
		t.Errorf("got %v, want name Acme", c)
	}
}

func TestGetCorrespondent(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertCorrespondent(&Correspondent{ID: 7, Name: "Loom"}); err != nil {
		t.Fatal(err)
	}
	c, err := db.GetCorrespondent(7)
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.Name != "Loom" {
		t.Errorf("got %v, want Loom", c)
	}

	// Non-existent.
	c, err = db.GetCorrespondent(99)
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Errorf("expected nil for missing correspondent")
	}
}

func TestMessageUpsertIdempotent(t *testing.T) {
	db := testDB(t)

	msg := &Message{CounterpartID: 2, MsgKey: "41", SenderID: 2, ReceiverID: 1, Content: "hello", SentAt: 1000}
	if err := db.UpsertMessage(msg); err != nil {
		t.Fatal(err)
	}
	// Upsert again should not create a duplicate.
	msg.Content = "hello updated"
	if err := db.UpsertMessage(msg); err != nil {
		t.Fatal(err)
	}

	msgs, err := db.ListMessages(2, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1 (idempotent upsert failed)", len(msgs))
	}
	if msgs[0].Content != "hello updated" {
		t.Errorf("content = %q, want hello updated", msgs[0].Content)
	}
}

func TestDeleteMessage(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertMessage(&Message{CounterpartID: 2, MsgKey: "41", Content: "gone", SentAt: 1000}); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteMessage(2, "41"); err != nil {
		t.Fatal(err)
	}
	msgs, err := db.ListMessages(2, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Fatalf("got %d messages after delete, want 0", len(msgs))
	}
}

func TestAllMessagesOrderedBySentAt(t *testing.T) {
	db := testDB(t)

	for i, m := range []Message{
		{CounterpartID: 2, MsgKey: "a", SentAt: 3000},
		{CounterpartID: 3, MsgKey: "b", SentAt: 1000},
		{CounterpartID: 2, MsgKey: "c", SentAt: 2000},
	} {
		m := m
		if err := db.UpsertMessage(&m); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	msgs, err := db.AllMessages(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].SentAt > msgs[i-1].SentAt {
			t.Errorf("messages not ordered newest first at index %d", i)
		}
	}
}

func TestOfferUpsertAndSaved(t *testing.T) {
	db := testDB(t)

	o := &Offer{ID: 5, CompanyID: 2, CompanyName: "Acme", MaterialType: "cotton", Quantity: 120, Price: 9.5, Location: "Casablanca", CreatedAt: 1000}
	if err := db.UpsertOffer(o); err != nil {
		t.Fatal(err)
	}
	o.Price = 8.0
	if err := db.UpsertOffer(o); err != nil {
		t.Fatal(err)
	}

	offers, err := db.ListOffers(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}
	if offers[0].Price != 8.0 {
		t.Errorf("price = %v, want 8.0", offers[0].Price)
	}
	if offers[0].Saved {
		t.Error("offer should not be saved yet")
	}

	saved, err := db.ToggleSavedOffer(5)
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Error("first toggle should save")
	}

	offers, err = db.ListOffers(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !offers[0].Saved {
		t.Error("offer should carry the saved flag after toggle")
	}

	list, err := db.ListSavedOffers()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != 5 {
		t.Fatalf("saved offers = %v, want single offer 5", list)
	}

	saved, err = db.ToggleSavedOffer(5)
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Error("second toggle should unsave")
	}
}

func TestDeleteOfferClearsSavedMarker(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertOffer(&Offer{ID: 5, CompanyID: 2, MaterialType: "wool"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveOffer(5); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteOffer(5); err != nil {
		t.Fatal(err)
	}

	saved, err := db.IsOfferSaved(5)
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Error("saved marker should be gone after offer delete")
	}
}

func TestOutbox(t *testing.T) {
	db := testDB(t)

	if err := db.QueueOutbox("client1", 2, "test msg"); err != nil {
		t.Fatal(err)
	}

	pending, err := db.PendingOutbox()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending, want 1", len(pending))
	}
	if pending[0].ClientMsgID != "client1" {
		t.Errorf("client_msg_id = %q, want client1", pending[0].ClientMsgID)
	}
	if pending[0].ReceiverID != 2 {
		t.Errorf("receiver_id = %d, want 2", pending[0].ReceiverID)
	}

	if err := db.MarkOutboxSending("client1"); err != nil {
		t.Fatal(err)
	}
	pending, err = db.PendingOutbox()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending after sending, want 0", len(pending))
	}

	if err := db.MarkOutboxSent("client1", 41); err != nil {
		t.Fatal(err)
	}
	var status string
	var serverID int64
	if err := db.QueryRow(`SELECT status, server_msg_id FROM outbox WHERE client_msg_id = 'client1'`).Scan(&status, &serverID); err != nil {
		t.Fatal(err)
	}
	if status != "sent" || serverID != 41 {
		t.Errorf("status=%q server_msg_id=%d, want sent/41", status, serverID)
	}
}

func TestOutboxFailed(t *testing.T) {
	db := testDB(t)

	if err := db.QueueOutbox("client2", 3, "doomed"); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxFailed("client2", "receiver not found"); err != nil {
		t.Fatal(err)
	}

	var status, errMsg string
	if err := db.QueryRow(`SELECT status, error_message FROM outbox WHERE client_msg_id = 'client2'`).Scan(&status, &errMsg); err != nil {
		t.Fatal(err)
	}
	if status != "failed" {
		t.Errorf("status = %q, want failed", status)
	}
	if errMsg != "receiver not found" {
		t.Errorf("error_message = %q", errMsg)
	}
}
