// Package inbox turns raw backend snapshots into the conversation list the
// interface renders. Aggregation is a pure recomputation: every call rebuilds
// the full list from the inputs, nothing is incremental.
package inbox

import (
	"fmt"
	"sort"
	"time"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/store"
)

// Conversation is one row of the inbox: the latest exchange with a single
// counterpart plus its unread badge. It has no identity across aggregation
// passes.
type Conversation struct {
	CounterpartID   int64
	CounterpartName string
	LastMessage     string
	LastMessageAt   time.Time // zero when no message has been exchanged
	UnreadCount     int
}

// Aggregate folds messages, the known roster and unread notifications into an
// ordered conversation list for selfID.
//
// Messages that involve neither side of selfID are skipped. Counterparts with
// no roster entry get a synthesized placeholder name. Roster entries with no
// message history still produce a row, so a company the user saved but never
// wrote to remains reachable.
//
// Notifications identify their sender by display name only, so they are
// resolved to a counterpart id through the roster first and joined by id;
// exact-name matching against the assembled rows is the fallback for senders
// the roster does not know yet.
func Aggregate(selfID int64, msgs []api.Message, roster []store.Correspondent, notifs []api.MessageNotification) []Conversation {
	byID := make(map[int64]*Conversation)
	names := make(map[int64]string, len(roster))
	for _, c := range roster {
		if c.Name != "" {
			names[c.ID] = c.Name
		}
	}

	for _, m := range msgs {
		var otherID int64
		var otherName string
		switch selfID {
		case m.SenderID:
			otherID, otherName = m.ReceiverID, m.ReceiverName
		case m.ReceiverID:
			otherID, otherName = m.SenderID, m.SenderName
		default:
			continue
		}
		if otherName == "" {
			otherName = m.CompanyName
		}
		if n, ok := names[otherID]; ok {
			otherName = n
		}
		if otherName == "" {
			otherName = placeholderName(otherID)
		}

		conv, ok := byID[otherID]
		if !ok {
			conv = &Conversation{CounterpartID: otherID}
			byID[otherID] = conv
		}
		if conv.LastMessageAt.IsZero() || m.SentAt.After(conv.LastMessageAt) {
			conv.LastMessage = m.Content
			conv.LastMessageAt = m.SentAt
			conv.CounterpartName = otherName
		}
	}

	for _, c := range roster {
		if _, ok := byID[c.ID]; ok {
			continue
		}
		name := c.Name
		if name == "" {
			name = placeholderName(c.ID)
		}
		byID[c.ID] = &Conversation{CounterpartID: c.ID, CounterpartName: name}
	}

	// Id-keyed unread join, falling back to exact-name matching for senders
	// the roster cannot resolve.
	nameIndex := make(map[string]*Conversation, len(byID))
	for _, conv := range byID {
		nameIndex[conv.CounterpartName] = conv
	}
	idByName := make(map[string]int64, len(names))
	for id, n := range names {
		idByName[n] = id
	}
	for _, n := range notifs {
		if n.IsRead {
			continue
		}
		if id, ok := idByName[n.SenderName]; ok {
			if conv, ok := byID[id]; ok {
				conv.UnreadCount++
				continue
			}
		}
		if conv, ok := nameIndex[n.SenderName]; ok {
			conv.UnreadCount++
		}
	}

	out := make([]Conversation, 0, len(byID))
	for _, conv := range byID {
		out = append(out, *conv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case !a.LastMessageAt.IsZero() && !b.LastMessageAt.IsZero():
			return a.LastMessageAt.After(b.LastMessageAt)
		case !a.LastMessageAt.IsZero():
			return true
		case !b.LastMessageAt.IsZero():
			return false
		default:
			return a.UnreadCount > b.UnreadCount
		}
	})
	return out
}

// DeriveCorrespondents extracts the counterpart roster visible in a message
// snapshot: one entry per company selfID exchanged messages with, carrying the
// best display name the snapshot offers.
func DeriveCorrespondents(selfID int64, msgs []api.Message) []store.Correspondent {
	seen := make(map[int64]*store.Correspondent)
	var order []int64
	for _, m := range msgs {
		var otherID int64
		var otherName string
		switch selfID {
		case m.SenderID:
			otherID, otherName = m.ReceiverID, m.ReceiverName
		case m.ReceiverID:
			otherID, otherName = m.SenderID, m.SenderName
		default:
			continue
		}
		if otherName == "" {
			otherName = m.CompanyName
		}
		c, ok := seen[otherID]
		if !ok {
			c = &store.Correspondent{ID: otherID}
			seen[otherID] = c
			order = append(order, otherID)
		}
		if c.Name == "" && otherName != "" {
			c.Name = otherName
			c.Company = otherName
		}
	}

	out := make([]store.Correspondent, 0, len(order))
	for _, id := range order {
		out = append(out, *seen[id])
	}
	return out
}

func placeholderName(id int64) string {
	return fmt.Sprintf("Unknown (%d)", id)
}
