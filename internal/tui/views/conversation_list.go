package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/Mohahamed99-by/Texturnhub/internal/inbox"
)

// ConversationList is the main inbox view (K9s-inspired table).
type ConversationList struct {
	*tview.Table
	convs      []inbox.Conversation
	selectedFn func() (int, int)
}

// NewConversationList creates a new conversation list table.
func NewConversationList() *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Conversations ")

	cl := &ConversationList{Table: table}
	cl.selectedFn = table.GetSelection
	return cl
}

// Update refreshes the conversation list with new data.
func (cl *ConversationList) Update(convs []inbox.Conversation) {
	cl.convs = convs
	cl.Clear()

	// Header row.
	cl.SetCell(0, 0, tview.NewTableCell(" Company").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Last Message").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, conv := range convs {
		row := i + 1
		name := conv.CounterpartName
		if conv.UnreadCount > 0 {
			name = fmt.Sprintf("* %s (%d)", name, conv.UnreadCount)
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+name).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(row, 1, tview.NewTableCell(" "+conv.LastMessage).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(row, 2, tview.NewTableCell(" "+formatConvTime(conv.LastMessageAt)).SetMaxWidth(12))
	}
}

// Selected returns the currently selected conversation, or nil.
func (cl *ConversationList) Selected() *inbox.Conversation {
	row, _ := cl.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(cl.convs) {
		return &cl.convs[idx]
	}
	return nil
}

func formatConvTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	return formatConvTime(time.UnixMilli(ms))
}
