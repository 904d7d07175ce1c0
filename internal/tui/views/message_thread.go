package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/Mohahamed99-by/Texturnhub/internal/store"
)

// MessageThread displays the message history with a single counterpart.
type MessageThread struct {
	*tview.TextView
	counterpartName string
}

// NewMessageThread creates a new thread view.
func NewMessageThread() *MessageThread {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")

	return &MessageThread{TextView: tv}
}

// SetCounterpartName updates the title with the counterpart name.
func (mt *MessageThread) SetCounterpartName(name string) {
	mt.counterpartName = name
	mt.SetTitle(fmt.Sprintf(" %s ", name))
}

// Update refreshes the thread with new messages.
func (mt *MessageThread) Update(msgs []store.Message) {
	mt.Clear()

	// Messages come in reverse chronological order; display oldest first.
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		sender := mt.counterpartName
		if m.FromMe {
			sender = "You"
		}

		suffix := ""
		switch m.Status {
		case "sending":
			suffix = " [::d](sending)[-:-:-]"
		case "failed":
			suffix = " [red](failed)[-]"
		}

		ts := formatTimestamp(m.SentAt)
		line := fmt.Sprintf("[::b]%s[-:-:-] [::d]%s[-:-:-]%s\n%s\n\n", sender, ts, suffix, m.Content)
		_, _ = fmt.Fprint(mt, line)
	}

	mt.ScrollToEnd()
}
