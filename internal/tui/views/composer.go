package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Composer is the input line for writing to the active conversation.
type Composer struct {
	*tview.InputField
	onSend func(text string)
}

// NewComposer creates a new message composer.
func NewComposer() *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)

	c := &Composer{InputField: input}

	input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || c.onSend == nil {
			return
		}
		text := strings.TrimSpace(c.GetText())
		if text == "" {
			return
		}
		c.onSend(text)
		c.SetText("")
	})

	return c
}

// SetRecipient shows who the next message goes to in the prompt.
func (c *Composer) SetRecipient(name string) {
	if name == "" {
		c.SetLabel(" > ")
		return
	}
	c.SetLabel(" to " + name + " > ")
}

// SetOnSend sets the callback when a message is sent.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}
