package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"
)

// StatusBar displays persistent profile/session status and the unread badge.
type StatusBar struct {
	*tview.TextView
	profile  string
	status   string
	unread   int
	flash    string
	flashErr bool
	hints    []string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetStatus updates the status display.
func (sb *StatusBar) SetStatus(status string) {
	sb.status = status
	sb.render()
}

// SetUnread updates the unread badge.
func (sb *StatusBar) SetUnread(n int) {
	sb.unread = n
	sb.render()
}

// SetFlash sets a temporary message. Errors render red, the rest yellow.
func (sb *StatusBar) SetFlash(msg string, isErr bool) {
	sb.flash = msg
	sb.flashErr = isErr
	sb.render()
}

// SetHints updates the key hints for the current page.
func (sb *StatusBar) SetHints(hints []string) {
	sb.hints = hints
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	badge := ""
	if sb.unread > 0 {
		badge = fmt.Sprintf(" | [green]%d unread[-]", sb.unread)
	}

	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s%s | %s", sb.profile, sb.status, badge, clock)
	if sb.flash != "" {
		tone := "yellow"
		if sb.flashErr {
			tone = "red"
		}
		line += fmt.Sprintf(" | [%s]%s[-]", tone, sb.flash)
	}
	if len(sb.hints) > 0 {
		line += fmt.Sprintf(" | [gray]%s[-]", strings.Join(sb.hints, " "))
	}

	_, _ = fmt.Fprint(sb, line)
}
