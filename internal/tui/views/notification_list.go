package views

import (
	"github.com/rivo/tview"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
)

// NotificationList shows general account notifications.
type NotificationList struct {
	*tview.Table
	notifs     []api.Notification
	selectedFn func() (int, int)
}

// NewNotificationList creates a new notification table.
func NewNotificationList() *NotificationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Notifications ")

	nl := &NotificationList{Table: table}
	nl.selectedFn = table.GetSelection
	return nl
}

// Update refreshes the table with new data.
func (nl *NotificationList) Update(notifs []api.Notification) {
	nl.notifs = notifs
	nl.Clear()

	nl.SetCell(0, 0, tview.NewTableCell(" ").SetSelectable(false))
	nl.SetCell(0, 1, tview.NewTableCell(" Notification").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	nl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, n := range notifs {
		row := i + 1
		marker := " "
		if !n.IsRead {
			marker = "[green]*[-]"
		}
		nl.SetCell(row, 0, tview.NewTableCell(marker).SetMaxWidth(2))
		nl.SetCell(row, 1, tview.NewTableCell(" "+n.Message).SetMaxWidth(60).SetExpansion(1))
		nl.SetCell(row, 2, tview.NewTableCell(" "+formatTimestamp(n.CreatedAt.UnixMilli())).SetMaxWidth(12))
	}
}

// Selected returns the currently selected notification, or nil.
func (nl *NotificationList) Selected() *api.Notification {
	row, _ := nl.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(nl.notifs) {
		return &nl.notifs[idx]
	}
	return nil
}
