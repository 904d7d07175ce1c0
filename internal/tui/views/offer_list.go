package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/Mohahamed99-by/Texturnhub/internal/store"
)

// OfferList shows cached marketplace listings.
type OfferList struct {
	*tview.Table
	offers     []store.Offer
	selectedFn func() (int, int)
}

// NewOfferList creates a new offer table.
func NewOfferList() *OfferList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Offers ")

	ol := &OfferList{Table: table}
	ol.selectedFn = table.GetSelection
	return ol
}

// Update refreshes the offer table with new data.
func (ol *OfferList) Update(offers []store.Offer) {
	ol.offers = offers
	ol.Clear()

	headers := []string{" Material", " Qty", " Price", " Location", " Company", " "}
	for col, h := range headers {
		ol.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	}

	for i, o := range offers {
		row := i + 1
		saved := ""
		if o.Saved {
			saved = "[green]*[-]"
		}
		ol.SetCell(row, 0, tview.NewTableCell(" "+o.MaterialType).SetMaxWidth(20).SetExpansion(1))
		ol.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf(" %.0f kg", o.Quantity)).SetMaxWidth(10))
		ol.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf(" %.2f", o.Price)).SetMaxWidth(10))
		ol.SetCell(row, 3, tview.NewTableCell(" "+o.Location).SetMaxWidth(18).SetExpansion(1))
		ol.SetCell(row, 4, tview.NewTableCell(" "+o.CompanyName).SetMaxWidth(24).SetExpansion(1))
		ol.SetCell(row, 5, tview.NewTableCell(saved).SetMaxWidth(2))
	}
}

// Selected returns the currently selected offer, or nil.
func (ol *OfferList) Selected() *store.Offer {
	row, _ := ol.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(ol.offers) {
		return &ol.offers[idx]
	}
	return nil
}
