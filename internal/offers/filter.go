// Package offers holds marketplace display logic over cached listings:
// filtering and ordering happen locally so browsing keeps working between
// refreshes and offline.
package offers

import (
	"sort"
	"strings"

	"github.com/Mohahamed99-by/Texturnhub/internal/store"
)

// Filter narrows a listing set. Empty fields match everything; text fields
// match case-insensitively on substrings.
type Filter struct {
	Location     string
	MaterialType string
	Query        string // free text over company name, material and location
	SavedOnly    bool
}

// Sort orders for Apply.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// Apply filters and orders listings. The input slice is not modified.
func Apply(offers []store.Offer, f Filter, sortBy string) []store.Offer {
	out := make([]store.Offer, 0, len(offers))
	for _, o := range offers {
		if f.matches(o) {
			out = append(out, o)
		}
	}

	switch sortBy {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	}
	return out
}

func (f Filter) matches(o store.Offer) bool {
	if f.SavedOnly && !o.Saved {
		return false
	}
	if !containsFold(o.Location, f.Location) {
		return false
	}
	if !containsFold(o.MaterialType, f.MaterialType) {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		if !containsFold(o.CompanyName, q) && !containsFold(o.MaterialType, q) && !containsFold(o.Location, q) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
