package store

import "time"

// SaveOffer marks a listing as saved. Saving twice is a no-op.
func (db *DB) SaveOffer(offerID int64) error {
	_, err := db.Exec(`
		INSERT INTO saved_offers (offer_id, saved_at) VALUES (?, ?)
		ON CONFLICT(offer_id) DO NOTHING`,
		offerID, time.Now().UnixMilli())
	return err
}

// UnsaveOffer clears the saved marker.
func (db *DB) UnsaveOffer(offerID int64) error {
	_, err := db.Exec(`DELETE FROM saved_offers WHERE offer_id = ?`, offerID)
	return err
}

// ToggleSavedOffer flips the saved marker and reports the new state.
func (db *DB) ToggleSavedOffer(offerID int64) (bool, error) {
	saved, err := db.IsOfferSaved(offerID)
	if err != nil {
		return false, err
	}
	if saved {
		return false, db.UnsaveOffer(offerID)
	}
	return true, db.SaveOffer(offerID)
}

// IsOfferSaved reports whether the listing carries a saved marker.
func (db *DB) IsOfferSaved(offerID int64) (bool, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM saved_offers WHERE offer_id = ?`, offerID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListSavedOffers returns saved listings, most recently saved first.
func (db *DB) ListSavedOffers() ([]Offer, error) {
	rows, err := db.Query(`
		SELECT o.offer_id, o.company_id, o.company_name, o.material_type, o.quantity,
			o.material_condition, o.price, o.location, o.image_url, o.created_at
		FROM offers o
		JOIN saved_offers s ON o.offer_id = s.offer_id
		ORDER BY s.saved_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.CompanyName, &o.MaterialType, &o.Quantity,
			&o.MaterialCondition, &o.Price, &o.Location, &o.ImageURL, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Saved = true
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
