package store

import "time"

// UpsertOffer inserts or updates a cached listing.
func (db *DB) UpsertOffer(o *Offer) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO offers (offer_id, company_id, company_name, material_type, quantity, material_condition, price, location, image_url, created_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(offer_id) DO UPDATE SET
			company_name = excluded.company_name,
			material_type = excluded.material_type,
			quantity = excluded.quantity,
			material_condition = excluded.material_condition,
			price = excluded.price,
			location = excluded.location,
			image_url = excluded.image_url,
			created_at = excluded.created_at,
			fetched_at = excluded.fetched_at`,
		o.ID, o.CompanyID, o.CompanyName, o.MaterialType, o.Quantity, o.MaterialCondition, o.Price, o.Location, o.ImageURL, o.CreatedAt, now)
	return err
}

// ListOffers returns cached listings newest first, with the saved flag joined
// in. companyID > 0 restricts to one company's listings.
func (db *DB) ListOffers(companyID int64, limit int) ([]Offer, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.Query(`
		SELECT o.offer_id, o.company_id, o.company_name, o.material_type, o.quantity,
			o.material_condition, o.price, o.location, o.image_url, o.created_at,
			s.offer_id IS NOT NULL AS saved
		FROM offers o
		LEFT JOIN saved_offers s ON o.offer_id = s.offer_id
		WHERE (? <= 0 OR o.company_id = ?)
		ORDER BY o.created_at DESC, o.offer_id DESC
		LIMIT ?`, companyID, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.CompanyName, &o.MaterialType, &o.Quantity,
			&o.MaterialCondition, &o.Price, &o.Location, &o.ImageURL, &o.CreatedAt, &o.Saved); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// DeleteOffer removes a cached listing and any saved marker for it.
func (db *DB) DeleteOffer(id int64) error {
	if _, err := db.Exec(`DELETE FROM saved_offers WHERE offer_id = ?`, id); err != nil {
		return err
	}
	_, err := db.Exec(`DELETE FROM offers WHERE offer_id = ?`, id)
	return err
}
