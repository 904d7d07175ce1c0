package store

import (
	"database/sql"
	"time"
)

// UpsertCorrespondent inserts or updates a roster entry. Empty names never
// overwrite a known name: snapshots sometimes omit the display name.
func (db *DB) UpsertCorrespondent(c *Correspondent) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO correspondents (id, name, company, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = CASE WHEN excluded.name != '' THEN excluded.name ELSE correspondents.name END,
			company = CASE WHEN excluded.company != '' THEN excluded.company ELSE correspondents.company END,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Company, now)
	return err
}

// ListCorrespondents returns the full roster ordered by name.
func (db *DB) ListCorrespondents() ([]Correspondent, error) {
	rows, err := db.Query(`SELECT id, name, company FROM correspondents ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Correspondent
	for rows.Next() {
		var c Correspondent
		if err := rows.Scan(&c.ID, &c.Name, &c.Company); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCorrespondent returns one roster entry, or nil when unknown.
func (db *DB) GetCorrespondent(id int64) (*Correspondent, error) {
	var c Correspondent
	err := db.QueryRow(`SELECT id, name, company FROM correspondents WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Company)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
