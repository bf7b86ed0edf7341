package dao

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"homeland-merchant-backend/model"
)

// ListingRepository reads and writes whole listing records. The slot array
// is stored as a JSON column: the store boundary only ever moves complete
// listings, so there is nothing to gain from a second table.
type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Insert(l *model.Listing) error {
	items, err := json.Marshal(l.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	query := `
		INSERT INTO listings (id, seller_id, discount_percent, is_special, items, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, l.ID, l.SellerID, l.DiscountPercent, l.IsSpecial, items, l.CreatedAt, l.ExpiresAt)
	return err
}

func (r *ListingRepository) Update(l *model.Listing) error {
	items, err := json.Marshal(l.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	query := `
		UPDATE listings
		SET discount_percent = ?, is_special = ?, items = ?, expires_at = ?
		WHERE id = ?
	`
	_, err = r.db.Exec(query, l.DiscountPercent, l.IsSpecial, items, l.ExpiresAt, l.ID)
	return err
}

func (r *ListingRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM listings WHERE id = ?`, id)
	return err
}

func (r *ListingRepository) GetByID(id string) (*model.Listing, error) {
	query := `
		SELECT id, seller_id, discount_percent, is_special, items, created_at, expires_at
		FROM listings
		WHERE id = ?
	`
	l, err := scanListing(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetAllActive returns unexpired listings, newest first. Expiry sweeping is
// not this layer's job; expired rows are simply filtered out until the
// external daily reset removes them.
func (r *ListingRepository) GetAllActive(now time.Time) ([]model.Listing, error) {
	query := `
		SELECT id, seller_id, discount_percent, is_special, items, created_at, expires_at
		FROM listings
		WHERE expires_at > ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*model.Listing, error) {
	var l model.Listing
	var discount sql.NullInt64
	var items []byte

	if err := row.Scan(&l.ID, &l.SellerID, &discount, &l.IsSpecial, &items, &l.CreatedAt, &l.ExpiresAt); err != nil {
		return nil, err
	}
	if discount.Valid {
		d := int(discount.Int64)
		l.DiscountPercent = &d
	}
	if err := json.Unmarshal(items, &l.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return &l, nil
}
