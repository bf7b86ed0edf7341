package dao

import (
	"database/sql"

	"homeland-merchant-backend/model"
)

// CartMirror pushes cart snapshots to MySQL so a future session on another
// device can start from something. It is eventually consistent with the
// local cache and never authoritative over it; failures are the caller's to
// log and shrug at.
type CartMirror struct {
	db *sql.DB
}

func NewCartMirror(db *sql.DB) *CartMirror {
	return &CartMirror{db: db}
}

// ReplaceSnapshot overwrites the user's remote cart with the given lines.
func (m *CartMirror) ReplaceSnapshot(userID string, lines []model.CartLine) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cart_lines WHERE user_id = ?`, userID); err != nil {
		return err
	}
	insert := `
		INSERT INTO cart_lines (user_id, item_name, seller_id, listing_id, quantity,
			purchase_times, exchange, price, exchange_item_name, exchange_quantity,
			was_updated, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, l := range lines {
		_, err := tx.Exec(insert, userID, l.ItemName, l.SellerID, l.ListingID, l.Quantity,
			l.PurchaseTimes, string(l.Exchange), l.Price, l.ExchangeItemName, l.ExchangeQuantity,
			l.WasUpdated, l.LastUpdated)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
