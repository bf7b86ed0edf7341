package dao

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"homeland-merchant-backend/model"
)

// CartCache is the local durable store the cart engine treats as
// authoritative. It lives in a SQLite file next to the process; the MySQL
// mirror is strictly best-effort and never read back.
type CartCache struct {
	db *sql.DB
}

// OpenCartCache opens (and if needed initializes) the SQLite cart cache.
func OpenCartCache(path string) (*CartCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `
		CREATE TABLE IF NOT EXISTS cart_lines (
			user_id            TEXT NOT NULL,
			item_name          TEXT NOT NULL,
			seller_id          TEXT NOT NULL,
			listing_id         TEXT NOT NULL,
			quantity           INTEGER NOT NULL,
			purchase_times     INTEGER NOT NULL,
			exchange           TEXT NOT NULL,
			price              INTEGER NOT NULL DEFAULT 0,
			exchange_item_name TEXT NOT NULL DEFAULT '',
			exchange_quantity  INTEGER NOT NULL DEFAULT 0,
			was_updated        INTEGER NOT NULL DEFAULT 0,
			last_updated       TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, item_name, seller_id)
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cart cache schema: %w", err)
	}
	return &CartCache{db: db}, nil
}

func (c *CartCache) Close() error {
	return c.db.Close()
}

func (c *CartCache) Load(userID string) ([]model.CartLine, error) {
	query := `
		SELECT item_name, seller_id, listing_id, quantity, purchase_times,
		       exchange, price, exchange_item_name, exchange_quantity,
		       was_updated, last_updated
		FROM cart_lines
		WHERE user_id = ?
		ORDER BY last_updated
	`
	rows, err := c.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		var exchange string
		var updated time.Time
		err := rows.Scan(&l.ItemName, &l.SellerID, &l.ListingID, &l.Quantity, &l.PurchaseTimes,
			&exchange, &l.Price, &l.ExchangeItemName, &l.ExchangeQuantity,
			&l.WasUpdated, &updated)
		if err != nil {
			return nil, err
		}
		l.Exchange = model.Exchange(exchange)
		l.LastUpdated = updated
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Users lists every user with cached cart lines, for reconciliation sweeps.
func (c *CartCache) Users() ([]string, error) {
	rows, err := c.db.Query(`SELECT DISTINCT user_id FROM cart_lines`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// Save atomically rewrites the user's full cart snapshot. Every mutation
// goes through here as a whole; there are no incremental writes.
func (c *CartCache) Save(userID string, lines []model.CartLine) error {
	tx, err := c.db.Begin()
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
