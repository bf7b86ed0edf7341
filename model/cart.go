package model

import "time"

// CartLine is one purchase intent. Identity within a cart is the pair
// (ItemName, SellerID); ListingID is kept for lookup only, the line does not
// own the listing. Pricing fields are a snapshot of the ItemRecord at the
// time of the last sync and may go stale until the next reconciliation.
type CartLine struct {
	ItemName         string    `json:"item_name"`
	SellerID         string    `json:"seller_id"`
	ListingID        string    `json:"listing_id"`
	Quantity         int       `json:"quantity"` // user-chosen, 1..PurchaseTimes
	PurchaseTimes    int       `json:"purchase_times"`
	Exchange         Exchange  `json:"exchange"`
	Price            int       `json:"price,omitempty"`
	ExchangeItemName string    `json:"exchange_item_name,omitempty"`
	ExchangeQuantity int       `json:"exchange_quantity,omitempty"`
	WasUpdated       bool      `json:"was_updated"`
	LastUpdated      time.Time `json:"last_updated"`
}

// SameKey reports whether two lines refer to the same merchant slot.
func (l CartLine) SameKey(itemName, sellerID string) bool {
	return l.ItemName == itemName && l.SellerID == sellerID
}
