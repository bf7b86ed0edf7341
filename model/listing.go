package model

import "time"

// Exchange tells how a merchant slot is paid for. Exactly one mode per item;
// placeholder slots carry ExchangeNone until the owner fills them in.
type Exchange string

const (
	ExchangeNone   Exchange = ""
	ExchangeCoin   Exchange = "coin"
	ExchangeBarter Exchange = "barter"
)

// Slot capacities per merchant kind. A special merchant's last three slots
// are the currency-only region captured by the second screenshot.
const (
	RegularSlots      = 6
	SpecialSlots      = 9
	SpecialCoinOffset = 6
)

type ItemRecord struct {
	Name             string   `json:"name"`
	Quantity         int      `json:"quantity"`       // units per purchase
	PurchaseTimes    int      `json:"purchase_times"` // how many times the slot can be bought
	Exchange         Exchange `json:"exchange"`
	Price            int      `json:"price,omitempty"`              // coin exchange only
	ExchangeItemName string   `json:"exchange_item_name,omitempty"` // barter exchange only
	ExchangeQuantity int      `json:"exchange_quantity,omitempty"`  // barter exchange only
}

// IsPlaceholder reports whether the slot is an empty padding row.
func (i ItemRecord) IsPlaceholder() bool {
	return i.Name == ""
}

// AllowsCoinExchange / AllowsBarterExchange mirror the game's two trade modes.
// The single Exchange tag guarantees they can never both be true.
func (i ItemRecord) AllowsCoinExchange() bool   { return i.Exchange == ExchangeCoin }
func (i ItemRecord) AllowsBarterExchange() bool { return i.Exchange == ExchangeBarter }

type Listing struct {
	ID              string       `json:"id"`
	SellerID        string       `json:"seller_id"`
	DiscountPercent *int         `json:"discount_percent,omitempty"`
	IsSpecial       bool         `json:"is_special_merchant"`
	Items           []ItemRecord `json:"items"` // fixed length: 6 regular, 9 special
	CreatedAt       time.Time    `json:"created_at"`
	ExpiresAt       time.Time    `json:"expires_at"`
}

// EmptyItems returns n placeholder slots so the edit form always renders a
// stable number of rows.
func EmptyItems(n int) []ItemRecord {
	return make([]ItemRecord, n)
}
