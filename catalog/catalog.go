// Package catalog holds the static reference data the OCR pipeline matches
// against: the valid item names, the OCR misread correction table, and the
// item sets that constrain how a slot may be traded. A Catalog is an
// immutable value built once and injected everywhere, so tests can swap in
// a small fake without touching globals.
package catalog

import (
	"strings"

	"homeland-merchant-backend/model"
)

type Catalog struct {
	// CoinName is the special in-game currency token. It doubles as the
	// currency unit in price lines ("50 家園幣").
	CoinName string
	// OtherName marks a free-text custom item ("其他"); such names bypass
	// catalog membership checks.
	OtherName string

	names       []string
	nameSet     map[string]struct{}
	corrections map[string]string
	// correctionOrder keeps substring replacement deterministic.
	correctionOrder []string
	currencySet     map[string]struct{}
	barterOnlySet   map[string]struct{}
}

// Config is the raw data a Catalog is built from.
type Config struct {
	CoinName    string
	OtherName   string
	Names       []string
	Corrections map[string]string
	// CurrencyItems trade only against goods and always one unit at a time.
	CurrencyItems []string
	// BarterOnlyItems never sell for coin.
	BarterOnlyItems []string
}

func New(cfg Config) *Catalog {
	c := &Catalog{
		CoinName:      cfg.CoinName,
		OtherName:     cfg.OtherName,
		names:         append([]string(nil), cfg.Names...),
		nameSet:       make(map[string]struct{}, len(cfg.Names)),
		corrections:   make(map[string]string, len(cfg.Corrections)),
		currencySet:   make(map[string]struct{}, len(cfg.CurrencyItems)),
		barterOnlySet: make(map[string]struct{}, len(cfg.BarterOnlyItems)),
	}
	for _, n := range cfg.Names {
		c.nameSet[n] = struct{}{}
	}
	for k, v := range cfg.Corrections {
		c.corrections[k] = v
	}
	for _, k := range sortedKeys(cfg.Corrections) {
		c.correctionOrder = append(c.correctionOrder, k)
	}
	for _, n := range cfg.CurrencyItems {
		c.currencySet[n] = struct{}{}
	}
	for _, n := range cfg.BarterOnlyItems {
		c.barterOnlySet[n] = struct{}{}
	}
	return c
}

// Names returns the catalog names in their declared order.
func (c *Catalog) Names() []string {
	return c.names
}

func (c *Catalog) IsKnown(name string) bool {
	_, ok := c.nameSet[name]
	return ok
}

// IsCurrency reports whether name belongs to the currency-item set
// (the coin itself included).
func (c *Catalog) IsCurrency(name string) bool {
	if name == c.CoinName {
		return true
	}
	_, ok := c.currencySet[name]
	return ok
}

// IsBarterOnly reports whether the game forbids selling name for coin.
// Empty and custom "other" names are never barter-only; the currency set
// is handled by IsCurrency.
func (c *Catalog) IsBarterOnly(name string) bool {
	if name == "" || name == c.OtherName || c.IsCurrency(name) {
		return false
	}
	_, ok := c.barterOnlySet[name]
	return ok
}

// Correct maps an OCR-recognized string to its canonical catalog form.
// Exact table hits win; otherwise every misread substring is replaced
// wherever it occurs. Unknown input comes back unchanged. Correct is
// idempotent: re-editing an already-corrected listing must not alter it.
func (c *Catalog) Correct(raw string) string {
	if fixed, ok := c.corrections[raw]; ok {
		return fixed
	}
	out := raw
	for _, bad := range c.correctionOrder {
		if strings.Contains(out, bad) {
			out = strings.ReplaceAll(out, bad, c.corrections[bad])
		}
	}
	return out
}

// ApplyExchangeRules rewrites an item so it satisfies the game's trade
// constraints: currency items are always bartered one at a time, and
// barter-only items never carry a coin price.
func (c *Catalog) ApplyExchangeRules(rec model.ItemRecord) model.ItemRecord {
	if c.IsCurrency(rec.Name) {
		rec.Exchange = model.ExchangeBarter
		rec.Quantity = 1
		rec.Price = 0
		return rec
	}
	if c.IsBarterOnly(rec.Name) {
		rec.Exchange = model.ExchangeBarter
		rec.Price = 0
	}
	return rec
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// insertion sort; the table is ~20 entries
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
