package scan

import (
	"homeland-merchant-backend/catalog"
	"homeland-merchant-backend/model"
)

// MerchantKind is the player's declared merchant type before scanning.
// A special (currency) merchant is captured in two scans: the first covers
// the six general slots, the second the three currency-only slots.
type MerchantKind int

const (
	MerchantRegular MerchantKind = iota
	MerchantSpecial
)

func (k MerchantKind) Capacity() int {
	if k == MerchantSpecial {
		return model.SpecialSlots
	}
	return model.RegularSlots
}

// Assemble writes extracted items into the listing draft's slots. Scan 1
// fills slots 0..5; scan 2 of a special merchant fills slots 6..8 and
// rewrites every record to a bartered currency item, because that screen
// region only ever shows the coin, whatever the extractor thought it saw.
// Unused slots stay as placeholders so the edit form has stable rows.
func Assemble(cat *catalog.Catalog, kind MerchantKind, scanIndex int, items []model.ItemRecord, draft *model.Listing) *model.Listing {
	capacity := kind.Capacity()
	if draft == nil {
		draft = &model.Listing{Items: model.EmptyItems(capacity)}
	}
	if len(draft.Items) != capacity {
		resized := model.EmptyItems(capacity)
		copy(resized, draft.Items)
		draft.Items = resized
	}

	lo, hi := 0, model.RegularSlots
	if kind == MerchantSpecial && scanIndex == 2 {
		lo, hi = model.SpecialCoinOffset, model.SpecialSlots
	}
	for i := lo; i < hi && i-lo < len(items); i++ {
		rec := items[i-lo]
		if kind == MerchantSpecial && scanIndex == 2 {
			rec.Name = cat.CoinName
			rec = cat.ApplyExchangeRules(rec)
		}
		draft.Items[i] = rec
	}

	RecomputeSpecial(cat, draft)
	return draft
}

// RecomputeSpecial re-derives the special-merchant flag from the slots.
// It runs after every edit, not just at assembly: removing the last coin
// item demotes the listing back to a regular merchant.
func RecomputeSpecial(cat *catalog.Catalog, l *model.Listing) {
	l.IsSpecial = false
	for _, it := range l.Items {
		if it.Name == cat.CoinName {
			l.IsSpecial = true
			return
		}
	}
}
