package usecase

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"homeland-merchant-backend/catalog"
	"homeland-merchant-backend/model"
	"homeland-merchant-backend/pkg/notify"
)

// CartCache is the local durable store; the single authoritative source of
// a user's cart.
type CartCache interface {
	Load(userID string) ([]model.CartLine, error)
	Save(userID string, lines []model.CartLine) error
	Users() ([]string, error)
}

// CartMirror is the best-effort remote copy. Write-only from here.
type CartMirror interface {
	ReplaceSnapshot(userID string, lines []model.CartLine) error
}

// CartChangeHandler receives the complete new snapshot after a mutation.
// Observers never see partial updates.
type CartChangeHandler func(userID string, snapshot []model.CartLine)

// CartUsecase is the cart synchronization engine. Handlers run serially on
// the host's event dispatch; every mutating transition re-reads the latest
// snapshot, mutates, persists the whole snapshot, then notifies. Last local
// write wins; the mirror is eventually consistent and never read back.
type CartUsecase struct {
	cache    CartCache
	mirror   CartMirror
	cat      *catalog.Catalog
	logger   *zap.Logger
	onChange []CartChangeHandler
	now      func() time.Time
}

func NewCartUsecase(cache CartCache, mirror CartMirror, cat *catalog.Catalog, logger *zap.Logger) *CartUsecase {
	return &CartUsecase{
		cache:  cache,
		mirror: mirror,
		cat:    cat,
		logger: logger,
		now:    time.Now,
	}
}

// OnChange registers a snapshot observer. Wiring-time only.
func (u *CartUsecase) OnChange(h CartChangeHandler) {
	u.onChange = append(u.onChange, h)
}

// Load returns the user's cart with malformed entries pruned and
// quantities clamped. Pruning happens on every load, not just mutation, so
// old bad data can never reach a view.
func (u *CartUsecase) Load(userID string) ([]model.CartLine, error) {
	lines, err := u.cache.Load(userID)
	if err != nil {
		return nil, err
	}
	return pruneAndClamp(lines), nil
}

// Contains re-derives the listing view's membership indicator by linear
// scan against the identity key.
func (u *CartUsecase) Contains(userID, itemName, sellerID string) (bool, error) {
	lines, err := u.Load(userID)
	if err != nil {
		return false, err
	}
	for _, l := range lines {
		if l.SameKey(itemName, sellerID) {
			return true, nil
		}
	}
	return false, nil
}

// Add puts a candidate line in the cart. An existing line with the same
// (itemName, sellerId) key keeps its chosen quantity but gets every
// mirrored field refreshed from the candidate; a new line starts at
// quantity 1.
func (u *CartUsecase) Add(userID string, candidate model.CartLine) ([]model.CartLine, error) {
	if candidate.ItemName == "" || candidate.SellerID == "" {
		return nil, errors.New("cart line needs an item name and a seller id")
	}
	lines, err := u.Load(userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	found := false
	for i := range lines {
		if !lines[i].SameKey(candidate.ItemName, candidate.SellerID) {
			continue
		}
		kept := lines[i].Quantity
		candidate.Quantity = kept
		candidate.WasUpdated = lines[i].WasUpdated
		candidate.LastUpdated = now
		lines[i] = clampLine(candidate)
		found = true
		break
	}
	if !found {
		candidate.Quantity = 1
		candidate.WasUpdated = false
		candidate.LastUpdated = now
		lines = append(lines, clampLine(candidate))
	}
	return u.commit(userID, lines)
}

// SetQuantity clamps the requested quantity to [1, purchaseTimes]; asking
// for less than one removes the line instead.
func (u *CartUsecase) SetQuantity(userID, itemName, sellerID string, quantity int) ([]model.CartLine, error) {
	if quantity < 1 {
		return u.Remove(userID, itemName, sellerID)
	}
	lines, err := u.Load(userID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if !lines[i].SameKey(itemName, sellerID) {
			continue
		}
		lines[i].Quantity = quantity
		lines[i].LastUpdated = u.now()
		lines[i] = clampLine(lines[i])
		return u.commit(userID, lines)
	}
	return lines, nil
}

func (u *CartUsecase) Remove(userID, itemName, sellerID string) ([]model.CartLine, error) {
	lines, err := u.Load(userID)
	if err != nil {
		return nil, err
	}
	kept := lines[:0]
	for _, l := range lines {
		if !l.SameKey(itemName, sellerID) {
			kept = append(kept, l)
		}
	}
	return u.commit(userID, kept)
}

func (u *CartUsecase) Clear(userID string) ([]model.CartLine, error) {
	return u.commit(userID, nil)
}

// HandleListingUpdated reconciles every cart against a listing edit. A line
// whose item is found gets the mirrored fields overwritten and its quantity
// clamped to the new purchase limit; a line whose item is not found is left
// untouched on purpose; items get renamed and removed without the buyer's
// intent going away, and a later full reconciliation catches real
// staleness.
func (u *CartUsecase) HandleListingUpdated(ev notify.ListingUpdated) {
	u.forEachCart(func(userID string, lines []model.CartLine) ([]model.CartLine, bool) {
		changed := false
		now := u.now()
		for i := range lines {
			if lines[i].ListingID != ev.ListingID {
				continue
			}
			item, ok := u.matchItem(ev.Items, lines[i].ItemName)
			if !ok {
				u.logger.Info("reconciliation miss, leaving cart line as-is",
					zap.String("user_id", userID),
					zap.String("item_name", lines[i].ItemName),
					zap.String("listing_id", ev.ListingID))
				continue
			}
			lines[i].Exchange = item.Exchange
			lines[i].Price = item.Price
			lines[i].ExchangeItemName = item.ExchangeItemName
			lines[i].ExchangeQuantity = item.ExchangeQuantity
			lines[i].PurchaseTimes = item.PurchaseTimes
			if lines[i].Quantity > item.PurchaseTimes {
				lines[i].Quantity = item.PurchaseTimes
			}
			lines[i].WasUpdated = true
			lines[i].LastUpdated = now
			changed = true
		}
		return lines, changed
	})
}

// HandleListingDeleted drops every line backed by the deleted listing,
// unconditionally, from every cart.
func (u *CartUsecase) HandleListingDeleted(ev notify.ListingDeleted) {
	u.forEachCart(func(userID string, lines []model.CartLine) ([]model.CartLine, bool) {
		kept := lines[:0]
		for _, l := range lines {
			if l.ListingID != ev.ListingID {
				kept = append(kept, l)
			}
		}
		return kept, len(kept) != len(lines)
	})
}

// matchItem finds the listing item a cart line refers to: exact name first,
// then the custom "other"-category slot when the line itself carries a
// custom name.
func (u *CartUsecase) matchItem(items []model.ItemRecord, lineName string) (model.ItemRecord, bool) {
	for _, it := range items {
		if it.Name == lineName {
			return it, true
		}
	}
	if !u.cat.IsKnown(lineName) {
		for _, it := range items {
			if !it.IsPlaceholder() && !u.cat.IsKnown(it.Name) {
				return it, true
			}
		}
	}
	return model.ItemRecord{}, false
}

func (u *CartUsecase) forEachCart(mutate func(userID string, lines []model.CartLine) ([]model.CartLine, bool)) {
	users, err := u.cache.Users()
	if err != nil {
		u.logger.Error("listing cart users failed", zap.Error(err))
		return
	}
	for _, userID := range users {
		lines, err := u.Load(userID)
		if err != nil {
			u.logger.Error("loading cart failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		next, changed := mutate(userID, lines)
		if !changed {
			continue
		}
		if _, err := u.commit(userID, next); err != nil {
			u.logger.Error("reconciling cart failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// commit is the single write path: persist the full snapshot, mirror it
// best-effort, then notify observers with the complete new state. When the
// durable save fails the mutated snapshot still stands in memory and is
// still announced; the caller gets the error and owns the retry.
func (u *CartUsecase) commit(userID string, lines []model.CartLine) ([]model.CartLine, error) {
	saveErr := u.cache.Save(userID, lines)
	if saveErr != nil {
		u.logger.Error("cart cache save failed", zap.String("user_id", userID), zap.Error(saveErr))
	}
	if u.mirror != nil {
		if err := u.mirror.ReplaceSnapshot(userID, lines); err != nil {
			u.logger.Warn("cart mirror sync failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	for _, h := range u.onChange {
		h(userID, lines)
	}
	return lines, saveErr
}

// pruneAndClamp drops malformed entries and restores the quantity
// invariant 1 <= quantity <= purchaseTimes.
func pruneAndClamp(lines []model.CartLine) []model.CartLine {
	var out []model.CartLine
	for _, l := range lines {
		if l.ItemName == "" || l.SellerID == "" || l.Quantity <= 0 {
			continue
		}
		out = append(out, clampLine(l))
	}
	return out
}

func clampLine(l model.CartLine) model.CartLine {
	if l.Quantity < 1 {
		l.Quantity = 1
	}
	if l.PurchaseTimes > 0 && l.Quantity > l.PurchaseTimes {
		l.Quantity = l.PurchaseTimes
	}
	return l
}
