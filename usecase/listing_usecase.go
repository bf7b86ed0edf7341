package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"homeland-merchant-backend/catalog"
	"homeland-merchant-backend/model"
	"homeland-merchant-backend/pkg/notify"
	"homeland-merchant-backend/scan"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrUnauthorized    = errors.New("unauthorized")
)

// ListingRepository abstracts the backing store. Querying, sorting and
// expiry sweeping are the store's problem; this layer only moves whole
// listing records.
type ListingRepository interface {
	Insert(l *model.Listing) error
	Update(l *model.Listing) error
	Delete(id string) error
	GetByID(id string) (*model.Listing, error)
	GetAllActive(now time.Time) ([]model.Listing, error)
}

type ListingUsecase struct {
	repo     ListingRepository
	notifier *notify.ListingNotifier
	cat      *catalog.Catalog
	scanner  *scan.Scanner
	logger   *zap.Logger
	now      func() time.Time
}

func NewListingUsecase(repo ListingRepository, notifier *notify.ListingNotifier, cat *catalog.Catalog, scanner *scan.Scanner, logger *zap.Logger) *ListingUsecase {
	return &ListingUsecase{
		repo:     repo,
		notifier: notifier,
		cat:      cat,
		scanner:  scanner,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateListing saves a reviewed report. Items may come from the manual
// form or from an OCR draft the player fixed up; either way names are
// re-corrected and the exchange rules re-applied before anything persists.
func (u *ListingUsecase) CreateListing(sellerID string, kind scan.MerchantKind, discount *int, items []model.ItemRecord) (*model.Listing, error) {
	if sellerID == "" {
		return nil, errors.New("seller id is required")
	}
	sanitized, err := u.sanitizeItems(kind.Capacity(), items)
	if err != nil {
		return nil, err
	}

	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	id := ulid.MustNew(ulid.Now(), entropy).String()

	now := u.now()
	l := &model.Listing{
		ID:              id,
		SellerID:        sellerID,
		DiscountPercent: discount,
		Items:           sanitized,
		CreatedAt:       now,
		ExpiresAt:       nextDailyReset(now),
	}
	scan.RecomputeSpecial(u.cat, l)

	if err := u.repo.Insert(l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateListing replaces a listing's slots and discount. Only the owner may
// edit; every cart holding lines from this listing is reconciled through
// the published notification.
func (u *ListingUsecase) UpdateListing(id, sellerID string, discount *int, items []model.ItemRecord) (*model.Listing, error) {
	l, err := u.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrListingNotFound
	}
	if l.SellerID != sellerID {
		return nil, ErrUnauthorized
	}

	sanitized, err := u.sanitizeItems(len(l.Items), items)
	if err != nil {
		return nil, err
	}
	l.Items = sanitized
	l.DiscountPercent = discount
	scan.RecomputeSpecial(u.cat, l)

	if err := u.repo.Update(l); err != nil {
		return nil, err
	}
	u.notifier.PublishUpdated(l.ID, l.Items)
	return l, nil
}

func (u *ListingUsecase) DeleteListing(id, sellerID string) error {
	l, err := u.repo.GetByID(id)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrListingNotFound
	}
	if l.SellerID != sellerID {
		return ErrUnauthorized
	}
	if err := u.repo.Delete(id); err != nil {
		return err
	}
	u.notifier.PublishDeleted(id)
	return nil
}

func (u *ListingUsecase) GetListing(id string) (*model.Listing, error) {
	return u.repo.GetByID(id)
}

func (u *ListingUsecase) GetActiveListings() ([]model.Listing, error) {
	return u.repo.GetAllActive(u.now())
}

// ScanDraft runs one screenshot through the OCR pipeline and returns the
// draft for human review. The draft is not persisted; CreateListing is.
func (u *ListingUsecase) ScanDraft(ctx context.Context, image []byte, mimeType string, kind scan.MerchantKind, scanIndex int, draft *model.Listing) (*scan.Result, error) {
	if scanIndex != 1 && scanIndex != 2 {
		return nil, fmt.Errorf("invalid scan index %d", scanIndex)
	}
	if scanIndex == 2 && kind != scan.MerchantSpecial {
		return nil, errors.New("second scan only applies to special merchants")
	}
	return u.scanner.Scan(ctx, image, mimeType, kind, scanIndex, draft)
}

// sanitizeItems corrects names, re-applies the exchange rules and pads to
// capacity. Placeholder rows pass through untouched; filled rows must be
// complete, the review form does not submit half-extracted items.
func (u *ListingUsecase) sanitizeItems(capacity int, items []model.ItemRecord) ([]model.ItemRecord, error) {
	if len(items) > capacity {
		return nil, fmt.Errorf("at most %d items allowed", capacity)
	}
	out := model.EmptyItems(capacity)
	for i, rec := range items {
		if rec.IsPlaceholder() {
			continue
		}
		rec.Name = u.cat.Correct(rec.Name)
		rec = u.cat.ApplyExchangeRules(rec)
		if rec.Quantity <= 0 || rec.PurchaseTimes <= 0 {
			return nil, fmt.Errorf("item %q needs a positive quantity and purchase limit", rec.Name)
		}
		switch rec.Exchange {
		case model.ExchangeCoin:
			if rec.Price <= 0 {
				return nil, fmt.Errorf("item %q needs a price", rec.Name)
			}
			rec.ExchangeItemName = ""
			rec.ExchangeQuantity = 0
		case model.ExchangeBarter:
			if rec.ExchangeItemName == "" || rec.ExchangeQuantity <= 0 {
				return nil, fmt.Errorf("item %q needs barter terms", rec.Name)
			}
			rec.Price = 0
		default:
			return nil, fmt.Errorf("item %q has no trade terms", rec.Name)
		}
		out[i] = rec
	}
	return out, nil
}

// nextDailyReset is when the in-game merchants roll over and every listing
// for the current day expires.
func nextDailyReset(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
