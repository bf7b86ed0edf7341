package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homeland-merchant-backend/catalog"
	"homeland-merchant-backend/model"
	"homeland-merchant-backend/pkg/notify"
	"homeland-merchant-backend/scan"
)

type fakeListingRepo struct {
	listings map[string]*model.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*model.Listing)}
}

func (f *fakeListingRepo) Insert(l *model.Listing) error {
	cp := *l
	f.listings[l.ID] = &cp
	return nil
}

func (f *fakeListingRepo) Update(l *model.Listing) error {
	cp := *l
	f.listings[l.ID] = &cp
	return nil
}

func (f *fakeListingRepo) Delete(id string) error {
	delete(f.listings, id)
	return nil
}

func (f *fakeListingRepo) GetByID(id string) (*model.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) GetAllActive(now time.Time) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range f.listings {
		if l.ExpiresAt.After(now) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func newListingUsecase(repo ListingRepository, notifier *notify.ListingNotifier) *ListingUsecase {
	return NewListingUsecase(repo, notifier, catalog.Default(), nil, zap.NewNop())
}

func carrot() model.ItemRecord {
	return model.ItemRecord{
		Name:          "胡蘿蔔",
		Quantity:      5,
		PurchaseTimes: 3,
		Exchange:      model.ExchangeCoin,
		Price:         50,
	}
}

func TestCreateListingPadsAndExpires(t *testing.T) {
	uc := newListingUsecase(newFakeListingRepo(), notify.NewListingNotifier())

	l, err := uc.CreateListing("P1", scan.MerchantRegular, nil, []model.ItemRecord{carrot()})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	require.Len(t, l.Items, model.RegularSlots)
	assert.Equal(t, "胡蘿蔔", l.Items[0].Name)
	assert.False(t, l.IsSpecial)
	assert.True(t, l.ExpiresAt.After(l.CreatedAt))
}

func TestCreateListingCorrectsNames(t *testing.T) {
	uc := newListingUsecase(newFakeListingRepo(), notify.NewListingNotifier())

	item := carrot()
	item.Name = "胡蘿葡"
	l, err := uc.CreateListing("P1", scan.MerchantRegular, nil, []model.ItemRecord{item})
	require.NoError(t, err)
	assert.Equal(t, "胡蘿蔔", l.Items[0].Name)
}

func TestCreateListingRejectsIncompleteItems(t *testing.T) {
	uc := newListingUsecase(newFakeListingRepo(), notify.NewListingNotifier())

	item := carrot()
	item.Exchange = model.ExchangeNone
	_, err := uc.CreateListing("P1", scan.MerchantRegular, nil, []model.ItemRecord{item})
	assert.Error(t, err)

	item = carrot()
	item.Price = 0
	_, err = uc.CreateListing("P1", scan.MerchantRegular, nil, []model.ItemRecord{item})
	assert.Error(t, err)
}

func TestCreateListingEnforcesCurrencyRules(t *testing.T) {
	uc := newListingUsecase(newFakeListingRepo(), notify.NewListingNotifier())

	coin := model.ItemRecord{
		Name:             "家園幣",
		Quantity:         40,
		PurchaseTimes:    500,
		Exchange:         model.ExchangeCoin,
		Price:            10,
		ExchangeItemName: "蜂蜜",
		ExchangeQuantity: 2,
	}
	l, err := uc.CreateListing("P1", scan.MerchantSpecial, nil, []model.ItemRecord{coin})
	require.NoError(t, err)
	got := l.Items[0]
	assert.True(t, got.AllowsBarterExchange())
	assert.False(t, got.AllowsCoinExchange())
	assert.Equal(t, 1, got.Quantity)
	assert.True(t, l.IsSpecial)
}

func TestUpdateListingPublishesAndRecomputes(t *testing.T) {
	repo := newFakeListingRepo()
	notifier := notify.NewListingNotifier()
	uc := newListingUsecase(repo, notifier)

	var events []notify.ListingUpdated
	notifier.SubscribeUpdated(func(ev notify.ListingUpdated) { events = append(events, ev) })

	coin := model.ItemRecord{
		Name:             "家園幣",
		Quantity:         1,
		PurchaseTimes:    500,
		Exchange:         model.ExchangeBarter,
		ExchangeItemName: "蜂蜜",
		ExchangeQuantity: 2,
	}
	l, err := uc.CreateListing("P1", scan.MerchantSpecial, nil, []model.ItemRecord{carrot(), coin})
	require.NoError(t, err)
	assert.True(t, l.IsSpecial)

	// owner removes the coin item: listing demotes and carts get told
	updated, err := uc.UpdateListing(l.ID, "P1", nil, []model.ItemRecord{carrot()})
	require.NoError(t, err)
	assert.False(t, updated.IsSpecial)
	require.Len(t, events, 1)
	assert.Equal(t, l.ID, events[0].ListingID)
	assert.Len(t, events[0].Items, model.SpecialSlots)
}

func TestUpdateListingOwnershipEnforced(t *testing.T) {
	uc := newListingUsecase(newFakeListingRepo(), notify.NewListingNotifier())

	l, err := uc.CreateListing("P1", scan.MerchantRegular, nil, []model.ItemRecord{carrot()})
	require.NoError(t, err)

	_, err = uc.UpdateListing(l.ID, "P2", nil, []model.ItemRecord{carrot()})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = uc.DeleteListing(l.ID, "P2")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateListingNotFound(t *testing.T) {
	uc := newListingUsecase(newFakeListingRepo(), notify.NewListingNotifier())
	_, err := uc.UpdateListing("missing", "P1", nil, nil)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestDeleteListingPublishes(t *testing.T) {
	repo := newFakeListingRepo()
	notifier := notify.NewListingNotifier()
	uc := newListingUsecase(repo, notifier)

	var deleted []notify.ListingDeleted
	notifier.SubscribeDeleted(func(ev notify.ListingDeleted) { deleted = append(deleted, ev) })

	l, err := uc.CreateListing("P1", scan.MerchantRegular, nil, []model.ItemRecord{carrot()})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteListing(l.ID, "P1"))
	require.Len(t, deleted, 1)
	assert.Equal(t, l.ID, deleted[0].ListingID)

	got, err := uc.GetListing(l.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// End to end: a seller edit shrinking the purchase limit clamps the
// buyer's carted quantity through the notifier.
func TestListingEditReconcilesCart(t *testing.T) {
	repo := newFakeListingRepo()
	notifier := notify.NewListingNotifier()
	uc := newListingUsecase(repo, notifier)

	cache := newFakeCartCache()
	cartUC := newCartUsecase(cache)
	notifier.SubscribeUpdated(cartUC.HandleListingUpdated)
	notifier.SubscribeDeleted(cartUC.HandleListingDeleted)

	item := model.ItemRecord{Name: "草莓", Quantity: 1, PurchaseTimes: 4, Exchange: model.ExchangeCoin, Price: 20}
	l, err := uc.CreateListing("P1", scan.MerchantRegular, nil, []model.ItemRecord{item})
	require.NoError(t, err)

	cache.carts["u1"] = []model.CartLine{{
		ItemName:      "草莓",
		SellerID:      "P1",
		ListingID:     l.ID,
		Quantity:      4,
		PurchaseTimes: 4,
		Exchange:      model.ExchangeCoin,
		Price:         20,
		LastUpdated:   time.Now(),
	}}

	item.PurchaseTimes = 2
	_, err = uc.UpdateListing(l.ID, "P1", nil, []model.ItemRecord{item})
	require.NoError(t, err)

	lines, err := cartUC.Load("u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].WasUpdated)

	require.NoError(t, uc.DeleteListing(l.ID, "P1"))
	lines, err = cartUC.Load("u1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}
