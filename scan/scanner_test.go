package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homeland-merchant-backend/catalog"
	"homeland-merchant-backend/model"
)

type fakeRecognizer struct {
	blob string
	err  error
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte, _ string) (string, error) {
	return f.blob, f.err
}

func TestScanAssemblesDraft(t *testing.T) {
	s := NewScanner(catalog.Default(), &fakeRecognizer{blob: "胡蘿蔔\n5\n本攤位可購入:3\n50 家園幣"}, zap.NewNop())

	res, err := s.Scan(context.Background(), []byte("img"), "image/png", MerchantRegular, 1, nil)
	require.NoError(t, err)
	require.Len(t, res.Listing.Items, model.RegularSlots)
	assert.Equal(t, "胡蘿蔔", res.Listing.Items[0].Name)
	assert.Empty(t, res.Warning)
}

func TestScanPicksUpDiscount(t *testing.T) {
	s := NewScanner(catalog.Default(), &fakeRecognizer{blob: "全場 -10%\n胡蘿蔔\n5\n50 家園幣"}, zap.NewNop())

	res, err := s.Scan(context.Background(), []byte("img"), "image/png", MerchantRegular, 1, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Listing.DiscountPercent)
	assert.Equal(t, -10, *res.Listing.DiscountPercent)
}

// An unreadable screenshot surfaces the error but still hands back a
// renderable draft for manual entry.
func TestScanOcrFailureReturnsMinimalDraft(t *testing.T) {
	s := NewScanner(catalog.Default(), &fakeRecognizer{err: errors.New("engine unreachable")}, zap.NewNop())

	res, err := s.Scan(context.Background(), []byte("img"), "image/png", MerchantRegular, 1, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Listing.Items, 1)
	assert.True(t, res.Listing.Items[0].IsPlaceholder())
}

// Garbage text is a soft warning, not an error: the caller gets an
// all-placeholder draft.
func TestScanNoItemsIsSoftWarning(t *testing.T) {
	s := NewScanner(catalog.Default(), &fakeRecognizer{blob: "完全無法辨識的雜訊"}, zap.NewNop())

	res, err := s.Scan(context.Background(), []byte("img"), "image/png", MerchantRegular, 1, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warning)
	require.Len(t, res.Listing.Items, model.RegularSlots)
	for _, it := range res.Listing.Items {
		assert.True(t, it.IsPlaceholder())
	}
}
