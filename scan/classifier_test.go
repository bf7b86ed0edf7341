package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeland-merchant-backend/catalog"
)

func TestClassifyTagsLines(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name string
		line string
		want LineKind
	}{
		{"item name", "胡蘿蔔", LineItem},
		{"item name with noise", "販售中 高麗菜", LineItem},
		{"bare quantity", "12", LineQuantity},
		{"price", "50 家園幣", LinePrice},
		{"price no space", "120家園幣", LinePrice},
		{"currency alone", "家園幣", LineCurrency},
		{"currency with suffix", "家園幣 出售", LineCurrency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Classify(cat, tt.line)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Kind)
		})
	}
}

func TestClassifyDropsUntaggedAndEmpty(t *testing.T) {
	cat := catalog.Default()
	lines := Classify(cat, "胡蘿蔔\n\n   \n亂七八糟的雜訊\n5\n")
	require.Len(t, lines, 2)
	assert.Equal(t, LineItem, lines[0].Kind)
	assert.Equal(t, LineQuantity, lines[1].Kind)
	// positions are contiguous over kept lines
	assert.Equal(t, 0, lines[0].Pos)
	assert.Equal(t, 1, lines[1].Pos)
}

// One line, one tag: an item name sharing a line with a price stays an item
// line, and the price must be recovered from a neighbor.
func TestClassifySingleTagItemWins(t *testing.T) {
	cat := catalog.Default()
	lines := Classify(cat, "胡蘿蔔 50 家園幣")
	require.Len(t, lines, 1)
	assert.Equal(t, LineItem, lines[0].Kind)
	assert.Equal(t, "胡蘿蔔", lines[0].ItemName)
}

// Longer names win so "胡蘿蔔種子" is not misread as "胡蘿蔔".
func TestClassifyPrefersLongestName(t *testing.T) {
	cat := catalog.New(catalog.Config{
		CoinName: "家園幣",
		Names:    []string{"胡蘿蔔", "胡蘿蔔種子"},
	})
	lines := Classify(cat, "販售 胡蘿蔔種子 數個")
	require.Len(t, lines, 1)
	assert.Equal(t, "胡蘿蔔種子", lines[0].ItemName)
}

func TestClassifyCorrectsMisreadsFirst(t *testing.T) {
	cat := catalog.Default()
	lines := Classify(cat, "胡蘿葡")
	require.Len(t, lines, 1)
	assert.Equal(t, LineItem, lines[0].Kind)
	assert.Equal(t, "胡蘿蔔", lines[0].ItemName)
}

func TestFindDiscount(t *testing.T) {
	n, ok := FindDiscount("今日特賣\n全場 -10%\n快來")
	require.True(t, ok)
	assert.Equal(t, -10, n)

	n, ok = FindDiscount("折扣 5% 與 8%")
	require.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = FindDiscount("沒有折扣")
	assert.False(t, ok)
}
