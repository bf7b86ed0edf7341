// Package scan turns a raw OCR text blob into a structured merchant listing.
// The pipeline is ordered and one-way: classify lines, correct names, extract
// fields, assemble fixed-capacity slots. OCR output is noisy and unordered,
// so everything downstream works on proximity rather than strict adjacency.
package scan

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"homeland-merchant-backend/catalog"
)

// LineKind is the single tag a classified line carries.
type LineKind int

const (
	LineUntagged LineKind = iota
	LineCurrency          // contains the coin token with no digits before it
	LineItem              // contains a catalog item name
	LineQuantity          // bare number
	LinePrice             // number followed by the currency unit
)

// Line is one non-empty OCR line after trimming and name correction.
// Pos is the line's position among the kept lines; proximity matching in the
// extractor works on these positions.
type Line struct {
	Pos  int
	Text string // corrected text
	Kind LineKind
	// ItemName is set for item lines (canonical catalog name) and for
	// currency lines (the coin token).
	ItemName string
}

var (
	bareNumberRe = regexp.MustCompile(`^\d+$`)
	discountRe   = regexp.MustCompile(`-?\d+%`)
	numberRe     = regexp.MustCompile(`\d+`)
)

// Classify splits the blob into lines and tags each with the first matching
// category. A line gets exactly one tag; when an item name and a price
// pattern share a line the item tag wins and the extractor recovers the
// price from a neighboring line.
func Classify(cat *catalog.Catalog, blob string) []Line {
	price := priceRe(cat)
	var out []Line
	pos := 0
	for _, raw := range strings.Split(blob, "\n") {
		text := cat.Correct(strings.TrimSpace(raw))
		if text == "" {
			continue
		}
		line := Line{Pos: pos, Text: text, Kind: classify(cat, price, text)}
		if line.Kind == LineUntagged {
			continue
		}
		switch line.Kind {
		case LineCurrency:
			line.ItemName = cat.CoinName
		case LineItem:
			line.ItemName, _ = findItemName(cat, text)
		}
		out = append(out, line)
		pos++
	}
	return out
}

func classify(cat *catalog.Catalog, price *regexp.Regexp, text string) LineKind {
	if isCurrencyLine(cat, text) {
		return LineCurrency
	}
	if _, ok := findItemName(cat, text); ok {
		return LineItem
	}
	if bareNumberRe.MatchString(text) {
		return LineQuantity
	}
	if price.MatchString(text) {
		return LinePrice
	}
	return LineUntagged
}

// isCurrencyLine reports whether the coin token appears without a digit in
// front of it. "家園幣" alone names the currency item for sale; "50 家園幣"
// is a price and must stay a price line.
func isCurrencyLine(cat *catalog.Catalog, text string) bool {
	idx := strings.Index(text, cat.CoinName)
	if idx < 0 {
		return false
	}
	for _, r := range text[:idx] {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// findItemName is like catalog.FindName but never returns the coin token:
// the coin inside a price ("50 家園幣") must not count as an item name,
// and coin-for-sale lines are already caught by the currency tag.
func findItemName(cat *catalog.Catalog, text string) (string, bool) {
	best := ""
	for _, n := range cat.Names() {
		if n == cat.CoinName {
			continue
		}
		if strings.Contains(text, n) && len(n) > len(best) {
			best = n
		}
	}
	return best, best != ""
}

func priceRe(cat *catalog.Catalog) *regexp.Regexp {
	return regexp.MustCompile(`(\d+)\s*` + regexp.QuoteMeta(cat.CoinName))
}

// FindDiscount scans the whole blob (not line by line, the percent sign often
// lands on its own fragment) and returns the first discount match.
func FindDiscount(blob string) (int, bool) {
	m := discountRe.FindString(blob)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(m, "%"))
	if err != nil {
		return 0, false
	}
	return n, true
}
