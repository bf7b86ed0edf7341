package scan

import (
	"regexp"
	"strconv"
	"strings"

	"homeland-merchant-backend/catalog"
	"homeland-merchant-backend/model"
)

// Extraction gives up on strict positions: players crop screenshots
// differently and the OCR engine reorders columns, so quantity and price are
// matched by proximity within a few lines of the item name.
const (
	// proximityAfter / proximityBefore bound how far from an item line the
	// extractor will look for its quantity, price, or barter terms.
	proximityAfter  = 3
	proximityBefore = 2

	// fallbackThreshold triggers the raw-blob rescan when the primary pass
	// found fewer items than a merchant usually carries.
	fallbackThreshold = 4

	// fallbackWindow is how many runes around a catalog name the rescan
	// inspects for numbers and counter-offer names.
	fallbackWindow = 40
)

// purchaseLimitRe matches the stall-wide purchase limit phrase anywhere in
// the blob ("本攤位可購入:3", "本攤位可購入 3 次", ...).
var purchaseLimitRe = regexp.MustCompile(`本攤位可購入\D{0,5}(\d+)`)

// Extract runs the primary per-line pass and, when it comes up short, the
// approximate whole-blob fallback. The result is unordered and unbounded;
// the assembler trims and pads it into slots.
func Extract(cat *catalog.Catalog, blob string) []model.ItemRecord {
	lines := Classify(cat, blob)
	items := extractPrimary(cat, blob, lines)
	if len(items) < fallbackThreshold {
		items = mergeByName(items, fallbackScan(cat, blob))
	}
	return items
}

// extractPrimary walks the classified lines. Currency lines go first because
// their counter-offer triple ("1200 19 蜂蜜") usually contains another
// catalog name and would otherwise be double-counted as an item line.
func extractPrimary(cat *catalog.Catalog, blob string, lines []Line) []model.ItemRecord {
	limit, hasLimit := findPurchaseLimit(blob)
	consumed := make(map[int]bool)

	var currency []model.ItemRecord
	for _, ln := range lines {
		if ln.Kind != LineCurrency {
			continue
		}
		// By game rule the coin is never sold for itself: forced barter,
		// one unit per purchase, whatever steps 1-3 would have said.
		rec := model.ItemRecord{
			Name:          cat.CoinName,
			Quantity:      1,
			PurchaseTimes: 1,
			Exchange:      model.ExchangeBarter,
		}
		if t, ok := findBarterTriple(cat, lines, ln.Pos, cat.CoinName, consumed); ok {
			rec.PurchaseTimes = t.purchaseTimes
			rec.ExchangeItemName = t.itemName
			rec.ExchangeQuantity = t.quantity
		} else if hasLimit {
			rec.PurchaseTimes = limit
		}
		currency = append(currency, rec)
	}

	var items []model.ItemRecord
	for _, ln := range lines {
		if ln.Kind != LineItem || consumed[ln.Pos] {
			continue
		}
		rec := model.ItemRecord{Name: ln.ItemName}
		rec.Quantity = takeQuantity(lines, ln.Pos, consumed)
		if hasLimit {
			rec.PurchaseTimes = limit
		} else {
			rec.PurchaseTimes = rec.Quantity
		}
		if price, ok := takePrice(cat, lines, ln.Pos, consumed); ok {
			rec.Exchange = model.ExchangeCoin
			rec.Price = price
		} else if t, ok := findBarterTriple(cat, lines, ln.Pos, ln.ItemName, consumed); ok {
			rec.Exchange = model.ExchangeBarter
			rec.ExchangeItemName = t.itemName
			rec.ExchangeQuantity = t.quantity
			if !hasLimit {
				rec.PurchaseTimes = t.purchaseTimes
			}
		}
		// No trade terms found is not an error here; the review form makes
		// the player fill them in before the listing can be saved.
		items = append(items, cat.ApplyExchangeRules(rec))
	}
	return append(items, currency...)
}

func findPurchaseLimit(blob string) (int, bool) {
	m := purchaseLimitRe.FindStringSubmatch(blob)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// takeQuantity finds the nearest unconsumed quantity line at or after pos.
// Each quantity line feeds at most one item.
func takeQuantity(lines []Line, pos int, consumed map[int]bool) int {
	for d := 1; d <= proximityAfter; d++ {
		if ln, ok := lineAt(lines, pos+d); ok && ln.Kind == LineQuantity && !consumed[ln.Pos] {
			n, err := strconv.Atoi(ln.Text)
			if err != nil || n <= 0 {
				continue
			}
			consumed[ln.Pos] = true
			return n
		}
	}
	return 1
}

// takePrice finds the nearest price line around pos, looking forward first.
func takePrice(cat *catalog.Catalog, lines []Line, pos int, consumed map[int]bool) (int, bool) {
	price := priceRe(cat)
	for _, d := range searchOrder() {
		ln, ok := lineAt(lines, pos+d)
		if !ok || ln.Kind != LinePrice || consumed[ln.Pos] {
			continue
		}
		m := price.FindStringSubmatch(ln.Text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		consumed[ln.Pos] = true
		return n, true
	}
	return 0, false
}

type barterTriple struct {
	purchaseTimes int
	quantity      int
	itemName      string
}

// findBarterTriple looks near pos for a "number number catalog-name" line:
// how many times the slot can be bought, and what the merchant wants for it.
// The matched line is consumed so it is not re-read as a standalone item.
func findBarterTriple(cat *catalog.Catalog, lines []Line, pos int, selfName string, consumed map[int]bool) (barterTriple, bool) {
	for _, d := range searchOrder() {
		ln, ok := lineAt(lines, pos+d)
		if !ok || consumed[ln.Pos] || ln.Pos == pos {
			continue
		}
		t, ok := parseBarterTriple(cat, ln.Text, selfName)
		if !ok {
			continue
		}
		consumed[ln.Pos] = true
		return t, true
	}
	return barterTriple{}, false
}

func parseBarterTriple(cat *catalog.Catalog, text, selfName string) (barterTriple, bool) {
	nums := numberRe.FindAllString(text, 2)
	if len(nums) < 2 {
		return barterTriple{}, false
	}
	name, ok := findItemName(cat, text)
	if !ok || name == selfName {
		return barterTriple{}, false
	}
	purchase, err1 := strconv.Atoi(nums[0])
	qty, err2 := strconv.Atoi(nums[1])
	if err1 != nil || err2 != nil || purchase <= 0 || qty <= 0 {
		return barterTriple{}, false
	}
	return barterTriple{purchaseTimes: purchase, quantity: qty, itemName: name}, true
}

// searchOrder yields offsets around an item line, forward first: the game UI
// prints values below the name, but OCR sometimes flips them above.
func searchOrder() []int {
	order := make([]int, 0, proximityAfter+proximityBefore)
	for d := 1; d <= proximityAfter; d++ {
		order = append(order, d)
	}
	for d := 1; d <= proximityBefore; d++ {
		order = append(order, -d)
	}
	return order
}

func lineAt(lines []Line, pos int) (Line, bool) {
	if pos < 0 || pos >= len(lines) {
		return Line{}, false
	}
	return lines[pos], true
}

// mergeByName keeps primary results and adds fallback hits for names the
// primary pass missed. Names the primary pass already read as counter-offers
// are skipped too, otherwise every barter target would resurface as a bogus
// sale item.
func mergeByName(primary, extra []model.ItemRecord) []model.ItemRecord {
	seen := make(map[string]bool, len(primary))
	for _, it := range primary {
		seen[it.Name] = true
		if it.ExchangeItemName != "" {
			seen[it.ExchangeItemName] = true
		}
	}
	out := primary
	for _, it := range extra {
		if seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		out = append(out, it)
	}
	return out
}

// fallbackScan is the lossy recovery pass: every catalog name that appears
// anywhere in the corrected blob becomes a candidate, with up to two numbers
// pulled from a fixed window around its first occurrence. It knowingly
// produces false positives (a name mentioned in a barter offer, say) and is
// a best-effort step, not a correctness guarantee.
func fallbackScan(cat *catalog.Catalog, blob string) []model.ItemRecord {
	corrected := cat.Correct(blob)
	runes := []rune(corrected)
	limit, hasLimit := findPurchaseLimit(corrected)
	price := priceRe(cat)

	var items []model.ItemRecord
	for _, name := range cat.Names() {
		if name == cat.OtherName || name == cat.CoinName {
			continue
		}
		idx := strings.Index(corrected, name)
		if idx < 0 {
			continue
		}
		window := runeWindow(runes, len([]rune(corrected[:idx])), len([]rune(name)))
		rest := strings.Replace(window, name, "", 1)

		rec := model.ItemRecord{Name: name, Quantity: 1}
		nums := numberRe.FindAllString(rest, 2)
		if m := price.FindStringSubmatch(rest); m != nil {
			if p, err := strconv.Atoi(m[1]); err == nil && p > 0 {
				rec.Exchange = model.ExchangeCoin
				rec.Price = p
				if q := firstNumberExcept(nums, m[1]); q > 0 {
					rec.Quantity = q
				}
			}
		} else if other, ok := findItemName(cat, rest); ok && other != name && len(nums) >= 2 {
			purchase, _ := strconv.Atoi(nums[0])
			qty, _ := strconv.Atoi(nums[1])
			if purchase > 0 && qty > 0 {
				rec.Exchange = model.ExchangeBarter
				rec.ExchangeItemName = other
				rec.ExchangeQuantity = qty
				rec.PurchaseTimes = purchase
			}
		} else if len(nums) > 0 {
			if q, err := strconv.Atoi(nums[0]); err == nil && q > 0 {
				rec.Quantity = q
			}
		}

		if rec.PurchaseTimes == 0 {
			if hasLimit {
				rec.PurchaseTimes = limit
			} else {
				rec.PurchaseTimes = rec.Quantity
			}
		}
		items = append(items, cat.ApplyExchangeRules(rec))
	}
	return items
}

func runeWindow(runes []rune, start, nameLen int) string {
	lo := start - fallbackWindow
	if lo < 0 {
		lo = 0
	}
	hi := start + nameLen + fallbackWindow
	if hi > len(runes) {
		hi = len(runes)
	}
	return string(runes[lo:hi])
}

func firstNumberExcept(nums []string, skip string) int {
	for _, s := range nums {
		if s == skip {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
