package cart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"zizi-storefront/internal/domain"
)

// Sanitize decodes a stored cart and coerces each record into a valid
// CartItem. Records without an id, a name or a positive price are dropped.
// Lines sharing an id are merged. A payload that is not a JSON array is an
// error.
func Sanitize(data []byte) ([]domain.CartItem, error) {
	var records []any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	var items []domain.CartItem
	index := make(map[string]int, len(records))
	for _, rec := range records {
		fields, _ := rec.(map[string]any)
		item, ok := sanitizeRecord(fields)
		if !ok {
			continue
		}
		if i, seen := index[item.ID]; seen {
			items[i].Quantity = addQuantity(items[i].Quantity, item.Quantity)
			continue
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	return items, nil
}

func sanitizeRecord(rec map[string]any) (domain.CartItem, bool) {
	if rec == nil {
		return domain.CartItem{}, false
	}
	item := domain.CartItem{
		ID:       stringField(rec["id"]),
		Name:     stringField(rec["name"]),
		Price:    priceField(rec["price"]),
		Quantity: quantityField(rec["quantity"]),
	}
	if img, ok := rec["image"].(string); ok {
		item.Image = img
	}
	if item.ID == "" || item.Name == "" {
		return domain.CartItem{}, false
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price <= 0 {
		return domain.CartItem{}, false
	}
	return item, true
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func priceField(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		return ParsePrice(t)
	default:
		return math.NaN()
	}
}

func quantityField(v any) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || f < 1 || f > MaxQuantity {
		return 1
	}
	return int(f)
}

// ParsePrice strips everything but digits and dots from s and parses the
// longest leading decimal number, so "£1,250.00" is 1250. It returns NaN
// when no number is present.
func ParsePrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	end, seenDot, seenDigit := 0, false, false
	for i, r := range cleaned {
		if r == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else {
			seenDigit = true
		}
		end = i + 1
	}
	if !seenDigit {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(cleaned[:end], "."), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
