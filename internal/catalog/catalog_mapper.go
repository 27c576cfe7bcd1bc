package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	listPriceKeys   = []string{"minSellPrice", "price"}
	detailPriceKeys = []string{"price", "minSellPrice"}
)

// toProduct maps the fields the storefront understands. It returns the
// price key it used, "" when none was usable, and ok=false when the raw
// product has no id.
func toProduct(raw RawProduct, priceKeys []string, imageBase string) (p Product, priceKey string, ok bool) {
	p.ID = stringField(raw["id"])
	if p.ID == "" {
		return Product{}, "", false
	}
	p.Name = stringField(raw["name"])

	p.Price = decimal.Zero
	for _, k := range priceKeys {
		if d, good := decimalField(raw[k]); good {
			p.Price = d
			priceKey = k
			break
		}
	}

	p.Image = stringSlice(raw["images"])
	p.ImageURL = ImageURL(imageBase, p.ID, p.Image)
	return p, priceKey, true
}

func toDetail(raw RawProduct, imageBase string) (ProductDetail, bool) {
	p, priceKey, ok := toProduct(raw, detailPriceKeys, imageBase)
	if !ok {
		return ProductDetail{}, false
	}

	var attrs map[string]any
	for k, v := range raw {
		switch k {
		case "id", "name", "images", priceKey:
			continue
		}
		if attrs == nil {
			attrs = make(map[string]any, len(raw))
		}
		attrs[k] = v
	}
	return ProductDetail{Product: p, Attributes: attrs}, true
}

// ImageURL builds the png url of the first image, "" when there is none.
func ImageURL(base, id string, images []string) string {
	if base == "" || len(images) == 0 || images[0] == "" {
		return ""
	}
	return fmt.Sprintf("%s/product/%s/%s?type=png",
		strings.TrimRight(base, "/"), url.PathEscape(id), url.PathEscape(images[0]))
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func decimalField(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	default:
		return decimal.Decimal{}, false
	}
}

func stringSlice(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
