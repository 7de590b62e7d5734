// Package normalize reshapes catalog service payloads into canonical models.
// Every function here is pure and tolerates missing optional fields.
package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/go-faster/errors"

	"catalog_browser/internal/catalog/models"
)

// ErrMalformedPayload: ответ не список и не объект с products.
var ErrMalformedPayload = errors.New("malformed payload")

// Batch is one normalized product response.
type Batch struct {
	Products []models.Product
	// Total is the server-side total reported by structured search.
	Total    int
	HasTotal bool
	// Skipped counts entries that were not objects or had no identifier.
	Skipped int
}

func Decode(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, errors.Wrap(ErrMalformedPayload, err.Error())
	}
	return v, nil
}

func Products(data []byte) (Batch, error) {
	v, err := Decode(data)
	if err != nil {
		return Batch{}, err
	}
	return ProductsFrom(v)
}

// ProductsFrom accepts a bare list or an object carrying a products field.
func ProductsFrom(v any) (Batch, error) {
	var (
		items []any
		batch Batch
	)
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		raw, ok := t["products"]
		if !ok {
			return Batch{}, errors.Wrap(ErrMalformedPayload, "object without products")
		}
		switch list := raw.(type) {
		case nil:
		case []any:
			items = list
		default:
			return Batch{}, errors.Wrap(ErrMalformedPayload, "products is not a list")
		}
		if total, ok := asInt(t["total"]); ok && total >= 0 {
			batch.Total, batch.HasTotal = total, true
		}
	default:
		return Batch{}, errors.Wrap(ErrMalformedPayload, "neither list nor object")
	}

	batch.Products = make([]models.Product, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			batch.Skipped++
			continue
		}
		product, ok := Product(obj)
		if !ok {
			batch.Skipped++
			continue
		}
		batch.Products = append(batch.Products, product)
	}
	return batch, nil
}

// Product returns false when no identifier field is present.
func Product(raw map[string]any) (models.Product, bool) {
	id, ok := identifier(raw)
	if !ok {
		return models.Product{}, false
	}

	p := models.Product{
		ID:            id,
		Brand:         stringField(raw, fieldBrand),
		Name:          stringField(raw, fieldName),
		CategoryPath:  categoryPath(raw),
		CurrentPrice:  asPrice(valueOf(raw, fieldCurrentPrice)),
		OriginalPrice: asPrice(valueOf(raw, fieldOriginalPrice)),
		Stock:         asStock(valueOf(raw, fieldStock)),
		Image:         optionalString(raw, fieldImage),
		Spec:          optionalString(raw, fieldSpec),
	}
	return p, true
}

// identifier берёт первый алиас id, который приводится к непустой строке;
// объекты и списки пропускаются.
func identifier(raw map[string]any) (string, bool) {
	for _, key := range productAliases[fieldID] {
		if id, ok := asString(raw[key]); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

func valueOf(raw map[string]any, field string) any {
	v, _ := lookup(raw, productAliases, field)
	return v
}

func stringField(raw map[string]any, field string) string {
	s, _ := asString(valueOf(raw, field))
	return s
}

// optionalString возвращает nil для отсутствующего или пустого поля.
func optionalString(raw map[string]any, field string) *string {
	s := stringField(raw, field)
	if s == "" {
		return nil
	}
	return &s
}

func categoryPath(raw map[string]any) []string {
	var path []string
	for _, field := range []string{fieldTopCategory, fieldMidCategory, fieldSubCategory} {
		if s := stringField(raw, field); s != "" {
			path = append(path, s)
		}
	}
	return path
}

// FilterOptionsFrom normalizes the filters mapping of the options response.
// All five option lists are always non-nil.
func FilterOptionsFrom(raw map[string]any) models.FilterOptions {
	opts := models.EmptyFilterOptions()
	if raw == nil {
		return opts
	}
	opts.Brands = labels(raw, optionBrands)
	opts.Categories = labels(raw, optionCategories)
	opts.SubCategories = labels(raw, optionSubCategories)
	opts.SkinTypes = labels(raw, optionSkinTypes)
	opts.PriceRanges = labels(raw, optionPriceRanges)

	if obj, ok := raw["price_range"].(map[string]any); ok {
		lo, hi := asPrice(obj["min"]), asPrice(obj["max"])
		if lo.Valid && hi.Valid {
			opts.GlobalPriceRange = &models.PriceRange{Min: lo.Decimal, Max: hi.Decimal}
		}
	}
	return opts
}

func labels(raw map[string]any, field string) []string {
	out := []string{}
	v, ok := lookup(raw, optionAliases, field)
	if !ok {
		return out
	}
	list, ok := v.([]any)
	if !ok {
		list = []any{v}
	}
	return labelList(list)
}

func labelList(list []any) []string {
	out := []string{}
	for _, item := range list {
		if label, ok := asLabel(item); ok {
			out = append(out, label)
		}
	}
	return out
}

// FilterOptions decodes a {success, filters} response. success=false yields empty options.
func FilterOptions(data []byte) (models.FilterOptions, bool, error) {
	v, err := Decode(data)
	if err != nil {
		return models.EmptyFilterOptions(), false, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return models.EmptyFilterOptions(), false, errors.Wrap(ErrMalformedPayload, "options response is not an object")
	}
	if !succeeded(obj) {
		return models.EmptyFilterOptions(), false, nil
	}
	filters, _ := obj["filters"].(map[string]any)
	return FilterOptionsFrom(filters), true, nil
}

// Counts decodes a {success, total_count, active_count, inactive_count} response.
func Counts(data []byte) (models.ProductCounts, bool, error) {
	v, err := Decode(data)
	if err != nil {
		return models.ProductCounts{}, false, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return models.ProductCounts{}, false, errors.Wrap(ErrMalformedPayload, "count response is not an object")
	}
	if !succeeded(obj) {
		return models.ProductCounts{}, false, nil
	}
	var counts models.ProductCounts
	counts.Total, _ = asInt(obj["total_count"])
	counts.Active, _ = asInt(obj["active_count"])
	counts.Inactive, _ = asInt(obj["inactive_count"])
	return counts, true, nil
}

// succeeded treats a missing success flag as success.
func succeeded(obj map[string]any) bool {
	flag, ok := obj["success"].(bool)
	return !ok || flag
}

// Labels decodes a list endpoint (categories, sub-categories, brands): a bare list,
// or an object carrying the list under key.
func Labels(data []byte, key string) ([]string, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case []any:
		return labelList(t), nil
	case map[string]any:
		raw, ok := t[key]
		if !ok || raw == nil {
			return []string{}, nil
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedPayload, "%s is not a list", key)
		}
		return labelList(list), nil
	}
	return nil, errors.Wrap(ErrMalformedPayload, "neither list nor object")
}
