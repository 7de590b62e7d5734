package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"catalog_browser/internal/catalog/models"
)

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

var (
	minInt = decimal.NewFromInt(math.MinInt)
	maxInt = decimal.NewFromInt(math.MaxInt)
)

// asInt отбрасывает дробную часть у чисел и числовых строк одинаково ("3.7" и 3.7
// дают 3). Значения вне диапазона int не считаются числом.
func asInt(v any) (int, bool) {
	var d decimal.Decimal
	switch t := v.(type) {
	case json.Number:
		parsed, err := decimal.NewFromString(t.String())
		if err != nil {
			return 0, false
		}
		d = parsed
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, false
		}
		d = decimal.NewFromFloat(t)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		d = parsed
	default:
		return 0, false
	}

	d = d.Truncate(0)
	if d.LessThan(minInt) || d.GreaterThan(maxInt) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// asPrice отдаёт невалидный NullDecimal для отсутствующей, отрицательной или
// нечисловой цены: товар без цены не должен стать бесплатным.
func asPrice(v any) decimal.NullDecimal {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	case float64:
		return nonNegative(decimal.NewFromFloat(t))
	default:
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return nonNegative(d)
}

func nonNegative(d decimal.Decimal) decimal.NullDecimal {
	if d.IsNegative() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func asStock(v any) models.Stock {
	if obj, ok := v.(map[string]any); ok {
		v = obj[stockCurrentKey]
	}
	if v == nil {
		return models.UnknownStock("")
	}
	if q, ok := asInt(v); ok {
		return models.KnownStock(q)
	}
	raw, _ := asString(v)
	return models.UnknownStock(raw)
}

// asLabel приводит элемент списка опций к строке. Объекты диапазона цен
// превращаются в "min~max".
func asLabel(v any) (string, bool) {
	if s, ok := asString(v); ok {
		return s, s != ""
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	for _, key := range []string{"label", "name"} {
		if s, ok := asString(obj[key]); ok && s != "" {
			return s, true
		}
	}
	lo, loOk := asString(obj["min"])
	hi, hiOk := asString(obj["max"])
	if loOk || hiOk {
		return lo + "~" + hi, true
	}
	return "", false
}
