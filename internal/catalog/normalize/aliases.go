package normalize

// Единая таблица псевдонимов: канонический ключ -> исходные ключи в порядке приоритета.
// Побеждает первый ключ с не-null значением. Новая форма ответа добавляется только здесь.

const (
	fieldID            = "id"
	fieldBrand         = "brand"
	fieldName          = "name"
	fieldTopCategory   = "top_category"
	fieldMidCategory   = "mid_category"
	fieldSubCategory   = "sub_category"
	fieldCurrentPrice  = "current_price"
	fieldOriginalPrice = "original_price"
	fieldStock         = "stock"
	fieldImage         = "image"
	fieldSpec          = "spec"
)

var productAliases = map[string][]string{
	fieldID:            {"product_id", "goodsNo", "id"},
	fieldBrand:         {"brand"},
	fieldName:          {"name", "goods_name"},
	fieldTopCategory:   {"first_category", "category"},
	fieldMidCategory:   {"mid_category"},
	fieldSubCategory:   {"sub_category"},
	fieldCurrentPrice:  {"price_cur", "price"},
	fieldOriginalPrice: {"price_org", "original_price"},
	fieldStock:         {"stock"},
	fieldImage:         {"image", "image_url"},
	fieldSpec:          {"spec"},
}

const (
	optionBrands        = "brands"
	optionCategories    = "categories"
	optionSubCategories = "sub_categories"
	optionSkinTypes     = "skin_types"
	optionPriceRanges   = "price_ranges"
)

var optionAliases = map[string][]string{
	optionBrands:        {"brands"},
	optionCategories:    {"categories", "first_categories"},
	optionSubCategories: {"sub_categories", "mid_categories"},
	optionSkinTypes:     {"skin_types", "spec"},
	optionPriceRanges:   {"price_ranges", "price_range"},
}

// stockCurrentKey: поле внутри объекта остатка {current, threshold, unit_weight}.
const stockCurrentKey = "current"

func lookup(raw map[string]any, aliases map[string][]string, field string) (any, bool) {
	for _, key := range aliases[field] {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
