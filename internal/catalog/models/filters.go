package models

import (
	"github.com/shopspring/decimal"
)

type Dimension string

const (
	DimensionBrand       Dimension = "brands"
	DimensionCategory    Dimension = "categories"
	DimensionSubCategory Dimension = "sub_categories"
	DimensionSkinType    Dimension = "skin_types"
)

// Dimensions задаёт порядок отображения измерений фильтра.
var Dimensions = []Dimension{
	DimensionBrand,
	DimensionCategory,
	DimensionSubCategory,
	DimensionSkinType,
}

var dimensionTitles = map[Dimension]string{
	DimensionBrand:       "Brand",
	DimensionCategory:    "Category",
	DimensionSubCategory: "Sub-category",
	DimensionSkinType:    "Skin type",
}

func (d Dimension) Valid() bool {
	_, ok := dimensionTitles[d]
	return ok
}

func (d Dimension) Title() string {
	if title, ok := dimensionTitles[d]; ok {
		return title
	}
	return string(d)
}

func ParseDimension(s string) (Dimension, bool) {
	switch s {
	case "brand", "brands":
		return DimensionBrand, true
	case "category", "categories":
		return DimensionCategory, true
	case "sub_category", "sub_categories", "sub-category":
		return DimensionSubCategory, true
	case "skin_type", "skin_types", "skin-type":
		return DimensionSkinType, true
	}
	return "", false
}

type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

type FilterOptions struct {
	Brands        []string
	Categories    []string
	SubCategories []string
	SkinTypes     []string
	PriceRanges   []string

	// GlobalPriceRange заполнен, когда сервис прислал price_range с min и max.
	GlobalPriceRange *PriceRange
}

func EmptyFilterOptions() FilterOptions {
	return FilterOptions{
		Brands:        []string{},
		Categories:    []string{},
		SubCategories: []string{},
		SkinTypes:     []string{},
		PriceRanges:   []string{},
	}
}

func (o FilterOptions) ForDimension(d Dimension) []string {
	switch d {
	case DimensionBrand:
		return o.Brands
	case DimensionCategory:
		return o.Categories
	case DimensionSubCategory:
		return o.SubCategories
	case DimensionSkinType:
		return o.SkinTypes
	}
	return nil
}

type ProductCounts struct {
	Total    int
	Active   int
	Inactive int
}
