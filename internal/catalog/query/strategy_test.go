package query

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_browser/internal/catalog/filters"
	"catalog_browser/internal/catalog/models"
)

func storeWith(t *testing.T, selections map[models.Dimension][]string) *filters.Store {
	t.Helper()
	s := filters.NewStore()
	for _, d := range models.Dimensions {
		for _, v := range selections[d] {
			require.NoError(t, s.Toggle(d, v))
		}
	}
	return s
}

func TestFetchLimit(t *testing.T) {
	tests := []struct {
		name   string
		counts models.ProductCounts
		want   int
	}{
		{"active within range", models.ProductCounts{Active: 400, Total: 900}, 400},
		{"zero active falls to default", models.ProductCounts{Active: 0}, 150},
		{"ceiling clamp", models.ProductCounts{Active: 5000}, 1000},
		{"floor clamp", models.ProductCounts{Active: 20}, 150},
		{"total when active missing", models.ProductCounts{Total: 640}, 640},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FetchLimit(tt.counts))
		})
	}
}

func TestSelectQuickSearchIgnoresFilters(t *testing.T) {
	s := storeWith(t, map[models.Dimension][]string{models.DimensionBrand: {"Torriden"}})
	s.SetQuery("  toner ")

	got := Select(s.Snapshot(), 400)

	assert.Equal(t, EndpointQuickSearch, got.Endpoint)
	assert.Equal(t, "toner", got.Params.Get("q"))
	assert.Equal(t, "50", got.Params.Get("limit"))
	assert.Empty(t, got.Params.Get("brand"))
	assert.Nil(t, got.Fallback)
}

func TestSelectSingleBrandUsesDirectEndpoint(t *testing.T) {
	s := storeWith(t, map[models.Dimension][]string{models.DimensionBrand: {"Round Lab", "Anua"}})
	s.SetSort("price_low")

	got := Select(s.Snapshot(), 1000)

	assert.Equal(t, EndpointByBrand, got.Endpoint)
	assert.True(t, got.Direct())
	assert.Equal(t, "Round Lab", got.Name)
	assert.Equal(t, "200", got.Params.Get("limit"))

	require.NotNil(t, got.Fallback)
	assert.Equal(t, EndpointSearch, got.Fallback.Endpoint)
	assert.Equal(t, "Round Lab", got.Fallback.Params.Get("brand"))
	assert.Equal(t, "100", got.Fallback.Params.Get("page_size"))
	assert.Equal(t, "price_low", got.Fallback.Params.Get("sort_by"))
	assert.Equal(t, "1", got.Fallback.Params.Get("page"))
}

func TestSelectSingleCategoryUsesDirectEndpoint(t *testing.T) {
	s := storeWith(t, map[models.Dimension][]string{models.DimensionCategory: {"Skincare"}})

	got := Select(s.Snapshot(), 150)

	assert.Equal(t, EndpointByCategory, got.Endpoint)
	assert.Equal(t, "Skincare", got.Name)
	assert.Equal(t, "150", got.Params.Get("limit"))
	require.NotNil(t, got.Fallback)
	assert.Equal(t, "Skincare", got.Fallback.Params.Get("category"))
}

func TestSelectPriceBoundForcesStructuredSearch(t *testing.T) {
	s := storeWith(t, map[models.Dimension][]string{models.DimensionBrand: {"Anua"}})
	s.SetPriceBound(filters.BoundMin, decimal.NewNullDecimal(decimal.NewFromInt(10000)))

	got := Select(s.Snapshot(), 400)

	assert.Equal(t, EndpointSearch, got.Endpoint)
	assert.Equal(t, "Anua", got.Params.Get("brand"))
	assert.Equal(t, "10000", got.Params.Get("min_price"))
	assert.False(t, got.Params.Has("max_price"))
	assert.Nil(t, got.Fallback)
}

func TestSelectStructuredSearchFirstValuePerDimension(t *testing.T) {
	s := storeWith(t, map[models.Dimension][]string{
		models.DimensionBrand:       {"A", "B"},
		models.DimensionSubCategory: {"Toner"},
		models.DimensionSkinType:    {"Dry", "Oily"},
	})
	s.SetPriceBound(filters.BoundMax, decimal.NewNullDecimal(decimal.RequireFromString("30000.5")))
	s.SetSort("recent")

	got := Select(s.Snapshot(), 60)

	assert.Equal(t, EndpointSearch, got.Endpoint)
	assert.Equal(t, "A", got.Params.Get("brand"))
	assert.Equal(t, "Toner", got.Params.Get("sub_category"))
	assert.Equal(t, "Dry", got.Params.Get("skin_type"))
	assert.False(t, got.Params.Has("category"))
	assert.Equal(t, "30000.5", got.Params.Get("max_price"))
	assert.Equal(t, "recent", got.Params.Get("sort_by"))
	assert.Equal(t, "1", got.Params.Get("page"))
	assert.Equal(t, "60", got.Params.Get("page_size"))
	assert.Len(t, got.Params["brand"], 1)
}

func TestSelectSingleSubCategoryUsesStructuredSearch(t *testing.T) {
	s := storeWith(t, map[models.Dimension][]string{models.DimensionSubCategory: {"Toner"}})

	got := Select(s.Snapshot(), 400)

	assert.Equal(t, EndpointSearch, got.Endpoint)
	assert.Nil(t, got.Fallback)
	assert.Equal(t, "Toner", got.Params.Get("sub_category"))
}

func TestSelectNothingIsFullReload(t *testing.T) {
	got := Select(filters.NewStore().Snapshot(), 400)

	assert.Equal(t, EndpointListAll, got.Endpoint)
	assert.Equal(t, "400", got.Params.Get("limit"))
	assert.Equal(t, "0", got.Params.Get("offset"))
}

func TestForDimensionOtherDimensions(t *testing.T) {
	got := ForDimension(models.DimensionSkinType, "Sensitive", "popularity", 30)

	assert.Equal(t, EndpointSearch, got.Endpoint)
	assert.Equal(t, models.DimensionSkinType, got.Dimension)
	assert.Equal(t, "Sensitive", got.Params.Get("skin_type"))
	assert.Equal(t, "30", got.Params.Get("page_size"))
	assert.Nil(t, got.Fallback)
}

func TestLimitsNeverBelowOne(t *testing.T) {
	assert.Equal(t, "1", QuickSearch("x", 0).Params.Get("limit"))
	assert.Equal(t, "1", ListAll(0).Params.Get("limit"))
	assert.Equal(t, "1", ForDimension(models.DimensionBrand, "x", "popularity", -5).Params.Get("limit"))
}
