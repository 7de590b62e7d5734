package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestDiscountRate(t *testing.T) {
	tests := []struct {
		name     string
		current  decimal.NullDecimal
		original decimal.NullDecimal
		want     int
		shown    bool
	}{
		{"twenty percent", price(8000), price(10000), 20, true},
		{"equal prices", price(10000), price(10000), 0, false},
		{"original lower", price(12000), price(10000), 0, false},
		{"rounds half up", price(8950), price(10000), 11, true},
		{"missing original", price(8000), decimal.NullDecimal{}, 0, false},
		{"missing current", decimal.NullDecimal{}, price(10000), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{CurrentPrice: tt.current, OriginalPrice: tt.original}
			got, shown := p.DiscountRate()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.shown, shown)
		})
	}
}

func TestStockLowAndUnknown(t *testing.T) {
	assert.True(t, KnownStock(10).IsLow())
	assert.True(t, KnownStock(0).IsLow())
	assert.False(t, KnownStock(11).IsLow())

	unknown := UnknownStock("")
	assert.False(t, unknown.IsLow())
	assert.Equal(t, "unknown", unknown.String())
	assert.Equal(t, "soon", UnknownStock("soon").String())
	assert.Equal(t, "7", KnownStock(7).String())
}

func TestParseDimension(t *testing.T) {
	d, ok := ParseDimension("brand")
	assert.True(t, ok)
	assert.Equal(t, DimensionBrand, d)

	d, ok = ParseDimension("skin-type")
	assert.True(t, ok)
	assert.Equal(t, DimensionSkinType, d)

	_, ok = ParseDimension("color")
	assert.False(t, ok)
	assert.False(t, Dimension("color").Valid())
	assert.Equal(t, "Sub-category", DimensionSubCategory.Title())
}
