package render

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_browser/internal/catalog/models"
	"catalog_browser/internal/catalog/results"
	"catalog_browser/internal/catalog/session"
	"catalog_browser/internal/catalog/storage"
)

func price(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestResultsTable(t *testing.T) {
	items := make([]models.Product, 0, 30)
	for i := 1; i <= 30; i++ {
		items = append(items, models.Product{
			ID:            fmt.Sprintf("p%d", i),
			Brand:         "Acme",
			Name:          fmt.Sprintf("Cream %d", i),
			CategoryPath:  []string{"Skincare", "Cream"},
			CurrentPrice:  price(8000),
			OriginalPrice: price(10000),
			Stock:         models.KnownStock(3),
		})
	}
	rs := results.New(items, 12).ChangePage(2)

	var buf bytes.Buffer
	require.NoError(t, Results(&buf, rs))
	out := buf.String()

	assert.Contains(t, out, "p13")
	assert.NotContains(t, out, "p12 ")
	assert.Contains(t, out, "20%")
	assert.Contains(t, out, "3 (low)")
	assert.Contains(t, out, "Page 1 [2] 3 of 3, 30 products")
}

func TestResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Results(&buf, results.Empty(12)))
	assert.Equal(t, "No products found.\n", buf.String())
}

func TestPriceAndDiscountPlaceholders(t *testing.T) {
	p := models.Product{ID: "x", Stock: models.UnknownStock("")}
	assert.Equal(t, dash, Price(p))
	assert.Equal(t, dash, Discount(p))
	assert.Equal(t, "unknown", Stock(p))
}

func TestOptions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Options(&buf, session.OptionPreview{
		Title:   "Brand",
		Options: []session.OptionState{{Label: "Acme", Selected: true}, {Label: "Bloom"}},
		More:    4,
	}))
	assert.Equal(t, "Brand\n  [x] Acme\n  [ ] Bloom\n  +4 more\n", buf.String())
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, History(&buf, []storage.QueryRecord{{
		Action:       "quick_filter",
		Endpoint:     "by_brand",
		Params:       "limit=150&name=Acme",
		FallbackUsed: true,
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}}))
	out := buf.String()
	assert.Contains(t, out, "2024-05-01 10:00:00")
	assert.Contains(t, out, "by_brand")
	assert.Contains(t, out, "yes")
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Hydra Cream 50 ml", Clean("<b>Hydra</b>&nbsp;Cream\n 50 ml"))
	assert.Equal(t, "", Clean("<br/>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Hydra…", Truncate("Hydra Boost Cream", 10))
	assert.Equal(t, "수분크림수분…", Truncate("수분크림수분크림", 7))
}

func TestLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Labels(&buf, "Brand", []string{"Acme", "Bloom"}))
	require.NoError(t, Labels(&buf, "Skin type", nil))
	assert.Equal(t, "Brand\n  Acme\n  Bloom\nSkin type\n  (none)\n", buf.String())
}
