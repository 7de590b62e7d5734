package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_browser/internal/catalog/filters"
	"catalog_browser/internal/catalog/models"
)

func TestFilterFlagsApply(t *testing.T) {
	store := filters.NewStore()
	f := filterFlags{
		brands:    []string{"Acme", "Bloom"},
		skinTypes: []string{"Dry"},
		minPrice:  "5000",
		sort:      "price_low",
	}
	require.NoError(t, f.apply(store))

	state := store.Snapshot()
	assert.Equal(t, []string{"Acme", "Bloom"}, state.Values(models.DimensionBrand))
	assert.Equal(t, []string{"Dry"}, state.Values(models.DimensionSkinType))
	assert.Equal(t, "5000", state.Price.Min.Decimal.String())
	assert.False(t, state.Price.Max.Valid)
	assert.Equal(t, "price_low", state.Sort)
}

func TestParseBound(t *testing.T) {
	_, err := parseBound("-1")
	assert.Error(t, err)
	_, err = parseBound("abc")
	assert.Error(t, err)

	v, err := parseBound(" ")
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestParseDimension(t *testing.T) {
	d, err := parseDimension("brand")
	require.NoError(t, err)
	assert.Equal(t, models.DimensionBrand, d)

	_, err = parseDimension("colour")
	assert.ErrorIs(t, err, filters.ErrUnknownDimension)
}

func TestBrowseCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/count":
			w.Write([]byte(`{"success":true,"total_count":2,"active_count":2,"inactive_count":0}`))
		case "/api/products/filters/options":
			w.Write([]byte(`{"success":true,"filters":{}}`))
		default:
			w.Write([]byte(`[{"goodsNo":"7","goods_name":"Toner","brand":"Acme","price_org":20000,"price_cur":15000}]`))
		}
	}))
	defer srv.Close()
	t.Setenv("CATALOG_BASE_URL", srv.URL)
	t.Setenv("CATALOG_DB_DRIVER", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"browse", "--env", "does-not-exist.env"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "Catalog: 2 products (2 active, 0 inactive)")
	assert.Contains(t, out, "Toner")
	assert.Contains(t, out, "25%")
}

func TestListCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/sub-categories", r.URL.Path)
		assert.Equal(t, "Skincare", r.URL.Query().Get("category"))
		w.Write([]byte(`["Toner","Cream"]`))
	}))
	defer srv.Close()
	t.Setenv("CATALOG_BASE_URL", srv.URL)

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"list", "sub-categories", "--category", "Skincare", "--env", "does-not-exist.env"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "  Toner\n  Cream\n")
}

func TestRecommendCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`[{"product_id":"R1","name":"Serum"}]`))
	}))
	defer srv.Close()
	t.Setenv("CATALOG_BASE_URL", srv.URL)

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"recommend", "--skin-type", "Dry", "--env", "does-not-exist.env"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Serum")
}
