package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"

	"catalog_browser/internal/catalog/models"
	"catalog_browser/internal/catalog/normalize"
	"catalog_browser/internal/catalog/query"
	"catalog_browser/pkg/logger"
)

const basePath = "/api/products"

// CatalogClient talks to the inventory service under /api/products and returns
// normalized models.
type CatalogClient struct {
	*BaseClient
}

func NewCatalogClient(apiURL string, httpClient *http.Client, log logger.Logger) *CatalogClient {
	return &CatalogClient{BaseClient: NewBaseClient(apiURL, httpClient, log)}
}

func (c *CatalogClient) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, endpoint, basePath+path, params, nil)
}

func (c *CatalogClient) post(ctx context.Context, endpoint, path string, body interface{}) ([]byte, error) {
	return c.doRequest(ctx, http.MethodPost, endpoint, basePath+path, nil, body)
}

// Count returns ok=false when the service answered with success=false.
func (c *CatalogClient) Count(ctx context.Context) (models.ProductCounts, bool, error) {
	data, err := c.get(ctx, "count", "/count", nil)
	if err != nil {
		return models.ProductCounts{}, false, err
	}
	return normalize.Counts(data)
}

func (c *CatalogClient) FilterOptions(ctx context.Context) (models.FilterOptions, bool, error) {
	data, err := c.get(ctx, "filter_options", "/filters/options", nil)
	if err != nil {
		return models.EmptyFilterOptions(), false, err
	}
	return normalize.FilterOptions(data)
}

func (c *CatalogClient) ListAll(ctx context.Context, limit, offset int) (normalize.Batch, error) {
	return c.Fetch(ctx, query.Strategy{
		Endpoint: query.EndpointListAll,
		Params:   url.Values{"limit": {strconv.Itoa(limit)}, "offset": {strconv.Itoa(offset)}},
	})
}

func (c *CatalogClient) QuickSearch(ctx context.Context, q string, limit int) (normalize.Batch, error) {
	return c.Fetch(ctx, query.QuickSearch(q, limit))
}

func (c *CatalogClient) Search(ctx context.Context, params url.Values) (normalize.Batch, error) {
	return c.Fetch(ctx, query.Strategy{Endpoint: query.EndpointSearch, Params: params})
}

func (c *CatalogClient) ByCategory(ctx context.Context, name string, limit int) (normalize.Batch, error) {
	return c.Fetch(ctx, query.Strategy{
		Endpoint: query.EndpointByCategory,
		Name:     name,
		Params:   url.Values{"limit": {strconv.Itoa(limit)}},
	})
}

func (c *CatalogClient) ByBrand(ctx context.Context, name string, limit int) (normalize.Batch, error) {
	return c.Fetch(ctx, query.Strategy{
		Endpoint: query.EndpointByBrand,
		Name:     name,
		Params:   url.Values{"limit": {strconv.Itoa(limit)}},
	})
}

// Fetch executes one strategy and normalizes the product payload.
func (c *CatalogClient) Fetch(ctx context.Context, s query.Strategy) (normalize.Batch, error) {
	var path string
	switch s.Endpoint {
	case query.EndpointListAll:
		path = ""
	case query.EndpointQuickSearch:
		path = "/search/quick"
	case query.EndpointSearch:
		path = "/search"
	case query.EndpointByBrand:
		path = "/brand/" + url.PathEscape(s.Name)
	case query.EndpointByCategory:
		path = "/category/" + url.PathEscape(s.Name)
	default:
		return normalize.Batch{}, errors.Errorf("unsupported endpoint %q", s.Endpoint)
	}

	data, err := c.get(ctx, string(s.Endpoint), path, s.Params)
	if err != nil {
		return normalize.Batch{}, err
	}
	batch, err := normalize.Products(data)
	if err != nil {
		return normalize.Batch{}, errors.Wrapf(err, "%s", s.Endpoint)
	}
	if batch.Skipped > 0 {
		c.log.Warn("%s: skipped %d entries without identifier", s.Endpoint, batch.Skipped)
	}
	return batch, nil
}

func (c *CatalogClient) Popular(ctx context.Context, limit int) (normalize.Batch, error) {
	data, err := c.get(ctx, "popular", "/recommendations/popular", url.Values{"limit": {strconv.Itoa(max(1, limit))}})
	if err != nil {
		return normalize.Batch{}, err
	}
	return normalize.Products(data)
}

func (c *CatalogClient) ProductByID(ctx context.Context, id string) (models.Product, error) {
	data, err := c.get(ctx, "product", "/"+url.PathEscape(id), nil)
	if err != nil {
		return models.Product{}, err
	}
	v, err := normalize.Decode(data)
	if err != nil {
		return models.Product{}, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return models.Product{}, errors.Wrap(normalize.ErrMalformedPayload, "product is not an object")
	}
	// некоторые версии сервиса оборачивают товар в {"product": {...}}
	if inner, ok := obj["product"].(map[string]any); ok {
		obj = inner
	}
	product, ok := normalize.Product(obj)
	if !ok {
		return models.Product{}, errors.Wrap(normalize.ErrMalformedPayload, "product without identifier")
	}
	return product, nil
}

// RecommendationRequest is the body of POST /recommendations. Empty fields are omitted.
type RecommendationRequest struct {
	ProductID string   `json:"product_id,omitempty"`
	Category  string   `json:"category,omitempty"`
	SkinType  string   `json:"skin_type,omitempty"`
	Brands    []string `json:"brands,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

func (c *CatalogClient) Recommendations(ctx context.Context, req RecommendationRequest) (normalize.Batch, error) {
	data, err := c.post(ctx, "recommendations", "/recommendations", req)
	if err != nil {
		return normalize.Batch{}, err
	}
	v, err := normalize.Decode(data)
	if err != nil {
		return normalize.Batch{}, err
	}
	// {"recommendations": [...]} приводим к общему виду {"products": [...]}
	if obj, ok := v.(map[string]any); ok {
		if list, ok := obj["recommendations"]; ok {
			v = map[string]any{"products": list}
		}
	}
	return normalize.ProductsFrom(v)
}

func (c *CatalogClient) Categories(ctx context.Context) ([]string, error) {
	data, err := c.get(ctx, "categories", "/categories", nil)
	if err != nil {
		return nil, err
	}
	return normalize.Labels(data, "categories")
}

// SubCategories lists sub-categories, only those of category when it is not empty.
func (c *CatalogClient) SubCategories(ctx context.Context, category string) ([]string, error) {
	var params url.Values
	if category != "" {
		params = url.Values{"category": {category}}
	}
	data, err := c.get(ctx, "sub_categories", "/sub-categories", params)
	if err != nil {
		return nil, err
	}
	return normalize.Labels(data, "sub_categories")
}

func (c *CatalogClient) Brands(ctx context.Context) ([]string, error) {
	data, err := c.get(ctx, "brands", "/brands", nil)
	if err != nil {
		return nil, err
	}
	return normalize.Labels(data, "brands")
}
