// Package query turns a filter selection into exactly one backend request.
package query

import (
	"net/url"
	"strconv"

	"catalog_browser/internal/catalog/filters"
	"catalog_browser/internal/catalog/models"
)

type Endpoint string

const (
	EndpointListAll     Endpoint = "list_all"
	EndpointQuickSearch Endpoint = "quick_search"
	EndpointSearch      Endpoint = "search"
	EndpointByBrand     Endpoint = "by_brand"
	EndpointByCategory  Endpoint = "by_category"
)

// searchParams maps a dimension to its structured search parameter.
var searchParams = map[models.Dimension]string{
	models.DimensionBrand:       "brand",
	models.DimensionCategory:    "category",
	models.DimensionSubCategory: "sub_category",
	models.DimensionSkinType:    "skin_type",
}

func SearchParam(d models.Dimension) string {
	return searchParams[d]
}

type Strategy struct {
	Endpoint Endpoint
	// Name is the path segment of by-brand / by-category requests.
	Name   string
	Params url.Values

	// Dimension and Value are set for single-dimension strategies.
	Dimension models.Dimension
	Value     string

	// Fallback is the structured search retried when a direct request comes back empty.
	Fallback *Strategy
}

// Direct reports whether the strategy targets a dedicated by-brand/by-category endpoint.
func (s Strategy) Direct() bool {
	return s.Endpoint == EndpointByBrand || s.Endpoint == EndpointByCategory
}

// Select picks the request for the current selection. Quick search and structured
// filtering are mutually exclusive; only the first selected value of each dimension
// reaches the backend.
func Select(state filters.State, fetchLimit int) Strategy {
	if q := state.TrimmedQuery(); q != "" {
		return QuickSearch(q, fetchLimit)
	}

	populated := state.Populated()
	if len(populated) == 1 && !state.Price.IsSet() {
		d := populated[0]
		if d == models.DimensionBrand || d == models.DimensionCategory {
			value, _ := state.First(d)
			return ForDimension(d, value, state.Sort, fetchLimit)
		}
	}

	if state.HasCriteria() {
		params := structuredParams(state.Sort, fetchLimit)
		for _, d := range populated {
			value, _ := state.First(d)
			params.Set(searchParams[d], value)
		}
		if state.Price.Min.Valid {
			params.Set("min_price", state.Price.Min.Decimal.String())
		}
		if state.Price.Max.Valid {
			params.Set("max_price", state.Price.Max.Decimal.String())
		}
		return Strategy{Endpoint: EndpointSearch, Params: params}
	}

	return ListAll(fetchLimit)
}

// ForDimension builds the single-dimension request. Brand and category go to their
// dedicated endpoints and carry a structured search fallback; the other dimensions
// are served by structured search directly.
func ForDimension(d models.Dimension, value, sort string, fetchLimit int) Strategy {
	fallback := structuredParams(sort, fetchLimit)
	fallback.Set(searchParams[d], value)
	search := Strategy{Endpoint: EndpointSearch, Params: fallback, Dimension: d, Value: value}

	var endpoint Endpoint
	switch d {
	case models.DimensionBrand:
		endpoint = EndpointByBrand
	case models.DimensionCategory:
		endpoint = EndpointByCategory
	default:
		return search
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(bounded(fetchLimit, DirectLimit)))
	return Strategy{
		Endpoint:  endpoint,
		Name:      value,
		Params:    params,
		Dimension: d,
		Value:     value,
		Fallback:  &search,
	}
}

func QuickSearch(q string, fetchLimit int) Strategy {
	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(bounded(fetchLimit, MaxQuickSearchLimit)))
	return Strategy{Endpoint: EndpointQuickSearch, Params: params}
}

func ListAll(fetchLimit int) Strategy {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(max(1, fetchLimit)))
	params.Set("offset", "0")
	return Strategy{Endpoint: EndpointListAll, Params: params}
}

func structuredParams(sort string, fetchLimit int) url.Values {
	params := url.Values{}
	params.Set("sort_by", sort)
	params.Set("page", "1")
	params.Set("page_size", strconv.Itoa(bounded(fetchLimit, MaxSearchPageSize)))
	return params
}
