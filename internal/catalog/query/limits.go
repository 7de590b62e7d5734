package query

import (
	"catalog_browser/internal/catalog/models"
)

const (
	DefaultFetchLimit   = 150
	MaxFetchLimit       = 1000
	DirectLimit         = 200
	MaxSearchPageSize   = 100
	MaxQuickSearchLimit = 50
)

// FetchLimit sizes the initial fetch from the reported counts:
// active, else total, else the default, clamped to [DefaultFetchLimit, MaxFetchLimit].
func FetchLimit(counts models.ProductCounts) int {
	base := counts.Active
	if base <= 0 {
		base = counts.Total
	}
	if base <= 0 {
		base = DefaultFetchLimit
	}
	return clamp(base, DefaultFetchLimit, MaxFetchLimit)
}

func bounded(fetchLimit, ceiling int) int {
	return clamp(fetchLimit, 1, ceiling)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
