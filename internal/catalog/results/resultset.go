// Package results keeps the full, unpaged result of the last successful query and
// derives the visible page from it.
package results

import (
	"catalog_browser/internal/catalog/models"
)

const (
	DefaultPageSize = 12
	maxPageNumbers  = 5
)

// ResultSet is a value: every mutation returns a new ResultSet, and the visible
// page is always computed from Items, never stored separately.
type ResultSet struct {
	items    []models.Product
	pageSize int
	page     int
	total    int
	hasTotal bool
}

func New(items []models.Product, pageSize int) ResultSet {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if items == nil {
		items = []models.Product{}
	}
	return ResultSet{items: items, pageSize: pageSize, page: 1}
}

func Empty(pageSize int) ResultSet {
	return New(nil, pageSize)
}

// WithTotal records a server-reported total. It only affects DisplayTotal.
func (r ResultSet) WithTotal(total int) ResultSet {
	if total >= 0 {
		r.total, r.hasTotal = total, true
	}
	return r
}

// Replace installs a new sequence and resets to page 1. The page size is kept.
func (r ResultSet) Replace(items []models.Product) ResultSet {
	return New(items, r.PageSize())
}

func (r ResultSet) Items() []models.Product {
	return r.items
}

func (r ResultSet) Len() int {
	return len(r.items)
}

func (r ResultSet) PageSize() int {
	if r.pageSize <= 0 {
		return DefaultPageSize
	}
	return r.pageSize
}

func (r ResultSet) CurrentPage() int {
	return max(1, min(r.page, r.TotalPages()))
}

func (r ResultSet) TotalPages() int {
	size := r.PageSize()
	return max(1, (len(r.items)+size-1)/size)
}

// DisplayTotal is the item count shown to the user: the server total when one
// was reported, the sequence length otherwise.
func (r ResultSet) DisplayTotal() int {
	if r.hasTotal {
		return r.total
	}
	return len(r.items)
}

func (r ResultSet) IsEmpty() bool {
	return len(r.items) == 0
}

// ChangePage clamps n to [1, TotalPages]. It never touches the network.
func (r ResultSet) ChangePage(n int) ResultSet {
	r.page = max(1, min(n, r.TotalPages()))
	return r
}

func (r ResultSet) Visible() []models.Product {
	size := r.PageSize()
	start := (r.CurrentPage() - 1) * size
	if start >= len(r.items) {
		return []models.Product{}
	}
	end := min(start+size, len(r.items))
	return r.items[start:end:end]
}

// PageNumbers returns at most five consecutive page numbers centred on the
// current page and shifted to stay inside [1, TotalPages].
func (r ResultSet) PageNumbers() []int {
	total, current := r.TotalPages(), r.CurrentPage()
	if total <= maxPageNumbers {
		return pageRange(1, total)
	}
	start := max(1, current-maxPageNumbers/2)
	end := min(total, current+maxPageNumbers/2)
	if start == 1 {
		end = maxPageNumbers
	}
	if end == total {
		start = total - maxPageNumbers + 1
	}
	return pageRange(start, end)
}

func pageRange(from, to int) []int {
	pages := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		pages = append(pages, i)
	}
	return pages
}
