package results

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog_browser/internal/catalog/models"
)

func products(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{ID: fmt.Sprintf("p%03d", i)}
	}
	return out
}

func TestPagesReconstructResultSet(t *testing.T) {
	for _, tc := range []struct{ length, size int }{{0, 12}, {1, 12}, {12, 12}, {13, 12}, {150, 12}, {7, 3}} {
		t.Run(fmt.Sprintf("%d_by_%d", tc.length, tc.size), func(t *testing.T) {
			rs := New(products(tc.length), tc.size)
			var joined []models.Product
			for n := 1; n <= rs.TotalPages(); n++ {
				page := rs.ChangePage(n)
				want := min(tc.size, tc.length-(n-1)*tc.size)
				if tc.length == 0 {
					want = 0
				}
				assert.Len(t, page.Visible(), want, "page %d", n)
				joined = append(joined, page.Visible()...)
			}
			if tc.length == 0 {
				assert.Empty(t, joined)
				return
			}
			assert.Equal(t, rs.Items(), joined)
		})
	}
}

func TestChangePageClamps(t *testing.T) {
	rs := New(products(30), 12)

	assert.Equal(t, 3, rs.TotalPages())
	assert.Equal(t, 1, rs.ChangePage(0).CurrentPage())
	assert.Equal(t, 1, rs.ChangePage(-4).CurrentPage())
	assert.Equal(t, 3, rs.ChangePage(99).CurrentPage())
	assert.Len(t, rs.ChangePage(3).Visible(), 6)
	assert.Equal(t, 1, rs.CurrentPage(), "ChangePage returns a new value")
}

func TestEmptyResultSet(t *testing.T) {
	rs := Empty(12)

	assert.True(t, rs.IsEmpty())
	assert.Equal(t, 1, rs.TotalPages())
	assert.Equal(t, 1, rs.CurrentPage())
	assert.Empty(t, rs.Visible())
	assert.Equal(t, []int{1}, rs.PageNumbers())
	assert.Equal(t, 0, rs.DisplayTotal())
}

func TestReplaceResetsPage(t *testing.T) {
	rs := New(products(50), 10).ChangePage(4)
	assert.Equal(t, 4, rs.CurrentPage())

	replaced := rs.Replace(products(8))

	assert.Equal(t, 1, replaced.CurrentPage())
	assert.Equal(t, 10, replaced.PageSize())
	assert.Len(t, replaced.Visible(), 8)
}

func TestDisplayTotalPrefersServerTotal(t *testing.T) {
	rs := New(products(100), 12).WithTotal(2400)

	assert.Equal(t, 2400, rs.DisplayTotal())
	assert.Equal(t, 9, rs.TotalPages(), "pagination uses the returned sequence only")
	assert.Equal(t, 100, New(products(100), 12).DisplayTotal())
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		total, current int
		want           []int
	}{
		{12, 7, []int{5, 6, 7, 8, 9}},
		{12, 1, []int{1, 2, 3, 4, 5}},
		{12, 2, []int{1, 2, 3, 4, 5}},
		{12, 11, []int{8, 9, 10, 11, 12}},
		{12, 12, []int{8, 9, 10, 11, 12}},
		{5, 3, []int{1, 2, 3, 4, 5}},
		{3, 2, []int{1, 2, 3}},
		{6, 3, []int{1, 2, 3, 4, 5}},
		{6, 4, []int{2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_at_%d", tt.total, tt.current), func(t *testing.T) {
			rs := New(products(tt.total*4), 4).ChangePage(tt.current)
			assert.Equal(t, tt.want, rs.PageNumbers())
		})
	}
}
