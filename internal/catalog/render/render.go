// Package render prints catalog state as plain text tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"catalog_browser/internal/catalog/models"
	"catalog_browser/internal/catalog/results"
	"catalog_browser/internal/catalog/session"
	"catalog_browser/internal/catalog/storage"
)

const (
	dash        = "-"
	nameWidth   = 40
	brandWidth  = 20
	paramsWidth = 48
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// Results prints the visible page, the pager and the display total.
func Results(w io.Writer, rs results.ResultSet) error {
	if rs.IsEmpty() {
		_, err := fmt.Fprintln(w, "No products found.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tBRAND\tNAME\tCATEGORY\tPRICE\tDISCOUNT\tSTOCK")
	for _, p := range rs.Visible() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, cell(p.Brand, brandWidth), cell(p.Name, nameWidth), cell(p.Category(), brandWidth),
			Price(p), Discount(p), Stock(p))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nPage %s of %d, %d products\n",
		Pager(rs), rs.TotalPages(), rs.DisplayTotal())
	return err
}

// Pager renders the page window, marking the current page: "1 2 [3] 4 5".
func Pager(rs results.ResultSet) string {
	numbers := rs.PageNumbers()
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if n == rs.CurrentPage() {
			parts = append(parts, "["+strconv.Itoa(n)+"]")
			continue
		}
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, " ")
}

func Price(p models.Product) string {
	if !p.CurrentPrice.Valid {
		return dash
	}
	return p.CurrentPrice.Decimal.StringFixed(0)
}

func Discount(p models.Product) string {
	rate, ok := p.DiscountRate()
	if !ok {
		return dash
	}
	return strconv.Itoa(rate) + "%"
}

func Stock(p models.Product) string {
	if p.LowStock() {
		return p.Stock.String() + " (low)"
	}
	return p.Stock.String()
}

// Product prints every field of a single product.
func Product(w io.Writer, p models.Product) error {
	tw := newTable(w)
	rows := [][2]string{
		{"ID", p.ID},
		{"Brand", orDash(Clean(p.Brand))},
		{"Name", orDash(Clean(p.Name))},
		{"Category", orDash(strings.Join(p.CategoryPath, " > "))},
		{"Price", Price(p)},
		{"Original price", originalPrice(p)},
		{"Discount", Discount(p)},
		{"Stock", Stock(p)},
		{"Spec", orDash(Clean(deref(p.Spec)))},
		{"Image", orDash(deref(p.Image))},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func originalPrice(p models.Product) string {
	if !p.OriginalPrice.Valid {
		return dash
	}
	return p.OriginalPrice.Decimal.StringFixed(0)
}

// Options prints the option preview of one dimension, "[x]" marks selected values.
func Options(w io.Writer, preview session.OptionPreview) error {
	if _, err := fmt.Fprintf(w, "%s\n", preview.Title); err != nil {
		return err
	}
	if len(preview.Options) == 0 {
		_, err := fmt.Fprintln(w, "  (no options)")
		return err
	}
	for _, opt := range preview.Options {
		mark := "[ ]"
		if opt.Selected {
			mark = "[x]"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, opt.Label)
	}
	if preview.More > 0 {
		fmt.Fprintf(w, "  +%d more\n", preview.More)
	}
	return nil
}

// Labels prints one value per line under a title.
func Labels(w io.Writer, title string, labels []string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(labels) == 0 {
		_, err := fmt.Fprintln(w, "  (none)")
		return err
	}
	for _, label := range labels {
		fmt.Fprintf(w, "  %s\n", label)
	}
	return nil
}

func Counts(w io.Writer, counts models.ProductCounts) error {
	_, err := fmt.Fprintf(w, "Catalog: %d products (%d active, %d inactive)\n",
		counts.Total, counts.Active, counts.Inactive)
	return err
}

// History prints query log records, newest first.
func History(w io.Writer, records []storage.QueryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No queries recorded.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "TIME\tACTION\tENDPOINT\tPARAMS\tRESULTS\tFALLBACK\tERROR")
	for _, r := range records {
		fallback := ""
		if r.FallbackUsed {
			fallback = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Action, r.Endpoint,
			orDash(Truncate(r.Params, paramsWidth)), r.ResultCount, orDash(fallback), orDash(r.Error))
	}
	return tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return dash
	}
	return s
}
