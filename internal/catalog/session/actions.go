package session

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"

	"catalog_browser/internal/catalog/filters"
	"catalog_browser/internal/catalog/models"
	"catalog_browser/internal/catalog/query"
	"catalog_browser/internal/catalog/results"
	"catalog_browser/internal/catalog/storage"
	"catalog_browser/metrics"
)

const (
	actionBootstrap   = "bootstrap"
	actionReload      = "reload"
	actionApply       = "apply"
	actionQuickFilter = "quick_filter"
)

// Apply queries the backend for the current selection using query.Select.
// An empty selection is a full reload.
func (s *Session) Apply(ctx context.Context) error {
	strategy := query.Select(s.filters.Snapshot(), s.FetchLimit())
	if strategy.Endpoint == query.EndpointListAll {
		return s.Reload(ctx)
	}
	return s.run(ctx, actionApply, strategy, nil)
}

// Search sets the free-text query and applies it. A blank query falls back to the
// structured selection, or to a full reload when nothing is selected.
func (s *Session) Search(ctx context.Context, text string) error {
	s.filters.SetQuery(text)
	return s.Apply(ctx)
}

// QuickFilter queries a single dimension value directly, without touching the
// selection.
func (s *Session) QuickFilter(ctx context.Context, d models.Dimension, value string) error {
	if !d.Valid() {
		return errors.Wrapf(filters.ErrUnknownDimension, "%q", d)
	}
	strategy := query.ForDimension(d, value, s.filters.Snapshot().Sort, s.FetchLimit())
	return s.run(ctx, actionQuickFilter, strategy, nil)
}

// Reload fetches the first fetchLimit products. On success the query, every
// dimension and both price bounds are cleared.
func (s *Session) Reload(ctx context.Context) error {
	strategy := query.ListAll(s.FetchLimit())
	return s.run(ctx, actionReload, strategy, func() {
		s.filters.SetQuery("")
		s.filters.ClearAll()
	})
}

// ResetFilters clears the selection and reloads.
func (s *Session) ResetFilters(ctx context.Context) error {
	s.filters.ClearAll()
	return s.Reload(ctx)
}

func (s *Session) run(ctx context.Context, action string, strategy query.Strategy, onApplied func()) error {
	seq := s.begin()
	defer s.end()

	out, err := s.resolve(ctx, strategy)
	s.record(ctx, action, strategy, out, err)
	return s.apply(seq, action, out, err, onApplied)
}

// apply installs the outcome if seq is still the latest query. On error the
// previous ResultSet is left untouched.
func (s *Session) apply(seq uint64, action string, out outcome, err error, onApplied func()) error {
	s.mu.Lock()
	if !s.currentLocked(seq) {
		s.mu.Unlock()
		metrics.RecordStaleResponse()
		s.log.Log("%s: discarding stale response #%d", action, seq)
		return ErrSuperseded
	}
	if err != nil {
		s.err = err
		s.mu.Unlock()
		s.log.Error("%s failed: %v", action, err)
		return err
	}

	rs := s.results.Replace(out.batch.Products)
	if out.endpoint == query.EndpointSearch && out.batch.HasTotal {
		rs = rs.WithTotal(out.batch.Total)
	}
	s.results = rs
	// onApplied runs under mu so it takes effect together with the new results.
	if onApplied != nil {
		onApplied()
	}
	s.mu.Unlock()

	s.log.Log("%s: %d products via %s", action, rs.Len(), out.endpoint)
	return nil
}

func (s *Session) record(ctx context.Context, action string, strategy query.Strategy, out outcome, err error) {
	if s.recorder == nil {
		return
	}
	params := strategy.Params
	if strategy.Name != "" {
		params = cloneWith(params, "name", strategy.Name)
	}
	rec := storage.QueryRecord{
		SessionID:    s.ID,
		Action:       action,
		Endpoint:     string(strategy.Endpoint),
		Params:       params.Encode(),
		ResultCount:  len(out.batch.Products),
		DisplayTotal: len(out.batch.Products),
		FallbackUsed: out.fallbackUsed,
	}
	if out.batch.HasTotal {
		rec.DisplayTotal = out.batch.Total
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if recErr := s.recorder.Record(ctx, rec); recErr != nil {
		s.log.Warn("query log: %v", recErr)
	}
}

func cloneWith(values url.Values, key, value string) url.Values {
	out := url.Values{}
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	out.Set(key, value)
	return out
}

// SetActiveDimension selects which option list OptionPreview shows.
func (s *Session) SetActiveDimension(d models.Dimension) error {
	if !d.Valid() {
		return errors.Wrapf(filters.ErrUnknownDimension, "%q", d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeDimension = d
	return nil
}

type OptionState struct {
	Label    string
	Selected bool
}

type OptionPreview struct {
	Dimension models.Dimension
	Title     string
	Options   []OptionState
	// More is the number of options beyond the preview limit.
	More int
}

// OptionPreview lists the first limit options of the active dimension with their
// selection state.
func (s *Session) OptionPreview(limit int) OptionPreview {
	s.mu.Lock()
	d := s.activeDimension
	all := s.options.ForDimension(d)
	s.mu.Unlock()

	shown := all
	if limit > 0 && len(all) > limit {
		shown = all[:limit]
	}
	preview := OptionPreview{
		Dimension: d,
		Title:     d.Title(),
		Options:   make([]OptionState, 0, len(shown)),
		More:      len(all) - len(shown),
	}
	for _, label := range shown {
		preview.Options = append(preview.Options, OptionState{
			Label:    label,
			Selected: s.filters.IsSelected(d, label),
		})
	}
	return preview
}

// View is a consistent snapshot for rendering.
type View struct {
	Results       results.ResultSet
	Counts        models.ProductCounts
	Err           error
	Loading       bool
	SelectedCount int
}

func (s *Session) View() View {
	selected := s.filters.SelectedCount()
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Results:       s.results,
		Counts:        s.counts,
		Err:           s.err,
		Loading:       s.loading > 0,
		SelectedCount: selected,
	}
}
