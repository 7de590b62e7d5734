package session

import (
	"context"

	"github.com/go-faster/errors"

	"catalog_browser/internal/catalog/query"
)

// Bootstrap runs count -> filter options -> first batch, strictly in order.
// A failing step aborts the sequence and fills the error slot; state from the
// completed steps is kept. Retry simply runs the whole sequence again.
func (s *Session) Bootstrap(ctx context.Context) error {
	seq := s.begin()
	defer s.end()

	counts, ok, err := s.catalog.Count(ctx)
	if err != nil {
		return s.fail(seq, errors.Wrap(err, "load product counts"))
	}
	if ok {
		limit := query.FetchLimit(counts)
		s.mu.Lock()
		s.counts = counts
		s.fetchLimit = limit
		s.mu.Unlock()
		s.log.Log("counts: total=%d active=%d inactive=%d, fetch limit %d",
			counts.Total, counts.Active, counts.Inactive, limit)
	} else {
		s.log.Warn("count endpoint reported failure, keeping fetch limit %d", s.FetchLimit())
	}

	options, ok, err := s.catalog.FilterOptions(ctx)
	if err != nil {
		return s.fail(seq, errors.Wrap(err, "load filter options"))
	}
	if ok {
		s.mu.Lock()
		s.options = options
		s.mu.Unlock()
		if options.GlobalPriceRange != nil {
			s.filters.AdoptPriceRange(*options.GlobalPriceRange)
		}
	} else {
		s.log.Warn("filter options endpoint reported failure")
	}

	strategy := query.ListAll(s.FetchLimit())
	out, err := s.resolve(ctx, strategy)
	s.record(ctx, actionBootstrap, strategy, out, err)
	if err != nil {
		err = errors.Wrap(err, "load products")
	}
	return s.apply(seq, actionBootstrap, out, err, nil)
}

// Retry re-runs the bootstrap sequence after a failure.
func (s *Session) Retry(ctx context.Context) error {
	return s.Bootstrap(ctx)
}

func (s *Session) fail(seq uint64, err error) error {
	return s.apply(seq, actionBootstrap, outcome{}, err, nil)
}
