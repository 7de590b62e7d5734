// Package session is the action boundary of the catalog browser. It owns the
// filter store, the fetched options and counts, the current ResultSet and the
// single error slot, and applies only the response of the latest issued query.
package session

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"catalog_browser/internal/catalog/filters"
	"catalog_browser/internal/catalog/models"
	"catalog_browser/internal/catalog/normalize"
	"catalog_browser/internal/catalog/query"
	"catalog_browser/internal/catalog/results"
	"catalog_browser/internal/catalog/storage"
	"catalog_browser/pkg/logger"
)

// ErrSuperseded is returned by an action whose response arrived after a newer
// query had been issued; the response was discarded.
var ErrSuperseded = errors.New("response superseded by a newer query")

// Catalog is the remote inventory service as seen by the session.
type Catalog interface {
	Count(ctx context.Context) (models.ProductCounts, bool, error)
	FilterOptions(ctx context.Context) (models.FilterOptions, bool, error)
	Fetch(ctx context.Context, s query.Strategy) (normalize.Batch, error)
}

type QueryRecorder interface {
	Record(ctx context.Context, rec storage.QueryRecord) error
}

type Option func(*Session)

func WithPageSize(size int) Option {
	return func(s *Session) {
		s.results = results.Empty(size)
	}
}

func WithRecorder(r QueryRecorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

type Session struct {
	ID string

	catalog  Catalog
	filters  *filters.Store
	log      logger.Logger
	recorder QueryRecorder

	mu              sync.Mutex
	counts          models.ProductCounts
	options         models.FilterOptions
	fetchLimit      int
	results         results.ResultSet
	err             error
	loading         int
	seq             uint64
	activeDimension models.Dimension
}

func New(catalog Catalog, log logger.Logger, opts ...Option) *Session {
	s := &Session{
		ID:              uuid.NewString(),
		catalog:         catalog,
		filters:         filters.NewStore(),
		log:             log,
		options:         models.EmptyFilterOptions(),
		fetchLimit:      query.DefaultFetchLimit,
		results:         results.Empty(results.DefaultPageSize),
		activeDimension: models.DimensionBrand,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Filters() *filters.Store {
	return s.filters
}

func (s *Session) Results() results.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

func (s *Session) Options() models.FilterOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

func (s *Session) Counts() models.ProductCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts
}

func (s *Session) FetchLimit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchLimit
}

// Err is the single user-facing error slot. It is cleared when a new query starts.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Loading reports whether any query is outstanding. Callers use it to gate
// further query actions.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// ChangePage is local: it never issues a request.
func (s *Session) ChangePage(n int) results.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = s.results.ChangePage(n)
	return s.results
}

// begin issues a new sequence number for the results slot.
func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading++
	s.err = nil
	return s.seq
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
}

// currentLocked must be called with mu held.
func (s *Session) currentLocked(seq uint64) bool {
	return seq == s.seq
}
