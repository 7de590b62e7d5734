// Package filters holds the user's filter selection. The store never talks to
// the network; callers decide when a mutation should trigger a query.
package filters

import (
	"slices"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"catalog_browser/internal/catalog/models"
)

var ErrUnknownDimension = errors.New("unknown filter dimension")

const DefaultSort = "popularity"

// Известные ключи сортировки. Неизвестные передаются сервису как есть.
var SortKeys = []string{"popularity", "price_low", "price_high", "recent", "discount"}

type Bound int

const (
	BoundMin Bound = iota
	BoundMax
)

type PriceBounds struct {
	Min decimal.NullDecimal
	Max decimal.NullDecimal
}

func (b PriceBounds) IsSet() bool {
	return b.Min.Valid || b.Max.Valid
}

// State is an immutable snapshot of the selection.
type State struct {
	Selected map[models.Dimension][]string
	Price    PriceBounds
	Sort     string
	Query    string
}

func (s State) Values(d models.Dimension) []string {
	return s.Selected[d]
}

func (s State) First(d models.Dimension) (string, bool) {
	values := s.Selected[d]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Populated lists non-empty dimensions in display order.
func (s State) Populated() []models.Dimension {
	var out []models.Dimension
	for _, d := range models.Dimensions {
		if len(s.Selected[d]) > 0 {
			out = append(out, d)
		}
	}
	return out
}

func (s State) SelectedCount() int {
	n := 0
	for _, values := range s.Selected {
		n += len(values)
	}
	return n
}

func (s State) HasCriteria() bool {
	return s.SelectedCount() > 0 || s.Price.IsSet()
}

func (s State) TrimmedQuery() string {
	return strings.TrimSpace(s.Query)
}

type Store struct {
	mu       sync.RWMutex
	selected map[models.Dimension][]string
	price    PriceBounds
	sort     string
	query    string
}

func NewStore() *Store {
	return &Store{
		selected: emptySelection(),
		sort:     DefaultSort,
	}
}

func emptySelection() map[models.Dimension][]string {
	selected := make(map[models.Dimension][]string, len(models.Dimensions))
	for _, d := range models.Dimensions {
		selected[d] = []string{}
	}
	return selected
}

// Toggle adds value if absent and removes it if present. Selection order is kept
// so rendering and the "first value" sent to the backend are deterministic.
func (s *Store) Toggle(d models.Dimension, value string) error {
	if !d.Valid() {
		return errors.Wrapf(ErrUnknownDimension, "%q", d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.selected[d]
	if i := slices.Index(current, value); i >= 0 {
		s.selected[d] = slices.Delete(slices.Clone(current), i, i+1)
		return nil
	}
	s.selected[d] = append(slices.Clone(current), value)
	return nil
}

func (s *Store) IsSelected(d models.Dimension, value string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.selected[d], value)
}

func (s *Store) Clear(d models.Dimension) error {
	if !d.Valid() {
		return errors.Wrapf(ErrUnknownDimension, "%q", d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[d] = []string{}
	return nil
}

// ClearAll empties every dimension and unsets both price bounds.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = emptySelection()
	s.price = PriceBounds{}
}

func (s *Store) SetPriceBound(which Bound, value decimal.NullDecimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch which {
	case BoundMin:
		s.price.Min = value
	case BoundMax:
		s.price.Max = value
	}
}

// AdoptPriceRange fills only the bounds that are still unset.
func (s *Store) AdoptPriceRange(r models.PriceRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.price.Min.Valid {
		s.price.Min = decimal.NewNullDecimal(r.Min)
	}
	if !s.price.Max.Valid {
		s.price.Max = decimal.NewNullDecimal(r.Max)
	}
}

func (s *Store) SetSort(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		key = DefaultSort
	}
	s.sort = key
}

func (s *Store) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = text
}

func (s *Store) SelectedCount() int {
	return s.Snapshot().SelectedCount()
}

func (s *Store) HasCriteria() bool {
	return s.Snapshot().HasCriteria()
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	selected := make(map[models.Dimension][]string, len(s.selected))
	for d, values := range s.selected {
		selected[d] = slices.Clone(values)
	}
	return State{
		Selected: selected,
		Price:    s.price,
		Sort:     s.sort,
		Query:    s.query,
	}
}
