package session

import (
	"context"

	"github.com/go-faster/errors"

	"catalog_browser/internal/catalog/clients"
	"catalog_browser/internal/catalog/normalize"
	"catalog_browser/internal/catalog/query"
	"catalog_browser/metrics"
)

type outcome struct {
	batch        normalize.Batch
	endpoint     query.Endpoint
	fallbackUsed bool
}

func emptyOutcome(endpoint query.Endpoint, fallbackUsed bool) outcome {
	return outcome{
		batch:        normalize.Batch{Products: nil},
		endpoint:     endpoint,
		fallbackUsed: fallbackUsed,
	}
}

// resolve runs a strategy. Direct by-brand/by-category requests that come back
// empty are retried once through structured search; "not found" on either
// request is an empty result, any other failure of the retry is an error.
func (s *Session) resolve(ctx context.Context, strategy query.Strategy) (outcome, error) {
	batch, err := s.catalog.Fetch(ctx, strategy)
	if !strategy.Direct() || strategy.Fallback == nil {
		if err != nil {
			return outcome{}, err
		}
		return outcome{batch: batch, endpoint: strategy.Endpoint}, nil
	}

	if err != nil {
		if clients.IsNotFound(err) {
			s.log.Warn("no results for %s %q", strategy.Dimension, strategy.Value)
			return emptyOutcome(strategy.Endpoint, false), nil
		}
		return outcome{}, err
	}
	if len(batch.Products) > 0 {
		return outcome{batch: batch, endpoint: strategy.Endpoint}, nil
	}

	fallback := *strategy.Fallback
	dimension := string(strategy.Dimension)
	s.log.Log("%s %q returned nothing, retrying via structured search", strategy.Endpoint, strategy.Value)

	retry, err := s.catalog.Fetch(ctx, fallback)
	switch {
	case clients.IsNotFound(err):
		metrics.RecordFallback(dimension, "not_found")
		return emptyOutcome(fallback.Endpoint, true), nil
	case err != nil:
		metrics.RecordFallback(dimension, "error")
		return outcome{}, errors.Wrap(err, "fallback search")
	case len(retry.Products) == 0:
		metrics.RecordFallback(dimension, "empty")
	default:
		metrics.RecordFallback(dimension, "recovered")
	}
	return outcome{batch: retry, endpoint: fallback.Endpoint, fallbackUsed: true}, nil
}
