package middleware

import (
	"context"
	"net/http"
	"time"

	"catalog_browser/metrics"
	"catalog_browser/pkg/logger"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const RequestIDHeader = "X-Request-ID"

// Middleware оборачивает транспорт клиента каталога.
type Middleware func(next http.RoundTripper) http.RoundTripper

type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain применяет middlewares так, что первая оказывается внешней.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

type endpointKey struct{}

// WithEndpoint помечает запрос логическим именем эндпоинта для меток метрик,
// чтобы /brand/{name} не раздувал кардинальность.
func WithEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, endpointKey{}, endpoint)
}

func EndpointFrom(req *http.Request) string {
	if v, ok := req.Context().Value(endpointKey{}).(string); ok && v != "" {
		return v
	}
	return req.URL.Path
}

func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) == "" {
				req = req.Clone(req.Context())
				req.Header.Set(RequestIDHeader, uuid.NewString())
			}
			return next.RoundTrip(req)
		})
	}
}

// RateLimit блокирует запрос до получения токена или отмены контекста.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if limiter != nil {
				if err := limiter.Wait(req.Context()); err != nil {
					return nil, errors.Wrap(err, "rate limit wait")
				}
			}
			return next.RoundTrip(req)
		})
	}
}

func Prometheus() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			status := 0
			if err == nil {
				status = resp.StatusCode
			}
			metrics.RecordRequest(req.Method, EndpointFrom(req), status, time.Since(start))
			return resp, err
		})
	}
}

func Logging(log logger.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			if err != nil {
				log.Warn("%s %s failed after %s: %v", req.Method, req.URL.RequestURI(), time.Since(start), err)
				return resp, err
			}
			log.Log("%s %s -> %d in %s [%s]", req.Method, req.URL.RequestURI(), resp.StatusCode,
				time.Since(start).Round(time.Millisecond), req.Header.Get(RequestIDHeader))
			return resp, err
		})
	}
}
