package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog_browser/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}
	base := RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	rt := Chain(base, mark("outer"), mark("inner"))
	req := httptest.NewRequest(http.MethodGet, "http://catalog/api/products", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"outer", "inner", "base"}, order)
}

func TestRequestIDIsSetOnce(t *testing.T) {
	var seen string
	base := RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Get(RequestIDHeader)
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
	rt := Chain(base, RequestID())

	req := httptest.NewRequest(http.MethodGet, "http://catalog/api/products", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	_, err = uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Empty(t, req.Header.Get(RequestIDHeader), "original request must not be mutated")

	req.Header.Set(RequestIDHeader, "fixed")
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed", seen)
}

func TestRateLimitHonoursContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	base := RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
	rt := Chain(base, RateLimit(limiter))

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://catalog/a", nil))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "http://catalog/b", nil).WithContext(ctx)
	_, err = rt.RoundTrip(req)
	assert.Error(t, err)
}

func TestEndpointFrom(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://catalog/api/products/brand/x", nil)
	assert.Equal(t, "/api/products/brand/x", EndpointFrom(req))

	req = req.WithContext(WithEndpoint(req.Context(), "by_brand"))
	assert.Equal(t, "by_brand", EndpointFrom(req))
}

func TestLoggingAndPrometheus(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewSilentLogger(&buf, "[Transport]")
	base := RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusNotFound, Body: http.NoBody}, nil
	})
	rt := Chain(base, Prometheus(), Logging(log))

	resp, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://catalog/api/products/count", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, buf.String(), "GET /api/products/count -> 404")
}
