package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorServiceUF(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/uf", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"serie":[{"fecha":"2026-08-28T00:00:00.000Z","valor":39123.45}]}`))
	}))
	defer srv.Close()

	s := NewIndicatorService(srv.URL, nil)
	v, err := s.UF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28T00:00:00.000Z", v.Date)
	assert.Equal(t, 39123.45, v.Value)

	// Second call is served from cache.
	_, err = s.UF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestIndicatorServiceCacheExpiry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"serie":[{"fecha":"2026-08-28T00:00:00.000Z","valor":39123.45}]}`))
	}))
	defer srv.Close()

	s := NewIndicatorService(srv.URL, nil)
	s.CacheTTL = time.Nanosecond

	_, err := s.UF(context.Background())
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = s.UF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestIndicatorServiceEmptySerie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"serie":[]}`))
	}))
	defer srv.Close()

	s := NewIndicatorService(srv.URL, nil)
	_, err := s.UF(context.Background())
	assert.ErrorIs(t, err, ErrIndicatorUnavailable)
}

func TestIndicatorServiceUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewIndicatorService(srv.URL, nil)
	_, err := s.UF(context.Background())
	assert.Error(t, err)
}
