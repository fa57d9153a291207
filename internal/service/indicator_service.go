package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ErrIndicatorUnavailable is returned when the UF value is missing from
// the upstream response.
var ErrIndicatorUnavailable = errors.New("indicator not available")

// UFValue is the economic indicator snapshot returned to clients.
type UFValue struct {
	Date  string
	Value float64
}

// IndicatorService fetches the UF value from mindicador.cl and caches
// it, since the indicator only changes once a day.
type IndicatorService struct {
	BaseURL  string
	Client   *http.Client
	CacheTTL time.Duration
	Logger   *slog.Logger

	mu        sync.Mutex
	cached    *UFValue
	fetchedAt time.Time
}

func NewIndicatorService(baseURL string, logger *slog.Logger) *IndicatorService {
	return &IndicatorService{
		BaseURL:  baseURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
		CacheTTL: time.Hour,
		Logger:   logger,
	}
}

func (s *IndicatorService) UF(ctx context.Context) (*UFValue, error) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.fetchedAt) < s.CacheTTL {
		v := *s.cached
		s.mu.Unlock()
		return &v, nil
	}
	s.mu.Unlock()

	v, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = v
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	out := *v
	return &out, nil
}

func (s *IndicatorService) fetch(ctx context.Context) (*UFValue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/uf", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch uf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch uf: upstream returned %d", resp.StatusCode)
	}

	var payload struct {
		Serie []struct {
			Fecha string  `json:"fecha"`
			Valor float64 `json:"valor"`
		} `json:"serie"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("fetch uf: %w", err)
	}
	if len(payload.Serie) == 0 {
		return nil, ErrIndicatorUnavailable
	}
	return &UFValue{Date: payload.Serie[0].Fecha, Value: payload.Serie[0].Valor}, nil
}
