package grievance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type httpClient struct {
	cfg        Config
	httpClient *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time

	// Response cache keyed by request path + query
	cache      map[string]*cacheEntry
	cacheMutex sync.Mutex
}

type cacheEntry struct {
	Reports    []Report
	Expiration time.Time
}

// NewHTTPClient creates a throttled, caching client for the portal REST API.
func NewHTTPClient(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Minute
	}
	return &httpClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *httpClient) getFromCache(key string) ([]Report, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")
	return entry.Reports, true
}

func (c *httpClient) addToCache(key string, reports []Report) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Reports:    reports,
		Expiration: time.Now().Add(c.cfg.CacheTTL),
	}
}

// throttle spaces consecutive requests by RequestDelay.
func (c *httpClient) throttle(ctx context.Context) error {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling portal request")
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *httpClient) ListReports(ctx context.Context) ([]Report, error) {
	return c.list(ctx, url.Values{})
}

func (c *httpClient) ListReportsFiltered(ctx context.Context, department, status string) ([]Report, error) {
	params := url.Values{}
	if department != "" {
		params.Set("department", department)
	}
	if status != "" {
		params.Set("status", status)
	}
	return c.list(ctx, params)
}

func (c *httpClient) list(ctx context.Context, params url.Values) ([]Report, error) {
	path := "/admin/reports"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	if cached, ok := c.getFromCache(path); ok {
		return cached, nil
	}

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	reqURL := strings.TrimRight(c.cfg.BaseURL, "/") + path
	log.Info().Msg("Requesting reports from portal")
	log.Debug().Str("url", reqURL).Msg("Portal request details")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserID != "" {
		req.Header.Set("X-User-ID", c.cfg.UserID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, ErrUnauthorized
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("portal API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read portal response: %w", err)
	}

	reports, err := DecodeReports(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode portal response: %w", err)
	}

	log.Info().Int("reports", len(reports)).Msg("Portal snapshot received")
	c.addToCache(path, reports)
	return reports, nil
}
