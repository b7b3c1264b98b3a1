// Package aqua is the HTTP client for the aquapark ticketing and
// occupancy service. Responses are loosely structured, so decoding is
// tolerant: see decode.go.
package aqua

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tariff is one priced ticket option for a date/session.
type Tariff struct {
	Name        string
	Price       float64
	Description string
}

// Client calls the ticketing service.
type Client struct {
	baseURL    string
	siteID     int
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client for the given ticketing endpoint.
func NewClient(baseURL string, siteID int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		siteID:     siteID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRedisCache enables read-through caching for GET endpoints.
func (c *Client) UseRedisCache(rdb *redis.Client, ttl time.Duration) {
	c.redis = rdb
	c.cacheTTL = ttl
}

// GetSessions returns available time slots for a date (DD.MM.YYYY).
func (c *Client) GetSessions(ctx context.Context, date string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/getSessionsAqua?date=%s", c.baseURL, url.QueryEscape(date))
	cacheKey := "aqua:sessions:" + date

	if data, ok := c.readCache(ctx, cacheKey); ok {
		return DecodeSessions(data), nil
	}

	data, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, data)
	return DecodeSessions(data), nil
}

// GetTariffs returns ticket tariffs for a date (DD.MM.YYYY).
func (c *Client) GetTariffs(ctx context.Context, date string) ([]Tariff, error) {
	endpoint := fmt.Sprintf("%s/getTariffsAqua?date=%s", c.baseURL, url.QueryEscape(date))
	cacheKey := "aqua:tariffs:" + date

	if data, ok := c.readCache(ctx, cacheKey); ok {
		return DecodeTariffs(data), nil
	}

	data, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, data)
	return DecodeTariffs(data), nil
}

// CurrentLoad returns the occupancy percentage reported by the site.
func (c *Client) CurrentLoad(ctx context.Context) (int, error) {
	endpoint := fmt.Sprintf("%s/CurrentLoad", c.baseURL)
	body, err := json.Marshal(map[string]int{"SiteID": c.siteID})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	load, ok := DecodeLoad(data)
	if !ok {
		return 0, fmt.Errorf("unrecognized load response shape")
	}
	return load, nil
}

func (c *Client) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) readCache(ctx context.Context, key string) ([]byte, bool) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return nil, false
	}
	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *Client) writeCache(ctx context.Context, key string, data []byte) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}
