package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WeatherProvider supplies a free-text weather description for a city.
// An empty string means no weather context and no scoring penalty.
type WeatherProvider interface {
	Describe(ctx context.Context, city string) string
}

type weatherCacheEntry struct {
	desc      string
	expiresAt time.Time
}

// OpenWeatherClient fetches current conditions from the OpenWeatherMap
// current-weather endpoint, caching per city. Any failure degrades to an
// empty description rather than an error.
type OpenWeatherClient struct {
	HTTP       *http.Client
	APIKey     string
	BaseURL    string
	DefaultTTL time.Duration

	mu    sync.RWMutex
	cache map[string]weatherCacheEntry

	logger *zap.Logger
}

func NewOpenWeatherClient(apiKey string, logger *zap.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		HTTP:       &http.Client{Timeout: 10 * time.Second},
		APIKey:     apiKey,
		BaseURL:    "https://api.openweathermap.org/data/2.5/weather",
		DefaultTTL: 30 * time.Minute,
		cache:      make(map[string]weatherCacheEntry),
		logger:     logger,
	}
}

type openWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

func (c *OpenWeatherClient) Describe(ctx context.Context, city string) string {
	if c.APIKey == "" {
		return ""
	}
	key := strings.ToLower(strings.TrimSpace(city))

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.desc
	}

	desc := c.fetch(ctx, city)

	c.mu.Lock()
	c.cache[key] = weatherCacheEntry{desc: desc, expiresAt: time.Now().Add(c.DefaultTTL)}
	c.mu.Unlock()
	return desc
}

func (c *OpenWeatherClient) fetch(ctx context.Context, city string) string {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.APIKey)
	q.Set("units", "metric")
	q.Set("lang", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return ""
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logger.Warn("weather lookup failed", zap.String("city", city), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("weather lookup returned non-200",
			zap.String("city", city), zap.Int("status", resp.StatusCode))
		return ""
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("weather payload decode failed", zap.String("city", city), zap.Error(err))
		return ""
	}
	if len(payload.Weather) == 0 {
		return ""
	}
	return fmt.Sprintf("%s, %.0f°C", strings.ToLower(payload.Weather[0].Description), payload.Main.Temp)
}

// StaticWeatherProvider returns a fixed description for every city. Used in
// tests and when no API key is configured.
type StaticWeatherProvider struct {
	Desc string
}

func (s StaticWeatherProvider) Describe(ctx context.Context, city string) string {
	return s.Desc
}
