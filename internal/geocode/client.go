// Package geocode wraps the upstream postcode lookup service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kosatka-dev/postmap/internal/config"
	"github.com/kosatka-dev/postmap/internal/geo"
	"github.com/kosatka-dev/postmap/internal/metrics"

	"github.com/rs/zerolog/log"
)

var (
	// ErrBlankPostcode is returned for empty or whitespace-only input,
	// before any request is issued.
	ErrBlankPostcode = errors.New("blank postcode")

	// ErrNotFound is returned when the upstream answers with an empty
	// result set. Callers must not conflate it with ErrUpstream.
	ErrNotFound = errors.New("postcode not found")

	// ErrUpstream wraps request, status and parse failures.
	ErrUpstream = errors.New("geocoder request failed")
)

// Result is a successfully geocoded postcode.
type Result struct {
	Postcode    string
	Coordinates geo.Coordinates
}

// Client issues forward-geocoding lookups scoped to a fixed country,
// with a TTL cache in front of the upstream.
type Client struct {
	http     *http.Client
	metrics  *metrics.Metrics
	cache    *cache
	endpoint string
	country  string
}

// NewClient builds a client from the geocoder configuration.
// Metrics may be nil (CLI usage).
func NewClient(cfg config.Geocoder, m *metrics.Metrics) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout.Std()},
		metrics:  m,
		cache:    newCache(cfg.CacheTTL.Std()),
		endpoint: cfg.Endpoint,
		country:  cfg.Country,
	}
}

// Normalize uppercases and trims a raw postcode.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// upstream result row; coordinates arrive as strings
type lookupRow struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup geocodes a postcode. It returns ErrBlankPostcode for blank input,
// ErrNotFound for an empty upstream result set and a wrapped ErrUpstream for
// anything that went wrong on the wire.
func (c *Client) Lookup(ctx context.Context, postcode string) (Result, error) {
	norm := Normalize(postcode)
	if norm == "" {
		return Result{}, ErrBlankPostcode
	}

	if res, found, ok := c.cache.get(norm); ok {
		c.countCache("hit")
		if !found {
			return Result{}, ErrNotFound
		}
		return res, nil
	}
	c.countCache("miss")

	res, err := c.fetch(ctx, norm)
	switch {
	case err == nil:
		c.countLookup("ok")
		c.cache.put(norm, res, true)
	case errors.Is(err, ErrNotFound):
		c.countLookup("not_found")
		c.cache.put(norm, Result{}, false)
	default:
		c.countLookup("error")
	}

	return res, err
}

// fetch performs the single upstream request/response cycle.
func (c *Client) fetch(ctx context.Context, postcode string) (Result, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("country", c.country)
	q.Set("postalcode", postcode)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", "postmap")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("postcode", postcode).Msg("Geocoder request failed")
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.observeDuration(time.Since(start))

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("postcode", postcode).Msg("Geocoder returned bad status")
		return Result{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var rows []lookupRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		log.Error().Err(err).Str("postcode", postcode).Msg("Geocoder response malformed")
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(rows) == 0 {
		return Result{}, ErrNotFound
	}

	lat, latErr := strconv.ParseFloat(rows[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(rows[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return Result{}, fmt.Errorf("%w: unparsable coordinates %q, %q", ErrUpstream, rows[0].Lat, rows[0].Lon)
	}

	log.Debug().
		Str("postcode", postcode).
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("Postcode geocoded")

	return Result{
		Postcode:    postcode,
		Coordinates: geo.Coordinates{Lon: lon, Lat: lat},
	}, nil
}

func (c *Client) countLookup(outcome string) {
	if c.metrics != nil {
		c.metrics.GeocodeLookupsTotal.WithLabelValues(outcome).Inc()
	}
}

func (c *Client) countCache(result string) {
	if c.metrics != nil {
		c.metrics.GeocodeCacheHits.WithLabelValues(result).Inc()
	}
}

func (c *Client) observeDuration(d time.Duration) {
	if c.metrics != nil {
		c.metrics.GeocodeDuration.Observe(d.Seconds())
	}
}
