package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kosatka-dev/postmap/internal/config"
	"github.com/kosatka-dev/postmap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.Geocoder{
		Endpoint: srv.URL,
		Country:  "United Kingdom",
		Timeout:  config.Duration(5 * time.Second),
		CacheTTL: config.Duration(time.Minute),
	}, nil)

	return client
}

func TestLookupSuccess(t *testing.T) {
	var gotQuery atomic.Value

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		_, _ = w.Write([]byte(`[{"lat":"51.5014","lon":"-0.1419"}]`))
	})

	res, err := client.Lookup(context.Background(), "sw1a 1aa")
	require.NoError(t, err)

	assert.Equal(t, "SW1A 1AA", res.Postcode)
	assert.Equal(t, geo.Coordinates{Lon: -0.1419, Lat: 51.5014}, res.Coordinates)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "United Kingdom", q.Get("country"))
	assert.Equal(t, "SW1A 1AA", q.Get("postalcode"))
	assert.Equal(t, "1", q.Get("limit"))
}

func TestLookupNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Lookup(context.Background(), "ZZ99 9ZZ")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUpstream)
}

func TestLookupUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"an array"`))
			},
		},
		{
			"unparsable coordinates",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"lat":"north","lon":"west"}]`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			_, err := client.Lookup(context.Background(), "SW1A 1AA")

			assert.ErrorIs(t, err, ErrUpstream)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLookupBlankPostcodeIssuesNoRequest(t *testing.T) {
	var calls atomic.Int64

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	})

	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := client.Lookup(context.Background(), input)
		assert.ErrorIs(t, err, ErrBlankPostcode)
	}

	assert.Zero(t, calls.Load())
}

func TestLookupCachesOutcomes(t *testing.T) {
	var calls atomic.Int64

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("postalcode") == "ZZ99 9ZZ" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"51.5014","lon":"-0.1419"}]`))
	})

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.Lookup(ctx, "SW1A 1AA")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load(), "repeat lookups are served from cache")

	for i := 0; i < 2; i++ {
		_, err := client.Lookup(ctx, "ZZ99 9ZZ")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.EqualValues(t, 2, calls.Load(), "not-found outcomes are cached too")
}

func TestLookupUpstreamErrorsNotCached(t *testing.T) {
	var calls atomic.Int64

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.Lookup(ctx, "SW1A 1AA")
		assert.ErrorIs(t, err, ErrUpstream)
	}

	assert.EqualValues(t, 2, calls.Load())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "SW1A 1AA", Normalize("  sw1a 1aa "))
	assert.Equal(t, "", Normalize(" \t "))
}
