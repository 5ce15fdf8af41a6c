// Package session implements the per-view interaction state: the entered
// postcode, the selected location and radius, and the wiring between the
// geocoding adapter and the map view controller.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/kosatka-dev/postmap/internal/config"
	"github.com/kosatka-dev/postmap/internal/geo"
	"github.com/kosatka-dev/postmap/internal/geocode"
	"github.com/kosatka-dev/postmap/internal/mapview"

	"github.com/rs/zerolog/log"
)

// ErrSuperseded is returned when a search result arrives after a newer
// search has already started; the stale result is dropped.
var ErrSuperseded = errors.New("search superseded by a newer one")

// Geocoder is the lookup dependency of a session.
type Geocoder interface {
	Lookup(ctx context.Context, postcode string) (geocode.Result, error)
}

// View is the UI-facing snapshot of the session state.
type View struct {
	Postcode    string           `json:"postcode"`
	Coordinates *geo.Coordinates `json:"coordinates,omitempty"`
	Position    string           `json:"position,omitempty"`
	Radius      int              `json:"radius"`
	RadiusText  string           `json:"radius_text"`
}

// Session holds the state of one UI view.
type Session struct {
	mu         sync.Mutex
	geocoder   Geocoder
	cfg        *config.Config
	controller *mapview.Controller
	id         string

	postcode  string
	location  *geocode.Result
	radius    int
	searchSeq uint64
}

// newSession is called by the Manager.
func newSession(id string, cfg *config.Config, geocoder Geocoder) *Session {
	return &Session{
		geocoder:   geocoder,
		cfg:        cfg,
		controller: mapview.NewController(),
		id:         id,
		radius:     cfg.Radius.Default,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Controller exposes the map view controller for engine attachment.
func (s *Session) Controller() *mapview.Controller { return s.controller }

// View returns the current state snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		Postcode:   s.postcode,
		Radius:     s.radius,
		RadiusText: geo.FormatRadius(s.radius),
	}
	if s.location != nil {
		c := s.location.Coordinates
		v.Coordinates = &c
		v.Position = geo.FormatCoordinates(c)
	}

	return v
}

// Search geocodes a postcode and, on success, updates the selected location,
// flies the camera, places the marker and pushes the radius overlay.
//
// Blank input is rejected before any request. A not-found or upstream error
// leaves the prior selection untouched. If a newer search starts while this
// one is in flight, the stale result is dropped and ErrSuperseded returned.
func (s *Session) Search(ctx context.Context, raw string) (View, error) {
	norm := geocode.Normalize(raw)
	if norm == "" {
		return s.View(), geocode.ErrBlankPostcode
	}

	s.mu.Lock()
	s.postcode = norm
	s.searchSeq++
	seq := s.searchSeq
	s.mu.Unlock()

	res, err := s.geocoder.Lookup(ctx, norm)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.searchSeq {
		log.Debug().Str("session", s.id).Str("postcode", norm).Msg("Dropping stale search result")
		return s.viewLocked(), ErrSuperseded
	}

	if err != nil {
		return s.viewLocked(), err
	}

	s.location = &res
	s.pushSelectionLocked()

	log.Info().
		Str("session", s.id).
		Str("postcode", res.Postcode).
		Float64("lat", res.Coordinates.Lat).
		Float64("lon", res.Coordinates.Lon).
		Msg("Location selected")

	return s.viewLocked(), nil
}

// SetRadius stores a new radius, clamped to the configured bounds. The
// overlay is re-rendered only if a location is already selected; otherwise
// the value waits for the first successful search.
func (s *Session) SetRadius(radius int) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if radius < s.cfg.Radius.Min {
		radius = s.cfg.Radius.Min
	}
	if radius > s.cfg.Radius.Max {
		radius = s.cfg.Radius.Max
	}
	s.radius = radius

	if s.location != nil {
		s.controller.SetOverlayData(geo.OverlayFeatures(s.location.Coordinates, float64(s.radius), s.cfg.Segments))
	}

	return s.viewLocked()
}

// MapLoaded records the engine load completion event and re-renders the
// current selection, covering a search that finished while the map was
// still loading.
func (s *Session) MapLoaded() {
	s.controller.NotifyLoaded()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.location != nil {
		s.pushSelectionLocked()
	}
}

// Close tears the session down, releasing the map engine.
func (s *Session) Close() {
	s.controller.Dispose()
}

// pushSelectionLocked sends camera, marker and overlay for the current
// location. Caller holds s.mu.
func (s *Session) pushSelectionLocked() {
	coords := s.location.Coordinates

	s.controller.FlyTo(coords, s.cfg.Camera.Zoom, s.cfg.Camera.Duration.Std())
	s.controller.PlaceMarker(coords)
	s.controller.SetOverlayData(geo.OverlayFeatures(coords, float64(s.radius), s.cfg.Segments))
}
