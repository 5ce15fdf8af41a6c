// Package mapview owns the map engine lifecycle and overlay rendering.
//
// The Controller tracks the engine state machine (Uninitialized -> Loading ->
// Ready, Disposed terminal from anywhere) and guarantees that overlay, camera
// and marker operations reach the engine only while it is Ready. Everything
// else degrades to a no-op, never a panic.
package mapview

import (
	"sync"
	"time"

	"github.com/kosatka-dev/postmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// State is the lifecycle state of the map engine.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateDisposed
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Engine is the rendering engine seam. Commands are fire-and-forget; an
// implementation must not block the caller.
type Engine interface {
	// SetOverlay fully replaces the overlay data source.
	SetOverlay(fc geo.FeatureCollection)
	// FlyTo starts an animated camera move.
	FlyTo(c geo.Coordinates, zoom float64, duration time.Duration)
	// SetMarker places the search-result marker.
	SetMarker(c geo.Coordinates)
	// ClearMarker removes the search-result marker if present.
	ClearMarker()
	// Close releases engine resources.
	Close() error
}

// Controller owns a single map engine instance per view.
type Controller struct {
	mu        sync.Mutex
	engine    Engine
	state     State
	hasMarker bool
}

// NewController returns a controller in the Uninitialized state.
func NewController() *Controller {
	return &Controller{state: StateUninitialized}
}

// Init constructs the engine once a rendering surface is available and moves
// the controller to Loading. It is idempotent: a second call while loading or
// ready is a no-op. A construction failure is logged and leaves the
// controller Uninitialized; the UI keeps its loading indicator instead of
// crashing.
func (c *Controller) Init(construct func() (Engine, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUninitialized {
		log.Debug().Stringer("state", c.state).Msg("Map init skipped, engine already constructed")
		return
	}

	engine, err := construct()
	if err != nil {
		log.Error().Err(err).Msg("Map engine initialization failed")
		return
	}

	c.engine = engine
	c.state = StateLoading
}

// NotifyLoaded marks the engine load completion event; only after this may
// overlay sources be touched.
func (c *Controller) NotifyLoaded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return
	}

	c.state = StateReady
	log.Debug().Msg("Map engine ready")
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// SetOverlayData replaces the overlay data source with the given feature
// collection. No-op unless Ready.
func (c *Controller) SetOverlayData(fc geo.FeatureCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return
	}

	c.engine.SetOverlay(fc)
}

// FlyTo issues an animated camera move. No-op unless Ready.
func (c *Controller) FlyTo(coords geo.Coordinates, zoom float64, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return
	}

	c.engine.FlyTo(coords, zoom, duration)
}

// PlaceMarker places the search-result marker, removing any previous one
// first so at most one marker exists at a time. No-op unless Ready.
func (c *Controller) PlaceMarker(coords geo.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return
	}

	if c.hasMarker {
		c.engine.ClearMarker()
	}
	c.engine.SetMarker(coords)
	c.hasMarker = true
}

// Dispose releases the engine exactly once and moves the controller to the
// terminal Disposed state. Any later operation is a no-op.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDisposed {
		return
	}

	if c.engine != nil {
		if err := c.engine.Close(); err != nil {
			log.Warn().Err(err).Msg("Map engine close failed")
		}
		c.engine = nil
	}

	c.state = StateDisposed
}
