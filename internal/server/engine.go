package server

import (
	"sync"
	"time"

	"github.com/kosatka-dev/postmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// command is one rendering instruction for the browser page.
type command struct {
	Op       string                 `json:"op"`
	Features *geo.FeatureCollection `json:"features,omitempty"`
	Center   []float64              `json:"center,omitempty"`
	Zoom     float64                `json:"zoom,omitempty"`
	Duration int64                  `json:"duration_ms,omitempty"`
}

// streamEngine implements mapview.Engine by queueing commands for the
// session's event stream. Commands are fire-and-forget: when the client is
// slow or gone the queue drops instead of blocking the session.
type streamEngine struct {
	mu     sync.Mutex
	ch     chan command
	closed bool
}

const streamBuffer = 16

func newStreamEngine() *streamEngine {
	return &streamEngine{ch: make(chan command, streamBuffer)}
}

// Commands returns the channel drained by the events handler. It is closed
// when the engine is released.
func (e *streamEngine) Commands() <-chan command {
	return e.ch
}

func (e *streamEngine) SetOverlay(fc geo.FeatureCollection) {
	e.send(command{Op: "overlay", Features: &fc})
}

func (e *streamEngine) FlyTo(c geo.Coordinates, zoom float64, duration time.Duration) {
	e.send(command{
		Op:       "fly_to",
		Center:   []float64{c.Lon, c.Lat},
		Zoom:     zoom,
		Duration: duration.Milliseconds(),
	})
}

func (e *streamEngine) SetMarker(c geo.Coordinates) {
	e.send(command{Op: "marker", Center: []float64{c.Lon, c.Lat}})
}

func (e *streamEngine) ClearMarker() {
	e.send(command{Op: "clear_marker"})
}

func (e *streamEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	close(e.ch)

	return nil
}

func (e *streamEngine) send(cmd command) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	select {
	case e.ch <- cmd:
	default:
		log.Warn().Str("op", cmd.Op).Msg("Dropping map command, stream backlog full")
	}
}
