package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kosatka-dev/postmap/internal/geocode"
	"github.com/kosatka-dev/postmap/internal/mapview"
	"github.com/kosatka-dev/postmap/internal/session"

	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type searchRequest struct {
	Postcode string `json:"postcode"`
}

type radiusRequest struct {
	Radius int `json:"radius"`
}

type sessionResponse struct {
	ID   string       `json:"id"`
	View session.View `json:"view"`
}

// uiConfig is the client bootstrap payload.
type uiConfig struct {
	MapStyle      string `json:"map_style"`
	RadiusMin     int    `json:"radius_min"`
	RadiusMax     int    `json:"radius_max"`
	RadiusStep    int    `json:"radius_step"`
	RadiusDefault int    `json:"radius_default"`
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleConfig serves the UI bootstrap configuration.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, uiConfig{
		MapStyle:      s.Config.MapStyle,
		RadiusMin:     s.Config.Radius.Min,
		RadiusMax:     s.Config.Radius.Max,
		RadiusStep:    s.Config.Radius.Step,
		RadiusDefault: s.Config.Radius.Default,
	})
}

// HandleHealthz is the liveness probe.
func (s *ServerContext) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleSessionCreate registers a new UI session.
func (s *ServerContext) HandleSessionCreate(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Create()

	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:   sess.ID(),
		View: sess.View(),
	})
}

// HandleEvents attaches the map engine to the session and streams rendering
// commands as server-sent events until the client disconnects. Disconnection
// tears the session down.
func (s *ServerContext) HandleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown_session", Message: "session does not exist"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	engine := newStreamEngine()
	sess.Controller().Init(func() (mapview.Engine, error) { return engine, nil })

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	defer s.Sessions.Close(sess.ID())

	for {
		select {
		case cmd, ok := <-engine.Commands():
			if !ok {
				return
			}
			payload, err := json.Marshal(cmd)
			if err != nil {
				log.Error().Err(err).Str("op", cmd.Op).Msg("Failed to encode map command")
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// HandleMapLoaded records the map engine load completion event.
func (s *ServerContext) HandleMapLoaded(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown_session", Message: "session does not exist"})
		return
	}

	sess.MapLoaded()
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch geocodes a postcode within a session.
func (s *ServerContext) HandleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown_session", Message: "session does not exist"})
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "malformed request body"})
		return
	}

	view, err := sess.Search(r.Context(), req.Postcode)
	switch {
	case err == nil:
		s.countSearch("ok")
		writeJSON(w, http.StatusOK, view)
	case errors.Is(err, geocode.ErrBlankPostcode):
		s.countSearch("blank")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "blank_input", Message: "enter a postcode first"})
	case errors.Is(err, geocode.ErrNotFound):
		s.countSearch("not_found")
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "postcode not found"})
	case errors.Is(err, session.ErrSuperseded):
		s.countSearch("superseded")
		writeJSON(w, http.StatusConflict, errorResponse{Error: "superseded", Message: "a newer search is in progress"})
	default:
		s.countSearch("error")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "geocoder_unavailable", Message: "postcode lookup failed, try again"})
	}
}

// HandleRadius updates the session radius.
func (s *ServerContext) HandleRadius(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown_session", Message: "session does not exist"})
		return
	}

	var req radiusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "malformed request body"})
		return
	}

	writeJSON(w, http.StatusOK, sess.SetRadius(req.Radius))
}

func (s *ServerContext) countSearch(outcome string) {
	if s.Metrics != nil {
		s.Metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(body)
}
