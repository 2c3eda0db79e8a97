// Package web provides the HTTP review server for the pyrometer daemon:
// live status, saved-session browsing, charts, and a websocket feed.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/bbsmith24/yamura-pyrometer/internal/logger"
	"github.com/bbsmith24/yamura-pyrometer/internal/report"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/status"
	"github.com/bbsmith24/yamura-pyrometer/internal/store"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// Server serves the review UI over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	store      store.Store
	// unit and twelveHour are read per request so settings changed on the
	// device show up without a restart.
	unit       func() units.Unit
	twelveHour func() bool
	log        *logger.Logger
}

// New creates a Server that reads state from the tracker and sessions from
// the store.
func New(addr string, tracker *status.Tracker, st store.Store, unit func() units.Unit, twelveHour func() bool, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		tracker:    tracker,
		store:      st,
		unit:       unit,
		twelveHour: twelveHour,
		log:        log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions.json", s.handleSessionsJSON)
	mux.HandleFunc("/session", s.handleSession)
	mux.HandleFunc("/session.json", s.handleSessionJSON)
	mux.HandleFunc("/session/chart", s.handleSessionChart)
	mux.HandleFunc("/profiles.json", s.handleProfiles)
	mux.HandleFunc("/live", s.handleLive)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderIndex(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.Sessions(r.Context(), 0)
	if err != nil {
		s.log.Errorw("list sessions", "error", err)
		http.Error(w, "session list unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderSessions(w, infos, s.twelveHour())
}

func (s *Server) handleSessionsJSON(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.Sessions(r.Context(), 0)
	if err != nil {
		s.log.Errorw("list sessions", "error", err)
		http.Error(w, "session list unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatSessionsJSON(infos))
}

// loadSession resolves the id query parameter, defaulting to the most
// recent session. A false return means a response was already written.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (session.Record, bool) {
	var (
		rec session.Record
		err error
	)
	if id := r.URL.Query().Get("id"); id != "" {
		rec, err = s.store.Session(r.Context(), id)
	} else {
		rec, err = s.store.LastSession(r.Context())
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "no such session", http.StatusNotFound)
		return rec, false
	}
	if err != nil {
		s.log.Errorw("load session", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return rec, false
	}
	return rec, true
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderSession(w, rec, s.unit(), s.twelveHour()); err != nil {
		s.log.Errorw("render session", "error", err)
	}
}

func (s *Server) handleSessionJSON(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatSessionJSON(rec, s.unit()))
}

func (s *Server) handleSessionChart(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderChart(w, rec, s.unit()); err != nil {
		s.log.Errorw("render chart", "error", err)
	}
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, "":
		profiles, err := s.store.Profiles(r.Context())
		if err != nil {
			s.log.Errorw("list profiles", "error", err)
			http.Error(w, "profiles unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(formatProfilesJSON(profiles))

	case http.MethodPost:
		var pj profileJSON
		if err := json.NewDecoder(r.Body).Decode(&pj); err != nil {
			http.Error(w, "bad profile: "+err.Error(), http.StatusBadRequest)
			return
		}
		id, err := s.store.AddProfile(r.Context(), pj.toVehicle())
		if err != nil {
			http.Error(w, "bad profile: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Infow("profile added", "id", id, "name", pj.Name)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]int64{"id": id})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
