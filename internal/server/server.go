// Package server exposes the JSON and WebSocket surface consumed by the
// browser front end.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riftwatch/internal/archive"
	"riftwatch/internal/lcu"
	"riftwatch/internal/matches"
	"riftwatch/internal/state"
	"riftwatch/internal/watcher"
)

// Server bundles the HTTP surface and its collaborators.
type Server struct {
	app       *state.App
	client    *lcu.Client
	summoners *lcu.Summoners
	history   *lcu.History
	live      *lcu.LiveClient
	matches   *matches.Service
	archive   *archive.Store
	hub       *Hub

	discover func() (lcu.Credentials, bool)
	runners  map[string]*watcher.Runner
}

// Options carries the server's collaborators.
type Options struct {
	App       *state.App
	Client    *lcu.Client
	Summoners *lcu.Summoners
	History   *lcu.History
	Live      *lcu.LiveClient
	Matches   *matches.Service
	Archive   *archive.Store
	Hub       *Hub
	Discover  func() (lcu.Credentials, bool)
	Runners   map[string]*watcher.Runner
}

// New assembles the server.
func New(opts Options) *Server {
	return &Server{
		app:       opts.App,
		client:    opts.Client,
		summoners: opts.Summoners,
		history:   opts.History,
		live:      opts.Live,
		matches:   opts.Matches,
		archive:   opts.Archive,
		hub:       opts.Hub,
		discover:  opts.Discover,
		runners:   opts.Runners,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/connect", s.handleConnect).Methods(http.MethodPost)
	api.HandleFunc("/phase", s.handlePhase).Methods(http.MethodGet)
	api.HandleFunc("/summoner", s.handleCurrentSummoner).Methods(http.MethodGet)
	api.HandleFunc("/ready-check/accept", s.handleAcceptReadyCheck).Methods(http.MethodPost)

	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history/tft", s.handleTFTHistory).Methods(http.MethodGet)
	api.HandleFunc("/history/archive", s.handleArchive).Methods(http.MethodGet)
	api.HandleFunc("/match", s.handleMatchDetail).Methods(http.MethodGet)

	api.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)
	api.HandleFunc("/live/players", s.handleLivePlayers).Methods(http.MethodGet)

	api.HandleFunc("/champselect/enemies", s.handleChampSelectEnemies).Methods(http.MethodGet)
	api.HandleFunc("/champselect/hover", s.handleHover).Methods(http.MethodPost)

	api.HandleFunc("/watchers/{name}/start", s.handleWatcherStart).Methods(http.MethodPost)
	api.HandleFunc("/watchers/{name}/stop", s.handleWatcherStop).Methods(http.MethodPost)
	api.HandleFunc("/banpick/preferences", s.handleBanPickPreferences).Methods(http.MethodPut)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.Handle("/ws", s.hub).Methods(http.MethodGet)
	return r
}

// ListenAndServe runs the HTTP server until it fails.
func (s *Server) ListenAndServe(addr string, port int) error {
	bind := fmt.Sprintf("%s:%d", addr, port)
	log.Printf("listening on http://%s", bind)
	srv := &http.Server{
		Addr:         bind,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
