package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/EmmaPrats/Sound-Only-Game/game/service"
	"github.com/EmmaPrats/Sound-Only-Game/game/session"
	"github.com/EmmaPrats/Sound-Only-Game/transport/websocket"
)

// SessionSource looks up live sessions for spectating
type SessionSource interface {
	Get(id string) (*session.Session, error)
}

// Server is the read-only debug HTTP server. It lets a developer inspect
// sessions and spectate them; nothing it serves can change a game.
type Server struct {
	service  service.GameService
	sessions SessionSource
	hub      *websocket.Hub
	router   *mux.Router

	mu      sync.Mutex
	watched map[string]func()
}

// NewServer creates a new debug server
func NewServer(gameService service.GameService, sessions SessionSource, hub *websocket.Hub) *Server {
	s := &Server{
		service:  gameService,
		sessions: sessions,
		hub:      hub,
		router:   mux.NewRouter(),
		watched:  make(map[string]func()),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/listen", s.handleListen).Methods("GET")
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops forwarding session events to the hub
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, stop := range s.watched {
		stop()
		delete(s.watched, id)
	}
}

// Session Handlers

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total := len(sessions)

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created" or "accessed" (default)
	order := query.Get("order") // "asc" or "desc" (default)
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		ti, tj := sessions[i].State.LastAccessedAt, sessions[j].State.LastAccessedAt
		if sortBy == "created" {
			ti, tj = sessions[i].State.CreatedAt, sessions[j].State.CreatedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < len(sessions) {
		sessions = sessions[:l]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		opts.Page = p
	}
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		opts.Limit = l
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleListen(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Listen(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.ListLevels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(levels),
		"levels": levels,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.watch(sess)
	s.hub.ServeWS(w, r, sess.ID)
	s.hub.Publish(sess.ID, websocket.EventSnapshot, sess.Snapshot())
}

// watch subscribes the hub to a session the first time it is spectated
func (s *Server) watch(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(sess.ID)
	if _, ok := s.watched[key]; ok {
		return
	}
	s.watched[key] = s.hub.Watch(sess)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}
