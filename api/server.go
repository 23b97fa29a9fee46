package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/domination/game/config"
	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
	"github.com/wricardo/domination/game/service"
)

// Version is reported by GET /api
const Version = "1.0.0"

// Broadcaster pushes match updates to live subscribers
type Broadcaster interface {
	BroadcastState(matchID string, state *match.State)
	BroadcastEvent(matchID string, event string, data interface{})
}

// WebSocketServer upgrades a request into a match subscription
type WebSocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, matchID string)
}

// Hub is what the server needs from the WebSocket transport
type Hub interface {
	Broadcaster
	WebSocketServer
}

// Server represents the REST API server
type Server struct {
	service service.MatchService
	hub     Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(matchService service.MatchService, hub Hub) *Server {
	s := &Server{
		service: matchService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// Router exposes the underlying router so callers can mount extra handlers
func (s *Server) Router() *mux.Router {
	return s.router
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("", s.handleInfo).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// Match management
	api.HandleFunc("/matches", s.handleCreateMatch).Methods("POST")
	api.HandleFunc("/matches", s.handleListMatches).Methods("GET")
	api.HandleFunc("/matches/{id}", s.handleGetMatch).Methods("GET")
	api.HandleFunc("/matches/{id}", s.handleDeleteMatch).Methods("DELETE")

	// Driving
	api.HandleFunc("/matches/{id}/tick", s.handleTick).Methods("POST")
	api.HandleFunc("/matches/{id}/enemies/{name}/route", s.handleGetRoute).Methods("GET")
	api.HandleFunc("/matches/{id}/enemies/{name}/route", s.handleSetRoute).Methods("PUT")
	api.HandleFunc("/matches/{id}/enemies/{name}/plan", s.handlePlanRoute).Methods("POST")

	// Rules and scoring
	api.HandleFunc("/matches/{id}/captures", s.handleCapture).Methods("POST")
	api.HandleFunc("/matches/{id}/stuns", s.handleStun).Methods("POST")
	api.HandleFunc("/matches/{id}/finish", s.handleFinish).Methods("POST")
	api.HandleFunc("/matches/{id}/score", s.handleGetScore).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, match.ErrEnemyNotFound),
		errors.Is(err, config.ErrConfigNotFound):
		return http.StatusNotFound

	case errors.Is(err, engine.ErrAlreadyFinalized),
		errors.Is(err, match.ErrTileAlreadyCaptured):
		return http.StatusConflict

	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, match.ErrOutOfBounds),
		errors.Is(err, match.ErrUnreachableTarget),
		errors.Is(err, match.ErrTileNotCapturable),
		errors.Is(err, engine.ErrInvalidMovement),
		errors.Is(err, engine.ErrInvalidDirection),
		errors.Is(err, engine.ErrEmptyRoute):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeBody decodes an optional JSON body; an empty body leaves target untouched
func decodeBody(r *http.Request, target interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

func (s *Server) broadcastState(matchID string, state *match.State) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastState(matchID, state)
	}
}

func (s *Server) broadcastEvent(matchID, event string, data interface{}) {
	if s.hub != nil {
		s.hub.BroadcastEvent(matchID, event, data)
	}
}

// broadcastCurrent re-reads the match and broadcasts its state
func (s *Server) broadcastCurrent(r *http.Request, matchID string) {
	if s.hub == nil {
		return
	}
	info, err := s.service.GetMatch(r.Context(), matchID)
	if err != nil {
		return
	}
	s.hub.BroadcastState(matchID, info.State)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "domination",
		"version": Version,
		"endpoints": []string{
			"GET /api/configs",
			"POST /api/configs",
			"GET /api/configs/{name}",
			"POST /api/matches",
			"GET /api/matches",
			"GET /api/matches/{id}",
			"DELETE /api/matches/{id}",
			"POST /api/matches/{id}/tick",
			"GET /api/matches/{id}/enemies/{name}/route",
			"PUT /api/matches/{id}/enemies/{name}/route",
			"POST /api/matches/{id}/enemies/{name}/plan",
			"POST /api/matches/{id}/captures",
			"POST /api/matches/{id}/stuns",
			"POST /api/matches/{id}/finish",
			"GET /api/matches/{id}/score",
			"GET /ws?match={id}",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if configs == nil {
		configs = []*service.ConfigInfo{}
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	cfg, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id"`
		engine.ArenaConfig
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConfigID == "" {
		respondError(w, http.StatusBadRequest, "config_id is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), req.ConfigID, &req.ArenaConfig); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": req.ConfigID,
	})
}

// Match Handlers

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := s.service.CreateMatch(r.Context(), req.ConfigID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.service.ListMatches(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	total := len(matches)

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default)
	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(matches, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = matches[i].CreatedAt, matches[j].CreatedAt
		} else {
			ti, tj = matches[i].LastAccessedAt, matches[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < len(matches) {
		matches = matches[:l]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(matches),
		"total":   total,
		"matches": matches,
		"sort":    sortBy,
		"order":   order,
	})
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetMatch(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	if err := s.service.DeleteMatch(r.Context(), matchID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Match %s deleted", matchID),
	})
}

// Driving Handlers

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	req := struct {
		Count int `json:"count"`
	}{Count: 1}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.Tick(r.Context(), matchID, req.Count)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Debug().
		Str("matchId", matchID).
		Int("executed", result.TicksExecuted).
		Int("requested", req.Count).
		Msg("Ticked match")

	s.broadcastEvent(matchID, service.EventTick, result.Reports)
	s.broadcastState(matchID, result.State)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	route, err := s.service.GetRoute(r.Context(), vars["id"], vars["name"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, route)
}

func (s *Server) handleSetRoute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	matchID := vars["id"]

	var req struct {
		Movements []engine.Movement `json:"movements"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	route, err := s.service.SetRoute(r.Context(), matchID, vars["name"], req.Movements)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastEvent(matchID, service.EventRoute, route)
	s.broadcastCurrent(r, matchID)
	respondJSON(w, http.StatusOK, route)
}

func (s *Server) handlePlanRoute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	matchID := vars["id"]

	var target engine.Position
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	route, err := s.service.PlanRoute(r.Context(), matchID, vars["name"], target)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastEvent(matchID, service.EventRoute, route)
	s.broadcastCurrent(r, matchID)
	respondJSON(w, http.StatusOK, route)
}

// Rules and Scoring Handlers

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var pos engine.Position
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.CaptureTile(r.Context(), matchID, pos)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	event := service.EventCapture
	if result.Finished {
		event = service.EventFinished
	}
	s.broadcastEvent(matchID, event, result)
	s.broadcastCurrent(r, matchID)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleStun(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var req struct {
		Enemy string `json:"enemy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enemy == "" {
		respondError(w, http.StatusBadRequest, "enemy is required")
		return
	}

	score, err := s.service.StunEnemy(r.Context(), matchID, req.Enemy)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastEvent(matchID, service.EventStun, map[string]interface{}{"enemy": req.Enemy, "score": score})
	s.broadcastCurrent(r, matchID)
	respondJSON(w, http.StatusOK, score)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	score, err := s.service.FinishMatch(r.Context(), matchID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastEvent(matchID, service.EventFinished, score)
	s.broadcastCurrent(r, matchID)
	respondJSON(w, http.StatusOK, score)
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	score, err := s.service.GetScore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, score)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("match")
	if matchID == "" {
		http.Error(w, "match parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "WebSocket transport disabled", http.StatusServiceUnavailable)
		return
	}

	// Verify match exists
	if _, err := s.service.GetMatch(r.Context(), matchID); err != nil {
		http.Error(w, "Invalid match", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, matchID)
}
