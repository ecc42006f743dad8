package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/gameerr"
	"github.com/wricardo/monopoly-deal/game/rules"
	"github.com/wricardo/monopoly-deal/game/service"
)

// Config holds the server's external settings
type Config struct {
	JWTSecret     string
	TokenTTL      time.Duration
	BusinessHours bool
}

// Server represents the REST API server
type Server struct {
	service service.GameService
	auth    *Authenticator
	hours   *HoursGate
	logger  *zap.Logger
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: gameService,
		auth:    NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL),
		hours:   NewHoursGate(cfg.BusinessHours),
		logger:  logger,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/login", s.handleLogin).Methods("POST")

	// Session management
	api.HandleFunc("/sessions", s.authenticated(s.hosting(s.handleCreateSession))).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Must be registered before the {code} pattern
	api.HandleFunc("/sessions/mine", s.authenticated(s.handleMySession)).Methods("GET")
	api.HandleFunc("/sessions/{code}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{code}/join", s.authenticated(s.handleJoin)).Methods("POST")
	api.HandleFunc("/sessions/{code}/start", s.authenticated(s.hosting(s.handleStart))).Methods("POST")
	api.HandleFunc("/sessions/{code}/leave", s.authenticated(s.handleLeave)).Methods("POST")

	// Game operations
	api.HandleFunc("/sessions/{code}/state", s.authenticated(s.handleGetGameState)).Methods("GET")
	api.HandleFunc("/sessions/{code}/draw", s.authenticated(s.handleDraw)).Methods("POST")
	api.HandleFunc("/sessions/{code}/play", s.authenticated(s.handlePlay)).Methods("POST")
	api.HandleFunc("/sessions/{code}/respond", s.authenticated(s.handleRespond)).Methods("POST")
	api.HandleFunc("/sessions/{code}/discard", s.authenticated(s.handleDiscard)).Methods("POST")
	api.HandleFunc("/sessions/{code}/end-turn", s.authenticated(s.handleEndTurn)).Methods("POST")

	// Configuration
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/catalog", s.handleCatalog).Methods("GET")

	// Pure rules calculations
	api.HandleFunc("/rules/rent", s.handleRent).Methods("POST")
	api.HandleFunc("/rules/just-say-no", s.handleJustSayNo).Methods("POST")
	api.HandleFunc("/rules/payment", s.handlePayment).Methods("POST")
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

// statusFor maps an error kind to an HTTP status
func statusFor(kind gameerr.Kind) int {
	switch kind {
	case gameerr.NotFound:
		return http.StatusNotFound
	case gameerr.InvalidState, gameerr.CapacityExceeded, gameerr.DuplicateMember:
		return http.StatusConflict
	case gameerr.InvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondResult writes a service result, using the failure kind for the status
func (s *Server) respondResult(w http.ResponseWriter, successStatus int, result *service.Result, err error) {
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if !result.Success {
		respondJSON(w, statusFor(result.Kind), result)
		return
	}
	respondJSON(w, successStatus, result)
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	if kind := gameerr.KindOf(err); kind != "" {
		respondError(w, statusFor(kind), err.Error())
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, err.Error())
}

// decode reads an optional JSON body into v; an empty body is not an error
func decode(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Auth Handlers

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if !validUsername(username) {
		respondError(w, http.StatusBadRequest, "Username must be 1-32 letters, digits, '.', '_' or '-'")
		return
	}

	token, expires, err := s.auth.Issue(username)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"username":   username,
		"expires_at": expires,
	})
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preset string `json:"preset,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.CreateSession(r.Context(), userFrom(r.Context()), req.Preset)
	s.respondResult(w, http.StatusCreated, result, err)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (s *Server) handleMySession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.FindSession(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.JoinSession(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()))
	s.respondResult(w, http.StatusOK, result, err)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.StartSession(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()))
	s.respondResult(w, http.StatusOK, result, err)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.LeaveSession(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()))
	s.respondResult(w, http.StatusOK, result, err)
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Draw(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()))
	s.respondResult(w, http.StatusOK, result, err)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req engine.PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Color != "" {
		color, ok := cards.ParseColor(string(req.Color))
		if !ok {
			respondError(w, http.StatusBadRequest, "Unknown color: "+string(req.Color))
			return
		}
		req.Color = color
	}

	result, err := s.service.Play(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()), req)
	s.respondResult(w, http.StatusOK, result, err)
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JustSayNo bool `json:"just_say_no"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Respond(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()), req.JustSayNo)
	s.respondResult(w, http.StatusOK, result, err)
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"card_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		respondError(w, http.StatusBadRequest, "card_index is required")
		return
	}

	result, err := s.service.Discard(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()), *req.Index)
	s.respondResult(w, http.StatusOK, result, err)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.EndTurn(r.Context(), mux.Vars(r)["code"], userFrom(r.Context()))
	s.respondResult(w, http.StatusOK, result, err)
}

// Configuration Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":   cards.CatalogTotal(),
		"entries": cards.Catalog(),
	})
}

// Rules Handlers

func (s *Server) handleRent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Color       string      `json:"color"`
		Owned       int         `json:"owned"`
		House       bool        `json:"house"`
		Hotel       bool        `json:"hotel"`
		DoubleCount int         `json:"double_count"`
		Flags       rules.Flags `json:"flags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	color, ok := cards.ParseColor(req.Color)
	if !ok {
		respondError(w, http.StatusBadRequest, "Unknown color: "+req.Color)
		return
	}
	if req.DoubleCount < 0 || req.DoubleCount > rules.MaxDoubleRent {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("double_count must be between 0 and %d", rules.MaxDoubleRent))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"color":    color,
		"set_size": rules.SetSize(color),
		"full_set": rules.IsFullSet(color, req.Owned),
		"base":     rules.BaseRent(color, req.Owned),
		"rent":     req.Flags.ComputeRent(color, req.Owned, req.House, req.Hotel, req.DoubleCount),
	})
}

func (s *Server) handleJustSayNo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Responses []string `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{
		"action_stands": rules.ResolveJustSayNoStack(req.Responses),
	})
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AmountDue      int   `json:"amount_due"`
		BankTotal      int   `json:"bank_total"`
		PropertyValues []int `json:"property_values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, rules.ChoosePayment(req.AmountDue, req.BankTotal, req.PropertyValues))
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
