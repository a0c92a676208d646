// Package api exposes the game over JSON HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/career-survival/internal/game"
	"github.com/user/career-survival/internal/interfaces"
	"github.com/user/career-survival/internal/types"
	"go.uber.org/zap"
)

// Server routes player actions to a game manager
type Server struct {
	games  interfaces.GameManager
	logger *zap.Logger
	router chi.Router
}

// NewServer creates a server with every game route mounted
func NewServer(games interfaces.GameManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		games:  games,
		logger: logger,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// Router returns the underlying router so callers can mount extra routes
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/industries", s.handleIndustries)
	r.Get("/shop", s.handleShop)

	r.Route("/players/{playerID}", func(r chi.Router) {
		r.Get("/", s.handleView)
		r.Get("/creation", s.handleCreation)
		r.Get("/meta", s.handleMeta)
		r.Post("/run", s.handleCreate)
		r.Post("/advance", s.handleAdvance)
		r.Post("/option", s.handleOption)
		r.Post("/postwork", s.handlePostWork)
		r.Post("/weekend", s.handleWeekend)
		r.Post("/shop", s.handleBuy)
		r.Post("/retire", s.handleRetire)
	})
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.games.GetIndustries())
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.games.GetShopItems())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := s.games.GetView(chi.URLParam(r, "playerID"))
	s.respond(w, r, view, err)
}

func (s *Server) handleCreation(w http.ResponseWriter, r *http.Request) {
	info, err := s.games.GetCreationInfo(chi.URLParam(r, "playerID"))
	s.respond(w, r, info, err)
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := s.games.GetMeta(chi.URLParam(r, "playerID"))
	s.respond(w, r, meta, err)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req types.CreationRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := s.games.CreateRun(chi.URLParam(r, "playerID"), req)
	s.respond(w, r, view, err)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	view, err := s.games.Advance(chi.URLParam(r, "playerID"))
	s.respond(w, r, view, err)
}

func (s *Server) handleOption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	view, err := s.games.ChooseOption(chi.URLParam(r, "playerID"), *req.Index)
	s.respond(w, r, view, err)
}

func (s *Server) handlePostWork(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice types.PostWorkChoice `json:"choice"`
	}
	if !decode(w, r, &req) {
		return
	}
	view, err := s.games.PostWork(chi.URLParam(r, "playerID"), req.Choice)
	s.respond(w, r, view, err)
}

func (s *Server) handleWeekend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Activity types.WeekendActivity `json:"activity"`
	}
	if !decode(w, r, &req) {
		return
	}
	view, err := s.games.Weekend(chi.URLParam(r, "playerID"), req.Activity)
	s.respond(w, r, view, err)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item string `json:"item"`
	}
	if !decode(w, r, &req) {
		return
	}
	view, err := s.games.Buy(chi.URLParam(r, "playerID"), req.Item)
	s.respond(w, r, view, err)
}

func (s *Server) handleRetire(w http.ResponseWriter, r *http.Request) {
	view, err := s.games.Retire(chi.URLParam(r, "playerID"))
	s.respond(w, r, view, err)
}

// respond writes the payload, or maps a rejected action onto a status code
func (s *Server) respond(w http.ResponseWriter, r *http.Request, payload interface{}, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, payload)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Game action failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrRunActive),
		errors.Is(err, game.ErrRunOver):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidOption),
		errors.Is(err, game.ErrOptionLocked),
		errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInvalidAllocation),
		errors.Is(err, game.ErrUnknownActivity),
		errors.Is(err, game.ErrUnknownItem),
		errors.Is(err, game.ErrIndustryLocked),
		errors.Is(err, game.ErrRequirementNotMet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
