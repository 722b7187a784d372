package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/f1-betting-poc/internal/betting/domain"
	"github.com/radieske/f1-betting-poc/internal/betting/dto"
	"github.com/radieske/f1-betting-poc/internal/betting/settlement"
)

// Service define as operações do core usadas pelos handlers HTTP
type Service interface {
	PlaceBet(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error)
	SettleEvent(ctx context.Context, eventID int64) (settlement.Result, error)
	GetBet(ctx context.Context, betID string) (domain.Bet, error)
	ListUserBets(ctx context.Context, userID int64) ([]domain.Bet, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
}

// Server expõe a API REST do betting-service
type Server struct {
	log *zap.Logger
	svc Service
}

func NewServer(log *zap.Logger, svc Service) *Server { return &Server{log: log, svc: svc} }

// Router retorna o roteador HTTP com as rotas da API de apostas
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/bets", s.placeBet)
	r.Get("/bets/{betId}", s.getBet)
	r.Get("/users/{userId}", s.getUser)
	r.Get("/users/{userId}/bets", s.listUserBets)
	r.Post("/events/{eventId}/settle", s.settleEvent)
	return r
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	if req.UserID == 0 || req.EventID == 0 || req.DriverID == 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "user_id, event_id and driver_id are required"})
		return
	}

	bet, err := s.svc.PlaceBet(r.Context(), req.UserID, req.EventID, req.DriverID, req.AmountEur)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, betResponse(bet))
}

func (s *Server) settleEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid eventId"})
		return
	}

	res, err := s.svc.SettleEvent(r.Context(), eventID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettleResponse{
		EventID:         eventID,
		WinningDriverID: res.WinningDriverID,
		PoolEur:         res.PoolEur,
		DistributedEur:  res.DistributedEur,
		WinningBets:     res.WinningBets,
	})
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	bet, err := s.svc.GetBet(r.Context(), chi.URLParam(r, "betId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, betResponse(bet))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid userId"})
		return
	}
	u, err := s.svc.GetUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserResponse{UserID: u.ID, Username: u.Username, BalanceEur: u.BalanceEur})
}

func (s *Server) listUserBets(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid userId"})
		return
	}
	bets, err := s.svc.ListUserBets(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]dto.BetResponse, 0, len(bets))
	for _, b := range bets {
		out = append(out, betResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeError mapeia a classe do erro pro status HTTP correspondente
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	default:
		s.log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func betResponse(b domain.Bet) dto.BetResponse {
	return dto.BetResponse{
		BetID:     b.ID,
		EventID:   b.EventID,
		DriverID:  b.DriverID,
		AmountEur: b.AmountEur,
		Odds:      b.Odds,
		Status:    string(b.Status),
	}
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
