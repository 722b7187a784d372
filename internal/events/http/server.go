package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/f1-betting-poc/internal/events/source"
)

// Server expõe a API REST de consulta de eventos (a fachada do provider)
type Server struct {
	log *zap.Logger
	src source.Source
}

func NewServer(log *zap.Logger, src source.Source) *Server {
	return &Server{log: log, src: src}
}

// Router retorna o roteador HTTP com as rotas do event-service
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/events", s.listEvents)
	r.Get("/api/events/{eventId}", s.getEvent)
	r.Get("/api/events/{eventId}/winner", s.getWinner)
	return r
}

// listEvents lista eventos com filtros opcionais e paginação manual
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	f := source.Filter{
		SessionType: r.URL.Query().Get("sessionType"),
		Country:     r.URL.Query().Get("country"),
	}
	if y := r.URL.Query().Get("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
			return
		}
		f.Year = n
	}
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 2)

	events, err := s.src.Events(r.Context(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := paginate(events, page, size)
	writeJSON(w, http.StatusOK, map[string]any{
		"page":  page,
		"size":  size,
		"total": len(events),
		"items": items,
	})
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid eventId"})
		return
	}

	ed, err := s.src.Event(r.Context(), eventID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ed)
}

// getWinner responde 404 enquanto o provider não tiver um vencedor
func (s *Server) getWinner(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid eventId"})
		return
	}

	res, err := s.src.Winner(r.Context(), eventID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !res.Finished {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "winner not available"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, source.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, source.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	default:
		s.log.Error("provider error", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

func paginate(list []source.EventDetails, page, size int) []source.EventDetails {
	if size <= 0 {
		return nil
	}
	from := page * size
	if from >= len(list) {
		return []source.EventDetails{}
	}
	to := from + size
	if to > len(list) {
		to = len(list)
	}
	return list[from:to]
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
