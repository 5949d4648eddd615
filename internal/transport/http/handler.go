package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"quiz-leaderboard/internal/app"
	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/logger"
)

// NewRouter wires the REST and websocket endpoints around the service.
func NewRouter(service *app.LeaderboardService) http.Handler {
	h := &Handler{service: service}
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/results", h.SubmitResult)
	r.Get("/leaderboard", h.Leaderboard)
	r.Get("/ws", ws.ServeWS)
	return r
}

type Handler struct {
	service *app.LeaderboardService
}

type errorPayload struct {
	Message string `json:"message"`
}

type leaderboardPayload struct {
	Text string `json:"text"`
}

// SubmitResult records one finished attempt.
func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid result payload"})
		return
	}
	record, err := h.service.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// Leaderboard renders the leaderboard as Markdown, or returns the ranked
// view when format=json.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.LeaderboardQuery{
		QuizID: q.Get("quizId"),
		Title:  q.Get("title"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Message: "limit must be an integer"})
			return
		}
		query.Limit = limit
	}

	if q.Get("format") == "json" {
		view, err := h.service.View(r.Context(), query)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	text, err := h.service.Leaderboard(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuizID), errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.C(r.Context()).Error().Err(err).Msg("request failed")
		msg = "result could not be recorded"
	}
	writeJSON(w, status, errorPayload{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger tags each request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := logger.WithRequestID(r.Context(), reqID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.C(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
