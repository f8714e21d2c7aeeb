// Package handler exposes the JSON API consumed by the Voxly front end.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlizayAyesha/voxly/internal/conversation"
	"github.com/AlizayAyesha/voxly/internal/gateway"
	appI18n "github.com/AlizayAyesha/voxly/internal/i18n"
	"github.com/AlizayAyesha/voxly/internal/language"
	"github.com/AlizayAyesha/voxly/internal/model"
	"github.com/AlizayAyesha/voxly/internal/quiz"
	"github.com/AlizayAyesha/voxly/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	manager *conversation.Manager
	quiz    *quiz.Engine
	store   *store.Store
	gateway *gateway.Client
	timeout time.Duration
}

// New creates a new Handler.
func New(m *conversation.Manager, q *quiz.Engine, s *store.Store, gw *gateway.Client, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Handler{manager: m, quiz: q, store: s, gateway: gw, timeout: timeout}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	})

	r.Post("/api/talk", h.handleTalk)
	r.Post("/api/tts", h.handleTTS)

	r.Get("/api/languages", h.handleLanguages)

	r.Get("/api/session", h.handleSessionGet)
	r.Post("/api/session/start", h.handleSessionStart)
	r.Post("/api/session/stop", h.handleSessionStop)
	r.Post("/api/session/say", h.handleSessionSay)
	r.Post("/api/session/audio", h.handleSessionAudio)

	r.Get("/api/quiz", h.handleQuizGet)
	r.Post("/api/quiz/answer", h.handleQuizAnswer)
	r.Post("/api/quiz/finish", h.handleQuizFinish)

	r.Get("/api/stats", h.handleStats)

	r.Handle("/audio/*", http.StripPrefix(gateway.PublicAudioPath,
		http.FileServer(http.Dir(h.gateway.AudioDir()))))
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// decodeJSON rejects malformed or unexpectedly-shaped request bodies at the
// boundary instead of trusting them.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(model.ErrValidation, err)
	}
	return nil
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSessionActive), errors.Is(err, model.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"languages": language.All()})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		slog.Error("read stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to read stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleQuizGet(w http.ResponseWriter, r *http.Request) {
	questions := h.quiz.Current()
	resp := map[string]any{"questions": questions}
	if len(questions) == 0 {
		resp["questions"] = []model.QuizQuestion{}
		resp["message"] = appI18n.T(r.Context(), "quiz.empty")
	}
	writeJSON(w, http.StatusOK, resp)
}

type quizAnswerRequest struct {
	QuestionID    int64 `json:"question_id"`
	SelectedIndex int   `json:"selected_index"`
}

func (h *Handler) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	var req quizAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	attempt, err := h.quiz.RecordAnswer(req.QuestionID, req.SelectedIndex)
	if err != nil {
		writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"correct":     attempt.Correct,
		"explanation": h.quiz.Explanation(req.QuestionID),
	})
}

func (h *Handler) handleQuizFinish(w http.ResponseWriter, r *http.Request) {
	seed := h.manager.Snapshot().CurrentAgentText

	score, total := h.quiz.Finish()
	if total > 0 {
		if err := h.store.ApplyQuizResult(score, total); err != nil {
			slog.Error("apply quiz result", "error", err)
		}
		if _, err := h.store.SaveQuizResult(seed, score, total, time.Now()); err != nil {
			slog.Error("save quiz result", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"score":   score,
		"total":   total,
		"message": appI18n.Td(r.Context(), "quiz.completed", map[string]any{"Score": score, "Total": total}),
	})
}
