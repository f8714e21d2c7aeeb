package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AlizayAyesha/voxly/internal/conversation"
	"github.com/AlizayAyesha/voxly/internal/language"
	"github.com/AlizayAyesha/voxly/internal/model"
)

// talkRequest keeps user_input untyped so a non-string value can be told
// apart from an absent one and rejected with the field-specific message.
type talkRequest struct {
	UserInput           any                 `json:"user_input"`
	ConversationHistory []model.ChatMessage `json:"conversation_history"`
	Language            string              `json:"language"`
}

type talkResponse struct {
	AgentText string `json:"agent_text"`
	Language  string `json:"language,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleTalk(w http.ResponseWriter, r *http.Request) {
	var req talkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "user_input is required and must be a string"})
		return
	}

	userInput, ok := req.UserInput.(string)
	if !ok || strings.TrimSpace(userInput) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "user_input is required and must be a string"})
		return
	}
	if !language.IsTeachable(req.Language) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Valid language is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reply, err := h.gateway.Reply(ctx, userInput, req.ConversationHistory, req.Language)
	if err != nil {
		slog.Error("reply generation failed", "language", req.Language, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":      "Failed to generate response",
			"agent_text": conversation.ApologyText,
		})
		return
	}

	writeJSON(w, http.StatusOK, talkResponse{AgentText: reply, Language: req.Language})
}

type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (h *Handler) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Text and language are required"})
		return
	}
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.Language) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Text and language are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	audioURL, err := h.gateway.Synthesize(ctx, req.Text, req.Language)
	if err != nil {
		slog.Error("speech synthesis failed", "language", req.Language, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":     "Failed to generate audio",
			"audio_url": "",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"audio_url": audioURL})
}
