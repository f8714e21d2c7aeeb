package handler

import (
	"errors"
	"net/http"

	"github.com/AlizayAyesha/voxly/internal/conversation"
	appI18n "github.com/AlizayAyesha/voxly/internal/i18n"
	"github.com/AlizayAyesha/voxly/internal/model"
)

type sessionResponse struct {
	model.SessionSnapshot
	Degraded bool `json:"degraded,omitempty"`
}

// localizedError picks a translated message for the known session errors and
// falls back to the error text itself.
func localizedError(r *http.Request, err error) string {
	switch {
	case errors.Is(err, model.ErrNoSession):
		return appI18n.T(r.Context(), "session.none")
	case errors.Is(err, model.ErrBusy):
		return appI18n.T(r.Context(), "session.busy")
	case errors.Is(err, model.ErrSessionActive):
		return appI18n.T(r.Context(), "session.active")
	}
	return err.Error()
}

func (h *Handler) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Active() {
		writeJSON(w, http.StatusNotFound, errorBody{Error: localizedError(r, model.ErrNoSession)})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionSnapshot: h.manager.Snapshot()})
}

type sessionStartRequest struct {
	Language string `json:"language"`
}

func (h *Handler) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req sessionStartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	snap, err := h.manager.Start(r.Context(), req.Language)
	if err != nil {
		writeJSON(w, statusFor(err), errorBody{Error: localizedError(r, err)})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionSnapshot: snap})
}

func (h *Handler) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	h.manager.End()
	w.WriteHeader(http.StatusNoContent)
}

type sessionSayRequest struct {
	Text string `json:"text"`
}

func (h *Handler) handleSessionSay(w http.ResponseWriter, r *http.Request) {
	var req sessionSayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	snap, err := h.manager.Submit(r.Context(), req.Text)
	if err != nil {
		if conversation.IsGatewayFailure(err) {
			// The apology turn is already part of the snapshot; the client
			// keeps the conversation going.
			writeJSON(w, http.StatusOK, sessionResponse{SessionSnapshot: snap, Degraded: true})
			return
		}
		writeJSON(w, statusFor(err), errorBody{Error: localizedError(r, err)})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionSnapshot: snap})
}

type sessionAudioRequest struct {
	Activity model.AudioActivity `json:"activity"`
}

func (h *Handler) handleSessionAudio(w http.ResponseWriter, r *http.Request) {
	var req sessionAudioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	if err := h.manager.SetAudioActivity(req.Activity); err != nil {
		writeJSON(w, statusFor(err), errorBody{Error: localizedError(r, err)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
