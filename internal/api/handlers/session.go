package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/elicitlabs/elicit/internal/engine"
	"github.com/elicitlabs/elicit/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SessionHandler struct {
	svc *service.SessionService
}

func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type createSessionRequest struct {
	Template   string              `json:"template,omitempty"`
	Slots      []domain.Slot       `json:"slots,omitempty"`
	Hypotheses []domain.Hypothesis `json:"hypotheses,omitempty"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Create(r.Context(), service.CreateSessionInput{
		Template:   req.Template,
		Slots:      req.Slots,
		Hypotheses: req.Hypotheses,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTemplate),
			errors.Is(err, service.ErrNoSlots),
			errors.Is(err, engine.ErrDuplicateSlot),
			errors.Is(err, engine.ErrSlotNameEmpty),
			errors.Is(err, engine.ErrDuplicateHypothesis):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create session")
		}
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

type turnRequest struct {
	Answers  []domain.Evidence `json:"answers,omitempty"`
	Language string            `json:"language,omitempty"`
}

func (h *SessionHandler) Turn(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Turn(r.Context(), id, engine.TurnInput{
		Answers:  req.Answers,
		Language: req.Language,
	})
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &vErr), errors.Is(err, engine.ErrSlotNotFound):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to run turn")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) Abort(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	result, err := h.svc.Abort(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to abort session")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"templates": h.svc.Templates()})
}
