package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardsight/apps/server/internal/ledger"
)

// SelectFunc is invoked after a successful PIN check so the live session
// can start attributing rounds to the chosen profile.
type SelectFunc func(name string)

type HTTPHandler struct {
	service  *Service
	onSelect SelectFunc
}

type credentialsRequest struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

type listResponse struct {
	Profiles []string `json:"profiles"`
}

type statsResponse struct {
	Name   string       `json:"name"`
	Stats  ledger.Stats `json:"stats"`
	Spoken string       `json:"spoken"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(service *Service, onSelect SelectFunc) *HTTPHandler {
	return &HTTPHandler{service: service, onSelect: onSelect}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/profile/create", h.handleCreate)
	mux.HandleFunc("/api/profile/select", h.handleSelect)
	mux.HandleFunc("/api/profile/list", h.handleList)
	mux.HandleFunc("/api/profile/stats", h.handleStats)
}

func (h *HTTPHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), req.Name, req.Pin); err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidPin):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrProfileExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "create failed")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Verify(r.Context(), req.Name, req.Pin); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid profile name or pin")
			return
		}
		writeError(w, http.StatusInternalServerError, "select failed")
		return
	}

	if h.onSelect != nil {
		h.onSelect(req.Name)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	names, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Profiles: names})
}

func (h *HTTPHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := r.URL.Query().Get("name")
	stats, err := h.service.Stats(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats failed")
		return
	}
	spoken, err := h.service.SpokenStats(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats failed")
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Name: name, Stats: stats, Spoken: spoken})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
