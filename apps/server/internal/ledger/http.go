package ledger

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type HTTPHandler struct {
	service Service
}

type roundsResponse struct {
	Rounds []RoundRecord `json:"rounds"`
}

func NewHTTPHandler(service Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/rounds/recent", h.handleRecent)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profile := r.URL.Query().Get("profile")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rounds, err := h.service.RecentRounds(r.Context(), profile, limit)
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(roundsResponse{Rounds: rounds})
}
