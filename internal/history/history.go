package history

import (
	"encoding/json"
	"net/http"
	"strconv"

	"Firebox/internal/calc/heater"
	"Firebox/internal/repo"

	"github.com/gorilla/mux"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type HistoryHandler struct {
	Repo repo.RunRepository
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", DefaultLimit)
	if err != nil || limit <= 0 || limit > MaxLimit {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		http.Error(w, "Invalid offset", http.StatusBadRequest)
		return
	}
	runs, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		heater.WriteError(w, err)
		return
	}
	if runs == nil {
		runs = []repo.Run{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	run, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		heater.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
