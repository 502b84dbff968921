package batch

import (
	"encoding/json"
	"net/http"

	"Firebox/internal/calc/heater"

	log "github.com/sirupsen/logrus"
)

// MaxItems bounds the scenarios of one request.
const MaxItems = 1000

type Handler struct {
	Runner Runner
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(input.Items) > MaxItems {
		http.Error(w, "Too many scenarios", http.StatusRequestEntityTooLarge)
		return
	}
	res, err := h.Runner.Calculate(r.Context(), input)
	if err != nil {
		heater.WriteError(w, err)
		return
	}
	if res.Failed > 0 {
		log.WithFields(log.Fields{"items": len(res.Results), "failed": res.Failed}).Info("batch finished with failures")
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
