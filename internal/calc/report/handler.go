package report

import (
	"encoding/json"
	"net/http"

	"Firebox/internal/calc/heater"

	log "github.com/sirupsen/logrus"
)

type Input struct {
	Meta
	Values map[string]float64 `json:"values"`
}

type Handler struct {
	Calc *heater.Handler
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Calc.Evaluate(heater.Request{Values: input.Values})
	if err != nil {
		heater.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	if err := Write(w, res, input.Meta); err != nil {
		log.WithError(err).Error("report generation")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
