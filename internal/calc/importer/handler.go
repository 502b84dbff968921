package importer

import (
	"encoding/json"
	"net/http"
	"strings"

	"Firebox/internal/calc/batch"
	"Firebox/internal/calc/heater"

	log "github.com/sirupsen/logrus"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Runner batch.Runner
}

// Import evaluates an uploaded workbook. The answer is JSON unless the
// format=xlsx query or an xlsx Accept header asks for a workbook.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	items, err := ReadScenarios(file)
	if err != nil {
		heater.WriteError(w, err)
		return
	}
	if len(items) > batch.MaxItems {
		http.Error(w, "Too many scenarios", http.StatusRequestEntityTooLarge)
		return
	}
	res, err := h.Runner.Calculate(r.Context(), batch.Input{Items: items})
	if err != nil {
		heater.WriteError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" || strings.Contains(r.Header.Get("Accept"), xlsxType) {
		w.Header().Set("Content-Type", xlsxType)
		w.Header().Set("Content-Disposition", "attachment; filename=\"heater-results.xlsx\"")
		if err := WriteResults(w, res.Results); err != nil {
			log.WithError(err).Error("write results workbook")
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
