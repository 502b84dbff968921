package heater

import (
	"context"
	"encoding/json"
	"net/http"

	"Firebox/internal/calc/psychro"

	"github.com/ansel1/merry"
	log "github.com/sirupsen/logrus"
)

// Recorder stores successful calculations.
type Recorder interface {
	Record(ctx context.Context, res Result) (int, error)
}

type Request struct {
	Values map[string]float64 `json:"values"`
}

type Response struct {
	ID     int    `json:"id,omitempty"`
	Rows   []Row  `json:"rows"`
	Result Result `json:"result"`
}

type Handler struct {
	Defaults ParameterSet
	Lookup   psychro.Lookup
	Runs     Recorder
}

func (h *Handler) base() ParameterSet {
	if h.Defaults == (ParameterSet{}) {
		return Defaults()
	}
	return h.Defaults
}

// Evaluate applies the request values to the handler defaults and calculates.
func (h *Handler) Evaluate(req Request) (Result, error) {
	p, err := Apply(h.base(), req.Values)
	if err != nil {
		return Result{}, err
	}
	return Calculate(p, h.Lookup)
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Request
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Evaluate(input)
	if err != nil {
		WriteError(w, err)
		return
	}
	out := Response{Rows: res.Rows(), Result: res}
	if h.Runs != nil {
		id, err := h.Runs.Record(r.Context(), res)
		if err != nil {
			log.WithError(err).Warn("record run")
		} else {
			out.ID = id
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Fields lists the parameter registry with the handler defaults.
func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	type field struct {
		Field
		Default float64 `json:"default"`
	}
	base := h.base()
	var out []field
	for _, f := range Fields() {
		out = append(out, field{Field: f, Default: f.Value(base)})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// WriteError answers with the HTTP code carried by err.
func WriteError(w http.ResponseWriter, err error) {
	code := merry.HTTPCode(err)
	if code >= http.StatusInternalServerError {
		log.WithError(err).Error("calculation failed")
	}
	http.Error(w, err.Error(), code)
}
