package sweep

import (
	"context"
	"net/http"

	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/psychro"

	"github.com/ansel1/merry"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultField = "flue_gas_exit_temperature"
	MaxSteps     = 1000
)

var ErrSpec = merry.New("invalid sweep").WithHTTPCode(http.StatusBadRequest)

// Spec sweeps Field over Steps evenly spaced values from From to To on top
// of the Values overrides.
type Spec struct {
	Field  string             `json:"field"`
	From   float64            `json:"from"`
	To     float64            `json:"to"`
	Steps  int                `json:"steps"`
	Values map[string]float64 `json:"values,omitempty"`
}

// Default sweeps the flue gas exit temperature over the range where the
// flue gas heat capacities are valid.
func Default() Spec {
	return Spec{Field: DefaultField, From: 300, To: 900, Steps: 13}
}

type Point struct {
	Value  float64      `json:"value"`
	Rows   []heater.Row `json:"rows,omitempty"`
	Net    float64      `json:"net_efficiency"`
	Gross  float64      `json:"gross_efficiency"`
	Fuel   float64      `json:"fuel_efficiency"`
	Useful float64      `json:"useful"`
	Error  string       `json:"error,omitempty"`
}

// Grid returns the values of s.
func (s Spec) Grid() ([]float64, error) {
	if _, ok := heater.LookupField(s.Field); !ok {
		return nil, merry.Appendf(ErrSpec, "unknown field %q", s.Field)
	}
	if s.Steps < 2 || s.Steps > MaxSteps {
		return nil, merry.Appendf(ErrSpec, "steps %d outside [2, %d]", s.Steps, MaxSteps)
	}
	if s.From == s.To {
		return nil, merry.Append(ErrSpec, "empty range")
	}
	return floats.Span(make([]float64, s.Steps), s.From, s.To), nil
}

// Run evaluates every grid value in order and hands the points to emit.
// Failed points carry their error; Run stops on an emit error or when ctx
// is done.
func Run(ctx context.Context, base heater.ParameterSet, lookup psychro.Lookup, s Spec, emit func(Point) error) error {
	grid, err := s.Grid()
	if err != nil {
		return err
	}
	base, err = heater.Apply(base, s.Values)
	if err != nil {
		return err
	}
	f, _ := heater.LookupField(s.Field)
	for _, v := range grid {
		if err := ctx.Err(); err != nil {
			return err
		}
		pt := Point{Value: v}
		res, err := heater.Calculate(f.Set(base, v), lookup)
		if err != nil {
			pt.Error = err.Error()
		} else {
			pt.Rows = res.Rows()
			pt.Net, pt.Gross, pt.Fuel = res.NetEfficiency, res.GrossEfficiency, res.FuelEfficiency
			pt.Useful = res.Output.Useful
		}
		if err := emit(pt); err != nil {
			return err
		}
	}
	return nil
}

// Points collects the points of Run.
func Points(ctx context.Context, base heater.ParameterSet, lookup psychro.Lookup, s Spec) ([]Point, error) {
	var out []Point
	err := Run(ctx, base, lookup, s, func(p Point) error {
		out = append(out, p)
		return nil
	})
	return out, err
}
