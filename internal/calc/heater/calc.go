package heater

import (
	"Firebox/internal/calc/psychro"

	"github.com/ansel1/merry"
	"gonum.org/v1/gonum/floats/scalar"
)

// RowPrecision is the number of decimals of result rows.
const RowPrecision = 2

// balanceTolerance is the relative residual allowed when closing the SI ledger.
const balanceTolerance = 1e-9

type Row struct {
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
}

type Result struct {
	Parameters         ParameterSet  `json:"parameters"`
	WaterFraction      float64       `json:"water_fraction"`
	HigherHeatingValue float64       `json:"higher_heating_value"`
	Input              EnergyInput   `json:"input"`
	Output             FlueGasOutput `json:"output"`
	NetEfficiency      float64       `json:"net_efficiency"`
	GrossEfficiency    float64       `json:"gross_efficiency"`
	FuelEfficiency     float64       `json:"fuel_efficiency"`
	Warnings           []string      `json:"warnings,omitempty"`
}

// Calculate runs the direct method on p. The lookup is called once, at the
// ambient temperature.
func Calculate(p ParameterSet, lookup psychro.Lookup) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if lookup == nil {
		return Result{}, merry.Append(ErrCollaborator, "no saturation pressure lookup")
	}
	psat, err := lookup.SaturationPressure(p.AmbientTemperatureC)
	if err != nil {
		return Result{}, merry.Appendf(ErrCollaborator, "at %g °C", p.AmbientTemperatureC).WithCause(err)
	}
	if !finite(psat) || psat <= 0 {
		return Result{}, merry.Appendf(ErrCollaborator, "non-physical saturation pressure %g Pa at %g °C",
			psat, p.AmbientTemperatureC)
	}
	p = p.WithSaturationPressure(psat)

	xh, err := CorrectHumidity(p.RelativeHumidityPct, p.SaturationPressurePa)
	if err != nil {
		return Result{}, err
	}
	in, err := ComputeInput(p, xh)
	if err != nil {
		return Result{}, err
	}
	out, err := ComputeOutput(p, in.Total)
	if err != nil {
		return Result{}, err
	}

	r := Result{
		Parameters:         p,
		WaterFraction:      xh,
		HigherHeatingValue: HigherHeatingValue(p.LowerHeatingVal, xh),
		Input:              in,
		Output:             out,
	}
	if r.NetEfficiency, err = NetEfficiency(out.Useful, in.Total); err != nil {
		return Result{}, err
	}
	if r.GrossEfficiency, err = GrossEfficiency(out.Useful, in.Total, p.LowerHeatingVal, p.FuelMassFlow, xh); err != nil {
		return Result{}, err
	}
	if r.FuelEfficiency, err = FuelEfficiency(out.Useful, p.LowerHeatingVal, p.FuelMassFlow); err != nil {
		return Result{}, err
	}

	l, err := NewLedger(r)
	if err != nil {
		return Result{}, err
	}
	if !l.Closes(balanceTolerance) {
		return Result{}, merry.Appendf(ErrComputation, "energy balance residual %g W", l.Residual().Value())
	}

	r.Warnings = append(r.Warnings, in.Warnings...)
	r.Warnings = append(r.Warnings, out.Warnings...)
	for _, e := range []struct {
		name string
		v    float64
	}{
		{"net", r.NetEfficiency},
		{"gross", r.GrossEfficiency},
		{"fuel", r.FuelEfficiency},
	} {
		if e.v <= 0 || e.v > 100 {
			r.Warnings = append(r.Warnings, efficiencyWarning(e.name, e.v))
		}
	}
	return r, nil
}

// Rows returns the result table in display order.
func (r Result) Rows() []Row {
	return []Row{
		{"Heat Input", scalar.Round(r.Input.Total, RowPrecision), "kJ/hr"},
		{"Useful Energy", scalar.Round(r.Output.Useful, RowPrecision), "kJ/hr"},
		{"Net Efficiency", scalar.Round(r.NetEfficiency, RowPrecision), "%"},
		{"Gross Efficiency", scalar.Round(r.GrossEfficiency, RowPrecision), "%"},
		{"Fuel Efficiency", scalar.Round(r.FuelEfficiency, RowPrecision), "%"},
	}
}
