package heater

import (
	"github.com/ansel1/merry"
)

// SpeciesHeat is the sensible heat carried out by one flue gas species.
type SpeciesHeat struct {
	Species   Species `json:"species"`
	MolarFlow float64 `json:"molar_flow"` // kmol/hr
	MolarCp   float64 `json:"molar_cp"`   // kJ/(kmol·K)
	Heat      float64 `json:"heat"`       // kJ/hr
}

// FlueGasOutput is the heat leaving the heater and the useful heat, kJ/hr.
type FlueGasOutput struct {
	Species   []SpeciesHeat `json:"species"`
	Sensible  float64       `json:"sensible"`
	Radiation float64       `json:"radiation"`
	Useful    float64       `json:"useful"`

	MeanTemperatureC float64  `json:"mean_temperature_c"`
	Warnings         []string `json:"warnings,omitempty"`
}

// ComputeOutput returns flue gas sensible heat, radiation loss and the
// useful heat qin - (sensible + radiation).
func ComputeOutput(p ParameterSet, qin float64) (FlueGasOutput, error) {
	if !finite(qin) {
		return FlueGasOutput{}, merry.Appendf(ErrComputation, "heat input %g is not finite", qin)
	}
	td := p.DatumTemperatureC
	dt := p.FlueGasExitC - td
	tm := (p.FlueGasExitC + td) / 2

	out := FlueGasOutput{
		Species:          make([]SpeciesHeat, 0, len(AllSpecies)),
		MeanTemperatureC: tm,
	}
	for _, s := range AllSpecies {
		g, err := LookupGas(s)
		if err != nil {
			return FlueGasOutput{}, err
		}
		x := p.Composition.Fraction(s)
		h := SpeciesHeat{
			Species:   s,
			MolarFlow: x * p.FlueGasMass / g.MolecularWeight,
		}
		if !g.Cp.Singular(tm) {
			h.MolarCp = g.Cp.Cp(tm)
		}
		// No temperature rise carries no heat, whatever Cp is.
		if dt != 0 && h.MolarFlow != 0 {
			if g.Cp.Singular(tm) {
				return FlueGasOutput{}, merry.Appendf(ErrComputation,
					"%s heat capacity is singular at mean temperature %g °C", s, tm)
			}
			h.Heat = h.MolarFlow * h.MolarCp * dt
		}
		out.Species = append(out.Species, h)
		out.Sensible += h.Heat
		if x > 0 && !g.Cp.InRange(tm) {
			out.Warnings = append(out.Warnings, rangeWarning(string(s), g.Cp, tm))
		}
	}

	out.Radiation = p.RadiationLoss * p.LowerHeatingVal * p.FuelMassFlow
	out.Useful = qin - (out.Sensible + out.Radiation)
	if !finite(out.Useful) {
		return FlueGasOutput{}, merry.Appendf(ErrComputation, "useful heat is not finite")
	}
	return out, nil
}
