package heater

import (
	"github.com/ansel1/merry"
)

// EnergyInput is the heat entering the heater, kJ/hr.
type EnergyInput struct {
	Fuel  float64 `json:"fuel"`
	Air   float64 `json:"air"`
	Steam float64 `json:"steam"`
	Total float64 `json:"total"`

	AirMeanTemperatureC float64 `json:"air_mean_temperature_c"`
	AirMolarFlow        float64 `json:"air_molar_flow"` // kmol/hr
	AirMolarCp          float64 `json:"air_molar_cp"`   // kJ/(kmol·K)

	Warnings []string `json:"warnings,omitempty"`
}

// ComputeInput returns the heat entering with fuel, wet combustion air and
// atomizing steam. Every sensible heat term is measured from the datum
// temperature of p.
func ComputeInput(p ParameterSet, xh float64) (EnergyInput, error) {
	if p.FuelMassFlow <= 0 || p.LowerHeatingVal <= 0 {
		return EnergyInput{}, merry.Appendf(ErrValidation,
			"fuel mass flow %g and lower heating value %g must be positive", p.FuelMassFlow, p.LowerHeatingVal)
	}
	if !finite(xh) || xh < 0 || xh >= 1 {
		return EnergyInput{}, merry.Appendf(ErrValidation, "water vapour fraction %g outside [0, 1)", xh)
	}
	td := p.DatumTemperatureC

	var in EnergyInput
	in.Fuel = fuelHeat(p.LowerHeatingVal, p.FuelSpecificHeat, p.FuelTemperatureC-td, p.FuelMassFlow)

	tm := (p.CombustionAirC + td) / 2
	in.AirMeanTemperatureC = tm
	in.AirMolarFlow = p.WetAirMass / ((1-xh)*dryAirMolecularWeight + xh*waterMolecularWeight)
	in.AirMolarCp = (1-xh)*dryAirCp.Cp(tm) + xh*humidAirCp.Cp(tm)
	in.Air = in.AirMolarCp * (p.CombustionAirC - td) * in.AirMolarFlow
	if !dryAirCp.InRange(tm) {
		in.Warnings = append(in.Warnings, rangeWarning("dry air", dryAirCp, tm))
	}
	if xh > 0 && !humidAirCp.InRange(tm) {
		in.Warnings = append(in.Warnings, rangeWarning("humid air", humidAirCp, tm))
	}

	in.Steam = p.SteamMassFlow * p.SteamEnthalpy
	in.Total = in.Fuel + in.Air + in.Steam
	if !finite(in.Total) || in.Total <= 0 {
		return EnergyInput{}, merry.Appendf(ErrComputation, "heat input %g kJ/hr is not positive", in.Total)
	}
	return in, nil
}

// fuelHeat is the chemical plus sensible heat of the fuel, kJ/hr.
func fuelHeat(hL, cpf, dt, mFuel float64) float64 {
	return (hL + cpf*dt) * mFuel
}
