package heater

import (
	"math"

	"github.com/ansel1/merry"
	"github.com/ctessum/unit"
)

var kmolDim = unit.NewDimension("kmol")

var (
	joulesPerKg    = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2}
	joulesPerKgK   = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2, unit.TemperatureDim: -1}
	joulesPerKmolK = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2, unit.TemperatureDim: -1, kmolDim: -1}
	kgPerSecond    = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}
	kmolPerSecond  = unit.Dimensions{kmolDim: 1, unit.TimeDim: -1}
)

const secondsPerHour = 3600.0

func specificEnergy(kJPerKg float64) *unit.Unit {
	return unit.New(kJPerKg*1000, joulesPerKg)
}

func massFlow(kgPerHour float64) *unit.Unit {
	return unit.New(kgPerHour/secondsPerHour, kgPerSecond)
}

func molarFlow(kmolPerHour float64) *unit.Unit {
	return unit.New(kmolPerHour/secondsPerHour, kmolPerSecond)
}

func kelvin(dt float64) *unit.Unit {
	return unit.New(dt, unit.Kelvin)
}

// Power converts a kJ/hr heat rate to watts.
func Power(kJPerHour float64) *unit.Unit {
	return unit.New(kJPerHour*1000/secondsPerHour, unit.Watt)
}

// Ledger is the energy balance of a Result rebuilt in SI units. Every term is
// derived from its physical factors so that a term with the wrong dimensions
// is rejected rather than summed.
type Ledger struct {
	Fuel      *unit.Unit
	Air       *unit.Unit
	Steam     *unit.Unit
	Input     *unit.Unit
	Sensible  *unit.Unit
	Radiation *unit.Unit
	Useful    *unit.Unit
}

// NewLedger rebuilds the balance of r.
func NewLedger(r Result) (Ledger, error) {
	p := r.Parameters
	td := p.DatumTemperatureC
	var l Ledger

	l.Fuel = unit.Mul(
		unit.Add(specificEnergy(p.LowerHeatingVal),
			unit.Mul(unit.New(p.FuelSpecificHeat*1000, joulesPerKgK), kelvin(p.FuelTemperatureC-td))),
		massFlow(p.FuelMassFlow))
	l.Air = unit.Mul(unit.New(r.Input.AirMolarCp*1000, joulesPerKmolK),
		kelvin(p.CombustionAirC-td), molarFlow(r.Input.AirMolarFlow))
	l.Steam = unit.Mul(massFlow(p.SteamMassFlow), specificEnergy(p.SteamEnthalpy))
	l.Input = unit.Add(unit.Add(l.Fuel, l.Air), l.Steam)

	l.Sensible = unit.New(0, unit.Watt)
	for _, s := range r.Output.Species {
		l.Sensible = unit.Add(l.Sensible, unit.Mul(molarFlow(s.MolarFlow),
			unit.New(s.MolarCp*1000, joulesPerKmolK), kelvin(p.FlueGasExitC-td)))
	}
	l.Radiation = unit.Mul(unit.New(p.RadiationLoss, unit.Dimless), specificEnergy(p.LowerHeatingVal),
		massFlow(p.FuelMassFlow))
	l.Useful = Power(r.Output.Useful)

	for _, u := range []*unit.Unit{l.Fuel, l.Air, l.Steam, l.Input, l.Sensible, l.Radiation} {
		if err := u.Check(unit.Watt); err != nil {
			return Ledger{}, merry.Append(ErrComputation, err.Error())
		}
	}
	return l, nil
}

// Residual is Input - Useful - Sensible - Radiation.
func (l Ledger) Residual() *unit.Unit {
	return unit.Sub(unit.Sub(unit.Sub(l.Input, l.Useful), l.Sensible), l.Radiation)
}

// Closes reports whether the residual is within relTol of the heat input.
func (l Ledger) Closes(relTol float64) bool {
	return math.Abs(l.Residual().Value()) <= relTol*math.Abs(l.Input.Value())
}
