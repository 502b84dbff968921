package heater

import (
	"math"

	"github.com/ansel1/merry"
	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	AbsoluteZeroC        = -273.15
	FractionSumTolerance = 1e-3
)

// Composition holds flue gas mass fractions.
type Composition struct {
	CO2 float64 `json:"co2" yaml:"co2"`
	H2O float64 `json:"h2o" yaml:"h2o"`
	O2  float64 `json:"o2" yaml:"o2"`
	N2  float64 `json:"n2" yaml:"n2"`
	SO2 float64 `json:"so2" yaml:"so2"`
}

// Fraction returns the mass fraction of s.
func (c Composition) Fraction(s Species) float64 {
	switch s {
	case CO2:
		return c.CO2
	case H2O:
		return c.H2O
	case O2:
		return c.O2
	case N2:
		return c.N2
	case SO2:
		return c.SO2
	}
	return 0
}

func (c Composition) Sum() float64 {
	return floats.Sum([]float64{c.CO2, c.H2O, c.O2, c.N2, c.SO2})
}

// ParameterSet is a snapshot of the operating data of one heater evaluation.
// Temperatures are °C, mass flows kg/hr, energies kJ/kg.
type ParameterSet struct {
	AmbientTemperatureC float64 `json:"ambient_temperature_c"`
	RelativeHumidityPct float64 `json:"relative_humidity_pct"`
	RadiationLoss       float64 `json:"radiation_loss"`
	FlueGasExitC        float64 `json:"flue_gas_exit_c"`
	CombustionAirC      float64 `json:"combustion_air_c"`
	FuelTemperatureC    float64 `json:"fuel_temperature_c"`
	DatumTemperatureC   float64 `json:"datum_temperature_c"`

	FuelMassFlow     float64 `json:"fuel_mass_flow"`
	LowerHeatingVal  float64 `json:"lower_heating_value"`
	FuelSpecificHeat float64 `json:"fuel_specific_heat"`

	SteamMassFlow float64 `json:"steam_mass_flow"`
	SteamEnthalpy float64 `json:"steam_enthalpy"`

	FlueGasMass float64     `json:"flue_gas_mass"`
	WetAirMass  float64     `json:"wet_air_mass"`
	Composition Composition `json:"composition"`

	// Reported only.
	OxygenWetPct  float64 `json:"oxygen_wet_pct"`
	ExcessAir     float64 `json:"excess_air"`
	HumidityOfAir float64 `json:"humidity_of_air"`

	// SaturationPressurePa is filled from the lookup by Calculate.
	SaturationPressurePa float64 `json:"saturation_pressure_pa"`
}

// Defaults returns the reference operating point.
func Defaults() ParameterSet {
	return ParameterSet{
		AmbientTemperatureC: 26.7,
		RelativeHumidityPct: 50,
		RadiationLoss:       0.05,
		FlueGasExitC:        446,
		CombustionAirC:      40,
		FuelTemperatureC:    25,
		DatumTemperatureC:   15,
		FuelMassFlow:        12000,
		LowerHeatingVal:     38520.4,
		FuelSpecificHeat:    1.7,
		SteamMassFlow:       4200,
		SteamEnthalpy:       2777,
		FlueGasMass:         239165.572,
		WetAirMass:          222965.572,
		Composition: Composition{
			CO2: 0.1527,
			H2O: 0.0715,
			O2:  0.062,
			N2:  0.709,
			SO2: 0.502e-2,
		},
		OxygenWetPct:  5,
		ExcessAir:     0.4,
		HumidityOfAir: 0.4,
	}
}

// WithSaturationPressure returns a copy of p carrying psat.
func (p ParameterSet) WithSaturationPressure(psat float64) ParameterSet {
	p.SaturationPressurePa = psat
	return p
}

// Validate reports every problem found in p. The saturation pressure is not
// checked here: it belongs to the lookup and is checked by Calculate.
func (p ParameterSet) Validate() error {
	var errs *multierror.Error
	fail := func(format string, args ...interface{}) {
		errs = multierror.Append(errs, merry.Errorf(format, args...))
	}

	for _, t := range []struct {
		name string
		v    float64
	}{
		{"ambient temperature", p.AmbientTemperatureC},
		{"flue gas exit temperature", p.FlueGasExitC},
		{"combustion air temperature", p.CombustionAirC},
		{"fuel temperature", p.FuelTemperatureC},
		{"datum temperature", p.DatumTemperatureC},
	} {
		if !finite(t.v) || t.v < AbsoluteZeroC {
			fail("%s %g °C is below absolute zero", t.name, t.v)
		}
	}

	if !finite(p.RelativeHumidityPct) || p.RelativeHumidityPct < 0 || p.RelativeHumidityPct > 100 {
		fail("relative humidity %g %% outside [0, 100]", p.RelativeHumidityPct)
	}
	if !finite(p.RadiationLoss) || p.RadiationLoss < 0 || p.RadiationLoss >= 1 {
		fail("radiation loss %g outside [0, 1)", p.RadiationLoss)
	}

	for _, q := range []struct {
		name string
		v    float64
	}{
		{"fuel mass flow", p.FuelMassFlow},
		{"lower heating value", p.LowerHeatingVal},
		{"fuel specific heat", p.FuelSpecificHeat},
		{"flue gas mass", p.FlueGasMass},
		{"wet air mass", p.WetAirMass},
	} {
		if !finite(q.v) || q.v <= 0 {
			fail("%s must be positive, got %g", q.name, q.v)
		}
	}
	if !finite(p.SteamMassFlow) || p.SteamMassFlow < 0 {
		fail("steam mass flow must not be negative, got %g", p.SteamMassFlow)
	}
	if !finite(p.SteamEnthalpy) {
		fail("steam enthalpy is not finite")
	}
	for _, q := range []struct {
		name string
		v    float64
	}{
		{"oxygen content", p.OxygenWetPct},
		{"excess air", p.ExcessAir},
		{"humidity of air", p.HumidityOfAir},
	} {
		if !finite(q.v) || q.v < 0 {
			fail("%s must not be negative, got %g", q.name, q.v)
		}
	}

	for _, s := range AllSpecies {
		x := p.Composition.Fraction(s)
		if !finite(x) || x < 0 || x > 1 {
			fail("%s mass fraction %g outside [0, 1]", s, x)
		}
	}
	if sum := p.Composition.Sum(); !scalar.EqualWithinAbs(sum, 1, FractionSumTolerance) {
		fail("mass fractions sum to %.5f, want 1 ± %g", sum, FractionSumTolerance)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return merry.Appendf(ErrValidation, "%d problem(s)", len(errs.Errors)).WithCause(err)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
