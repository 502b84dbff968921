package heater

import (
	"sort"
	"strings"

	"github.com/ansel1/merry"
	"github.com/hashicorp/go-multierror"
)

// Field describes one numeric parameter for input surfaces.
type Field struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Editable    bool   `json:"editable"`

	ref func(*ParameterSet) *float64
}

func (f Field) Value(p ParameterSet) float64 {
	return *f.ref(&p)
}

// Set returns a copy of p with the field set to v.
func (f Field) Set(p ParameterSet, v float64) ParameterSet {
	*f.ref(&p) = v
	return p
}

var fields = []Field{
	{"ambient_temperature", "Ambient Temperature", "°C", false, func(p *ParameterSet) *float64 { return &p.AmbientTemperatureC }},
	{"relative_humidity", "Relative Humidity", "%", false, func(p *ParameterSet) *float64 { return &p.RelativeHumidityPct }},
	{"radiation_loss", "Radiation loss", "fraction", false, func(p *ParameterSet) *float64 { return &p.RadiationLoss }},
	{"oxygen_wet", "Oxygen content on wet basis", "%", false, func(p *ParameterSet) *float64 { return &p.OxygenWetPct }},
	{"flue_gas_exit_temperature", "Flue Gas Exit Temperature", "°C", true, func(p *ParameterSet) *float64 { return &p.FlueGasExitC }},
	{"co2_fraction", "CO2 Mass fraction", "fraction", false, func(p *ParameterSet) *float64 { return &p.Composition.CO2 }},
	{"h2o_fraction", "H2O Mass fraction", "fraction", false, func(p *ParameterSet) *float64 { return &p.Composition.H2O }},
	{"o2_fraction", "O2 Mass fraction", "fraction", false, func(p *ParameterSet) *float64 { return &p.Composition.O2 }},
	{"n2_fraction", "N2 Mass fraction", "fraction", false, func(p *ParameterSet) *float64 { return &p.Composition.N2 }},
	{"so2_fraction", "SO2 Mass fraction", "fraction", false, func(p *ParameterSet) *float64 { return &p.Composition.SO2 }},
	{"combustion_air_temperature", "Combustion air temperature", "°C", false, func(p *ParameterSet) *float64 { return &p.CombustionAirC }},
	{"fuel_temperature", "Fuel temperature", "°C", false, func(p *ParameterSet) *float64 { return &p.FuelTemperatureC }},
	{"fuel_mass_flow", "Fuel Mass Flow Rate", "kg/hr", true, func(p *ParameterSet) *float64 { return &p.FuelMassFlow }},
	{"datum_temperature", "Datum temperature", "°C", false, func(p *ParameterSet) *float64 { return &p.DatumTemperatureC }},
	{"hl", "Lower heating value", "kJ/kg", false, func(p *ParameterSet) *float64 { return &p.LowerHeatingVal }},
	{"fuel_specific_heat", "Specific heat of Fuel", "kJ/kg.K", false, func(p *ParameterSet) *float64 { return &p.FuelSpecificHeat }},
	{"steam_mass_flow", "Steam Mass Flow Rate", "kg/hr", true, func(p *ParameterSet) *float64 { return &p.SteamMassFlow }},
	{"steam_enthalpy", "Enthalpy of Steam", "kJ/kg", true, func(p *ParameterSet) *float64 { return &p.SteamEnthalpy }},
	{"flue_gas_mass", "Flue Gas Mass", "kg/hr", false, func(p *ParameterSet) *float64 { return &p.FlueGasMass }},
	{"wet_air_mass", "Wet Air Mass", "kg/hr", false, func(p *ParameterSet) *float64 { return &p.WetAirMass }},
	{"excess_air", "Percentage of excess air", "fraction", false, func(p *ParameterSet) *float64 { return &p.ExcessAir }},
	{"humidity_of_air", "Humidity of air", "kg H2O/kg wet air", false, func(p *ParameterSet) *float64 { return &p.HumidityOfAir }},
}

var fieldIndex = func() map[string]Field {
	m := make(map[string]Field, 2*len(fields))
	for _, f := range fields {
		m[f.Key] = f
		m[strings.ToLower(f.Description)] = f
	}
	return m
}()

// Fields returns the parameter registry in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// LookupField finds a field by key or description, ignoring case and
// surrounding spaces.
func LookupField(name string) (Field, bool) {
	f, ok := fieldIndex[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Apply returns p with values set by field key or description.
func Apply(p ParameterSet, values map[string]float64) (ParameterSet, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs *multierror.Error
	for _, name := range names {
		f, ok := LookupField(name)
		if !ok {
			errs = multierror.Append(errs, merry.Errorf("unknown parameter %q", name))
			continue
		}
		p = f.Set(p, values[name])
	}
	if err := errs.ErrorOrNil(); err != nil {
		return ParameterSet{}, merry.Append(ErrValidation, "unknown parameters").WithCause(err)
	}
	return p, nil
}

// Values returns every field of p by key.
func Values(p ParameterSet) map[string]float64 {
	m := make(map[string]float64, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value(p)
	}
	return m
}

// Scenario is a named set of field overrides.
type Scenario struct {
	Name   string             `json:"name" yaml:"name"`
	Values map[string]float64 `json:"values" yaml:"values"`
}

// Apply returns base with the scenario overrides applied.
func (s Scenario) Apply(base ParameterSet) (ParameterSet, error) {
	return Apply(base, s.Values)
}
