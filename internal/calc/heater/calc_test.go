package heater

import (
	"errors"
	"math"
	"testing"

	"Firebox/internal/calc/psychro"

	"github.com/ansel1/merry"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const refPsat = psychro.Fixed(3500)

func reference(t *testing.T, p ParameterSet) Result {
	t.Helper()
	r, err := Calculate(p, refPsat)
	require.NoError(t, err)
	return r
}

func TestCalculateReference(t *testing.T) {
	r := reference(t, Defaults())

	assert.InDelta(t, 0.011102886750555147, r.WaterFraction, 1e-15)
	assert.InDelta(t, 462448800.0, r.Input.Fuel, 1e-3)
	assert.InDelta(t, 6590037.875301908, r.Input.Air, 1e-3)
	assert.InDelta(t, 11663400.0, r.Input.Steam, 1e-6)
	assert.InDelta(t, 480702237.8753019, r.Input.Total, 1e-3)
	assert.InDelta(t, 7763.521250693295, r.Input.AirMolarFlow, 1e-6)
	assert.InDelta(t, 102807607.45233525, r.Output.Sensible, 1e-3)
	assert.InDelta(t, 23112240.0, r.Output.Radiation, 1e-3)
	assert.InDelta(t, 354782390.42296666, r.Output.Useful, 1e-3)
	assert.InDelta(t, 73.80502158490057, r.NetEfficiency, 1e-9)
	assert.InDelta(t, 73.75463329434342, r.GrossEfficiency, 1e-9)
	assert.InDelta(t, 76.75205657758977, r.FuelEfficiency, 1e-9)
	assert.Equal(t, 3500.0, r.Parameters.SaturationPressurePa)
	assert.Empty(t, r.Warnings)
}

func TestRows(t *testing.T) {
	rows := reference(t, Defaults()).Rows()
	assert.Equal(t, []Row{
		{"Heat Input", 480702237.88, "kJ/hr"},
		{"Useful Energy", 354782390.42, "kJ/hr"},
		{"Net Efficiency", 73.81, "%"},
		{"Gross Efficiency", 73.75, "%"},
		{"Fuel Efficiency", 76.75, "%"},
	}, rows)
}

func TestEnergyIdentity(t *testing.T) {
	for _, tflue := range []float64{300, 446, 600, 900} {
		p := Defaults()
		p.FlueGasExitC = tflue
		r := reference(t, p)
		assert.InEpsilon(t, r.Input.Total, r.Output.Useful+r.Output.Sensible+r.Output.Radiation, 1e-12)
	}
}

func TestRadiationLossLowersUsefulHeat(t *testing.T) {
	prevUseful, prevNet := math.Inf(1), math.Inf(1)
	for _, loss := range []float64{0, 0.02, 0.05, 0.1, 0.3} {
		p := Defaults()
		p.RadiationLoss = loss
		r := reference(t, p)
		assert.Less(t, r.Output.Useful, prevUseful, "radiation loss %g", loss)
		assert.Less(t, r.NetEfficiency, prevNet, "radiation loss %g", loss)
		prevUseful, prevNet = r.Output.Useful, r.NetEfficiency
	}
}

func TestFlueTemperatureLowersUsefulHeat(t *testing.T) {
	p := Defaults()
	p.FlueGasExitC = 300
	prev := reference(t, p)
	for tflue := 350.0; tflue <= 900; tflue += 50 {
		p.FlueGasExitC = tflue
		r := reference(t, p)
		assert.Greater(t, r.Output.Sensible, prev.Output.Sensible, "%g °C", tflue)
		assert.Less(t, r.Output.Useful, prev.Output.Useful, "%g °C", tflue)
		assert.Less(t, r.NetEfficiency, prev.NetEfficiency, "%g °C", tflue)
		prev = r
	}
}

func TestNoLossBoundary(t *testing.T) {
	for _, datum := range []float64{15, 0, -10} {
		p := Defaults()
		p.DatumTemperatureC = datum
		p.FlueGasExitC = datum
		p.RadiationLoss = 0
		r, err := Calculate(p, refPsat)
		require.NoError(t, err, "datum %g °C", datum)
		assert.Equal(t, 0.0, r.Output.Sensible, "datum %g °C", datum)
		assert.Equal(t, r.Input.Total, r.Output.Useful, "datum %g °C", datum)
		assert.InDelta(t, 100, r.NetEfficiency, 1e-9, "datum %g °C", datum)
	}
}

func TestSingularMeanTemperature(t *testing.T) {
	p := Defaults()
	p.DatumTemperatureC = -10
	p.FlueGasExitC = 10
	_, err := Calculate(p, refPsat)
	require.Error(t, err)
	assert.True(t, merry.Is(err, ErrComputation))
	assert.Contains(t, err.Error(), "singular")
}

func TestGrossBelowNetWithHumidAir(t *testing.T) {
	r := reference(t, Defaults())
	assert.Greater(t, r.WaterFraction, 0.0)
	assert.Less(t, r.GrossEfficiency, r.NetEfficiency)
	assert.Greater(t, r.HigherHeatingValue, r.Parameters.LowerHeatingVal)

	p := Defaults()
	p.RelativeHumidityPct = 0
	r = reference(t, p)
	assert.Equal(t, 0.0, r.WaterFraction)
	assert.InDelta(t, r.NetEfficiency, r.GrossEfficiency, 1e-12)
}

func TestZeroSteamFlow(t *testing.T) {
	p := Defaults()
	p.SteamMassFlow = 0
	r := reference(t, p)
	assert.Equal(t, 0.0, r.Input.Steam)
	assert.InDelta(t, 480702237.8753019-11663400.0, r.Input.Total, 1e-3)
}

func TestValidationRunsBeforeLookup(t *testing.T) {
	called := false
	lookup := psychro.Func(func(float64) (float64, error) {
		called = true
		return 3500, nil
	})

	p := Defaults()
	p.Composition.N2 = 0.8
	_, err := Calculate(p, lookup)
	assert.True(t, merry.Is(err, ErrValidation))
	assert.False(t, called)
}

func TestValidationCollectsProblems(t *testing.T) {
	p := Defaults()
	p.Composition.CO2 = 0.3
	p.RelativeHumidityPct = 120
	p.FuelMassFlow = 0
	p.AmbientTemperatureC = -300

	err := p.Validate()
	require.True(t, merry.Is(err, ErrValidation))
	var merr *multierror.Error
	require.True(t, errors.As(merry.Cause(err), &merr))
	assert.Len(t, merr.Errors, 4)
}

func TestValidationCases(t *testing.T) {
	tests := []struct {
		name string
		edit func(*ParameterSet)
	}{
		{"fractions sum above one", func(p *ParameterSet) { p.Composition.O2 += 0.01 }},
		{"negative fraction", func(p *ParameterSet) { p.Composition.SO2 = -0.005; p.Composition.N2 += 0.01 }},
		{"humidity above 100", func(p *ParameterSet) { p.RelativeHumidityPct = 101 }},
		{"negative humidity", func(p *ParameterSet) { p.RelativeHumidityPct = -1 }},
		{"radiation loss of one", func(p *ParameterSet) { p.RadiationLoss = 1 }},
		{"zero fuel flow", func(p *ParameterSet) { p.FuelMassFlow = 0 }},
		{"negative heating value", func(p *ParameterSet) { p.LowerHeatingVal = -1 }},
		{"zero flue gas mass", func(p *ParameterSet) { p.FlueGasMass = 0 }},
		{"negative steam flow", func(p *ParameterSet) { p.SteamMassFlow = -1 }},
		{"below absolute zero", func(p *ParameterSet) { p.FlueGasExitC = -274 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.edit(&p)
			_, err := Calculate(p, refPsat)
			assert.True(t, merry.Is(err, ErrValidation), "%v", err)
			assert.Equal(t, 400, merry.HTTPCode(err))
		})
	}
}

func TestFractionTolerance(t *testing.T) {
	p := Defaults()
	p.Composition.N2 += 0.0007
	_, err := Calculate(p, refPsat)
	assert.NoError(t, err)
}

func TestCollaboratorFailures(t *testing.T) {
	boom := errors.New("property service down")
	tests := []struct {
		name   string
		lookup psychro.Lookup
	}{
		{"nil lookup", nil},
		{"lookup error", psychro.Func(func(float64) (float64, error) { return 0, boom })},
		{"zero pressure", psychro.Fixed(0)},
		{"negative pressure", psychro.Fixed(-10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(Defaults(), tt.lookup)
			assert.True(t, merry.Is(err, ErrCollaborator), "%v", err)
			assert.Equal(t, 502, merry.HTTPCode(err))
		})
	}
}

func TestAbsurdSaturationPressure(t *testing.T) {
	_, err := Calculate(Defaults(), psychro.Fixed(1e7))
	assert.True(t, merry.Is(err, ErrValidation))
}

func TestDefaultLookup(t *testing.T) {
	r, err := Calculate(Defaults(), psychro.Sonntag)
	require.NoError(t, err)
	assert.InDelta(t, 3505.739, r.Parameters.SaturationPressurePa, 1e-3)
	assert.InDelta(t, 73.8, r.NetEfficiency, 0.01)
}

func TestColdFlueWarns(t *testing.T) {
	p := Defaults()
	p.FlueGasExitC = 100
	r := reference(t, p)
	assert.NotEmpty(t, r.Warnings)
}

func TestCalculateDoesNotModifyInput(t *testing.T) {
	p := Defaults()
	_ = reference(t, p)
	assert.Equal(t, Defaults(), p)
}
