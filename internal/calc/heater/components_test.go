package heater

import (
	"math"
	"testing"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectHumidity(t *testing.T) {
	xh, err := CorrectHumidity(50, 3500)
	require.NoError(t, err)
	assert.InDelta(t, 0.011102886750555147, xh, 1e-15)

	xh, err = CorrectHumidity(0, 3500)
	require.NoError(t, err)
	assert.Zero(t, xh)

	for _, c := range [][2]float64{{100, 200000}, {-5, 3500}, {50, math.NaN()}, {50, -1}} {
		_, err := CorrectHumidity(c[0], c[1])
		assert.True(t, merry.Is(err, ErrValidation), "%v", c)
	}
}

func TestComputeInput(t *testing.T) {
	p := Defaults()
	in, err := ComputeInput(p, 0.011102886750555147)
	require.NoError(t, err)
	assert.InDelta(t, 462448800.0, in.Fuel, 1e-3)
	assert.InDelta(t, 33.953860175050885, in.AirMolarCp, 1e-12)
	assert.Equal(t, 27.5, in.AirMeanTemperatureC)
	assert.Equal(t, in.Fuel+in.Air+in.Steam, in.Total)
	assert.Empty(t, in.Warnings)

	dry, err := ComputeInput(p, 0)
	require.NoError(t, err)
	assert.InDelta(t, p.WetAirMass/dryAirMolecularWeight, dry.AirMolarFlow, 1e-9)

	_, err = ComputeInput(p, 1)
	assert.True(t, merry.Is(err, ErrValidation))

	p.FuelMassFlow = 0
	_, err = ComputeInput(p, 0.01)
	assert.True(t, merry.Is(err, ErrValidation))
}

func TestComputeInputDatumAboveAir(t *testing.T) {
	p := Defaults()
	p.CombustionAirC = 10
	in, err := ComputeInput(p, 0.01)
	require.NoError(t, err)
	assert.Negative(t, in.Air)
}

func TestComputeOutput(t *testing.T) {
	p := Defaults()
	out, err := ComputeOutput(p, 480702237.8753019)
	require.NoError(t, err)
	require.Len(t, out.Species, len(AllSpecies))
	assert.Equal(t, 230.5, out.MeanTemperatureC)

	var sum float64
	for _, s := range out.Species {
		sum += s.Heat
		assert.Positive(t, s.Heat, s.Species)
	}
	assert.InDelta(t, out.Sensible, sum, 1e-6)
	assert.InDelta(t, 102807607.45233525, out.Sensible, 1e-3)
	assert.InDelta(t, 23112240.0, out.Radiation, 1e-6)

	p.Composition.SO2 = 0
	p.Composition.N2 += 0.00502
	out, err = ComputeOutput(p, 480702237.8753019)
	require.NoError(t, err)
	assert.Zero(t, out.Species[4].Heat)

	_, err = ComputeOutput(Defaults(), math.Inf(1))
	assert.True(t, merry.Is(err, ErrComputation))
}

func TestEfficiencies(t *testing.T) {
	e, err := NetEfficiency(50, 200)
	require.NoError(t, err)
	assert.Equal(t, 25.0, e)

	hH := HigherHeatingValue(38520.4, 0.01)
	assert.InDelta(t, 38520.4+24.649, hH, 1e-9)

	g, err := GrossEfficiency(50, 200, 10, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 25.0, g)
	g, err = GrossEfficiency(50, 200, 10, 2, 0.01)
	require.NoError(t, err)
	assert.Less(t, g, 25.0)

	f, err := FuelEfficiency(50, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 50.0, f)

	for _, fn := range []func() (float64, error){
		func() (float64, error) { return NetEfficiency(1, 0) },
		func() (float64, error) { return NetEfficiency(1, -5) },
		func() (float64, error) { return FuelEfficiency(1, 10, 0) },
		func() (float64, error) { return NetEfficiency(math.Inf(1), 1) },
	} {
		_, err := fn()
		assert.True(t, merry.Is(err, ErrComputation))
	}
}
