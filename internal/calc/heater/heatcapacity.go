package heater

import (
	"fmt"

	"github.com/ansel1/merry"
)

type Species string

const (
	CO2 Species = "CO2"
	O2  Species = "O2"
	N2  Species = "N2"
	H2O Species = "H2O"
	SO2 Species = "SO2"
)

// AllSpecies lists flue gas species in summation order.
var AllSpecies = []Species{CO2, O2, N2, H2O, SO2}

// Correlation is a molar heat capacity fit, kJ/(kmol·K):
//
//	Cp(t) = A + B*t + C*t² + D/t²
//
// with t the mean temperature in °C. MinC and MaxC bound the verified range.
type Correlation struct {
	A, B, C, D float64
	MinC, MaxC float64
}

func (c Correlation) Cp(t float64) float64 {
	cp := c.A + c.B*t + c.C*t*t
	if c.D != 0 {
		cp += c.D / (t * t)
	}
	return cp
}

// Singular reports whether the D/t² term is undefined at t.
func (c Correlation) Singular(t float64) bool {
	return c.D != 0 && t == 0
}

func (c Correlation) InRange(t float64) bool {
	return t >= c.MinC && t <= c.MaxC
}

// Gas is a flue gas species with its molecular weight, kg/kmol.
type Gas struct {
	Species         Species
	MolecularWeight float64
	Cp              Correlation
}

var gases = map[Species]Gas{
	CO2: {CO2, 44, Correlation{A: 43.2936, B: 0.0115, D: -818558.5, MinC: 150, MaxC: 2000}},
	O2:  {O2, 32, Correlation{A: 34.627, B: 1.0802e-3, D: -785900, MinC: 150, MaxC: 2000}},
	N2:  {N2, 28, Correlation{A: 27.2155, B: 4.187e-3, MinC: 0, MaxC: 2000}},
	H2O: {H2O, 18, Correlation{A: 34.417, B: 6.281e-4, C: -5.611e-6, MinC: 0, MaxC: 1200}},
	SO2: {SO2, 64, Correlation{A: 32.24, B: 0.0222, C: -3.475e-5, MinC: 0, MaxC: 800}},
}

// Combustion air correlations.
var (
	dryAirCp   = Correlation{A: 33.915, B: 1.214e-3, MinC: 0, MaxC: 2000}
	humidAirCp = Correlation{A: 34.42, B: 6.281e-4, C: 5.6106e-6, MinC: 0, MaxC: 1200}
)

const (
	dryAirMolecularWeight = 28.84
	waterMolecularWeight  = 18.0
)

// LookupGas returns the correlation data of s.
func LookupGas(s Species) (Gas, error) {
	g, ok := gases[s]
	if !ok {
		return Gas{}, merry.Appendf(ErrValidation, "unknown species %q", s)
	}
	return g, nil
}

func rangeWarning(what string, c Correlation, t float64) string {
	return fmt.Sprintf("%s heat capacity evaluated at %.1f °C, outside verified range %g–%g °C",
		what, t, c.MinC, c.MaxC)
}
