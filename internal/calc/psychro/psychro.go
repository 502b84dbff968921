// Package psychro provides saturation vapour pressure of water.
package psychro

import (
	"math"
	"strings"

	"github.com/ansel1/merry"
)

const kelvinOffset = 273.15

// ErrOutOfRange is returned for temperatures a correlation cannot evaluate.
var ErrOutOfRange = merry.New("temperature out of range")

// Lookup returns the saturation vapour pressure of water in Pa at tempC.
type Lookup interface {
	SaturationPressure(tempC float64) (float64, error)
}

// Func adapts a function to Lookup.
type Func func(tempC float64) (float64, error)

func (f Func) SaturationPressure(tempC float64) (float64, error) { return f(tempC) }

// Fixed ignores the temperature and returns itself, Pa.
type Fixed float64

func (f Fixed) SaturationPressure(float64) (float64, error) { return float64(f), nil }

type sonntag struct{}

// Sonntag is the Sonntag (1990) correlation over water, and over ice below 0 °C.
// Valid from -100 to 100 °C.
var Sonntag Lookup = sonntag{}

func (sonntag) SaturationPressure(tempC float64) (float64, error) {
	if math.IsNaN(tempC) || tempC < -100 || tempC > 100 {
		return 0, merry.Appendf(ErrOutOfRange, "sonntag: %g °C", tempC)
	}
	t := tempC + kelvinOffset
	if tempC < 0 {
		return math.Exp(-6024.5282/t + 29.32707 + 0.010613863*t - 0.000013198825*t*t - 0.49382577*math.Log(t)), nil
	}
	return math.Exp(-6096.9385/t + 21.2409642 - 0.02711193*t + 0.00001673952*t*t + 2.433502*math.Log(t)), nil
}

type buck struct{}

// Buck is the Arden Buck equation over water. Valid from -80 to 100 °C.
var Buck Lookup = buck{}

func (buck) SaturationPressure(tempC float64) (float64, error) {
	if math.IsNaN(tempC) || tempC < -80 || tempC > 100 {
		return 0, merry.Appendf(ErrOutOfRange, "buck: %g °C", tempC)
	}
	hPa := 6.1121 * math.Exp((18.678-tempC/234.5)*(tempC/(257.14+tempC)))
	return hPa * 100, nil
}

// ByName returns the lookup called name: sonntag (also the empty name), buck
// or fixed, the last returning fixedPa.
func ByName(name string, fixedPa float64) (Lookup, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sonntag":
		return Sonntag, nil
	case "buck":
		return Buck, nil
	case "fixed":
		if !(fixedPa > 0) || math.IsInf(fixedPa, 0) {
			return nil, merry.Errorf("fixed saturation pressure %g Pa must be positive", fixedPa)
		}
		return Fixed(fixedPa), nil
	}
	return nil, merry.Errorf("unknown saturation pressure method %q", name)
}
