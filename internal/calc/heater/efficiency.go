package heater

import (
	"fmt"

	"github.com/ansel1/merry"
)

// LatentHeatFactor converts the water vapour fraction into the implied
// difference between higher and lower heating value, kJ/kg.
const LatentHeatFactor = 2464.9

// NetEfficiency is useful heat over heat input, %.
func NetEfficiency(qu, qin float64) (float64, error) {
	return percent("net", qu, qin)
}

// HigherHeatingValue is the heating value implied by hL and the water vapour
// fraction, kJ/kg.
func HigherHeatingValue(hL, xh float64) float64 {
	return hL + xh*LatentHeatFactor
}

// GrossEfficiency is useful heat over the heat input recomputed with the
// higher heating value of the fuel, %. Heat values are kJ/hr, so the heating
// value difference is scaled by the fuel mass flow.
func GrossEfficiency(qu, qin, hL, mFuel, xh float64) (float64, error) {
	hH := HigherHeatingValue(hL, xh)
	return percent("gross", qu, qin-hL*mFuel+hH*mFuel)
}

// FuelEfficiency is useful heat over the fuel's chemical heat, %.
func FuelEfficiency(qu, hL, mFuel float64) (float64, error) {
	return percent("fuel", qu, hL*mFuel)
}

func percent(name string, num, den float64) (float64, error) {
	if !finite(den) || den <= 0 {
		return 0, merry.Appendf(ErrComputation, "%s efficiency denominator %g is not positive", name, den)
	}
	e := 100 * num / den
	if !finite(e) {
		return 0, merry.Appendf(ErrComputation, "%s efficiency is not finite", name)
	}
	return e, nil
}

func efficiencyWarning(name string, e float64) string {
	return fmt.Sprintf("%s efficiency %.2f %% outside (0, 100]", name, e)
}
