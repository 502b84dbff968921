package heater

import (
	"github.com/ansel1/merry"
)

const (
	StandardPressurePa = 101325.0
	waterAirMassRatio  = 18.0 / 28.0
)

// CorrectHumidity converts relative humidity (%) and the water saturation
// pressure (Pa) at ambient temperature into the molar water vapour fraction
// of the combustion air.
func CorrectHumidity(rhPct, psatPa float64) (float64, error) {
	xh := rhPct * psatPa * waterAirMassRatio / 100 / StandardPressurePa
	if !finite(xh) || xh < 0 || xh >= 1 {
		return 0, merry.Appendf(ErrValidation,
			"water vapour fraction %g outside [0, 1) for humidity %g %% and saturation pressure %g Pa",
			xh, rhPct, psatPa)
	}
	return xh, nil
}
