package forecast

import (
	"fmt"
	"math"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// Interval derives bounds for a forecast at the requested confidence level.
//
// All widths for one forecast come from the single stored residual sigma:
//
//	z = Φ⁻¹((1+level)/2)
//	lower = max(0, estimate - z·sigma)
//	upper = estimate + z·sigma
//
// The model is never re-queried for a different level; only the z scaling
// changes, so widths are monotonically non-decreasing in the level.
func Interval(f model.StatForecast, level float64) (model.ConfidenceInterval, error) {
	if level <= 0 || level >= 1 {
		return model.ConfidenceInterval{}, fmt.Errorf("%w: got %v", ErrBadLevel, level)
	}
	z := invNormCDF((1 + level) / 2)
	return model.ConfidenceInterval{
		Level: level,
		Lower: math.Max(0, f.Estimate-z*f.ResidualSigma),
		Upper: f.Estimate + z*f.ResidualSigma,
	}, nil
}

// Acklam's rational approximation of the inverse standard normal CDF.
// Relative error below 1.15e-9 over the full domain.
var (
	invNormA = [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00,
	}
	invNormB = [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01,
	}
	invNormC = [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00,
	}
	invNormD = [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00,
	}
)

const (
	invNormPLow  = 0.02425
	invNormPHigh = 1 - invNormPLow
)

func invNormCDF(p float64) float64 {
	switch {
	case p < invNormPLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((invNormC[0]*q+invNormC[1])*q+invNormC[2])*q+invNormC[3])*q+invNormC[4])*q + invNormC[5]) /
			((((invNormD[0]*q+invNormD[1])*q+invNormD[2])*q+invNormD[3])*q + 1)
	case p > invNormPHigh:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((invNormC[0]*q+invNormC[1])*q+invNormC[2])*q+invNormC[3])*q+invNormC[4])*q + invNormC[5]) /
			((((invNormD[0]*q+invNormD[1])*q+invNormD[2])*q+invNormD[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((invNormA[0]*r+invNormA[1])*r+invNormA[2])*r+invNormA[3])*r+invNormA[4])*r + invNormA[5]) * q /
			(((((invNormB[0]*r+invNormB[1])*r+invNormB[2])*r+invNormB[3])*r+invNormB[4])*r + 1)
	}
}
