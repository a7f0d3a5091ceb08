package forecast

import "math"

// minSigma keeps a degenerate residual stream from collapsing interval
// widths to zero.
const minSigma = 1e-3

// Calibration accumulates out-of-sample prediction residuals with
// Welford's online algorithm and yields the residual sigma a model carries.
type Calibration struct {
	count int
	mean  float64
	m2    float64
}

// Add feeds one residual (predicted minus actual) into the accumulator.
func (c *Calibration) Add(residual float64) {
	c.count++
	delta := residual - c.mean
	c.mean += delta / float64(c.count)
	c.m2 += delta * (residual - c.mean)
}

// Count returns the number of residuals observed.
func (c *Calibration) Count() int { return c.count }

// Sigma returns the sample standard deviation of the residuals observed so
// far, floored at minSigma. With fewer than two residuals it returns
// minSigma.
func (c *Calibration) Sigma() float64 {
	if c.count < 2 {
		return minSigma
	}
	variance := c.m2 / float64(c.count-1)
	return math.Max(math.Sqrt(variance), minSigma)
}
