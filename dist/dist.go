/*package dist implements the univariate, angular, and spatial distributions
that source particles are sampled from.

Every optional sub-distribution is itself a complete distribution instance.
A coordinate axis left unspecified becomes a one-outcome Discrete at zero,
so the sampling path has no special cases: construction alone decides what
gets sampled.
*/
package dist

import (
	"fmt"
	"math"

	"github.com/marquezj/openmc/rand"
)

// Distribution is a univariate distribution sampled with a particle's
// random stream.
type Distribution interface {
	Sample(rng *rand.Stream) float64
}

// Discrete samples from a fixed set of outcomes with given probabilities.
type Discrete struct {
	x, p []float64
}

// NewDiscrete returns a discrete distribution over the outcomes x with
// probabilities p. Probabilities are normalized at construction.
func NewDiscrete(x, p []float64) (*Discrete, error) {
	if len(x) != len(p) {
		return nil, fmt.Errorf(
			"discrete distribution needs matching value and probability "+
				"counts, got %d and %d", len(x), len(p),
		)
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("discrete distribution needs at least one outcome")
	}

	norm := 0.0
	for i, pi := range p {
		if pi < 0 {
			return nil, fmt.Errorf(
				"discrete probability %d is negative (%g)", i, pi,
			)
		}
		norm += pi
	}
	if norm == 0 {
		return nil, fmt.Errorf("discrete probabilities sum to zero")
	}

	d := &Discrete{
		x: append([]float64{}, x...),
		p: make([]float64, len(p)),
	}
	for i := range p {
		d.p[i] = p[i] / norm
	}
	return d, nil
}

// DeltaAt returns the one-outcome distribution that always samples x.
func DeltaAt(x float64) *Discrete {
	return &Discrete{x: []float64{x}, p: []float64{1}}
}

func (d *Discrete) Sample(rng *rand.Stream) float64 {
	xi := rng.Float64()
	cum := 0.0
	for i := range d.x {
		cum += d.p[i]
		if xi < cum {
			return d.x[i]
		}
	}
	return d.x[len(d.x)-1]
}

// Uniform samples uniformly from [A, B).
type Uniform struct {
	A, B float64
}

// NewUniform returns a uniform distribution on [a, b).
func NewUniform(a, b float64) (*Uniform, error) {
	if b <= a {
		return nil, fmt.Errorf(
			"uniform distribution needs a < b, got [%g, %g)", a, b,
		)
	}
	return &Uniform{a, b}, nil
}

func (d *Uniform) Sample(rng *rand.Stream) float64 {
	return d.A + rng.Float64()*(d.B-d.A)
}

// Tabular samples from a probability density given as (x, p) points with
// linear interpolation between them.
type Tabular struct {
	x   []float64
	p   []float64
	cdf []float64
}

// NewTabular returns a linearly interpolated tabular distribution. x and p
// must have the same length; p holds the density at each x and is
// normalized at construction.
func NewTabular(x, p []float64) (*Tabular, error) {
	if len(x) != len(p) {
		return nil, fmt.Errorf(
			"tabular distribution needs matching value and probability "+
				"counts, got %d and %d", len(x), len(p),
		)
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("tabular distribution needs at least two points")
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf(
				"tabular values must increase, value %d (%g) <= value %d (%g)",
				i, x[i], i-1, x[i-1],
			)
		}
	}

	t := &Tabular{
		x:   append([]float64{}, x...),
		p:   append([]float64{}, p...),
		cdf: make([]float64, len(x)),
	}
	for i, pi := range p {
		if pi < 0 {
			return nil, fmt.Errorf("tabular probability %d is negative (%g)", i, pi)
		}
		if i > 0 {
			t.cdf[i] = t.cdf[i-1] +
				0.5*(t.x[i]-t.x[i-1])*(t.p[i]+t.p[i-1])
		}
	}
	norm := t.cdf[len(t.cdf)-1]
	if norm == 0 {
		return nil, fmt.Errorf("tabular probabilities sum to zero")
	}
	for i := range t.cdf {
		t.cdf[i] /= norm
	}
	for i := range t.p {
		t.p[i] /= norm
	}
	return t, nil
}

func (t *Tabular) Sample(rng *rand.Stream) float64 {
	xi := rng.Float64()
	for i := 1; i < len(t.cdf); i++ {
		if xi >= t.cdf[i] {
			continue
		}
		x0, p0, c0 := t.x[i-1], t.p[i-1], t.cdf[i-1]
		m := (t.p[i] - p0) / (t.x[i] - x0)
		if m == 0 {
			return x0 + (xi-c0)/p0
		}
		// Inverting the quadratic CDF segment.
		return x0 + (math.Sqrt(p0*p0+2*m*(xi-c0))-p0)/m
	}
	return t.x[len(t.x)-1]
}

// Maxwell samples energies from a Maxwell spectrum with nuclear temperature
// theta, p(E) dE ~ sqrt(E) exp(-E/theta).
type Maxwell struct {
	Theta float64
}

// NewMaxwell returns a Maxwell energy spectrum with temperature theta in eV.
func NewMaxwell(theta float64) (*Maxwell, error) {
	if theta <= 0 {
		return nil, fmt.Errorf("maxwell spectrum needs theta > 0, got %g", theta)
	}
	return &Maxwell{theta}, nil
}

func (d *Maxwell) Sample(rng *rand.Stream) float64 {
	return maxwellSample(d.Theta, rng)
}

// maxwellSample draws from a Maxwell spectrum using three uniform variates.
func maxwellSample(theta float64, rng *rand.Stream) float64 {
	r1, r2, r3 := rng.Float64(), rng.Float64(), rng.Float64()
	c := math.Cos(math.Pi / 2 * r3)
	return -theta * (math.Log(r1) + math.Log(r2)*c*c)
}

// Watt samples energies from a Watt fission spectrum,
// p(E) dE ~ exp(-E/a) sinh(sqrt(b E)).
type Watt struct {
	A, B float64
}

// NewWatt returns a Watt fission spectrum with parameters a in eV and b in
// 1/eV.
func NewWatt(a, b float64) (*Watt, error) {
	if a <= 0 || b <= 0 {
		return nil, fmt.Errorf(
			"watt spectrum needs positive parameters, got a=%g b=%g", a, b,
		)
	}
	return &Watt{a, b}, nil
}

func (d *Watt) Sample(rng *rand.Stream) float64 {
	// Sample a Maxwellian and shift it, per the standard sampling scheme.
	w := maxwellSample(d.A, rng)
	xi := rng.Float64()
	u := 2*xi - 1
	return w + d.A*d.A*d.B/4 + u*math.Sqrt(d.A*d.A*d.B*w)
}
