package dist

import (
	"fmt"
	"math"

	"github.com/marquezj/openmc/geom"
	"github.com/marquezj/openmc/rand"
)

// AngularDistribution produces unit direction vectors.
type AngularDistribution interface {
	SampleDirection(rng *rand.Stream) geom.Vec
}

// Isotropic samples directions uniformly over the unit sphere.
type Isotropic struct{}

func (Isotropic) SampleDirection(rng *rand.Stream) geom.Vec {
	mu := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	sin := math.Sqrt(1 - mu*mu)
	return geom.Vec{sin * math.Cos(phi), sin * math.Sin(phi), mu}
}

// Monodirectional always returns one fixed direction.
type Monodirectional struct {
	U geom.Vec
}

// NewMonodirectional returns a fixed-direction distribution. The reference
// direction must be nonzero; it is normalized at construction.
func NewMonodirectional(u geom.Vec) (*Monodirectional, error) {
	if u.Norm() == 0 {
		return nil, fmt.Errorf("monodirectional source needs a nonzero direction")
	}
	u.NormalizeSelf()
	return &Monodirectional{u}, nil
}

func (d *Monodirectional) SampleDirection(rng *rand.Stream) geom.Vec {
	return d.U
}

// PolarAzimuthal samples the polar cosine and azimuthal angle about a
// reference axis from independent distributions.
type PolarAzimuthal struct {
	Mu, Phi Distribution
	Axis    geom.Vec
}

// NewPolarAzimuthal returns an angular distribution about the given
// reference axis. A nil mu or phi defaults to isotropic behavior on that
// angle.
func NewPolarAzimuthal(mu, phi Distribution, axis geom.Vec) (*PolarAzimuthal, error) {
	if axis.Norm() == 0 {
		return nil, fmt.Errorf("polar-azimuthal source needs a nonzero reference axis")
	}
	axis.NormalizeSelf()
	if mu == nil {
		u, _ := NewUniform(-1, 1)
		mu = u
	}
	if phi == nil {
		u, _ := NewUniform(0, 2*math.Pi)
		phi = u
	}
	return &PolarAzimuthal{mu, phi, axis}, nil
}

func (d *PolarAzimuthal) SampleDirection(rng *rand.Stream) geom.Vec {
	mu := d.Mu.Sample(rng)
	phi := d.Phi.Sample(rng)
	if mu > 1 {
		mu = 1
	} else if mu < -1 {
		mu = -1
	}
	return RotateAngle(&d.Axis, mu, phi)
}

// RotateAngle returns the direction at polar cosine mu and azimuthal angle
// phi relative to the unit reference direction u.
func RotateAngle(u *geom.Vec, mu, phi float64) geom.Vec {
	sin := math.Sqrt(1 - mu*mu)
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	// Need a frame perpendicular to u; guard the polar singularity.
	a := math.Sqrt(1 - u[2]*u[2])
	if a < 1e-10 {
		sign := 1.0
		if u[2] < 0 {
			sign = -1
		}
		return geom.Vec{sign * sin * cosPhi, sign * sin * sinPhi, sign * mu}
	}

	return geom.Vec{
		mu*u[0] + sin*(u[0]*u[2]*cosPhi-u[1]*sinPhi)/a,
		mu*u[1] + sin*(u[1]*u[2]*cosPhi+u[0]*sinPhi)/a,
		mu*u[2] - sin*a*cosPhi,
	}
}
