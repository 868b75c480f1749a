package dist

import (
	"fmt"
	"math"

	"github.com/marquezj/openmc/geom"
	"github.com/marquezj/openmc/rand"
)

// SpatialDistribution produces source positions given only a random stream.
type SpatialDistribution interface {
	Sample(rng *rand.Stream) geom.Vec
}

// CartesianIndependent samples x, y, and z from three independent
// distributions.
type CartesianIndependent struct {
	X, Y, Z Distribution
}

// NewCartesianIndependent returns a spatial distribution with independent
// axis distributions. A nil axis defaults to a fixed point at 0.
func NewCartesianIndependent(x, y, z Distribution) *CartesianIndependent {
	if x == nil {
		x = DeltaAt(0)
	}
	if y == nil {
		y = DeltaAt(0)
	}
	if z == nil {
		z = DeltaAt(0)
	}
	return &CartesianIndependent{x, y, z}
}

func (d *CartesianIndependent) Sample(rng *rand.Stream) geom.Vec {
	return geom.Vec{d.X.Sample(rng), d.Y.Sample(rng), d.Z.Sample(rng)}
}

// CylindricalIndependent samples r, theta, and z independently and maps
// them to Cartesian coordinates.
type CylindricalIndependent struct {
	R, Theta, Z Distribution
}

// NewCylindricalIndependent returns a spatial distribution with independent
// r, theta, and z distributions. A nil axis defaults to a fixed point at 0.
func NewCylindricalIndependent(r, theta, z Distribution) *CylindricalIndependent {
	if r == nil {
		r = DeltaAt(0)
	}
	if theta == nil {
		theta = DeltaAt(0)
	}
	if z == nil {
		z = DeltaAt(0)
	}
	return &CylindricalIndependent{r, theta, z}
}

func (d *CylindricalIndependent) Sample(rng *rand.Stream) geom.Vec {
	r := d.R.Sample(rng)
	theta := d.Theta.Sample(rng)
	return geom.Vec{r * math.Cos(theta), r * math.Sin(theta), d.Z.Sample(rng)}
}

// Box samples positions uniformly inside an axis-aligned box.
type Box struct {
	LowerLeft, UpperRight geom.Vec
}

// NewBox returns a uniform box source. params must hold exactly six values:
// the lower-left corner followed by the upper-right corner.
func NewBox(params []float64) (*Box, error) {
	if len(params) != 6 {
		return nil, fmt.Errorf(
			"box spatial source must have six parameters specified, got %d",
			len(params),
		)
	}
	return &Box{
		LowerLeft:  geom.Vec{params[0], params[1], params[2]},
		UpperRight: geom.Vec{params[3], params[4], params[5]},
	}, nil
}

func (d *Box) Sample(rng *rand.Stream) geom.Vec {
	var r geom.Vec
	for i := 0; i < 3; i++ {
		xi := rng.Float64()
		r[i] = d.LowerLeft[i] + xi*(d.UpperRight[i]-d.LowerLeft[i])
	}
	return r
}

// Point always returns one fixed position.
type Point struct {
	R geom.Vec
}

// NewPoint returns a point source. params must hold exactly three values.
func NewPoint(params []float64) (*Point, error) {
	if len(params) != 3 {
		return nil, fmt.Errorf(
			"point spatial source must have three parameters specified, got %d",
			len(params),
		)
	}
	return &Point{geom.Vec{params[0], params[1], params[2]}}, nil
}

func (d *Point) Sample(rng *rand.Stream) geom.Vec {
	return d.R
}
