package geom

import (
	"math"
)

const (
	// Coincident is the tolerance below which a particle is considered to
	// sit exactly on a surface. Intersections closer than this are skipped
	// so a particle never re-crosses the surface it is sitting on.
	Coincident = 1e-12

	// TinyBit is the nudge applied across a surface after a crossing so
	// containment lookups land unambiguously on the far side.
	TinyBit = 1e-8
)

// Infinity marks the absence of a surface intersection along a ray.
var Infinity = math.Inf(1)

// BoundaryType selects what happens to a particle crossing a surface.
type BoundaryType int

const (
	// Transmission surfaces are interior cell boundaries.
	Transmission BoundaryType = iota
	// Vacuum surfaces terminate the particle as escaped.
	Vacuum
	// Reflective surfaces mirror the particle direction.
	Reflective
	// Periodic surfaces translate the particle to the partner surface.
	Periodic
)

func (b BoundaryType) String() string {
	switch b {
	case Transmission:
		return "transmission"
	case Vacuum:
		return "vacuum"
	case Reflective:
		return "reflective"
	case Periodic:
		return "periodic"
	}
	return "unknown"
}

// Surface is a quadric surface dividing space into a positive and a negative
// half space.
type Surface interface {
	// ID returns the user-assigned surface id.
	ID() int
	// Boundary returns the surface's boundary condition.
	Boundary() BoundaryType
	// Translation returns the displacement applied to a particle crossing
	// the surface. It is the zero vector except on periodic surfaces.
	Translation() *Vec

	// Evaluate returns the signed surface function at r.
	Evaluate(r *Vec) float64
	// Distance returns the distance along the unit direction u from r to
	// the surface, or Infinity if the ray never strikes it.
	Distance(r, u *Vec) float64
	// Normal places the unit normal of the surface at r in out, oriented
	// toward the positive half space.
	Normal(r, out *Vec)
}

// SurfaceBase carries the fields shared by all surface types.
type SurfaceBase struct {
	Id    int
	BC    BoundaryType
	Shift Vec
}

func (s *SurfaceBase) ID() int                { return s.Id }
func (s *SurfaceBase) Boundary() BoundaryType { return s.BC }
func (s *SurfaceBase) Translation() *Vec      { return &s.Shift }

// Plane is an axis-aligned plane, axis = 0, 1, or 2 for x, y, z.
type Plane struct {
	SurfaceBase
	Axis int
	Pos  float64
}

// NewPlane returns a plane normal to the given axis at the given position.
func NewPlane(id, axis int, pos float64, bc BoundaryType) *Plane {
	return &Plane{SurfaceBase{Id: id, BC: bc}, axis, pos}
}

func (s *Plane) Evaluate(r *Vec) float64 {
	return r[s.Axis] - s.Pos
}

func (s *Plane) Distance(r, u *Vec) float64 {
	f := s.Evaluate(r)
	if u[s.Axis] == 0 || math.Abs(f) < Coincident {
		return Infinity
	}
	d := -f / u[s.Axis]
	if d <= 0 {
		return Infinity
	}
	return d
}

func (s *Plane) Normal(r, out *Vec) {
	*out = Vec{}
	out[s.Axis] = 1
}

// Sphere is a sphere centered at C with radius R.
type Sphere struct {
	SurfaceBase
	C Vec
	R float64
}

// NewSphere returns a sphere with the given center and radius.
func NewSphere(id int, c Vec, r float64, bc BoundaryType) *Sphere {
	return &Sphere{SurfaceBase{Id: id, BC: bc}, c, r}
}

func (s *Sphere) Evaluate(r *Vec) float64 {
	var d Vec
	r.SubAt(&s.C, &d)
	return d.Dot(&d) - s.R*s.R
}

func (s *Sphere) Distance(r, u *Vec) float64 {
	var d Vec
	r.SubAt(&s.C, &d)
	b := d.Dot(u)
	c := d.Dot(&d) - s.R*s.R

	return quadraticDistance(b, c)
}

func (s *Sphere) Normal(r, out *Vec) {
	r.SubAt(&s.C, out)
	out.NormalizeSelf()
}

// ZCylinder is a cylinder parallel to the z axis.
type ZCylinder struct {
	SurfaceBase
	X0, Y0 float64
	R      float64
}

// NewZCylinder returns a z-axis cylinder through (x0, y0) with radius r.
func NewZCylinder(id int, x0, y0, r float64, bc BoundaryType) *ZCylinder {
	return &ZCylinder{SurfaceBase{Id: id, BC: bc}, x0, y0, r}
}

func (s *ZCylinder) Evaluate(r *Vec) float64 {
	dx, dy := r[0]-s.X0, r[1]-s.Y0
	return dx*dx + dy*dy - s.R*s.R
}

func (s *ZCylinder) Distance(r, u *Vec) float64 {
	dx, dy := r[0]-s.X0, r[1]-s.Y0
	a := u[0]*u[0] + u[1]*u[1]
	if a == 0 {
		return Infinity
	}
	// Rescale to a unit quadratic in the projected plane.
	b := (dx*u[0] + dy*u[1]) / a
	c := (dx*dx + dy*dy - s.R*s.R) / a

	d := quadraticDistance(b, c)
	if d == Infinity {
		return Infinity
	}
	return d
}

func (s *ZCylinder) Normal(r, out *Vec) {
	*out = Vec{r[0] - s.X0, r[1] - s.Y0, 0}
	out.NormalizeSelf()
}

// quadraticDistance returns the smallest positive root of
// d^2 + 2 b d + c = 0, or Infinity if none exists. Roots within the
// coincidence tolerance of zero are skipped.
func quadraticDistance(b, c float64) float64 {
	disc := b*b - c
	if disc < 0 {
		return Infinity
	}

	sq := math.Sqrt(disc)
	if math.Abs(c) < Coincident {
		// Sitting on the surface: the only meaningful root is the far one.
		if b < 0 {
			return -b + sq
		}
		return Infinity
	}
	if c < 0 {
		// Inside: one positive root.
		return -b + sq
	}
	// Outside: nearest root if the ray points toward the surface.
	d := -b - sq
	if d <= 0 {
		return Infinity
	}
	return d
}
