/*package geom contains the constructive solid geometry that particles are
transported through: vectors, surfaces with boundary conditions, cells,
universes, rectangular lattices, and the traversal queries used by the
transport loop.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional position or direction vector.
type Vec [3]float64

// AddSelf adds u to v in place.
func (v *Vec) AddSelf(u *Vec) *Vec {
	v[0] += u[0]
	v[1] += u[1]
	v[2] += u[2]
	return v
}

// SubSelf subtracts u from v in place.
func (v *Vec) SubSelf(u *Vec) *Vec {
	v[0] -= u[0]
	v[1] -= u[1]
	v[2] -= u[2]
	return v
}

// ScaleSelf multiplies v by k in place.
func (v *Vec) ScaleSelf(k float64) *Vec {
	v[0] *= k
	v[1] *= k
	v[2] *= k
	return v
}

// AddAt places v + u at out.
func (v *Vec) AddAt(u, out *Vec) *Vec {
	out[0] = v[0] + u[0]
	out[1] = v[1] + u[1]
	out[2] = v[2] + u[2]
	return out
}

// SubAt places v - u at out.
func (v *Vec) SubAt(u, out *Vec) *Vec {
	out[0] = v[0] - u[0]
	out[1] = v[1] - u[1]
	out[2] = v[2] - u[2]
	return out
}

// ScaleAt places k*v at out.
func (v *Vec) ScaleAt(k float64, out *Vec) *Vec {
	out[0] = v[0] * k
	out[1] = v[1] * k
	out[2] = v[2] * k
	return out
}

// Dot returns the inner product of v and u.
func (v *Vec) Dot(u *Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Norm returns the Euclidean length of v.
func (v *Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// NormalizeSelf rescales v to unit length in place.
func (v *Vec) NormalizeSelf() *Vec {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.ScaleSelf(1 / n)
}

// ReflectSelf reflects v about the plane with unit normal n in place,
// v -> v - 2 (v . n) n.
func (v *Vec) ReflectSelf(n *Vec) *Vec {
	k := 2 * v.Dot(n)
	v[0] -= k * n[0]
	v[1] -= k * n[1]
	v[2] -= k * n[2]
	return v
}

// TranslateSelf advances v a distance d along the unit direction u.
func (v *Vec) TranslateSelf(u *Vec, d float64) *Vec {
	v[0] += d * u[0]
	v[1] += d * u[1]
	v[2] += d * u[2]
	return v
}
