package geom

import (
	"math"
)

// RectLattice is a rectangular lattice of universes. Elements are stored in
// a flat slice indexed x-fastest, and reasoned over as a 3D grid.
type RectLattice struct {
	ID     int
	Origin Vec
	Pitch  Vec
	Dims   [3]int

	Length, Area, Volume int

	// Fills holds the fill universe of each element in flat order.
	Fills []*Universe
	// Outer fills space outside the lattice dimensions; it may be nil, in
	// which case leaving the lattice bounds loses the particle.
	Outer *Universe
}

// NewRectLattice returns an empty lattice with the given element counts,
// lower-left origin, and per-axis pitch.
func NewRectLattice(id int, origin, pitch Vec, dims [3]int) *RectLattice {
	lat := &RectLattice{}
	lat.Init(id, origin, pitch, dims)
	return lat
}

// Init initializes a RectLattice instance.
func (lat *RectLattice) Init(id int, origin, pitch Vec, dims [3]int) {
	lat.ID = id
	lat.Origin = origin
	lat.Pitch = pitch
	lat.Dims = dims

	lat.Length = dims[0]
	lat.Area = dims[0] * dims[1]
	lat.Volume = dims[0] * dims[1] * dims[2]

	lat.Fills = make([]*Universe, lat.Volume)
}

// Idx returns the flat element index corresponding to a set of lattice
// coordinates.
func (lat *RectLattice) Idx(x, y, z int) int {
	return x + y*lat.Length + z*lat.Area
}

// Coords returns the x, y, z lattice coordinates of an element from its
// flat index.
func (lat *RectLattice) Coords(idx int) (x, y, z int) {
	x = idx % lat.Length
	y = (idx % lat.Area) / lat.Length
	z = idx / lat.Area
	return x, y, z
}

// BoundsCheck returns true if the given lattice coordinates are within the
// lattice dimensions.
func (lat *RectLattice) BoundsCheck(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 &&
		x < lat.Dims[0] && y < lat.Dims[1] && z < lat.Dims[2]
}

// Element returns the lattice coordinates of the element containing r.
// The coordinates may be out of bounds; callers resolve those against
// BoundsCheck and Outer.
func (lat *RectLattice) Element(r *Vec) (x, y, z int) {
	x = int(math.Floor((r[0] - lat.Origin[0]) / lat.Pitch[0]))
	y = int(math.Floor((r[1] - lat.Origin[1]) / lat.Pitch[1]))
	z = int(math.Floor((r[2] - lat.Origin[2]) / lat.Pitch[2]))
	return x, y, z
}

// FillAt returns the universe filling the element at the given lattice
// coordinates, falling back to Outer outside the lattice bounds. It returns
// nil when the particle is outside the lattice and no outer universe exists.
func (lat *RectLattice) FillAt(x, y, z int) *Universe {
	if !lat.BoundsCheck(x, y, z) {
		return lat.Outer
	}
	return lat.Fills[lat.Idx(x, y, z)]
}

// SetFill assigns the fill universe of one element.
func (lat *RectLattice) SetFill(x, y, z int, un *Universe) {
	lat.Fills[lat.Idx(x, y, z)] = un
}

// SetAllFills assigns the same fill universe to every element.
func (lat *RectLattice) SetAllFills(un *Universe) {
	for i := range lat.Fills {
		lat.Fills[i] = un
	}
}

// LocalAt places the position of r relative to the center of element
// (x, y, z) in out. Universes filling lattice elements are defined about
// the element center.
func (lat *RectLattice) LocalAt(r *Vec, x, y, z int, out *Vec) {
	out[0] = r[0] - lat.Origin[0] - (float64(x)+0.5)*lat.Pitch[0]
	out[1] = r[1] - lat.Origin[1] - (float64(y)+0.5)*lat.Pitch[1]
	out[2] = r[2] - lat.Origin[2] - (float64(z)+0.5)*lat.Pitch[2]
}

// DistanceToBoundary returns the distance along u from the element-local
// position r to the boundary of the lattice element. Element boundaries are
// interior transmission surfaces; crossing one only re-resolves the
// coordinate stack.
func (lat *RectLattice) DistanceToBoundary(r, u *Vec) float64 {
	min := Infinity
	for d := 0; d < 3; d++ {
		half := 0.5 * lat.Pitch[d]
		if u[d] > 0 {
			dist := (half - r[d]) / u[d]
			if dist < min {
				min = dist
			}
		} else if u[d] < 0 {
			dist := (-half - r[d]) / u[d]
			if dist < min {
				min = dist
			}
		}
	}
	if min < 0 {
		min = 0
	}
	return min
}
