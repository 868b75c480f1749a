package geom

// HalfSpace is one term of a cell's region: the side of a surface the cell
// lies on. Sense is true for the positive half space.
type HalfSpace struct {
	Surface Surface
	Sense   bool
}

// Cell is a region of space bounded by surface half spaces. A cell is filled
// either by a material, by another universe, or by a lattice; exactly one of
// those applies.
type Cell struct {
	ID int

	// Material is the material index for material-filled cells and -1
	// otherwise.
	Material int
	// SqrtKT is sqrt(k_Boltzmann * T) of the cell in eV.
	SqrtKT float64

	// Fill is non-nil for universe-filled cells.
	Fill *Universe
	// Lattice is non-nil for lattice-filled cells.
	Lattice *RectLattice

	Region []HalfSpace
}

// NewMaterialCell returns a cell filled with the given material index.
func NewMaterialCell(id, material int, sqrtKT float64, region []HalfSpace) *Cell {
	return &Cell{ID: id, Material: material, SqrtKT: sqrtKT, Region: region}
}

// NewFillCell returns a cell filled with another universe.
func NewFillCell(id int, fill *Universe, region []HalfSpace) *Cell {
	return &Cell{ID: id, Material: -1, Fill: fill, Region: region}
}

// NewLatticeCell returns a cell filled with a lattice.
func NewLatticeCell(id int, lat *RectLattice, region []HalfSpace) *Cell {
	return &Cell{ID: id, Material: -1, Lattice: lat, Region: region}
}

// Contains returns true if r lies inside the cell's region. Points within
// the coincidence tolerance of a bounding surface are resolved with the
// direction of travel u, so a particle sitting on a shared surface lands in
// the cell it is moving into.
func (c *Cell) Contains(r, u *Vec) bool {
	for i := range c.Region {
		h := &c.Region[i]
		f := h.Surface.Evaluate(r)

		if f > -Coincident && f < Coincident {
			var n Vec
			h.Surface.Normal(r, &n)
			f = u.Dot(&n)
		}

		if (f > 0) != h.Sense {
			return false
		}
	}
	return true
}

// DistanceToBoundary returns the distance from r along u to the nearest
// bounding surface of the cell, together with that surface. It returns
// Infinity and nil if no bounding surface lies ahead.
func (c *Cell) DistanceToBoundary(r, u *Vec) (float64, Surface) {
	min := Infinity
	var hit Surface

	for i := range c.Region {
		s := c.Region[i].Surface
		if d := s.Distance(r, u); d < min {
			min, hit = d, s
		}
	}
	return min, hit
}

// Universe is a collection of cells that fills all of space at one
// coordinate level.
type Universe struct {
	ID    int
	Cells []*Cell
}

// NewUniverse returns a universe with the given id and cells.
func NewUniverse(id int, cells ...*Cell) *Universe {
	return &Universe{ID: id, Cells: cells}
}

// FindCell returns the cell of the universe containing r, or nil if r is
// outside every cell.
func (un *Universe) FindCell(r, u *Vec) *Cell {
	for _, c := range un.Cells {
		if c.Contains(r, u) {
			return c
		}
	}
	return nil
}
