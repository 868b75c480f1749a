package geom

// MaxCoord bounds the depth of the coordinate stack. A model nested deeper
// than this is a configuration error.
const MaxCoord = 8

// Coord is one level of a particle's coordinate stack: the cell, universe,
// and lattice element the particle occupies at that nesting depth, along
// with the level-local position and direction.
type Coord struct {
	Cell     int
	Universe int
	Lattice  int

	LatX, LatY, LatZ int

	R, U Vec

	Rotated bool
}

// Reset clears a single coordinate level.
func (c *Coord) Reset() {
	c.Cell = -1
	c.Universe = -1
	c.Lattice = -1
	c.LatX, c.LatY, c.LatZ = -1, -1, -1
	c.R = Vec{}
	c.U = Vec{}
	c.Rotated = false
}

// Geometry is the full nested model: a root universe plus the registries
// of cells resolved during traversal. Geometry is immutable once built and
// safe for concurrent readers.
type Geometry struct {
	Root *Universe

	// cells maps the cell ids appearing in coordinate stacks back to cell
	// structs, for material and temperature lookups.
	cells map[int]*Cell
}

// NewGeometry returns a geometry rooted at the given universe.
func NewGeometry(root *Universe) *Geometry {
	g := &Geometry{Root: root, cells: make(map[int]*Cell)}
	g.register(root)
	return g
}

func (g *Geometry) register(un *Universe) {
	for _, c := range un.Cells {
		if _, ok := g.cells[c.ID]; ok {
			continue
		}
		g.cells[c.ID] = c

		if c.Fill != nil {
			g.register(c.Fill)
		}
		if c.Lattice != nil {
			seen := make(map[*Universe]bool)
			for _, fill := range c.Lattice.Fills {
				if fill != nil && !seen[fill] {
					seen[fill] = true
					g.register(fill)
				}
			}
			if c.Lattice.Outer != nil {
				g.register(c.Lattice.Outer)
			}
		}
	}
}

// Cell returns the cell with the given id, or nil.
func (g *Geometry) Cell(id int) *Cell {
	return g.cells[id]
}

// Locate resolves the global position r moving along u to a coordinate
// stack, outermost level first. It returns the stack depth and true on
// success, or 0 and false if r is outside the model or the nesting exceeds
// MaxCoord.
func (g *Geometry) Locate(r, u *Vec, stack []Coord) (n int, ok bool) {
	un := g.Root
	pos, dir := *r, *u

	for n = 0; n < len(stack) && n < MaxCoord; {
		lvl := &stack[n]
		lvl.Reset()
		lvl.Universe = un.ID
		lvl.R = pos
		lvl.U = dir

		cell := un.FindCell(&pos, &dir)
		if cell == nil {
			return 0, false
		}
		lvl.Cell = cell.ID
		n++

		switch {
		case cell.Fill != nil:
			un = cell.Fill
		case cell.Lattice != nil:
			lat := cell.Lattice
			x, y, z := lat.Element(&pos)
			fill := lat.FillAt(x, y, z)
			if fill == nil {
				return 0, false
			}
			if n >= len(stack) || n >= MaxCoord {
				return 0, false
			}

			var local Vec
			lat.LocalAt(&pos, x, y, z, &local)

			lvl = &stack[n]
			lvl.Reset()
			lvl.Lattice = lat.ID
			lvl.LatX, lvl.LatY, lvl.LatZ = x, y, z
			lvl.Universe = fill.ID
			lvl.R = local
			lvl.U = dir

			cell := fill.FindCell(&local, &dir)
			if cell == nil {
				return 0, false
			}
			lvl.Cell = cell.ID
			n++

			if cell.Fill != nil {
				un = cell.Fill
				pos = local
				continue
			}
			if cell.Lattice != nil {
				// Nested lattices would need another traversal round;
				// the model builder rejects them.
				return 0, false
			}
			return n, true
		default:
			return n, true
		}
	}
	return 0, false
}

// DistanceToBoundary returns the distance from the particle described by
// the coordinate stack to the nearest cell or lattice-element boundary
// along its direction, together with the surface that will be struck.
// A nil surface means the crossing is a lattice-element transition.
func (g *Geometry) DistanceToBoundary(stack []Coord, n int) (float64, Surface) {
	min := Infinity
	var hit Surface

	for i := 0; i < n; i++ {
		lvl := &stack[i]

		if lvl.Lattice != -1 {
			// Level-local position is element-local here.
			cell := g.cells[lvl.Cell]
			if lat := g.latticeOf(stack, i); lat != nil {
				if d := lat.DistanceToBoundary(&lvl.R, &lvl.U); d < min {
					min, hit = d, nil
				}
			}
			if cell != nil {
				if d, s := cell.DistanceToBoundary(&lvl.R, &lvl.U); d < min {
					min, hit = d, s
				}
			}
			continue
		}

		cell := g.cells[lvl.Cell]
		if cell == nil {
			continue
		}
		if d, s := cell.DistanceToBoundary(&lvl.R, &lvl.U); d < min {
			min, hit = d, s
		}
	}
	return min, hit
}

// latticeOf finds the lattice referenced by stack level i, via the lattice
// fill of the enclosing cell.
func (g *Geometry) latticeOf(stack []Coord, i int) *RectLattice {
	if i == 0 {
		return nil
	}
	parent := g.cells[stack[i-1].Cell]
	if parent == nil {
		return nil
	}
	return parent.Lattice
}
