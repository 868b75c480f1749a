package particle

import (
	"errors"
	"fmt"
	"log"

	"github.com/marquezj/openmc/geom"
	"github.com/marquezj/openmc/rand"
)

// ErrBankFull is returned by CreateSecondary when the secondary bank is at
// capacity. It indicates a configuration or physics-model error and must
// abort the run.
var ErrBankFull = errors.New("secondary bank capacity exceeded")

// maxZeroSteps is the number of consecutive boundary crossings with no
// spatial progress tolerated before a particle is declared lost.
const maxZeroSteps = 5

// Geometry is the containment and boundary-distance collaborator consumed
// by the transport loop.
type Geometry interface {
	// Locate resolves a global position and direction to a coordinate
	// stack, outermost level first, returning the depth and whether the
	// position is inside the model.
	Locate(r, u *geom.Vec, stack []geom.Coord) (n int, ok bool)
	// DistanceToBoundary returns the distance to the nearest surface or
	// lattice-element boundary along the stack's direction, and the
	// surface struck (nil for lattice transitions).
	DistanceToBoundary(stack []geom.Coord, n int) (float64, geom.Surface)
	// Cell maps a cell id from a coordinate stack to its cell.
	Cell(id int) *geom.Cell
}

// DataProvider supplies physical interaction data. Implementations mutate
// the particle when sampling a reaction: energy, direction, weight, event
// metadata, and possibly the secondary bank.
type DataProvider interface {
	DistanceToCollision(p *Particle, rng *rand.Stream) (float64, error)
	SampleReaction(p *Particle, rng *rand.Stream) error
}

// RestartSink receives the state of lost particles so an external
// collaborator can persist restart records. A nil sink discards them.
type RestartSink interface {
	WriteLostParticle(p *Particle) error
}

// ErrTooManyLostParticles is the run-level failure returned once the lost
// particle budget is exceeded.
var ErrTooManyLostParticles = errors.New("too many lost particles")

// Transport drives the particle from its current state to a terminal one:
// escaped, absorbed (or otherwise killed), or lost. Particle-local failures
// are contained here; the only error returned is the run-fatal lost-budget
// overrun.
func (p *Particle) Transport(geo Geometry, data DataProvider, tracker *LostTracker, sink RestartSink) error {
	p.tracker = tracker
	p.sink = sink

	// Source particles enter with only a top-level position; resolve the
	// full coordinate stack before the first flight.
	if p.Alive && p.NCoord <= 1 {
		if !p.relocate(geo) {
			p.MarkAsLost(fmt.Sprintf(
				"could not find cell containing source particle %d", p.ID,
			))
			return p.checkAbort()
		}
		p.CellBorn = p.Coord[p.NCoord-1].Cell
	}

	events := 0
	for p.Alive {
		events++
		if events > MaxEvents {
			p.MarkAsLost(fmt.Sprintf(
				"particle %d exceeded %d events", p.ID, MaxEvents,
			))
			break
		}

		dColl, err := data.DistanceToCollision(p, p.RNG)
		if err != nil {
			p.MarkAsLost(fmt.Sprintf(
				"no interaction data for particle %d: %v", p.ID, err,
			))
			break
		}

		dBound, surf := geo.DistanceToBoundary(p.Coord[:], p.NCoord)

		if dBound < dColl {
			if dBound < geom.Coincident {
				p.zeroSteps++
				if p.zeroSteps >= maxZeroSteps {
					p.MarkAsLost(fmt.Sprintf(
						"particle %d stuck at a boundary", p.ID,
					))
					break
				}
			} else {
				p.zeroSteps = 0
			}

			p.advance(dBound)
			p.boundary = surf
			p.CrossSurface(geo)
		} else {
			p.zeroSteps = 0
			p.advance(dColl)
			p.collide(data)
		}
	}

	return p.checkAbort()
}

// advance moves the particle the given distance along its direction at
// every coordinate level, recording the previous top-level coordinates.
func (p *Particle) advance(d float64) {
	p.LastR = p.Coord[0].R
	p.LastU = p.Coord[0].U

	for i := 0; i < p.NCoord; i++ {
		lvl := &p.Coord[i]
		lvl.R.TranslateSelf(&lvl.U, d)
	}
}

// CrossSurface handles the boundary crossing pending for the particle:
// boundary conditions on the struck surface, escape through the outermost
// boundary, and re-resolution of the coordinate stack on interior and
// lattice crossings. It is exposed separately so geometry-boundary tally
// hooks can observe each crossing.
func (p *Particle) CrossSurface(geo Geometry) {
	surf := p.boundary
	p.Event = EventSurfaceCross

	p.LastNCoord = p.NCoord
	for i := 0; i < p.NCoord; i++ {
		p.LastCell[i] = p.Coord[i].Cell
	}

	r := &p.Coord[0].R
	u := &p.Coord[0].U

	if surf != nil {
		p.Surface = surf.ID()

		switch surf.Boundary() {
		case geom.Vacuum:
			p.Event = EventEscaped
			p.Alive = false
			// The weight carried through the boundary is what leakage
			// tallies score; keep it after the particle dies.
			p.LastWgt = p.Wgt
			p.Wgt = 0
			return

		case geom.Reflective:
			var n geom.Vec
			surf.Normal(r, &n)
			u.ReflectSelf(&n)
			p.LastU = *u
			p.LastRCurrent = *r

		case geom.Periodic:
			r.AddSelf(surf.Translation())
			p.LastRCurrent = *r
		}
	}

	r.TranslateSelf(u, geom.TinyBit)
	if !p.relocate(geo) {
		p.MarkAsLost(fmt.Sprintf(
			"particle %d could not be located after crossing surface %d",
			p.ID, p.Surface,
		))
	}
}

// relocate rebuilds the coordinate stack from the top-level position and
// direction and refreshes the material context. It returns false if the
// particle is outside the model.
func (p *Particle) relocate(geo Geometry) bool {
	r := p.Coord[0].R
	u := p.Coord[0].U

	n, ok := geo.Locate(&r, &u, p.Coord[:])
	if !ok {
		return false
	}
	p.NCoord = n

	cell := geo.Cell(p.Coord[n-1].Cell)
	if cell == nil || cell.Material < 0 {
		return false
	}

	p.LastMaterial = p.Material
	p.Material = cell.Material
	p.LastSqrtKT = p.SqrtKT
	p.SqrtKT = cell.SqrtKT
	return true
}

// collide dispatches a collision at the particle's current position.
func (p *Particle) collide(data DataProvider) {
	p.Event = EventCollision
	p.LastWgt = p.Wgt
	p.LastE = p.E
	p.LastG = p.G
	p.NCollision++
	p.LastRCurrent = p.Coord[0].R

	if err := data.SampleReaction(p, p.RNG); err != nil {
		p.MarkAsLost(fmt.Sprintf(
			"reaction sampling failed for particle %d: %v", p.ID, err,
		))
		return
	}

	// Collisions happen at a point; lower coordinate levels keep their
	// positions but every level must share the post-collision direction.
	for i := 1; i < p.NCoord; i++ {
		p.Coord[i].U = p.Coord[0].U
	}
}

// MarkAsLost terminates the particle as lost, emits its restart record
// through the sink, and counts it against the shared lost-particle budget.
// Other subsystems may call this on a particle they hold, e.g. when a data
// lookup fails.
func (p *Particle) MarkAsLost(message string) {
	log.Printf("WARNING: %s", message)

	p.Alive = false
	p.Wgt = 0
	p.Event = EventLost
	p.lostReason = message

	if p.sink != nil {
		if err := p.sink.WriteLostParticle(p); err != nil {
			log.Printf("WARNING: could not write lost particle record: %v", err)
		}
	}
	if p.tracker != nil {
		p.tracker.RecordLost()
	}
}

// LostReason returns the diagnostic message of a lost particle.
func (p *Particle) LostReason() string {
	return p.lostReason
}

// checkAbort converts a lost-budget overrun into the run-fatal error.
func (p *Particle) checkAbort() error {
	if p.Event == EventLost && p.tracker != nil && p.tracker.ShouldAbort() {
		return fmt.Errorf(
			"%w: %d lost out of %d processed",
			ErrTooManyLostParticles, p.tracker.Lost(), p.tracker.Total(),
		)
	}
	return nil
}
