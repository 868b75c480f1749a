/*package particle implements the state of individual particles and the
transport loop that drives them from birth to death.

A Particle is exclusively owned by one worker for its whole life. All of its
buffers, including the secondary bank and the coordinate stack, are fixed
capacity arrays embedded in the struct, so transporting a particle performs
no allocation.
*/
package particle

import (
	"github.com/marquezj/openmc/geom"
	"github.com/marquezj/openmc/rand"
)

const (
	// MaxDelayedGroups bounds the number of delayed neutron precursor
	// families a data library may carry.
	MaxDelayedGroups = 8

	// MaxSecondary is the capacity of the per-particle secondary bank.
	// Filling it indicates a broken physics model, not a full buffer to
	// grow, and is surfaced as a hard error.
	MaxSecondary = 1000

	// MaxEvents bounds the number of events in one particle history so
	// transport terminates even in pathological geometry.
	MaxEvents = 1000000
)

// Type tags the physical species of a particle.
type Type int

const (
	Neutron Type = iota
	Photon
	Electron
	Positron
)

func (t Type) String() string {
	switch t {
	case Neutron:
		return "neutron"
	case Photon:
		return "photon"
	case Electron:
		return "electron"
	case Positron:
		return "positron"
	}
	return "unknown"
}

// Event tags what happened to a particle at its most recent state
// transition.
type Event int

const (
	EventBorn Event = iota
	EventCollision
	EventSurfaceCross
	EventEscaped
	EventAbsorbed
	EventLost
)

func (e Event) String() string {
	switch e {
	case EventBorn:
		return "born"
	case EventCollision:
		return "collision"
	case EventSurfaceCross:
		return "surface crossing"
	case EventEscaped:
		return "escaped"
	case EventAbsorbed:
		return "absorbed"
	case EventLost:
		return "lost"
	}
	return "unknown"
}

// Site is one banked source or secondary particle: everything needed to
// start a new history.
type Site struct {
	R, U geom.Vec
	E    float64
	G    int
	Wgt  float64

	DelayedGroup int
	Type         Type
}

// Particle is the full mutable state of one in-flight particle.
type Particle struct {
	ID   int64
	Type Type

	// Coordinate stack, outermost level first. NCoord levels are active.
	NCoord int
	Coord  [geom.MaxCoord]geom.Coord

	// Coordinates before the most recent surface crossing.
	LastNCoord int
	LastCell   [geom.MaxCoord]int

	// Energy in eV, and energy group for multigroup data.
	E, LastE float64
	G, LastG int

	Wgt, LastWgt float64
	Mu           float64
	Alive        bool

	// Position of the last collision or reflective/periodic crossing, and
	// the previous position and direction.
	LastRCurrent geom.Vec
	LastR, LastU geom.Vec

	// Weight removed by survival biasing instead of absorption.
	AbsorbWgt float64

	Fission      bool
	Event        Event
	EventNuclide int
	EventMT      int
	DelayedGroup int

	// Secondary production ledger.
	NBank        int
	WgtBank      float64
	NDelayedBank [MaxDelayedGroups]int

	Surface                int
	CellBorn               int
	Material, LastMaterial int
	SqrtKT, LastSqrtKT     float64

	NCollision int
	WriteTrack bool

	// RNG is the particle's private random stream.
	RNG *rand.Stream

	nSecondary    int
	secondaryBank [MaxSecondary]Site

	// Collaborators wired in by Transport so MarkAsLost can be called from
	// any subsystem holding the particle.
	tracker *LostTracker
	sink    RestartSink

	// Crossing bookkeeping maintained by the transport loop.
	boundary   geom.Surface
	zeroSteps  int
	lostReason string
}

// Initialize sets the default attributes of a particle: alive, unit weight,
// cleared coordinate and bank state.
func (p *Particle) Initialize() {
	p.NCoord = 1
	p.LastNCoord = 1
	for i := range p.Coord {
		p.Coord[i].Reset()
	}
	for i := range p.LastCell {
		p.LastCell[i] = -1
	}

	p.E, p.LastE = 0, 0
	p.G, p.LastG = -1, -1
	p.Wgt, p.LastWgt = 1, 1
	p.Mu = 0
	p.Alive = true

	p.LastRCurrent = geom.Vec{}
	p.LastR = geom.Vec{}
	p.LastU = geom.Vec{}
	p.AbsorbWgt = 0

	p.Fission = false
	p.Event = EventBorn
	p.EventNuclide = -1
	p.EventMT = -1
	p.DelayedGroup = 0

	p.NBank = 0
	p.WgtBank = 0
	for i := range p.NDelayedBank {
		p.NDelayedBank[i] = 0
	}

	p.Surface = -1
	p.CellBorn = -1
	p.Material, p.LastMaterial = -1, -1
	p.SqrtKT, p.LastSqrtKT = 0, 0

	p.NCollision = 0
	p.WriteTrack = false

	p.nSecondary = 0
	p.boundary = nil
	p.zeroSteps = 0
	p.lostReason = ""
}

// FromSource initializes the particle from a banked source site. The site
// may come from an external source distribution, from fission, or from the
// secondary bank of another particle.
func (p *Particle) FromSource(src *Site) {
	p.Type = src.Type
	p.Wgt = src.Wgt
	p.LastWgt = src.Wgt
	p.E = src.E
	p.LastE = src.E
	p.G = src.G
	p.LastG = src.G
	p.DelayedGroup = src.DelayedGroup

	p.NCoord = 1
	p.Coord[0].Reset()
	p.Coord[0].R = src.R
	p.Coord[0].U = src.U
	p.LastR = src.R
	p.LastU = src.U
	p.LastRCurrent = src.R
}

// NSecondary returns the number of sites currently banked.
func (p *Particle) NSecondary() int {
	return p.nSecondary
}

// Secondary returns the i'th banked site.
func (p *Particle) Secondary(i int) *Site {
	return &p.secondaryBank[i]
}

// PopSecondary removes and returns the most recently banked site, or nil if
// the bank is empty.
func (p *Particle) PopSecondary() *Site {
	if p.nSecondary == 0 {
		return nil
	}
	p.nSecondary--
	return &p.secondaryBank[p.nSecondary]
}

// CreateSecondary banks a secondary particle with the given direction,
// energy, and type. The site inherits the parent's position and statistical
// weight. The returned site may be annotated further (group, delayed group)
// by the caller. Exceeding the bank capacity is a hard error: the cap is
// sized generously and hitting it means the physics model is broken.
func (p *Particle) CreateSecondary(u geom.Vec, e float64, t Type) (*Site, error) {
	if p.nSecondary >= MaxSecondary {
		return nil, ErrBankFull
	}

	site := &p.secondaryBank[p.nSecondary]
	p.nSecondary++

	site.R = p.Coord[0].R
	site.U = u
	site.E = e
	site.G = p.G
	site.Wgt = p.Wgt
	site.DelayedGroup = 0
	site.Type = t

	p.NBank++
	p.WgtBank += site.Wgt

	return site, nil
}
