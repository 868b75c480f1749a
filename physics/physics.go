/*package physics supplies interaction data to the transport loop.

The in-repo implementation is multigroup: each material carries macroscopic
group constants, and collisions are sampled from the group cross sections.
Continuous-energy data stays behind the particle.DataProvider interface.
*/
package physics

import (
	"fmt"
	"math"

	"github.com/marquezj/openmc/geom"
	"github.com/marquezj/openmc/particle"
	"github.com/marquezj/openmc/rand"
)

// Reaction MT identifiers recorded in the particle's event metadata.
const (
	MTScatter = 2
	MTFission = 18
	MTCapture = 102
)

// Material is one material's macroscopic multigroup constants. Cross
// sections are per-group totals in 1/cm; Scatter[g][gp] is the g -> gp
// transfer cross section.
type Material struct {
	Name string

	Total   []float64
	Capture []float64
	Fission []float64
	Scatter [][]float64

	// Nu is the fission neutron yield per group.
	Nu []float64
	// Chi is the fission spectrum over outgoing groups.
	Chi []float64
	// DelayedFractions are the per-family delayed neutron fractions; their
	// sum is beta. At most particle.MaxDelayedGroups families.
	DelayedFractions []float64
}

// Validate checks that all group constants have consistent dimensions.
func (m *Material) Validate(groups int) error {
	if len(m.Total) != groups {
		return fmt.Errorf(
			"material '%s' has %d total cross sections for %d groups",
			m.Name, len(m.Total), groups,
		)
	}
	if len(m.Capture) != groups || len(m.Fission) != groups {
		return fmt.Errorf(
			"material '%s' needs %d capture and fission cross sections",
			m.Name, groups,
		)
	}
	if len(m.Scatter) != groups {
		return fmt.Errorf(
			"material '%s' has a %d-row scatter matrix for %d groups",
			m.Name, len(m.Scatter), groups,
		)
	}
	for g := range m.Scatter {
		if len(m.Scatter[g]) != groups {
			return fmt.Errorf(
				"material '%s' scatter row %d has %d entries for %d groups",
				m.Name, g, len(m.Scatter[g]), groups,
			)
		}
	}
	if len(m.Nu) != groups || len(m.Chi) != groups {
		return fmt.Errorf(
			"material '%s' needs %d nu and chi values", m.Name, groups,
		)
	}
	if len(m.DelayedFractions) > particle.MaxDelayedGroups {
		return fmt.Errorf(
			"material '%s' has %d delayed families, at most %d supported",
			m.Name, len(m.DelayedFractions), particle.MaxDelayedGroups,
		)
	}
	for g := 0; g < groups; g++ {
		scatter := 0.0
		for gp := 0; gp < groups; gp++ {
			scatter += m.Scatter[g][gp]
		}
		partial := m.Capture[g] + m.Fission[g] + scatter
		if partial > m.Total[g]*(1+1e-9) {
			return fmt.Errorf(
				"material '%s' group %d partial cross sections (%g) exceed "+
					"the total (%g)", m.Name, g, partial, m.Total[g],
			)
		}
	}
	return nil
}

// MultigroupData is a particle.DataProvider backed by multigroup material
// constants. It is immutable during transport and safe to share between
// workers.
type MultigroupData struct {
	Groups int
	// GroupBounds are the Groups+1 energy bin edges in eV, ascending.
	GroupBounds []float64
	Materials   []*Material

	// Survival biasing parameters. When WeightCutoff is zero the provider
	// runs in analog mode and absorption kills particles outright.
	WeightCutoff  float64
	WeightSurvive float64
}

// NewMultigroupData returns a provider over the given materials, validating
// every material against the group structure.
func NewMultigroupData(bounds []float64, mats []*Material) (*MultigroupData, error) {
	if len(bounds) < 2 {
		return nil, fmt.Errorf(
			"group structure needs at least two energy bounds, got %d",
			len(bounds),
		)
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return nil, fmt.Errorf(
				"group bounds must increase, bound %d (%g) <= bound %d (%g)",
				i, bounds[i], i-1, bounds[i-1],
			)
		}
	}

	d := &MultigroupData{
		Groups:      len(bounds) - 1,
		GroupBounds: append([]float64{}, bounds...),
		Materials:   mats,
	}
	for _, m := range mats {
		if err := m.Validate(d.Groups); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Group returns the group index containing the energy e, clamped to the
// group structure.
func (d *MultigroupData) Group(e float64) int {
	for g := 0; g < d.Groups; g++ {
		if e < d.GroupBounds[g+1] {
			return g
		}
	}
	return d.Groups - 1
}

// GroupEnergy returns the representative (midpoint) energy of a group.
func (d *MultigroupData) GroupEnergy(g int) float64 {
	return 0.5 * (d.GroupBounds[g] + d.GroupBounds[g+1])
}

func (d *MultigroupData) material(p *particle.Particle) (*Material, error) {
	if p.Material < 0 || p.Material >= len(d.Materials) {
		return nil, fmt.Errorf("no material with index %d", p.Material)
	}
	return d.Materials[p.Material], nil
}

// group resolves the particle's current group, deriving it from the
// continuous energy on first use.
func (d *MultigroupData) group(p *particle.Particle) int {
	if p.G < 0 {
		p.G = d.Group(p.E)
	}
	return p.G
}

// DistanceToCollision samples the free flight distance -ln(xi)/Sigma_t for
// the particle's current material and group.
func (d *MultigroupData) DistanceToCollision(p *particle.Particle, rng *rand.Stream) (float64, error) {
	m, err := d.material(p)
	if err != nil {
		return 0, err
	}
	g := d.group(p)

	total := m.Total[g]
	if total <= 0 {
		return math.Inf(1), nil
	}
	return -math.Log(rng.Float64()) / total, nil
}

// SampleReaction samples the collision outcome for the particle: capture,
// fission with secondary banking, or scattering with a group transfer, plus
// survival biasing when enabled.
func (d *MultigroupData) SampleReaction(p *particle.Particle, rng *rand.Stream) error {
	m, err := d.material(p)
	if err != nil {
		return err
	}
	g := d.group(p)

	total := m.Total[g]
	if total <= 0 {
		return fmt.Errorf(
			"material '%s' has no cross section in group %d", m.Name, g,
		)
	}

	p.EventNuclide = p.Material

	if err := d.sampleFission(p, m, g, rng); err != nil {
		return err
	}

	if d.WeightCutoff > 0 {
		return d.collideBiased(p, m, g, rng)
	}
	return d.collideAnalog(p, m, g, rng)
}

// sampleFission banks the expected fission secondaries for a collision in
// material m at group g. Banking happens for every collision in fissionable
// material, scaled by the fission fraction of the total cross section, so
// both the analog and biased collision paths share it.
func (d *MultigroupData) sampleFission(p *particle.Particle, m *Material, g int, rng *rand.Stream) error {
	if m.Fission[g] <= 0 {
		return nil
	}

	// Expected secondaries per collision.
	nu := m.Nu[g] * m.Fission[g] / m.Total[g]
	n := int(nu + rng.Float64())
	if n == 0 {
		return nil
	}

	p.Fission = true
	beta := 0.0
	for _, b := range m.DelayedFractions {
		beta += b
	}

	for i := 0; i < n; i++ {
		u := isotropic(rng)
		gOut := sampleIndex(m.Chi, rng)

		site, err := p.CreateSecondary(u, d.GroupEnergy(gOut), particle.Neutron)
		if err != nil {
			return err
		}
		site.G = gOut

		if beta > 0 && rng.Float64() < beta {
			dg := 1 + sampleIndex(m.DelayedFractions, rng)
			site.DelayedGroup = dg
			p.NDelayedBank[dg-1]++
		}
	}
	return nil
}

// collideAnalog samples the reaction channel directly from the cross
// section ratios; absorption kills the particle.
func (d *MultigroupData) collideAnalog(p *particle.Particle, m *Material, g int, rng *rand.Stream) error {
	xi := rng.Float64() * m.Total[g]

	if xi < m.Capture[g] {
		p.EventMT = MTCapture
		p.Event = particle.EventAbsorbed
		p.Alive = false
		return nil
	}
	xi -= m.Capture[g]

	if xi < m.Fission[g] {
		p.EventMT = MTFission
		p.Event = particle.EventAbsorbed
		p.Alive = false
		return nil
	}

	return d.scatter(p, m, g, rng)
}

// collideBiased removes the absorbed weight fraction instead of sampling
// absorption, always scatters, and plays Russian roulette below the weight
// cutoff.
func (d *MultigroupData) collideBiased(p *particle.Particle, m *Material, g int, rng *rand.Stream) error {
	absorb := (m.Capture[g] + m.Fission[g]) / m.Total[g]
	p.AbsorbWgt += p.Wgt * absorb
	p.Wgt *= 1 - absorb
	p.EventMT = MTCapture

	if err := d.scatter(p, m, g, rng); err != nil {
		return err
	}

	if p.Alive && p.Wgt < d.WeightCutoff {
		if rng.Float64() < p.Wgt/d.WeightSurvive {
			p.Wgt = d.WeightSurvive
		} else {
			p.Event = particle.EventAbsorbed
			p.Alive = false
			p.Wgt = 0
		}
	}
	return nil
}

// scatter samples the outgoing group from the transfer matrix row and picks
// an isotropic outgoing direction.
func (d *MultigroupData) scatter(p *particle.Particle, m *Material, g int, rng *rand.Stream) error {
	row := m.Scatter[g]
	norm := 0.0
	for _, x := range row {
		norm += x
	}
	if norm <= 0 {
		// Pure absorber: in biased mode the history cannot continue.
		p.EventMT = MTCapture
		p.Event = particle.EventAbsorbed
		p.Alive = false
		return nil
	}

	gOut := sampleIndex(row, rng)
	u := isotropic(rng)

	p.Mu = p.Coord[0].U.Dot(&u)
	for i := 0; i < p.NCoord; i++ {
		p.Coord[i].U = u
	}
	p.G = gOut
	p.E = d.GroupEnergy(gOut)
	p.EventMT = MTScatter
	return nil
}

// sampleIndex samples an index proportional to the given weights.
func sampleIndex(w []float64, rng *rand.Stream) int {
	norm := 0.0
	for _, x := range w {
		norm += x
	}
	xi := rng.Float64() * norm
	cum := 0.0
	for i, x := range w {
		cum += x
		if xi < cum {
			return i
		}
	}
	return len(w) - 1
}

// isotropic samples a direction uniformly over the unit sphere.
func isotropic(rng *rand.Stream) geom.Vec {
	mu := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	sin := math.Sqrt(1 - mu*mu)
	return geom.Vec{sin * math.Cos(phi), sin * math.Sin(phi), mu}
}
