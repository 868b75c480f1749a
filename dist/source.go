package dist

import (
	"github.com/marquezj/openmc/particle"
	"github.com/marquezj/openmc/rand"
)

// Default Watt fission spectrum parameters for an external neutron source,
// in eV and 1/eV.
const (
	DefaultWattA = 0.988e6
	DefaultWattB = 2.249e-6
)

// SourceDistribution is an external particle source: independent spatial,
// angular, and energy distributions plus a relative strength.
type SourceDistribution struct {
	Space    SpatialDistribution
	Angle    AngularDistribution
	Energy   Distribution
	Type     particle.Type
	Strength float64
}

// NewSourceDistribution returns a source with the given sub-distributions.
// A nil angle defaults to isotropic, a nil energy to the Watt fission
// spectrum, and a non-positive strength to 1.
func NewSourceDistribution(space SpatialDistribution, angle AngularDistribution, energy Distribution) *SourceDistribution {
	if angle == nil {
		angle = Isotropic{}
	}
	if energy == nil {
		energy, _ = NewWatt(DefaultWattA, DefaultWattB)
	}
	return &SourceDistribution{
		Space:    space,
		Angle:    angle,
		Energy:   energy,
		Type:     particle.Neutron,
		Strength: 1,
	}
}

// SampleSite fills a source site with a position, direction, and energy
// drawn from the source's sub-distributions. Source particles are born with
// unit statistical weight.
func (s *SourceDistribution) SampleSite(rng *rand.Stream, site *particle.Site) {
	site.R = s.Space.Sample(rng)
	site.U = s.Angle.SampleDirection(rng)
	site.E = s.Energy.Sample(rng)
	site.G = -1
	site.Wgt = 1
	site.DelayedGroup = 0
	site.Type = s.Type
}
