package openmc

import (
	"fmt"
	"sort"

	"github.com/marquezj/openmc/dist"
	"github.com/marquezj/openmc/geom"
	"github.com/marquezj/openmc/io"
	"github.com/marquezj/openmc/physics"
)

// RootUniverse is the id of the universe the coordinate search starts in.
const RootUniverse = 0

// Model is the fully assembled simulation state: everything the transport
// loop consumes, built once from a validated configuration.
type Model struct {
	Geometry *geom.Geometry
	Data     *physics.MultigroupData
	Sources  []*dist.SourceDistribution

	// MaterialNames maps material indices back to their config names.
	MaterialNames []string
}

// NewModel assembles the geometry, interaction data, and source
// distributions described by cfg. cfg must already be validated by its
// CheckInit methods.
func NewModel(cfg *io.Config) (*Model, error) {
	m := &Model{}

	mats, names, err := setupMaterials(cfg)
	if err != nil {
		return nil, err
	}
	m.MaterialNames = names

	m.Data, err = physics.NewMultigroupData(cfg.Data.GroupBounds, mats)
	if err != nil {
		return nil, err
	}
	m.Data.WeightCutoff = cfg.Run.WeightCutoff
	m.Data.WeightSurvive = cfg.Run.WeightSurvive

	m.Geometry, err = setupGeometry(cfg, names)
	if err != nil {
		return nil, err
	}

	m.Sources, err = setupSources(cfg)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// setupMaterials builds the material set in name order, so that material
// indices are stable across runs.
func setupMaterials(cfg *io.Config) ([]*physics.Material, []string, error) {
	names := make([]string, 0, len(cfg.Material))
	for name := range cfg.Material {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := len(cfg.Data.GroupBounds) - 1
	mats := make([]*physics.Material, len(names))

	for i, name := range names {
		mc := cfg.Material[name]

		if mc.TableFile != "" {
			m, err := physics.ReadMaterialTable(name, mc.TableFile, groups)
			if err != nil {
				return nil, nil, err
			}
			m.DelayedFractions = mc.DelayedFraction
			mats[i] = m
			continue
		}

		mats[i] = &physics.Material{
			Name:             name,
			Total:            mc.Total,
			Capture:          mc.Capture,
			Fission:          mc.Fission,
			Nu:               mc.Nu,
			Chi:              mc.Chi,
			Scatter:          mc.ScatterMatrix(),
			DelayedFractions: mc.DelayedFraction,
		}
	}
	return mats, names, nil
}

func materialIndex(names []string, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("Unknown material '%s'.", name)
}

func boundaryType(s string) geom.BoundaryType {
	switch s {
	case "vacuum":
		return geom.Vacuum
	case "reflective":
		return geom.Reflective
	case "periodic":
		return geom.Periodic
	}
	return geom.Transmission
}

func setupSurface(sc *io.SurfaceConfig) (geom.Surface, error) {
	bc := boundaryType(sc.Boundary)
	p := sc.Params

	var surf geom.Surface
	switch sc.Type {
	case "xplane":
		surf = geom.NewPlane(sc.ID, 0, p[0], bc)
	case "yplane":
		surf = geom.NewPlane(sc.ID, 1, p[0], bc)
	case "zplane":
		surf = geom.NewPlane(sc.ID, 2, p[0], bc)
	case "sphere":
		surf = geom.NewSphere(sc.ID, geom.Vec{p[0], p[1], p[2]}, p[3], bc)
	case "zcylinder":
		surf = geom.NewZCylinder(sc.ID, p[0], p[1], p[2], bc)
	default:
		return nil, fmt.Errorf("Unknown surface type '%s'.", sc.Type)
	}

	if bc == geom.Periodic {
		t := sc.Translation
		*surf.Translation() = geom.Vec{t[0], t[1], t[2]}
	}
	return surf, nil
}

// setupGeometry builds every surface, cell, lattice, and universe, then
// roots the geometry at universe 0.
func setupGeometry(cfg *io.Config, matNames []string) (*geom.Geometry, error) {
	surfaces := make(map[int]geom.Surface)
	for _, sc := range cfg.Surface {
		surf, err := setupSurface(sc)
		if err != nil {
			return nil, err
		}
		if _, ok := surfaces[sc.ID]; ok {
			return nil, fmt.Errorf("Surface id %d used twice.", sc.ID)
		}
		surfaces[sc.ID] = surf
	}

	// Universes are created on first reference so cells, fills, and
	// lattices can point at them before their own cells are attached.
	universes := make(map[int]*geom.Universe)
	universe := func(id int) *geom.Universe {
		if u, ok := universes[id]; ok {
			return u
		}
		u := geom.NewUniverse(id)
		universes[id] = u
		return u
	}

	lattices := make(map[string]*geom.RectLattice)
	for name, lc := range cfg.Lattice {
		lat := geom.NewRectLattice(
			len(lattices),
			geom.Vec{lc.Origin[0], lc.Origin[1], lc.Origin[2]},
			geom.Vec{lc.Pitch[0], lc.Pitch[1], lc.Pitch[2]},
			[3]int{lc.Dims[0], lc.Dims[1], lc.Dims[2]},
		)
		lat.SetAllFills(universe(lc.Fill))
		if lc.Outer != 0 {
			lat.Outer = universe(lc.Outer)
		}
		lattices[name] = lat
	}

	cellIDs := make(map[int]bool)
	for _, cc := range cfg.Cell {
		if cellIDs[cc.ID] {
			return nil, fmt.Errorf("Cell id %d used twice.", cc.ID)
		}
		cellIDs[cc.ID] = true

		region := make([]geom.HalfSpace, len(cc.Region))
		for i, term := range cc.Region {
			id, positive, err := io.ParseHalfSpace(term)
			if err != nil {
				return nil, err
			}
			surf, ok := surfaces[id]
			if !ok {
				return nil, fmt.Errorf(
					"Cell %d references unknown surface %d.", cc.ID, id,
				)
			}
			region[i] = geom.HalfSpace{Surface: surf, Sense: positive}
		}

		var cell *geom.Cell
		switch {
		case cc.Material != "":
			mi, err := materialIndex(matNames, cc.Material)
			if err != nil {
				return nil, err
			}
			cell = geom.NewMaterialCell(cc.ID, mi, cc.SqrtKT, region)
		case cc.Lattice != "":
			lat, ok := lattices[cc.Lattice]
			if !ok {
				return nil, fmt.Errorf(
					"Cell %d references unknown lattice '%s'.", cc.ID, cc.Lattice,
				)
			}
			cell = geom.NewLatticeCell(cc.ID, lat, region)
		default:
			cell = geom.NewFillCell(cc.ID, universe(cc.Fill), region)
		}

		u := universe(cc.Universe)
		u.Cells = append(u.Cells, cell)
	}

	root, ok := universes[RootUniverse]
	if !ok {
		return nil, fmt.Errorf(
			"No cell belongs to the root universe (universe %d).", RootUniverse,
		)
	}
	for id, u := range universes {
		if len(u.Cells) == 0 {
			return nil, fmt.Errorf("Universe %d is referenced but has no cells.", id)
		}
	}
	return geom.NewGeometry(root), nil
}

// setupDistribution builds a one dimensional distribution. Discrete and
// tabular parameters are (value, probability) pairs in order.
func setupDistribution(typ string, params []float64) (dist.Distribution, error) {
	switch typ {
	case "", "delta":
		x := 0.0
		if len(params) > 1 {
			return nil, fmt.Errorf(
				"A delta distribution takes one parameter, got %d.", len(params),
			)
		} else if len(params) == 1 {
			x = params[0]
		}
		return dist.DeltaAt(x), nil

	case "uniform":
		if len(params) != 2 {
			return nil, fmt.Errorf(
				"A uniform distribution takes two parameters, got %d.",
				len(params),
			)
		}
		return dist.NewUniform(params[0], params[1])

	case "maxwell":
		if len(params) != 1 {
			return nil, fmt.Errorf(
				"A maxwell distribution takes one parameter, got %d.",
				len(params),
			)
		}
		return dist.NewMaxwell(params[0])

	case "watt":
		if len(params) == 0 {
			return dist.NewWatt(dist.DefaultWattA, dist.DefaultWattB)
		}
		if len(params) != 2 {
			return nil, fmt.Errorf(
				"A watt distribution takes two parameters, got %d.", len(params),
			)
		}
		return dist.NewWatt(params[0], params[1])

	case "discrete", "tabular":
		if len(params) == 0 || len(params)%2 != 0 {
			return nil, fmt.Errorf(
				"A %s distribution takes (value, probability) pairs, got %d "+
					"parameters.", typ, len(params),
			)
		}
		n := len(params) / 2
		x, p := make([]float64, n), make([]float64, n)
		for i := 0; i < n; i++ {
			x[i], p[i] = params[2*i], params[2*i+1]
		}
		if typ == "discrete" {
			return dist.NewDiscrete(x, p)
		}
		return dist.NewTabular(x, p)
	}
	return nil, fmt.Errorf("Unknown distribution type '%s'.", typ)
}

func setupSpace(sc *io.SourceConfig) (dist.SpatialDistribution, error) {
	switch sc.SpaceType {
	case "box":
		return dist.NewBox(sc.SpaceParams)
	case "point":
		return dist.NewPoint(sc.SpaceParams)

	case "cartesian":
		x, err := setupDistribution(sc.XType, sc.XParams)
		if err != nil {
			return nil, err
		}
		y, err := setupDistribution(sc.YType, sc.YParams)
		if err != nil {
			return nil, err
		}
		z, err := setupDistribution(sc.ZType, sc.ZParams)
		if err != nil {
			return nil, err
		}
		return dist.NewCartesianIndependent(x, y, z), nil

	case "cylindrical":
		r, err := setupDistribution(sc.RType, sc.RParams)
		if err != nil {
			return nil, err
		}
		theta, err := setupDistribution(sc.ThetaType, sc.ThetaParams)
		if err != nil {
			return nil, err
		}
		z, err := setupDistribution(sc.ZType, sc.ZParams)
		if err != nil {
			return nil, err
		}
		return dist.NewCylindricalIndependent(r, theta, z), nil
	}
	return nil, fmt.Errorf("Unknown spatial type '%s'.", sc.SpaceType)
}

// setupAngle builds the source's angular distribution. A nil return means
// the default isotropic source.
func setupAngle(sc *io.SourceConfig) (dist.AngularDistribution, error) {
	switch sc.AngleType {
	case "monodirectional":
		d := sc.Direction
		return dist.NewMonodirectional(geom.Vec{d[0], d[1], d[2]})

	case "polar-azimuthal":
		var mu, phi dist.Distribution
		var err error
		if sc.MuType != "" {
			if mu, err = setupDistribution(sc.MuType, sc.MuParams); err != nil {
				return nil, err
			}
		}
		if sc.PhiType != "" {
			if phi, err = setupDistribution(sc.PhiType, sc.PhiParams); err != nil {
				return nil, err
			}
		}
		d := sc.Direction
		return dist.NewPolarAzimuthal(mu, phi, geom.Vec{d[0], d[1], d[2]})
	}
	return nil, nil
}

func setupSources(cfg *io.Config) ([]*dist.SourceDistribution, error) {
	names := make([]string, 0, len(cfg.Source))
	for name := range cfg.Source {
		names = append(names, name)
	}
	sort.Strings(names)

	srcs := make([]*dist.SourceDistribution, len(names))
	for i, name := range names {
		sc := cfg.Source[name]

		space, err := setupSpace(sc)
		if err != nil {
			return nil, fmt.Errorf("Source '%s': %v", name, err)
		}

		angle, err := setupAngle(sc)
		if err != nil {
			return nil, fmt.Errorf("Source '%s': %v", name, err)
		}

		var energy dist.Distribution
		if sc.EnergyType != "" {
			energy, err = setupDistribution(sc.EnergyType, sc.EnergyParams)
			if err != nil {
				return nil, fmt.Errorf("Source '%s': %v", name, err)
			}
		}

		src := dist.NewSourceDistribution(space, angle, energy)
		src.Strength = sc.Strength
		srcs[i] = src
	}
	return srcs, nil
}
