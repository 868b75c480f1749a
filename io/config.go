/*package io reads simulation configuration files and writes lost-particle
restart records.

Configuration is INI-style, read with gcfg. Every config struct has a
CheckInit method that validates it and fills in defaults; validation
failures are configuration errors and abort the run before any particle
work is scheduled.
*/
package io

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"
)

// RunConfig is the [Run] section: how many particles to transport and how.
type RunConfig struct {
	// Required
	Particles int64

	// Optional
	Generations         int
	Seed                int64
	Workers             int
	MaxLostParticles    int64
	RelMaxLostParticles float64
	WeightCutoff        float64
	WeightSurvive       float64
	LogFile             string
	ProfileFile         string
	RestartDir          string
}

func (c *RunConfig) CheckInit() error {
	if c.Particles <= 0 {
		return fmt.Errorf(
			"Need to specify a positive number of Particles in [Run], got %d.",
			c.Particles,
		)
	}
	if c.Generations == 0 {
		c.Generations = 1
	} else if c.Generations < 0 {
		return fmt.Errorf("Generations must be positive, but is %d.", c.Generations)
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.Workers < 0 {
		return fmt.Errorf("Workers must not be negative, but is %d.", c.Workers)
	}
	if c.MaxLostParticles < 0 || c.RelMaxLostParticles < 0 {
		return fmt.Errorf("The lost particle budget must not be negative.")
	}
	if c.WeightCutoff < 0 {
		return fmt.Errorf("WeightCutoff must not be negative, but is %g.", c.WeightCutoff)
	}
	if c.WeightCutoff > 0 && c.WeightSurvive == 0 {
		c.WeightSurvive = 1
	}
	if c.WeightSurvive < c.WeightCutoff {
		return fmt.Errorf(
			"WeightSurvive (%g) must not be smaller than WeightCutoff (%g).",
			c.WeightSurvive, c.WeightCutoff,
		)
	}
	return nil
}

// DataConfig is the [Data] section: the energy group structure.
type DataConfig struct {
	// Required: Groups+1 ascending energy bounds in eV, one per line.
	GroupBounds []float64
}

func (c *DataConfig) CheckInit() error {
	if len(c.GroupBounds) < 2 {
		return fmt.Errorf(
			"Need at least two GroupBounds in [Data], got %d.",
			len(c.GroupBounds),
		)
	}
	for i := 1; i < len(c.GroupBounds); i++ {
		if c.GroupBounds[i] <= c.GroupBounds[i-1] {
			return fmt.Errorf(
				"GroupBounds must increase, but bound %d (%g) <= bound %d (%g).",
				i, c.GroupBounds[i], i-1, c.GroupBounds[i-1],
			)
		}
	}
	return nil
}

// MaterialConfig is a [Material "name"] section. Group constants come
// either from TableFile or inline, one value per line, with the scatter
// matrix as one whitespace-separated row per ScatterRow line.
type MaterialConfig struct {
	TableFile string

	Total      []float64
	Capture    []float64
	Fission    []float64
	Nu         []float64
	Chi        []float64
	ScatterRow []string

	DelayedFraction []float64

	Name string
}

func (c *MaterialConfig) CheckInit(name string, groups int) error {
	c.Name = name
	if c.TableFile != "" {
		if len(c.Total) != 0 || len(c.ScatterRow) != 0 {
			return fmt.Errorf(
				"Material '%s' specifies both TableFile and inline cross "+
					"sections.", name,
			)
		}
		return nil
	}

	if len(c.Total) != groups || len(c.Capture) != groups ||
		len(c.Fission) != groups {
		return fmt.Errorf(
			"Material '%s' needs %d Total, Capture, and Fission values.",
			name, groups,
		)
	}
	if len(c.Nu) != groups || len(c.Chi) != groups {
		return fmt.Errorf("Material '%s' needs %d Nu and Chi values.", name, groups)
	}
	if len(c.ScatterRow) != groups {
		return fmt.Errorf(
			"Material '%s' needs %d ScatterRow lines, got %d.",
			name, groups, len(c.ScatterRow),
		)
	}
	for g, row := range c.ScatterRow {
		vals, err := ParseFloats(row)
		if err != nil {
			return fmt.Errorf("Material '%s' ScatterRow %d: %v", name, g, err)
		}
		if len(vals) != groups {
			return fmt.Errorf(
				"Material '%s' ScatterRow %d has %d entries for %d groups.",
				name, g, len(vals), groups,
			)
		}
	}
	return nil
}

// ScatterMatrix parses the inline scatter rows.
func (c *MaterialConfig) ScatterMatrix() [][]float64 {
	rows := make([][]float64, len(c.ScatterRow))
	for g, row := range c.ScatterRow {
		rows[g], _ = ParseFloats(row)
	}
	return rows
}

// SourceConfig is a [Source "name"] section. SpaceType selects the spatial
// variant; cartesian and cylindrical take per-axis sub-distributions, and
// any axis left out defaults to a fixed point at 0.
type SourceConfig struct {
	// Required
	SpaceType string

	// Box and point sources.
	SpaceParams []float64

	// Per-axis sub-distributions for cartesian and cylindrical sources.
	XType, YType, ZType  string
	XParams              []float64
	YParams              []float64
	ZParams              []float64
	RType, ThetaType     string
	RParams, ThetaParams []float64

	// Optional
	AngleType    string
	Direction    []float64
	MuType       string
	MuParams     []float64
	PhiType      string
	PhiParams    []float64
	EnergyType   string
	EnergyParams []float64
	Strength     float64

	Name string
}

func (c *SourceConfig) CheckInit(name string) error {
	c.Name = name

	switch c.SpaceType {
	case "box":
		if len(c.SpaceParams) != 6 {
			return fmt.Errorf(
				"Box spatial source '%s' must have six parameters specified, "+
					"got %d.", name, len(c.SpaceParams),
			)
		}
	case "point":
		if len(c.SpaceParams) != 3 {
			return fmt.Errorf(
				"Point spatial source '%s' must have three parameters "+
					"specified, got %d.", name, len(c.SpaceParams),
			)
		}
	case "cartesian", "cylindrical":
		if len(c.SpaceParams) != 0 {
			return fmt.Errorf(
				"Source '%s' with SpaceType %s takes per-axis parameters, "+
					"not SpaceParams.", name, c.SpaceType,
			)
		}
	case "":
		return fmt.Errorf("Need to specify a SpaceType for Source '%s'.", name)
	default:
		return fmt.Errorf(
			"Unknown SpaceType '%s' for Source '%s'.", c.SpaceType, name,
		)
	}

	switch c.AngleType {
	case "", "isotropic":
	case "monodirectional":
		if len(c.Direction) != 3 {
			return fmt.Errorf(
				"Monodirectional Source '%s' needs a three component "+
					"Direction.", name,
			)
		}
	case "polar-azimuthal":
		if len(c.Direction) != 3 {
			return fmt.Errorf(
				"Polar-azimuthal Source '%s' needs a three component "+
					"Direction for its reference axis.", name,
			)
		}
	default:
		return fmt.Errorf(
			"Unknown AngleType '%s' for Source '%s'.", c.AngleType, name,
		)
	}

	switch c.EnergyType {
	case "", "delta", "watt", "maxwell", "uniform", "discrete", "tabular":
	default:
		return fmt.Errorf(
			"Unknown EnergyType '%s' for Source '%s'.", c.EnergyType, name,
		)
	}

	if c.Strength == 0 {
		c.Strength = 1
	} else if c.Strength < 0 {
		return fmt.Errorf("Source '%s' given a negative Strength, %g.", name, c.Strength)
	}
	return nil
}

// SurfaceConfig is a [Surface "id"] section.
type SurfaceConfig struct {
	// Required
	Type   string
	Params []float64

	// Optional
	Boundary    string
	Translation []float64

	ID int
}

func (c *SurfaceConfig) CheckInit(name string) error {
	id, err := strconv.Atoi(name)
	if err != nil {
		return fmt.Errorf("Surface section name '%s' must be an integer id.", name)
	}
	c.ID = id

	wantParams := map[string]int{
		"xplane": 1, "yplane": 1, "zplane": 1, "sphere": 4, "zcylinder": 3,
	}
	n, ok := wantParams[c.Type]
	if !ok {
		return fmt.Errorf("Unknown Type '%s' for Surface %d.", c.Type, id)
	}
	if len(c.Params) != n {
		return fmt.Errorf(
			"Surface %d of type %s needs %d Params, got %d.",
			id, c.Type, n, len(c.Params),
		)
	}

	switch c.Boundary {
	case "", "transmission", "vacuum", "reflective":
	case "periodic":
		if len(c.Translation) != 3 {
			return fmt.Errorf(
				"Periodic Surface %d needs a three component Translation.", id,
			)
		}
	default:
		return fmt.Errorf(
			"Unknown Boundary '%s' for Surface %d.", c.Boundary, id,
		)
	}
	return nil
}

// CellConfig is a [Cell "id"] section. A cell belongs to one universe and
// is filled by exactly one of a material, a fill universe, or a lattice.
type CellConfig struct {
	// Required
	Universe int
	Region   []string

	// Exactly one of these
	Material string
	Fill     int
	Lattice  string

	// Optional
	SqrtKT float64

	ID int
}

func (c *CellConfig) CheckInit(name string) error {
	id, err := strconv.Atoi(name)
	if err != nil {
		return fmt.Errorf("Cell section name '%s' must be an integer id.", name)
	}
	c.ID = id

	fills := 0
	if c.Material != "" {
		fills++
	}
	if c.Fill != 0 {
		fills++
	}
	if c.Lattice != "" {
		fills++
	}
	if fills != 1 {
		return fmt.Errorf(
			"Cell %d must have exactly one of Material, Fill, and Lattice.", id,
		)
	}

	for _, term := range c.Region {
		if _, _, err := ParseHalfSpace(term); err != nil {
			return fmt.Errorf("Cell %d: %v", id, err)
		}
	}
	return nil
}

// LatticeConfig is a [Lattice "name"] section.
type LatticeConfig struct {
	// Required
	Origin []float64
	Pitch  []float64
	Dims   []int
	Fill   int

	// Optional
	Outer int

	Name string
}

func (c *LatticeConfig) CheckInit(name string) error {
	c.Name = name
	if len(c.Origin) != 3 || len(c.Pitch) != 3 || len(c.Dims) != 3 {
		return fmt.Errorf(
			"Lattice '%s' needs three component Origin, Pitch, and Dims.", name,
		)
	}
	for d := 0; d < 3; d++ {
		if c.Pitch[d] <= 0 {
			return fmt.Errorf(
				"Lattice '%s' needs a positive Pitch, got %g.", name, c.Pitch[d],
			)
		}
		if c.Dims[d] <= 0 {
			return fmt.Errorf(
				"Lattice '%s' needs positive Dims, got %d.", name, c.Dims[d],
			)
		}
	}
	return nil
}

// Config is the full configuration file.
type Config struct {
	Run      RunConfig
	Data     DataConfig
	Material map[string]*MaterialConfig
	Source   map[string]*SourceConfig
	Surface  map[string]*SurfaceConfig
	Cell     map[string]*CellConfig
	Lattice  map[string]*LatticeConfig
}

// ReadConfig reads and validates a configuration file.
func ReadConfig(fname string) (*Config, error) {
	cfg := &Config{}
	if err := gcfg.ReadFileInto(cfg, fname); err != nil {
		return nil, err
	}
	return cfg, cfg.CheckInit()
}

// CheckInit validates every section of the configuration.
func (cfg *Config) CheckInit() error {
	if err := cfg.Run.CheckInit(); err != nil {
		return err
	}
	if err := cfg.Data.CheckInit(); err != nil {
		return err
	}

	groups := len(cfg.Data.GroupBounds) - 1
	for name, m := range cfg.Material {
		if err := m.CheckInit(name, groups); err != nil {
			return err
		}
	}
	if len(cfg.Material) == 0 {
		return fmt.Errorf("Need at least one [Material] section.")
	}

	for name, s := range cfg.Source {
		if err := s.CheckInit(name); err != nil {
			return err
		}
	}
	if len(cfg.Source) == 0 {
		return fmt.Errorf("Need at least one [Source] section.")
	}

	for name, s := range cfg.Surface {
		if err := s.CheckInit(name); err != nil {
			return err
		}
	}
	for name, c := range cfg.Cell {
		if err := c.CheckInit(name); err != nil {
			return err
		}
	}
	for name, l := range cfg.Lattice {
		if err := l.CheckInit(name); err != nil {
			return err
		}
	}
	if len(cfg.Surface) == 0 || len(cfg.Cell) == 0 {
		return fmt.Errorf("Need at least one [Surface] and one [Cell] section.")
	}
	return nil
}

// ParseFloats parses a whitespace-separated list of numbers.
func ParseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number '%s'", f)
		}
		vals[i] = v
	}
	return vals, nil
}

// ParseHalfSpace parses one region term like "-3" or "+12" into a surface
// id and a sense.
func ParseHalfSpace(term string) (id int, positive bool, err error) {
	if len(term) < 2 || (term[0] != '+' && term[0] != '-') {
		return 0, false, fmt.Errorf(
			"region term '%s' must be a signed surface id", term,
		)
	}
	id, err = strconv.Atoi(term[1:])
	if err != nil {
		return 0, false, fmt.Errorf(
			"region term '%s' must be a signed surface id", term,
		)
	}
	return id, term[0] == '+', nil
}
