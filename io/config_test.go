package io

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

const exampleConfig = `[Run]
Particles = 1000
Seed = 17
Workers = 2
WeightCutoff = 0.25

[Data]
GroupBounds = 1e-5
GroupBounds = 1.0
GroupBounds = 2e7

[Material "fuel"]
Total = 2.0
Total = 1.0
Capture = 0.4
Capture = 0.1
Fission = 1.0
Fission = 0.3
Nu = 2.5
Nu = 2.5
Chi = 0.1
Chi = 0.9
ScatterRow = 0.5 0.1
ScatterRow = 0.2 0.4

[Source "center"]
SpaceType = point
SpaceParams = 0
SpaceParams = 0
SpaceParams = 0

[Surface "1"]
Type = sphere
Params = 0
Params = 0
Params = 0
Params = 10
Boundary = vacuum

[Cell "1"]
Universe = 0
Material = fuel
Region = -1
`

func writeConfig(t *testing.T, body string) string {
	dir, err := ioutil.TempDir("", "config_test")
	if err != nil {
		t.Fatal(err.Error())
	}
	fname := path.Join(dir, "run.ini")
	if err := ioutil.WriteFile(fname, []byte(body), 0644); err != nil {
		t.Fatal(err.Error())
	}
	return fname
}

func TestReadConfig(t *testing.T) {
	fname := writeConfig(t, exampleConfig)
	defer os.RemoveAll(path.Dir(fname))

	cfg, err := ReadConfig(fname)
	if err != nil {
		t.Fatal(err.Error())
	}

	assert.Equal(t, int64(1000), cfg.Run.Particles)
	assert.Equal(t, int64(17), cfg.Run.Seed)
	assert.Equal(t, 1, cfg.Run.Generations, "default generations")
	assert.Equal(t, 1.0, cfg.Run.WeightSurvive, "default survival weight")

	assert.Equal(t, []float64{1e-5, 1.0, 2e7}, cfg.Data.GroupBounds)

	fuel := cfg.Material["fuel"]
	if fuel == nil {
		t.Fatal("No 'fuel' material was read.")
	}
	assert.Equal(t, []float64{2.0, 1.0}, fuel.Total)
	assert.Equal(t, [][]float64{{0.5, 0.1}, {0.2, 0.4}}, fuel.ScatterMatrix())

	src := cfg.Source["center"]
	assert.Equal(t, "point", src.SpaceType)
	assert.Equal(t, 1.0, src.Strength, "default strength")

	surf := cfg.Surface["1"]
	assert.Equal(t, 1, surf.ID)
	assert.Equal(t, "vacuum", surf.Boundary)

	cell := cfg.Cell["1"]
	assert.Equal(t, 1, cell.ID)
	assert.Equal(t, []string{"-1"}, cell.Region)
}

func TestRunConfigValidation(t *testing.T) {
	c := &RunConfig{}
	assert.Error(t, c.CheckInit(), "no particle count")

	c = &RunConfig{Particles: 100, WeightCutoff: 0.5, WeightSurvive: 0.25}
	assert.Error(t, c.CheckInit(), "survive below cutoff")

	c = &RunConfig{Particles: 100, Generations: -1}
	assert.Error(t, c.CheckInit(), "negative generations")

	c = &RunConfig{Particles: 100}
	assert.NoError(t, c.CheckInit())
	assert.Equal(t, int64(1), c.Seed, "default seed")
}

func TestSourceConfigValidation(t *testing.T) {
	c := &SourceConfig{SpaceType: "box", SpaceParams: make([]float64, 5)}
	assert.Error(t, c.CheckInit("s"), "box with five parameters")

	c = &SourceConfig{SpaceType: "point", SpaceParams: make([]float64, 3)}
	assert.NoError(t, c.CheckInit("s"))

	c = &SourceConfig{SpaceType: "point", SpaceParams: make([]float64, 3),
		AngleType: "monodirectional"}
	assert.Error(t, c.CheckInit("s"), "no direction given")

	c = &SourceConfig{SpaceType: "point", SpaceParams: make([]float64, 3),
		AngleType: "polar-azimuthal"}
	assert.Error(t, c.CheckInit("s"), "no reference axis given")

	c = &SourceConfig{SpaceType: "point", SpaceParams: make([]float64, 3),
		AngleType: "polar-azimuthal", Direction: []float64{0, 0, 1},
		MuType: "delta", MuParams: []float64{0.3}}
	assert.NoError(t, c.CheckInit("s"))

	c = &SourceConfig{SpaceType: "point", SpaceParams: make([]float64, 3),
		EnergyType:   "tabular",
		EnergyParams: []float64{1e5, 0, 2e6, 1}}
	assert.NoError(t, c.CheckInit("s"))

	c = &SourceConfig{SpaceType: "warp"}
	assert.Error(t, c.CheckInit("s"), "unknown spatial type")
}

func TestSurfaceConfigValidation(t *testing.T) {
	c := &SurfaceConfig{Type: "sphere", Params: make([]float64, 4)}
	assert.NoError(t, c.CheckInit("3"))
	assert.Equal(t, 3, c.ID)

	c = &SurfaceConfig{Type: "sphere", Params: make([]float64, 2)}
	assert.Error(t, c.CheckInit("3"), "wrong parameter count")

	c = &SurfaceConfig{Type: "sphere", Params: make([]float64, 4)}
	assert.Error(t, c.CheckInit("outer"), "non-integer id")

	c = &SurfaceConfig{
		Type: "xplane", Params: []float64{1}, Boundary: "periodic",
	}
	assert.Error(t, c.CheckInit("4"), "periodic without translation")
}

func TestCellConfigValidation(t *testing.T) {
	c := &CellConfig{Material: "fuel", Region: []string{"-1", "+2"}}
	assert.NoError(t, c.CheckInit("5"))

	c = &CellConfig{Material: "fuel", Fill: 2}
	assert.Error(t, c.CheckInit("5"), "two fill kinds")

	c = &CellConfig{}
	assert.Error(t, c.CheckInit("5"), "no fill kind")

	c = &CellConfig{Material: "fuel", Region: []string{"1"}}
	assert.Error(t, c.CheckInit("5"), "unsigned region term")
}

func TestParseHalfSpace(t *testing.T) {
	id, positive, err := ParseHalfSpace("+12")
	assert.NoError(t, err)
	assert.Equal(t, 12, id)
	assert.True(t, positive)

	id, positive, err = ParseHalfSpace("-3")
	assert.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.False(t, positive)

	_, _, err = ParseHalfSpace("3")
	assert.Error(t, err)
	_, _, err = ParseHalfSpace("+x")
	assert.Error(t, err)
}

func TestParseFloats(t *testing.T) {
	vals, err := ParseFloats("0.5  1e6\t-2")
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1e6, -2}, vals)

	_, err = ParseFloats("1 two 3")
	assert.Error(t, err)
}
