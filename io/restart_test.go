package io

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marquezj/openmc/geom"
	"github.com/marquezj/openmc/particle"
)

func TestRestartRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "restart_test")
	if err != nil {
		t.Fatal(err.Error())
	}
	defer os.RemoveAll(dir)

	w, err := NewRestartWriter(dir)
	if err != nil {
		t.Fatal(err.Error())
	}

	p := &particle.Particle{}
	p.Initialize()
	p.ID = 42
	p.FromSource(&particle.Site{
		R: geom.Vec{1, 2, 3}, U: geom.Vec{0, 0, 1},
		E: 1e6, G: -1, Wgt: 0.5, Type: particle.Neutron,
	})

	if err := w.WriteLostParticle(p); err != nil {
		t.Fatal(err.Error())
	}

	site, id, err := ReadLostParticle(path.Join(dir, "particle_42.restart"))
	if err != nil {
		t.Fatal(err.Error())
	}

	assert.Equal(t, int64(42), id)
	assert.Equal(t, geom.Vec{1, 2, 3}, site.R)
	assert.Equal(t, geom.Vec{0, 0, 1}, site.U)
	assert.Equal(t, 1e6, site.E)
	assert.Equal(t, 0.5, site.Wgt)
	assert.Equal(t, particle.Neutron, site.Type)
}

func TestRestartWriterDisabled(t *testing.T) {
	w, err := NewRestartWriter("")
	if err != nil {
		t.Fatal(err.Error())
	}

	p := &particle.Particle{}
	p.Initialize()
	assert.NoError(t, w.WriteLostParticle(p))
}
