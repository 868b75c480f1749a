package io

import (
	"encoding/binary"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/marquezj/openmc/particle"
)

// restartVersion is bumped whenever the record layout changes.
const restartVersion = 1

// RestartWriter writes one binary record per lost particle so that the
// offending history can be rerun in isolation. It implements
// particle.RestartSink and is safe for concurrent use.
type RestartWriter struct {
	dir string
	mu  sync.Mutex
}

// NewRestartWriter creates the target directory if needed. An empty dir
// disables writing.
func NewRestartWriter(dir string) (*RestartWriter, error) {
	if dir == "" {
		return &RestartWriter{}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &RestartWriter{dir: dir}, nil
}

// restartRecord is the fixed-size portion of a restart file. Everything
// needed to recreate the particle's source site and rerun its stream.
type restartRecord struct {
	Version      int64
	ID           int64
	Type         int64
	CellBorn     int64
	NCollision   int64
	EnergyLast   float64
	Weight       float64
	R, U         [3]float64
	RBorn, UBorn [3]float64
}

// WriteLostParticle writes the restart record for p. Records are written
// with little endian byte order, one file per particle.
func (w *RestartWriter) WriteLostParticle(p *particle.Particle) error {
	if w.dir == "" {
		return nil
	}

	rec := restartRecord{
		Version:    restartVersion,
		ID:         p.ID,
		Type:       int64(p.Type),
		CellBorn:   int64(p.CellBorn),
		NCollision: int64(p.NCollision),
		EnergyLast: p.LastE,
		Weight:     p.LastWgt,
		R:          p.LastRCurrent,
		U:          p.Coord[0].U,
		RBorn:      p.LastR,
		UBorn:      p.LastU,
	}

	fname := path.Join(w.dir, fmt.Sprintf("particle_%d.restart", p.ID))

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return binary.Write(f, binary.LittleEndian, &rec)
}

// ReadLostParticle reads a record written by WriteLostParticle and returns
// a source site that restarts the history at its birth point.
func ReadLostParticle(fname string) (*particle.Site, int64, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	rec := &restartRecord{}
	if err := binary.Read(f, binary.LittleEndian, rec); err != nil {
		return nil, 0, err
	}
	if rec.Version != restartVersion {
		return nil, 0, fmt.Errorf(
			"restart file '%s' has version %d, expected %d",
			fname, rec.Version, restartVersion,
		)
	}

	site := &particle.Site{
		R:    rec.RBorn,
		U:    rec.UBorn,
		E:    rec.EnergyLast,
		G:    -1,
		Wgt:  rec.Weight,
		Type: particle.Type(rec.Type),
	}
	return site, rec.ID, nil
}
