/*package openmc transports particles through a constructive solid geometry
using multigroup Monte Carlo. The packages underneath provide the pieces:
geom the geometry, rand the reproducible random streams, dist the source
distributions, particle the transport loop, physics the interaction data,
and io the configuration format. This package assembles them into a model
and runs particle histories across workers.
*/
package openmc

import (
	"log"
	"runtime"

	"github.com/marquezj/openmc/dist"
	"github.com/marquezj/openmc/io"
	"github.com/marquezj/openmc/particle"
	"github.com/marquezj/openmc/rand"
)

// Tally accumulates per-history outcomes. Counts include secondary
// particles; weights are the statistical weights carried at termination.
type Tally struct {
	Transported int64
	Secondaries int64
	Escaped     int64
	Absorbed    int64
	Lost        int64

	Leakage    float64
	Absorption float64
}

// Add accumulates t2 into t.
func (t *Tally) Add(t2 *Tally) {
	t.Transported += t2.Transported
	t.Secondaries += t2.Secondaries
	t.Escaped += t2.Escaped
	t.Absorbed += t2.Absorbed
	t.Lost += t2.Lost
	t.Leakage += t2.Leakage
	t.Absorption += t2.Absorption
}

type Manager struct {
	model   *Model
	tracker *particle.LostTracker
	sink    *io.RestartWriter
	master  *rand.Stream

	// Source selection by relative strength.
	strengthCum []float64

	particles   int64
	generations int

	// io related things
	log bool
	ms  runtime.MemStats

	// workspaces
	workers    int
	workspaces []workspace
}

// workspace is the per-worker transport state. Each worker owns one
// particle that is reinitialized for every history, and a local stack for
// banked secondaries awaiting transport.
type workspace struct {
	p     particle.Particle
	stack []particle.Site

	tally Tally
	err   error
}

// NewManager assembles the model described by cfg and prepares one
// workspace per worker.
func NewManager(cfg *io.Config, logFlag bool) (*Manager, error) {
	man := new(Manager)
	man.log = logFlag

	model, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	man.model = model

	man.tracker = particle.NewLostTracker(
		cfg.Run.MaxLostParticles, cfg.Run.RelMaxLostParticles,
	)
	man.sink, err = io.NewRestartWriter(cfg.Run.RestartDir)
	if err != nil {
		return nil, err
	}

	man.master = rand.New(uint64(cfg.Run.Seed))
	man.particles = cfg.Run.Particles
	man.generations = cfg.Run.Generations

	man.strengthCum = make([]float64, len(model.Sources))
	sum := 0.0
	for i, src := range model.Sources {
		sum += src.Strength
		man.strengthCum[i] = sum
	}

	man.workers = cfg.Run.Workers
	if man.workers == 0 {
		man.workers = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(man.workers)
	man.workspaces = make([]workspace, man.workers)
	for i := range man.workspaces {
		man.workspaces[i].stack = make([]particle.Site, 0, particle.MaxSecondary)
	}

	if man.log {
		log.Printf(
			"Model: %d materials, %d sources. Number of workers: %d",
			len(model.MaterialNames), len(model.Sources), man.workers,
		)
	}

	return man, nil
}

func (man *Manager) Log(flag bool) { man.log = flag }

// Tracker exposes the shared lost particle budget, e.g. for reporting.
func (man *Manager) Tracker() *particle.LostTracker { return man.tracker }

// Run transports every generation and returns the accumulated tally. The
// returned error is run-fatal: the lost particle budget was exceeded.
func (man *Manager) Run() (*Tally, error) {
	total := &Tally{}
	for gen := 0; gen < man.generations; gen++ {
		t, err := man.RunGeneration(gen)
		total.Add(t)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// RunGeneration transports one generation of source particles across the
// workers. Histories are numbered so that history i of generation g always
// uses the same random stream regardless of worker count.
func (man *Manager) RunGeneration(gen int) (*Tally, error) {
	if man.log {
		log.Printf(
			"Transporting generation %d: %d particles", gen, man.particles,
		)
	}

	out := make(chan int, man.workers)

	for id := 0; id < man.workers-1; id++ {
		go man.chanTransport(id, gen, out)
	}
	id := man.workers - 1
	man.chanTransport(id, gen, out)

	tally := &Tally{}
	var err error
	for i := 0; i < man.workers; i++ {
		id := <-out
		w := &man.workspaces[id]
		tally.Add(&w.tally)
		if w.err != nil && err == nil {
			err = w.err
		}
	}

	if man.log {
		runtime.ReadMemStats(&man.ms)
		log.Printf(
			"Alloc: %5d MB, Sys: %5d MB",
			man.ms.Alloc>>20, man.ms.Sys>>20,
		)
	}
	return tally, err
}

// chanTransport runs the histories assigned to one worker. Workers take
// every workers'th history so assignment does not depend on timing.
func (man *Manager) chanTransport(id, gen int, out chan<- int) {
	w := &man.workspaces[id]
	w.tally = Tally{}
	w.err = nil

	for h := int64(id); h < man.particles; h += int64(man.workers) {
		historyID := int64(gen)*man.particles + h
		if err := man.transportHistory(w, historyID); err != nil {
			w.err = err
			break
		}
	}

	out <- id
}

// sampleSource picks a source by relative strength.
func (man *Manager) sampleSource(rng *rand.Stream) *dist.SourceDistribution {
	n := len(man.strengthCum)
	xi := rng.Float64() * man.strengthCum[n-1]
	for i, c := range man.strengthCum {
		if xi < c {
			return man.model.Sources[i]
		}
	}
	return man.model.Sources[n-1]
}

// transportHistory transports one source particle and all of its
// secondaries on the history's own random stream.
func (man *Manager) transportHistory(w *workspace, historyID int64) error {
	rng := man.master.ParticleStream(historyID)

	var site particle.Site
	man.sampleSource(rng).SampleSite(rng, &site)

	p := &w.p
	p.Initialize()
	p.ID = historyID
	p.RNG = rng
	p.FromSource(&site)

	w.stack = w.stack[:0]
	for {
		err := p.Transport(man.model.Geometry, man.model.Data, man.tracker, man.sink)
		man.recordOutcome(w, p)
		if err != nil {
			return err
		}

		for s := p.PopSecondary(); s != nil; s = p.PopSecondary() {
			w.stack = append(w.stack, *s)
		}
		if len(w.stack) == 0 {
			break
		}

		site = w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		p.Initialize()
		p.ID = historyID
		p.RNG = rng
		p.FromSource(&site)
		w.tally.Secondaries++
	}

	man.tracker.RecordProcessed()
	return nil
}

func (man *Manager) recordOutcome(w *workspace, p *particle.Particle) {
	w.tally.Transported++
	switch p.Event {
	case particle.EventEscaped:
		w.tally.Escaped++
		w.tally.Leakage += p.LastWgt
	case particle.EventAbsorbed:
		w.tally.Absorbed++
		if p.AbsorbWgt == 0 {
			w.tally.Absorption += p.LastWgt
		}
	case particle.EventLost:
		w.tally.Lost++
	}
	// Under survival biasing absorption is scored continuously instead of
	// at a terminal event.
	w.tally.Absorption += p.AbsorbWgt
}
