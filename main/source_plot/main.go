/*source_plot samples sites from the sources in a configuration file and
plots their positions and energy spectrum. It is a quick sanity check that
a source term is what its author intended before burning cycles on it.
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"path"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/marquezj/openmc"
	"github.com/marquezj/openmc/io"
	"github.com/marquezj/openmc/particle"
	"github.com/marquezj/openmc/rand"
)

const energyBins = 50

func main() {
	var (
		configFile, plotDir string
		samples             int
	)

	flag.StringVar(
		&configFile, "Config", "",
		"Simulation configuration file.",
	)
	flag.StringVar(
		&plotDir, "PlotDir", ".",
		"Directory the plots are written to.",
	)
	flag.IntVar(
		&samples, "Samples", 10000,
		"Number of sites to sample per source.",
	)

	flag.Parse()

	if configFile == "" {
		log.Fatal("No 'Config' flag has been set.")
	}

	cfg, err := io.ReadConfig(configFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	model, err := openmc.NewModel(cfg)
	if err != nil {
		log.Fatal(err.Error())
	}

	rng := rand.New(uint64(cfg.Run.Seed))

	for i, src := range model.Sources {
		xs := make([]float64, samples)
		ys := make([]float64, samples)
		es := make([]float64, samples)

		site := &particle.Site{}
		for j := 0; j < samples; j++ {
			src.SampleSite(rng, site)
			xs[j] = site.R[0]
			ys[j] = site.R[1]
			es[j] = site.E
		}

		plotPositions(xs, ys, i, plotDir)
		plotSpectrum(es, i, plotDir)
	}

	plt.Execute()
}

func plotPositions(xs, ys []float64, i int, dir string) {
	fname := path.Join(dir, fmt.Sprintf("source_%d_sites.png", i))

	plt.Figure(plt.FigSize(8, 8))
	plt.Plot(xs, ys, "ow")
	plt.Title(fmt.Sprintf("Source %d sites", i))
	plt.XLabel(`$x$ [cm]`, plt.FontSize(16))
	plt.YLabel(`$y$ [cm]`, plt.FontSize(16))
	plt.SaveFig(fname)
}

// plotSpectrum bins sampled energies logarithmically and plots the
// resulting spectrum.
func plotSpectrum(es []float64, i int, dir string) {
	fname := path.Join(dir, fmt.Sprintf("source_%d_spectrum.png", i))

	low, high := es[0], es[0]
	for _, e := range es {
		if e < low {
			low = e
		}
		if e > high {
			high = e
		}
	}
	if low <= 0 || low == high {
		log.Printf("Source %d energies span [%g, %g], skipping spectrum.",
			i, low, high)
		return
	}

	lnLow, lnHigh := math.Log(low), math.Log(high)
	dln := (lnHigh - lnLow) / energyBins

	counts := make([]float64, energyBins)
	centers := make([]float64, energyBins)
	for b := range centers {
		centers[b] = math.Exp(lnLow + dln*(float64(b)+0.5))
	}
	for _, e := range es {
		b := int((math.Log(e) - lnLow) / dln)
		if b == energyBins {
			b--
		}
		counts[b]++
	}

	plt.Figure()
	plt.Plot(centers, counts, plt.LW(3))
	plt.Title(fmt.Sprintf("Source %d energy spectrum", i))
	plt.XLabel(`$E$ [eV]`, plt.FontSize(16))
	plt.YLabel("Samples per bin", plt.FontSize(16))
	plt.XScale("log")
	plt.SaveFig(fname)
}
