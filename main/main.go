package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/marquezj/openmc"
	"github.com/marquezj/openmc/io"
)

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		configFile string
		quiet      bool
	)

	flag.StringVar(
		&configFile, "Config", "",
		"Simulation configuration file.",
	)
	flag.BoolVar(
		&quiet, "Quiet", false,
		"Suppress progress logging.",
	)

	flag.Parse()

	if configFile == "" {
		log.Fatal("No 'Config' flag has been set.")
	}

	cfg, err := io.ReadConfig(configFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	fg := setupIO(cfg)
	defer fg.Close()

	man, err := openmc.NewManager(cfg, !quiet)
	if err != nil {
		log.Fatal(err.Error())
	}

	tally, err := man.Run()
	if err != nil {
		log.Fatal(err.Error())
	}

	log.Printf(
		"Transported %d particles (%d secondaries).",
		tally.Transported, tally.Secondaries,
	)
	log.Printf(
		"Escaped: %d (weight %g), absorbed: %d (weight %g), lost: %d.",
		tally.Escaped, tally.Leakage, tally.Absorbed, tally.Absorption,
		tally.Lost,
	)
}

func setupIO(cfg *io.Config) *FileGroup {
	fg := &FileGroup{}
	var err error

	if cfg.Run.LogFile != "" {
		fg.log, err = os.Create(cfg.Run.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	log.Println("Running transport main.")

	if cfg.Run.ProfileFile != "" {
		fg.prof, err = os.Create(cfg.Run.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}
