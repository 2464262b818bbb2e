// Command pond runs the evolutionary pond simulation: it seeds the PRNG
// from wall-clock time, bootstraps an initial population of random cells,
// and drives the tick loop described in spec §5/§6 — report, then inflow,
// then one cell's VM execution per tick — until -ticks ticks have run (or
// forever, if -ticks is 0).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/evopond/pond/internal/genome"
	"github.com/evopond/pond/internal/pond"
	"github.com/evopond/pond/internal/prng"
	"github.com/evopond/pond/internal/report"
	"github.com/evopond/pond/internal/stats"
	"github.com/evopond/pond/internal/vm"
)

// inflowFrequency and reportFrequency are INFLOW_FREQUENCY and
// REPORT_FREQUENCY from spec §6.
const (
	inflowFrequency = 100
	reportFrequency = 20000
)

var log = logrus.New()

func main() {
	width := flag.Int("width", pond.DefaultWidth, "pond width in cells")
	height := flag.Int("height", pond.DefaultHeight, "pond height in cells")
	ticks := flag.Uint64("ticks", 0, "ticks to run (0 = run forever)")
	seed0 := flag.Uint64("seed1", 0, "first PRNG seed word (0 = derive from wall clock)")
	seed1 := flag.Uint64("seed2", 0, "second PRNG seed word (0 = derive from wall clock)")
	quiet := flag.Bool("quiet", false, "suppress operational logging (the CSV report stream is unaffected)")
	flag.Parse()

	if *quiet {
		log.SetLevel(logrus.WarnLevel)
	}

	if err := run(*width, *height, *ticks, *seed0, *seed1); err != nil {
		log.Fatalf("pond: %v", err)
	}
}

func run(width, height int, ticks uint64, seed0, seed1 uint64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid grid dimensions %dx%d: both must be positive", width, height)
	}

	// Driver contract item 1 (spec §6): seed from wall-clock time unless
	// the caller pinned specific words, e.g. to reproduce a prior run.
	if seed0 == 0 {
		seed0 = uint64(time.Now().UnixNano())
	}
	if seed1 == 0 {
		seed1 = uint64(time.Now().UnixNano()) ^ 0x9E3779B97F4A7C15
	}

	log.WithFields(logrus.Fields{
		"width":  width,
		"height": height,
		"ticks":  ticks,
		"seed1":  seed0,
		"seed2":  seed1,
	}).Info("starting pond")

	p := pond.New(pond.Config{Width: width, Height: height, KillPenalty: pond.DefaultKillPenalty})
	rng := prng.New(seed0, seed1)
	var ids pond.IDGenerator
	var st stats.Statistics

	bootstrapPopulation(p, rng, &ids)

	reporter := report.New(os.Stdout, 1)
	defer reporter.Close()

	for clock := uint64(1); ticks == 0 || clock <= ticks; clock++ {
		st.Clock = clock

		if clock%reportFrequency == 0 {
			reporter.Submit(report.Line{
				Statistics: st,
				Snapshot:   snapshot(p),
			})
			st.Zero()
		}

		if clock%inflowFrequency == 0 {
			x, y := rng.GenerateCellPosition(width, height)
			p.Replace(x, y, ids.Next(), genome.Random(rng))
		}

		x, y := rng.GenerateCellPosition(width, height)
		vm.New(p, &ids, rng, &st, x, y).Execute()
	}

	log.Info("pond run complete")
	return nil
}

// bootstrapPopulation fills every cell with a fresh id and a random genome,
// per driver contract item 2 (spec §6).
func bootstrapPopulation(p *pond.Pond, rng *prng.Generator, ids *pond.IDGenerator) {
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			p.Replace(x, y, ids.Next(), genome.Random(rng))
		}
	}
}

func snapshot(p *pond.Pond) stats.PondSnapshot {
	return stats.PondSnapshot{
		TotalEnergy:            p.TotalEnergy(),
		TotalActiveCells:       p.TotalActiveCells(),
		TotalViableReplicators: p.TotalViableReplicators(),
		MaxGeneration:          p.MaxGeneration(),
	}
}
