// Command alifectl runs the organism simulation core headlessly: it
// builds a grid and population from flags, spawns an initial cohort,
// drives a fixed number of cycles, and prints periodic population
// stats. It is not the terminal viewport described in the core's
// surrounding UI — that's explicitly out of this repository's scope —
// just enough of a harness to exercise grid, vm, and population
// together from the command line.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/corvid-labs/alifevm/grid"
	"github.com/corvid-labs/alifevm/log"
	"github.com/corvid-labs/alifevm/population"
	"github.com/corvid-labs/alifevm/vm"
)

func main() {
	width := flag.Int("width", 500, "grid width")
	height := flag.Int("height", 500, "grid height")
	seed := flag.Int64("seed", 0, "master rng seed; 0 picks a random one")
	writeErrorChance := flag.Int("write-error-chance", 0, "1/n chance a grid write stores a random byte instead (0 disables)")
	wallPierceChance := flag.Int("wall-pierce-chance", 0, "1/n chance a paste crosses a wall cell (0 disables)")
	maxOrganisms := flag.Int("max-organisms", 0, "population cap; 0 means unbounded")
	maxChildren := flag.Int("max-children", 0, "per-organism fork cap; 0 means unbounded")
	lifetime := flag.Int("lifetime", 0, "per-organism lifetime in cycles; 0 means immortal")
	spawn := flag.Int("spawn", 1, "number of organisms to spawn at the grid's center")
	cycles := flag.Int("cycles", 1000, "number of cycles to run")
	reportEvery := flag.Int("report-every", 100, "print population stats every n cycles")
	verbose := flag.Bool("v", false, "log every cycle via the driver's own logger")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	fmt.Fprintf(os.Stderr, "alifectl: seed=%d\n", *seed)

	master := rand.New(rand.NewSource(*seed))
	gridSeed := master.Int63()
	cullSeed := master.Int63()

	g, err := grid.New(*width, *height, byte(vm.OpNop), *writeErrorChance, rand.NewSource(gridSeed))
	if err != nil {
		fmt.Fprintln(os.Stderr, "alifectl:", err)
		os.Exit(1)
	}
	g.WallPierceChance = *wallPierceChance

	pop := population.New(cullSeed)
	if *maxOrganisms > 0 {
		pop.MaxOrganisms = maxOrganisms
	}
	if *maxChildren > 0 {
		v := byte(*maxChildren)
		pop.MaxChildren = &v
	}
	if *lifetime > 0 {
		v := byte(*lifetime)
		pop.Lifetime = &v
	}
	if *verbose {
		pop.Log = log.Real()
	}

	center := grid.Point{X: *width / 2, Y: *height / 2}
	for i := 0; i < *spawn; i++ {
		pop.Insert(vm.NewOrganismState(center))
	}

	for c := 1; c <= *cycles; c++ {
		pop.RunCycle(g)
		if *reportEvery > 0 && c%*reportEvery == 0 {
			fmt.Printf("cycle %d: population=%d forked=%d (%.3f/cycle) died=%d culled=%d avg_size=%.1f (n=%d)\n",
				c, pop.Len(), pop.Forked.Value(), pop.Forked.Rate(pop.Cycles.Value()),
				pop.Died.Value(), pop.Culled.Value(), pop.SizeAvg.Value(), pop.SizeAvg.Samples())
		}
		if pop.Len() == 0 {
			fmt.Println("alifectl: population extinct, stopping early")
			break
		}
	}
}
