package montecarlo

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// minPathsPerWorker keeps small ensembles on a single goroutine.
const minPathsPerWorker = 256

// Ensemble is an immutable grid of simulated prices, PathCount × (HorizonDays+1).
// Column 0 of every path equals the starting price.
type Ensemble struct {
	startingPrice float64
	pathCount     int
	width         int // HorizonDays + 1
	seed          uint64
	prices        []float64 // row-major, one row per path

	sortOnce    sync.Once
	sortedFinal []float64
}

// Simulate generates a full price ensemble. Parameters are validated before any
// work starts; on error no ensemble is returned.
func Simulate(p Params) (*Ensemble, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := resolveSeed(p.Seed)
	width := p.HorizonDays + 1
	e := &Ensemble{
		startingPrice: p.StartingPrice,
		pathCount:     p.PathCount,
		width:         width,
		seed:          seed,
		prices:        make([]float64, p.PathCount*width),
	}

	driftTerm, volTerm := p.stepTerms()
	forEachChunk(p.PathCount, p.Workers, func(from, to int) {
		for path := from; path < to; path++ {
			row := e.prices[path*width : (path+1)*width]
			fillPath(row, p.StartingPrice, driftTerm, volTerm, pathRand(seed, path))
		}
	})

	return e, nil
}

// SimulateFinal runs the same process as Simulate but keeps only the terminal
// price of each path. For a given seed the values equal Simulate's FinalPrices.
func SimulateFinal(p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := resolveSeed(p.Seed)
	final := make([]float64, p.PathCount)
	driftTerm, volTerm := p.stepTerms()

	forEachChunk(p.PathCount, p.Workers, func(from, to int) {
		for path := from; path < to; path++ {
			r := pathRand(seed, path)
			price := p.StartingPrice
			for t := 1; t <= p.HorizonDays; t++ {
				price = step(price, driftTerm, volTerm, r)
			}
			final[path] = price
		}
	})

	return final, nil
}

func fillPath(row []float64, start, driftTerm, volTerm float64, r *rand.Rand) {
	row[0] = start
	for t := 1; t < len(row); t++ {
		row[t] = step(row[t-1], driftTerm, volTerm, r)
	}
}

func step(prev, driftTerm, volTerm float64, r *rand.Rand) float64 {
	if volTerm == 0 {
		return prev * math.Exp(driftTerm)
	}
	return prev * math.Exp(driftTerm+volTerm*r.NormFloat64())
}

func resolveSeed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return rand.Uint64()
}

func pathRand(seed uint64, path int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(path)))
}

// forEachChunk splits [0, n) into contiguous chunks and runs fn on a bounded pool.
func forEachChunk(n, workers int, fn func(from, to int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if maxWorkers := (n + minPathsPerWorker - 1) / minPathsPerWorker; workers > maxWorkers {
		workers = maxWorkers
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	p := pool.New().WithMaxGoroutines(workers)
	for from := 0; from < n; from += chunk {
		from, to := from, min(from+chunk, n)
		p.Go(func() { fn(from, to) })
	}
	p.Wait()
}

// PathCount is the number of simulated paths.
func (e *Ensemble) PathCount() int { return e.pathCount }

// HorizonDays is the number of simulated trading days after day 0.
func (e *Ensemble) HorizonDays() int { return e.width - 1 }

// StartingPrice is the shared day-0 price.
func (e *Ensemble) StartingPrice() float64 { return e.startingPrice }

// Seed is the seed the ensemble was drawn from. For entropy-seeded runs this is
// the generated seed, so the run can be replayed.
func (e *Ensemble) Seed() uint64 { return e.seed }

// Price returns the simulated price of path on day.
func (e *Ensemble) Price(path, day int) float64 {
	return e.prices[path*e.width+day]
}

// Path returns a copy of one path, day 0 through HorizonDays.
func (e *Ensemble) Path(path int) []float64 {
	out := make([]float64, e.width)
	copy(out, e.prices[path*e.width:(path+1)*e.width])
	return out
}

// FinalPrices returns a copy of the terminal column in path order.
func (e *Ensemble) FinalPrices() []float64 {
	out := make([]float64, e.pathCount)
	last := e.width - 1
	for path := range out {
		out[path] = e.prices[path*e.width+last]
	}
	return out
}

// ProbabilityAtOrAbove returns the percentage of paths whose final price is >= target.
func (e *Ensemble) ProbabilityAtOrAbove(target float64) float64 {
	return probabilityAtOrAbove(e.sortedFinalPrices(), target)
}

func probabilityAtOrAbove(sorted []float64, target float64) float64 {
	below := sort.SearchFloat64s(sorted, target)
	return float64(len(sorted)-below) / float64(len(sorted)) * 100
}

// sortedFinalPrices is computed once and shared by every report on this ensemble.
func (e *Ensemble) sortedFinalPrices() []float64 {
	e.sortOnce.Do(func() {
		e.sortedFinal = e.FinalPrices()
		sort.Float64s(e.sortedFinal)
	})
	return e.sortedFinal
}
