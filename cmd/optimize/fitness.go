package main

import (
	"math"
	"slices"
	"sync"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/game"
	"github.com/pthm-cable/plife/telemetry"
)

// Fitness weights.
const (
	isolatedWeight = 1.0 // per unit fraction of particles with no neighbor
	clampWeight    = 0.5 // per unit clamp rate
)

// FitnessEvaluator runs headless simulations and scores how close the
// final state comes to the target neighbor density.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int
	seeds      []int64
	baseConfig *config.Config
	targetMean float64

	mu          sync.Mutex
	bestFitness float64
	bestStats   telemetry.WindowStats
	lastStats   telemetry.WindowStats // averaged over seeds, most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config, targetMean float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		ticks:       ticks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targetMean:  targetMean,
		bestFitness: math.Inf(1),
	}
}

// BestStats returns the final window of the best evaluation so far.
func (fe *FitnessEvaluator) BestStats() telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// LastStats returns the seed-averaged final window of the most recent evaluation.
func (fe *FitnessEvaluator) LastStats() telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel, each on its own Game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]telemetry.WindowStats, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var avg telemetry.WindowStats
	var total float64
	for i, r := range results {
		if errs[i] != nil {
			return math.Inf(1)
		}
		total += fe.computeFitness(r)
		avg.NeighborMean += r.NeighborMean
		avg.Isolated += r.Isolated
		avg.ClampRate += r.ClampRate
	}
	n := float64(len(fe.seeds))
	avgFitness := total / n
	avg.NeighborMean /= n
	avg.Isolated /= n
	avg.ClampRate /= n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestStats = avg
	}
	fe.lastStats = avg
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run and returns its last stats window.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (telemetry.WindowStats, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGame(cfg, game.Options{Seed: seed})
	if err != nil {
		return telemetry.WindowStats{}, err
	}
	defer g.Unload()

	for int(g.Tick()) < fe.ticks {
		g.Step()
	}
	return g.LastStats(), nil
}

// copyConfig copies the base config with a private species slice and a
// stats window that closes on the final tick.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Species = slices.Clone(fe.baseConfig.Species)
	cfg.Telemetry.StatsWindow = fe.ticks
	return &cfg
}

// computeFitness is the squared relative error of the neighbor mean plus
// penalties for isolated particles and clamped displacements.
func (fe *FitnessEvaluator) computeFitness(s telemetry.WindowStats) float64 {
	rel := (s.NeighborMean - fe.targetMean) / fe.targetMean
	return rel*rel + isolatedWeight*s.Isolated + clampWeight*s.ClampRate
}
