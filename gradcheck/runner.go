package gradcheck

import "math/rand"
import "sort"
import "sync"

import "github.com/google/uuid"
import "github.com/klauspost/cpuid/v2"
import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/micrograd/parallel"

// Runner checks many random programs. Trial i uses the seed Seed+i, so every
// trial can be reproduced on its own.
type Runner struct {
	Trials int
	Leaves int
	Steps  int
	Seed   int64
	// Workers bounds the concurrent trials, zero means one per logical core
	Workers   int
	Tolerance Tolerance
	Logger    *zap.Logger
}

// Failure is a trial whose gradients disagreed
type Failure struct {
	Trial   int
	Program Program
	X       []float32
	Result  Result
}

// Report summarizes a run
type Report struct {
	ID        uuid.UUID
	Trials    int
	Failures  []Failure
	MaxAbsErr float64
}

func (r Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r Runner) tolerance() Tolerance {
	if r.Tolerance == (Tolerance{}) {
		return DefaultTolerance
	}
	return r.Tolerance
}

func (r Runner) validate() error {
	if r.Trials < 0 || r.Leaves <= 0 || r.Steps <= 0 {
		return errors.Errorf("gradcheck: bad runner shape trials=%d leaves=%d steps=%d", r.Trials, r.Leaves, r.Steps)
	}
	return nil
}

// Trial runs trial i
func (r Runner) Trial(i int) (Failure, error) {
	rng := rand.New(rand.NewSource(r.Seed + int64(i)))
	p, x := Random(rng, r.Leaves, r.Steps)
	res, err := Check(p, x, r.tolerance())
	return Failure{Trial: i, Program: p, X: x, Result: res}, err
}

// Run executes every trial, each on its own graph, and collects the failures
// in trial order.
func (r Runner) Run() (*Report, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	rep := &Report{ID: uuid.New(), Trials: r.Trials}
	log := r.logger().With(zap.String("run", rep.ID.String()))
	log.Info("gradient check",
		zap.Int("trials", r.Trials),
		zap.Int("leaves", r.Leaves),
		zap.Int("steps", r.Steps),
		zap.Int64("seed", r.Seed),
		zap.String("cpu", cpuid.CPU.BrandName),
	)

	var (
		mut      sync.Mutex
		firstErr error
	)
	parallel.ForEach(r.Trials, r.Workers, func(i int) {
		f, err := r.Trial(i)
		mut.Lock()
		defer mut.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "trial %d", i)
			}
			return
		}
		if f.Result.MaxAbsErr > rep.MaxAbsErr {
			rep.MaxAbsErr = f.Result.MaxAbsErr
		}
		if !f.Result.OK() {
			log.Warn("gradient mismatch", zap.Int("trial", i), zap.Ints("leaves", f.Result.Bad))
			rep.Failures = append(rep.Failures, f)
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	sort.Slice(rep.Failures, func(a, b int) bool {
		return rep.Failures[a].Trial < rep.Failures[b].Trial
	})
	log.Info("gradient check done",
		zap.Int("failures", len(rep.Failures)),
		zap.Float64("max_abs_err", rep.MaxAbsErr),
	)
	return rep, nil
}

// FindFailure runs trials until one fails and returns the lowest failing
// trial, or nil when all Trials pass. LoopUntil yields every trial below the
// one that stopped it, so keeping the minimum gives the first failure.
func (r Runner) FindFailure() (*Failure, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	var (
		mut      sync.Mutex
		found    *Failure
		firstErr error
	)
	parallel.Loop(r.Workers).LoopUntil(func(i uint32, ender parallel.LoopStopper) bool {
		if int(i) >= r.Trials {
			return true
		}
		f, err := r.Trial(int(i))
		if err == nil && f.Result.OK() {
			return false
		}
		mut.Lock()
		defer mut.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "trial %d", i)
			}
			return true
		}
		if found == nil || f.Trial < found.Trial {
			found = &f
		}
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if found != nil {
		r.logger().Debug("first failing trial", zap.Int("trial", found.Trial))
	}
	return found, nil
}
