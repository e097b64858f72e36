package simulation

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTrials is the number of simulated seasons per estimate
	DefaultTrials = 50000

	// cancellation is checked once per this many trials
	checkEvery = 1024
)

// ErrNoTrials is returned when an estimate is requested with no trials
var ErrNoTrials = errors.New("at least one trial is required")

// Odds is the outcome of an estimate
type Odds struct {
	Qualified int `json:"qualified"`
	Trials    int `json:"trials"`
}

// Probability returns the share of trials in which the team qualified
func (o Odds) Probability() float64 {
	if o.Trials == 0 {
		return 0
	}
	return float64(o.Qualified) / float64(o.Trials)
}

// EstimatorConfig tunes the odds estimator
type EstimatorConfig struct {
	Trials  int
	Workers int
	// Seed makes estimates reproducible for a given worker count. Zero draws
	// a fresh seed for every estimate.
	Seed   uint64
	Format Format
}

// Estimator estimates playoff odds by simulating many seasons
type Estimator struct {
	config EstimatorConfig
	logger *logrus.Logger
}

// NewEstimator creates an estimator, filling unset fields with defaults
func NewEstimator(config EstimatorConfig, logger *logrus.Logger) *Estimator {
	if config.Trials == 0 {
		config.Trials = DefaultTrials
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Format == (Format{}) {
		config.Format = DefaultFormat
	}
	return &Estimator{config: config, logger: logger}
}

// Config returns the estimator settings
func (e *Estimator) Config() EstimatorConfig {
	return e.config
}

// WithTrials returns a copy of the estimator running a different number of trials
func (e *Estimator) WithTrials(trials int) *Estimator {
	config := e.config
	config.Trials = trials
	return &Estimator{config: config, logger: e.logger}
}

// Estimate simulates the season the configured number of times and
// returns how often the team qualified
func (e *Estimator) Estimate(ctx context.Context, season *Season, teamID string) (Odds, error) {
	trials := e.config.Trials
	if trials <= 0 {
		return Odds{}, fmt.Errorf("%w: got %d", ErrNoTrials, trials)
	}
	if !season.Has(teamID) {
		return Odds{}, &league.LookupError{Kind: "team", Key: teamID}
	}

	seed := e.config.Seed
	if seed == 0 {
		var err error
		seed, err = newSeed()
		if err != nil {
			return Odds{}, err
		}
	}

	workers := e.config.Workers
	if workers > trials {
		workers = trials
	}

	start := time.Now()
	counts := make([]int, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := trials / workers
		if w < trials%workers {
			n++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			for i := 0; i < n; i++ {
				if i%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if Qualifies(season.Run(rng), teamID, e.config.Format) {
					counts[w]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Odds{}, fmt.Errorf("simulating season for %s: %w", teamID, err)
	}

	odds := Odds{Trials: trials}
	for _, count := range counts {
		odds.Qualified += count
	}

	e.logger.WithFields(logrus.Fields{
		"team":        teamID,
		"trials":      trials,
		"workers":     workers,
		"probability": odds.Probability(),
		"elapsed":     time.Since(start).String(),
	}).Debug("Estimated playoff odds")

	return odds, nil
}

// newSeed generates a random seed using crypto/rand
func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
