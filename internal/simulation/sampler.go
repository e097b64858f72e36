package simulation

import (
	"math/rand/v2"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"gonum.org/v1/gonum/stat/distuv"
)

// Event is the outcome of one simulated game for one team
type Event int

const (
	Win Event = iota
	Loss
	OvertimeLoss
)

// Points returns the standings points the event is worth
func (e Event) Points() int {
	switch e {
	case Win:
		return league.PointsPerWin
	case OvertimeLoss:
		return league.PointsPerOTLoss
	default:
		return 0
	}
}

func (e Event) String() string {
	switch e {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case OvertimeLoss:
		return "ot_loss"
	default:
		return "unknown"
	}
}

// Sampler draws events with probability proportional to a team's own
// win, loss and overtime loss counts. A team without any recorded game
// samples the three events uniformly.
type Sampler struct {
	dist distuv.Categorical
}

// newSampler creates a sampler weighted by the given counts. Counts come
// from validated records and are never negative.
func newSampler(wins, losses, otLosses int, src rand.Source) Sampler {
	weights := []float64{float64(wins), float64(losses), float64(otLosses)}
	if wins+losses+otLosses == 0 {
		weights = []float64{1, 1, 1}
	}
	return Sampler{dist: distuv.NewCategorical(weights, src)}
}

// Next draws one event
func (s Sampler) Next() Event {
	return Event(s.dist.Rand())
}
