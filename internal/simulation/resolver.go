package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// ErrIrrelevantGame is returned for a game that cannot affect the target team
var ErrIrrelevantGame = errors.New("game is irrelevant to the target team")

// OddsEstimator estimates a team's playoff odds for a season
type OddsEstimator interface {
	Estimate(ctx context.Context, season *Season, teamID string) (Odds, error)
}

// Method records which rule picked the ideal loser
type Method string

const (
	MethodParticipant Method = "participant"
	MethodConference  Method = "conference"
	MethodSimulation  Method = "simulation"
)

// Decision is everything needed to pick the ideal loser of one game
type Decision struct {
	Game       league.Game
	Target     league.Team
	Conference map[string]bool
	Teams      map[string]league.Team
	// Records are the conference standings the simulations start from
	Records []league.Record
}

// Resolution is the ideal loser of a game from the target team's point of view
type Resolution struct {
	IdealLoser  string   `json:"ideal_loser"`
	Method      Method   `json:"method"`
	HomeWinOdds *float64 `json:"home_win_odds,omitempty"`
	AwayWinOdds *float64 `json:"away_win_odds,omitempty"`
}

// Resolver decides which participant of a game the target team should root against
type Resolver struct {
	estimator    OddsEstimator
	seasonLength int
	logger       *logrus.Logger
}

// NewResolver creates a resolver backed by the given estimator
func NewResolver(estimator OddsEstimator, seasonLength int, logger *logrus.Logger) *Resolver {
	return &Resolver{
		estimator:    estimator,
		seasonLength: seasonLength,
		logger:       logger,
	}
}

// Resolve picks the ideal loser. Cheap rules are tried first; only games
// between two conference rivals of the target are simulated.
func (r *Resolver) Resolve(ctx context.Context, d Decision) (Resolution, error) {
	home, away := d.Game.Home.TeamID, d.Game.Away.TeamID

	// Our own game: the opponent should lose
	if d.Game.Involves(d.Target.ID) {
		opponent, err := d.Game.Opponent(d.Target.ID)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{IdealLoser: opponent, Method: MethodParticipant}, nil
	}

	homeInConference, awayInConference := d.Conference[home], d.Conference[away]
	switch {
	case homeInConference && !awayInConference:
		return Resolution{IdealLoser: home, Method: MethodConference}, nil
	case awayInConference && !homeInConference:
		return Resolution{IdealLoser: away, Method: MethodConference}, nil
	case !homeInConference && !awayInConference:
		return Resolution{}, fmt.Errorf("%w: %s at %s", ErrIrrelevantGame, away, home)
	}

	return r.simulate(ctx, d)
}

func (r *Resolver) simulate(ctx context.Context, d Decision) (Resolution, error) {
	home, away := d.Game.Home.TeamID, d.Game.Away.TeamID

	season, err := NewSeason(d.Teams, d.Records, r.seasonLength)
	if err != nil {
		return Resolution{}, fmt.Errorf("building season for %s at %s: %w", away, home, err)
	}

	homeWins, err := season.Force(home, away)
	if err != nil {
		return Resolution{}, fmt.Errorf("forcing %s win: %w", home, err)
	}
	awayWins, err := season.Force(away, home)
	if err != nil {
		return Resolution{}, fmt.Errorf("forcing %s win: %w", away, err)
	}

	homeOdds, err := r.estimator.Estimate(ctx, homeWins, d.Target.ID)
	if err != nil {
		return Resolution{}, err
	}
	awayOdds, err := r.estimator.Estimate(ctx, awayWins, d.Target.ID)
	if err != nil {
		return Resolution{}, err
	}

	homeProbability, awayProbability := homeOdds.Probability(), awayOdds.Probability()
	resolution := Resolution{
		IdealLoser:  home,
		Method:      MethodSimulation,
		HomeWinOdds: &homeProbability,
		AwayWinOdds: &awayProbability,
	}
	// Equal odds fall to the away team losing
	if homeProbability >= awayProbability {
		resolution.IdealLoser = away
	}

	r.logger.WithFields(logrus.Fields{
		"target":        d.Target.ID,
		"home":          home,
		"away":          away,
		"home_win_odds": homeProbability,
		"away_win_odds": awayProbability,
		"ideal_loser":   resolution.IdealLoser,
	}).Info("Simulated ideal outcome")

	return resolution, nil
}
