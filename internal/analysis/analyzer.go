package analysis

import (
	"context"
	"fmt"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
	"github.com/sirupsen/logrus"
)

// Options tunes the analyzer
type Options struct {
	SeasonLength int
	Format       simulation.Format
}

// Analysis is everything known about the target team's playoff race
type Analysis struct {
	Target   league.Team      `json:"target"`
	Odds     simulation.Odds  `json:"odds"`
	PastOdds *simulation.Odds `json:"past_odds,omitempty"`
	MyResult *Matchup         `json:"my_result,omitempty"`
	Results  []Matchup        `json:"results"`
	MyGame   *Matchup         `json:"my_game,omitempty"`
	Games    []Matchup        `json:"games"`
	Seeds    Seeds            `json:"seeds"`
	Playoffs []PlayoffMatchup `json:"playoffs"`
	Upcoming []league.Game    `json:"upcoming,omitempty"`
}

// OddsDelta returns how much the odds moved since yesterday
func (a *Analysis) OddsDelta() (float64, bool) {
	if a.PastOdds == nil {
		return 0, false
	}
	return a.Odds.Probability() - a.PastOdds.Probability(), true
}

// Analyzer computes the playoff race of one target team
type Analyzer struct {
	snapshot   *league.Snapshot
	target     league.Team
	teams      map[string]league.Team
	conference map[string]bool
	estimator  simulation.OddsEstimator
	resolver   *simulation.Resolver
	options    Options
	logger     *logrus.Logger
}

// NewAnalyzer creates an analyzer for the target team
func NewAnalyzer(snapshot *league.Snapshot, targetID string, estimator simulation.OddsEstimator, options Options, logger *logrus.Logger) (*Analyzer, error) {
	target, err := snapshot.TeamByID(targetID)
	if err != nil {
		return nil, err
	}
	if options.SeasonLength <= 0 {
		options.SeasonLength = league.SeasonLength
	}
	if options.Format == (simulation.Format{}) {
		options.Format = simulation.DefaultFormat
	}

	return &Analyzer{
		snapshot:   snapshot,
		target:     target,
		teams:      snapshot.TeamsByID(),
		conference: snapshot.ConferenceTeamIDs(target.ConferenceID),
		estimator:  estimator,
		resolver:   simulation.NewResolver(estimator, options.SeasonLength, logger),
		options:    options,
		logger:     logger,
	}, nil
}

// Target returns the team being analyzed
func (a *Analyzer) Target() league.Team {
	return a.target
}

// Relevant reports whether a game can affect the target team's race
func (a *Analyzer) Relevant(game league.Game) bool {
	return game.Involves(a.target.ID) || a.conference[game.Home.TeamID] || a.conference[game.Away.TeamID]
}

// Odds estimates the target team's playoff odds from today's standings, or
// yesterday's when past is set
func (a *Analyzer) Odds(ctx context.Context, past bool) (simulation.Odds, error) {
	season, err := simulation.NewSeason(a.teams, a.snapshot.ConferenceStandings(a.target.ConferenceID, past), a.options.SeasonLength)
	if err != nil {
		return simulation.Odds{}, fmt.Errorf("building season for %s: %w", a.target.ID, err)
	}
	return a.estimator.Estimate(ctx, season, a.target.ID)
}

// Resolve annotates a single game with its ideal loser
func (a *Analyzer) Resolve(ctx context.Context, game league.Game, isResult bool) (Matchup, error) {
	past := isResult && len(a.snapshot.PastStandings) > 0
	resolution, err := a.resolver.Resolve(ctx, simulation.Decision{
		Game:       game,
		Target:     a.target,
		Conference: a.conference,
		Teams:      a.teams,
		Records:    a.snapshot.ConferenceStandings(a.target.ConferenceID, past),
	})
	if err != nil {
		return Matchup{}, fmt.Errorf("resolving %s at %s: %w", game.Away.TeamID, game.Home.TeamID, err)
	}

	return Matchup{
		Game:           game,
		IsResult:       isResult,
		TargetInvolved: game.Involves(a.target.ID),
		IdealLoser:     resolution.IdealLoser,
		Method:         resolution.Method,
		HomeWinOdds:    resolution.HomeWinOdds,
		AwayWinOdds:    resolution.AwayWinOdds,
	}, nil
}

// Seeds builds the division and wildcard seeds from today's standings
func (a *Analyzer) Seeds() (Seeds, error) {
	standings := a.snapshot.ConferenceStandings(a.target.ConferenceID, false)
	return BuildSeeds(standings, a.teams, a.target.DivisionID, a.options.Format.DivisionBerths)
}

// Perform runs the whole analysis
func (a *Analyzer) Perform(ctx context.Context) (*Analysis, error) {
	log := a.logger.WithField("team", a.target.ID)
	log.Info("Analyzing playoff race")

	analysis := &Analysis{
		Target:   a.target,
		Results:  []Matchup{},
		Games:    []Matchup{},
		Upcoming: a.snapshot.Upcoming,
	}

	odds, err := a.Odds(ctx, false)
	if err != nil {
		return nil, err
	}
	analysis.Odds = odds

	if len(a.snapshot.PastStandings) > 0 {
		pastOdds, err := a.Odds(ctx, true)
		if err != nil {
			return nil, err
		}
		analysis.PastOdds = &pastOdds
	} else {
		log.Warn("No past standings, skipping odds delta")
	}

	for _, game := range a.snapshot.Results {
		if !a.Relevant(game) {
			continue
		}
		matchup, err := a.Resolve(ctx, game, true)
		if err != nil {
			return nil, err
		}
		if matchup.TargetInvolved {
			analysis.MyResult = &matchup
		} else {
			analysis.Results = append(analysis.Results, matchup)
		}
	}

	for _, game := range a.snapshot.Games {
		if !a.Relevant(game) {
			continue
		}
		matchup, err := a.Resolve(ctx, game, false)
		if err != nil {
			return nil, err
		}
		if matchup.TargetInvolved {
			analysis.MyGame = &matchup
		} else {
			analysis.Games = append(analysis.Games, matchup)
		}
	}

	seeds, err := a.Seeds()
	if err != nil {
		return nil, err
	}
	analysis.Seeds = seeds

	playoffs, err := BuildBracket(seeds)
	if err != nil {
		return nil, err
	}
	analysis.Playoffs = playoffs

	log.WithFields(logrus.Fields{
		"odds":    odds.Probability(),
		"results": len(analysis.Results),
		"games":   len(analysis.Games),
	}).Info("Playoff race analyzed")

	return analysis, nil
}
