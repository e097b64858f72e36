package nhl

import (
	"context"
	"fmt"
	"time"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Loader assembles league snapshots from the NHL API
type Loader struct {
	client Client
	logger *logrus.Logger
}

// NewLoader creates a loader backed by the given client
func NewLoader(client Client, logger *logrus.Logger) *Loader {
	return &Loader{
		client: client,
		logger: logger,
	}
}

// Snapshot loads today's and yesterday's standings together with yesterday's
// results and today's games
func (l *Loader) Snapshot(ctx context.Context, date time.Time) (*league.Snapshot, error) {
	yesterday := date.AddDate(0, 0, -1)

	var (
		standings, pastStandings *StandingsResponse
		results, games           *ScoreResponse
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		standings, err = l.client.GetStandings(ctx, date)
		return err
	})
	g.Go(func() (err error) {
		pastStandings, err = l.client.GetStandings(ctx, yesterday)
		return err
	})
	g.Go(func() (err error) {
		results, err = l.client.GetScores(ctx, yesterday)
		return err
	})
	g.Go(func() (err error) {
		games, err = l.client.GetScores(ctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading league data for %s: %w", date.Format(dateLayout), err)
	}

	teams, records := ConvertStandings(standings)
	if len(teams) == 0 {
		return nil, league.Insufficient("no standings published for %s", date.Format(dateLayout))
	}
	_, pastRecords := ConvertStandings(pastStandings)

	snapshot := &league.Snapshot{
		Date:          date,
		Teams:         teams,
		Standings:     records,
		PastStandings: pastRecords,
		Results:       []league.Game{},
		Games:         []league.Game{},
	}

	for _, game := range results.Games {
		if !regularSeason(game) {
			continue
		}
		if !game.Finished() {
			l.logger.WithFields(logrus.Fields{
				"game_id": game.ID,
				"state":   game.GameState,
			}).Debug("Skipping unfinished game")
			continue
		}
		snapshot.Results = append(snapshot.Results, ConvertGame(game))
	}

	for _, game := range games.Games {
		if regularSeason(game) {
			snapshot.Games = append(snapshot.Games, ConvertGame(game))
		}
	}

	l.logger.WithFields(logrus.Fields{
		"date":    date.Format(dateLayout),
		"teams":   len(snapshot.Teams),
		"results": len(snapshot.Results),
		"games":   len(snapshot.Games),
	}).Info("Loaded league snapshot")

	return snapshot, nil
}

// Upcoming returns the team's games that start after the given time, in
// schedule order
func (l *Loader) Upcoming(ctx context.Context, teamID string, after time.Time) ([]league.Game, error) {
	schedule, err := l.client.GetTeamSchedule(ctx, teamID)
	if err != nil {
		return nil, err
	}

	upcoming := []league.Game{}
	for _, game := range schedule.Games {
		if regularSeason(game) && game.Upcoming() && game.StartTimeUTC.After(after) {
			upcoming = append(upcoming, ConvertGame(game))
		}
	}
	return upcoming, nil
}

func regularSeason(game Game) bool {
	return game.GameType == 0 || game.GameType == GameTypeRegularSeason
}

// ConvertStandings maps a standings payload onto teams and records
func ConvertStandings(resp *StandingsResponse) ([]league.Team, []league.Record) {
	if resp == nil {
		return nil, nil
	}

	teams := make([]league.Team, 0, len(resp.Standings))
	records := make([]league.Record, 0, len(resp.Standings))
	for _, entry := range resp.Standings {
		id := league.NormalizeID(entry.TeamAbbrev.Default)
		teams = append(teams, league.Team{
			ID:             id,
			Name:           entry.TeamName.Default,
			DivisionID:     entry.DivisionAbbrev,
			DivisionName:   entry.DivisionName,
			ConferenceID:   entry.ConferenceAbbrev,
			ConferenceName: entry.ConferenceName,
		})
		records = append(records, league.Record{
			TeamID:               id,
			Wins:                 entry.Wins,
			Losses:               entry.Losses,
			OTLosses:             entry.OTLosses,
			GamesPlayed:          entry.GamesPlayed,
			Points:               entry.Points,
			RegulationPlusOTWins: entry.RegulationPlusOTWins,
			GoalsFor:             entry.GoalFor,
			GoalsAgainst:         entry.GoalAgainst,
			ConferenceRank:       entry.ConferenceSequence,
			DivisionRank:         entry.DivisionSequence,
			LeagueRank:           entry.LeagueSequence,
			WildcardRank:         entry.WildcardSequence,
			LastTen: &league.LastTen{
				Wins:     entry.L10Wins,
				Losses:   entry.L10Losses,
				OTLosses: entry.L10OTLosses,
			},
		})
	}
	return teams, records
}

// ConvertGame maps an API game onto a league game
func ConvertGame(game Game) league.Game {
	converted := league.Game{
		ID:        game.ID,
		StartTime: game.StartTimeUTC,
		State:     game.GameState,
		Home:      league.GameTeam{TeamID: league.NormalizeID(game.HomeTeam.Abbrev), Score: game.HomeTeam.Score},
		Away:      league.GameTeam{TeamID: league.NormalizeID(game.AwayTeam.Abbrev), Score: game.AwayTeam.Score},
		Period:    game.PeriodDescriptor.Number,
	}
	if game.GameOutcome != nil {
		converted.LastPeriodType = game.GameOutcome.LastPeriodType
	}
	return converted
}
