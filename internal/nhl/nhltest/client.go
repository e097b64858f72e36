// Package nhltest provides a mock NHL client and a small league fixture for tests
package nhltest

import (
	"context"
	"errors"
	"time"

	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
)

// Client is a mock implementation of nhl.Client
type Client struct {
	GetStandingsFunc    func(ctx context.Context, date time.Time) (*nhl.StandingsResponse, error)
	GetScoresFunc       func(ctx context.Context, date time.Time) (*nhl.ScoreResponse, error)
	GetTeamScheduleFunc func(ctx context.Context, teamID string) (*nhl.ScheduleResponse, error)
}

func (m *Client) GetStandings(ctx context.Context, date time.Time) (*nhl.StandingsResponse, error) {
	if m.GetStandingsFunc != nil {
		return m.GetStandingsFunc(ctx, date)
	}
	return nil, errors.New("not implemented")
}

func (m *Client) GetScores(ctx context.Context, date time.Time) (*nhl.ScoreResponse, error) {
	if m.GetScoresFunc != nil {
		return m.GetScoresFunc(ctx, date)
	}
	return nil, errors.New("not implemented")
}

func (m *Client) GetTeamSchedule(ctx context.Context, teamID string) (*nhl.ScheduleResponse, error) {
	if m.GetTeamScheduleFunc != nil {
		return m.GetTeamScheduleFunc(ctx, teamID)
	}
	return nil, errors.New("not implemented")
}

// Today is the date the fixture league is observed on
var Today = time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)

func entry(abbrev, division, conference string, rank, wins int) nhl.StandingsEntry {
	const otLosses = 5
	losses := 60 - wins - otLosses
	return nhl.StandingsEntry{
		TeamAbbrev:           nhl.LocalizedString{Default: abbrev},
		TeamName:             nhl.LocalizedString{Default: abbrev},
		ConferenceAbbrev:     conference,
		DivisionAbbrev:       division,
		GamesPlayed:          60,
		Wins:                 wins,
		Losses:               losses,
		OTLosses:             otLosses,
		Points:               2*wins + otLosses,
		RegulationPlusOTWins: wins - 2,
		ConferenceSequence:   rank,
		L10Wins:              5,
		L10Losses:            4,
		L10OTLosses:          1,
	}
}

// Standings returns a ten team eastern conference and a three team western one
func Standings() *nhl.StandingsResponse {
	return &nhl.StandingsResponse{Standings: []nhl.StandingsEntry{
		entry("BOS", "A", "E", 1, 40),
		entry("NYR", "M", "E", 2, 38),
		entry("CAR", "M", "E", 3, 36),
		entry("TOR", "A", "E", 4, 35),
		entry("TBL", "A", "E", 5, 33),
		entry("FLA", "A", "E", 6, 31),
		entry("PIT", "M", "E", 7, 30),
		entry("NJD", "M", "E", 8, 29),
		entry("MTL", "A", "E", 9, 28),
		entry("PHI", "M", "E", 10, 27),
		entry("VAN", "P", "W", 1, 37),
		entry("EDM", "P", "W", 2, 35),
		entry("CGY", "P", "W", 3, 30),
	}}
}

func game(id int64, start time.Time, state, home, away string, homeScore, awayScore, period int) nhl.Game {
	return nhl.Game{
		ID:               id,
		GameType:         nhl.GameTypeRegularSeason,
		StartTimeUTC:     start,
		GameState:        state,
		HomeTeam:         nhl.GameTeam{Abbrev: home, Score: homeScore},
		AwayTeam:         nhl.GameTeam{Abbrev: away, Score: awayScore},
		PeriodDescriptor: nhl.PeriodDescriptor{Number: period},
	}
}

// Results are yesterday's games: MTL beat TOR in overtime, an irrelevant
// western game and an interconference game
func Results() *nhl.ScoreResponse {
	start := Today.Add(-12 * time.Hour)
	return &nhl.ScoreResponse{Games: []nhl.Game{
		game(1, start, nhl.StateOfficial, "MTL", "TOR", 3, 2, 4),
		game(2, start, nhl.StateOfficial, "EDM", "VAN", 4, 1, 3),
		game(3, start, nhl.StateOfficial, "BOS", "CGY", 1, 2, 3),
	}}
}

// Games are tonight's games
func Games() *nhl.ScoreResponse {
	start := Today.Add(12 * time.Hour)
	return &nhl.ScoreResponse{Games: []nhl.Game{
		game(4, start, nhl.StateFuture, "MTL", "NYR", 0, 0, 0),
		game(5, start, nhl.StateFuture, "CAR", "PIT", 0, 0, 0),
		game(6, start, nhl.StateFuture, "CGY", "TBL", 0, 0, 0),
	}}
}

// Schedule returns a team's remaining games
func Schedule(teamID string) *nhl.ScheduleResponse {
	return &nhl.ScheduleResponse{Games: []nhl.Game{
		game(4, Today.Add(12*time.Hour), nhl.StateFuture, teamID, "NYR", 0, 0, 0),
		game(7, Today.Add(60*time.Hour), nhl.StateFuture, "OTT", teamID, 0, 0, 0),
	}}
}

// NewFixtureClient returns a client serving the fixture league as seen on Today
func NewFixtureClient() *Client {
	today := Today.Format("2006-01-02")
	return &Client{
		GetStandingsFunc: func(ctx context.Context, date time.Time) (*nhl.StandingsResponse, error) {
			return Standings(), nil
		},
		GetScoresFunc: func(ctx context.Context, date time.Time) (*nhl.ScoreResponse, error) {
			if date.Format("2006-01-02") == today {
				return Games(), nil
			}
			return Results(), nil
		},
		GetTeamScheduleFunc: func(ctx context.Context, teamID string) (*nhl.ScheduleResponse, error) {
			return Schedule(teamID), nil
		},
	}
}
