package league

import (
	"fmt"
	"strings"
	"time"
)

const (
	// SeasonLength is the number of regular season games every team plays
	SeasonLength = 82

	// PointsPerWin is awarded for any win, including overtime and shootout wins
	PointsPerWin = 2

	// PointsPerOTLoss is awarded for a loss in overtime or in a shootout
	PointsPerOTLoss = 1

	// RegulationPeriods is the number of periods in a game before overtime
	RegulationPeriods = 3
)

// Team is the reference data for one club
type Team struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DivisionID     string `json:"division_id"`
	DivisionName   string `json:"division_name"`
	ConferenceID   string `json:"conference_id"`
	ConferenceName string `json:"conference_name"`
}

// LastTen is a team's record over its last ten games
type LastTen struct {
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	OTLosses int `json:"ot_losses"`
}

// Record is a team's observed standings record at a point in time
type Record struct {
	TeamID               string   `json:"team_id"`
	Wins                 int      `json:"wins"`
	Losses               int      `json:"losses"`
	OTLosses             int      `json:"ot_losses"`
	GamesPlayed          int      `json:"games_played"`
	Points               int      `json:"points"`
	RegulationPlusOTWins int      `json:"row"`
	GoalsFor             int      `json:"goals_for"`
	GoalsAgainst         int      `json:"goals_against"`
	ConferenceRank       int      `json:"conference_rank"`
	DivisionRank         int      `json:"division_rank"`
	LeagueRank           int      `json:"league_rank"`
	WildcardRank         int      `json:"wildcard_rank"`
	LastTen              *LastTen `json:"last_ten,omitempty"`
}

// Validate checks the points invariant and the non-negativity of the counts
func (r Record) Validate() error {
	if r.Wins < 0 || r.Losses < 0 || r.OTLosses < 0 {
		return Insufficient("team %s has a negative record %s", r.TeamID, r.Format())
	}
	if r.GamesPlayed != r.Wins+r.Losses+r.OTLosses {
		return Insufficient("team %s played %d games but has a %s record", r.TeamID, r.GamesPlayed, r.Format())
	}
	if want := PointsPerWin*r.Wins + PointsPerOTLoss*r.OTLosses; r.Points != want {
		return Insufficient("team %s has %d points, expected %d", r.TeamID, r.Points, want)
	}
	return nil
}

// Format returns the record as W-L-OT
func (r Record) Format() string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.OTLosses)
}

// LastTenFormat returns the last ten games as W-L-OT, or an empty string when unknown
func (r Record) LastTenFormat() string {
	if r.LastTen == nil {
		return ""
	}
	return fmt.Sprintf("%d-%d-%d", r.LastTen.Wins, r.LastTen.Losses, r.LastTen.OTLosses)
}

// PointPercent returns the share of available points earned so far
func (r Record) PointPercent() string {
	if r.GamesPlayed == 0 {
		return "0.000"
	}
	return fmt.Sprintf("%.3f", float64(r.Points)/float64(r.GamesPlayed*PointsPerWin))
}

// PointsPace returns the points the team is on pace for over a full season
func (r Record) PointsPace() string {
	if r.GamesPlayed == 0 {
		return "0"
	}
	return fmt.Sprintf("%.0f", float64(r.Points)/float64(r.GamesPlayed)*SeasonLength)
}

// GameTeam is one side of a game
type GameTeam struct {
	TeamID string `json:"team_id"`
	Score  int    `json:"score"`
}

// Game is a scheduled or completed game between two teams
type Game struct {
	ID             int64     `json:"id"`
	StartTime      time.Time `json:"start_time"`
	State          string    `json:"state"`
	Home           GameTeam  `json:"home"`
	Away           GameTeam  `json:"away"`
	Period         int       `json:"period"`
	LastPeriodType string    `json:"last_period_type,omitempty"`
}

// Involves reports whether the team plays in the game
func (g Game) Involves(teamID string) bool {
	return strings.EqualFold(g.Home.TeamID, teamID) || strings.EqualFold(g.Away.TeamID, teamID)
}

// Opponent returns the other participant of the game
func (g Game) Opponent(teamID string) (string, error) {
	switch {
	case strings.EqualFold(g.Home.TeamID, teamID):
		return g.Away.TeamID, nil
	case strings.EqualFold(g.Away.TeamID, teamID):
		return g.Home.TeamID, nil
	default:
		return "", fmt.Errorf("%w: %s does not play in %s at %s", ErrMalformedGame, teamID, g.Away.TeamID, g.Home.TeamID)
	}
}

// Overtime reports whether the game went past regulation
func (g Game) Overtime() bool {
	switch g.LastPeriodType {
	case "OT", "SO":
		return true
	case "REG":
		return false
	}
	return g.Period > RegulationPeriods
}

// Shootout reports whether the game was decided in a shootout
func (g Game) Shootout() bool {
	if g.LastPeriodType != "" {
		return g.LastPeriodType == "SO"
	}
	return g.Period > RegulationPeriods+1
}

// Winner returns the team that won the game
func (g Game) Winner() (string, error) {
	switch {
	case g.Home.Score > g.Away.Score:
		return g.Home.TeamID, nil
	case g.Away.Score > g.Home.Score:
		return g.Away.TeamID, nil
	default:
		return "", fmt.Errorf("%w: game %d has no winner (%d-%d)", ErrMalformedGame, g.ID, g.Home.Score, g.Away.Score)
	}
}

// Loser returns the team that lost the game
func (g Game) Loser() (string, error) {
	winner, err := g.Winner()
	if err != nil {
		return "", err
	}
	return g.Opponent(winner)
}
