package nhl

import (
	"fmt"
	"time"
)

// LocalizedString is a string the NHL API publishes in several languages
type LocalizedString struct {
	Default string `json:"default"`
}

// StandingsResponse is the payload of /standings/{date}
type StandingsResponse struct {
	Standings []StandingsEntry `json:"standings"`
}

// StandingsEntry is one team's line in the league standings
type StandingsEntry struct {
	TeamAbbrev           LocalizedString `json:"teamAbbrev"`
	TeamName             LocalizedString `json:"teamName"`
	ConferenceAbbrev     string          `json:"conferenceAbbrev"`
	ConferenceName       string          `json:"conferenceName"`
	DivisionAbbrev       string          `json:"divisionAbbrev"`
	DivisionName         string          `json:"divisionName"`
	GamesPlayed          int             `json:"gamesPlayed"`
	Wins                 int             `json:"wins"`
	Losses               int             `json:"losses"`
	OTLosses             int             `json:"otLosses"`
	Points               int             `json:"points"`
	RegulationPlusOTWins int             `json:"regulationPlusOtWins"`
	GoalFor              int             `json:"goalFor"`
	GoalAgainst          int             `json:"goalAgainst"`
	ConferenceSequence   int             `json:"conferenceSequence"`
	DivisionSequence     int             `json:"divisionSequence"`
	LeagueSequence       int             `json:"leagueSequence"`
	WildcardSequence     int             `json:"wildcardSequence"`
	L10Wins              int             `json:"l10Wins"`
	L10Losses            int             `json:"l10Losses"`
	L10OTLosses          int             `json:"l10OtLosses"`
}

// ScoreResponse is the payload of /score/{date}
type ScoreResponse struct {
	CurrentDate string `json:"currentDate"`
	Games       []Game `json:"games"`
}

// ScheduleResponse is the payload of /club-schedule-season/{team}/now
type ScheduleResponse struct {
	Games []Game `json:"games"`
}

// Game is a game as published by the score and schedule endpoints
type Game struct {
	ID               int64            `json:"id"`
	GameType         int              `json:"gameType"`
	GameDate         string           `json:"gameDate"`
	StartTimeUTC     time.Time        `json:"startTimeUTC"`
	GameState        string           `json:"gameState"`
	HomeTeam         GameTeam         `json:"homeTeam"`
	AwayTeam         GameTeam         `json:"awayTeam"`
	PeriodDescriptor PeriodDescriptor `json:"periodDescriptor"`
	GameOutcome      *GameOutcome     `json:"gameOutcome,omitempty"`
}

// GameTeam is one side of a game
type GameTeam struct {
	ID     int    `json:"id"`
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
}

// PeriodDescriptor describes the current or last period of a game
type PeriodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

// GameOutcome describes how a finished game ended
type GameOutcome struct {
	LastPeriodType string `json:"lastPeriodType"`
}

// Game states reported by the API
const (
	StateFuture   = "FUT"
	StatePregame  = "PRE"
	StateLive     = "LIVE"
	StateFinal    = "FINAL"
	StateOfficial = "OFF"
)

// GameTypeRegularSeason marks regular season games
const GameTypeRegularSeason = 2

// Finished reports whether the game has a final score
func (g Game) Finished() bool {
	return g.GameState == StateFinal || g.GameState == StateOfficial
}

// Upcoming reports whether the game has not started yet
func (g Game) Upcoming() bool {
	return g.GameState == StateFuture || g.GameState == StatePregame
}

// APIError represents an error response from the NHL API
type APIError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	return &APIError{
		Type:       "api_error",
		Message:    fmt.Sprintf("API request failed with status %d: %s", status, string(body)),
		StatusCode: status,
		Endpoint:   endpoint,
	}
}
