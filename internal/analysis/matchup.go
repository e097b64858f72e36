package analysis

import (
	"fmt"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
)

// Mood describes how a completed game went for the target team
type Mood string

const (
	MoodGreat Mood = "Great"
	MoodGood  Mood = "Good"
	MoodBad   Mood = "Bad"
)

// Matchup is a game annotated with the team the target should root against
type Matchup struct {
	Game           league.Game       `json:"game"`
	IsResult       bool              `json:"is_result"`
	TargetInvolved bool              `json:"target_involved"`
	IdealLoser     string            `json:"ideal_loser"`
	Method         simulation.Method `json:"method"`
	HomeWinOdds    *float64          `json:"home_win_odds,omitempty"`
	AwayWinOdds    *float64          `json:"away_win_odds,omitempty"`
}

// CheerFor returns the participant the target team should root for
func (m Matchup) CheerFor() (string, error) {
	switch m.IdealLoser {
	case m.Game.Home.TeamID:
		return m.Game.Away.TeamID, nil
	case m.Game.Away.TeamID:
		return m.Game.Home.TeamID, nil
	default:
		return "", fmt.Errorf("%w: ideal loser %s does not play in %s at %s",
			league.ErrMalformedGame, m.IdealLoser, m.Game.Away.TeamID, m.Game.Home.TeamID)
	}
}

// Mood compares the actual loser with the ideal loser. An ideal loser that
// still picked up a point in overtime is only good, not great.
func (m Matchup) Mood() (Mood, error) {
	if _, err := m.CheerFor(); err != nil {
		return "", err
	}
	loser, err := m.Game.Loser()
	if err != nil {
		return "", err
	}
	if loser != m.IdealLoser {
		return MoodBad, nil
	}
	if m.Game.Overtime() {
		return MoodGood, nil
	}
	return MoodGreat, nil
}
