package simulation

import (
	"fmt"
	"math/rand/v2"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
)

// Entry is one team's projected record during a simulated season
type Entry struct {
	TeamID      string `json:"team_id"`
	DivisionID  string `json:"division_id"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	OTLosses    int    `json:"ot_losses"`
	GamesPlayed int    `json:"games_played"`
	Points      int    `json:"points"`
}

// Apply records one game outcome
func (e *Entry) Apply(event Event) {
	e.GamesPlayed++
	e.Points += event.Points()
	switch event {
	case Win:
		e.Wins++
	case Loss:
		e.Losses++
	case OvertimeLoss:
		e.OTLosses++
	}
}

type weights struct {
	wins, losses, otLosses int
}

// Season completes a partially played season for one conference. The base
// entries are shared by every trial and are never modified.
type Season struct {
	length  int
	base    []Entry
	weights []weights
}

// NewSeason builds the base projection state from the given records. Every
// record must belong to a team in teams.
func NewSeason(teams map[string]league.Team, records []league.Record, length int) (*Season, error) {
	if length <= 0 {
		length = league.SeasonLength
	}
	if len(records) == 0 {
		return nil, league.Insufficient("no standings records to simulate")
	}

	season := &Season{
		length:  length,
		base:    make([]Entry, 0, len(records)),
		weights: make([]weights, 0, len(records)),
	}
	for _, record := range records {
		team, ok := teams[record.TeamID]
		if !ok {
			return nil, &league.LookupError{Kind: "team", Key: record.TeamID}
		}
		if err := record.Validate(); err != nil {
			return nil, err
		}
		if record.GamesPlayed > length {
			return nil, league.Insufficient("team %s played %d games in a %d game season", record.TeamID, record.GamesPlayed, length)
		}

		season.base = append(season.base, Entry{
			TeamID:      record.TeamID,
			DivisionID:  team.DivisionID,
			Wins:        record.Wins,
			Losses:      record.Losses,
			OTLosses:    record.OTLosses,
			GamesPlayed: record.GamesPlayed,
			Points:      record.Points,
		})
		season.weights = append(season.weights, weights{
			wins:     record.Wins,
			losses:   record.Losses,
			otLosses: record.OTLosses,
		})
	}

	return season, nil
}

// Base returns a copy of the pre-trial entries
func (s *Season) Base() []Entry {
	base := make([]Entry, len(s.base))
	copy(base, s.base)
	return base
}

// Has reports whether the team takes part in the season
func (s *Season) Has(teamID string) bool {
	return s.index(teamID) >= 0
}

func (s *Season) index(teamID string) int {
	for i, entry := range s.base {
		if entry.TeamID == teamID {
			return i
		}
	}
	return -1
}

// Force returns a copy of the season where the winner has recorded one more
// win and the loser one more regulation loss. Sampling weights keep the
// counts the season was built from.
func (s *Season) Force(winnerID, loserID string) (*Season, error) {
	if winnerID == loserID {
		return nil, fmt.Errorf("%w: %s cannot play itself", league.ErrMalformedGame, winnerID)
	}

	forced := &Season{
		length:  s.length,
		base:    s.Base(),
		weights: s.weights,
	}

	for _, pair := range []struct {
		teamID string
		event  Event
	}{{winnerID, Win}, {loserID, Loss}} {
		i := forced.index(pair.teamID)
		if i < 0 {
			return nil, &league.LookupError{Kind: "team", Key: pair.teamID}
		}
		if forced.base[i].GamesPlayed >= forced.length {
			return nil, league.Insufficient("team %s has no games left to force", pair.teamID)
		}
		forced.base[i].Apply(pair.event)
	}

	return forced, nil
}

// Run plays out the remainder of the season once and returns the final
// entries. Every returned entry has played exactly the season length.
func (s *Season) Run(rng *rand.Rand) []Entry {
	entries := s.Base()
	for i := range entries {
		w := s.weights[i]
		sampler := newSampler(w.wins, w.losses, w.otLosses, rng)
		for entries[i].GamesPlayed < s.length {
			entries[i].Apply(sampler.Next())
		}
	}
	return entries
}
