package analysis

import (
	"sort"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
)

// Seed is a ranked position within a standings group
type Seed struct {
	Seed   int           `json:"seed"`
	Record league.Record `json:"record"`
}

// PlayoffMatchup pairs a high seed with a low seed
type PlayoffMatchup struct {
	High league.Record `json:"high_seed"`
	Low  league.Record `json:"low_seed"`
}

// Seeds are the division and wildcard groups of one conference
type Seeds struct {
	OwnDivision   []Seed `json:"own_division"`
	OtherDivision []Seed `json:"other_division"`
	Wildcard      []Seed `json:"wildcard"`
}

// BuildSeeds partitions conference standings, already ordered by conference
// rank, into the top teams of each division and the wildcard race
func BuildSeeds(standings []league.Record, teams map[string]league.Team, divisionID string, berths int) (Seeds, error) {
	var seeds Seeds
	for _, record := range standings {
		team, ok := teams[record.TeamID]
		if !ok {
			return Seeds{}, &league.LookupError{Kind: "team", Key: record.TeamID}
		}

		group := &seeds.OtherDivision
		if team.DivisionID == divisionID {
			group = &seeds.OwnDivision
		}
		if len(*group) >= berths {
			group = &seeds.Wildcard
		}
		*group = append(*group, Seed{Seed: len(*group) + 1, Record: record})
	}

	return seeds, nil
}

// BuildBracket pairs the first round from current standings. The leader with
// more points plays the second wildcard; the other leader plays the first.
func BuildBracket(seeds Seeds) ([]PlayoffMatchup, error) {
	format := simulation.DefaultFormat
	if len(seeds.OwnDivision) < format.DivisionBerths || len(seeds.OtherDivision) < format.DivisionBerths {
		return nil, league.Insufficient("bracket needs %d seeds per division, got %d and %d",
			format.DivisionBerths, len(seeds.OwnDivision), len(seeds.OtherDivision))
	}
	if len(seeds.Wildcard) < format.Wildcards {
		return nil, league.Insufficient("bracket needs %d wildcard teams, got %d", format.Wildcards, len(seeds.Wildcard))
	}

	leaders := []league.Record{seeds.OwnDivision[0].Record, seeds.OtherDivision[0].Record}
	sort.SliceStable(leaders, func(i, j int) bool {
		return leaders[i].Points > leaders[j].Points
	})

	return []PlayoffMatchup{
		{High: leaders[0], Low: seeds.Wildcard[1].Record},
		{High: leaders[1], Low: seeds.Wildcard[0].Record},
		{High: seeds.OwnDivision[1].Record, Low: seeds.OwnDivision[2].Record},
		{High: seeds.OtherDivision[1].Record, Low: seeds.OtherDivision[2].Record},
	}, nil
}
