package simulation

import "sort"

// Format describes how playoff berths are awarded within a conference
type Format struct {
	DivisionBerths int `json:"division_berths" yaml:"division_berths"`
	Wildcards      int `json:"wildcards" yaml:"wildcards"`
}

// DefaultFormat is three berths per division plus two wildcards
var DefaultFormat = Format{DivisionBerths: 3, Wildcards: 2}

// Rank orders entries by points then wins, both descending. Entries that
// are still tied keep their input order.
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].Wins > ranked[j].Wins
	})
	return ranked
}

// Qualifiers returns the teams of a completed conference season that make
// the playoffs
func Qualifiers(entries []Entry, format Format) map[string]bool {
	ranked := Rank(entries)
	qualified := make(map[string]bool, len(ranked))

	perDivision := make(map[string]int)
	for _, entry := range ranked {
		if perDivision[entry.DivisionID] < format.DivisionBerths {
			perDivision[entry.DivisionID]++
			qualified[entry.TeamID] = true
		}
	}

	wildcards := 0
	for _, entry := range ranked {
		if wildcards >= format.Wildcards {
			break
		}
		if !qualified[entry.TeamID] {
			qualified[entry.TeamID] = true
			wildcards++
		}
	}

	return qualified
}

// Qualifies reports whether the team makes the playoffs
func Qualifies(entries []Entry, teamID string, format Format) bool {
	return Qualifiers(entries, format)[teamID]
}
