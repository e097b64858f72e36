package league

import (
	"sort"
	"strings"
	"time"
)

// Snapshot holds all league data for one analysis pass. It is never mutated
// once loaded; derived views copy values or carry team IDs.
type Snapshot struct {
	Date          time.Time `json:"date"`
	Teams         []Team    `json:"teams"`
	Standings     []Record  `json:"standings"`
	PastStandings []Record  `json:"past_standings"`
	Results       []Game    `json:"results"`
	Games         []Game    `json:"games"`
	Upcoming      []Game    `json:"upcoming,omitempty"`
}

// NormalizeID returns the canonical form of a team identifier
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// TeamByID looks up a team by its identifier, ignoring case
func (s *Snapshot) TeamByID(id string) (Team, error) {
	key := NormalizeID(id)
	for _, team := range s.Teams {
		if team.ID == key {
			return team, nil
		}
	}
	return Team{}, &LookupError{Kind: "team", Key: key}
}

// ConferenceTeamIDs returns the set of teams that belong to the conference
func (s *Snapshot) ConferenceTeamIDs(conferenceID string) map[string]bool {
	ids := make(map[string]bool)
	for _, team := range s.Teams {
		if team.ConferenceID == conferenceID {
			ids[team.ID] = true
		}
	}
	return ids
}

// ConferenceStandings returns the conference's records ordered by conference rank
func (s *Snapshot) ConferenceStandings(conferenceID string, past bool) []Record {
	records := s.Standings
	if past {
		records = s.PastStandings
	}

	members := s.ConferenceTeamIDs(conferenceID)
	var conference []Record
	for _, record := range records {
		if members[record.TeamID] {
			conference = append(conference, record)
		}
	}

	sort.SliceStable(conference, func(i, j int) bool {
		return conference[i].ConferenceRank < conference[j].ConferenceRank
	})
	return conference
}

// TeamsByID indexes the snapshot's teams
func (s *Snapshot) TeamsByID() map[string]Team {
	teams := make(map[string]Team, len(s.Teams))
	for _, team := range s.Teams {
		teams[team.ID] = team
	}
	return teams
}
