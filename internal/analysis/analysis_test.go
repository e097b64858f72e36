package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
	"github.com/sirupsen/logrus/hooks/test"
)

// MockEstimator is a mock implementation of simulation.OddsEstimator
type MockEstimator struct {
	EstimateFunc func(ctx context.Context, season *simulation.Season, teamID string) (simulation.Odds, error)
	calls        int
}

func (m *MockEstimator) Estimate(ctx context.Context, season *simulation.Season, teamID string) (simulation.Odds, error) {
	m.calls++
	if m.EstimateFunc != nil {
		return m.EstimateFunc(ctx, season, teamID)
	}
	return simulation.Odds{Qualified: 1, Trials: 2}, nil
}

func record(id string, rank, wins, losses, ot int) league.Record {
	return league.Record{
		TeamID:         id,
		Wins:           wins,
		Losses:         losses,
		OTLosses:       ot,
		GamesPlayed:    wins + losses + ot,
		Points:         2*wins + ot,
		ConferenceRank: rank,
	}
}

func game(home, away string, homeScore, awayScore, period int) league.Game {
	return league.Game{
		StartTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		State:     "OFF",
		Home:      league.GameTeam{TeamID: home, Score: homeScore},
		Away:      league.GameTeam{TeamID: away, Score: awayScore},
		Period:    period,
	}
}

// snapshot builds an eastern conference of two four team divisions and a
// two team western conference
func snapshot() *league.Snapshot {
	team := func(id, division, conference string) league.Team {
		return league.Team{ID: id, Name: id, DivisionID: division, ConferenceID: conference}
	}
	standings := []league.Record{
		record("BOS", 1, 45, 15, 10),
		record("NYR", 2, 44, 19, 7),
		record("TOR", 3, 42, 20, 8),
		record("TBL", 4, 40, 22, 8),
		record("CAR", 5, 41, 23, 6),
		record("FLA", 6, 39, 26, 5),
		record("PIT", 7, 38, 25, 7),
		record("NJD", 8, 36, 28, 6),
		record("VAN", 1, 44, 20, 6),
		record("EDM", 2, 42, 22, 6),
	}

	return &league.Snapshot{
		Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Teams: []league.Team{
			team("BOS", "A", "E"), team("TOR", "A", "E"), team("TBL", "A", "E"), team("FLA", "A", "E"),
			team("NYR", "M", "E"), team("CAR", "M", "E"), team("PIT", "M", "E"), team("NJD", "M", "E"),
			team("VAN", "P", "W"), team("EDM", "P", "W"),
		},
		Standings:     standings,
		PastStandings: standings,
		Results: []league.Game{
			game("TOR", "FLA", 3, 2, 3),
			game("EDM", "VAN", 4, 1, 3),
			game("EDM", "BOS", 2, 1, 4),
			game("PIT", "CAR", 1, 5, 3),
		},
		Games: []league.Game{
			{Home: league.GameTeam{TeamID: "TOR"}, Away: league.GameTeam{TeamID: "NYR"}, State: "FUT"},
			{Home: league.GameTeam{TeamID: "VAN"}, Away: league.GameTeam{TeamID: "NJD"}, State: "FUT"},
		},
	}
}

func TestNewAnalyzer_UnknownTeam(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := NewAnalyzer(snapshot(), "XYZ", &MockEstimator{}, Options{}, logger)
	if !errors.Is(err, league.ErrTeamNotFound) {
		t.Errorf("Expected ErrTeamNotFound, got %v", err)
	}
}

func TestAnalyzer_Relevant(t *testing.T) {
	logger, _ := test.NewNullLogger()
	analyzer, err := NewAnalyzer(snapshot(), "tor", &MockEstimator{}, Options{}, logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		game     league.Game
		expected bool
	}{
		{"target plays", game("TOR", "VAN", 0, 0, 0), true},
		{"one conference team", game("EDM", "NJD", 0, 0, 0), true},
		{"two conference teams", game("CAR", "PIT", 0, 0, 0), true},
		{"no conference team", game("EDM", "VAN", 0, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := analyzer.Relevant(tt.game); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAnalyzer_Perform(t *testing.T) {
	logger, _ := test.NewNullLogger()
	estimator := &MockEstimator{}

	analyzer, err := NewAnalyzer(snapshot(), "TOR", estimator, Options{}, logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	analysis, err := analyzer.Perform(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if analysis.Target.ID != "TOR" {
		t.Errorf("Expected target TOR, got %s", analysis.Target.ID)
	}
	if analysis.Odds.Probability() != 0.5 {
		t.Errorf("Expected odds 0.5, got %f", analysis.Odds.Probability())
	}
	if delta, ok := analysis.OddsDelta(); !ok || delta != 0 {
		t.Errorf("Expected a zero odds delta, got %f (%v)", delta, ok)
	}

	// Today, yesterday and one paired comparison for CAR at PIT
	if estimator.calls != 4 {
		t.Errorf("Expected 4 estimates, got %d", estimator.calls)
	}

	if analysis.MyResult == nil || analysis.MyResult.IdealLoser != "FLA" {
		t.Fatalf("Expected FLA as the ideal loser of our result, got %+v", analysis.MyResult)
	}
	if mood, err := analysis.MyResult.Mood(); err != nil || mood != MoodGreat {
		t.Errorf("Expected a Great regulation win, got %s (%v)", mood, err)
	}

	// EDM beating VAN can't matter and is dropped
	if len(analysis.Results) != 2 {
		t.Fatalf("Expected 2 relevant results, got %d", len(analysis.Results))
	}
	for _, result := range analysis.Results {
		if result.Game.Involves("VAN") {
			t.Errorf("Irrelevant game was kept: %+v", result.Game)
		}
	}

	bos := analysis.Results[0]
	if bos.IdealLoser != "BOS" || bos.Method != simulation.MethodConference {
		t.Errorf("Expected BOS by conference rule, got %s by %s", bos.IdealLoser, bos.Method)
	}
	if mood, _ := bos.Mood(); mood != MoodGood {
		t.Errorf("Expected Good for an overtime loss, got %s", mood)
	}

	car := analysis.Results[1]
	if car.Method != simulation.MethodSimulation || car.IdealLoser != "CAR" {
		t.Errorf("Expected CAR by simulation on equal odds, got %s by %s", car.IdealLoser, car.Method)
	}
	if mood, _ := car.Mood(); mood != MoodBad {
		t.Errorf("Expected Bad when the other team loses, got %s", mood)
	}

	if analysis.MyGame == nil {
		t.Fatal("Expected tonight's TOR game")
	}
	if cheer, _ := analysis.MyGame.CheerFor(); cheer != "TOR" {
		t.Errorf("Expected to cheer for TOR, got %s", cheer)
	}
	if len(analysis.Games) != 1 {
		t.Fatalf("Expected 1 other game tonight, got %d", len(analysis.Games))
	}
	if cheer, _ := analysis.Games[0].CheerFor(); cheer != "VAN" {
		t.Errorf("Expected to cheer for VAN, got %s", cheer)
	}

	if len(analysis.Playoffs) != 4 {
		t.Fatalf("Expected 4 playoff matchups, got %d", len(analysis.Playoffs))
	}
}

func TestAnalyzer_PerformWithoutPastStandings(t *testing.T) {
	logger, _ := test.NewNullLogger()
	data := snapshot()
	data.PastStandings = nil

	analyzer, err := NewAnalyzer(data, "TOR", &MockEstimator{}, Options{}, logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	analysis, err := analyzer.Perform(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := analysis.OddsDelta(); ok {
		t.Error("Expected no odds delta without past standings")
	}
}

func TestAnalyzer_PerformEstimatorError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	estimator := &MockEstimator{
		EstimateFunc: func(ctx context.Context, season *simulation.Season, teamID string) (simulation.Odds, error) {
			return simulation.Odds{}, simulation.ErrNoTrials
		},
	}

	analyzer, err := NewAnalyzer(snapshot(), "TOR", estimator, Options{}, logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := analyzer.Perform(context.Background()); !errors.Is(err, simulation.ErrNoTrials) {
		t.Errorf("Expected ErrNoTrials, got %v", err)
	}
}

func TestBuildSeeds(t *testing.T) {
	data := snapshot()
	seeds, err := BuildSeeds(data.ConferenceStandings("E", false), data.TeamsByID(), "A", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ids := func(group []Seed) []string {
		var out []string
		for _, seed := range group {
			out = append(out, seed.Record.TeamID)
		}
		return out
	}

	expect := map[string][]string{
		"own":      {"BOS", "TOR", "TBL"},
		"other":    {"NYR", "CAR", "PIT"},
		"wildcard": {"FLA", "NJD"},
	}
	got := map[string][]string{
		"own":      ids(seeds.OwnDivision),
		"other":    ids(seeds.OtherDivision),
		"wildcard": ids(seeds.Wildcard),
	}
	for group, want := range expect {
		if len(got[group]) != len(want) {
			t.Fatalf("Expected %s seeds %v, got %v", group, want, got[group])
		}
		for i := range want {
			if got[group][i] != want[i] {
				t.Errorf("Expected %s seeds %v, got %v", group, want, got[group])
			}
		}
	}
	if seeds.Wildcard[1].Seed != 2 {
		t.Errorf("Expected wildcard seeds numbered from 1, got %d", seeds.Wildcard[1].Seed)
	}

	if _, err := BuildSeeds([]league.Record{record("XYZ", 1, 1, 0, 0)}, data.TeamsByID(), "A", 3); !errors.Is(err, league.ErrTeamNotFound) {
		t.Errorf("Expected ErrTeamNotFound, got %v", err)
	}
}

func TestBuildBracket(t *testing.T) {
	seedsOf := func(records ...league.Record) []Seed {
		seeds := make([]Seed, len(records))
		for i, r := range records {
			seeds[i] = Seed{Seed: i + 1, Record: r}
		}
		return seeds
	}
	withPoints := func(id string, points int) league.Record {
		return league.Record{TeamID: id, Points: points}
	}

	seeds := Seeds{
		OwnDivision:   seedsOf(withPoints("D1", 95), withPoints("D2", 90), withPoints("D3", 88)),
		OtherDivision: seedsOf(withPoints("O1", 100), withPoints("O2", 92), withPoints("O3", 85)),
		Wildcard:      seedsOf(withPoints("WC1", 87), withPoints("WC2", 84), withPoints("X", 80)),
	}

	bracket, err := BuildBracket(seeds)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := [][2]string{{"O1", "WC2"}, {"D1", "WC1"}, {"D2", "D3"}, {"O2", "O3"}}
	if len(bracket) != len(expected) {
		t.Fatalf("Expected %d matchups, got %d", len(expected), len(bracket))
	}
	for i, pair := range expected {
		if bracket[i].High.TeamID != pair[0] || bracket[i].Low.TeamID != pair[1] {
			t.Errorf("Matchup %d: expected %s vs %s, got %s vs %s",
				i, pair[0], pair[1], bracket[i].High.TeamID, bracket[i].Low.TeamID)
		}
	}
}

func TestBuildBracket_Insufficient(t *testing.T) {
	full := []Seed{{Seed: 1}, {Seed: 2}, {Seed: 3}}

	tests := []struct {
		name  string
		seeds Seeds
	}{
		{"short division", Seeds{OwnDivision: full[:2], OtherDivision: full, Wildcard: full[:2]}},
		{"short wildcard", Seeds{OwnDivision: full, OtherDivision: full, Wildcard: full[:1]}},
		{"empty", Seeds{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildBracket(tt.seeds); !errors.Is(err, league.ErrInsufficientData) {
				t.Errorf("Expected ErrInsufficientData, got %v", err)
			}
		})
	}
}

func TestMatchup_Mood(t *testing.T) {
	tests := []struct {
		name     string
		game     league.Game
		loser    string
		expected Mood
	}{
		{"ideal loser in regulation", game("BOS", "TOR", 1, 4, 3), "BOS", MoodGreat},
		{"ideal loser in overtime", game("BOS", "TOR", 1, 2, 4), "BOS", MoodGood},
		{"ideal loser in shootout", game("BOS", "TOR", 1, 2, 5), "BOS", MoodGood},
		{"wrong loser", game("BOS", "TOR", 4, 1, 3), "BOS", MoodBad},
		{"wrong loser in overtime", game("BOS", "TOR", 2, 1, 4), "BOS", MoodBad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mood, err := Matchup{Game: tt.game, IsResult: true, IdealLoser: tt.loser}.Mood()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if mood != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, mood)
			}
		})
	}
}

func TestMatchup_Errors(t *testing.T) {
	stranger := Matchup{Game: game("BOS", "TOR", 1, 4, 3), IdealLoser: "MTL"}
	if _, err := stranger.CheerFor(); !errors.Is(err, league.ErrMalformedGame) {
		t.Errorf("Expected ErrMalformedGame from CheerFor, got %v", err)
	}
	if _, err := stranger.Mood(); !errors.Is(err, league.ErrMalformedGame) {
		t.Errorf("Expected ErrMalformedGame from Mood, got %v", err)
	}

	tied := Matchup{Game: game("BOS", "TOR", 0, 0, 0), IdealLoser: "BOS"}
	if _, err := tied.Mood(); !errors.Is(err, league.ErrMalformedGame) {
		t.Errorf("Expected ErrMalformedGame for an unplayed game, got %v", err)
	}
}
