package report

import (
	"fmt"
	"time"

	"github.com/sam-maryland/playoffs-mcp-server/internal/analysis"
	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
)

// UpcomingLimit is the number of upcoming games listed in a report
const UpcomingLimit = 10

const disclaimer = `This report is created by a program which simulates
the remainder of the season based on the current record of each team in the
league, and counts how many times the favourite team makes it into the playoffs.
The results may not always be accurate in cases where the outcome of a game does
not significantly affect the playoffs odds of the favourite team.`

// Generator renders an analysis as a markdown race report
type Generator struct {
	analysis *analysis.Analysis
	location *time.Location
}

// NewGenerator creates a generator that prints times in the given location
func NewGenerator(a *analysis.Analysis, location *time.Location) *Generator {
	if location == nil {
		location = time.UTC
	}
	return &Generator{analysis: a, location: location}
}

func formatVersus(game league.Game) string {
	return fmt.Sprintf("%s at %s", game.Away.TeamID, game.Home.TeamID)
}

func formatSeed(record league.Record) string {
	return fmt.Sprintf("%s (%d)", record.TeamID, record.ConferenceRank)
}

func (g *Generator) localTime(t time.Time) string {
	return t.In(g.location).Format("15:04")
}

func (g *Generator) localDate(t time.Time) string {
	return t.In(g.location).Format("Monday, January 02")
}

func (g *Generator) resultTable(matchups []analysis.Matchup) (*Table, error) {
	table := NewTable("Game", "Score", "Overtime")
	for _, m := range matchups {
		winner, err := m.Game.Winner()
		if err != nil {
			return nil, err
		}
		mood, err := m.Mood()
		if err != nil {
			return nil, err
		}
		score := fmt.Sprintf("%d-%d %s", m.Game.Home.Score, m.Game.Away.Score, winner)
		if err := table.Add(formatVersus(m.Game), score, string(mood)); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (g *Generator) gameTable(matchups []analysis.Matchup) (*Table, error) {
	table := NewTable("Game", "Cheer for", "Time")
	for _, m := range matchups {
		cheer, err := m.CheerFor()
		if err != nil {
			return nil, err
		}
		if err := table.Add(formatVersus(m.Game), cheer, g.localTime(m.Game.StartTime)); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (g *Generator) standingsTable(seeds []analysis.Seed, wildcard bool) (*Table, error) {
	table := NewTable("Place", "Team", "GP", "Record", "Points", "ROW", "L10", "P%", "P-82")
	for i, seed := range seeds {
		// Cut line below the last wildcard berth
		if wildcard && i == 2 {
			if err := table.Add("-", "-", "-", "-", "-", "-", "-", "-", "-"); err != nil {
				return nil, err
			}
		}

		r := seed.Record
		err := table.Add(
			fmt.Sprint(seed.Seed),
			r.TeamID,
			fmt.Sprint(r.GamesPlayed),
			r.Format(),
			fmt.Sprint(r.Points),
			fmt.Sprint(r.RegulationPlusOTWins),
			r.LastTenFormat(),
			r.PointPercent(),
			r.PointsPace(),
		)
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (g *Generator) playoffsTable() (*Table, error) {
	table := NewTable("High seed", "", "Low seed")
	for _, pm := range g.analysis.Playoffs {
		if err := table.Add(formatSeed(pm.High), "vs", formatSeed(pm.Low)); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (g *Generator) scheduleTable() (*Table, error) {
	table := NewTable("Away", "", "Home", "Date", "Time")
	for i, game := range g.analysis.Upcoming {
		if i == UpcomingLimit {
			break
		}
		err := table.Add(game.Away.TeamID, "at", game.Home.TeamID, g.localDate(game.StartTime), g.localTime(game.StartTime))
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (g *Generator) oddsParagraph() Paragraph {
	text := fmt.Sprintf("Playoffs odds today: %.1f%%", g.analysis.Odds.Probability()*100)
	if delta, ok := g.analysis.OddsDelta(); ok {
		text += fmt.Sprintf(" (%+.1f%% since yesterday)", delta*100)
	}
	return Paragraph(text)
}

// single wraps an optional matchup for the "our race" tables
func single(m *analysis.Matchup) []analysis.Matchup {
	if m == nil {
		return nil
	}
	return []analysis.Matchup{*m}
}

// Generate renders the full race report
func (g *Generator) Generate() (*Document, error) {
	doc := &Document{}
	doc.Add(H1(fmt.Sprintf("Playoffs race: %s", g.analysis.Target.ID)), g.oddsParagraph())

	// Last night
	doc.Add(H2("Last night's race"), List{"Our race:"})
	if mine := single(g.analysis.MyResult); mine != nil {
		table, err := g.resultTable(mine)
		if err != nil {
			return nil, fmt.Errorf("rendering our result: %w", err)
		}
		doc.Add(table)
	} else {
		doc.Add(Paragraph("Nothing"))
	}
	results, err := g.resultTable(g.analysis.Results)
	if err != nil {
		return nil, fmt.Errorf("rendering results: %w", err)
	}
	doc.Add(List{"Outside of town:"}, results)

	// Standings
	doc.Add(H2("Standings"))
	groups := []struct {
		seeds    []analysis.Seed
		wildcard bool
	}{
		{g.analysis.Seeds.OwnDivision, false},
		{g.analysis.Seeds.OtherDivision, false},
		{g.analysis.Seeds.Wildcard, true},
	}
	for _, group := range groups {
		table, err := g.standingsTable(group.seeds, group.wildcard)
		if err != nil {
			return nil, fmt.Errorf("rendering standings: %w", err)
		}
		doc.Add(table)
	}

	// Playoffs matchups
	playoffs, err := g.playoffsTable()
	if err != nil {
		return nil, fmt.Errorf("rendering playoffs: %w", err)
	}
	doc.Add(H2("Playoffs matchups"), playoffs)

	// Tonight
	doc.Add(H2("Tonight's race"), List{"Our race:"})
	if mine := single(g.analysis.MyGame); mine != nil {
		table, err := g.gameTable(mine)
		if err != nil {
			return nil, fmt.Errorf("rendering our game: %w", err)
		}
		doc.Add(table)
	} else {
		doc.Add(Paragraph("Nothing"))
	}
	games, err := g.gameTable(g.analysis.Games)
	if err != nil {
		return nil, fmt.Errorf("rendering games: %w", err)
	}
	doc.Add(List{"Outside of town:"}, games)

	// Schedule
	schedule, err := g.scheduleTable()
	if err != nil {
		return nil, fmt.Errorf("rendering schedule: %w", err)
	}
	doc.Add(H2("Upcoming schedule"), schedule)

	doc.Add(HR{}, H3("Disclaimer"), Paragraph(disclaimer))
	return doc, nil
}
