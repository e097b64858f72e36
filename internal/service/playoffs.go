package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sam-maryland/playoffs-mcp-server/internal/analysis"
	"github.com/sam-maryland/playoffs-mcp-server/internal/config"
	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
	"github.com/sam-maryland/playoffs-mcp-server/internal/report"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
	"github.com/sirupsen/logrus"
)

// OddsReport holds a team's playoff odds today and yesterday
type OddsReport struct {
	Team      league.Team      `json:"team"`
	Today     simulation.Odds  `json:"today"`
	Yesterday *simulation.Odds `json:"yesterday,omitempty"`
	Delta     *float64         `json:"delta,omitempty"`
}

// BracketReport holds the seeds and first round built from current standings
type BracketReport struct {
	Team     league.Team               `json:"team"`
	Seeds    analysis.Seeds            `json:"seeds"`
	Playoffs []analysis.PlayoffMatchup `json:"playoffs"`
}

// TeamReport is the outcome of rendering one team's race report
type TeamReport struct {
	TeamID   string `json:"team_id"`
	Markdown string `json:"markdown,omitempty"`
	Err      error  `json:"-"`
}

// PlayoffsService loads league data and runs playoff race analyses
type PlayoffsService struct {
	loader    *nhl.Loader
	estimator *simulation.Estimator
	options   analysis.Options
	location  *time.Location
	logger    *logrus.Logger
	clock     func() time.Time
}

// Option customizes a PlayoffsService
type Option func(*PlayoffsService)

// WithClock replaces the clock that decides which day is today
func WithClock(clock func() time.Time) Option {
	return func(s *PlayoffsService) {
		s.clock = clock
	}
}

// NewPlayoffsService creates a service backed by the given NHL client
func NewPlayoffsService(client nhl.Client, settings *config.Settings, logger *logrus.Logger, opts ...Option) *PlayoffsService {
	s := &PlayoffsService{
		loader:    nhl.NewLoader(client, logger),
		estimator: simulation.NewEstimator(settings.EstimatorConfig(), logger),
		options: analysis.Options{
			SeasonLength: settings.SeasonLength,
			Format:       settings.Format,
		},
		location: settings.Location(),
		logger:   logger,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PlayoffsService) today() time.Time {
	return s.clock().In(s.location)
}

// estimatorFor returns the configured estimator, or a copy running the
// requested number of trials when trials is positive
func (s *PlayoffsService) estimatorFor(trials int) *simulation.Estimator {
	if trials > 0 {
		return s.estimator.WithTrials(trials)
	}
	return s.estimator
}

// Trials returns how many trials an estimate asked for the requested count runs
func (s *PlayoffsService) Trials(requested int) int {
	return s.estimatorFor(requested).Config().Trials
}

// Snapshot loads the league snapshot used for analyses
func (s *PlayoffsService) Snapshot(ctx context.Context) (*league.Snapshot, error) {
	return s.loader.Snapshot(ctx, s.today())
}

// withUpcoming returns a copy of the snapshot carrying the team's upcoming
// schedule. A schedule that fails to load is logged and left empty.
func (s *PlayoffsService) withUpcoming(ctx context.Context, snapshot *league.Snapshot, teamID string) *league.Snapshot {
	scoped := *snapshot
	upcoming, err := s.loader.Upcoming(ctx, teamID, s.clock())
	if err != nil {
		s.logger.WithError(err).WithField("team", teamID).Warn("Failed to load upcoming schedule")
		return &scoped
	}
	scoped.Upcoming = upcoming
	return &scoped
}

func (s *PlayoffsService) analyzer(snapshot *league.Snapshot, teamID string, trials int) (*analysis.Analyzer, error) {
	return analysis.NewAnalyzer(snapshot, teamID, s.estimatorFor(trials), s.options, s.logger)
}

// Odds estimates a team's playoff odds today and yesterday
func (s *PlayoffsService) Odds(ctx context.Context, teamID string, trials int) (*OddsReport, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	analyzer, err := s.analyzer(snapshot, teamID, trials)
	if err != nil {
		return nil, err
	}

	today, err := analyzer.Odds(ctx, false)
	if err != nil {
		return nil, err
	}
	result := &OddsReport{Team: analyzer.Target(), Today: today}

	if len(snapshot.PastStandings) > 0 {
		yesterday, err := analyzer.Odds(ctx, true)
		if err != nil {
			return nil, err
		}
		delta := today.Probability() - yesterday.Probability()
		result.Yesterday = &yesterday
		result.Delta = &delta
	}
	return result, nil
}

// Analyze runs the full playoff race analysis for a team
func (s *PlayoffsService) Analyze(ctx context.Context, teamID string, trials int) (*analysis.Analysis, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, snapshot, teamID, trials)
}

func (s *PlayoffsService) analyze(ctx context.Context, snapshot *league.Snapshot, teamID string, trials int) (*analysis.Analysis, error) {
	// Resolve the team first so a typo does not cost a schedule request
	team, err := snapshot.TeamByID(teamID)
	if err != nil {
		return nil, err
	}
	analyzer, err := s.analyzer(s.withUpcoming(ctx, snapshot, team.ID), team.ID, trials)
	if err != nil {
		return nil, err
	}
	return analyzer.Perform(ctx)
}

// Bracket builds a team's conference seeds and first round from current
// standings, without simulating anything
func (s *PlayoffsService) Bracket(ctx context.Context, teamID string) (*BracketReport, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	analyzer, err := s.analyzer(snapshot, teamID, 0)
	if err != nil {
		return nil, err
	}

	seeds, err := analyzer.Seeds()
	if err != nil {
		return nil, err
	}
	playoffs, err := analysis.BuildBracket(seeds)
	if err != nil {
		return nil, err
	}
	return &BracketReport{Team: analyzer.Target(), Seeds: seeds, Playoffs: playoffs}, nil
}

// IdealOutcome picks the team the target should root against in a game
// between home and away, starting from today's standings
func (s *PlayoffsService) IdealOutcome(ctx context.Context, teamID, homeID, awayID string, trials int) (*analysis.Matchup, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	analyzer, err := s.analyzer(snapshot, teamID, trials)
	if err != nil {
		return nil, err
	}

	home, err := snapshot.TeamByID(homeID)
	if err != nil {
		return nil, err
	}
	away, err := snapshot.TeamByID(awayID)
	if err != nil {
		return nil, err
	}
	if home.ID == away.ID {
		return nil, fmt.Errorf("%w: %s cannot play itself", league.ErrMalformedGame, home.ID)
	}

	game := league.Game{
		Home: league.GameTeam{TeamID: home.ID},
		Away: league.GameTeam{TeamID: away.ID},
	}
	matchup, err := analyzer.Resolve(ctx, game, false)
	if err != nil {
		return nil, err
	}
	return &matchup, nil
}

// Report renders a team's race report as markdown
func (s *PlayoffsService) Report(ctx context.Context, teamID string) (string, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return s.render(ctx, snapshot, teamID)
}

func (s *PlayoffsService) render(ctx context.Context, snapshot *league.Snapshot, teamID string) (string, error) {
	result, err := s.analyze(ctx, snapshot, teamID, 0)
	if err != nil {
		return "", err
	}
	doc, err := report.NewGenerator(result, s.location).Generate()
	if err != nil {
		return "", fmt.Errorf("rendering report for %s: %w", teamID, err)
	}
	return doc.String(), nil
}

// ReportAll renders a report for every team from a single snapshot. A team
// that fails is recorded in its TeamReport and does not stop the others.
func (s *PlayoffsService) ReportAll(ctx context.Context, teamIDs []string) ([]TeamReport, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]TeamReport, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		markdown, err := s.render(ctx, snapshot, teamID)
		if err != nil {
			s.logger.WithError(err).WithField("team", teamID).Error("Failed to render race report")
		}
		reports = append(reports, TeamReport{TeamID: league.NormalizeID(teamID), Markdown: markdown, Err: err})
	}
	return reports, nil
}
