package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/service"
	"github.com/sirupsen/logrus"
)

const source = "nhl_api"

// PlayoffsHandler handles playoff race MCP tools
type PlayoffsHandler struct {
	service *service.PlayoffsService
	logger  *logrus.Logger
}

// NewPlayoffsHandler creates a new playoffs handler
func NewPlayoffsHandler(svc *service.PlayoffsService, logger *logrus.Logger) *PlayoffsHandler {
	return &PlayoffsHandler{
		service: svc,
		logger:  logger,
	}
}

func teamProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Three letter team abbreviation, e.g. MTL",
		"required":    true,
	}
}

func trialsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Number of simulated seasons per estimate (default: configured value, usually 50000)",
		"required":    false,
	}
}

// GetPlayoffOddsTool returns the MCP tool definition for get_playoff_odds
func (h *PlayoffsHandler) GetPlayoffOddsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_playoff_odds",
		Description: "Estimate a team's playoff odds by simulating the rest of the season, today and as of yesterday",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"team":   teamProperty(),
				"trials": trialsProperty(),
			},
		},
	}
}

// HandleGetPlayoffOdds handles the get_playoff_odds tool call
func (h *PlayoffsHandler) HandleGetPlayoffOdds(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_playoff_odds")

	// Parse arguments
	team, err := requiredString(args, "team")
	if err != nil {
		return nil, err
	}
	trials, err := trialsArg(args)
	if err != nil {
		return nil, err
	}

	odds, err := h.service.Odds(ctx, team, trials)
	if err != nil {
		h.logger.WithError(err).Error("Failed to estimate playoff odds")
		return errorResult("Failed to estimate playoff odds: %s", err.Error()), nil
	}

	summary := fmt.Sprintf("%s playoff odds: %.1f%%", odds.Team.ID, odds.Today.Probability()*100)
	if odds.Delta != nil {
		summary += fmt.Sprintf(" (%+.1f%% since yesterday)", *odds.Delta*100)
	}

	return jsonResult(APIResponse{
		Success: true,
		Data:    odds,
		Summary: summary,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Source:    source,
			Team:      odds.Team.ID,
			Trials:    odds.Today.Trials,
		},
	}), nil
}

// AnalyzePlayoffRaceTool returns the MCP tool definition for analyze_playoff_race
func (h *PlayoffsHandler) AnalyzePlayoffRaceTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_playoff_race",
		Description: "Full playoff race analysis: odds, last night's results with mood, tonight's games with who to cheer for, seeds and the first round bracket",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"team":   teamProperty(),
				"trials": trialsProperty(),
			},
		},
	}
}

// HandleAnalyzePlayoffRace handles the analyze_playoff_race tool call
func (h *PlayoffsHandler) HandleAnalyzePlayoffRace(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling analyze_playoff_race")

	// Parse arguments
	team, err := requiredString(args, "team")
	if err != nil {
		return nil, err
	}
	trials, err := trialsArg(args)
	if err != nil {
		return nil, err
	}

	result, err := h.service.Analyze(ctx, team, trials)
	if err != nil {
		h.logger.WithError(err).Error("Failed to analyze playoff race")
		return errorResult("Failed to analyze playoff race: %s", err.Error()), nil
	}

	return jsonResult(APIResponse{
		Success: true,
		Data:    result,
		Summary: fmt.Sprintf("%s playoff odds %.1f%%, %d relevant results, %d relevant games tonight",
			result.Target.ID, result.Odds.Probability()*100, len(result.Results), len(result.Games)),
		Metadata: Metadata{
			Timestamp: time.Now(),
			Source:    source,
			Team:      result.Target.ID,
			Trials:    result.Odds.Trials,
		},
	}), nil
}

// GetPlayoffBracketTool returns the MCP tool definition for get_playoff_bracket
func (h *PlayoffsHandler) GetPlayoffBracketTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_playoff_bracket",
		Description: "Division and wildcard seeds of a team's conference and the first round bracket if the season ended today",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"team": teamProperty(),
			},
		},
	}
}

// HandleGetPlayoffBracket handles the get_playoff_bracket tool call
func (h *PlayoffsHandler) HandleGetPlayoffBracket(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_playoff_bracket")

	// Parse arguments
	team, err := requiredString(args, "team")
	if err != nil {
		return nil, err
	}

	bracket, err := h.service.Bracket(ctx, team)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build playoff bracket")
		return errorResult("Failed to build playoff bracket: %s", err.Error()), nil
	}

	summary := fmt.Sprintf("%s conference first round:", bracket.Team.ConferenceID)
	for _, pm := range bracket.Playoffs {
		summary += fmt.Sprintf(" %s vs %s;", pm.High.TeamID, pm.Low.TeamID)
	}

	return jsonResult(APIResponse{
		Success: true,
		Data:    bracket,
		Summary: summary,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Source:    source,
			Team:      bracket.Team.ID,
		},
	}), nil
}

// GetIdealOutcomeTool returns the MCP tool definition for get_ideal_outcome
func (h *PlayoffsHandler) GetIdealOutcomeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_ideal_outcome",
		Description: "Decide which team a fan should root against in a game between two teams, simulating both outcomes when both are conference rivals",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"team": teamProperty(),
				"home": map[string]interface{}{
					"type":        "string",
					"description": "Home team abbreviation",
					"required":    true,
				},
				"away": map[string]interface{}{
					"type":        "string",
					"description": "Away team abbreviation",
					"required":    true,
				},
				"trials": trialsProperty(),
			},
		},
	}
}

// HandleGetIdealOutcome handles the get_ideal_outcome tool call
func (h *PlayoffsHandler) HandleGetIdealOutcome(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_ideal_outcome")

	// Parse arguments
	team, err := requiredString(args, "team")
	if err != nil {
		return nil, err
	}
	home, err := requiredString(args, "home")
	if err != nil {
		return nil, err
	}
	away, err := requiredString(args, "away")
	if err != nil {
		return nil, err
	}
	trials, err := trialsArg(args)
	if err != nil {
		return nil, err
	}

	matchup, err := h.service.IdealOutcome(ctx, team, home, away, trials)
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve ideal outcome")
		return errorResult("Failed to resolve ideal outcome: %s", err.Error()), nil
	}

	cheer, err := matchup.CheerFor()
	if err != nil {
		return errorResult("Failed to resolve ideal outcome: %s", err.Error()), nil
	}

	return jsonResult(APIResponse{
		Success: true,
		Data:    matchup,
		Summary: fmt.Sprintf("Cheer for %s, %s should lose (%s)", cheer, matchup.IdealLoser, matchup.Method),
		Metadata: Metadata{
			Timestamp: time.Now(),
			Source:    source,
			Team:      league.NormalizeID(team),
			Trials:    h.service.Trials(trials),
		},
	}), nil
}

// GetRaceReportTool returns the MCP tool definition for get_race_report
func (h *PlayoffsHandler) GetRaceReportTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_race_report",
		Description: "Markdown playoff race report: odds, results, standings, bracket, tonight's games and upcoming schedule",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"team": teamProperty(),
			},
		},
	}
}

// HandleGetRaceReport handles the get_race_report tool call
func (h *PlayoffsHandler) HandleGetRaceReport(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_race_report")

	// Parse arguments
	team, err := requiredString(args, "team")
	if err != nil {
		return nil, err
	}

	markdown, err := h.service.Report(ctx, team)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render race report")
		return errorResult("Failed to render race report: %s", err.Error()), nil
	}

	return textResult(markdown), nil
}
