package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/playoffs-mcp-server/internal/handlers"
	"github.com/sam-maryland/playoffs-mcp-server/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	ServerName    = "NHL Playoffs Race"
	ServerVersion = "1.0.0"
)

// router dispatches MCP tool calls to the playoffs handler
type router struct {
	handler *handlers.PlayoffsHandler
	logger  *logrus.Logger
}

func newRouter(svc *service.PlayoffsService, logger *logrus.Logger) *router {
	return &router{
		handler: handlers.NewPlayoffsHandler(svc, logger),
		logger:  logger,
	}
}

func (r *router) listTools(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
	tools := []mcp.Tool{
		r.handler.GetPlayoffOddsTool(),
		r.handler.AnalyzePlayoffRaceTool(),
		r.handler.GetPlayoffBracketTool(),
		r.handler.GetIdealOutcomeTool(),
		r.handler.GetRaceReportTool(),
	}

	r.logger.WithField("tools_count", len(tools)).Info("Listing available tools")

	return &mcp.ListToolsResult{
		Tools: tools,
	}, nil
}

func (r *router) callTool(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	r.logger.WithFields(logrus.Fields{
		"tool": name,
		"args": arguments,
	}).Info("Tool called")

	// Route to specific tool handlers
	switch name {
	case "get_playoff_odds":
		return r.handler.HandleGetPlayoffOdds(ctx, arguments)
	case "analyze_playoff_race":
		return r.handler.HandleAnalyzePlayoffRace(ctx, arguments)
	case "get_playoff_bracket":
		return r.handler.HandleGetPlayoffBracket(ctx, arguments)
	case "get_ideal_outcome":
		return r.handler.HandleGetIdealOutcome(ctx, arguments)
	case "get_race_report":
		return r.handler.HandleGetRaceReport(ctx, arguments)
	default:
		r.logger.WithField("tool", name).Warn("Unknown tool called")
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Type: "text",
					Text: "Unknown tool: " + name,
				},
			},
			IsError: true,
		}, nil
	}
}

// NewPlayoffsMCPServer creates an MCP server exposing the playoff race tools
func NewPlayoffsMCPServer(svc *service.PlayoffsService, logger *logrus.Logger) *server.DefaultServer {
	r := newRouter(svc, logger)

	// Create MCP server
	s := server.NewDefaultServer(ServerName, ServerVersion)

	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	s.HandleListTools(r.listTools)
	s.HandleCallTool(r.callTool)

	logger.Info("All tools registered successfully")
	return s
}
