package main

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/playoffs-mcp-server/internal/config"
	"github.com/sam-maryland/playoffs-mcp-server/internal/mcp"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
	"github.com/sam-maryland/playoffs-mcp-server/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	// stdout carries the MCP protocol
	logger.SetOutput(os.Stderr)

	settings, err := config.Load(os.Getenv("PLAYOFFS_CONFIG"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to load settings")
	}
	logger.SetLevel(settings.Level())

	client := nhl.NewHTTPClient(settings.NHL.BaseURL, settings.NHL.Timeout, logger)
	svc := service.NewPlayoffsService(client, settings, logger)

	mcpServer := mcp.NewPlayoffsMCPServer(svc, logger)
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.Info("Starting NHL Playoffs MCP Server...")

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
		os.Exit(1)
	}
}
