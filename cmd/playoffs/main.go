package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sam-maryland/playoffs-mcp-server/internal/config"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
	"github.com/sam-maryland/playoffs-mcp-server/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the settings file")
		teams      = flag.String("team", "", "comma separated team abbreviations, overrides the configured teams")
		trials     = flag.Int("trials", 0, "number of simulated seasons per estimate")
		seed       = flag.Uint64("seed", 0, "random seed, 0 draws a fresh one")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	settings, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load settings")
	}
	logger.SetLevel(settings.Level())

	if *teams != "" {
		settings.Teams = strings.Split(*teams, ",")
	}
	if *trials > 0 {
		settings.Trials = *trials
	}
	if *seed != 0 {
		settings.Seed = *seed
	}

	client := nhl.NewHTTPClient(settings.NHL.BaseURL, settings.NHL.Timeout, logger)
	svc := service.NewPlayoffsService(client, settings, logger)

	reports, err := svc.ReportAll(context.Background(), settings.Teams)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build reports")
	}

	failed := 0
	for _, report := range reports {
		if report.Err != nil {
			failed++
			logger.WithError(report.Err).WithField("team", report.TeamID).Error("Failed to build report")
			continue
		}
		fmt.Println(report.Markdown)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
