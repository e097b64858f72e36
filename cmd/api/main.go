package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sam-maryland/playoffs-mcp-server/internal/api"
	"github.com/sam-maryland/playoffs-mcp-server/internal/config"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
	"github.com/sam-maryland/playoffs-mcp-server/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	settings, err := config.Load(os.Getenv("PLAYOFFS_CONFIG"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to load settings")
	}
	logger.SetLevel(settings.Level())

	client := nhl.NewHTTPClient(settings.NHL.BaseURL, settings.NHL.Timeout, logger)
	svc := service.NewPlayoffsService(client, settings, logger)

	srv := &http.Server{
		Addr:              settings.APIAddr,
		Handler:           api.NewServer(svc, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", settings.APIAddr).Info("Starting NHL Playoffs API...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
