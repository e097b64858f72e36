package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/playoffs-mcp-server/internal/config"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl/nhltest"
	"github.com/sam-maryland/playoffs-mcp-server/internal/service"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestHandler(client nhl.Client) (*PlayoffsHandler, *test.Hook) {
	logger, hook := test.NewNullLogger()
	settings := config.Default()
	settings.Trials = 100
	settings.Workers = 2
	settings.Seed = 11

	svc := service.NewPlayoffsService(client, settings, logger, service.WithClock(func() time.Time {
		return nhltest.Today
	}))
	return NewPlayoffsHandler(svc, logger), hook
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content")
	}
	return textContent.Text
}

func TestPlayoffsHandler_Tools(t *testing.T) {
	handler, _ := newTestHandler(&nhltest.Client{})

	tests := []struct {
		tool     mcp.Tool
		name     string
		required []string
	}{
		{handler.GetPlayoffOddsTool(), "get_playoff_odds", []string{"team"}},
		{handler.AnalyzePlayoffRaceTool(), "analyze_playoff_race", []string{"team"}},
		{handler.GetPlayoffBracketTool(), "get_playoff_bracket", []string{"team"}},
		{handler.GetIdealOutcomeTool(), "get_ideal_outcome", []string{"team", "home", "away"}},
		{handler.GetRaceReportTool(), "get_race_report", []string{"team"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.name {
				t.Errorf("Expected tool name '%s', got '%s'", tt.name, tt.tool.Name)
			}
			if tt.tool.Description == "" {
				t.Error("Expected tool description to be set")
			}
			if tt.tool.InputSchema.Type != "object" {
				t.Errorf("Expected input schema type 'object', got '%s'", tt.tool.InputSchema.Type)
			}
			for _, key := range tt.required {
				prop, ok := tt.tool.InputSchema.Properties[key].(map[string]interface{})
				if !ok {
					t.Errorf("Expected %s property in input schema", key)
					continue
				}
				if prop["type"] != "string" || prop["required"] != true {
					t.Errorf("Expected %s to be a required string, got %v", key, prop)
				}
			}
		})
	}
}

func TestPlayoffsHandler_HandleGetPlayoffOdds(t *testing.T) {
	failing := nhltest.NewFixtureClient()
	failing.GetStandingsFunc = func(ctx context.Context, date time.Time) (*nhl.StandingsResponse, error) {
		return nil, &nhl.APIError{Message: "unavailable", StatusCode: http.StatusServiceUnavailable}
	}

	tests := []struct {
		name           string
		client         nhl.Client
		args           map[string]interface{}
		wantError      bool
		expectErrorMsg bool
	}{
		{
			name:   "successful request",
			client: nhltest.NewFixtureClient(),
			args:   map[string]interface{}{"team": "MTL", "trials": float64(50)},
		},
		{
			name:      "missing team",
			client:    nhltest.NewFixtureClient(),
			args:      map[string]interface{}{},
			wantError: true,
		},
		{
			name:      "invalid team type",
			client:    nhltest.NewFixtureClient(),
			args:      map[string]interface{}{"team": 123},
			wantError: true,
		},
		{
			name:      "fractional trials",
			client:    nhltest.NewFixtureClient(),
			args:      map[string]interface{}{"team": "MTL", "trials": 1.5},
			wantError: true,
		},
		{
			name:      "explicit zero trials",
			client:    nhltest.NewFixtureClient(),
			args:      map[string]interface{}{"team": "MTL", "trials": float64(0)},
			wantError: true,
		},
		{
			name:           "unknown team",
			client:         nhltest.NewFixtureClient(),
			args:           map[string]interface{}{"team": "XYZ"},
			expectErrorMsg: true,
		},
		{
			name:           "nhl api error",
			client:         failing,
			args:           map[string]interface{}{"team": "MTL"},
			expectErrorMsg: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, hook := newTestHandler(tt.client)

			result, err := handler.HandleGetPlayoffOdds(context.Background(), tt.args)

			// Check error expectation
			if tt.wantError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if tt.expectErrorMsg != result.IsError {
				t.Errorf("Expected IsError %v, got %v", tt.expectErrorMsg, result.IsError)
			}
			text := resultText(t, result)
			if tt.expectErrorMsg {
				if !strings.HasPrefix(text, "Failed to estimate playoff odds") {
					t.Errorf("Unexpected error text: %s", text)
				}
				return
			}

			var response APIResponse
			if err := json.Unmarshal([]byte(text), &response); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if !response.Success || response.Metadata.Team != "MTL" || response.Metadata.Trials != 50 {
				t.Errorf("Unexpected response: %+v", response)
			}
			if !strings.HasPrefix(response.Summary, "MTL playoff odds:") {
				t.Errorf("Unexpected summary: %s", response.Summary)
			}

			// Check logging
			if len(hook.Entries) == 0 {
				t.Error("Expected log entries for successful request")
			}
		})
	}
}

func TestTrialsArg(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]interface{}
		want      int
		wantError error
	}{
		{"absent uses default", map[string]interface{}{}, 0, nil},
		{"null uses default", map[string]interface{}{"trials": nil}, 0, nil},
		{"explicit count", map[string]interface{}{"trials": float64(500)}, 500, nil},
		{"explicit zero", map[string]interface{}{"trials": float64(0)}, 0, simulation.ErrNoTrials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := trialsArg(tt.args)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("Expected %v, got %v", tt.wantError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d trials, got %d", tt.want, got)
			}
		})
	}

	if _, err := trialsArg(map[string]interface{}{"trials": -3.0}); err == nil {
		t.Error("Expected error for negative trials")
	}
}

func TestPlayoffsHandler_HandleAnalyzePlayoffRace(t *testing.T) {
	handler, _ := newTestHandler(nhltest.NewFixtureClient())

	result, err := handler.HandleAnalyzePlayoffRace(context.Background(), map[string]interface{}{"team": "mtl"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected successful result, got %s", resultText(t, result))
	}

	var response struct {
		Data struct {
			Target   struct{ ID string } `json:"target"`
			Results  []json.RawMessage   `json:"results"`
			Games    []json.RawMessage   `json:"games"`
			Playoffs []json.RawMessage   `json:"playoffs"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Data.Target.ID != "MTL" {
		t.Errorf("Expected target MTL, got %s", response.Data.Target.ID)
	}
	if len(response.Data.Results) != 1 || len(response.Data.Games) != 2 || len(response.Data.Playoffs) != 4 {
		t.Errorf("Unexpected analysis sizes: %d results, %d games, %d playoffs",
			len(response.Data.Results), len(response.Data.Games), len(response.Data.Playoffs))
	}
}

func TestPlayoffsHandler_HandleGetPlayoffBracket(t *testing.T) {
	handler, _ := newTestHandler(nhltest.NewFixtureClient())

	result, err := handler.HandleGetPlayoffBracket(context.Background(), map[string]interface{}{"team": "MTL"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected successful result, got %s", resultText(t, result))
	}

	var response APIResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !strings.Contains(response.Summary, "BOS vs NJD;") || !strings.Contains(response.Summary, "NYR vs FLA;") {
		t.Errorf("Unexpected summary: %s", response.Summary)
	}
}

func TestPlayoffsHandler_HandleGetIdealOutcome(t *testing.T) {
	tests := []struct {
		name           string
		args           map[string]interface{}
		wantError      bool
		expectErrorMsg bool
		wantSummary    string
		wantTrials     int
	}{
		{
			name:        "conference rival",
			args:        map[string]interface{}{"team": "MTL", "home": "TOR", "away": "EDM"},
			wantSummary: "Cheer for EDM, TOR should lose (conference)",
			wantTrials:  100,
		},
		{
			name:        "requested trials",
			args:        map[string]interface{}{"team": "MTL", "home": "TOR", "away": "EDM", "trials": float64(25)},
			wantSummary: "Cheer for EDM, TOR should lose (conference)",
			wantTrials:  25,
		},
		{
			name:      "zero trials",
			args:      map[string]interface{}{"team": "MTL", "home": "TOR", "away": "EDM", "trials": float64(0)},
			wantError: true,
		},
		{
			name:           "irrelevant game",
			args:           map[string]interface{}{"team": "MTL", "home": "VAN", "away": "EDM"},
			expectErrorMsg: true,
		},
		{
			name:      "missing away",
			args:      map[string]interface{}{"team": "MTL", "home": "TOR"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler(nhltest.NewFixtureClient())

			result, err := handler.HandleGetIdealOutcome(context.Background(), tt.args)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.expectErrorMsg != result.IsError {
				t.Fatalf("Expected IsError %v, got %v: %s", tt.expectErrorMsg, result.IsError, resultText(t, result))
			}
			if tt.expectErrorMsg {
				return
			}

			var response APIResponse
			if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if response.Summary != tt.wantSummary {
				t.Errorf("Expected summary %q, got %q", tt.wantSummary, response.Summary)
			}
			if response.Metadata.Trials != tt.wantTrials {
				t.Errorf("Expected %d trials in metadata, got %d", tt.wantTrials, response.Metadata.Trials)
			}
		})
	}
}

func TestPlayoffsHandler_HandleGetRaceReport(t *testing.T) {
	handler, _ := newTestHandler(nhltest.NewFixtureClient())

	result, err := handler.HandleGetRaceReport(context.Background(), map[string]interface{}{"team": "MTL"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected successful result, got %s", resultText(t, result))
	}

	text := resultText(t, result)
	for _, want := range []string{"# Playoffs race: MTL", "## Standings", "## Upcoming schedule"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}
