package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sam-maryland/playoffs-mcp-server/internal/config"
	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl/nhltest"
	"github.com/sam-maryland/playoffs-mcp-server/internal/service"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestServer(t *testing.T, client nhl.Client) *httptest.Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	settings := config.Default()
	settings.Trials = 100
	settings.Workers = 2
	settings.Seed = 5

	svc := service.NewPlayoffsService(client, settings, logger, service.WithClock(func() time.Time {
		return nhltest.Today
	}))
	server := httptest.NewServer(NewServer(svc, logger).Router())
	t.Cleanup(server.Close)
	return server
}

func TestServer_Routes(t *testing.T) {
	failing := nhltest.NewFixtureClient()
	failing.GetScoresFunc = func(ctx context.Context, date time.Time) (*nhl.ScoreResponse, error) {
		return nil, &nhl.APIError{Message: "bad gateway", StatusCode: http.StatusBadGateway}
	}

	tests := []struct {
		name        string
		client      nhl.Client
		method      string
		path        string
		wantStatus  int
		wantType    string
		wantContent string
	}{
		{"health", nhltest.NewFixtureClient(), http.MethodGet, "/healthz", http.StatusOK, "application/json", `"ok"`},
		{"odds", nhltest.NewFixtureClient(), http.MethodGet, "/teams/MTL/odds?trials=40", http.StatusOK, "application/json", `"trials":40`},
		{"analysis", nhltest.NewFixtureClient(), http.MethodGet, "/teams/mtl/analysis", http.StatusOK, "application/json", `"ideal_loser":"TOR"`},
		{"bracket", nhltest.NewFixtureClient(), http.MethodGet, "/teams/MTL/bracket", http.StatusOK, "application/json", `"high_seed"`},
		{"report", nhltest.NewFixtureClient(), http.MethodGet, "/teams/MTL/report", http.StatusOK, "text/markdown; charset=utf-8", "# Playoffs race: MTL"},
		{"unknown team", nhltest.NewFixtureClient(), http.MethodGet, "/teams/XYZ/odds", http.StatusNotFound, "application/json", "team not found"},
		{"bad trials", nhltest.NewFixtureClient(), http.MethodGet, "/teams/MTL/odds?trials=zero", http.StatusUnprocessableEntity, "application/json", "trials"},
		{"upstream failure", failing, http.MethodGet, "/teams/MTL/bracket", http.StatusBadGateway, "application/json", "bad gateway"},
		{"wrong method", nhltest.NewFixtureClient(), http.MethodPost, "/teams/MTL/odds", http.StatusMethodNotAllowed, "application/json", "POST is not allowed"},
		{"unknown route", nhltest.NewFixtureClient(), http.MethodGet, "/teams/MTL/roster", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.client)

			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("Failed to build request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantType != "" && resp.Header.Get("Content-Type") != tt.wantType {
				t.Errorf("Expected content type %s, got %s", tt.wantType, resp.Header.Get("Content-Type"))
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("Failed to read body: %v", err)
			}
			if !strings.Contains(string(body), tt.wantContent) {
				t.Errorf("Expected body to contain %q, got %s", tt.wantContent, body)
			}
		})
	}
}

func TestServer_ErrorBody(t *testing.T) {
	server := newTestServer(t, nhltest.NewFixtureClient())

	resp, err := http.Get(server.URL + "/teams/XYZ/bracket")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Status != http.StatusNotFound || body.Error == "" {
		t.Errorf("Unexpected error body %+v", body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&league.LookupError{Kind: "team", Key: "XYZ"}, http.StatusNotFound},
		{league.Insufficient("no standings"), http.StatusUnprocessableEntity},
		{fmt.Errorf("estimating: %w", simulation.ErrNoTrials), http.StatusUnprocessableEntity},
		{simulation.ErrIrrelevantGame, http.StatusUnprocessableEntity},
		{fmt.Errorf("loading: %w", &nhl.APIError{StatusCode: 500}), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
