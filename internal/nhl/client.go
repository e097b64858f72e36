package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	BaseURL        = "https://api-web.nhle.com/v1"
	DefaultTimeout = 10 * time.Second

	dateLayout = "2006-01-02"
)

// Client defines the interface for interacting with the NHL web API
type Client interface {
	// League methods
	GetStandings(ctx context.Context, date time.Time) (*StandingsResponse, error)
	GetScores(ctx context.Context, date time.Time) (*ScoreResponse, error)

	// Team methods
	GetTeamSchedule(ctx context.Context, teamID string) (*ScheduleResponse, error)
}

// HTTPClient implements the Client interface using HTTP requests
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewHTTPClient creates a new HTTP client for the NHL API. An empty base URL
// or a zero timeout fall back to the defaults.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// makeRequest performs an HTTP GET request to the NHL API
func (c *HTTPClient) makeRequest(ctx context.Context, endpoint string, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	c.logger.WithField("url", url).Debug("Making API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("HTTP request failed")
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(body),
		}).Error("API request failed")

		return newAPIError(endpoint, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		c.logger.WithError(err).WithField("body", string(body)).Error("Failed to unmarshal response")
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("API request completed successfully")
	return nil
}

// GetStandings retrieves the league standings as of the given date
func (c *HTTPClient) GetStandings(ctx context.Context, date time.Time) (*StandingsResponse, error) {
	endpoint := fmt.Sprintf("/standings/%s", date.Format(dateLayout))
	var standings StandingsResponse

	if err := c.makeRequest(ctx, endpoint, &standings); err != nil {
		return nil, fmt.Errorf("failed to get standings for %s: %w", date.Format(dateLayout), err)
	}

	return &standings, nil
}

// GetScores retrieves every game played or scheduled on the given date
func (c *HTTPClient) GetScores(ctx context.Context, date time.Time) (*ScoreResponse, error) {
	endpoint := fmt.Sprintf("/score/%s", date.Format(dateLayout))
	var scores ScoreResponse

	if err := c.makeRequest(ctx, endpoint, &scores); err != nil {
		return nil, fmt.Errorf("failed to get scores for %s: %w", date.Format(dateLayout), err)
	}

	return &scores, nil
}

// GetTeamSchedule retrieves a team's schedule for the current season
func (c *HTTPClient) GetTeamSchedule(ctx context.Context, teamID string) (*ScheduleResponse, error) {
	endpoint := fmt.Sprintf("/club-schedule-season/%s/now", strings.ToUpper(teamID))
	var schedule ScheduleResponse

	if err := c.makeRequest(ctx, endpoint, &schedule); err != nil {
		return nil, fmt.Errorf("failed to get schedule for %s: %w", teamID, err)
	}

	return &schedule, nil
}
