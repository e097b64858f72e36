package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// SettingsFile is the name of the settings file looked up under configs/
const SettingsFile = "playoffs.yaml"

// Settings holds the runtime configuration of every entry point
type Settings struct {
	// Teams are the favourite teams reports are produced for
	Teams        []string          `yaml:"teams" env:"PLAYOFFS_TEAMS" envSeparator:","`
	Trials       int               `yaml:"trials" env:"PLAYOFFS_TRIALS"`
	Workers      int               `yaml:"workers" env:"PLAYOFFS_WORKERS"`
	Seed         uint64            `yaml:"seed" env:"PLAYOFFS_SEED"`
	Timezone     string            `yaml:"timezone" env:"PLAYOFFS_TIMEZONE"`
	SeasonLength int               `yaml:"season_length"`
	Format       simulation.Format `yaml:"format"`
	LogLevel     string            `yaml:"log_level" env:"PLAYOFFS_LOG_LEVEL"`
	APIAddr      string            `yaml:"api_addr" env:"PLAYOFFS_API_ADDR"`
	NHL          NHLSettings       `yaml:"nhl"`
}

// NHLSettings configures the NHL API client
type NHLSettings struct {
	BaseURL string        `yaml:"base_url" env:"NHL_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"NHL_TIMEOUT"`
}

// Default returns the settings used when no file or environment overrides exist
func Default() *Settings {
	return &Settings{
		Teams:        []string{"MTL"},
		Trials:       simulation.DefaultTrials,
		Timezone:     "America/Toronto",
		SeasonLength: league.SeasonLength,
		Format:       simulation.DefaultFormat,
		LogLevel:     "info",
		APIAddr:      ":8080",
		NHL: NHLSettings{
			BaseURL: nhl.BaseURL,
			Timeout: nhl.DefaultTimeout,
		},
	}
}

// Load reads settings from path, or from the first configs/playoffs.yaml found
// when path is empty, then applies environment overrides. Missing files fall
// back to the defaults.
func Load(path string) (*Settings, error) {
	settings := Default()

	data, foundPath, err := readSettingsFile(path)
	if err != nil {
		return nil, err
	}
	if foundPath != "" {
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings from %s: %w", foundPath, err)
		}
	}

	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	settings.normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func readSettingsFile(path string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read settings from %s: %w", path, err)
		}
		return data, path, nil
	}

	// Try to find the config file relative to the working directory
	configPaths := []string{
		"configs/" + SettingsFile,
		"../configs/" + SettingsFile,
		"../../configs/" + SettingsFile,
	}

	for _, candidate := range configPaths {
		if _, err := os.Stat(candidate); err == nil {
			data, readErr := os.ReadFile(candidate)
			if readErr == nil {
				return data, candidate, nil
			}
		}
	}

	return nil, "", nil
}

func (s *Settings) normalize() {
	teams := s.Teams[:0]
	for _, team := range s.Teams {
		if id := league.NormalizeID(team); id != "" {
			teams = append(teams, id)
		}
	}
	s.Teams = teams
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
}

// Validate reports settings that cannot produce a report
func (s *Settings) Validate() error {
	var errs []error
	if len(s.Teams) == 0 {
		errs = append(errs, errors.New("at least one team is required"))
	}
	if s.Trials <= 0 {
		errs = append(errs, fmt.Errorf("trials must be positive, got %d", s.Trials))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", s.Workers))
	}
	if s.SeasonLength <= 0 {
		errs = append(errs, fmt.Errorf("season length must be positive, got %d", s.SeasonLength))
	}
	// the first round bracket only exists for three division berths and two wildcards
	if s.Format != simulation.DefaultFormat {
		errs = append(errs, fmt.Errorf("unsupported playoff format %+v, want %+v", s.Format, simulation.DefaultFormat))
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err))
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// Location returns the time zone reports are printed in
func (s *Settings) Location() *time.Location {
	location, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

// Level returns the configured log level
func (s *Settings) Level() logrus.Level {
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// EstimatorConfig returns the odds estimator settings
func (s *Settings) EstimatorConfig() simulation.EstimatorConfig {
	return simulation.EstimatorConfig{
		Trials:  s.Trials,
		Workers: s.Workers,
		Seed:    s.Seed,
		Format:  s.Format,
	}
}
