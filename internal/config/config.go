package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/shift-roster/pkg/core/allocator"
	"github.com/jakechorley/shift-roster/pkg/core/clock"
)

// Environment variables that override the config file
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvSeed        = "ROSTER_SEED"
)

// StaffingRule is the min/max headcount for one shift type
type StaffingRule struct {
	Min int `yaml:"min" validate:"gte=0"`
	Max int `yaml:"max" validate:"gtefield=Min"`
}

// SourceConfig locates the Shifts and Availability tables. Either both paths
// (file or http(s) URL) or a spreadsheet with both tab names must be given.
type SourceConfig struct {
	Shifts          string `yaml:"shifts,omitempty"`
	Availability    string `yaml:"availability,omitempty"`
	SpreadsheetID   string `yaml:"spreadsheetID,omitempty"`
	ShiftsTab       string `yaml:"shiftsTab,omitempty" validate:"required_with=SpreadsheetID"`
	AvailabilityTab string `yaml:"availabilityTab,omitempty" validate:"required_with=SpreadsheetID"`
}

// UsesSheets reports whether input tables come from Google Sheets
func (s SourceConfig) UsesSheets() bool {
	return s.SpreadsheetID != ""
}

// OutputConfig controls where schedules are written
type OutputConfig struct {
	Directory      string `yaml:"directory,omitempty"`
	PublishSheetID string `yaml:"publishSheetID,omitempty"`
	PublishTab     string `yaml:"publishTab,omitempty" validate:"required_with=PublishSheetID"`
}

// ShiftTemplate describes a recurring shift used to generate a Shifts table
type ShiftTemplate struct {
	ShiftType string  `yaml:"shiftType" validate:"required"`
	RRule     string  `yaml:"rrule" validate:"required"`
	Start     string  `yaml:"start" validate:"required"`
	End       string  `yaml:"end" validate:"required"`
	Hours     float64 `yaml:"hours" validate:"gte=0"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Config represents the application configuration
type Config struct {
	StaffingPolicy  map[string]StaffingRule `yaml:"staffingPolicy,omitempty" validate:"dive"`
	Source          SourceConfig            `yaml:"source"`
	Output          OutputConfig            `yaml:"output"`
	DatabaseURL     string                  `yaml:"databaseURL,omitempty"`
	DatabaseSheetID string                  `yaml:"databaseSheetID,omitempty"`
	Seed            string                  `yaml:"seed,omitempty"`
	ShiftTemplates  []ShiftTemplate         `yaml:"shiftTemplates,omitempty" validate:"dive"`
	Server          ServerConfig            `yaml:"server"`
}

// Policy converts the configured staffing rules into an allocator policy.
// An empty section yields the default policy.
func (c *Config) Policy() (allocator.StaffingPolicy, error) {
	if len(c.StaffingPolicy) == 0 {
		return allocator.DefaultStaffingPolicy(), nil
	}

	rules := make(map[string]allocator.Bounds, len(c.StaffingPolicy))
	for shiftType, rule := range c.StaffingPolicy {
		rules[shiftType] = allocator.Bounds{Min: rule.Min, Max: rule.Max}
	}
	return allocator.NewStaffingPolicy(rules)
}

// ServerAddr returns the configured listen address or the default
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return ":8080"
	}
	return c.Server.Addr
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from roster_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="test" will look for "roster_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	loadDotEnv()

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the staffing policy and every shift template
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cfg.Policy(); err != nil {
		return fmt.Errorf("invalid staffingPolicy: %w", err)
	}

	for i, tmpl := range cfg.ShiftTemplates {
		if _, err := rrule.StrToRRule(tmpl.RRule); err != nil {
			return fmt.Errorf("invalid rrule in shiftTemplates[%d]: %w", i, err)
		}
		if !clock.Parse(tmpl.Start).Valid {
			return fmt.Errorf("invalid start time in shiftTemplates[%d]: %q", i, tmpl.Start)
		}
		if !clock.Parse(tmpl.End).Valid {
			return fmt.Errorf("invalid end time in shiftTemplates[%d]: %q", i, tmpl.End)
		}
	}

	return nil
}

// applyEnvOverrides replaces file values with any set environment variables
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		cfg.Seed = v
	}
}

// loadDotEnv populates the environment from a .env file when one exists
func loadDotEnv() {
	for _, p := range []string{".env", "../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// findConfigFile returns the path of roster_config.yaml, or
// roster_config.<env>.yaml when env is set
func findConfigFile(env string) (string, error) {
	configFileName := "roster_config.yaml"
	if env != "" {
		configFileName = "roster_config." + env + ".yaml"
	}
	return findFile(configFileName)
}
