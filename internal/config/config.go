package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
	"github.com/jakechorley/accreditation-draw/pkg/roster"
)

const (
	SourceCSV    = "csv"
	SourceSheets = "sheets"

	DefaultWaitingListName = "waitinglist"

	dateLayout = "2006-01-02"
)

// ColumnsConfig overrides the roster column names and codes. Empty fields keep the defaults.
type ColumnsConfig struct {
	Identity     string `yaml:"identity,omitempty"`
	Preference   string `yaml:"preference,omitempty"`
	Experience   string `yaml:"experience,omitempty"`
	Gender       string `yaml:"gender,omitempty"`
	Score        string `yaml:"score,omitempty"`
	FlexibleCode string `yaml:"flexibleCode,omitempty"`
}

// RosterConfig describes where the applicant roster is read from
type RosterConfig struct {
	Source    string        `yaml:"source" validate:"required,oneof=csv sheets"`
	CSVPath   string        `yaml:"csvPath,omitempty" validate:"required_if=Source csv"`
	Delimiter string        `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`
	SheetID   string        `yaml:"sheetID,omitempty" validate:"required_if=Source sheets"`
	Tab       string        `yaml:"tab,omitempty" validate:"required_if=Source sheets"`
	Columns   ColumnsConfig `yaml:"columns,omitempty"`
}

// WindowConfig defines one accreditation window
type WindowConfig struct {
	Name  string `yaml:"name" validate:"required"`
	Quota int    `yaml:"quota" validate:"required,min=1"`

	// RRule optionally lists the window's dates. It must be bounded by COUNT or UNTIL.
	RRule string `yaml:"rrule,omitempty"`
	Start string `yaml:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// OutputConfig defines where draw results are written
type OutputConfig struct {
	CSVDir          string `yaml:"csvDir,omitempty"`
	SheetID         string `yaml:"sheetID,omitempty"`
	WaitingListName string `yaml:"waitingListName,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Roster      RosterConfig   `yaml:"roster" validate:"required"`
	Windows     []WindowConfig `yaml:"windows" validate:"len=2,dive"`
	RetryBudget int            `yaml:"retryBudget,omitempty" validate:"omitempty,min=1"`
	Output      OutputConfig   `yaml:"output,omitempty"`
	DatabaseURL string         `yaml:"databaseURL,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from accreditation_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment
// For example, env="test" will look for "accreditation_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
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

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks the window definitions
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	names := map[string]bool{cfg.WaitingListName(): true}
	for i, w := range cfg.Windows {
		if names[w.Name] {
			return fmt.Errorf("duplicate table name %q in windows[%d]", w.Name, i)
		}
		names[w.Name] = true

		if _, err := w.Dates(); err != nil {
			return fmt.Errorf("invalid rrule in windows[%d]: %w", i, err)
		}
	}

	return nil
}

// EffectiveRetryBudget returns the configured retry budget or the selector default
func (c *Config) EffectiveRetryBudget() int {
	if c.RetryBudget == 0 {
		return selector.DefaultRetryBudget
	}
	return c.RetryBudget
}

// WaitingListName returns the output table name of the waiting list
func (c *Config) WaitingListName() string {
	if c.Output.WaitingListName == "" {
		return DefaultWaitingListName
	}
	return c.Output.WaitingListName
}

// Layout returns the roster layout with the configured column overrides applied
func (r RosterConfig) Layout() roster.Layout {
	return roster.Layout{
		IdentityColumn:   r.Columns.Identity,
		PreferenceColumn: r.Columns.Preference,
		ExperienceColumn: r.Columns.Experience,
		GenderColumn:     r.Columns.Gender,
		ScoreColumn:      r.Columns.Score,
		FlexibleCode:     r.Columns.FlexibleCode,
	}.WithDefaults()
}

// Dates expands the window's rrule. Returns nil if the window has no rrule.
func (w WindowConfig) Dates() ([]time.Time, error) {
	if w.RRule == "" {
		return nil, nil
	}

	opts, err := rrule.StrToROption(w.RRule)
	if err != nil {
		return nil, err
	}
	if opts.Count == 0 && opts.Until.IsZero() {
		return nil, fmt.Errorf("rrule %q must be bounded by COUNT or UNTIL", w.RRule)
	}

	if w.Start != "" {
		start, err := time.Parse(dateLayout, w.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", w.Start, err)
		}
		opts.Dtstart = start
	}

	rule, err := rrule.NewRRule(*opts)
	if err != nil {
		return nil, err
	}

	return rule.All(), nil
}

// findConfigFile searches for the config file in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "accreditation_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "accreditation_config.yaml"
	if env != "" {
		configFileName = "accreditation_config." + env + ".yaml"
	}

	return findFile(configFileName)
}

// findFile returns the first of ./name and ~/name that exists
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
