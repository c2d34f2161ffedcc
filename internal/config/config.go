// Package config defines the passnet configuration and its defaults.
//
// Values are layered: defaults from New, then an optional YAML file, then
// PASSNET_ environment variables. Command-line flags are applied last by cmd.
package config

import (
	"os"
	"path/filepath"

	"github.com/pable/go-pass-network/internal/schema"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" yaml:"log_format" validate:"oneof=text json"`

	// DBPath is the SQLite run store.
	DBPath string `koanf:"db_path" yaml:"db_path" validate:"required"`

	// Team restricts builds to one team's passes when set.
	Team string `koanf:"team" yaml:"team"`

	// Columns maps logical pass fields to input column names.
	Columns Columns `koanf:"columns" yaml:"columns"`

	// MetricsFile, when set, receives a Prometheus textfile after each build.
	MetricsFile string `koanf:"metrics_file" yaml:"metrics_file"`

	// PushgatewayURL, when set, receives build metrics under JobName.
	PushgatewayURL string `koanf:"pushgateway_url" yaml:"pushgateway_url" validate:"omitempty,url"`
	JobName        string `koanf:"job_name" yaml:"job_name" validate:"required"`
}

// Columns holds the input column name for each logical field.
type Columns struct {
	Source      string `koanf:"source" yaml:"source" validate:"required"`
	Target      string `koanf:"target" yaml:"target" validate:"required"`
	PassType    string `koanf:"pass_type" yaml:"pass_type" validate:"required"`
	Cross       string `koanf:"cross" yaml:"cross" validate:"required"`
	Switch      string `koanf:"switch" yaml:"switch" validate:"required"`
	ThroughBall string `koanf:"through_ball" yaml:"through_ball" validate:"required"`
	ShotAssist  string `koanf:"shot_assist" yaml:"shot_assist" validate:"required"`
	GoalAssist  string `koanf:"goal_assist" yaml:"goal_assist" validate:"required"`
	Outcome     string `koanf:"outcome" yaml:"outcome" validate:"required"`
	Team        string `koanf:"team" yaml:"team" validate:"required"`
}

// DefaultDBPath is ~/.passnet/passnet.db, or a relative path when the home
// directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".passnet", "passnet.db")
}

// New returns a Config populated with defaults.
func New() *Config {
	s := schema.Default()
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		DBPath:    DefaultDBPath(),
		JobName:   "passnet",
		Columns: Columns{
			Source:      s.Column(schema.FieldSource),
			Target:      s.Column(schema.FieldTarget),
			PassType:    s.Column(schema.FieldPassType),
			Cross:       s.Column(schema.FieldCross),
			Switch:      s.Column(schema.FieldSwitch),
			ThroughBall: s.Column(schema.FieldThroughBall),
			ShotAssist:  s.Column(schema.FieldShotAssist),
			GoalAssist:  s.Column(schema.FieldGoalAssist),
			Outcome:     s.Column(schema.FieldOutcome),
			Team:        s.Column(schema.FieldTeam),
		},
	}
}

// Schema returns the default schema with the configured column names applied.
func (c *Config) Schema() schema.Schema {
	return schema.Default().WithColumns(map[schema.Field]string{
		schema.FieldSource:      c.Columns.Source,
		schema.FieldTarget:      c.Columns.Target,
		schema.FieldPassType:    c.Columns.PassType,
		schema.FieldCross:       c.Columns.Cross,
		schema.FieldSwitch:      c.Columns.Switch,
		schema.FieldThroughBall: c.Columns.ThroughBall,
		schema.FieldShotAssist:  c.Columns.ShotAssist,
		schema.FieldGoalAssist:  c.Columns.GoalAssist,
		schema.FieldOutcome:     c.Columns.Outcome,
		schema.FieldTeam:        c.Columns.Team,
	})
}
