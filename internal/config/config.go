// Package config loads the spell configuration file.
//
// The file is YAML, decoded strictly (unknown fields are errors) on top of
// Default(), then validated against an embedded CUE schema.
//
//	database: /var/lib/spell/spell.sqlite
//	capacity:
//	  logs: 100
//	  mailbox: 50
//	  error_particles: 50
//	log:
//	  level: debug
//	  json: true
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/spell/internal/logging"
	"github.com/roach88/spell/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// DefaultDatabase is the database path used when none is configured.
const DefaultDatabase = "/tmp/spell.sqlite"

// Config is the full spell configuration.
type Config struct {
	Database string         `yaml:"database" json:"database"`
	Capacity CapacityConfig `yaml:"capacity" json:"capacity"`
	Log      LogConfig      `yaml:"log" json:"log"`
}

// CapacityConfig bounds the journals.
type CapacityConfig struct {
	Logs           int `yaml:"logs" json:"logs"`
	Mailbox        int `yaml:"mailbox" json:"mailbox"`
	ErrorParticles int `yaml:"error_particles" json:"error_particles"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	caps := store.DefaultCapacities()
	return Config{
		Database: DefaultDatabase,
		Capacity: CapacityConfig{
			Logs:           caps.Logs,
			Mailbox:        caps.Mailbox,
			ErrorParticles: caps.ErrorParticles,
		},
		Log: LogConfig{Level: string(logging.InfoLevel)},
	}
}

// Load reads and validates the file at path. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError reports the first CUE error with its path.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	return fmt.Errorf("invalid config: %s", cueerrors.Details(errs[0], nil))
}

// StoreCapacities converts the capacity section for store.Open.
func (c Config) StoreCapacities() store.Capacities {
	return store.Capacities{
		Logs:           c.Capacity.Logs,
		Mailbox:        c.Capacity.Mailbox,
		ErrorParticles: c.Capacity.ErrorParticles,
	}
}

// Logging converts the log section for logging.Init.
func (c Config) Logging(out io.Writer) logging.Config {
	return logging.Config{
		Level:      logging.Level(c.Log.Level),
		JSONOutput: c.Log.JSON,
		Output:     out,
	}
}
