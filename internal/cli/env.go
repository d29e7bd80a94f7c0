package cli

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/roach88/spell/internal/config"
	"github.com/roach88/spell/internal/logging"
	"github.com/roach88/spell/internal/metrics"
	"github.com/roach88/spell/internal/spell"
	"github.com/roach88/spell/internal/store"
)

// env is everything a command needs to run operations.
type env struct {
	cfg     config.Config
	log     zerolog.Logger
	store   *store.Store
	service *spell.Service
	metrics *metrics.Metrics
	reg     *prometheus.Registry
}

// LoadConfig reads the config file and applies flag overrides.
func (o *RootOptions) LoadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.DB != "" {
		cfg.Database = o.DB
	}
	if o.LogJSON {
		cfg.Log.JSON = true
	}
	if o.Verbose {
		cfg.Log.Level = string(logging.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "config rejected", err)
	}
	return cfg, nil
}

// openEnv loads config, sets up logging and opens the store.
// Logs go to logOut; a non-empty serviceID tags the service logger.
// Callers must close the returned env.
func (o *RootOptions) openEnv(logOut io.Writer, serviceID string) (*env, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}

	logging.Init(cfg.Logging(logOut))
	log := logging.WithComponent("cli")

	st, err := store.Open(cfg.Database, store.Options{Capacities: cfg.StoreCapacities()})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	log.Debug().Str("db", cfg.Database).Msg("database opened")

	serviceLog := logging.WithComponent("spell")
	if serviceID != "" {
		serviceLog = logging.WithServiceID(serviceLog, serviceID)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	return &env{
		cfg:   cfg,
		log:   log,
		store: st,
		service: spell.New(st,
			spell.WithLogger(serviceLog),
			spell.WithMetrics(m),
		),
		metrics: m,
		reg:     reg,
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}
