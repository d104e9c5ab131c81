// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Pool configuration: defaults, YAML files, and flag/env binding through viper.

package control

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/pool"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. HIOLOAD_POOL_WORKERS.
const EnvPrefix = "HIOLOAD_POOL"

// Config describes one pool and its host-side surroundings.
type Config struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Workers     int           `yaml:"workers" mapstructure:"workers"`
	DrainMode   string        `yaml:"drain_mode" mapstructure:"drain_mode"`
	FaultPolicy string        `yaml:"fault_policy" mapstructure:"fault_policy"`
	PinWorkers  bool          `yaml:"pin_workers" mapstructure:"pin_workers"`
	Log         LogConfig     `yaml:"log" mapstructure:"log"`
	Metrics     MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MetricsConfig controls Prometheus export.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
	Addr      string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Name:        "default",
		Workers:     0, // auto-detect
		DrainMode:   api.DrainGraceful.String(),
		FaultPolicy: api.FaultIsolate.String(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: "hioload_pool",
			Addr:      ":9090",
		},
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if _, err := api.ParseDrainMode(c.DrainMode); err != nil {
		errs = append(errs, err)
	}
	if _, err := api.ParseFaultPolicy(c.FaultPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.Log.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		errs = append(errs, errors.New("metrics.namespace is required when metrics are enabled"))
	}
	return errors.Join(errs...)
}

// Options converts the config into pool options. log may be nil.
func (c Config) Options(log *slog.Logger) ([]pool.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, _ := api.ParseDrainMode(c.DrainMode)
	policy, _ := api.ParseFaultPolicy(c.FaultPolicy)
	opts := []pool.Option{
		pool.WithName(c.Name),
		pool.WithWorkers(c.Workers),
		pool.WithDrainMode(mode),
		pool.WithFaultPolicy(policy),
		pool.WithCPUPinning(c.PinWorkers),
	}
	if log != nil {
		opts = append(opts, pool.WithLogger(log))
	}
	return opts, nil
}

// YAML renders the config as a YAML document.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// LoadFile reads a YAML config file on top of DefaultConfig.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, cfg.Validate()
}

// BindFlags registers pool flags on fs and binds them to a fresh viper
// instance that also reads HIOLOAD_POOL_* environment variables.
func BindFlags(fs *flag.FlagSet) (*viper.Viper, error) {
	def := DefaultConfig()
	fs.String("name", def.Name, "pool name used in logs and metrics")
	fs.Int("workers", def.Workers, "number of workers, 0 to size from CPU topology")
	fs.String("drain-mode", def.DrainMode, "what stop does with queued tasks: graceful or immediate")
	fs.String("fault-policy", def.FaultPolicy, "task fault handling: isolate or propagate")
	fs.Bool("pin-workers", def.PinWorkers, "bind each worker thread to one CPU")
	fs.String("log-level", def.Log.Level, "log level: debug, info, warn, error")
	fs.String("log-format", def.Log.Format, "log format: text or json")
	fs.Bool("metrics", def.Metrics.Enabled, "serve Prometheus metrics")
	fs.String("metrics-namespace", def.Metrics.Namespace, "Prometheus metric namespace")
	fs.String("metrics-addr", def.Metrics.Addr, "listen address for /metrics")

	v := viper.New()
	bindings := map[string]string{
		"name":              "name",
		"workers":           "workers",
		"drain_mode":        "drain-mode",
		"fault_policy":      "fault-policy",
		"pin_workers":       "pin-workers",
		"log.level":         "log-level",
		"log.format":        "log-format",
		"metrics.enabled":   "metrics",
		"metrics.namespace": "metrics-namespace",
		"metrics.addr":      "metrics-addr",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v, nil
}

// FromViper resolves the effective config. Precedence: changed flags,
// environment, cfgFile (if non-empty), flag defaults.
func FromViper(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error while reading the config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error while unmarshaling config: %w", err)
	}
	return cfg, cfg.Validate()
}
