package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/boxesandglue/csscounter"
)

//go:embed config.yaml
var DefaultConfig []byte

type (
	MaterializerConfig struct {
		Namespace   string `yaml:"namespace"`
		ContainerID string `yaml:"container_id"`
		MarkerTag   string `yaml:"marker_tag"`
	}

	Config struct {
		Version      int                `yaml:"version"`
		Materializer MaterializerConfig `yaml:"materializer"`
		Logging      LoggingConfig      `yaml:"logging"`
	}
)

var (
	identPattern = regexp.MustCompile(`^[a-zA-Z_][\w-]*$`)
	tagPattern   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)
)

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the embedded defaults and validates the
// result. An empty path yields the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(DefaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfg, err = unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid value.
func (cfg *Config) Validate() (err error) {
	if cfg.Version != 1 {
		err = multierr.Append(err, fmt.Errorf("unsupported configuration version %d", cfg.Version))
	}
	m := cfg.Materializer
	if m.Namespace != "" && !identPattern.MatchString(m.Namespace) {
		err = multierr.Append(err, fmt.Errorf("materializer.namespace %q is not a valid attribute name part", m.Namespace))
	}
	if !identPattern.MatchString(m.ContainerID) {
		err = multierr.Append(err, fmt.Errorf("materializer.container_id %q is not a valid id", m.ContainerID))
	}
	if !tagPattern.MatchString(m.MarkerTag) {
		err = multierr.Append(err, fmt.Errorf("materializer.marker_tag %q is not a valid element name", m.MarkerTag))
	}
	switch cfg.Logging.ConsoleLogger.Level {
	case "none", "normal", "debug":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.console.level %q must be one of none, normal, debug", cfg.Logging.ConsoleLogger.Level))
	}
	return err
}

// Options returns the materializer options for this configuration.
func (cfg *Config) Options(log *zap.Logger) []csscounter.Option {
	return []csscounter.Option{
		csscounter.WithLogger(log),
		csscounter.WithNamespace(cfg.Materializer.Namespace),
		csscounter.WithContainerID(cfg.Materializer.ContainerID),
		csscounter.WithMarkerTag(cfg.Materializer.MarkerTag),
	}
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
