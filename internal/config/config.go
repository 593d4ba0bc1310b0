package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/nibzard/plant-paladin/internal/plantdir"
)

// ErrInvalidConfig is wrapped by every parse or schema failure.
var ErrInvalidConfig = errors.New("invalid config")

// Plant holds the user settings for a single plant.
type Plant struct {
	// WateringInterval is the number of days allowed between waterings.
	WateringInterval int `toml:"watering_interval"`
}

// Config maps plant names to their settings.
type Config struct {
	Plants map[string]Plant
}

// Has reports whether a plant with the exact name is configured.
func (c Config) Has(name string) bool {
	_, ok := c.Plants[name]
	return ok
}

// Names returns the configured plant names in sorted order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c.Plants))
	for name := range c.Plants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode writes the config as a TOML document with one table per plant.
func (c Config) Encode(w io.Writer) error {
	plants := c.Plants
	if plants == nil {
		plants = map[string]Plant{}
	}
	if err := toml.NewEncoder(w).Encode(plants); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Parse decodes a config document. The returned keys are settings present in
// the document that no plant field consumed.
func Parse(data []byte) (Config, []string, error) {
	doc := map[string]any{}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return Config{}, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := validateDocument(doc); err != nil {
		return Config{}, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := Config{Plants: make(map[string]Plant, len(doc))}
	md, err := toml.Decode(string(data), &cfg.Plants)
	if err != nil {
		return Config{}, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return cfg, unknown, nil
}

// Default returns the plants described by DefaultConfigTOML.
func Default() Config {
	cfg, _, err := Parse([]byte(DefaultConfigTOML))
	if err != nil {
		panic(fmt.Sprintf("default config does not parse: %v", err))
	}
	return cfg
}

// Load reads config.toml from dir. If the file does not exist it is created
// from DefaultConfigTOML and the default plants are returned.
func Load(dir string, logger *log.Logger) (Config, error) {
	path := plantdir.ConfigPath(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(DefaultConfigTOML), 0o644); err != nil {
			return Config{}, fmt.Errorf("write config %s: %w", path, err)
		}
		logger.Info("no config exists, created default config", "path", path)
		return Default(), nil
	}

	cfg, unknown, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to deserialize %s: %w", path, err)
	}
	for _, key := range unknown {
		logger.Warn("ignoring unknown config key", "key", key, "path", path)
	}
	logger.Debug("loaded config", "path", path, "plants", len(cfg.Plants))
	return cfg, nil
}
