package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/babble/internal/inference"
)

// Config represents the babble configuration file (~/.config/babble/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	CorporaDir string `yaml:"corpora_dir"`
	Corpus     string `yaml:"corpus"`

	// Model
	Order    *int64 `yaml:"order"`
	MaxBytes *int64 `yaml:"max_bytes"`

	// Generation defaults
	Steps *int64   `yaml:"steps"`
	Seed  *int64   `yaml:"seed"`
	Stop  []string `yaml:"stop"`

	// Output
	StreamMode string `yaml:"stream_mode"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	if p := os.Getenv("BABBLE_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "babble", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	cfg, _ := loadConfigFile(configPath())
	return cfg
}

func loadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyCorpusConfig fills the shared corpus flags from the config file when
// they were not set on the command line.
func applyCorpusConfig(c *cli.Command, cfg Config) {
	if cfg.Corpus != "" && !c.IsSet("corpus") {
		corpusPath = cfg.Corpus
	}
	if cfg.CorporaDir != "" && !c.IsSet("corpora-path") {
		corporaPath = cfg.CorporaDir
	}
	if cfg.Order != nil && !c.IsSet("order") {
		order = *cfg.Order
	}
	if cfg.MaxBytes != nil && !c.IsSet("max-bytes") {
		maxBytes = *cfg.MaxBytes
	}
}

func applyGenerationConfig(c *cli.Command, cfg Config, steps, seed *int64, stop *[]string) {
	if cfg.Steps != nil && !c.IsSet("steps") {
		*steps = *cfg.Steps
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
	if len(cfg.Stop) > 0 && !c.IsSet("stop") {
		*stop = append([]string(nil), cfg.Stop...)
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// generationDefaults turns configured defaults into per-model fallbacks for
// the HTTP server.
func (cfg Config) generationDefaults() inference.GenDefaults {
	var d inference.GenDefaults
	if cfg.Steps != nil {
		steps := int(*cfg.Steps)
		d.Steps = &steps
	}
	if cfg.Seed != nil {
		seed := *cfg.Seed
		d.Seed = &seed
	}
	return d
}

func newLoader(defaults inference.GenDefaults) inference.Loader {
	return inference.Loader{
		Order:    int(order),
		MaxBytes: maxBytes,
		Defaults: defaults,
	}
}
