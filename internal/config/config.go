// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Paths         []string      `toml:"paths"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Secrets       Secrets       `toml:"secrets"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce      time.Duration `toml:"debounce"`
	RescansPerSec float64       `toml:"rescans_per_sec"`
	RescanBurst   int           `toml:"rescan_burst"`
}

type Output struct {
	Mermaid  string `toml:"mermaid"`
	DOT      string `toml:"dot"`
	TSV      string `toml:"tsv"`
	Markdown string `toml:"markdown"`
}

type History struct {
	Path string `toml:"path"`
}

type Observability struct {
	ListenAddr   string `toml:"listen_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Secrets struct {
	Enabled          bool    `toml:"enabled"`
	EntropyThreshold float64 `toml:"entropy_threshold"`
	MinTokenLength   int     `toml:"min_token_length"`
}

// DefaultExcludeDirs mirror the vendored/build paths a front-end project
// never wants profiled.
var DefaultExcludeDirs = []string{
	"node_modules", "dist", "build", "out", "coverage", ".git", ".next", "vendor",
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a usable configuration when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{"."}
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = append([]string(nil), DefaultExcludeDirs...)
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.RescansPerSec == 0 {
		c.Watch.RescansPerSec = 2
	}
	if c.Watch.RescanBurst == 0 {
		c.Watch.RescanBurst = 4
	}
	if c.Secrets.EntropyThreshold == 0 {
		c.Secrets.EntropyThreshold = 4.0
	}
	if c.Secrets.MinTokenLength == 0 {
		c.Secrets.MinTokenLength = 20
	}
}
