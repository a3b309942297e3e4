package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/benoitkugler/svgbytecode/svgcompile"
)

// config holds the settings of a run, read from a file and
// overridden by the command line flags.
type config struct {
	svgcompile.Options `yaml:",inline"`

	Output    string  `toml:"output" yaml:"output"`
	Positions string  `toml:"positions" yaml:"positions"`
	PNG       string  `toml:"png" yaml:"png"`
	Scale     float64 `toml:"png_scale" yaml:"png_scale"`
}

func defaultConfig() config {
	return config{
		Options: svgcompile.Options{Compress: true},
		Scale:   1,
	}
}

// loadConfig decodes file into cfg, keeping the fields it does not set.
func loadConfig(file string, cfg *config) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", file, err)
	}
	return nil
}

// override applies the flags set on the command line.
func (cfg *config) override(flags config, noCompress bool) {
	if flags.Output != "" {
		cfg.Output = flags.Output
	}
	if flags.Positions != "" {
		cfg.Positions = flags.Positions
	}
	if flags.PNG != "" {
		cfg.PNG = flags.PNG
	}
	if flags.Scale > 0 {
		cfg.Scale = flags.Scale
	}
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	if flags.PathPrefix != "" {
		cfg.PathPrefix = flags.PathPrefix
	}
	if noCompress {
		cfg.Compress = false
	}
}
