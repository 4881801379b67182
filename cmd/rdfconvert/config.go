package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdf-writers/rdf"
)

// Config is the YAML configuration file. Flags given on the command line
// override the values it sets.
type Config struct {
	Format      string            `yaml:"format"`
	Compression string            `yaml:"compression"`
	Threads     int               `yaml:"threads"`
	Pretty      bool              `yaml:"pretty"`
	HighSpeed   bool              `yaml:"high_speed"`
	Base        string            `yaml:"base"`
	Stylesheet  string            `yaml:"stylesheet"`
	Prefixes    map[string]string `yaml:"prefixes"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Compression != "" {
		if _, err := rdf.ParseCompressionLevel(cfg.Compression); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if cfg.Format != "" {
		if _, ok := rdf.ParseFormat(cfg.Format); !ok {
			return nil, fmt.Errorf("config %s: unknown format %q", path, cfg.Format)
		}
	}
	for prefix := range cfg.Prefixes {
		if !rdf.IsPrefixName(prefix) {
			return nil, fmt.Errorf("config %s: invalid prefix %q", path, prefix)
		}
	}
	return cfg, nil
}

// options translates the configuration into writer options.
func (c *Config) options() []rdf.Option {
	var opts []rdf.Option
	if c.Compression != "" {
		level, _ := rdf.ParseCompressionLevel(c.Compression)
		opts = append(opts, rdf.OptCompression(level))
	}
	if c.Threads > 0 {
		opts = append(opts, rdf.OptThreads(c.Threads))
	}
	if c.Pretty {
		opts = append(opts, rdf.OptPretty())
	}
	if c.HighSpeed {
		opts = append(opts, rdf.OptHighSpeed())
	}
	if c.Base != "" {
		opts = append(opts, rdf.OptBaseIRI(c.Base))
	}
	if c.Stylesheet != "" {
		opts = append(opts, rdf.OptStylesheet(c.Stylesheet))
	}
	if len(c.Prefixes) > 0 {
		opts = append(opts, rdf.OptPrefixes(c.Prefixes))
	}
	return opts
}
