// Package config handles klang.toml compiler configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/you-not-fish/klang/internal/codegen"
)

// FileName is the name of the configuration file.
const FileName = "klang.toml"

// Defaults applied to unset values.
const (
	DefaultDir     = "."
	DefaultPackage = "klang"
)

// Config represents a klang.toml configuration.
type Config struct {
	Output Output `toml:"output"`
	Log    Log    `toml:"log"`

	// Dir is the directory containing klang.toml (set at load time,
	// empty when no file was found).
	Dir string `toml:"-"`
}

// Output configures the generated artifacts <dir>/<package>.<unit>.{s,h,c}.
type Output struct {
	Dir     string `toml:"dir"`
	Package string `toml:"package"`
	Unit    string `toml:"unit"`
}

// Log configures diagnostics logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Overrides holds command-line values. Empty strings and a nil
// Verbosity leave the configured value alone.
type Overrides struct {
	Dir       string
	Package   string
	Unit      string
	Verbosity *int
	LogFile   string
}

// Load parses the klang.toml file in dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	if c.Output.Dir != "" && !filepath.IsAbs(c.Output.Dir) {
		c.Output.Dir = filepath.Join(c.Dir, c.Output.Dir)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a klang.toml file, then
// loads it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Resolve builds the configuration for compiling source: defaults, then
// the nearest klang.toml (or the file at path, if path is set), then
// the command-line overrides.
func Resolve(source, path string, o Overrides) (*Config, error) {
	var c *Config
	var err error
	if path != "" {
		c, err = Load(filepath.Dir(path))
		if err == nil && filepath.Base(path) != FileName {
			err = fmt.Errorf("config file must be named %s, not %s", FileName, filepath.Base(path))
		}
	} else {
		c, err = FindAndLoad(filepath.Dir(source))
	}
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Config{}
	}
	c.override(o)
	c.applyDefaults(source)
	return c, nil
}

func (c *Config) override(o Overrides) {
	if o.Dir != "" {
		c.Output.Dir = o.Dir
	}
	if o.Package != "" {
		c.Output.Package = o.Package
	}
	if o.Unit != "" {
		c.Output.Unit = o.Unit
	}
	if o.Verbosity != nil {
		c.Log.Verbosity = *o.Verbosity
	}
	if o.LogFile != "" {
		c.Log.File = o.LogFile
	}
}

func (c *Config) applyDefaults(source string) {
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultDir
	}
	if c.Output.Package == "" {
		c.Output.Package = DefaultPackage
	}
	if c.Output.Unit == "" {
		c.Output.Unit = UnitName(source)
	}
}

// UnitName derives a unit name from a source path: the base name
// without its extension.
func UnitName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Codegen returns the generator configuration for the unit.
func (c *Config) Codegen() codegen.Config {
	return codegen.Config{Package: c.Output.Package, Unit: c.Output.Unit}
}

// OutputPath returns the path of the artifact with extension ext.
func (c *Config) OutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Codegen().FileName(ext))
}
