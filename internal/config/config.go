// Package config loads the optional .vtlint.toml project file. Command line
// flags win over anything set here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// FileName is looked up from the working directory upwards.
const FileName = ".vtlint.toml"

// Config is the decoded project file. Paths are absolute, resolved against
// the directory holding the file.
type Config struct {
	Path string
	Dir  string

	Root    string
	Jobs    int
	Include []string
	Exclude []string
	LogFile string
	Verbose int
	// Statistic is nil when the file does not mention it.
	Statistic *bool
	Dump      DumpConfig
	Log       LogConfig
}

type DumpConfig struct {
	Path   string
	Format string
}

type LogConfig struct {
	Level  string
	Format string
}

type rawConfig struct {
	Root      string   `toml:"root"`
	Jobs      int64    `toml:"jobs"`
	Include   []string `toml:"include"`
	Exclude   []string `toml:"exclude"`
	LogFile   string   `toml:"log_file"`
	Verbose   int64    `toml:"verbose"`
	Statistic bool     `toml:"statistic"`
	Dump      struct {
		Path   string `toml:"path"`
		Format string `toml:"format"`
	} `toml:"dump"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// Find walks from startDir to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest project file. ok is false when
// there is none.
func Discover(startDir string) (cfg *Config, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Load decodes path. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var raw rawConfig
	meta, err := toml.DecodeFile(abs, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", abs, strings.Join(keys, ", "))
	}

	cfg := &Config{
		Path:    abs,
		Dir:     filepath.Dir(abs),
		Include: raw.Include,
		Exclude: raw.Exclude,
		Dump:    DumpConfig{Path: raw.Dump.Path, Format: raw.Dump.Format},
		Log:     LogConfig{Level: raw.Log.Level, Format: raw.Log.Format},
	}
	if cfg.Jobs, err = safecast.Conv[int](raw.Jobs); err != nil || cfg.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must be a non-negative integer, got %d", abs, raw.Jobs)
	}
	if cfg.Verbose, err = safecast.Conv[int](raw.Verbose); err != nil || cfg.Verbose < 0 {
		return nil, fmt.Errorf("%s: verbose must be a non-negative integer, got %d", abs, raw.Verbose)
	}
	if len(cfg.Include) > 0 && len(cfg.Exclude) > 0 {
		return nil, fmt.Errorf("%s: include and exclude are mutually exclusive", abs)
	}
	if meta.IsDefined("statistic") {
		stat := raw.Statistic
		cfg.Statistic = &stat
	}
	cfg.Root = cfg.resolve(raw.Root)
	cfg.LogFile = cfg.resolve(raw.LogFile)
	if cfg.Dump.Path != "-" {
		cfg.Dump.Path = cfg.resolve(cfg.Dump.Path)
	}
	return cfg, nil
}

func (c *Config) resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, filepath.FromSlash(p))
}
