package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/libris/pkg/adapters/fs"
	"github.com/aretw0/libris/pkg/core"
)

// EnvDataFile names the environment variable holding an explicit data path.
const EnvDataFile = "LIB_DATA_FILE"

// Config is the content of the optional YAML configuration file.
type Config struct {
	DataFile    string      `yaml:"data_file"`
	Policy      core.Policy `yaml:",inline"`
	WatchIgnore []string    `yaml:"watch_ignore"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{Policy: core.DefaultPolicy()}
}

// LoadConfig reads a YAML configuration file. Keys that are absent keep their
// defaults. An empty path returns DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Policy.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	// A relative data file is relative to the config file, not the CWD.
	if cfg.DataFile != "" && !filepath.IsAbs(cfg.DataFile) {
		cfg.DataFile = filepath.Join(filepath.Dir(path), cfg.DataFile)
	}
	return cfg, nil
}

// ResolveDataPath picks the data file, highest precedence first: the
// LIB_DATA_FILE environment variable, the configured data_file, the path given
// on the command line, and finally library_data.json beside the executable.
// A path naming an existing directory gets library_data.json appended.
func ResolveDataPath(cfg Config, argPath string) string {
	switch {
	case os.Getenv(EnvDataFile) != "":
		return fs.ResolvePath(os.Getenv(EnvDataFile))
	case cfg.DataFile != "":
		return fs.ResolvePath(cfg.DataFile)
	case argPath != "":
		return fs.ResolvePath(argPath)
	default:
		return filepath.Join(programDir(), fs.DefaultFileName)
	}
}

func programDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
