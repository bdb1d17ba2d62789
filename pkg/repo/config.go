package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/grit/pkg/object"
)

// ConfigFile is the name of the repository config inside the metadata dir.
const ConfigFile = "grit.toml"

// Config stores repository-local settings.
type Config struct {
	Core CoreConfig `toml:"core"`
}

// CoreConfig holds object storage settings.
type CoreConfig struct {
	// Compression is the zlib level for new loose objects: -1 for the
	// library default, 0 (none) through 9 (best).
	Compression int `toml:"compression"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{Core: CoreConfig{Compression: object.DefaultCompression}}
}

func configPath(metaDir string) string {
	return filepath.Join(metaDir, ConfigFile)
}

func (c *Config) validate() error {
	if !object.ValidCompressionLevel(c.Core.Compression) {
		return fmt.Errorf("core.compression: invalid zlib level %d (want -1..9)", c.Core.Compression)
	}
	return nil
}

// readConfig decodes path over the defaults. A missing file yields the
// defaults; unknown keys are rejected so typos do not pass silently.
func readConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// writeConfig atomically writes cfg to path.
func writeConfig(path string, cfg *Config) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// WriteConfig validates and persists cfg as the repository config.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := writeConfig(configPath(r.MetaDir), cfg); err != nil {
		return err
	}
	r.Config = cfg
	return nil
}
