package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/imgajeed76/gridview/internal/util"
)

// Path returns the config file to use: explicit when set, otherwise the
// user config file under the XDG config directory.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return util.ExpandHome(explicit), nil
	}
	return util.ConfigPath()
}

// isYAML reports whether path should be read and written as YAML.
func isYAML(path string) bool {
	ext := util.Extension(path)
	return ext == "yaml" || ext == "yml"
}

// Load reads the config file at path on top of the defaults. A missing file
// yields the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: %w: %s", path, util.ErrUnknownConfigKey, undecoded[0].String())
	}
	return nil
}

// Save writes the config file, in YAML when path ends in .yaml or .yml and
// TOML otherwise.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
