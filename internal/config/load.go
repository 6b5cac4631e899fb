// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "unfold.yaml"

// Load returns defaults overlaid with the YAML file at path. An empty path
// searches ./unfold.yaml then Dir()/config.yaml and falls back to defaults
// when neither exists; an explicit path must exist. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = FindFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindFile returns the first existing candidate config file, or "".
func FindFile() string {
	for _, p := range []string{FileName, filepath.Join(Dir(), "config.yaml")} {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}

	return ""
}

// Dir returns $XDG_CONFIG_HOME/unfold, or ~/.config/unfold.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "unfold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "unfold")
	}

	return filepath.Join(home, ".config", "unfold")
}

// loadFromFile merges the file into cfg. Unknown keys are rejected; an
// empty file changes nothing.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Save writes c as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
