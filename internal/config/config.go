// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads StegX configuration from defaults, YAML files,
// STEGX_* environment variables and cobra flags, and resolves the deployment
// profile that decides which backend contract the client speaks.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Profile describes one backend deployment: which contract it speaks and
// where it lives.
type Profile struct {
	Mode    string `mapstructure:"mode" yaml:"mode"`
	BaseURL string `mapstructure:"base-url" yaml:"base-url"`
}

// Config is the full client configuration.
type Config struct {
	Profile  string `mapstructure:"profile" yaml:"profile"`
	Mode     string `mapstructure:"mode" yaml:"mode,omitempty"`
	BaseURL  string `mapstructure:"base-url" yaml:"base-url,omitempty"`
	Language string `mapstructure:"language" yaml:"language"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose,omitempty"`

	HTTP struct {
		Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	} `mapstructure:"http" yaml:"http"`

	Download struct {
		Dir      string `mapstructure:"dir" yaml:"dir"`
		Filename string `mapstructure:"filename" yaml:"filename"`
	} `mapstructure:"download" yaml:"download"`

	Path struct {
		DefaultOutput string `mapstructure:"default-output" yaml:"default-output"`
	} `mapstructure:"path" yaml:"path"`

	Log struct {
		File string `mapstructure:"file" yaml:"file,omitempty"`
	} `mapstructure:"log" yaml:"log"`

	Profiles map[string]Profile `mapstructure:"profiles" yaml:"profiles,omitempty"`
}

// Built-in profiles. The backend has been seen on three conventions and none
// is authoritative, so each is a selectable profile.
var builtinProfiles = map[string]Profile{
	"upload": {Mode: "upload", BaseURL: "http://localhost:8000"},
	"path":   {Mode: "path", BaseURL: "http://127.0.0.1:5000"},
	// Same-origin deployments serve /api/... next to the UI; the caller has
	// to say where that origin is.
	"origin": {Mode: "upload", BaseURL: ""},
}

// Defaults returns the default key/value set used by LoadConfig.
func Defaults() map[string]any {
	return map[string]any{
		"profile":             "upload",
		"language":            "en",
		"http.timeout":        time.Duration(0),
		"download.dir":        ".",
		"download.filename":   "stego_image.png",
		"path.default-output": "stego_image.png",
	}
}

// Resolved is the effective endpoint after applying profile and overrides.
type Resolved struct {
	Profile string
	Mode    string
	BaseURL string
}

// Resolve picks the selected profile (user-defined profiles shadow the
// built-ins) and applies the top-level mode/base-url overrides.
func (c Config) Resolve() (Resolved, error) {
	name := c.Profile
	if name == "" {
		name = "upload"
	}
	p, ok := c.Profiles[name]
	if !ok {
		p, ok = builtinProfiles[name]
	}
	if !ok {
		return Resolved{}, fmt.Errorf("unknown profile %q (known: %s)", name, strings.Join(c.ProfileNames(), ", "))
	}

	r := Resolved{Profile: name, Mode: p.Mode, BaseURL: p.BaseURL}
	if c.Mode != "" {
		r.Mode = c.Mode
	}
	if c.BaseURL != "" {
		r.BaseURL = c.BaseURL
	}
	r.BaseURL = strings.TrimRight(r.BaseURL, "/")
	if r.BaseURL == "" {
		return Resolved{}, fmt.Errorf("profile %q has no base URL; set --base-url", name)
	}
	return r, nil
}

// ProfileNames lists built-in and user profile names, sorted.
func (c Config) ProfileNames() []string {
	seen := map[string]bool{}
	for n := range builtinProfiles {
		seen[n] = true
	}
	for n := range c.Profiles {
		seen[n] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "StegX")
		default:
			configDir = "/etc/stegx"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "stegx")
	}

	return filepath.Join(configDir, "stegx.yaml"), nil
}

// LoadConfig builds a fresh viper instance and decodes it into T. Precedence,
// lowest first: defaults, config file (explicit path or stegx.yaml in the
// user, system and current directories), STEGX_* environment, cobra flags.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("stegx")
	v.SetConfigType("yaml")

	if configFilePath != nil {
		v.SetConfigFile(*configFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; the client runs on defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.SetEnvPrefix("stegx")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile writes c as YAML to the user (or system) config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}
