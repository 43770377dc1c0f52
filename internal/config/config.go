// Package config loads the lazyfossil configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig defines the global lazyfossil configuration options.
type AppConfig struct {
	FossilPath     string   // fossil binary, default "fossil"
	CommitArgs     []string // extra arguments appended to every commit
	TimeoutSeconds int      // per-invocation subprocess timeout, 0 disables
	DebugLog       string   // debug log file path
	ShowIcons      bool     // render Nerd Font icons in status output
	Color          bool     // colorize status output
	AutoRefresh    bool     // re-scan on filesystem changes in watch mode
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		FossilPath:     "fossil",
		TimeoutSeconds: 60,
		ShowIcons:      true,
		Color:          true,
		AutoRefresh:    true,
	}
}

// LoadConfig reads the application configuration from a YAML file. An empty
// configPath falls back to config.yaml/config.yml under the lazyfossil config
// directory. A missing file yields the defaults; a malformed one is an error.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string
	if configPath != "" {
		expanded, err := expandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{expanded}
	} else {
		base := filepath.Join(getConfigDir(), "lazyfossil")
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		// #nosec G304 -- path comes from the user's own config location
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
		}
		return parseConfig(raw), nil
	}

	return DefaultConfig(), nil
}

func parseConfig(raw map[string]any) *AppConfig {
	cfg := DefaultConfig()
	if v, ok := raw["fossil_path"]; ok {
		if s := strings.TrimSpace(fmt.Sprintf("%v", v)); s != "" {
			cfg.FossilPath = s
		}
	}
	if v, ok := raw["commit_args"]; ok {
		cfg.CommitArgs = normalizeArgsList(v)
	}
	if v, ok := raw["timeout_seconds"]; ok {
		cfg.TimeoutSeconds = coerceInt(v, cfg.TimeoutSeconds)
	}
	if v, ok := raw["debug_log"]; ok {
		cfg.DebugLog = strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	if v, ok := raw["show_icons"]; ok {
		cfg.ShowIcons = coerceBool(v, cfg.ShowIcons)
	}
	if v, ok := raw["color"]; ok {
		cfg.Color = coerceBool(v, cfg.Color)
	}
	if v, ok := raw["auto_refresh"]; ok {
		cfg.AutoRefresh = coerceBool(v, cfg.AutoRefresh)
	}
	return cfg
}

// normalizeArgsList accepts either a YAML list or a whitespace-joined string.
func normalizeArgsList(value any) []string {
	switch v := value.(type) {
	case string:
		return strings.Fields(v)
	case []any:
		args := []string{}
		for _, item := range v {
			if item == nil {
				continue
			}
			if text := strings.TrimSpace(fmt.Sprintf("%v", item)); text != "" {
				args = append(args, text)
			}
		}
		return args
	}
	return nil
}

func coerceBool(value any, defaultVal bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultVal
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
