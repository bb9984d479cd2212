// Package config provides configuration loading.
//
// Values resolve in order: built-in defaults, the TOML config file, then PROPINTEL_*
// environment variables. Every value is kept as a string and normalized by the
// validator registered for its key.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"

	envPrefix = "PROPINTEL_"
	appName   = "propintel"
)

var (
	config    map[string]string
	configMap map[string]string
	mu        sync.RWMutex
)

func init() {
	initValidators()
}

// Load initializes configuration.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	configMap = make(map[string]string)

	setDefaults()
	loadFromEnv()
	loadFromFile()
	// Env wins over the file.
	loadFromEnv()
	validate()
}

func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	setDefault("config_dir", filepath.Join(xdgConfigHome, appName))
	setDefault("state_dir", filepath.Join(xdgStateHome, appName))

	setDefault("geocode_base_url", "https://nominatim.openstreetmap.org")
	setDefault("geocode_country", "gb")
	setDefault("geocode_language", "en-GB,en")
	setDefault("geocode_user_agent", "propintel/0.1 (+https://github.com/cristianoliveira/propintel)")
	setDefault("geocode_timeout_seconds", "10")
	setDefault("geocode_rate_per_sec", "1")

	setDefault("staticmap_base_url", "https://staticmap.openstreetmap.de/staticmap.php")
	setDefault("staticmap_zoom", "16")
	setDefault("staticmap_size", "800x400")
	setDefault("staticmap_marker", "red-pushpin")

	setDefault("notify_backend", "auto")
	setDefault("notify_timeout_ms", "5000")
	setDefault("history_enabled", "true")

	setDefault("hooks_enabled", "true")
	setDefault("hooks_dir", "")
	setDefault("hooks_failure_mode", "warn")
	setDefault("hooks_timeout_seconds", "10")

	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
	setDefault("debug", "false")
	setDefault("quiet", "false")
}

func setDefault(key, value string) {
	config[key] = value
	configMap[key] = value
}

// Path returns the config file location: PROPINTEL_CONFIG_PATH or {config_dir}/config.toml.
func Path() string {
	if p := os.Getenv(envPrefix + "CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join(Get("config_dir", ""), "config"+FileExtTOML)
}

func loadFromFile() {
	configPath := os.Getenv(envPrefix + "CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(config["config_dir"], "config"+FileExtTOML)
		if _, err := os.Stat(configPath); err != nil {
			return
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}
	if strings.ToLower(filepath.Ext(configPath)) != FileExtTOML {
		colors.Warning(fmt.Sprintf("ignoring config file %s: only TOML is supported", configPath))
		return
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a decoded TOML value to its string representation.
func coerceConfigValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if key == "config_path" {
			continue
		}
		config[key] = value
	}
}

func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := configMap[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
			continue
		}
		config[key] = normalized
	}
}

// WriteSample writes the default configuration to path unless a file already exists.
// It returns true when a file was written.
func WriteSample(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	mu.RLock()
	typed := make(map[string]any, len(configMap))
	for k, v := range configMap {
		if k == "config_dir" || k == "state_dir" {
			continue
		}
		typed[k] = valueToInterface(v)
	}
	mu.RUnlock()

	data, err := toml.Marshal(typed)
	if err != nil {
		return false, fmt.Errorf("marshal sample config: %w", err)
	}
	header := "# propintel configuration\n# Environment variables PROPINTEL_<KEY> override these values.\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), FileModeFile); err != nil {
		return false, fmt.Errorf("write sample config: %w", err)
	}
	return true, nil
}

// valueToInterface converts a configuration value to the closest TOML type.
func valueToInterface(val string) any {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetFloat returns a configuration value as float64, or default.
func GetFloat(key string, defaultValue float64) float64 {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	switch normalizeBool(val) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

// All returns a copy of the resolved configuration.
func All() map[string]string {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]string, len(config))
	for k, v := range config {
		out[k] = v
	}
	return out
}
