// Package config handles the teestudio configuration file and its
// environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	apierrors "github.com/diogo/teestudio/internal/errors"
)

// Backends the assistant can use to reach Gemini
const (
	BackendREST = "rest" // plain generateContent POST, as the web customizer did
	BackendSDK  = "sdk"  // google.golang.org/genai
)

// API key sources
const (
	KeySourceEnv  = "env"
	keyPrefixFile = "file:"
	keyPrefixSSM  = "ssm:"
)

// Environment variables read on top of the config file
const (
	EnvAPIKey     = "GEMINI_API_KEY"
	EnvModel      = "TEESTUDIO_MODEL"
	EnvBackend    = "TEESTUDIO_BACKEND"
	EnvLogLevel   = "TEESTUDIO_LOG_LEVEL"
	EnvAPITimeout = "TEESTUDIO_API_TIMEOUT_SECONDS"
	EnvHome       = "TEESTUDIO_HOME"
)

// MarkdownConfig configures markdown rendering of assistant replies
type MarkdownConfig struct {
	Style            string `json:"style"`             // glamour standard style: "dark", "light", "notty", ...
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// DecalConfig points at the two decal textures
type DecalConfig struct {
	Logo string `json:"logo"`
	Full string `json:"full"`
}

// SceneConfig holds the initial decal placement
type SceneConfig struct {
	ShowLogo     bool `json:"show_logo"`
	ShowFull     bool `json:"show_full"`
	LogoPosition int  `json:"logo_position"` // 0 left, 1 center, 2 right
	LogoSize     int  `json:"logo_size"`     // 0 small, 1 medium, 2 large
	Compact      bool `json:"compact"`
}

// SpeechConfig names the optional speech commands. Empty means autodetect
// for the synthesizer and disabled for the recognizer.
type SpeechConfig struct {
	Synthesizer string `json:"synthesizer,omitempty"`
	Recognizer  string `json:"recognizer,omitempty"`
}

// Config represents the user configuration
type Config struct {
	DefaultModel string `json:"default_model"`
	Backend      string `json:"backend"`
	// APIKeySource is "env", "file:<path>" or "ssm:<parameter name>".
	APIKeySource string `json:"api_key_source"`
	APIBaseURL   string `json:"api_base_url,omitempty"`
	// APITimeoutSeconds bounds a chat call locally. 0 leaves the call to the
	// transport, which is how the customizer has always behaved.
	APITimeoutSeconds int            `json:"api_timeout_seconds"`
	CopyToClipboard   bool           `json:"copy_to_clipboard"`
	TUITheme          string         `json:"tui_theme,omitempty"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
	LogFile           string         `json:"log_file,omitempty"`
	Markdown          MarkdownConfig `json:"markdown"`
	Decals            DecalConfig    `json:"decals"`
	Scene             SceneConfig    `json:"scene"`
	Speech            SpeechConfig   `json:"speech"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultModel:      "gemini-2.0-flash",
		Backend:           BackendREST,
		APIKeySource:      KeySourceEnv,
		APITimeoutSeconds: 0,
		CopyToClipboard:   false,
		TUITheme:          "denim",
		LogLevel:          "info",
		LogFormat:         "json",
		Markdown:          DefaultMarkdownConfig(),
		Decals: DecalConfig{
			Logo: "assets/threejs.png",
			Full: "assets/threejs.png",
		},
		Scene: SceneConfig{
			ShowLogo:     true,
			ShowFull:     false,
			LogoPosition: 1,
			LogoSize:     1,
		},
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvHome)); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".teestudio"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory may hold an API key file
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path from config, or the default one
func GetLogPath(cfg Config) (string, error) {
	if p := strings.TrimSpace(cfg.LogFile); p != "" {
		return p, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs", "teestudio.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadEffective loads the file and applies environment overrides on top
func LoadEffective() (Config, error) {
	cfg, err := LoadConfig()
	cfg = ApplyEnv(cfg, os.LookupEnv)
	return cfg, err
}

// ApplyEnv overlays environment variables on cfg. lookup is os.LookupEnv in
// production and a map in tests.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) Config {
	if v, ok := lookup(EnvModel); ok && strings.TrimSpace(v) != "" {
		cfg.DefaultModel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvBackend); ok && strings.TrimSpace(v) != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvAPITimeout); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			cfg.APITimeoutSeconds = n
		}
	}
	return cfg
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later in confusing ways
func (c Config) Validate() error {
	switch c.Backend {
	case BackendREST, BackendSDK:
	default:
		return apierrors.NewConfigError("backend", fmt.Sprintf("unknown backend %q (use %s or %s)", c.Backend, BackendREST, BackendSDK))
	}

	if _, _, err := ParseKeySource(c.APIKeySource); err != nil {
		return err
	}

	if c.APITimeoutSeconds < 0 {
		return apierrors.NewConfigError("api_timeout_seconds", "must not be negative")
	}

	if c.Scene.LogoPosition < 0 || c.Scene.LogoPosition > 2 {
		return apierrors.NewConfigError("scene.logo_position", "must be 0, 1 or 2")
	}
	if c.Scene.LogoSize < 0 || c.Scene.LogoSize > 2 {
		return apierrors.NewConfigError("scene.logo_size", "must be 0, 1 or 2")
	}

	return nil
}

// ParseKeySource splits an api_key_source value into its kind and argument.
// kind is one of "env", "file" or "ssm".
func ParseKeySource(source string) (kind, arg string, err error) {
	source = strings.TrimSpace(source)
	switch {
	case source == "" || source == KeySourceEnv:
		return KeySourceEnv, EnvAPIKey, nil
	case strings.HasPrefix(source, keyPrefixFile):
		arg = strings.TrimSpace(strings.TrimPrefix(source, keyPrefixFile))
		if arg == "" {
			return "", "", apierrors.NewConfigError("api_key_source", "file: needs a path")
		}
		return "file", arg, nil
	case strings.HasPrefix(source, keyPrefixSSM):
		arg = strings.TrimSpace(strings.TrimPrefix(source, keyPrefixSSM))
		if arg == "" {
			return "", "", apierrors.NewConfigError("api_key_source", "ssm: needs a parameter name")
		}
		return "ssm", arg, nil
	default:
		return "", "", apierrors.NewConfigError("api_key_source", fmt.Sprintf("unsupported source %q", source))
	}
}

// setters maps dotted keys to their parsers for `config set`
var setters = map[string]func(*Config, string) error{
	"default_model":         func(c *Config, v string) error { c.DefaultModel = v; return nil },
	"backend":               func(c *Config, v string) error { c.Backend = strings.ToLower(v); return nil },
	"api_key_source":        func(c *Config, v string) error { c.APIKeySource = v; return nil },
	"api_base_url":          func(c *Config, v string) error { c.APIBaseURL = v; return nil },
	"api_timeout_seconds":   intSetter(func(c *Config) *int { return &c.APITimeoutSeconds }),
	"copy_to_clipboard":     boolSetter(func(c *Config) *bool { return &c.CopyToClipboard }),
	"tui_theme":             func(c *Config, v string) error { c.TUITheme = v; return nil },
	"log_level":             func(c *Config, v string) error { c.LogLevel = v; return nil },
	"log_format":            func(c *Config, v string) error { c.LogFormat = v; return nil },
	"log_file":              func(c *Config, v string) error { c.LogFile = v; return nil },
	"markdown.style":        func(c *Config, v string) error { c.Markdown.Style = v; return nil },
	"markdown.enable_emoji": boolSetter(func(c *Config) *bool { return &c.Markdown.EnableEmoji }),
	"decals.logo":           func(c *Config, v string) error { c.Decals.Logo = v; return nil },
	"decals.full":           func(c *Config, v string) error { c.Decals.Full = v; return nil },
	"scene.show_logo":       boolSetter(func(c *Config) *bool { return &c.Scene.ShowLogo }),
	"scene.show_full":       boolSetter(func(c *Config) *bool { return &c.Scene.ShowFull }),
	"scene.logo_position":   intSetter(func(c *Config) *int { return &c.Scene.LogoPosition }),
	"scene.logo_size":       intSetter(func(c *Config) *int { return &c.Scene.LogoSize }),
	"scene.compact":         boolSetter(func(c *Config) *bool { return &c.Scene.Compact }),
	"speech.synthesizer":    func(c *Config, v string) error { c.Speech.Synthesizer = v; return nil },
	"speech.recognizer":     func(c *Config, v string) error { c.Speech.Recognizer = v; return nil },

	"markdown.preserve_newlines": boolSetter(func(c *Config) *bool { return &c.Markdown.PreserveNewLines }),
}

// Set assigns one dotted key and validates the result
func (c *Config) Set(key, value string) error {
	setter, ok := setters[key]
	if !ok {
		return apierrors.NewConfigError(key, "unknown key")
	}
	next := *c
	if err := setter(&next, strings.TrimSpace(value)); err != nil {
		return apierrors.NewConfigError(key, err.Error())
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Keys returns every key accepted by Set, sorted
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%q is not a number", v)
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", v)
		}
		*field(c) = b
		return nil
	}
}

// AvailableBackends returns the supported backend names
func AvailableBackends() []string {
	return []string{BackendREST, BackendSDK}
}
