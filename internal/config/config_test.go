package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	apierrors "github.com/diogo/teestudio/internal/errors"
)

// isolate points the config dir at a temp directory for one test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultModel != "gemini-2.0-flash" {
		t.Errorf("Expected default model to be 'gemini-2.0-flash', got '%s'", cfg.DefaultModel)
	}
	if cfg.Backend != BackendREST {
		t.Errorf("Backend = %s, want %s", cfg.Backend, BackendREST)
	}
	if cfg.APITimeoutSeconds != 0 {
		t.Errorf("APITimeoutSeconds = %d, want 0", cfg.APITimeoutSeconds)
	}
	if !cfg.Scene.ShowLogo || cfg.Scene.ShowFull {
		t.Errorf("Scene defaults = %+v", cfg.Scene)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv(EnvHome, "")
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("GetConfigDir() returned relative path: %s", dir)
	}
	if filepath.Base(dir) != ".teestudio" {
		t.Errorf("GetConfigDir() = %s, want a .teestudio directory", dir)
	}
}

func TestGetConfigDir_EnvOverride(t *testing.T) {
	dir := isolate(t)
	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if got != dir {
		t.Errorf("GetConfigDir() = %s, want %s", got, dir)
	}
}

func TestGetLogPath(t *testing.T) {
	dir := isolate(t)

	got, err := GetLogPath(DefaultConfig())
	if err != nil {
		t.Fatalf("GetLogPath() returned error: %v", err)
	}
	if want := filepath.Join(dir, "logs", "teestudio.log"); got != want {
		t.Errorf("GetLogPath() = %s, want %s", got, want)
	}

	cfg := DefaultConfig()
	cfg.LogFile = "/tmp/custom.log"
	got, _ = GetLogPath(cfg)
	if got != "/tmp/custom.log" {
		t.Errorf("GetLogPath() = %s, want /tmp/custom.log", got)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() without a file = %+v, want defaults", cfg)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	dir := filepath.Join(isolate(t), "nested")
	t.Setenv(EnvHome, dir)

	got, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("Directory does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Path is not a directory")
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("Directory permissions = %o, want 700", perm)
	}
}

func TestSaveConfig(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.DefaultModel = "gemini-2.5-pro"
	cfg.Backend = BackendSDK
	cfg.Scene.LogoSize = 2

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	if saved != cfg {
		t.Errorf("saved = %+v, want %+v", saved, cfg)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}
}

func TestLoadConfig_WithExistingFile(t *testing.T) {
	dir := isolate(t)

	// Partial file: missing fields keep their defaults
	partial := `{"default_model": "gemini-2.5-flash", "scene": {"show_logo": false, "logo_position": 2}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(partial), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.DefaultModel != "gemini-2.5-flash" {
		t.Errorf("DefaultModel = %s", cfg.DefaultModel)
	}
	if cfg.Scene.ShowLogo || cfg.Scene.LogoPosition != 2 {
		t.Errorf("Scene = %+v", cfg.Scene)
	}
	if cfg.Backend != BackendREST {
		t.Errorf("Backend = %s, want default %s", cfg.Backend, BackendREST)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := isolate(t)

	invalidJSON := `{"invalid": json content`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(invalidJSON), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() with invalid JSON should return error")
	}
	if cfg.DefaultModel != "gemini-2.0-flash" {
		t.Errorf("DefaultModel = %s, want gemini-2.0-flash", cfg.DefaultModel)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvModel:      " gemini-2.5-pro ",
		EnvBackend:    "SDK",
		EnvLogLevel:   "debug",
		EnvAPITimeout: "30",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := ApplyEnv(DefaultConfig(), lookup)

	if cfg.DefaultModel != "gemini-2.5-pro" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Backend != BackendSDK {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.APITimeoutSeconds != 30 {
		t.Errorf("APITimeoutSeconds = %d", cfg.APITimeoutSeconds)
	}
}

func TestApplyEnv_IgnoresBadValues(t *testing.T) {
	env := map[string]string{
		EnvModel:      "  ",
		EnvAPITimeout: "soon",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := ApplyEnv(DefaultConfig(), lookup)
	if cfg != DefaultConfig() {
		t.Errorf("ApplyEnv with unusable values changed config: %+v", cfg)
	}
}

func TestParseKeySource(t *testing.T) {
	tests := []struct {
		source   string
		wantKind string
		wantArg  string
		wantErr  bool
	}{
		{"", KeySourceEnv, EnvAPIKey, false},
		{"env", KeySourceEnv, EnvAPIKey, false},
		{"file:/run/secrets/gemini", "file", "/run/secrets/gemini", false},
		{"ssm:/teestudio/gemini-key", "ssm", "/teestudio/gemini-key", false},
		{"file:", "", "", true},
		{"ssm:  ", "", "", true},
		{"vault:secret", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			kind, arg, err := ParseKeySource(tt.source)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKeySource(%q) expected error", tt.source)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKeySource(%q) error = %v", tt.source, err)
			}
			if kind != tt.wantKind || arg != tt.wantArg {
				t.Errorf("ParseKeySource(%q) = (%q, %q), want (%q, %q)", tt.source, kind, arg, tt.wantKind, tt.wantArg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"bad backend", func(c *Config) { c.Backend = "grpc" }, "backend"},
		{"negative timeout", func(c *Config) { c.APITimeoutSeconds = -1 }, "api_timeout_seconds"},
		{"logo position", func(c *Config) { c.Scene.LogoPosition = 3 }, "scene.logo_position"},
		{"logo size", func(c *Config) { c.Scene.LogoSize = -1 }, "scene.logo_size"},
		{"key source", func(c *Config) { c.APIKeySource = "keychain" }, "api_key_source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			cfgErr, ok := err.(*apierrors.ConfigError)
			if !ok {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cfgErr.Key != tt.wantKey {
				t.Errorf("ConfigError.Key = %s, want %s", cfgErr.Key, tt.wantKey)
			}
		})
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("scene.logo_size", "2"); err != nil {
		t.Fatalf("Set(scene.logo_size) error = %v", err)
	}
	if cfg.Scene.LogoSize != 2 {
		t.Errorf("LogoSize = %d", cfg.Scene.LogoSize)
	}

	if err := cfg.Set("copy_to_clipboard", "true"); err != nil {
		t.Fatalf("Set(copy_to_clipboard) error = %v", err)
	}
	if !cfg.CopyToClipboard {
		t.Error("CopyToClipboard should be true")
	}

	if err := cfg.Set("backend", "SDK"); err != nil {
		t.Fatalf("Set(backend) error = %v", err)
	}
	if cfg.Backend != BackendSDK {
		t.Errorf("Backend = %s", cfg.Backend)
	}
}

func TestSet_RejectsAndKeepsConfig(t *testing.T) {
	cfg := DefaultConfig()
	before := cfg

	for _, kv := range [][2]string{
		{"nope", "1"},
		{"scene.logo_size", "large"},
		{"scene.logo_size", "7"},
		{"scene.show_full", "maybe"},
		{"backend", "carrier-pigeon"},
	} {
		if err := cfg.Set(kv[0], kv[1]); err == nil {
			t.Errorf("Set(%s, %s) expected error", kv[0], kv[1])
		}
	}
	if cfg != before {
		t.Errorf("failed Set calls modified config: %+v", cfg)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != len(setters) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(setters))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted at %d: %s > %s", i, keys[i-1], keys[i])
		}
	}
}

func TestAvailableBackends(t *testing.T) {
	backends := AvailableBackends()
	if len(backends) != 2 || backends[0] != BackendREST || backends[1] != BackendSDK {
		t.Errorf("AvailableBackends() = %v", backends)
	}
}
