package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load loads the configuration from file, falling back to defaults when no
// file exists. Environment variables prefixed with DOCCHAT override both,
// with or without a config file (e.g. DOCCHAT_SERVER_PORT, DOCCHAT_AI_API_KEY).
func (l *Loader) Load() (*Config, error) {
	configPath := l.configPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".docchat", "docchat.json")
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.SetEnvPrefix("DOCCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key is registered with its default up front.
	setDefaults(v, cfg)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".docchat")
	}

	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(cfg.DataDir, "docchat.log")
	}

	if cfg.Sessions.ArchiveEnabled && cfg.Sessions.ArchivePath == "" {
		cfg.Sessions.ArchivePath = filepath.Join(cfg.DataDir, "transcripts.db")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.max_upload_mb", cfg.Server.MaxUploadMB)

	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.api_key", cfg.AI.APIKey)
	v.SetDefault("ai.max_tokens", cfg.AI.MaxTokens)
	v.SetDefault("ai.temperature", cfg.AI.Temperature)
	v.SetDefault("ai.timeout_seconds", cfg.AI.TimeoutSecs)

	v.SetDefault("sessions.idle_timeout_minutes", cfg.Sessions.IdleTimeoutMinutes)
	v.SetDefault("sessions.sweep_schedule", cfg.Sessions.SweepSchedule)
	v.SetDefault("sessions.archive_enabled", cfg.Sessions.ArchiveEnabled)
	v.SetDefault("sessions.archive_path", cfg.Sessions.ArchivePath)

	v.SetDefault("prompt.template_path", cfg.Prompt.TemplatePath)
	v.SetDefault("prompt.watch", cfg.Prompt.Watch)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.pretty", cfg.Logging.Pretty)

	v.SetDefault("data_dir", cfg.DataDir)
}
