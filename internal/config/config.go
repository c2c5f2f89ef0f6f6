package config

// Config represents the main docchat configuration
type Config struct {
	// HTTP server
	Server ServerConfig `json:"server" mapstructure:"server"`

	// AI backend
	AI AIConfig `json:"ai" mapstructure:"ai"`

	// Session lifecycle
	Sessions SessionsConfig `json:"sessions" mapstructure:"sessions"`

	// System prompt
	Prompt PromptConfig `json:"prompt" mapstructure:"prompt"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string `json:"host" mapstructure:"host"`
	Port        int    `json:"port" mapstructure:"port"`
	MaxUploadMB int    `json:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// AIConfig selects and configures the AI backend
type AIConfig struct {
	Provider    string  `json:"provider" mapstructure:"provider"` // gemini, anthropic, openai, mock
	Model       string  `json:"model" mapstructure:"model"`
	APIKey      string  `json:"api_key" mapstructure:"api_key"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	TimeoutSecs int     `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// SessionsConfig controls session eviction and archiving.
// IdleTimeoutMinutes of 0 disables eviction entirely.
type SessionsConfig struct {
	IdleTimeoutMinutes int    `json:"idle_timeout_minutes" mapstructure:"idle_timeout_minutes"`
	SweepSchedule      string `json:"sweep_schedule" mapstructure:"sweep_schedule"`
	ArchiveEnabled     bool   `json:"archive_enabled" mapstructure:"archive_enabled"`
	ArchivePath        string `json:"archive_path" mapstructure:"archive_path"`
}

// PromptConfig configures the system prompt template
type PromptConfig struct {
	TemplatePath string `json:"template_path" mapstructure:"template_path"`
	Watch        bool   `json:"watch" mapstructure:"watch"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			MaxUploadMB: 20,
		},
		AI: AIConfig{
			Provider:    "gemini",
			TimeoutSecs: 60,
		},
		Sessions: SessionsConfig{
			IdleTimeoutMinutes: 0,
			SweepSchedule:      "@every 5m",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}
