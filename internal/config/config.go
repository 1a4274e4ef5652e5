package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	// RequestTimeoutSeconds bounds each HTTP request, including LLM calls made on its behalf.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a postgres connection URL, or a file path / DSN for sqlite.
	URL string `mapstructure:"url" validate:"required"`
}

// Supported LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderClaude = "claude"
)

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=gemini openai ollama claude"`
	// APIKey is required for every provider except ollama.
	APIKey    string `mapstructure:"api_key" validate:"required_unless=Provider ollama"`
	ModelName string `mapstructure:"model_name" validate:"required"`
	// BaseURL overrides the provider endpoint (required for ollama).
	BaseURL   string `mapstructure:"base_url" validate:"required_if=Provider ollama"`
	MaxTokens int    `mapstructure:"max_tokens" validate:"gt=0"`
}

// NotifyConfig configures outbound WhatsApp messages. Leaving the Twilio
// credentials empty disables delivery; reports are then only logged.
type NotifyConfig struct {
	TwilioAccountSID string `mapstructure:"twilio_account_sid"`
	TwilioAuthToken  string `mapstructure:"twilio_auth_token" validate:"required_with=TwilioAccountSID"`
	WhatsAppFrom     string `mapstructure:"whatsapp_from" validate:"required_with=TwilioAccountSID"`
}

// Enabled reports whether Twilio delivery is configured.
func (n NotifyConfig) Enabled() bool {
	return n.TwilioAccountSID != "" && n.TwilioAuthToken != ""
}
