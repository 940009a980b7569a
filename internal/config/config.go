package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"

	"portfolio-chat/internal/domain"
)

// Config is read once at process start and passed to constructors explicitly.
type Config struct {
	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	ParamPrefix   string `env:"PARAM_PREFIX"`
	APIKeyParam   string `env:"API_KEY_PARAM" envDefault:"google-api-key"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`

	HTTPPort       string   `env:"HTTP_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	PortfolioTable string `env:"PORTFOLIO_TABLE"`
	PortfolioOwner string `env:"PORTFOLIO_OWNER" envDefault:"default"`

	DeveloperName    string `env:"DEVELOPER_NAME" envDefault:"Dr. Pritam Kumar Modak"`
	DeveloperPhone   string `env:"DEVELOPER_PHONE" envDefault:"9064662830"`
	DeveloperEmail   string `env:"DEVELOPER_EMAIL" envDefault:"modakpritam06@gmail.com"`
	DeveloperAddress string `env:"DEVELOPER_ADDRESS" envDefault:"Puratan hat, Kalna, West Bengal, 713434"`

	// Keywords overrides the default intercept keywords when set.
	Keywords []string `env:"INTERCEPT_KEYWORDS" envSeparator:","`

	ChatServerURL string `env:"CHAT_SERVER_URL" envDefault:"http://localhost:8080"`
}

// Load parses the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.ParamPrefix = strings.TrimRight(strings.TrimSpace(cfg.ParamPrefix), "/")
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	cfg.Keywords = trimAll(cfg.Keywords)
	return &cfg, nil
}

func (c *Config) Developer() domain.DeveloperInfo {
	return domain.DeveloperInfo{
		Name:    c.DeveloperName,
		Phone:   c.DeveloperPhone,
		Email:   c.DeveloperEmail,
		Address: c.DeveloperAddress,
	}
}

// UseParamStore reports whether the API key should be read from SSM.
func (c *Config) UseParamStore() bool {
	return strings.TrimSpace(c.GoogleAPIKey) == "" && c.ParamPrefix != ""
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
