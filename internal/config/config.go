package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all client configuration.
type Config struct {
	// BackendURL is the origin of the learning backend.
	BackendURL string `mapstructure:"backend_url"`

	// CodeRunnerURL is the origin of the code-execution service.
	CodeRunnerURL string `mapstructure:"code_runner_url"`

	Supabase SupabaseConfig `mapstructure:"supabase"`
	Log      LogConfig      `mapstructure:"log"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`

	// DB is the SQLite database path. Empty means the XDG default.
	DB string `mapstructure:"db"`

	// HTTPTimeout bounds a single backend request. Roadmap and quiz
	// generation routinely take tens of seconds.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// PollInterval is how often document status is re-fetched while
	// any document is still pending or processing.
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// SupabaseConfig holds the hosted auth/database project settings.
type SupabaseConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// QuizConfig configures quiz generation.
type QuizConfig struct {
	Questions int `mapstructure:"questions"`
}

// OAuthConfig configures the loopback OAuth callback.
type OAuthConfig struct {
	CallbackPort int `mapstructure:"callback_port"` // 0 picks a free port
}

// fallbackEnv maps config keys to the environment variables the web
// client used, so an existing .env keeps working.
var fallbackEnv = map[string]string{
	"backend_url":       "NEXT_PUBLIC_API_URL",
	"code_runner_url":   "NEXT_PUBLIC_CODE_RUNNER_URL",
	"supabase.url":      "NEXT_PUBLIC_SUPABASE_URL",
	"supabase.anon_key": "NEXT_PUBLIC_SUPABASE_ANON_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend_url", "http://localhost:8000")
	v.SetDefault("code_runner_url", "http://localhost:8001")
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.anon_key", "")
	v.SetDefault("db", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("quiz.questions", 5)
	v.SetDefault("oauth.callback_port", 0)
	v.SetDefault("http_timeout", "120s")
	v.SetDefault("poll_interval", "30s")
}

// Load reads configuration from (lowest to highest priority) defaults,
// the config file, and the environment. SENSEI_* variables win over their
// NEXT_PUBLIC_* fallbacks, and both win over the file. A .env file in the working
// directory is loaded into the environment first when present.
//
// configFile may be empty, in which case $XDG_CONFIG_HOME/sensei/config.yaml
// is used if it exists.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("SENSEI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range fallbackEnv {
		if os.Getenv("SENSEI_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))) != "" {
			continue
		}
		if val := os.Getenv(env); val != "" {
			v.Set(key, val)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	cfg.CodeRunnerURL = strings.TrimRight(cfg.CodeRunnerURL, "/")
	cfg.Supabase.URL = strings.TrimRight(cfg.Supabase.URL, "/")
	return &cfg, nil
}

// Validate checks the settings every signed-in command needs.
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SENSEI_SUPABASE_URL (or NEXT_PUBLIC_SUPABASE_URL) is required")
	}
	if c.Supabase.AnonKey == "" {
		return fmt.Errorf("SENSEI_SUPABASE_ANON_KEY (or NEXT_PUBLIC_SUPABASE_ANON_KEY) is required")
	}
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url must not be empty")
	}
	if c.Quiz.Questions <= 0 {
		return fmt.Errorf("quiz.questions must be positive, got %d", c.Quiz.Questions)
	}
	return nil
}

// configDir returns $XDG_CONFIG_HOME/sensei, falling back to ~/.config/sensei.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "sensei"), nil
}
