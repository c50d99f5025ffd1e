package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultTavilyBaseURL = "https://api.tavily.com"
	DefaultPort          = "3001"
	DefaultTTL           = 24 * time.Hour
)

type Config struct {
	GroqAPIKey      string
	GroqBaseURL     string
	TavilyAPIKey    string
	TavilyBaseURL   string
	Model           string
	Port            string
	ConversationTTL time.Duration
	LogLevel        zapcore.Level
	SettingsPath    string
}

var (
	configInstance *Config
	once           sync.Once
)

func InitConfig() (*Config, error) {
	var initErr error

	once.Do(func() {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err := config.Build()
		if err != nil {
			logger = zap.NewNop()
			initErr = fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		// Load .env file
		if err := godotenv.Load(); err != nil {
			if os.IsNotExist(err) {
				logger.Warn("No .env file found; falling back to system environment variables")
			} else {
				initErr = fmt.Errorf("failed to load .env file: %w", err)
				logger.Error("Config file load error", zap.Error(err))
				return
			}
		} else {
			logger.Debug("Successfully loaded .env file")
		}

		cfg, err := LoadFromEnv(logger)
		if err != nil {
			initErr = err
			return
		}
		configInstance = cfg
	})

	if initErr != nil {
		return nil, initErr
	}
	if configInstance == nil {
		return nil, fmt.Errorf("configuration initialization failed unexpectedly")
	}

	return configInstance, nil
}

// LoadFromEnv builds a Config from the process environment. Missing API keys
// are logged but not fatal; the first call to the collaborator fails instead.
func LoadFromEnv(logger *zap.Logger) (*Config, error) {
	cfg := &Config{
		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:   getEnv("GROQ_BASE_URL", DefaultGroqBaseURL),
		TavilyAPIKey:  os.Getenv("TAVILY_API_KEY"),
		TavilyBaseURL: getEnv("TAVILY_BASE_URL", DefaultTavilyBaseURL),
		Model:         os.Getenv("SKGPT_MODEL"),
		Port:          getEnv("PORT", DefaultPort),
		SettingsPath:  getEnv("SKGPT_SETTINGS", DefaultSettingsPath()),
		LogLevel:      zap.WarnLevel,
	}

	if cfg.GroqAPIKey == "" {
		logger.Warn("GROQ_API_KEY not set in environment variables")
	} else {
		logger.Debug("Resolved Groq API key", zap.String("key", maskKey(cfg.GroqAPIKey)))
	}
	if cfg.TavilyAPIKey == "" {
		logger.Warn("TAVILY_API_KEY not set in environment variables")
	}

	ttl, err := parseTTL(getEnv("CONVERSATION_TTL", ""))
	if err != nil {
		return nil, err
	}
	cfg.ConversationTTL = ttl

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
		cfg.LogLevel = parsed
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	return cfg, nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.Port
}

func parseTTL(value string) (time.Duration, error) {
	if value == "" {
		return DefaultTTL, nil
	}
	ttl, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", value, err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("CONVERSATION_TTL must be positive, got %s", ttl)
	}
	return ttl, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
