package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	BotToken string
	BotDebug bool

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DatabaseURL string // если задан, заменяет DB_*

	// Генерация текста (OpenAI-совместимый API, по умолчанию Groq)
	LLMAPIKey        string
	LLMBaseURL       string
	LLMModel         string
	LLMFallbackModel string
	LLMTemperature   float64
	LLMMaxTokens     int
	LLMTimeout       time.Duration
	PersonaPath      string // системный промпт тренера, перечитывается при изменении

	Location    *time.Location
	AutoMigrate bool
	HTTPAddr    string // пусто - HTTP проверки не запускаются
	LogLevel    string
	Development bool
}

// Load загружает конфигурацию из переменных окружения или .env файла.
// Переменные окружения имеют приоритет над файлом.
func Load() (*Config, error) {
	return load(".env")
}

// LoadDatabase загружает только параметры БД, для утилиты миграций
func LoadDatabase() *Config {
	cfg := &Config{}
	cfg.setDatabase(envReader(".env"))
	return cfg
}

// envReader возвращает чтение ключа: окружение, затем файл, затем значение по умолчанию
func envReader(envFile string) func(key, defaultValue string) string {
	env, err := godotenv.Read(envFile)
	if err != nil {
		env = make(map[string]string)
	}
	return func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		if value, ok := env[key]; ok && value != "" {
			return value
		}
		return defaultValue
	}
}

func (c *Config) setDatabase(getEnv func(key, defaultValue string) string) {
	c.DBHost = getEnv("DB_HOST", "localhost")
	c.DBPort = getEnv("DB_PORT", "5432")
	c.DBUser = getEnv("DB_USER", "postgres")
	c.DBPassword = getEnv("DB_PASSWORD", "")
	c.DBName = getEnv("DB_NAME", "fitmind")
	c.DatabaseURL = getEnv("DATABASE_URL", "")
}

func load(envFile string) (*Config, error) {
	var err error
	getEnv := envReader(envFile)

	cfg := &Config{
		BotToken: getEnv("BOT_TOKEN", ""),

		LLMAPIKey:        getEnv("GROQ_API_KEY", ""),
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1/"),
		LLMModel:         getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
		LLMFallbackModel: getEnv("LLM_FALLBACK_MODEL", "llama-3.3-70b-versatile"),
		PersonaPath:      getEnv("PERSONA_PATH", ""),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN не задан")
	}
	cfg.setDatabase(getEnv)

	if cfg.BotDebug, err = parseBool("BOT_DEBUG", getEnv("BOT_DEBUG", "false")); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = parseBool("AUTO_MIGRATE", getEnv("AUTO_MIGRATE", "true")); err != nil {
		return nil, err
	}
	cfg.Development = strings.EqualFold(getEnv("APP_ENV", "production"), "development")

	if cfg.LLMTemperature, err = strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.5"), 64); err != nil {
		return nil, fmt.Errorf("LLM_TEMPERATURE: %w", err)
	}
	if cfg.LLMMaxTokens, err = strconv.Atoi(getEnv("LLM_MAX_TOKENS", "1000")); err != nil || cfg.LLMMaxTokens <= 0 {
		return nil, fmt.Errorf("LLM_MAX_TOKENS должен быть положительным числом")
	}
	if cfg.LLMTimeout, err = time.ParseDuration(getEnv("LLM_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("LLM_TIMEOUT: %w", err)
	}

	tz := getEnv("TIMEZONE", "Europe/Moscow")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("неизвестный часовой пояс %q: %w", tz, err)
	}

	return cfg, nil
}

// DSN возвращает строку подключения к базе данных в виде URL.
// Этот же адрес принимают и драйвер, и миграции.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: ожидается true/false, получено %q", key, value)
	}
	return b, nil
}
