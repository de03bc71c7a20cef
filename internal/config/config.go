package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort           string
	Env                string
	CORSAllowedOrigins []string
	DB                 DBConfig
	Push               PushConfig
	Mail               MailConfig
	Invites            InviteConfig
	Scheduler          SchedulerConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type PushConfig struct {
	URL     string
	Timeout time.Duration
}

type MailConfig struct {
	BaseURL     string
	APIKey      string
	SenderName  string
	SenderEmail string
	Timeout     time.Duration
}

type InviteConfig struct {
	TTL time.Duration
}

type SchedulerConfig struct {
	ReminderInterval     time.Duration
	InviteExpiryInterval time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	return Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		CORSAllowedOrigins: getEnvCSV("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "kidsweek"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Push: PushConfig{
			URL:     getEnv("PUSH_API_URL", "https://exp.host/--/api/v2/push/send"),
			Timeout: getEnvDuration("PUSH_TIMEOUT", 10*time.Second),
		},
		Mail: MailConfig{
			BaseURL:     getEnv("MAIL_API_URL", "https://api.brevo.com/v3/smtp/email"),
			APIKey:      getEnv("MAIL_API_KEY", ""),
			SenderName:  getEnv("MAIL_SENDER_NAME", "KidsWeek"),
			SenderEmail: getEnv("MAIL_SENDER_EMAIL", ""),
			Timeout:     getEnvDuration("MAIL_TIMEOUT", 10*time.Second),
		},
		Invites: InviteConfig{
			TTL: getEnvDuration("INVITE_TTL", 7*24*time.Hour),
		},
		Scheduler: SchedulerConfig{
			ReminderInterval:     getEnvDuration("REMINDER_SWEEP_INTERVAL", time.Minute),
			InviteExpiryInterval: getEnvDuration("INVITE_EXPIRY_SWEEP_INTERVAL", time.Hour),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvCSV(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
