package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	// Remote collaborators.
	BackendBaseURL string
	PaymentFlow    string

	// Local admin session for the companion dashboard.
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string

	// Optional client-state database; the in-memory store is used when empty.
	DBDSN string

	// Optional ops notifications.
	TelegramBotToken string
	TelegramChatID   int64
}

// LoadEnv reads configuration from the environment, with .env as a
// convenience for local runs.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	env := Env{
		AppAddr:           getEnvWithDefault("APP_ADDR", ":8080"),
		GinMode:           strings.TrimSpace(os.Getenv("GIN_MODE")),
		BackendBaseURL:    strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_BASE_URL")), "/"),
		PaymentFlow:       getEnvWithDefault("PAYMENT_FLOW", "book_first"),
		AdminEmail:        strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		JWTSecret:         getEnvWithDefault("JWT_SECRET", "super-secret-key-change-me"),
		DBDSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		TelegramBotToken:  strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
	}

	if env.BackendBaseURL == "" {
		return env, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if env.PaymentFlow != "book_first" && env.PaymentFlow != "pay_first" {
		return env, fmt.Errorf("PAYMENT_FLOW must be book_first or pay_first, got %q", env.PaymentFlow)
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return env, fmt.Errorf("TELEGRAM_CHAT_ID must be numeric: %w", err)
		}
		env.TelegramChatID = id
	}

	return env, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}
