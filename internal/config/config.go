package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN        string
	ServerPort   string
	JWTSecret    string
	ClientOrigin string
	AdminEmails  []string
	TokenTTL     time.Duration
	SeedDemo     bool
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:        os.Getenv("DB_DSN"),
		ServerPort:   os.Getenv("SERVER_PORT"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		ClientOrigin: os.Getenv("CLIENT_URL"),
		AdminEmails:  splitEmails(os.Getenv("ADMIN_EMAILS")),
		TokenTTL:     tokenTTL(os.Getenv("TOKEN_TTL_HOURS")),
		SeedDemo:     os.Getenv("SEED_DEMO_DATA") == "true",
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if cfg.ClientOrigin == "" {
		cfg.ClientOrigin = "http://localhost:5173"
	}
	if len(cfg.AdminEmails) == 0 {
		cfg.AdminEmails = []string{"admin1@crm.com", "admin2@crm.com", "admin3@crm.com"}
	}

	return cfg
}

func splitEmails(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Admin and self-registered tokens used to expire at different times;
// a single knob now covers both.
func tokenTTL(raw string) time.Duration {
	if raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h > 0 {
			return time.Duration(h) * time.Hour
		}
	}
	return 168 * time.Hour
}
