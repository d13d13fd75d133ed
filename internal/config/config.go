package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds everything main needs to wire the server.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	AutoMigrate     bool
	JWTSecret       string
	SessionSecret   string
	CORSOrigins     []string
	TrustedProxies  []string
	ShutdownTimeout time.Duration
	CompanyCacheTTL time.Duration
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction) || strings.EqualFold(c.Env, "prod")
}

// Load reads .env (if present) and then the process environment.
// The returned bool is false when no .env file was found.
func Load() (*Config, bool) {
	loaded := godotenv.Load() == nil

	cfg := &Config{
		Port:            String("PORT", "8080"),
		Env:             String("APP_ENV", EnvDevelopment),
		DatabaseURL:     String("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=interviewhub port=5432 sslmode=disable"),
		AutoMigrate:     Bool("DB_AUTO_MIGRATE", true),
		JWTSecret:       String("JWT_SECRET", "secret_key_change_me"),
		SessionSecret:   String("SESSION_SECRET", "secret_key_change_me"),
		CORSOrigins:     List("CORS_ORIGINS", []string{"http://localhost:5173"}),
		TrustedProxies:  List("TRUSTED_PROXIES", nil),
		ShutdownTimeout: time.Duration(Int("SHUTDOWN_TIMEOUT", 10)) * time.Second,
		CompanyCacheTTL: time.Duration(Int("COMPANY_CACHE_TTL", 60)) * time.Second,
	}
	return cfg, loaded
}

func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Bool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// List splits a comma separated variable, dropping empty entries.
func List(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
