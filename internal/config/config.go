package config

import (
	"os"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// JWTSecret signs and verifies local HMAC tokens. Injected here so the
	// verifier never reads ambient process state.
	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string

	// Bootstrap admin, created at startup if absent. Seeding beyond this
	// single account is out of scope.
	BootstrapAdminUser     string
	BootstrapAdminPassHash string // bcrypt
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:                   mode,
		HTTPAddr:               envOr("HTTP_ADDR", ":8080"),
		DBDriver:               envOr("DB_DRIVER", "sqlite"),
		DBDSN:                  envOr("DB_DSN", ""),
		JWTSecret:              envOr("JWT_SECRET", "supersecret-dev-key"),
		TokenTTL:               envDuration("TOKEN_TTL", 7*24*time.Hour),
		CORSOrigins:            csvOr("CORS_ORIGINS", "http://localhost:3000"),
		BootstrapAdminUser:     envOr("BOOTSTRAP_ADMIN_USER", "admin"),
		BootstrapAdminPassHash: os.Getenv("BOOTSTRAP_ADMIN_PASS_HASH"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
