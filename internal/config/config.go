package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath string // lesson assets (videos, workbooks)

	AuthSecret  string
	TokenTTLHrs int
	AllowSignup bool
	CORSOrigins []string

	SeedAdmin    string // username of the bootstrap admin; empty disables seeding
	SeedAdminPwd string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:     addr,
		PublicURL:    os.Getenv("PUBLIC_URL"),
		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:   envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TokenTTLHrs:  envInt("TOKEN_TTL_HOURS", 8),
		AllowSignup:  envBool("ALLOW_SIGNUP", true),
		CORSOrigins:  csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		SeedAdmin:    envOr("SEED_ADMIN_USER", "admin"),
		SeedAdminPwd: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
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
