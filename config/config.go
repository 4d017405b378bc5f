package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv pulls in .env when present; real deployments set the environment
// directly and the file is optional.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
}

type Config struct {
	RedisAddr  string
	RedisPwd   string
	WebOrigin  string
	SessionTTL time.Duration

	// Registered accounts get <matricula>@EmailDomain as their address.
	EmailDomain string

	// First-admin bootstrap; both empty disables it.
	AdminMatricula string
	AdminPassword  string
}

func Load() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(get("SESSION_TTL_SECONDS", "86400") + "s"); err == nil {
		ttl = d
	}

	return Config{
		RedisAddr:      get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:       os.Getenv("REDIS_PASSWORD"),
		WebOrigin:      get("WEB_ORIGIN", "http://localhost:3000"),
		SessionTTL:     ttl,
		EmailDomain:    get("EMAIL_DOMAIN", "uni.edu"),
		AdminMatricula: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_MATRICULA"))),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}
}
