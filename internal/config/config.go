package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port     string
	AppEnv   string // "dev" | "prod"
	MongoURI string
	MongoDB  string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	OAuthStateSecret   string

	RedisAddr       string
	RateLimitPerMin int
	RabbitURL       string
}

func Load() Config {
	return Config{
		Port:     getenv("APP_PORT", "8080"),
		AppEnv:   getenv("APP_ENV", "dev"),
		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "askage"),

		GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getenv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/google/callback"),
		OAuthStateSecret:   getenv("OAUTH_STATE_SECRET", "default_state_secret"),

		RedisAddr:       getenv("REDIS_ADDR", ""),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "30")),
		RabbitURL:       getenv("RABBIT_URL", ""),
	}
}

func (c Config) Prod() bool { return c.AppEnv == "prod" }

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
