package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Env        string
	ServerPort string
	CORSOrigin string
	LogFile    string

	MongoURI    string
	MongoDBName string

	JWTSecret         string
	TokenTTL          time.Duration
	PasswordBlacklist string

	ModelServerURL    string
	ModelProbeTimeout time.Duration

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	CassandraHosts []string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads envFile if it exists and then the process environment.
// A missing file is not an error; containers usually inject variables directly.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "*"),
		LogFile:           os.Getenv("LOG_FILE"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "planner"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		PasswordBlacklist: os.Getenv("PASSWORD_BLACKLIST"),
		ModelServerURL:    strings.TrimRight(os.Getenv("MODEL_SERVER_URL"), "/"),
		Neo4jURI:          os.Getenv("NEO4J_URI"),
		Neo4jUser:         os.Getenv("NEO4J_USERNAME"),
		Neo4jPassword:     os.Getenv("NEO4J_PASSWORD"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ModelProbeTimeout, err = getDuration("MODEL_PROBE_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	if hosts := os.Getenv("CASS_DB"); hosts != "" {
		for _, h := range strings.Split(hosts, ",") {
			if h = strings.TrimSpace(h); h != "" {
				cfg.CassandraHosts = append(cfg.CassandraHosts, h)
			}
		}
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is not set")
		}
		cfg.JWTSecret = "development-secret"
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) Neo4jEnabled() bool {
	return c.Neo4jURI != ""
}

func (c *Config) CassandraEnabled() bool {
	return len(c.CassandraHosts) > 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return i, nil
}
