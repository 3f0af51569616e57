package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	ServerPort      string
	ShutdownTimeout time.Duration

	StoreBackend string
	MongoURI     string
	MongoDBName  string
	RedisURL     string

	JWTSecret    string
	JWTExpiresIn time.Duration

	PasswordBlacklistFile string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	// FrontendGoogleCallbackURL receives the browser after the Google flow,
	// with a status query parameter.
	FrontendGoogleCallbackURL string

	CORSOrigin string

	AuthRateLimit float64
	AuthRateBurst int
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For header
	// is believed. Empty means the remote address is always the client.
	TrustedProxies []string

	GeneratorDelay       time.Duration
	GeneratorMembersFile string
	SessionTTL           time.Duration

	LogFile  string
	LogLevel string
}

// Load reads the optional .env file and then the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return Config{}, fmt.Errorf("error loading %s: %w", f, err)
			}
		}
	}

	cfg := Config{
		ServerPort:                getEnv("SERVER_PORT", "8000"),
		StoreBackend:              strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:                  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:               getEnv("MONGO_DB_NAME", "teamsync"),
		RedisURL:                  os.Getenv("REDIS_URL"),
		JWTSecret:                 os.Getenv("JWT_SECRET"),
		PasswordBlacklistFile:     os.Getenv("PASSWORD_BLACKLIST_FILE"),
		GoogleClientID:            os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:        os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:         getEnv("GOOGLE_CALLBACK_URL", "http://localhost:8000/api/auth/google/callback"),
		FrontendGoogleCallbackURL: getEnv("FRONTEND_GOOGLE_CALLBACK_URL", "http://localhost:5173/google/oauth/callback"),
		CORSOrigin:                getEnv("CORS_ORIGIN", "http://localhost:5173"),
		GeneratorMembersFile:      os.Getenv("GENERATOR_MEMBERS_FILE"),
		LogFile:                   os.Getenv("LOG_FILE"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		TrustedProxies:            getList("TRUSTED_PROXIES"),
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.JWTExpiresIn, err = getDuration("JWT_EXPIRES_IN", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.GeneratorDelay, err = getDuration("GENERATOR_DELAY", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.AuthRateLimit, err = getFloat("AUTH_RATE_LIMIT", 1); err != nil {
		return Config{}, err
	}
	if cfg.AuthRateBurst, err = getInt("AUTH_RATE_BURST", 5); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.StoreBackend != BackendMongo && c.StoreBackend != BackendMemory {
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMongo, BackendMemory, c.StoreBackend)
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	return nil
}

// GoogleEnabled reports whether the Google OAuth routes can work.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.ServerPort, ":")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
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
		return 0, fmt.Errorf("invalid %s: %w", key, err)
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
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}
