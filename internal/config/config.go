package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/meetink/meetink/backend/go-services/pkg/logger"
	"github.com/spf13/viper"
)

// DevJWTSecret signs session tokens when JWT_SECRET is unset outside production.
const DevJWTSecret = "meetink-development-secret-do-not-use-in-production"

// ErrMissingJWTSecret is returned by LoadConfig in production when JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Google    GoogleConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Frontend  FrontendConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// IsProduction reports whether the service runs with production guarantees.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// GoogleConfig configures the OAuth client registered with Google.
type GoogleConfig struct {
	ClientID       string
	ClientSecret   string
	Issuer         string
	RedirectURL    string
	ConnectTimeout time.Duration
	Timeout        time.Duration
}

type JWTConfig struct {
	Secret     string
	SessionTTL time.Duration
	// UsingDevSecret is true when Secret is the development fallback.
	UsingDevSecret bool
}

type CookieConfig struct {
	Secure bool
	Domain string
}

type FrontendConfig struct {
	URL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "meetink")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("GOOGLE_ISSUER", "https://accounts.google.com")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8000/auth/callback/google")
	viper.SetDefault("OAUTH_CONNECT_TIMEOUT", 10)
	viper.SetDefault("OAUTH_TIMEOUT", 30)
	viper.SetDefault("JWT_SESSION_TTL", 10080)
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001,https://meetink.vercel.app,https://*.vercel.app")
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	env := viper.GetString("SERVER_ENVIRONMENT")
	viper.SetDefault("COOKIE_SECURE", strings.EqualFold(env, "production"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  env,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      mongoURI(),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Google: GoogleConfig{
			ClientID:       viper.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret:   viper.GetString("GOOGLE_CLIENT_SECRET"),
			Issuer:         viper.GetString("GOOGLE_ISSUER"),
			RedirectURL:    viper.GetString("GOOGLE_REDIRECT_URL"),
			ConnectTimeout: time.Duration(viper.GetInt("OAUTH_CONNECT_TIMEOUT")) * time.Second,
			Timeout:        time.Duration(viper.GetInt("OAUTH_TIMEOUT")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			SessionTTL: time.Duration(viper.GetInt("JWT_SESSION_TTL")) * time.Minute,
		},
		Cookie: CookieConfig{
			Secure: viper.GetBool("COOKIE_SECURE"),
			Domain: viper.GetString("COOKIE_DOMAIN"),
		},
		Frontend: FrontendConfig{
			URL: strings.TrimRight(viper.GetString("FRONTEND_URL"), "/"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.JWT.Secret == "" {
		if cfg.Server.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		logger.Warnf("JWT_SECRET is not set; using the development secret (environment=%s)", cfg.Server.Environment)
		cfg.JWT.Secret = DevJWTSecret
		cfg.JWT.UsingDevSecret = true
	}
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		logger.Warnf("GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set; /auth/login/google will fail")
	}

	return cfg, nil
}

// mongoURI honours the connection-string variables older deployments used.
func mongoURI() string {
	for _, k := range []string{"MONGODB_URI", "MONGO_URI", "DATABASE_URL"} {
		if v := viper.GetString(k); v != "" {
			return v
		}
	}
	return "mongodb://localhost:27017/meetink"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
