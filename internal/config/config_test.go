package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "meetink_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("GOOGLE_CLIENT_ID", "cid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "csecret")
	t.Setenv("SERVER_ENVIRONMENT", "development")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI != "mongodb://localhost:27017/testdb" || cfg.Redis.Addr() != "localhost:6379" {
		t.Fatalf("unexpected config values: %+v", cfg)
	}
	if cfg.JWT.SessionTTL != 7*24*time.Hour {
		t.Fatalf("unexpected session ttl: %v", cfg.JWT.SessionTTL)
	}
	if cfg.JWT.UsingDevSecret {
		t.Fatalf("explicit secret must not be reported as dev fallback")
	}
	if cfg.Cookie.Secure {
		t.Fatalf("cookies should not be secure-only in development")
	}
	if cfg.Google.ConnectTimeout != 10*time.Second || cfg.Google.Timeout != 30*time.Second {
		t.Fatalf("unexpected oauth timeouts: %+v", cfg.Google)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
}

func TestLoadConfig_DevSecretFallback(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.JWT.Secret != DevJWTSecret || !cfg.JWT.UsingDevSecret {
		t.Fatalf("expected development secret fallback, got %+v", cfg.JWT)
	}
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestLoadConfig_ProductionCookieSecure(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "prod-secret-32-bytes-xxxxxxxxxxxxxx")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Cookie.Secure {
		t.Fatalf("cookies must be secure-only in production")
	}
}

func TestLoadConfig_MongoURIFallback(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URI", "mongodb://legacy:27017/meetink")
	t.Setenv("SERVER_ENVIRONMENT", "development")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MongoDB.URI != "mongodb://legacy:27017/meetink" {
		t.Fatalf("expected MONGO_URI fallback, got %q", cfg.MongoDB.URI)
	}
}
