package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetink/meetink/backend/go-services/handlers"
	"github.com/meetink/meetink/backend/go-services/internal/config"
	"github.com/meetink/meetink/backend/go-services/internal/content/graph"
	contentrepo "github.com/meetink/meetink/backend/go-services/internal/content/repository"
	contentsvc "github.com/meetink/meetink/backend/go-services/internal/content/service"
	"github.com/meetink/meetink/backend/go-services/internal/database"
	"github.com/meetink/meetink/backend/go-services/internal/oidc"
	"github.com/meetink/meetink/backend/go-services/internal/sessions"
	"github.com/meetink/meetink/backend/go-services/internal/tokens"
	"github.com/meetink/meetink/backend/go-services/internal/users"
	"github.com/meetink/meetink/backend/go-services/pkg/logger"
	"github.com/meetink/meetink/backend/go-services/pkg/metrics"
	"github.com/meetink/meetink/backend/go-services/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	mongoConnectAttempts   = 5
	oauthDiscoveryAttempts = 5
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s log_level=%s mongo=%v redis=%v google=%v dev_secret=%v",
		cfg.Server.Environment, logger.LevelString(), cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.Google.ClientID != "", cfg.JWT.UsingDevSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := handlers.NewHealthHandler(cfg.Server.Port)

	// Storage: MongoDB, or in-memory repositories in development.
	var (
		userRepo    users.UserRepository
		contentRepo contentrepo.Repository
	)
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts)
	switch {
	case err == nil:
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDB.Database)
		mu := users.NewMongoUserRepository(db.Collection(database.UsersCollection))
		if err := mu.EnsureIndexes(ctx); err != nil {
			logger.Fatalf("failed to ensure user indexes: %v", err)
		}
		mc := contentrepo.NewMongoRepo(db)
		if err := mc.EnsureIndexes(ctx); err != nil {
			logger.Warnf("failed to ensure content indexes: %v", err)
		}
		userRepo, contentRepo = mu, mc
		health.AddCheck("mongodb", mongoCheck(client))
		logger.Infof("connected to MongoDB database %q", cfg.MongoDB.Database)
	case cfg.Server.IsProduction():
		logger.Fatalf("could not connect to MongoDB: %v", err)
	default:
		logger.Warnf("could not connect to MongoDB (%v); using in-memory storage, data is lost on restart", err)
		userRepo, contentRepo = users.NewMemoryUserRepository(), contentrepo.NewMemoryRepo()
	}

	// Redis backs session revocation and the shared rate limiter. Optional.
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis at %s", addr)
		}
		defer func() { _ = rdb.Close() }()
		health.AddCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		logger.Warnf("REDIS_HOST not set; logout only clears the cookie")
	}

	// The OAuth client is built once, before any route is served.
	var provider handlers.IdentityProvider
	gc, err := oidc.NewGoogleClientWithRetry(ctx, cfg.Google, oauthDiscoveryAttempts)
	if err != nil {
		logger.Errorf("google oauth client unavailable: %v", err)
		u := oidc.Unavailable{Cause: err}
		provider = u
		health.AddCheck("oauth", u.Ready)
	} else {
		provider = gc
		health.AddCheck("oauth", gc.Ready)
	}

	codec := tokens.NewCodec(cfg.JWT.Secret, cfg.JWT.SessionTTL)
	logger.Infof("session tokens expire after %s", codec.TTL())
	var revocations sessions.RevocationList
	if rdb != nil {
		revocations = sessions.NewRedisRevocationList(rdb, "")
	}
	userSvc := users.NewService(userRepo)
	sessionSvc := sessions.NewService(codec, userRepo, revocations)

	schema, err := graph.NewSchema(contentsvc.New(contentRepo))
	if err != nil {
		logger.Fatalf("failed to build GraphQL schema: %v", err)
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.SessionSubject(middleware.VerifierFunc(func(raw string) (string, error) {
		claims, err := codec.Verify(raw)
		if err != nil {
			return "", err
		}
		return claims.Subject, nil
	}), handlers.SessionCookie))
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	health.Register(r)
	handlers.NewAuthHandler(cfg, provider, userSvc, sessionSvc).Register(r)
	handlers.RegisterGraphQL(r, schema)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("meetink api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

func mongoCheck(client *mongo.Client) handlers.CheckFunc {
	return func(ctx context.Context) error { return client.Ping(ctx, nil) }
}
