package main

import (
	"context"
	"os"
	"time"

	"github.com/meetink/meetink/backend/go-services/internal/config"
	contentrepo "github.com/meetink/meetink/backend/go-services/internal/content/repository"
	"github.com/meetink/meetink/backend/go-services/internal/database"
	"github.com/meetink/meetink/backend/go-services/internal/users"
	"github.com/meetink/meetink/backend/go-services/pkg/logger"
)

// ensure-indexes creates the MongoDB indexes the API relies on and exits.
// Run it once per deployment before rolling out a new database.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
	if err != nil {
		logger.Fatalf("cannot connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDB.Database)
	if err := users.NewMongoUserRepository(db.Collection(database.UsersCollection)).EnsureIndexes(ctx); err != nil {
		logger.Fatalf("users indexes: %v", err)
	}
	if err := contentrepo.NewMongoRepo(db).EnsureIndexes(ctx); err != nil {
		logger.Fatalf("content indexes: %v", err)
	}
	logger.Infof("indexes ensured on database %q", cfg.MongoDB.Database)
}
