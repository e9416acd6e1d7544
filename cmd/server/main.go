package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/lead-triage/internal/api"
	"github.com/ignite/lead-triage/internal/config"
	"github.com/ignite/lead-triage/internal/filterstate"
	"github.com/ignite/lead-triage/internal/kvstore"
	"github.com/ignite/lead-triage/internal/pkg/logger"
	"github.com/ignite/lead-triage/internal/repository/postgres"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func buildKVStore(ctx context.Context, cfg config.StorageConfig) (kvstore.Store, error) {
	switch cfg.Type {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		return kvstore.NewRedisStore(client, cfg.Namespace), nil
	case "dynamo":
		if cfg.DynamoDB.Table == "" {
			return nil, fmt.Errorf("storage type dynamo requires a table name")
		}
		return kvstore.NewDynamoStore(ctx, cfg.DynamoDB.Table, cfg.DynamoDB.Region, cfg.DynamoDB.Profile, cfg.Namespace)
	case "memory":
		return kvstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

func main() {
	log.Println("Lead Triage Server starting")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if errors.Is(err, os.ErrNotExist) {
		log.Println("[config] no config file found, using defaults")
		cfg = config.Default()
	} else if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	host := cfg.Server.Host
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := buildKVStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize filter storage: %v", err)
	}
	log.Printf("[storage] filter state backend: %s (namespace %s)", cfg.Storage.Type, cfg.Storage.Namespace)

	filterState := filterstate.New(kv)
	filterState.Initialize(ctx)

	var leadSource api.LeadSource
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to open lead database: %v", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("Failed to reach lead database: %v", err)
		}
		leadSource = postgres.NewLeadRepo(db)
		log.Println("[database] lead source: postgres")
	} else {
		log.Println("[database] no DATABASE_URL configured, queue endpoint disabled")
	}

	handlers := api.NewHandlers(leadSource, filterState)
	router := api.SetupRoutes(handlers, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Listening on http://%s:%d", host, port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
