package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/Dev-Dhanush-hub/portfolio/internal/catalog"
	"github.com/Dev-Dhanush-hub/portfolio/internal/config"
	"github.com/Dev-Dhanush-hub/portfolio/internal/prefs"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	db, err := openDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatal(err)
	}

	backend, err := preferenceBackend(context.Background(), cfg, db)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Theme preferences stored in %s backend", cfg.Preferences.Backend)

	s := newServer(cfg, cat, db, backend)

	// Clean up old visitor data for privacy compliance (run in background)
	s.background(func(ctx context.Context) {
		if _, err := s.cleanupOldVisitorData(ctx); err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
		}
	})

	scheduler, err := s.scheduleCleanup()
	if err != nil {
		log.Fatal(err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.Println("Privacy cleanup scheduled nightly")

	r := s.router()
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.App.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(cfg.App.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d projects from %s", cat.Len(), cfg.App.CatalogPath)
	return cat, nil
}

// preferenceBackend returns nil for cookie persistence.
func preferenceBackend(ctx context.Context, cfg *config.Config, db *sql.DB) (prefs.Backend, error) {
	switch cfg.Preferences.Backend {
	case config.BackendMemory:
		return prefs.NewMemoryBackend(), nil
	case config.BackendSQLite:
		backend, err := prefs.NewSQLiteBackend(ctx, db)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return prefs.NewRedisBackend(client), nil
	default:
		return nil, nil
	}
}
