package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caloriefinder/backend/config"
	httpDelivery "github.com/caloriefinder/backend/internal/delivery/http"
	"github.com/caloriefinder/backend/internal/domain"
	"github.com/caloriefinder/backend/internal/infrastructure/cache"
	"github.com/caloriefinder/backend/internal/infrastructure/openfoodfacts"
	"github.com/caloriefinder/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Calorie Finder Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	lookupCache, err := newLookupCache(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	offClient := openfoodfacts.NewClient(openfoodfacts.Config{
		BaseURL:       cfg.Provider.BaseURL,
		UserAgent:     cfg.Provider.UserAgent,
		LookupTimeout: cfg.Provider.LookupTimeout,
		SearchTimeout: cfg.Provider.SearchTimeout,
	}, lookupCache)

	debug := cfg.Server.Environment == "development"
	if debug {
		offClient.SetDebug(true)
		log.Printf("Open Food Facts client debug mode enabled")
	}

	log.Printf("Open Food Facts API: %s (lookup timeout %s, search timeout %s)",
		cfg.Provider.BaseURL, cfg.Provider.LookupTimeout, cfg.Provider.SearchTimeout)

	searchService := usecase.NewSearchService(offClient, usecase.SearchServiceConfig{
		TextPageSize:       cfg.Provider.SearchPageSize,
		EnableDebugLogging: debug,
	})

	handler := httpDelivery.NewHandler(searchService, cfg.Server.AllowedOrigins)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newLookupCache builds the cache backend selected in configuration
func newLookupCache(cfg config.CacheConfig) (domain.LookupCache, error) {
	if cfg.Type != "redis" {
		return cache.NewMemoryCache(), nil
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		return nil, err
	}

	log.Printf("Redis cache connected")
	return redisCache, nil
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
