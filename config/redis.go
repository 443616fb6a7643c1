package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var RedisClient *redis.Client

// Enrichment lookups (logo URL, category) are cached per company domain.
// The pipeline works without Redis, it just probes logo sources every time.
const enrichmentTTL = 7 * 24 * time.Hour

const (
	logoKeyPrefix     = "enrich:logo:"
	categoryKeyPrefix = "enrich:category:"
)

func InitRedis() {
	redisURL := viper.GetString("REDIS_URL")
	if redisURL == "" {
		log.Println("REDIS_URL not configured, enrichment caching disabled")
		return
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Warning: failed to parse REDIS_URL: %v - enrichment caching disabled", err)
		return
	}

	RedisClient = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: failed to connect to Redis: %v - enrichment caching disabled", err)
		RedisClient = nil
		return
	}

	log.Println("Connected to Redis")
}

// CacheLogoURL stores the resolved logo URL for a company domain.
func CacheLogoURL(domain, logoURL string) error {
	if RedisClient == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return RedisClient.Set(ctx, logoKeyPrefix+domain, logoURL, enrichmentTTL).Err()
}

// GetCachedLogoURL returns the cached logo URL for a domain, or "" on miss.
func GetCachedLogoURL(domain string) string {
	if RedisClient == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	val, err := RedisClient.Get(ctx, logoKeyPrefix+domain).Result()
	if err != nil {
		return ""
	}
	return val
}

// CacheCategory stores the resolved category for a company domain.
func CacheCategory(domain, category string) error {
	if RedisClient == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return RedisClient.Set(ctx, categoryKeyPrefix+domain, category, enrichmentTTL).Err()
}

// GetCachedCategory returns the cached category for a domain, or "" on miss.
func GetCachedCategory(domain string) string {
	if RedisClient == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	val, err := RedisClient.Get(ctx, categoryKeyPrefix+domain).Result()
	if err != nil {
		return ""
	}
	return val
}
