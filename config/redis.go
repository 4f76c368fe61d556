package config

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// Redis stays nil when REDIS_URL is unset; rate limiting then no-ops.
var Redis *redis.Client

func ConnectRedis(cfg Config) {
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, rate limiting disabled")
		return
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, rate limiting disabled: %v", err)
		return
	}

	Redis = redis.NewClient(opts)
}
