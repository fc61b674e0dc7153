package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds the in-process series cache settings
type CacheConfig struct {
	Size    int
	TTL     time.Duration
	Enabled bool
}

const (
	defaultCacheSize = 128
	defaultCacheTTL  = 30 * time.Minute
)

func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Size:    defaultCacheSize,
		TTL:     defaultCacheTTL,
		Enabled: true,
	}
}

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		Size:    getEnvInt("PRECIP_CACHE_SIZE", defaultCacheSize),
		TTL:     getDurationEnvOrDefault("PRECIP_CACHE_TTL", defaultCacheTTL),
		Enabled: getEnvBool("PRECIP_CACHE_ENABLED", true),
	}

	if config.Size <= 0 {
		log.Warn().Int("size", config.Size).Msg("Cache size must be positive, using default")
		config.Size = defaultCacheSize
	}

	log.Debug().
		Int("Size", config.Size).
		Dur("TTL", config.TTL).
		Bool("Enabled", config.Enabled).
		Msg("Cache configuration loaded")

	return config
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
