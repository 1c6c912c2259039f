package config

import (
	"os"
	"strconv"

	"github.com/google/uuid"
)

// RedisConfig - the question journal. The server publishes to Stream and every
// cmd/store replica reads it through Group, so both sides must resolve the
// same Stream.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	Group    string
	Consumer string // unique within Group
	MaxLen   int64  // approximate stream cap, 0 keeps every entry
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvInt("REDIS_DB", 0),
		Stream:   getEnv("REDIS_STREAM", "clima_questions"),
		Group:    getEnv("REDIS_GROUP", "clima_history"),
		Consumer: getEnv("REDIS_CONSUMER", consumerName()),
		MaxLen:   int64(getEnvInt("REDIS_STREAM_MAXLEN", 100000)),
	}
}

// replicas on one host need distinct names within the group
func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "store"
	}
	return host + "-" + uuid.NewString()[:8]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back on unset, unparseable or negative values
func getEnvInt(key string, defaultValue int) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}
