package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDriver      string // postgres | sqlite
	DatabaseURL   string
	SessionSecret string
	JWTSecret     string
	LogLevel      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	BlacklistCacheTTL time.Duration
	BlacklistSeedFile string
}

// Load 读取 .env（可选）与环境变量
func Load() (Config, bool) {
	// .env 不存在时直接使用系统环境变量
	envLoaded := godotenv.Load() == nil
	return FromEnv(), envLoaded
}

// FromEnv 只读环境变量，未设置的项使用默认值
func FromEnv() Config {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		DBDriver:          strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SessionSecret:     getenv("SESSION_SECRET", "secret_key_change_me"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getenvInt("REDIS_DB", 0),
		KafkaTopic:        getenv("KAFKA_TOPIC", "jielong.works"),
		BlacklistCacheTTL: getenvDuration("BLACKLIST_CACHE_TTL", 30*time.Second),
		BlacklistSeedFile: os.Getenv("BLACKLIST_SEED_FILE"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.DatabaseURL == "" {
		// Fallback for local dev if not set
		if cfg.DBDriver == "sqlite" {
			cfg.DatabaseURL = "jielong.db"
		} else {
			cfg.DatabaseURL = "host=localhost user=postgres password=postgres dbname=jielong port=5432 sslmode=disable TimeZone=UTC"
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
