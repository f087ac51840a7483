package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	PlacesBase  string
	PlacesKey   string
	TourismBase string
	TourismKey  string
	SeedFile    string
	SeedWorkers int
	CacheTTL    time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/babystay?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		PlacesBase:  env("PLACES_BASE_URL", "https://dapi.kakao.com"),
		PlacesKey:   env("PLACES_API_KEY", ""),
		TourismBase: env("TOURISM_BASE_URL", "https://apis.data.go.kr"),
		TourismKey:  env("TOURISM_API_KEY", ""),
		SeedFile:    env("SEED_FILE", "seed.json"),
		SeedWorkers: atoi("SEED_WORKERS", 8),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	// The proxies degrade to structured failure documents without keys,
	// so an empty key is a warning, not a fatal.
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty")
	}
	if c.TourismKey == "" {
		log.Warn().Msg("TOURISM_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
