package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Engine   EngineConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	PoolSize      int
	MinIdleConns  int
}

type JWTConfig struct {
	SecretKey string
}

// EngineConfig is the recognized tuning surface of the audience engine.
type EngineConfig struct {
	AudienceSize int // personas sampled per run
	// Distribution is "auto", or explicit "category:weight,category:weight"
	// pairs parsed into DistributionWeights.
	Distribution        string
	DistributionWeights map[string]float64
	TickCeiling         int     // hard per-session tick bound
	MinSessions         int     // statistical floor for aggregation
	LearningAlpha       float64 // EMA rate, (0,1]
	LearningEnabled     bool
	SimulationWorkers   int // 0 = one per CPU
	EvaluationCacheTTLs int // seconds, redis evaluation cache
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database index")
	}
	redisPool, err := getEnvInt("REDIS_POOL_SIZE", 10)
	if err != nil {
		return nil, err
	}
	redisIdle, err := getEnvInt("REDIS_MIN_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}

	engine, err := loadEngine()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "AudienceLab API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "audiencelab"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisUsername: getEnv("REDIS_USERNAME", "default"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			PoolSize:      redisPool,
			MinIdleConns:  redisIdle,
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Engine: engine,
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}
	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func loadEngine() (EngineConfig, error) {
	e := EngineConfig{}
	var err error

	if e.AudienceSize, err = getEnvInt("AUDIENCE_SIZE", 100); err != nil {
		return e, err
	}
	e.Distribution = getEnv("AUDIENCE_DISTRIBUTION", "auto")
	if e.Distribution != "auto" {
		if e.DistributionWeights, err = parseWeights(e.Distribution); err != nil {
			return e, err
		}
	}
	if e.TickCeiling, err = getEnvInt("SIMULATION_TICK_CEILING", 7200); err != nil {
		return e, err
	}
	if e.MinSessions, err = getEnvInt("AGGREGATION_MIN_SESSIONS", 30); err != nil {
		return e, err
	}
	if e.SimulationWorkers, err = getEnvInt("SIMULATION_WORKERS", 0); err != nil {
		return e, err
	}
	if e.EvaluationCacheTTLs, err = getEnvInt("EVALUATION_CACHE_TTL_SECONDS", 3600); err != nil {
		return e, err
	}

	alphaRaw := getEnv("LEARNING_ALPHA", "0.2")
	alpha, err := strconv.ParseFloat(alphaRaw, 64)
	if err != nil || alpha <= 0 || alpha > 1 {
		return e, fmt.Errorf("LEARNING_ALPHA must be in (0,1], got %q", alphaRaw)
	}
	e.LearningAlpha = alpha

	e.LearningEnabled = getEnv("LEARNING_ENABLED", "true") == "true"

	if e.AudienceSize <= 0 {
		return e, errors.New("AUDIENCE_SIZE must be > 0")
	}
	if e.MinSessions <= 0 {
		return e, errors.New("AGGREGATION_MIN_SESSIONS must be > 0")
	}
	if e.TickCeiling <= 0 {
		return e, errors.New("SIMULATION_TICK_CEILING must be > 0")
	}

	return e, nil
}

// parseWeights reads an explicit distribution such as
// "junior_developer:0.6,senior_developer:0.4".
func parseWeights(raw string) (map[string]float64, error) {
	weights := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		category, value, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || category == "" {
			return nil, fmt.Errorf("AUDIENCE_DISTRIBUTION must be \"auto\" or category:weight pairs, got %q", raw)
		}
		w, err := strconv.ParseFloat(value, 64)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("AUDIENCE_DISTRIBUTION weight for %q must be > 0, got %q", category, value)
		}
		weights[category] = w
	}
	return weights, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}
