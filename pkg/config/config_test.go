package config

import "testing"

func clearEngineEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AUDIENCE_SIZE", "AUDIENCE_DISTRIBUTION", "SIMULATION_TICK_CEILING",
		"AGGREGATION_MIN_SESSIONS", "SIMULATION_WORKERS",
		"EVALUATION_CACHE_TTL_SECONDS", "LEARNING_ALPHA", "LEARNING_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadEngineDefaults(t *testing.T) {
	clearEngineEnv(t)

	e, err := loadEngine()
	if err != nil {
		t.Fatalf("loadEngine: %v", err)
	}

	if e.AudienceSize != 100 {
		t.Fatalf("default audience size %d, want 100", e.AudienceSize)
	}
	if e.Distribution != "auto" || e.DistributionWeights != nil {
		t.Fatalf("default distribution %q with weights %v, want auto with none", e.Distribution, e.DistributionWeights)
	}
	if e.TickCeiling != 7200 {
		t.Fatalf("default tick ceiling %d, want 7200", e.TickCeiling)
	}
	if e.MinSessions != 30 {
		t.Fatalf("default min sessions %d, want 30", e.MinSessions)
	}
	if e.LearningAlpha != 0.2 || !e.LearningEnabled {
		t.Fatalf("default learning alpha=%v enabled=%v, want 0.2 enabled", e.LearningAlpha, e.LearningEnabled)
	}
}

func TestLoadEngineExplicitDistribution(t *testing.T) {
	clearEngineEnv(t)
	t.Setenv("AUDIENCE_DISTRIBUTION", "junior_developer:0.6, senior_developer:0.4")

	e, err := loadEngine()
	if err != nil {
		t.Fatalf("loadEngine: %v", err)
	}

	if len(e.DistributionWeights) != 2 {
		t.Fatalf("parsed weights %v, want two categories", e.DistributionWeights)
	}
	if e.DistributionWeights["junior_developer"] != 0.6 || e.DistributionWeights["senior_developer"] != 0.4 {
		t.Fatalf("parsed weights %v", e.DistributionWeights)
	}
}

func TestLoadEngineRejectsMalformedDistribution(t *testing.T) {
	for _, raw := range []string{
		"junior_developer",
		"junior_developer:abc",
		"junior_developer:-1",
		"junior_developer:0",
		":0.5",
	} {
		clearEngineEnv(t)
		t.Setenv("AUDIENCE_DISTRIBUTION", raw)

		if _, err := loadEngine(); err == nil {
			t.Fatalf("loadEngine accepted %q", raw)
		}
	}
}

func TestLoadEngineRejectsBadAlpha(t *testing.T) {
	for _, raw := range []string{"0", "1.5", "nope"} {
		clearEngineEnv(t)
		t.Setenv("LEARNING_ALPHA", raw)

		if _, err := loadEngine(); err == nil {
			t.Fatalf("loadEngine accepted alpha %q", raw)
		}
	}
}

func TestLoadRedisSettings(t *testing.T) {
	clearEngineEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("REDIS_USERNAME", "")
	t.Setenv("REDIS_POOL_SIZE", "")
	t.Setenv("REDIS_MIN_IDLE_CONNS", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Redis.RedisUsername != "default" || cfg.Redis.PoolSize != 10 || cfg.Redis.MinIdleConns != 5 {
		t.Fatalf("redis defaults: %+v", cfg.Redis)
	}

	t.Setenv("REDIS_USERNAME", "engine")
	t.Setenv("REDIS_POOL_SIZE", "32")
	t.Setenv("REDIS_MIN_IDLE_CONNS", "8")

	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Redis.RedisUsername != "engine" || cfg.Redis.PoolSize != 32 || cfg.Redis.MinIdleConns != 8 {
		t.Fatalf("redis overrides: %+v", cfg.Redis)
	}
}
