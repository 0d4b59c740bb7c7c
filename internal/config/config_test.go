package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 120*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, int64(1), cfg.Solver.Seed)
	assert.Equal(t, []float64{0.3, 0.5, 1.0, 2.0}, cfg.Solver.Temperatures)
	assert.Equal(t, 100, cfg.Solver.TwoOptMaxPasses)
	assert.Equal(t, []string{"nn-2opt", "pnn-2opt"}, cfg.Solver.Heuristics)
	assert.Equal(t, 2, cfg.Solver.MaxConcurrent)
	assert.Equal(t, 1000, cfg.Solver.MaxDimension)
	assert.Equal(t, 10000, cfg.Solver.MaxItems)
	assert.Equal(t, time.Minute, cfg.Solver.Timeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ENVIRONMENT":               "production",
		"SERVER_PORT":               "9000",
		"LOG_FORMAT":                "json",
		"REDIS_ADDR":                "localhost:6379",
		"REPORT_CACHE_TTL":          "30s",
		"SOLVER_SEED":               "42",
		"SOLVER_TEMPERATURES":       "0.1,5",
		"SOLVER_TWO_OPT_MAX_PASSES": "7",
		"SOLVER_HEURISTICS":         "nn-greedy,random-greedy",
		"SOLVER_MAX_DIMENSION":      "50",
		"SOLVER_TIMEOUT":            "0s",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	assert.Equal(t, int64(42), cfg.Solver.Seed)
	assert.Equal(t, []float64{0.1, 5}, cfg.Solver.Temperatures)
	assert.Equal(t, 7, cfg.Solver.TwoOptMaxPasses)
	assert.Equal(t, []string{"nn-greedy", "random-greedy"}, cfg.Solver.Heuristics)
	assert.Equal(t, 50, cfg.Solver.MaxDimension)
	assert.Zero(t, cfg.Solver.Timeout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, vars := range map[string]map[string]string{
		"parse":       {"SOLVER_SEED": "abc"},
		"environment": {"ENVIRONMENT": "staging"},
		"log level":   {"LOG_LEVEL": "trace"},
		"temperature": {"SOLVER_TEMPERATURES": "0.5,-1"},
		"passes":      {"SOLVER_TWO_OPT_MAX_PASSES": "0"},
		"redis addr":  {"REDIS_ADDR": "no-port"},
		"port":        {"SERVER_PORT": "http"},
		"dimension":   {"SOLVER_MAX_DIMENSION": "100000"},
		"items":       {"SOLVER_MAX_ITEMS": "0"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(vars)
			assert.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("TTP_CONFIG_TEST", "  value ")
	assert.Equal(t, "value", Get("TTP_CONFIG_TEST", "fallback"))

	t.Setenv("TTP_CONFIG_TEST", "   ")
	assert.Equal(t, "fallback", Get("TTP_CONFIG_TEST", "fallback"))
}
