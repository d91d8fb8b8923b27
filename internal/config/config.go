package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/elicitlabs/elicit/internal/engine"
	"github.com/joho/godotenv"
)

// Load reads the .env file specified by ELICIT_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("ELICIT_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// GeneratorProvider returns the configured question/query generator.
// Defaults to "openai" if not set.
// Valid values: openai, fallback, mock
func GeneratorProvider() string {
	p := os.Getenv("GENERATOR_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// EmbeddingProvider returns the configured embedding provider.
// Defaults to "openai" if not set.
// Valid values: openai, mock
func EmbeddingProvider() string {
	p := os.Getenv("EMBEDDING_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// GeneratorAPIKey returns the API key for the configured generator provider.
func GeneratorAPIKey() string {
	switch GeneratorProvider() {
	case "fallback", "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingAPIKey returns the API key for the configured embedding provider.
func EmbeddingAPIKey() string {
	switch EmbeddingProvider() {
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// EngineConfig builds the decision engine tunables from env overrides on
// top of the engine defaults. Validation happens once at startup.
func EngineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if v, ok := envFloat("ENGINE_STOP_VOI"); ok {
		cfg.StopVoI = v
	}
	if v, ok := envFloat("ENGINE_COVERAGE_TARGET"); ok {
		cfg.CoverageTarget = v
	}
	if v, ok := envFloat("ENGINE_CRITICAL_GAP_THRESHOLD"); ok {
		cfg.CriticalGapThreshold = v
	}
	if v, ok := envFloat("ENGINE_DUP_SIMILARITY"); ok {
		cfg.DupSimilarity = v
	}
	if v, ok := envFloat("ENGINE_RRF_K"); ok {
		cfg.RRFK = v
	}
	if v, ok := envFloat("ENGINE_BUNDLE_SYNERGY"); ok {
		cfg.BundleSynergy = v
	}
	if v, ok := envInt("ENGINE_MAX_TURNS"); ok {
		cfg.MaxTurns = v
	}
	if v, ok := envInt("ENGINE_TOP_K_SLOTS"); ok {
		cfg.TopKSlots = v
	}
	if v, ok := envDuration("ENGINE_TURN_BUDGET"); ok {
		cfg.TurnBudget = v
	}
	if v, ok := envDuration("ENGINE_STALENESS_TAU"); ok {
		cfg.StalenessTau = v
	}
	if m := os.Getenv("ENGINE_DELTA_MODEL"); m != "" {
		cfg.DeltaModel = m
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

func envFloat(key string) (float64, bool) {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt(key string) (int, bool) {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0, false
	}
	return v, true
}

func envDuration(key string) (time.Duration, bool) {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return 0, false
	}
	return v, true
}
