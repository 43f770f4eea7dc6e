// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SKILLSYNC_ env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// DefaultConfidence is stored when the classifier supplies no usable score.
	DefaultConfidence float64 `koanf:"default_confidence" validate:"gte=0,lte=1"`

	AI      AIConfig      `koanf:"ai"`
	Storage StorageConfig `koanf:"storage"`
	Metrics MetricsConfig `koanf:"metrics"`

	// SeedProfiles preloads users and profiles at startup.
	SeedProfiles []SeedProfile `koanf:"seed_profiles" validate:"dive"`
}

// AIConfig configures the remote text-generation provider.
type AIConfig struct {
	// APIKey enables the remote strategy; empty or the sample placeholder
	// selects the heuristic.
	APIKey string `koanf:"api_key"`

	// APIURL is the OpenAI-compatible chat completions endpoint.
	APIURL string `koanf:"api_url" validate:"required,url"`

	Model       string  `koanf:"model" validate:"required"`
	Temperature float64 `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `koanf:"max_tokens" validate:"gt=0"`

	// TimeoutMS bounds the whole provider call.
	TimeoutMS int `koanf:"timeout_ms" validate:"gt=0"`

	// BreakerFailures consecutive failures open the provider circuit breaker
	// for BreakerCooldownMS.
	BreakerFailures   uint32 `koanf:"breaker_failures" validate:"gt=0"`
	BreakerCooldownMS int    `koanf:"breaker_cooldown_ms" validate:"gt=0"`
}

// StorageConfig selects the recommendation store backend.
type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres.
	Driver string `koanf:"driver" validate:"oneof=memory sqlite postgres"`

	// DSN is the gorm data source name; unused by the memory driver.
	DSN string `koanf:"dsn" validate:"required_unless=Driver memory"`
}

// MetricsConfig names the exported Prometheus series.
type MetricsConfig struct {
	Namespace string `koanf:"namespace" validate:"required"`
	Subsystem string `koanf:"subsystem" validate:"required"`
	// HTTPBucketsMS overrides the HTTP latency histogram buckets.
	HTTPBucketsMS []float64 `koanf:"http_buckets_ms" validate:"dive,gt=0"`
}

// SeedProfile is a user with an optional profile loaded at startup.
type SeedProfile struct {
	UserID            uint64   `koanf:"user_id" validate:"gt=0"`
	EducationLevel    string   `koanf:"education_level"`
	CareerGoal        string   `koanf:"career_goal"`
	Interests         string   `koanf:"interests"`
	YearsOfExperience *int     `koanf:"years_of_experience" validate:"omitempty,gte=0"`
	Skills            []string `koanf:"skills"`
	// NoProfile registers the user without a profile.
	NoProfile bool `koanf:"no_profile"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		DefaultConfidence: 0.85,
		AI: AIConfig{
			APIKey:            "",
			APIURL:            "https://api.openai.com/v1/chat/completions",
			Model:             "gpt-3.5-turbo",
			Temperature:       0.7,
			MaxTokens:         1000,
			TimeoutMS:         30_000,
			BreakerFailures:   5,
			BreakerCooldownMS: 60_000,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Metrics: MetricsConfig{
			Namespace: "skillsync",
			Subsystem: "recommendations",
		},
	}
}
