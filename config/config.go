package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Shared secret for the admin surface
	AdminToken string

	// Database configuration
	DatabaseURL string

	// Reward amounts (EXN units)
	OnboardingGrant   int64
	DailyLoginBonus   int64
	ReferrerReward    int64
	RefereeReward     int64
	BoostReward       int64
	ForgingReward     int64
	WelcomeTaskPoints int64

	// Contribution ceiling per user (Stars, credited 1:1)
	ContributionCeiling int64

	// Forging session length
	ForgingDuration time.Duration

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
	once.Do(func() {})
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		OnboardingGrant:     500,
		DailyLoginBonus:     10,
		ReferrerReward:      100,
		RefereeReward:       50,
		BoostReward:         5000,
		ForgingReward:       100,
		WelcomeTaskPoints:   50,
		ContributionCeiling: 10000,
		ForgingDuration:     24 * time.Hour,
	}
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		AdminToken:  os.Getenv("ADMIN_TOKEN"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Reward defaults
		OnboardingGrant:   500,
		DailyLoginBonus:   10,
		ReferrerReward:    100,
		RefereeReward:     50,
		BoostReward:       5000,
		ForgingReward:     100,
		WelcomeTaskPoints: 50,

		ContributionCeiling: 10000,
		ForgingDuration:     24 * time.Hour,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	// Override defaults if environment variables are set
	overrideInt64(&config.OnboardingGrant, "ONBOARDING_GRANT")
	overrideInt64(&config.DailyLoginBonus, "DAILY_LOGIN_BONUS")
	overrideInt64(&config.ReferrerReward, "REFERRER_REWARD")
	overrideInt64(&config.RefereeReward, "REFEREE_REWARD")
	overrideInt64(&config.BoostReward, "BOOST_REWARD")
	overrideInt64(&config.ForgingReward, "FORGING_REWARD")
	overrideInt64(&config.WelcomeTaskPoints, "WELCOME_TASK_POINTS")
	overrideInt64(&config.ContributionCeiling, "CONTRIBUTION_CEILING")

	if hours := os.Getenv("FORGING_DURATION_HOURS"); hours != "" {
		if parsed, err := strconv.Atoi(hours); err == nil && parsed > 0 {
			config.ForgingDuration = time.Duration(parsed) * time.Hour
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func overrideInt64(target *int64, envVar string) {
	if value := os.Getenv(envVar); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			*target = parsed
		}
	}
}
