package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the scheduling system.
// Flags are loaded once at startup with environment overrides and can be
// flipped at runtime for testing.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// Predefined feature flag names.
const (
	// === Scheduling Features ===

	// Apply full eligibility checks (availability, slot preference,
	// subject match, avoid marks) to manually created sessions, not only
	// to auto-assignment.
	FeatureStrictManualValidation = "scheduling.strict_manual_validation"

	// Run the nightly auto-assignment job.
	FeatureAutoAssignJob = "scheduling.auto_assign_job"

	// === Cache Features ===

	// Serve day schedules from Redis before hitting PostgreSQL.
	FeatureScheduleCache = "cache.day_schedule"

	// === Experimental Features ===

	// Publish domain events for external consumers (future: webhooks).
	FeatureExperimentalEventExport = "experimental.event_export"
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureStrictManualValidation] = &Feature{
		Name:        FeatureStrictManualValidation,
		Description: "Apply eligibility checks to manually created sessions",
		Enabled:     false, // Manual scheduling is an operator override by default
	}

	ff.features[FeatureAutoAssignJob] = &Feature{
		Name:        FeatureAutoAssignJob,
		Description: "Run the nightly auto-assignment job",
		Enabled:     true,
	}

	ff.features[FeatureScheduleCache] = &Feature{
		Name:        FeatureScheduleCache,
		Description: "Cache day schedules in Redis",
		Enabled:     true,
	}

	ff.features[FeatureExperimentalEventExport] = &Feature{
		Name:        FeatureExperimentalEventExport,
		Description: "Publish domain events to external consumers",
		Enabled:     false,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_SCHEDULING_STRICT_MANUAL_VALIDATION=true
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "scheduling.auto_assign_job" -> "FEATURE_SCHEDULING_AUTO_ASSIGN_JOB"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is currently enabled.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	return true
}

// EnableFeature enables a feature.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.setEnabled(featureName, true)
}

// DisableFeature disables a feature.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.setEnabled(featureName, false)
}

func (ff *FeatureFlags) setEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
