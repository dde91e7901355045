package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// Dockhand environment selectors are chosen by operators and can be anything,
// so they are reduced to a small, fixed set of types before being used as a
// metric label.

// EnvironmentType represents a classification of environment selectors for metrics.
type EnvironmentType string

// Environment type classifications for metrics cardinality control.
const (
	// EnvironmentTypeDefault is used when no environment is selected.
	EnvironmentTypeDefault EnvironmentType = "default"

	// EnvironmentTypeProduction represents production environments.
	EnvironmentTypeProduction EnvironmentType = "production"

	// EnvironmentTypeStaging represents staging/pre-production environments.
	EnvironmentTypeStaging EnvironmentType = "staging"

	// EnvironmentTypeDevelopment represents development, test and local environments.
	EnvironmentTypeDevelopment EnvironmentType = "development"

	// EnvironmentTypeOther represents environments that don't match any known pattern.
	EnvironmentTypeOther EnvironmentType = "other"
)

// ClassifyEnvironment classifies an environment selector into a type for metrics.
//
// # Classification Rules
//
// The function uses case-insensitive pattern matching:
//
//	| Pattern                              | Classification |
//	|--------------------------------------|----------------|
//	| Empty string                         | default        |
//	| prod, prd, live or production        | production     |
//	| Prefix/suffix prod-, -prod, prd-     | production     |
//	| staging, stage, stg, uat             | staging        |
//	| Prefix/suffix staging-, stg-, -stg   | staging        |
//	| dev, test, local, development, demo  | development    |
//	| Prefix/suffix dev-, test-, -dev      | development    |
//	| Everything else                      | other          |
//
// # Examples
//
//	ClassifyEnvironment("")             // "default"
//	ClassifyEnvironment("prod")         // "production"
//	ClassifyEnvironment("prod-eu-1")    // "production"
//	ClassifyEnvironment("uat")          // "staging"
//	ClassifyEnvironment("homelab-dev")  // "development"
//	ClassifyEnvironment("local")        // "development"
//	ClassifyEnvironment("homelab")      // "other"
func ClassifyEnvironment(env string) string {
	if env == "" {
		return string(EnvironmentTypeDefault)
	}

	name := strings.ToLower(strings.TrimSpace(env))

	if matchesAny(name, "prod", "prd", "live", "production") {
		return string(EnvironmentTypeProduction)
	}
	if matchesAny(name, "staging", "stage", "stg", "uat") {
		return string(EnvironmentTypeStaging)
	}
	if matchesAny(name, "dev", "development", "test", "local", "demo") {
		return string(EnvironmentTypeDevelopment)
	}

	return string(EnvironmentTypeOther)
}

// matchesAny reports whether name equals one of the tokens or contains one as
// a dash or underscore separated segment.
func matchesAny(name string, tokens ...string) bool {
	segments := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	for _, token := range tokens {
		if name == token {
			return true
		}
		for _, segment := range segments {
			if segment == token {
				return true
			}
		}
	}
	return false
}
