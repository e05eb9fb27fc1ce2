// Package config handles YAML config file loading for sluice run.
package config

import (
	"os"
	"regexp"
)

// envVarPattern matches ${VAR} and ${VAR:-default}. Group 1 is the variable
// name, group 2 the default (empty when absent).
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv substitutes ${VAR} and ${VAR:-default} references in input.
// A set, non-empty variable wins; otherwise the default applies; a ${VAR}
// with no default and no value becomes the empty string, which downstream
// validation treats as unset (e.g. a missing adapter URL).
func ExpandEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, expandOne)
}

func expandOne(match string) string {
	groups := envVarPattern.FindStringSubmatch(match)
	name, fallback := groups[1], groups[2]

	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value
	}
	return fallback
}
