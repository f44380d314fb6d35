package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/mlsense/pkg/config"
)

// envVarPrefix is the prefix for all mlsense environment variables.
const envVarPrefix = "MLSENSE_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SCHEMA":        {field: "schema", typ: envTypeString, description: "Path of the schema file"},
	"LOG_LEVEL":     {field: "log_level", typ: envTypeString, description: "Log level: debug, info, warn, or error"},
	"DOCUMENTATION": {field: "completion.documentation", typ: envTypeString, description: "Completion documentation: markdown, plaintext, or none"},
	"FORMAT":        {field: "format", typ: envTypeString, description: "Output format for check: text or json"},
	"JOBS":          {field: "jobs", typ: envTypeInt, description: "Number of parallel workers (0 = auto)"},
	"IGNORE":        {field: "ignore", typ: envTypeSlice, description: "Comma-separated list of ignore patterns"},
}

// LoadFromEnv applies MLSENSE_* environment variable overrides to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.Getenv)
}

func loadFromLookup(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		envVar := envVarPrefix + suffix
		value := getenv(envVar)
		if value == "" {
			continue
		}
		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		if mapping.field != "jobs" {
			return fmt.Errorf("unknown integer field: %s", mapping.field)
		}
		cfg.Jobs = i
		return nil
	case envTypeSlice:
		if mapping.field != "ignore" {
			return fmt.Errorf("unknown slice field: %s", mapping.field)
		}
		cfg.Ignore = parseSliceValue(value)
		return nil
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated string, trimming each element.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "schema":
		cfg.Schema = value
	case "log_level":
		cfg.LogLevel = value
	case "completion.documentation":
		cfg.Completion.Documentation = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
