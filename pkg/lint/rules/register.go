package rules

import (
	"strings"

	"github.com/yaklabco/mlsense/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	registry.Register(NewSchemaChildrenRule())  // ML001
	registry.Register(NewUnclosedElementRule()) // ML002
}

// RegisterAliases registers alternate names accepted in configuration files.
func RegisterAliases(registry *lint.Registry) {
	registry.RegisterAlias("allowed-children", "ML001")
	registry.RegisterAlias("unclosed-tag", "ML002")
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	RegisterAliases(lint.DefaultRegistry)
}
