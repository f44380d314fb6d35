// Package rules provides the built-in rules for mlsense.
//
// # Rules
//
//   - ML001: schema-children - Elements must be allowed by the schema where they appear
//
//   - ML002: unclosed-element - Elements should have a complete start tag and a close tag
//     (disabled by default)
//
// Every rule in this package registers itself with lint.DefaultRegistry
// when the package is imported.
package rules
