// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Document fields.
	FieldURI     = "uri"
	FieldOffset  = "offset"
	FieldVersion = "version"
	FieldLength  = "length"
	FieldItems   = "items"

	// Configuration fields.
	FieldSchema = "schema"
	FieldJobs   = "jobs"
	FieldFormat = "format"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"

	// Rule and protocol fields.
	FieldRule        = "rule"
	FieldName        = "name"
	FieldSeverity    = "severity"
	FieldEnabled     = "enabled"
	FieldDescription = "description"
	FieldMethod      = "method"
)
