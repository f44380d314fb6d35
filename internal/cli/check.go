package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mlsense/internal/logging"
	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/lint"
	"github.com/yaklabco/mlsense/pkg/reporter"
	"github.com/yaklabco/mlsense/pkg/runner"
)

type checkFlags struct {
	format     string
	jobs       int
	ignore     []string
	enable     []string
	disable    []string
	strict     bool
	noContext  bool
	compact    bool
	summary    bool
	ruleFormat string
}

func newCheckCommand(global *globalFlags) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check documents against the schema",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rules to enable (ID or name)")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rules to disable (ID or name)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a detailed summary block after text output")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")

	return cmd
}

const checkLongDescription = `Check documents for elements the schema does not allow.

By default, checks every .ml and .mlx file under the current directory.
Specify paths to check specific files or directories.

Examples:
  mlsense check                      # Check current directory
  mlsense check docs/                # Check docs directory
  mlsense check page.ml              # Check a single file
  mlsense check --format json        # Output as JSON for CI
  mlsense check --enable unclosed-element
  mlsense check --strict             # Treat warnings as errors`

func runCheck(cmd *cobra.Command, args []string, global *globalFlags, flags *checkFlags) error {
	ctx := cmd.Context()

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	cliCfg := &config.Config{
		Format:       config.OutputFormat(format),
		RuleFormat:   config.RuleFormat(flags.ruleFormat),
		Jobs:         flags.jobs,
		EnableRules:  flags.enable,
		DisableRules: flags.disable,
	}

	env, err := loadEnvironment(ctx, global, cliCfg)
	if err != nil {
		return err
	}
	cfg := env.cfg

	engine := lint.NewEngine(lint.DefaultRegistry, env.schema, lint.WithEngineLogger(env.logger))
	checkRunner := runner.New(engine, runner.WithLogger(env.logger))

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   env.workDir,
		Extensions:   cfg.Extensions,
		ExcludeGlobs: append(append([]string{}, cfg.Ignore...), flags.ignore...),
		Jobs:         cfg.Jobs,
		Config:       cfg,
	}

	env.logger.Debug("starting check",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := checkRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("check run failed: %w", err)
	}

	env.logger.Debug("check finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:          cmd.OutOrStdout(),
		Format:          reporter.Format(cfg.Format),
		Color:           string(cfg.Color),
		ShowContext:     !flags.noContext,
		ShowSummary:     true,
		DetailedSummary: flags.summary,
		Compact:         flags.compact,
		RuleFormat:      cfg.RuleFormat,
		WorkingDir:      env.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result, flags.strict) != ExitSuccess {
		return ErrIssuesFound
	}
	return nil
}
