package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mlsense/internal/configloader"
	"github.com/yaklabco/mlsense/internal/logging"
	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/lint"
	"github.com/yaklabco/mlsense/pkg/schema"
)

// environment is the resolved configuration shared by the subcommands.
type environment struct {
	cfg     *config.Config
	schema  *schema.Schema
	workDir string
	logger  *log.Logger
}

// loadEnvironment resolves configuration and the schema it names.
func loadEnvironment(ctx context.Context, global *globalFlags, cliCfg *config.Config) (*environment, error) {
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	if cliCfg == nil {
		cliCfg = &config.Config{}
	}
	if global.color != "" {
		cliCfg.Color = config.ColorMode(global.color)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: global.configPath,
		Registry:     lint.DefaultRegistry,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	if !global.debug {
		logging.SetLevel(cfg.LogLevel)
	}

	sch := schema.Default()
	if cfg.Schema != "" {
		sch, err = schema.LoadFile(cfg.Schema)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
	}
	logger.Debug("configuration loaded",
		logging.FieldSchema, cfg.Schema,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFormat, cfg.Format,
	)

	return &environment{
		cfg:     cfg,
		schema:  sch,
		workDir: workDir,
		logger:  logger,
	}, nil
}
