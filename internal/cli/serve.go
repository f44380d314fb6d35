package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mlsense/internal/logging"
	"github.com/yaklabco/mlsense/internal/lsp"
	"github.com/yaklabco/mlsense/pkg/lint"
)

func newServeCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdin and stdout",
		Long: `Run a language server speaking JSON-RPC on stdin and stdout.

Editors start this command and talk to it directly. Logs are written to
stderr so they never mix with protocol messages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadEnvironment(cmd.Context(), global, nil)
			if err != nil {
				return err
			}

			if term.IsTerminal(int(os.Stdin.Fd())) {
				env.logger.Warn("stdin is a terminal; serve expects a language client on stdin")
			}

			srv := lsp.NewServer(env.schema, env.cfg,
				lsp.WithLogger(env.logger),
				lsp.WithRegistry(lint.DefaultRegistry),
			)

			env.logger.Info("language server started", logging.FieldSchema, env.cfg.Schema)
			if err := lsp.Serve(cmd.Context(), lsp.Stdio{In: os.Stdin, Out: os.Stdout}, srv); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
}
