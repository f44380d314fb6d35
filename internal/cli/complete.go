package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.lsp.dev/protocol"

	"github.com/yaklabco/mlsense/internal/logging"
	"github.com/yaklabco/mlsense/internal/ui/pretty"
	"github.com/yaklabco/mlsense/pkg/complete"
	"github.com/yaklabco/mlsense/pkg/position"
	"github.com/yaklabco/mlsense/pkg/source"
)

type completeFlags struct {
	json bool
}

func newCompleteCommand(global *globalFlags) *cobra.Command {
	flags := &completeFlags{}

	cmd := &cobra.Command{
		Use:   "complete FILE POSITION",
		Short: "Print completion candidates at a position",
		Long: `Print the completion candidates the language server would offer.

POSITION is either a byte offset or a 1-based LINE:COLUMN pair.

Examples:
  mlsense complete page.ml 42
  mlsense complete page.ml 3:7 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd.Context(), global, nil)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			obj := source.New(string(content), source.WithLogger(env.logger))
			offset, err := parsePosition(obj.Index(), args[1])
			if err != nil {
				return err
			}

			completer := complete.New(obj, env.schema,
				complete.WithDocFormat(complete.DocFormat(env.cfg.Completion.Documentation)),
				complete.WithLogger(env.logger),
			)
			items := completer.Items(offset)
			env.logger.Debug("completion", logging.FieldPath, args[0], logging.FieldOffset, offset, logging.FieldItems, len(items))

			out := cmd.OutOrStdout()
			if flags.json {
				if items == nil {
					items = []protocol.CompletionItem{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(items); err != nil {
					return fmt.Errorf("encode items: %w", err)
				}
				return nil
			}

			styles := pretty.NewStyles(pretty.IsColorEnabled(string(env.cfg.Color), out))
			for _, item := range items {
				fmt.Fprint(out, styles.FormatCompletion(item.Label, kindName(item.Kind)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "print items as JSON")

	return cmd
}

// parsePosition accepts a byte offset or a 1-based LINE:COLUMN pair.
func parsePosition(idx *position.Index, arg string) (int, error) {
	if line, col, ok := strings.Cut(arg, ":"); ok {
		l, lerr := strconv.Atoi(line)
		c, cerr := strconv.Atoi(col)
		if lerr != nil || cerr != nil {
			return 0, fmt.Errorf("invalid position %q: want LINE:COLUMN", arg)
		}
		offset, found := idx.PositionToOffset(position.Position{Line: l, Column: c})
		if !found {
			return 0, fmt.Errorf("position %q is outside the document", arg)
		}
		return offset, nil
	}

	offset, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", arg, err)
	}
	if offset < 0 || offset > idx.Len() {
		return 0, fmt.Errorf("offset %d is outside the document (length %d)", offset, idx.Len())
	}
	return offset, nil
}

func kindName(kind protocol.CompletionItemKind) string {
	switch kind {
	case protocol.CompletionItemKindClass:
		return "element"
	case protocol.CompletionItemKindProperty:
		return "attribute"
	case protocol.CompletionItemKindValue:
		return "value"
	case protocol.CompletionItemKindVariable:
		return "reference"
	default:
		return ""
	}
}
