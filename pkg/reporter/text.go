package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mlsense/internal/ui/pretty"
	"github.com/yaklabco/mlsense/pkg/runner"
	"github.com/yaklabco/mlsense/pkg/source"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. Diagnostics are grouped by file.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int

	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil || len(file.Result.Diagnostics) == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Result.Diagnostics)))

		for _, diag := range file.Result.Diagnostics {
			var sourceLine string
			if r.opts.ShowContext {
				sourceLine = getSourceLine(file.Result.Source, diag.StartLine)
			}

			diag.FilePath = path
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&diag, r.opts.RuleFormat, sourceLine))
			total++
		}

		fmt.Fprintln(r.bw)
	}

	switch {
	case r.opts.DetailedSummary:
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	case r.opts.ShowSummary:
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// getSourceLine returns the text of a 1-based line using the document's
// position index.
func getSourceLine(obj *source.Object, lineNum int) string {
	if obj == nil {
		return ""
	}
	start, end, ok := obj.Index().LineRange(lineNum)
	if !ok {
		return ""
	}
	return obj.Source()[start:end]
}
