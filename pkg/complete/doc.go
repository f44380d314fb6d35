package complete

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.lsp.dev/protocol"
)

// DocFormat selects how schema descriptions are rendered.
type DocFormat string

const (
	// DocMarkdown passes descriptions through as Markdown.
	DocMarkdown DocFormat = "markdown"

	// DocPlainText strips Markdown formatting.
	DocPlainText DocFormat = "plaintext"

	// DocNone omits documentation.
	DocNone DocFormat = "none"
)

// IsValid reports whether f is a known format.
func (f DocFormat) IsValid() bool {
	switch f {
	case DocMarkdown, DocPlainText, DocNone:
		return true
	default:
		return false
	}
}

var markdown = goldmark.New()

func (c *Completer) documentation(desc string) any {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil
	}

	switch c.docs {
	case DocNone:
		return nil
	case DocPlainText:
		return protocol.MarkupContent{Kind: protocol.PlainText, Value: PlainText(desc)}
	default:
		return protocol.MarkupContent{Kind: protocol.Markdown, Value: desc}
	}
}

// PlainText renders Markdown to unformatted text. Blocks are separated by a
// blank line; inline markup keeps only its text.
func PlainText(md string) string {
	src := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	//nolint:errcheck // walker never returns an error
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				for i := range lines.Len() {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
			}
		}

		if !entering && n.Type() == ast.TypeBlock && n.NextSibling() != nil && n.Parent() == doc {
			b.WriteString("\n\n")
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
