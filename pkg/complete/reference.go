package complete

import (
	"strings"

	"go.lsp.dev/protocol"
)

// referenceItems offers name paths after a '$'. Paths from inner scopes
// come first, matching how references resolve.
func (c *Completer) referenceItems(offset int) []protocol.CompletionItem {
	prefix, ok := referencePrefix(c.obj.Source(), offset)
	if !ok {
		return nil
	}

	var items []protocol.CompletionItem
	for _, path := range c.obj.AddressableNamesAtOffset(offset) {
		label := path.String()
		if !strings.HasPrefix(label, prefix) {
			continue
		}
		items = append(items, protocol.CompletionItem{
			Label: label,
			Kind:  protocol.CompletionItemKindVariable,
		})
	}
	return items
}
