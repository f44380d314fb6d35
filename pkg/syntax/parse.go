package syntax

import "strings"

type openElement struct {
	node *Node
	name string
}

// parser performs a single-pass scan of markup source into a concrete
// syntax tree. Children are contiguous only inside tags; whitespace between
// tag parts is covered by the tag but by none of its children.
type parser struct {
	src   string
	pos   int
	root  *Node
	stack []openElement
}

// Parse builds the concrete syntax tree for src. It never fails: unclosed
// elements are closed at their parent's close tag or at end of input, and
// stray close tags become MismatchedCloseTag nodes.
func Parse(src string) *Tree {
	p := &parser{
		src:  src,
		root: &Node{Kind: KindDocument, Start: 0, End: len(src)},
	}

	p.parse()

	return &Tree{Source: src, Root: p.root}
}

func (p *parser) parse() {
	for p.pos < len(p.src) {
		if p.src[p.pos] != '<' {
			p.text()
			continue
		}

		switch {
		case p.hasPrefix("<!--"):
			p.delimited(KindComment, len("<!--"), "-->")
		case p.hasPrefix("<![CDATA["):
			p.delimited(KindCdata, len("<![CDATA["), "]]>")
		case p.hasPrefix("<?"):
			p.delimited(KindProcessingInst, len("<?"), "?>")
		case p.hasPrefix("<!"):
			p.delimited(KindDoctype, len("<!"), ">")
		case p.hasPrefix("</"):
			p.closeTag()
		default:
			p.openTag()
		}
	}

	p.popTo(0, len(p.src))
}

// container returns the node new content is appended to.
func (p *parser) container() *Node {
	if len(p.stack) == 0 {
		return p.root
	}
	return p.stack[len(p.stack)-1].node
}

// popTo closes every open element at stack index i or above, ending each at end.
func (p *parser) popTo(i, end int) {
	for j := len(p.stack) - 1; j >= i; j-- {
		p.stack[j].node.End = end
	}
	p.stack = p.stack[:i]
}

func (p *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(p.src[p.pos:], prefix)
}

func (p *parser) text() {
	start := p.pos
	if idx := strings.IndexByte(p.src[p.pos:], '<'); idx >= 0 {
		p.pos += idx
	} else {
		p.pos = len(p.src)
	}
	p.container().add(&Node{Kind: KindText, Start: start, End: p.pos})
}

// delimited consumes an opener, then everything up to and including closer,
// or to end of input when closer never appears.
func (p *parser) delimited(kind Kind, openLen int, closer string) {
	start := p.pos
	body := start + openLen
	if idx := strings.Index(p.src[body:], closer); idx >= 0 {
		p.pos = body + idx + len(closer)
	} else {
		p.pos = len(p.src)
	}
	p.container().add(&Node{Kind: kind, Start: start, End: p.pos})
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) name() string {
	start := p.pos
	if p.pos >= len(p.src) || !isNameStart(p.src[p.pos]) {
		return ""
	}
	p.pos++
	for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) closeTag() {
	start := p.pos
	tag := &Node{Kind: KindCloseTag, Start: start}
	tag.add(&Node{Kind: KindStartCloseTag, Start: start, End: start + 2})
	p.pos += 2

	nameStart := p.pos
	name := p.name()
	if name != "" {
		tag.add(&Node{Kind: KindTagName, Start: nameStart, End: p.pos})
	}

	save := p.pos
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '>' {
		tag.add(&Node{Kind: KindEndTag, Start: p.pos, End: p.pos + 1})
		p.pos++
	} else {
		p.pos = save
	}
	tag.End = p.pos

	match := -1
	if name != "" {
		for i := len(p.stack) - 1; i >= 0; i-- {
			if p.stack[i].name == name {
				match = i
				break
			}
		}
	}

	if match < 0 {
		tag.Kind = KindMismatchedCloseTag
		p.container().add(tag)
		return
	}

	// Elements opened after the match were never closed; they end where
	// this close tag begins.
	p.popTo(match+1, start)

	el := p.stack[match].node
	el.add(tag)
	p.popTo(match, p.pos)
}

func (p *parser) openTag() {
	start := p.pos
	el := &Node{Kind: KindElement, Start: start}
	tag := el.add(&Node{Kind: KindOpenTag, Start: start})
	tag.add(&Node{Kind: KindStartTag, Start: start, End: start + 1})
	p.pos++

	nameStart := p.pos
	name := p.name()
	if name == "" {
		tag.End = p.pos
		el.End = p.pos
		p.container().add(el)
		return
	}
	tag.add(&Node{Kind: KindTagName, Start: nameStart, End: p.pos})

	complete, selfClosing := false, false

loop:
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}

		c := p.src[p.pos]
		switch {
		case c == '>':
			tag.add(&Node{Kind: KindEndTag, Start: p.pos, End: p.pos + 1})
			p.pos++
			complete = true
			break loop
		case c == '/' && p.hasPrefix("/>"):
			tag.add(&Node{Kind: KindSelfCloseEndTag, Start: p.pos, End: p.pos + 2})
			p.pos += 2
			complete, selfClosing = true, true
			break loop
		case c == '<':
			break loop
		case isNameStart(c):
			tag.add(p.attribute())
		default:
			p.pos++
		}
	}

	tag.End = p.pos
	p.container().add(el)

	if complete && selfClosing {
		tag.Kind = KindSelfClosingTag
		el.End = p.pos
		return
	}

	p.stack = append(p.stack, openElement{node: el, name: name})
}

func (p *parser) attribute() *Node {
	attr := &Node{Kind: KindAttribute, Start: p.pos}
	nameStart := p.pos
	p.name()
	attr.add(&Node{Kind: KindAttributeName, Start: nameStart, End: p.pos})

	save := p.pos
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '=' {
		p.pos = save
		attr.End = p.pos
		return attr
	}

	attr.add(&Node{Kind: KindIs, Start: p.pos, End: p.pos + 1})
	p.pos++
	afterIs := p.pos

	p.skipSpace()
	if value := p.attributeValue(); value != nil {
		attr.add(value)
	} else {
		p.pos = afterIs
	}

	attr.End = p.pos
	return attr
}

func (p *parser) attributeValue() *Node {
	if p.pos >= len(p.src) {
		return nil
	}

	start := p.pos
	c := p.src[p.pos]

	if c == '"' || c == '\'' {
		p.pos++
		for p.pos < len(p.src) {
			switch {
			case p.src[p.pos] == c:
				p.pos++
				return &Node{Kind: KindAttributeValue, Start: start, End: p.pos}
			case p.src[p.pos] == '<' && p.tagLike(p.pos):
				return &Node{Kind: KindAttributeValue, Start: start, End: p.pos}
			}
			p.pos++
		}
		return &Node{Kind: KindAttributeValue, Start: start, End: p.pos}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if isSpace(c) || c == '>' || c == '<' || (c == '/' && p.hasPrefix("/>")) {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return nil
	}
	return &Node{Kind: KindAttributeValue, Start: start, End: p.pos}
}

// tagLike reports whether the '<' at i starts markup rather than being a
// literal character inside an unterminated quoted value.
func (p *parser) tagLike(i int) bool {
	if i+1 >= len(p.src) {
		return false
	}
	c := p.src[i+1]
	return isNameStart(c) || c == '/' || c == '!' || c == '?'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == ':' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '.'
}

// IsWordChar reports whether c continues an identifier-like word.
func IsWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
