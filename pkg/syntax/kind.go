package syntax

// Kind classifies a node of the concrete syntax tree.
type Kind uint8

// Node kinds. Punctuation kinds (StartTag, EndTag, ...) cover exactly the
// characters they name; container kinds cover their children plus any
// whitespace between them.
const (
	KindDocument Kind = iota
	KindElement
	KindOpenTag           // <name attr="v">
	KindSelfClosingTag    // <name attr="v"/>
	KindCloseTag          // </name>
	KindMismatchedCloseTag // </other> with no open element of that name
	KindStartTag          // <
	KindStartCloseTag     // </
	KindEndTag            // >
	KindSelfCloseEndTag   // />
	KindTagName
	KindAttribute
	KindAttributeName
	KindIs // =
	KindAttributeValue
	KindText
	KindComment
	KindProcessingInst
	KindCdata
	KindDoctype
)

var kindNames = [...]string{
	KindDocument:           "Document",
	KindElement:            "Element",
	KindOpenTag:            "OpenTag",
	KindSelfClosingTag:     "SelfClosingTag",
	KindCloseTag:           "CloseTag",
	KindMismatchedCloseTag: "MismatchedCloseTag",
	KindStartTag:           "StartTag",
	KindStartCloseTag:      "StartCloseTag",
	KindEndTag:             "EndTag",
	KindSelfCloseEndTag:    "SelfCloseEndTag",
	KindTagName:            "TagName",
	KindAttribute:          "Attribute",
	KindAttributeName:      "AttributeName",
	KindIs:                 "Is",
	KindAttributeValue:     "AttributeValue",
	KindText:               "Text",
	KindComment:            "Comment",
	KindProcessingInst:     "ProcessingInst",
	KindCdata:              "Cdata",
	KindDoctype:            "Doctype",
}

// String returns the node type name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}
