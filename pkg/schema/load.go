package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// File is the on-disk schema format. JSON files are read too, since JSON is
// valid YAML.
type File struct {
	Elements []Element `yaml:"elements" json:"elements"`
}

//go:embed default.yaml
var defaultSchema []byte

var (
	defaultOnce   sync.Once
	defaultParsed *Schema
	errDefault    error
)

// Default returns the built-in schema.
func Default() *Schema {
	defaultOnce.Do(func() {
		defaultParsed, errDefault = Parse(defaultSchema)
	})
	if errDefault != nil {
		panic(fmt.Sprintf("schema: built-in schema is invalid: %v", errDefault))
	}
	return defaultParsed
}

// Parse compiles a schema from YAML or JSON bytes. The document is either a
// mapping with an "elements" list or the list itself.
func Parse(data []byte) (*Schema, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	var file File
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&file.Elements); err != nil {
			return nil, fmt.Errorf("decode schema elements: %w", err)
		}
	case yaml.MappingNode:
		if err := doc.Decode(&file); err != nil {
			return nil, fmt.Errorf("decode schema: %w", err)
		}
	case 0:
		// Empty document.
	default:
		return nil, fmt.Errorf("parse schema: expected a mapping or a list, got %s", kindName(doc.Kind))
	}

	return New(file.Elements)
}

// Load reads and compiles a schema from r.
func Load(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and compiles the schema at path.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ToYAML serializes the schema in the on-disk format.
func (s *Schema) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(File{Elements: s.Elements()}); err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("node kind %d", kind)
	}
}
