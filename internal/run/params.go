// Package run manages the lifecycle of processing run folders: creating them
// from the module's params template with auto-populated metadata, and shelving
// them when the work is done.
package run

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Params is the analysis_params.yaml document for a run. It is held as a
// yaml.Node tree rather than a map so the template's key order and comments
// survive the load/update/save round trip.
type Params struct {
	doc yaml.Node
}

// LoadParams reads a params file from disk.
func LoadParams(path string) (*Params, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}
	var p Params
	if err := yaml.Unmarshal(raw, &p.doc); err != nil {
		return nil, fmt.Errorf("parse params %s: %w", path, err)
	}
	if p.root() == nil || p.root().Kind != yaml.MappingNode {
		return nil, fmt.Errorf("params %s: top level is not a mapping", path)
	}
	return &p, nil
}

// Save writes the params document to path.
func (p *Params) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	if err := p.encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode params: %w", err)
	}
	return f.Close()
}

func (p *Params) encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&p.doc); err != nil {
		return err
	}
	return enc.Close()
}

func (p *Params) root() *yaml.Node {
	if len(p.doc.Content) == 0 {
		return nil
	}
	return p.doc.Content[0]
}

// Section returns the named top-level mapping, creating it (or replacing a
// null placeholder) when absent.
func (p *Params) Section(name string) *Section {
	return &Section{node: ensureMapping(p.root(), name)}
}

// GetString returns section.key as a string, or "" when the path is absent
// or holds a null.
func (p *Params) GetString(section, key string) string {
	s := findValue(p.root(), section)
	if s == nil || s.Kind != yaml.MappingNode {
		return ""
	}
	v := findValue(s, key)
	if v == nil || v.Tag == "!!null" {
		return ""
	}
	return v.Value
}

// Section is one top-level mapping within the params document.
type Section struct {
	node *yaml.Node
}

// SetString sets key to a string value.
func (s *Section) SetString(key, value string) {
	setScalar(s.node, key, "!!str", value)
}

// SetBool sets key to a boolean value.
func (s *Section) SetBool(key string, value bool) {
	setScalar(s.node, key, "!!bool", strconv.FormatBool(value))
}

// SetInt sets key to an integer value.
func (s *Section) SetInt(key string, value int) {
	setScalar(s.node, key, "!!int", strconv.Itoa(value))
}

// SetNull sets key to an explicit null.
func (s *Section) SetNull(key string) {
	setScalar(s.node, key, "!!null", "null")
}

func findValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func ensureMapping(m *yaml.Node, key string) *yaml.Node {
	if v := findValue(m, key); v != nil {
		if v.Kind == yaml.MappingNode {
			return v
		}
		// Template sections are often bare "section:" placeholders.
		*v = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		return v
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, k, v)
	return v
}

func setScalar(m *yaml.Node, key, tag, value string) {
	node := yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	if v := findValue(m, key); v != nil {
		*v = node
		return
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	m.Content = append(m.Content, k, &node)
}
