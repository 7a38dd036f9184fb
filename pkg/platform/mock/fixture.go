package mock

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/desklab-dev/uidriver/pkg/core"
	"github.com/desklab-dev/uidriver/pkg/platform"
)

// Spec declares a node subtree, loadable from YAML fixtures.
// Visible and Enabled default to true when omitted.
type Spec struct {
	Role     string            `yaml:"role"`
	Name     string            `yaml:"name"`
	NativeID string            `yaml:"nativeid"`
	Bounds   core.Bounds       `yaml:"bounds"`
	Visible  *bool             `yaml:"visible"`
	Enabled  *bool             `yaml:"enabled"`
	Focused  bool              `yaml:"focused"`
	Attrs    map[string]string `yaml:"attrs"`
	Value    *string           `yaml:"value"`
	Range    *float64          `yaml:"range"`
	Deny     []string          `yaml:"deny"`
	Children []Spec            `yaml:"children"`
}

func (s Spec) build() *Node {
	node := &Node{
		Role:     s.Role,
		Name:     s.Name,
		NativeID: s.NativeID,
		Bounds:   s.Bounds,
		Visible:  s.Visible == nil || *s.Visible,
		Enabled:  s.Enabled == nil || *s.Enabled,
		Focused:  s.Focused,
		Attrs:    s.Attrs,
		alive:    true,
	}
	if s.Value != nil {
		v := *s.Value
		node.Value = &v
	}
	if s.Range != nil {
		v := *s.Range
		node.RangeValue = &v
	}
	for _, deny := range s.Deny {
		node.Deny = append(node.Deny, platform.Action(deny))
	}
	for _, child := range s.Children {
		sub := child.build()
		sub.parent = node
		node.children = append(node.children, sub)
	}
	return node
}

// FromYAML builds an adapter from a fixture document. The document is
// either a single node or a sequence of top-level nodes.
func FromYAML(data []byte) (*Adapter, error) {
	var specs []Spec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		var single Spec
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("parse tree fixture: %w", err)
		}
		specs = []Spec{single}
	}

	a := New()
	for _, spec := range specs {
		a.Attach(nil, spec)
	}
	return a, nil
}

// FromFile builds an adapter from a fixture file.
func FromFile(path string) (*Adapter, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided fixture file
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}
