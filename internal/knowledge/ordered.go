package knowledge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one named group of skills.
type Category struct {
	Name   string
	Skills []string
}

// Categories is a skill mapping that keeps declaration order.
type Categories []Category

// UnmarshalYAML decodes a YAML mapping of category name to skill list.
func (c *Categories) UnmarshalYAML(node *yaml.Node) error {
	var out Categories
	err := eachPair(node, func(key string, value *yaml.Node) error {
		var skills []string
		if err := value.Decode(&skills); err != nil {
			return fmt.Errorf("skills.%s: %w", key, err)
		}
		out = append(out, Category{Name: key, Skills: skills})
		return nil
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

// MarshalJSON renders the categories as an object in declaration order.
func (c Categories) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(c))
	values := make([]any, len(c))
	for i, cat := range c {
		keys[i], values[i] = cat.Name, cat.Skills
	}
	return marshalOrdered(keys, values)
}

// Find returns the first category whose name equals key, or failing that
// contains it. Matching ignores case.
func (c Categories) Find(key string) (Category, bool) {
	key = strings.ToLower(key)
	for _, cat := range c {
		if strings.ToLower(cat.Name) == key {
			return cat, true
		}
	}
	for _, cat := range c {
		if strings.Contains(strings.ToLower(cat.Name), key) {
			return cat, true
		}
	}
	return Category{}, false
}

// All concatenates every category's skills in order.
func (c Categories) All() []string {
	var out []string
	for _, cat := range c {
		out = append(out, cat.Skills...)
	}
	return out
}

// Highlight maps an experience topic to a duration such as "5+ years".
type Highlight struct {
	Topic    string
	Duration string
}

// Highlights is an experience mapping that keeps declaration order.
type Highlights []Highlight

// UnmarshalYAML decodes a YAML mapping of topic to duration.
func (h *Highlights) UnmarshalYAML(node *yaml.Node) error {
	var out Highlights
	err := eachPair(node, func(key string, value *yaml.Node) error {
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("experience_highlights.%s: expected a string", key)
		}
		out = append(out, Highlight{Topic: key, Duration: value.Value})
		return nil
	})
	if err != nil {
		return err
	}
	*h = out
	return nil
}

// MarshalJSON renders the highlights as an object in declaration order.
func (h Highlights) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(h))
	values := make([]any, len(h))
	for i, hl := range h {
		keys[i], values[i] = hl.Topic, hl.Duration
	}
	return marshalOrdered(keys, values)
}

// Find returns the highlight for topic, by exact name first and then by
// containment. Matching ignores case.
func (h Highlights) Find(topic string) (Highlight, bool) {
	topic = strings.ToLower(topic)
	for _, hl := range h {
		if strings.ToLower(hl.Topic) == topic {
			return hl, true
		}
	}
	for _, hl := range h {
		if strings.Contains(strings.ToLower(hl.Topic), topic) {
			return hl, true
		}
	}
	return Highlight{}, false
}

func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func marshalOrdered(keys []string, values []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
