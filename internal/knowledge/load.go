package knowledge

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// envPrefix marks a value that is read from the environment at load time.
const envPrefix = "ENV::"

//go:embed default.yaml
var defaultProfile []byte

// Load reads the profile at path, or the built-in sample profile when path
// is empty. YAML and JSON files are both accepted.
func Load(path string, logger *zap.Logger) (*KnowledgeBase, error) {
	if path == "" {
		return Parse(defaultProfile, logger)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge file %s: %w", path, err)
	}
	kb, err := Parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return kb, nil
}

// Default returns the built-in sample profile.
func Default(logger *zap.Logger) (*KnowledgeBase, error) {
	return Parse(defaultProfile, logger)
}

// Parse decodes a profile document. ENV::NAME placeholders are replaced by
// the value of $NAME, or by "<NAME not set>" when the variable is missing.
func Parse(data []byte, logger *zap.Logger) (*KnowledgeBase, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("profile is empty")
	}
	resolvePlaceholders(&root, logger)

	var doc any
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if err := ValidateSchema(doc); err != nil {
		return nil, err
	}

	var kb KnowledgeBase
	if err := root.Decode(&kb); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if kb.Subject == "" {
		kb.Subject = subjectFromName(kb.Contact.Name)
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return &kb, nil
}

func resolvePlaceholders(node *yaml.Node, logger *zap.Logger) {
	if node.Kind == yaml.ScalarNode && strings.HasPrefix(node.Value, envPrefix) {
		name := strings.TrimPrefix(node.Value, envPrefix)
		if value, ok := os.LookupEnv(name); ok {
			node.Value = value
		} else {
			logger.Warn("environment variable not set, using placeholder", zap.String("var", name))
			node.Value = "<" + name + " not set>"
		}
		node.Tag = "!!str"
		node.Style = 0
		return
	}
	for _, child := range node.Content {
		resolvePlaceholders(child, logger)
	}
}

// subjectFromName picks the first name as the short form used in prose.
func subjectFromName(name string) string {
	if name == "" || strings.HasPrefix(name, "<") {
		return "the candidate"
	}
	return strings.Fields(name)[0]
}

// Validate checks invariants the schema cannot express.
func (kb *KnowledgeBase) Validate() error {
	current := 0
	for i, r := range kb.Roles {
		switch {
		case r.IsCurrent():
			current++
		case r.IsPast():
		default:
			return fmt.Errorf("roles[%d] (%s): status must be Current or Past, got %q", i, r.Company, r.Status)
		}
	}
	if current > 1 {
		return fmt.Errorf("at most one role may be Current, found %d", current)
	}
	return nil
}
