// Package descriptor reads and updates a serverless.yml service descriptor.
//
// The descriptor is kept as a yaml.v3 node tree so that writing it back
// preserves key order, comments and every section this package never touches.
package descriptor

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultStage is the stage used when neither the caller nor the descriptor names one.
const DefaultStage = "dev"

// Descriptor errors.
var (
	ErrNotMapping       = errors.New("service descriptor must be a YAML mapping")
	ErrFunctionNotFound = errors.New("function not found")
	ErrEventNotFound    = errors.New("event not found")
)

// Event is one entry of a function's events list, e.g. {"alb": {...}}.
type Event = map[string]any

// Service is a parsed service descriptor.
type Service struct {
	doc   *yaml.Node
	root  *yaml.Node
	stage string
}

// Parse parses a service descriptor. An empty document yields an empty service.
func Parse(data []byte) (*Service, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse service descriptor: %w", err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		return &Service{
			doc:  &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}},
			root: root,
		}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return &Service{doc: &doc, root: root}, nil
}

// WithStage overrides the stage read from the descriptor. An empty stage
// clears the override.
func (s *Service) WithStage(stage string) *Service {
	s.stage = stage
	return s
}

// Name returns the service name. Both `service: name` and
// `service: {name: name}` are accepted.
func (s *Service) Name() string {
	node := lookup(s.root, "service")
	if node == nil {
		return ""
	}
	if node.Kind == yaml.MappingNode {
		node = lookup(node, "name")
	}
	return scalar(node)
}

// Stage returns the override, then provider.stage, then DefaultStage.
func (s *Service) Stage() string {
	if s.stage != "" {
		return s.stage
	}
	if stage := scalar(lookup(s.root, "provider", "stage")); stage != "" {
		return stage
	}
	return DefaultStage
}

// ProviderName returns provider.name, e.g. "aws".
func (s *Service) ProviderName() string {
	return scalar(lookup(s.root, "provider", "name"))
}

// StackName returns provider.stackName when set, otherwise "<service>-<stage>".
func (s *Service) StackName() string {
	if name := scalar(lookup(s.root, "provider", "stackName")); name != "" {
		return name
	}
	return s.Name() + "-" + s.Stage()
}

// Custom returns the node stored under custom.<key>, or nil when absent.
func (s *Service) Custom(key string) *yaml.Node {
	return lookup(s.root, "custom", key)
}

// FunctionNames returns the declared function names in document order.
func (s *Service) FunctionNames() []string {
	functions := lookup(s.root, "functions")
	if functions == nil || functions.Kind != yaml.MappingNode {
		return nil
	}
	names := make([]string, 0, len(functions.Content)/2)
	for i := 0; i+1 < len(functions.Content); i += 2 {
		names = append(names, functions.Content[i].Value)
	}
	return names
}

// Events returns a decoded copy of a function's events. Entries that are not
// mappings decode to nil so indexes line up with the document.
func (s *Service) Events(function string) []Event {
	seq := s.eventsNode(function)
	if seq == nil {
		return nil
	}
	events := make([]Event, len(seq.Content))
	for i, item := range seq.Content {
		var decoded any
		if err := item.Decode(&decoded); err != nil {
			continue
		}
		if m, ok := asMap(decoded); ok {
			events[i] = m
		}
	}
	return events
}

// SetEvent merges event into the function's event at index. Keys whose value
// is unchanged keep their node, so comments and formatting survive; new keys
// are appended.
func (s *Service) SetEvent(function string, index int, event Event) error {
	seq := s.eventsNode(function)
	if seq == nil {
		return fmt.Errorf("%w: %q", ErrFunctionNotFound, function)
	}
	if index < 0 || index >= len(seq.Content) {
		return fmt.Errorf("%w: %s.events[%d]", ErrEventNotFound, function, index)
	}
	return merge(seq.Content[index], event)
}

// Marshal renders the descriptor as YAML with two-space indentation.
func (s *Service) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.doc); err != nil {
		return nil, fmt.Errorf("encode service descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode service descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) eventsNode(function string) *yaml.Node {
	node := lookup(s.root, "functions", function)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	events := lookup(node, "events")
	if events == nil || events.Kind != yaml.SequenceNode {
		return nil
	}
	return events
}

// lookup walks a chain of mapping keys. Aliases are followed.
func lookup(node *yaml.Node, path ...string) *yaml.Node {
	current := resolve(node)
	for _, key := range path {
		if current == nil || current.Kind != yaml.MappingNode {
			return nil
		}
		current = resolve(mappingValue(current, key))
	}
	return current
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func scalar(node *yaml.Node) string {
	if node == nil || node.Kind != yaml.ScalarNode || node.ShortTag() == "!!null" {
		return ""
	}
	return node.Value
}

// asMap normalizes decoded YAML mappings to map[string]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}
