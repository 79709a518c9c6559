package descriptor

import (
	"fmt"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

// merge writes value into node. Mappings are merged key by key; any other
// value replaces the node when it differs from what the node decodes to.
func merge(node *yaml.Node, value any) error {
	target := resolve(node)
	if m, ok := asMap(value); ok && target.Kind == yaml.MappingNode {
		for _, key := range sortedKeys(m) {
			existing := mappingValue(target, key)
			if existing == nil {
				child, err := toNode(m[key])
				if err != nil {
					return fmt.Errorf("encode %q: %w", key, err)
				}
				target.Content = append(target.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
					child,
				)
				continue
			}
			if err := merge(existing, m[key]); err != nil {
				return err
			}
		}
		return nil
	}

	if equalNode(target, value) {
		return nil
	}
	replacement, err := toNode(value)
	if err != nil {
		return err
	}
	replacement.HeadComment = node.HeadComment
	replacement.LineComment = node.LineComment
	*node = *replacement
	return nil
}

func equalNode(node *yaml.Node, value any) bool {
	var decoded any
	if err := node.Decode(&decoded); err != nil {
		return false
	}
	return reflect.DeepEqual(decoded, value)
}

func toNode(value any) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return nil, err
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		return node.Content[0], nil
	}
	return &node, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
