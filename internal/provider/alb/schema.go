package alb

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/albmanager/internal/domain/cfn"
	"github.com/felixgeelhaar/albmanager/internal/validation"
	"gopkg.in/yaml.v3"
)

// field is one key of the closed options schema.
type field struct {
	key      string
	required bool
	apply    func(key string, node *yaml.Node, opts *Options) []string
}

// schema lists the accepted keys in the order their violations are reported.
var schema = []field{
	{key: "vpcId", required: true, apply: requiredString(func(o *Options, v string) { o.VPCID = v })},
	{key: "subnetIds", required: true, apply: subnetIDs},
	{key: "certificateArn", required: true, apply: requiredString(func(o *Options, v string) { o.CertificateARN = v })},
	{key: "domainName", required: true, apply: domainName},
	{key: "tags", required: false, apply: tags},
}

// Resolve validates the raw options block and returns the resolved options.
// A nil or null block fails with ErrConfigMissing. Every violation of the
// schema is collected and reported together in one ErrConfigInvalid.
// A key whose value is null counts as absent.
func Resolve(raw *yaml.Node) (*Options, error) {
	node := unwrap(raw)
	if isNull(node) {
		return nil, NewConfigMissingError()
	}
	if node.Kind != yaml.MappingNode {
		return nil, NewConfigInvalidError([]string{`"value" must be of type object`})
	}

	keys, values := entries(node)

	var violations []string
	opts := &Options{}
	for _, f := range schema {
		value, ok := values[f.key]
		if !ok || isNull(value) {
			if f.required {
				violations = append(violations, fmt.Sprintf("%q is required", f.key))
			}
			continue
		}
		violations = append(violations, f.apply(f.key, value, opts)...)
	}

	for _, key := range keys {
		if !known(key) {
			violations = append(violations, fmt.Sprintf("%q is not allowed", key))
		}
	}

	if len(violations) > 0 {
		return nil, NewConfigInvalidError(violations)
	}
	return opts, nil
}

// stringValue checks that node is a non-empty string and returns it.
func stringValue(key string, node *yaml.Node) (string, []string) {
	if !isString(node) {
		return "", []string{fmt.Sprintf("%q must be a string", key)}
	}
	if node.Value == "" {
		return "", []string{fmt.Sprintf("%q is not allowed to be empty", key)}
	}
	return node.Value, nil
}

func requiredString(set func(*Options, string)) func(string, *yaml.Node, *Options) []string {
	return func(key string, node *yaml.Node, opts *Options) []string {
		v, violations := stringValue(key, node)
		if violations != nil {
			return violations
		}
		set(opts, v)
		return nil
	}
}

// subnetIDs accepts a sequence of strings or a comma-separated string.
// Comma-separated entries are trimmed and empty entries dropped.
func subnetIDs(key string, node *yaml.Node, opts *Options) []string {
	switch {
	case isString(node):
		if node.Value == "" {
			return []string{fmt.Sprintf("%q is not allowed to be empty", key)}
		}
		ids := splitList(node.Value)
		if len(ids) == 0 {
			return []string{fmt.Sprintf("%q must contain at least 1 items", key)}
		}
		opts.SubnetIDs = ids
		return nil

	case node.Kind == yaml.SequenceNode:
		if len(node.Content) == 0 {
			return []string{fmt.Sprintf("%q must contain at least 1 items", key)}
		}
		var violations []string
		ids := make([]string, 0, len(node.Content))
		for i, item := range node.Content {
			id, itemViolations := stringValue(fmt.Sprintf("%s[%d]", key, i), unwrap(item))
			violations = append(violations, itemViolations...)
			ids = append(ids, id)
		}
		if len(violations) > 0 {
			return violations
		}
		opts.SubnetIDs = ids
		return nil

	default:
		return []string{fmt.Sprintf("%q must be a string or an array of strings", key)}
	}
}

func domainName(key string, node *yaml.Node, opts *Options) []string {
	v, violations := stringValue(key, node)
	if violations != nil {
		return violations
	}
	if err := validation.ValidateDomainName(v); err != nil {
		return []string{fmt.Sprintf("%q must contain a valid domain name", key)}
	}
	opts.DomainName = v
	return nil
}

// tags accepts a mapping of string to string and keeps document order.
func tags(key string, node *yaml.Node, opts *Options) []string {
	if node.Kind != yaml.MappingNode {
		return []string{fmt.Sprintf("%q must be of type object", key)}
	}

	var violations []string
	keys, values := entries(node)
	out := make([]cfn.Tag, 0, len(keys))
	for _, k := range keys {
		v := values[k]
		if !isString(v) {
			violations = append(violations, fmt.Sprintf("%q must be a string", key+"."+k))
			continue
		}
		out = append(out, cfn.Tag{Key: k, Value: v.Value})
	}
	if len(violations) > 0 {
		return violations
	}
	opts.Tags = out
	return nil
}

// entries returns mapping keys in document order and their values. The first
// occurrence of a duplicated key wins.
func entries(node *yaml.Node) ([]string, map[string]*yaml.Node) {
	keys := make([]string, 0, len(node.Content)/2)
	values := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, seen := values[key]; seen {
			continue
		}
		keys = append(keys, key)
		values[key] = unwrap(node.Content[i+1])
	}
	return keys, values
}

func known(key string) bool {
	for _, f := range schema {
		if f.key == key {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// unwrap follows documents and aliases to the value node.
func unwrap(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode:
			node = node.Alias
		default:
			return node
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func isString(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.ShortTag() == "!!str"
}
