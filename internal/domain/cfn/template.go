package cfn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FormatVersion is the template format version written into new templates.
const FormatVersion = "2010-09-09"

const resourcesKey = "Resources"

// Template errors.
var (
	ErrInvalidJSON        = errors.New("template is not valid JSON")
	ErrNotObject          = errors.New("template must be a JSON object")
	ErrResourcesNotObject = errors.New("template Resources must be a JSON object")
)

// Template is a CloudFormation template held as raw JSON.
//
// Resources are appended with sjson, so entries that were already present keep
// their bytes and their position. Only AddResources writes to the document.
type Template struct {
	doc []byte
}

// New creates an empty template.
func New() *Template {
	return &Template{
		doc: []byte(`{"AWSTemplateFormatVersion":"` + FormatVersion + `","Resources":{}}`),
	}
}

// Parse parses a template document. A missing or null Resources map is created.
func Parse(data []byte) (*Template, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrNotObject
	}

	doc := append([]byte(nil), data...)
	resources := root.Get(resourcesKey)
	switch {
	case !resources.Exists() || resources.Type == gjson.Null:
		var err error
		doc, err = sjson.SetRawBytes(doc, resourcesKey, []byte("{}"))
		if err != nil {
			return nil, fmt.Errorf("initialize Resources: %w", err)
		}
	case !resources.IsObject():
		return nil, ErrResourcesNotObject
	}

	return &Template{doc: doc}, nil
}

// ResourceNames returns the logical IDs in document order.
func (t *Template) ResourceNames() []string {
	names := make([]string, 0)
	gjson.GetBytes(t.doc, resourcesKey).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names
}

// HasResource reports whether a resource with the logical ID exists.
func (t *Template) HasResource(name string) bool {
	return t.Resource(name).Exists()
}

// Resource returns the raw resource entry for a logical ID.
func (t *Template) Resource(name string) gjson.Result {
	return gjson.GetBytes(t.doc, resourcePath(name))
}

// Get queries the template with a gjson path.
func (t *Template) Get(path string) gjson.Result {
	return gjson.GetBytes(t.doc, path)
}

// AddResources writes resources in the given order. An entry whose logical ID
// already exists is replaced in place; every other entry is left untouched.
// Either all resources are written or, on error, none are.
func (t *Template) AddResources(resources ...NamedResource) error {
	doc := append([]byte(nil), t.doc...)
	for _, r := range resources {
		if r.Name == "" {
			return errors.New("resource logical ID must not be empty")
		}
		raw, err := json.Marshal(r.Resource)
		if err != nil {
			return fmt.Errorf("encode resource %q: %w", r.Name, err)
		}
		doc, err = sjson.SetRawBytes(doc, resourcePath(r.Name), raw)
		if err != nil {
			return fmt.Errorf("add resource %q: %w", r.Name, err)
		}
	}
	t.doc = doc
	return nil
}

// Bytes returns a copy of the compact template document.
func (t *Template) Bytes() []byte {
	return append([]byte(nil), t.doc...)
}

// Pretty returns the template indented with two spaces, keys in document order.
func (t *Template) Pretty() []byte {
	return pretty.PrettyOptions(t.doc, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "  ",
		SortKeys: false,
	})
}

func resourcePath(name string) string {
	return resourcesKey + "." + escapePath(name)
}

// escapePath escapes gjson/sjson path syntax characters in a single key.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', '!', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
