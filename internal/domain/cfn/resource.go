// Package cfn models the CloudFormation template shared by the build phases.
// Resources reference each other only by logical ID; the identifiers behind
// those IDs are resolved later by CloudFormation itself.
package cfn

import "github.com/goccy/go-json"

// Resource is one entry of a template's Resources map.
type Resource struct {
	Type       string `json:"Type"`
	Properties any    `json:"Properties,omitempty"`
}

// NamedResource pairs a logical ID with the resource stored under it.
type NamedResource struct {
	Name     string
	Resource Resource
}

// Ref is a symbolic reference to another resource's logical ID.
type Ref struct {
	Ref string `json:"Ref"`
}

// NewRef creates a reference to the given logical ID.
func NewRef(logicalID string) Ref {
	return Ref{Ref: logicalID}
}

// GetAtt references an attribute of another resource, resolved at deploy time.
type GetAtt struct {
	Resource  string
	Attribute string
}

// NewGetAtt creates an Fn::GetAtt reference.
func NewGetAtt(logicalID, attribute string) GetAtt {
	return GetAtt{Resource: logicalID, Attribute: attribute}
}

// MarshalJSON renders the intrinsic function form {"Fn::GetAtt": [id, attr]}.
func (g GetAtt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][2]string{
		"Fn::GetAtt": {g.Resource, g.Attribute},
	})
}

// Tag is a CloudFormation resource tag.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}
