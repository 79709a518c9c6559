// Package alb provisions an internet-facing HTTPS Application Load Balancer
// for a serverless service and attaches the service's alb events to it.
//
// Setup runs during package:setupProviderConfiguration: the options block is
// resolved and four resources are appended to the template. Binding runs
// during package:compileFunctions: every alb event without a listener is
// pointed at the generated listener.
package alb

import "github.com/felixgeelhaar/albmanager/internal/domain/cfn"

const (
	// PluginName prefixes every user-facing error.
	PluginName = "serverless-plugin-alb-manager"
	// ConfigKey is the key of the options block under custom.
	ConfigKey = "serverless-alb-manager"
)

// Options is the validated options block.
type Options struct {
	VPCID          string   `json:"vpcId"`
	SubnetIDs      []string `json:"subnetIds"`
	CertificateARN string   `json:"certificateArn"`
	DomainName     string   `json:"domainName"`

	// Tags is nil when the tags key is absent and non-nil (possibly empty)
	// when present. Entries keep document order.
	Tags []cfn.Tag `json:"tags,omitempty"`
}

// HasTags reports whether the tags key was present.
func (o *Options) HasTags() bool {
	return o.Tags != nil
}
