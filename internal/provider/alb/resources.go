package alb

import (
	"strings"

	"github.com/felixgeelhaar/albmanager/internal/domain/cfn"
)

// Logical IDs of the generated resources, in the order they are appended.
const (
	LogicalIDSecurityGroup = "SecurityGroup"
	LogicalIDLoadBalancer  = "LoadBalancer"
	LogicalIDHTTPListener  = "HttpListener"
	LogicalIDDNSRecord     = "DnsRecord"
)

// LogicalIDs lists the generated resources in append order.
var LogicalIDs = []string{
	LogicalIDSecurityGroup,
	LogicalIDLoadBalancer,
	LogicalIDHTTPListener,
	LogicalIDDNSRecord,
}

// CloudFormation resource types.
const (
	typeSecurityGroup = "AWS::EC2::SecurityGroup"
	typeLoadBalancer  = "AWS::ElasticLoadBalancingV2::LoadBalancer"
	typeListener      = "AWS::ElasticLoadBalancingV2::Listener"
	typeRecordSet     = "AWS::Route53::RecordSet"
)

// Fixed listener and load balancer settings.
const (
	httpsPort          = 443
	anywhereCIDR       = "0.0.0.0/0"
	forbiddenStatus    = 403
	forbiddenBody      = `{"error":"Forbidden"}`
	forbiddenMediaType = "application/json"
)

type ingressRule struct {
	IPProtocol string `json:"IpProtocol"`
	FromPort   string `json:"FromPort"`
	ToPort     string `json:"ToPort"`
	CidrIP     string `json:"CidrIp"`
}

type securityGroupProperties struct {
	GroupName            string        `json:"GroupName"`
	GroupDescription     string        `json:"GroupDescription"`
	VpcID                string        `json:"VpcId"`
	SecurityGroupIngress []ingressRule `json:"SecurityGroupIngress"`
}

type loadBalancerProperties struct {
	Type           string     `json:"Type"`
	Name           string     `json:"Name"`
	IPAddressType  string     `json:"IpAddressType"`
	Scheme         string     `json:"Scheme"`
	SecurityGroups []cfn.Ref  `json:"SecurityGroups"`
	Subnets        []string   `json:"Subnets"`
	Tags           *[]cfn.Tag `json:"Tags,omitempty"`
}

type certificate struct {
	CertificateArn string `json:"CertificateArn"`
}

type fixedResponseConfig struct {
	StatusCode  int    `json:"StatusCode"`
	ContentType string `json:"ContentType"`
	MessageBody string `json:"MessageBody"`
}

type listenerAction struct {
	Type                string              `json:"Type"`
	Order               int                 `json:"Order"`
	FixedResponseConfig fixedResponseConfig `json:"FixedResponseConfig"`
}

type listenerProperties struct {
	LoadBalancerArn cfn.Ref          `json:"LoadBalancerArn"`
	Port            int              `json:"Port"`
	Protocol        string           `json:"Protocol"`
	Certificates    []certificate    `json:"Certificates"`
	DefaultActions  []listenerAction `json:"DefaultActions"`
}

type aliasTarget struct {
	DNSName      cfn.GetAtt `json:"DNSName"`
	HostedZoneID cfn.GetAtt `json:"HostedZoneId"`
}

type recordSetProperties struct {
	HostedZoneName string      `json:"HostedZoneName"`
	Name           string      `json:"Name"`
	Type           string      `json:"Type"`
	AliasTarget    aliasTarget `json:"AliasTarget"`
}

// Resources builds the four resources for opts. stackName is called once.
func Resources(opts *Options, stackName func() string) []cfn.NamedResource {
	stack := stackName()

	var tags *[]cfn.Tag
	if opts.HasTags() {
		t := append([]cfn.Tag{}, opts.Tags...)
		tags = &t
	}

	return []cfn.NamedResource{
		{
			Name: LogicalIDSecurityGroup,
			Resource: cfn.Resource{
				Type: typeSecurityGroup,
				Properties: securityGroupProperties{
					GroupName:        stack + "-https",
					GroupDescription: "HTTPS for " + stack,
					VpcID:            opts.VPCID,
					SecurityGroupIngress: []ingressRule{{
						IPProtocol: "tcp",
						FromPort:   "443",
						ToPort:     "443",
						CidrIP:     anywhereCIDR,
					}},
				},
			},
		},
		{
			Name: LogicalIDLoadBalancer,
			Resource: cfn.Resource{
				Type: typeLoadBalancer,
				Properties: loadBalancerProperties{
					Type:           "application",
					Name:           stack + "-alb",
					IPAddressType:  "ipv4",
					Scheme:         "internet-facing",
					SecurityGroups: []cfn.Ref{cfn.NewRef(LogicalIDSecurityGroup)},
					Subnets:        append([]string{}, opts.SubnetIDs...),
					Tags:           tags,
				},
			},
		},
		{
			Name: LogicalIDHTTPListener,
			Resource: cfn.Resource{
				Type: typeListener,
				Properties: listenerProperties{
					LoadBalancerArn: cfn.NewRef(LogicalIDLoadBalancer),
					Port:            httpsPort,
					Protocol:        "HTTPS",
					Certificates:    []certificate{{CertificateArn: opts.CertificateARN}},
					DefaultActions: []listenerAction{{
						Type:  "fixed-response",
						Order: 1,
						FixedResponseConfig: fixedResponseConfig{
							StatusCode:  forbiddenStatus,
							ContentType: forbiddenMediaType,
							MessageBody: forbiddenBody,
						},
					}},
				},
			},
		},
		{
			Name: LogicalIDDNSRecord,
			Resource: cfn.Resource{
				Type: typeRecordSet,
				Properties: recordSetProperties{
					HostedZoneName: HostedZoneName(opts.DomainName),
					Name:           opts.DomainName,
					Type:           "A",
					AliasTarget: aliasTarget{
						DNSName:      cfn.NewGetAtt(LogicalIDLoadBalancer, "DNSName"),
						HostedZoneID: cfn.NewGetAtt(LogicalIDLoadBalancer, "CanonicalHostedZoneID"),
					},
				},
			},
		},
	}
}

// Assemble appends the four resources to tpl. On error tpl is unchanged.
func Assemble(tpl *cfn.Template, opts *Options, stackName func() string) error {
	return tpl.AddResources(Resources(opts, stackName)...)
}

// HostedZoneName derives the hosted zone from the last two labels of domain,
// e.g. "api.example.com" becomes "example.com.".
func HostedZoneName(domain string) string {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return domain + "."
	}
	return labels[len(labels)-2] + "." + labels[len(labels)-1] + "."
}
