package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDomainName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		// Valid domain names
		{name: "subdomain", input: "dummy.domain.example.com", wantErr: nil},
		{name: "apex", input: "example.com", wantErr: nil},
		{name: "multi-part suffix", input: "api.example.co.uk", wantErr: nil},
		{name: "hyphenated label", input: "my-api.example.org", wantErr: nil},
		{name: "numeric label", input: "123.example.com", wantErr: nil},
		{name: "uppercase", input: "API.Example.COM", wantErr: nil},
		{name: "internationalized", input: "münchen.de", wantErr: nil},

		// Invalid domain names
		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "single label", input: "localhost", wantErr: ErrInvalidDomainName},
		{name: "trailing dot", input: "example.com.", wantErr: ErrInvalidDomainName},
		{name: "empty label", input: "foo..com", wantErr: ErrInvalidDomainName},
		{name: "leading hyphen", input: "-bad.example.com", wantErr: ErrInvalidDomainName},
		{name: "trailing hyphen", input: "bad-.example.com", wantErr: ErrInvalidDomainName},
		{name: "space", input: "exa mple.com", wantErr: ErrInvalidDomainName},
		{name: "underscore", input: "under_score.com", wantErr: ErrInvalidDomainName},
		{name: "numeric tld", input: "example.123", wantErr: ErrInvalidDomainName},
		{name: "label too long", input: strings.Repeat("a", 64) + ".com", wantErr: ErrInvalidDomainName},
		{name: "url", input: "https://example.com", wantErr: ErrInvalidDomainName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateDomainName(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "relative path", input: "serverless.yml", wantErr: nil},
		{name: "nested path", input: ".serverless/cloudformation-template-update-stack.json", wantErr: nil},
		{name: "absolute path", input: "/srv/app/serverless.yml", wantErr: nil},

		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "path traversal", input: "../../../etc/passwd", wantErr: ErrPathTraversal},
		{name: "encoded traversal", input: "%2E%2E/%2e%2e/etc/passwd", wantErr: ErrPathTraversal},
		{name: "null byte", input: "serverless.yml\x00.txt", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePath(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePathWithBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		basePath string
		wantErr  error
	}{
		{name: "within base", path: "/srv/app/serverless.yml", basePath: "/srv/app", wantErr: nil},
		{name: "exact base", path: "/srv/app", basePath: "/srv/app", wantErr: nil},
		{name: "relative within base", path: ".serverless/out.json", basePath: "/srv/app", wantErr: nil},

		{name: "empty", path: "", basePath: "/srv/app", wantErr: ErrEmptyInput},
		{name: "escapes base", path: "/srv/other/serverless.yml", basePath: "/srv/app", wantErr: ErrPathTraversal},
		{name: "sibling with shared prefix", path: "/srv/app2/serverless.yml", basePath: "/srv/app", wantErr: ErrPathTraversal},
		{name: "traversal escape", path: "/srv/app/../other/file", basePath: "/srv/app", wantErr: ErrPathTraversal},
		{name: "relative escape", path: "../secrets.yml", basePath: "/srv/app", wantErr: ErrPathTraversal},
		{name: "null byte", path: "a\x00b", basePath: "/srv/app", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePathWithBase(tt.path, tt.basePath)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
