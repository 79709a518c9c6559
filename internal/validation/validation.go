// Package validation provides input validation for values that end up in
// generated infrastructure or in file system operations.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// Common validation errors.
var (
	ErrEmptyInput        = errors.New("input cannot be empty")
	ErrInvalidDomainName = errors.New("invalid domain name")
	ErrPathTraversal     = errors.New("path traversal detected")
	ErrInvalidPath       = errors.New("invalid path")
)

var (
	// labelRegex matches a single ASCII (punycode) DNS label.
	labelRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

	// tldRegex matches an alphabetic top-level domain or its punycode form.
	tldRegex = regexp.MustCompile(`^(?:[a-z]{2,63}|xn--[a-z0-9-]{1,59})$`)

	// domainProfile maps internationalized names to their ASCII form.
	domainProfile = idna.New(
		idna.MapForLookup(),
		idna.BidiRule(),
		idna.VerifyDNSLength(true),
		idna.StrictDomainName(true),
	)
)

// minDomainLabels is the number of labels a public domain name needs.
const minDomainLabels = 2

// ValidateDomainName validates a fully qualified public domain name such as
// "api.example.com". Internationalized names are accepted and validated in
// their punycode form. A trailing root dot is rejected.
func ValidateDomainName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if strings.HasSuffix(name, ".") {
		return fmt.Errorf("%w: %q must not end with a dot", ErrInvalidDomainName, name)
	}

	ascii, err := domainProfile.ToASCII(name)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidDomainName, name, err)
	}

	labels := strings.Split(ascii, ".")
	if len(labels) < minDomainLabels {
		return fmt.Errorf("%w: %q needs at least %d labels", ErrInvalidDomainName, name, minDomainLabels)
	}

	for _, label := range labels {
		if !labelRegex.MatchString(label) {
			return fmt.Errorf("%w: %q has invalid label %q", ErrInvalidDomainName, name, label)
		}
	}

	if tld := labels[len(labels)-1]; !tldRegex.MatchString(tld) {
		return fmt.Errorf("%w: %q has invalid top-level domain %q", ErrInvalidDomainName, name, tld)
	}

	return nil
}

// ValidatePath validates a file path and rejects traversal sequences.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

// ValidatePathWithBase validates that a path stays within basePath. Relative
// paths are resolved against basePath.
func ValidatePathWithBase(path, basePath string) error {
	if path == "" {
		return ErrEmptyInput
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	expanded := expandPath(path)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(basePath, expanded)
	}

	rel, err := filepath.Rel(filepath.Clean(basePath), filepath.Clean(expanded))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: path %q escapes base directory %q", ErrPathTraversal, path, basePath)
	}

	return nil
}

// containsPathTraversal checks for common path traversal patterns.
func containsPathTraversal(path string) bool {
	normalized := filepath.Clean(path)

	for _, seg := range strings.Split(normalized, string(filepath.Separator)) {
		if seg == ".." {
			return true
		}
	}

	lower := strings.ToLower(path)
	return strings.Contains(lower, "%2e%2e")
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
