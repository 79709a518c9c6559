package mcp

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/albmanager/internal/validation"
)

// ValidateValidateInput validates ValidateInput fields.
func ValidateValidateInput(in *ValidateInput) error {
	return validateOptionalPath("config_path", in.ConfigPath)
}

// ValidatePackageInput validates PackageInput fields.
func ValidatePackageInput(in *PackageInput) error {
	if err := validateOptionalPath("config_path", in.ConfigPath); err != nil {
		return err
	}
	if err := validateOptionalPath("template_path", in.TemplatePath); err != nil {
		return err
	}
	return validateOptionalPath("output_dir", in.OutputDir)
}

// validateOptionalPath rejects a client-supplied path that uses traversal or
// resolves outside the server's working directory. Empty paths fall back to
// server defaults and are accepted.
func validateOptionalPath(field, path string) error {
	if path == "" {
		return nil
	}
	if err := validation.ValidatePath(path); err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if err := validation.ValidatePathWithBase(path, wd); err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	return nil
}
