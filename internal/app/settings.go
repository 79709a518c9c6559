package app

import (
	"bytes"
	"fmt"

	"github.com/felixgeelhaar/albmanager/internal/ports"
	"github.com/pelletier/go-toml/v2"
)

// DefaultSettingsFile is read from the working directory when present.
const DefaultSettingsFile = "albmanager.toml"

// Settings holds tool defaults. Command-line flags take precedence.
type Settings struct {
	Log     LogSettings     `toml:"log"`
	Package PackageSettings `toml:"package"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// PackageSettings holds default package inputs and outputs.
type PackageSettings struct {
	Config    string `toml:"config"`
	Template  string `toml:"template"`
	OutputDir string `toml:"output_dir"`
	Stage     string `toml:"stage"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
		Package: PackageSettings{
			Config:    "serverless.yml",
			OutputDir: ".serverless",
		},
	}
}

// LoadSettings reads a TOML settings file over the defaults. A missing file
// yields the defaults. Unknown keys are rejected.
func LoadSettings(fs ports.FileSystem, path string) (Settings, error) {
	settings := DefaultSettings()

	path = ports.ExpandPath(path)
	if !fs.Exists(path) {
		return settings, nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return settings, nil
}

// Validate checks enumerated values.
func (s Settings) Validate() error {
	if _, err := ports.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	switch s.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", s.Log.Format)
	}
	return nil
}

// PackageOptions converts the package settings into build options.
func (s Settings) PackageOptions() PackageOptions {
	return PackageOptions{
		ConfigPath:   s.Package.Config,
		TemplatePath: s.Package.Template,
		OutputDir:    s.Package.OutputDir,
		Stage:        s.Package.Stage,
	}
}
