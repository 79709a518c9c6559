package app

import (
	"testing"

	"github.com/felixgeelhaar/albmanager/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Missing(t *testing.T) {
	t.Parallel()

	settings, err := LoadSettings(mocks.NewFileSystem(), DefaultSettingsFile)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoadSettings_OverridesDefaults(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("albmanager.toml", `
[log]
level = "debug"

[package]
stage = "prod"
template = ".serverless/base.json"
`)

	settings, err := LoadSettings(fs, "albmanager.toml")
	require.NoError(t, err)

	assert.Equal(t, "debug", settings.Log.Level)
	assert.Equal(t, "text", settings.Log.Format)
	assert.Equal(t, PackageOptions{
		ConfigPath:   "serverless.yml",
		TemplatePath: ".serverless/base.json",
		OutputDir:    ".serverless",
		Stage:        "prod",
	}, settings.PackageOptions())
}

func TestLoadSettings_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown key", content: "[package]\nregion = \"eu-west-1\"\n", want: "failed to parse settings"},
		{name: "syntax", content: "[log\n", want: "failed to parse settings"},
		{name: "bad level", content: "[log]\nlevel = \"loud\"\n", want: "unknown log level"},
		{name: "bad format", content: "[log]\nformat = \"xml\"\n", want: "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := mocks.NewFileSystem()
			fs.AddFile("s.toml", tt.content)

			_, err := LoadSettings(fs, "s.toml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
