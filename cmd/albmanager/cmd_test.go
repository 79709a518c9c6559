package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// resetFlags restores every command flag variable once the test finishes.
func resetFlags(t *testing.T) {
	t.Helper()

	settingsPath = filepath.Join(t.TempDir(), "missing.toml")
	t.Cleanup(func() {
		settingsPath = "albmanager.toml"
		verbose = false
		logLevel = ""
		logFormat = ""

		packageConfigPath = ""
		packageTemplatePath = ""
		packageOutputDir = ""
		packageStage = ""
		packageJSON = false

		validateConfigPath = ""
		validateStage = ""
		validateJSON = false
	})
}

// newTestCommand returns a command whose output streams are captured.
func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}
