package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/albmanager/internal/app"
	"github.com/felixgeelhaar/albmanager/internal/provider/alb"
	"github.com/felixgeelhaar/albmanager/internal/testutil"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageCommand_Flags(t *testing.T) {
	for _, name := range []string{"config", "template", "output-dir", "stage", "json"} {
		assert.NotNil(t, packageCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestRunPackage_WritesArtifacts(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	packageConfigPath = testutil.WriteFixtureToDir(t, dir, "serverless.yml", "serverless.yml")
	packageTemplatePath = testutil.WriteFixtureToDir(t, dir, "template.json", "base.json")
	packageOutputDir = filepath.Join(dir, "out")

	cmd, out, _ := newTestCommand()
	require.NoError(t, runPackage(cmd, nil))

	templatePath := filepath.Join(packageOutputDir, app.TemplateFileName)
	testutil.AssertFileExists(t, templatePath)
	testutil.AssertFileExists(t, filepath.Join(packageOutputDir, app.DescriptorFileName))
	testutil.AssertFileContains(t, templatePath, "ServerlessDeploymentBucket")
	testutil.AssertFileContains(t, templatePath, alb.LogicalIDHTTPListener)

	assert.Contains(t, out.String(), "Packaged orders-dev (stage dev)")
	assert.Contains(t, out.String(), "api.events[0]")
	assert.Contains(t, out.String(), "Package complete")
}

func TestRunPackage_JSONOutput(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	packageConfigPath = testutil.WriteFixtureToDir(t, dir, "serverless.yml", "serverless.yml")
	packageOutputDir = filepath.Join(dir, "out")
	packageStage = "prod"
	packageJSON = true

	cmd, out, _ := newTestCommand()
	require.NoError(t, runPackage(cmd, nil))

	var result app.PackageResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.NotEmpty(t, result.BuildID)
	assert.Equal(t, "orders-prod", result.StackName)
	assert.Equal(t, alb.LogicalIDs, result.Resources)
	require.Len(t, result.BoundEvents, 1)
	assert.Equal(t, "api", result.BoundEvents[0].Function)
}

func TestRunPackage_MissingOptions(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	doc := testutil.NewServiceBuilder().WithFunction("api", "alb: {priority: 1}").Build()
	packageConfigPath = testutil.WriteTempFile(t, dir, "serverless.yml", doc)
	packageOutputDir = filepath.Join(dir, "out")

	cmd, _, _ := newTestCommand()
	err := runPackage(cmd, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, alb.ErrConfigMissing))
	testutil.AssertFileNotExists(t, filepath.Join(packageOutputDir, app.TemplateFileName))
}

func TestRunPackage_LogsToErrorStream(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	packageConfigPath = testutil.WriteFixtureToDir(t, dir, "serverless.yml", "serverless.yml")
	packageOutputDir = filepath.Join(dir, "out")
	packageJSON = true
	logFormat = "json"

	cmd, out, errOut := newTestCommand()
	require.NoError(t, runPackage(cmd, nil))

	assert.Contains(t, errOut.String(), "package build complete")
	assert.NotContains(t, out.String(), "package build complete")
}
