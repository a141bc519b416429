package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	cmd, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cmd)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_UnknownCommand(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	_, _, err := Parse([]string{"deploy"}, out)

	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "deploy")
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	_, _, err := Parse([]string{"checkout", "--not-a-flag"}, out)

	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	require.Equal(t, 2, exitErr.Code)
}

func TestParse_CheckoutDefaults(t *testing.T) {
	t.Parallel()

	// --- Act ---
	cmd, shouldExit, err := Parse([]string{"checkout"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "checkout", cmd.Name)
	require.Equal(t, "llvm-project", cmd.Checkout.Output)
	require.Equal(t, "info", cmd.Common.LogLevel)
	require.Equal(t, "text", cmd.Common.LogFormat)
	require.False(t, cmd.Common.DryRun)
}

func TestParse_BuildFlags(t *testing.T) {
	t.Parallel()

	// --- Act ---
	cmd, _, err := Parse([]string{
		"build",
		"--sources", "llvm-project",
		"--config", "predefined/user",
		"--bootstrap-path", "/opt/llvm10",
		"--dry-run",
		"--ninja", "/opt/ninja",
	}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "build", cmd.Name)
	require.Equal(t, "llvm-project", cmd.Build.Sources)
	require.Equal(t, "predefined/user", cmd.Build.Config)
	require.Equal(t, "/opt/llvm10", cmd.Build.BootstrapPath)
	require.Equal(t, "llvm-dist", cmd.Build.Output)
	require.Equal(t, "build", cmd.Build.BuildPath)
	require.True(t, cmd.Common.DryRun)
	require.Equal(t, "/opt/ninja", cmd.Common.Ninja)
}

func TestParse_BuildRequiresSources(t *testing.T) {
	t.Parallel()

	_, _, err := Parse([]string{"build", "--config", "predefined/dev"}, &bytes.Buffer{})

	require.Error(t, err)
	require.Contains(t, err.Error(), "--sources")
}

func TestParse_ArchiveRequiresInputAndOutput(t *testing.T) {
	t.Parallel()

	_, _, err := Parse([]string{"archive", "--output", "dist"}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "--input")

	_, _, err = Parse([]string{"archive", "--input", "llvm-dist"}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "--output")
}

func TestParse_InvalidLogSettings(t *testing.T) {
	t.Parallel()

	_, _, err := Parse([]string{"checkout", "--log-level", "verbose"}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "log-level")

	_, _, err = Parse([]string{"checkout", "--log-format", "xml"}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "log-format")
}

func TestParse_HelpFlagExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	cmd, shouldExit, err := Parse([]string{"build", "-h"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cmd)
}
