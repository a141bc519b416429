package checkout

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/shellrun"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	repo, branch := Defaults(hostenv.Linux)
	require.Equal(t, "https://github.com/llvm/llvm-project", repo)
	require.Equal(t, "release/11.x", branch)

	repo, branch = Defaults(hostenv.Darwin)
	require.Equal(t, "https://github.com/apple/llvm-project", repo)
	require.Equal(t, "apple/stable/20200714", branch)
}

func TestClone_ShallowSingleBranch(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}
	env := &hostenv.Environment{Platform: hostenv.Linux, Git: "git"}
	runner := shellrun.New(env, true, out)

	// --- Act ---
	dest, err := Clone(context.Background(), runner, Options{Destination: "llvm-project"})

	// --- Assert ---
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(dest, "/llvm-project"), "destination should be normalized to absolute form")

	line := out.String()
	require.Contains(t, line, "git clone https://github.com/llvm/llvm-project")
	require.Contains(t, line, "--branch release/11.x")
	require.Contains(t, line, "--depth 1")
}

func TestClone_ExplicitRepoAndBranchWin(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	env := &hostenv.Environment{Platform: hostenv.Darwin, Git: "git"}
	runner := shellrun.New(env, true, out)

	_, err := Clone(context.Background(), runner, Options{
		Repo:        "https://example.com/fork/llvm-project",
		Branch:      "my-branch",
		Destination: "src",
	})

	require.NoError(t, err)
	require.Contains(t, out.String(), "https://example.com/fork/llvm-project")
	require.Contains(t, out.String(), "--branch my-branch")
	require.NotContains(t, out.String(), "apple/stable")
}
