// Package checkout clones the llvm-project sources. Only a single commit of
// the requested branch is fetched; whole history is useless for building.
package checkout

import (
	"context"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/ctxlog"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/fsutil"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/shellrun"
)

// Options selects what to clone and where to. Empty Repo/Branch fall back to
// the platform defaults: the Apple fork and its stable branch on macOS, the
// upstream release branch elsewhere.
type Options struct {
	Repo        string
	Branch      string
	Destination string
}

// Defaults returns the default repository URL and branch for the platform.
func Defaults(platform hostenv.Platform) (repo, branch string) {
	if platform == hostenv.Darwin {
		return "https://github.com/apple/llvm-project", "apple/stable/20200714"
	}
	return "https://github.com/llvm/llvm-project", "release/11.x"
}

// Clone downloads a single commit of the selected branch into the
// destination directory and returns the normalized destination path.
func Clone(ctx context.Context, runner *shellrun.Runner, opts Options) (string, error) {
	repo, branch := Defaults(runner.Env.Platform)
	if opts.Repo != "" {
		repo = opts.Repo
	}
	if opts.Branch != "" {
		branch = opts.Branch
	}

	ctxlog.FromContext(ctx).Info("Cloning LLVM repository.",
		"repo", repo, "branch", branch, "destination", opts.Destination)

	command := []string{
		runner.Env.Git, "clone", repo,
		"--branch", branch,
		"--depth", "1",
		opts.Destination,
	}
	if err := runner.Run(ctx, command); err != nil {
		return "", err
	}
	return fsutil.AbsoluteSlashPath(opts.Destination)
}
