package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/archive"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/buildcfg"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/checkout"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/ctxlog"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/fsutil"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/hclcfg"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/jsoncfg"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/llvmbuild"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/shellrun"
)

// Run executes the selected subcommand. The host environment is resolved
// exactly once, up front; everything downstream receives it as an immutable
// value.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.command.Name)

	env, err := a.resolver.Resolve(ctx, hostenv.Options{
		Ninja:    a.command.Common.Ninja,
		CMake:    a.command.Common.CMake,
		Git:      a.command.Common.Git,
		VsDevCmd: a.command.Common.VsDevCmd,
		SDKRoot:  a.command.Common.SDKRoot,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("Host environment resolved.", "platform", env.Platform)

	runner := shellrun.New(env, a.command.Common.DryRun, a.outW)

	switch a.command.Name {
	case "checkout":
		return a.runCheckout(ctx, runner)
	case "build":
		return a.runBuild(ctx, env, runner)
	case "archive":
		return a.runArchive(ctx)
	default:
		return fmt.Errorf("unknown command %q", a.command.Name)
	}
}

func (a *App) runCheckout(ctx context.Context, runner *shellrun.Runner) error {
	dest, err := checkout.Clone(ctx, runner, checkout.Options{
		Repo:        a.command.Checkout.Repo,
		Branch:      a.command.Checkout.Branch,
		Destination: a.command.Checkout.Output,
	})
	if err != nil {
		return err
	}
	a.logger.Info("Checkout finished.", "path", dest)
	return nil
}

func (a *App) runBuild(ctx context.Context, env *hostenv.Environment, runner *shellrun.Runner) error {
	opts := a.command.Build

	cfg, err := buildcfg.Resolve(ctx, opts.Config, env.Platform, jsoncfg.NewLoader(), hclcfg.NewLoader())
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.outW, "Building LLVM with the following configuration:")
	fmt.Fprintln(a.outW, string(pretty))

	params := llvmbuild.Params{SDKRoot: env.SDKRoot}
	if params.SourceRoot, err = fsutil.AbsoluteSlashPath(opts.Sources); err != nil {
		return err
	}
	if params.BootstrapPath, err = fsutil.AbsoluteSlashPath(opts.BootstrapPath); err != nil {
		return err
	}
	if params.InstallPath, err = fsutil.AbsoluteSlashPath(opts.Output); err != nil {
		return err
	}
	commands := llvmbuild.Commands(env, cfg, params)

	// The whole command sequence runs pinned to the build directory.
	if err := os.MkdirAll(opts.BuildPath, 0o755); err != nil {
		return fmt.Errorf("failed to create build directory %s: %w", opts.BuildPath, err)
	}
	buildPath, err := fsutil.AbsoluteSlashPath(opts.BuildPath)
	if err != nil {
		return err
	}
	if err := os.Chdir(buildPath); err != nil {
		return err
	}
	a.logger.Info("Changed working dir.", "path", buildPath)

	for _, command := range commands {
		if err := runner.Run(ctx, command); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) runArchive(ctx context.Context) error {
	opts := a.command.Archive

	format, err := archive.ParseFormat(opts.Compression)
	if err != nil {
		return err
	}

	path, err := archive.Create(ctx, archive.Options{
		InputDir:     opts.Input,
		OutputPrefix: opts.Output,
		Format:       format,
		DryRun:       a.command.Common.DryRun,
		Progress:     a.outW,
	})
	if err != nil {
		return err
	}

	source, err := fsutil.AbsoluteSlashPath(opts.Input)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.outW, "Created "+path+" from "+source)

	if opts.Checksum {
		if a.command.Common.DryRun {
			a.logger.Info("Dry run, skipping checksum.", "path", path)
			return nil
		}
		sum, err := archive.WriteChecksum(path)
		if err != nil {
			return err
		}
		a.logger.Info("Wrote checksum file.", "path", path+archive.ChecksumSuffix, "sha256", sum)
	}
	return nil
}
