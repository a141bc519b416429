// Package hostenv resolves the host execution environment for a toolchain
// build: which OS family we are on, where the required external tools
// (ninja, cmake, git) live, and the platform-specific extras — the Visual
// Studio developer shell script on Windows and the SDK sysroot on macOS.
package hostenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/ctxlog"
)

// vswhereURL is the fixed release the locator utility is fetched from when
// it cannot be found on the search path.
const vswhereURL = "https://github.com/microsoft/vswhere/releases/download/2.8.4/vswhere.exe"

// Resolver locates external tools. The function fields default to real
// implementations and exist so tests can simulate hosts without touching
// the filesystem or spawning processes.
type Resolver struct {
	LookPath   func(file string) (string, error)
	RunOutput  func(ctx context.Context, name string, args ...string) (string, error)
	Download   func(ctx context.Context, url, dest string) error
	FileExists func(path string) bool
}

// NewResolver returns a Resolver backed by the real host.
func NewResolver() *Resolver {
	return &Resolver{
		LookPath:  exec.LookPath,
		RunOutput: runOutput,
		Download:  download,
		FileExists: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && !info.IsDir()
		},
	}
}

// Resolve produces the immutable Environment for this process. Each of the
// three mandatory tools uses its override when given, otherwise the search
// path; a tool that cannot be found is an error naming the flag to supply.
// Windows additionally resolves the developer shell script, Darwin the SDK
// sysroot. Meant to be called exactly once at startup.
func (r *Resolver) Resolve(ctx context.Context, opts Options) (*Environment, error) {
	platform := opts.Platform
	if platform == "" {
		platform = CurrentPlatform()
	}

	env := &Environment{Platform: platform}

	var err error
	if env.Ninja, err = r.resolveTool("ninja", opts.Ninja); err != nil {
		return nil, err
	}
	if env.CMake, err = r.resolveTool("cmake", opts.CMake); err != nil {
		return nil, err
	}
	if env.Git, err = r.resolveTool("git", opts.Git); err != nil {
		return nil, err
	}

	switch platform {
	case Windows:
		if opts.VsDevCmd != "" {
			env.VsDevCmd = opts.VsDevCmd
		} else if env.VsDevCmd, err = r.detectVsDevCmd(ctx); err != nil {
			return nil, err
		}
	case Darwin:
		if opts.SDKRoot != "" {
			env.SDKRoot = opts.SDKRoot
		} else if env.SDKRoot, err = r.detectSDKRoot(ctx); err != nil {
			return nil, err
		}
	}

	return env, nil
}

// resolveTool keeps the plain tool name when the search-path lookup succeeds,
// matching the behavior of invoking the tool through the shell later on.
func (r *Resolver) resolveTool(name, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if _, err := r.LookPath(name); err != nil {
		return "", fmt.Errorf("'%s' is not found. Install or provide via --%s argument", name, name)
	}
	return name, nil
}

// detectVsDevCmd uses the vswhere utility (downloading it first if needed) to
// find the Visual Studio installation root, then derives the developer shell
// script path from the fixed relative location inside it.
func (r *Resolver) detectVsDevCmd(ctx context.Context) (string, error) {
	logger := ctxlog.FromContext(ctx)

	vswhere, err := r.LookPath("vswhere")
	if err != nil {
		logger.Info("Downloading vswhere utility to detect path to vsdevcmd.bat automatically")
		if err := r.Download(ctx, vswhereURL, "vswhere.exe"); err != nil {
			return "", fmt.Errorf("failed to download vswhere utility: %w", err)
		}
		// Use the download destination directly: a search-path lookup would
		// answer a current-directory match with exec.ErrDot and look like a
		// failure.
		if vswhere, err = filepath.Abs("vswhere.exe"); err != nil {
			return "", err
		}
		if !r.FileExists(vswhere) {
			return "", fmt.Errorf("failed to retrieve vswhere utility. Please provide path to vsdevcmd.bat with --vsdevcmd")
		}
	}

	out, err := r.RunOutput(ctx, vswhere, "-prerelease", "-latest", "-property", "installationPath")
	if err != nil {
		return "", fmt.Errorf("vswhere failed: %w", err)
	}
	installRoot := strings.TrimRight(out, "\r\n")

	vsDevCmd := filepath.Join(installRoot, "Common7", "Tools", "vsdevcmd.bat")
	if !r.FileExists(vsDevCmd) {
		return "", fmt.Errorf("vsdevcmd.bat is not found. Please provide path to vsdevcmd.bat with --vsdevcmd")
	}
	logger.Info("Found vsdevcmd.bat", "path", vsDevCmd)
	return vsDevCmd, nil
}

// detectSDKRoot asks the Xcode toolchain for the active SDK path.
func (r *Resolver) detectSDKRoot(ctx context.Context) (string, error) {
	out, err := r.RunOutput(ctx, "xcrun", "--show-sdk-path")
	if err != nil {
		return "", fmt.Errorf("xcrun --show-sdk-path failed: %w", err)
	}
	return strings.TrimRight(out, "\r\n"), nil
}

func runOutput(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}
