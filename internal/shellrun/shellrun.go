// Package shellrun turns ordered argument lists into single shell command
// lines and executes them, mirroring how the build tools expect to be
// invoked: individually quoted tokens through /bin/sh on POSIX hosts, and a
// developer-shell initialization prefix through cmd on Windows.
package shellrun

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/ctxlog"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"
)

// Runner executes external commands in sequence. DryRun prints the command
// lines without spawning anything.
type Runner struct {
	Env    *hostenv.Environment
	DryRun bool
	Out    io.Writer

	// execShell runs a fully assembled command line through the platform
	// shell. Injectable for tests; nil means the real implementation.
	execShell func(ctx context.Context, platform hostenv.Platform, line string) error
}

// New returns a Runner bound to the resolved host environment.
func New(env *hostenv.Environment, dryRun bool, out io.Writer) *Runner {
	return &Runner{Env: env, DryRun: dryRun, Out: out}
}

// Run assembles argv into one shell command line, prints it, and executes it
// unless the runner is in dry-run mode. A non-zero exit is returned as an
// error; callers abort the remaining command sequence on the first failure.
func (r *Runner) Run(ctx context.Context, argv []string) error {
	line, err := r.CommandLine(argv)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.Out, "Running command: "+line)
	ctxlog.FromContext(ctx).Debug("Assembled command line.", "command", line, "dry_run", r.DryRun)

	if r.DryRun {
		return nil
	}

	execFn := r.execShell
	if execFn == nil {
		execFn = execShell
	}
	if err := execFn(ctx, r.Env.Platform, line); err != nil {
		return fmt.Errorf("command failed (%s): %w", argv[0], err)
	}
	return nil
}

// CommandLine renders argv into the single string handed to the shell.
//
// On Windows the developer shell script re-establishes the compiler
// environment first, so the real command is chained after it with && and the
// tokens are passed through unescaped. Everywhere else each token is quoted
// individually.
func (r *Runner) CommandLine(argv []string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}

	if r.Env.Platform == hostenv.Windows {
		if r.Env.VsDevCmd == "" {
			return "", fmt.Errorf("'VsDevCmd.bat' is not set")
		}
		tokens := append([]string{r.Env.VsDevCmd, "-arch=amd64", "&&"}, argv...)
		return strings.Join(tokens, " "), nil
	}

	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " "), nil
}

// safeChars are the characters that never need quoting in a POSIX shell word.
const safeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%+=:,./_-"

// Quote escapes a single token for a POSIX shell, following the classic
// single-quote scheme: wrap in single quotes and replace every embedded
// single quote with '"'"'.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, c := range s {
		if !strings.ContainsRune(safeChars, c) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// execShell hands the assembled line to the platform shell with the child
// process wired straight to our stdio, so build output streams through.
func execShell(ctx context.Context, platform hostenv.Platform, line string) error {
	var cmd *exec.Cmd
	if platform == hostenv.Windows {
		cmd = exec.CommandContext(ctx, "cmd", "/c", line)
	} else {
		cmd = exec.CommandContext(ctx, "/bin/sh", "-c", line)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
