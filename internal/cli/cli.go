package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// CommonOptions are the flags shared by every subcommand.
type CommonOptions struct {
	DryRun bool

	Ninja    string
	CMake    string
	Git      string
	VsDevCmd string
	SDKRoot  string

	LogLevel  string
	LogFormat string
}

// CheckoutOptions are the flags of the checkout subcommand.
type CheckoutOptions struct {
	Repo   string
	Branch string
	Output string
}

// BuildOptions are the flags of the build subcommand.
type BuildOptions struct {
	Sources       string
	BootstrapPath string
	Config        string
	Output        string
	BuildPath     string
}

// ArchiveOptions are the flags of the archive subcommand.
type ArchiveOptions struct {
	Input       string
	Output      string
	Compression string
	Checksum    bool
}

// Command is the parsed invocation: which subcommand was selected and its
// validated options.
type Command struct {
	Name string

	Common   CommonOptions
	Checkout CheckoutOptions
	Build    BuildOptions
	Archive  ArchiveOptions
}

const usageText = `llvm-builder - checkout, build and archive an LLVM toolchain.

Usage:
  llvm-builder <command> [options]

Commands:
  checkout   Clone the LLVM sources (single commit of one branch)
  build      Configure and build LLVM with cmake and ninja
  archive    Package a built distribution and optionally checksum it

Run 'llvm-builder <command> -h' for command-specific options.
`

// Parse processes command-line arguments. It returns the parsed Command, a
// boolean indicating the program should exit cleanly (help requested), or
// an ExitError for invalid input.
func Parse(args []string, output io.Writer) (*Command, bool, error) {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(output, usageText)
		return nil, true, nil
	}

	cmd := &Command{Name: args[0]}
	flagSet := flag.NewFlagSet("llvm-builder "+cmd.Name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	addCommonFlags(flagSet, &cmd.Common)

	switch cmd.Name {
	case "checkout":
		flagSet.StringVar(&cmd.Checkout.Repo, "repo", "", "Repository URL to clone. Defaults per platform.")
		flagSet.StringVar(&cmd.Checkout.Branch, "branch", "", "Branch to clone. Defaults per platform.")
		flagSet.StringVar(&cmd.Checkout.Output, "output", "llvm-project", "Where LLVM repository should be downloaded.")
	case "build":
		flagSet.StringVar(&cmd.Build.Sources, "sources", "", "Location of LLVM sources.")
		flagSet.StringVar(&cmd.Build.BootstrapPath, "bootstrap-path", "", "Path to LLVM distribution that should be used as a bootstrap.")
		flagSet.StringVar(&cmd.Build.Config, "config", "", "Either predefined/(bootstrap, user, dev), or path to a json/hcl config document.")
		flagSet.StringVar(&cmd.Build.Output, "output", "llvm-dist", "Output path.")
		flagSet.StringVar(&cmd.Build.BuildPath, "build-path", "build", "Path to directory that should store intermediate build files.")
	case "archive":
		flagSet.StringVar(&cmd.Archive.Input, "input", "", "Location of LLVM distribution.")
		flagSet.StringVar(&cmd.Archive.Output, "output", "", "Output path prefix (format suffix is appended).")
		flagSet.StringVar(&cmd.Archive.Compression, "compression", "zip", "Archive format: zip|gztar|xztar.")
		flagSet.BoolVar(&cmd.Archive.Checksum, "checksum", false, "Create SHA256 of archive.")
	default:
		fmt.Fprint(output, usageText)
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cmd.Name)}
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if err := validate(cmd); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cmd, false, nil
}

// addCommonFlags registers the environment and logging flags every
// subcommand accepts.
func addCommonFlags(flagSet *flag.FlagSet, opts *CommonOptions) {
	flagSet.BoolVar(&opts.DryRun, "dry-run", false, "Only print commands, do not run.")
	flagSet.StringVar(&opts.Ninja, "ninja", "", "Override path to ninja.")
	flagSet.StringVar(&opts.CMake, "cmake", "", "Override path to cmake.")
	flagSet.StringVar(&opts.Git, "git", "", "Override path to git.")
	flagSet.StringVar(&opts.VsDevCmd, "vsdevcmd", "", "(Windows only) Path to VsDevCmd.bat.")
	flagSet.StringVar(&opts.SDKRoot, "isysroot", "", "(macOS only) Override path to macOS SDK.")
	flagSet.StringVar(&opts.LogLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVar(&opts.LogFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
}

// validate rejects invalid flag combinations before any work starts.
func validate(cmd *Command) error {
	logFormat := strings.ToLower(cmd.Common.LogFormat)
	if logFormat != "text" && logFormat != "json" {
		return fmt.Errorf("invalid log-format: must be 'text' or 'json'")
	}
	cmd.Common.LogFormat = logFormat

	logLevel := strings.ToLower(cmd.Common.LogLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	cmd.Common.LogLevel = logLevel

	switch cmd.Name {
	case "build":
		if cmd.Build.Sources == "" {
			return fmt.Errorf("--sources is required for build")
		}
	case "archive":
		if cmd.Archive.Input == "" {
			return fmt.Errorf("--input is required for archive")
		}
		if cmd.Archive.Output == "" {
			return fmt.Errorf("--output is required for archive")
		}
	}
	return nil
}
