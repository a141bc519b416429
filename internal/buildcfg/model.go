package buildcfg

import "context"

// Config is the normalized build configuration record. It is produced once
// by Resolve and never mutated afterwards.
//
// For the optional list fields a nil slice means "unset": the flag the
// field maps onto is omitted entirely instead of being emitted empty.
type Config struct {
	// BuildTargets are the build-system targets handed to ninja,
	// e.g. "install" or "install-distribution".
	BuildTargets []string `json:"build_targets"`

	Projects               []string `json:"projects"`
	Runtimes               []string `json:"runtimes"`
	DistributionComponents []string `json:"distribution_components"`
	TargetBackends         []string `json:"target_backends"`

	// BuildType is the CMake build type, e.g. "Release".
	BuildType string `json:"build_type"`

	// CMakeFlags are raw flag strings appended verbatim.
	CMakeFlags []string `json:"cmake_flags"`

	// UseDefaultCMakeFlags enables the platform default flag set.
	UseDefaultCMakeFlags bool `json:"use_default_cmake_flags"`
}

// Loader is the interface for a format-specific configuration document
// loader. Implementations parse a file into the agnostic model, preserving
// the absent-vs-empty distinction for optional fields and rejecting unknown
// keys at parse time.
type Loader interface {
	// Extensions lists the file extensions (including the dot) this loader
	// handles.
	Extensions() []string

	// Load reads and parses the document at path.
	Load(ctx context.Context, path string) (*Config, error)
}
