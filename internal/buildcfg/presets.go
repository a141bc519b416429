package buildcfg

import "github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"

// Reserved selector names for the built-in presets.
const (
	PresetBootstrap = "predefined/bootstrap"
	PresetDev       = "predefined/dev"
	PresetUser      = "predefined/user"
)

// defaultProjects is the project set every preset builds.
func defaultProjects() []string {
	return []string{"clang", "lld", "libcxx", "libcxxabi", "compiler-rt"}
}

// userDistComponents is the installable subset shipped to end users.
// compiler-rt is distributed on Linux only.
func userDistComponents(platform hostenv.Platform) []string {
	components := []string{
		"clang", "libclang", "lld", "llvm-cov", "llvm-profdata", "llvm-ar",
		"clang-resource-headers",
	}
	if platform == hostenv.Linux {
		components = append(components, "compiler_rt")
	}
	return components
}

// bootstrapFlags trims compiler-rt down for the throwaway first-stage
// toolchain. Only macOS needs the trimming.
func bootstrapFlags(platform hostenv.Platform) []string {
	if platform != hostenv.Darwin {
		return []string{}
	}
	// Don't waste time by doing unnecessary work for throwaway toolchain.
	return []string{
		"-DCOMPILER_RT_BUILD_CRT=OFF",
		"-DCOMPILER_RT_BUILD_LIBFUZZER=OFF",
		"-DCOMPILER_RT_BUILD_SANITIZERS=OFF",
		"-DCOMPILER_RT_BUILD_XRAY=OFF",
		"-DCOMPILER_RT_ENABLE_IOS=OFF",
		"-DCOMPILER_RT_ENABLE_WATCHOS=OFF",
		"-DCOMPILER_RT_ENABLE_TVOS=OFF",
	}
}

// distributionFlags shapes the final distribution layout.
func distributionFlags(platform hostenv.Platform) []string {
	// These links are actually copies on windows, so they're wasting
	// precious disk space.
	flags := []string{
		"-DCLANG_LINKS_TO_CREATE=clang++",
		"-DLLD_SYMLINKS_TO_CREATE=ld.lld;wasm-ld",
	}
	if platform == hostenv.Darwin {
		flags = append(flags, "-DLIBCXX_USE_COMPILER_RT=ON")
	}
	return flags
}

// Preset constructs the named built-in configuration for the given platform.
// The second return value reports whether name is a reserved preset selector.
// Presets are recomputed on every call: their field values depend on the
// platform and must never be cached across differing hosts.
func Preset(name string, platform hostenv.Platform) (*Config, bool) {
	switch name {
	case PresetBootstrap:
		return &Config{
			TargetBackends:       []string{"Native"},
			BuildTargets:         []string{"install"},
			Projects:             defaultProjects(),
			BuildType:            "Release",
			CMakeFlags:           bootstrapFlags(platform),
			UseDefaultCMakeFlags: true,
		}, true
	case PresetDev:
		return &Config{
			BuildTargets:         []string{"install-distribution"},
			Projects:             defaultProjects(),
			BuildType:            "Release",
			CMakeFlags:           distributionFlags(platform),
			UseDefaultCMakeFlags: true,
		}, true
	case PresetUser:
		return &Config{
			DistributionComponents: userDistComponents(platform),
			BuildTargets:           []string{"install-distribution"},
			Projects:               defaultProjects(),
			BuildType:              "Release",
			CMakeFlags:             distributionFlags(platform),
			UseDefaultCMakeFlags:   true,
		}, true
	default:
		return nil, false
	}
}
