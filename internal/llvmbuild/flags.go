// Package llvmbuild deterministically constructs the CMake and ninja command
// lists for an LLVM toolchain build from a normalized configuration record.
// Later CMake flags override earlier ones in the cache namespace, so the
// emission order in this package is load-bearing and must not change.
package llvmbuild

import (
	"strings"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/buildcfg"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"
)

// Params are the path inputs to command construction. All paths must already
// be normalized to absolute forward-slash form (fsutil.AbsoluteSlashPath);
// empty means "not given".
type Params struct {
	// SourceRoot is the checkout of the llvm-project monorepo. The cmake
	// source directory is its llvm/ subdirectory.
	SourceRoot string

	// BootstrapPath points at a previously built toolchain used to compile
	// this stage. Optional.
	BootstrapPath string

	// InstallPath is the installation prefix. Optional.
	InstallPath string

	// SDKRoot is the macOS SDK sysroot, required when BootstrapPath is set
	// on Darwin.
	SDKRoot string
}

// baseDefaultFlags is the host-independent part of the default flag set.
func baseDefaultFlags() []string {
	return []string{
		"-DLLVM_ENABLE_ASSERTIONS=OFF",
		"-DLLVM_ENABLE_TERMINFO=OFF",
		"-DLLVM_INCLUDE_GO_TESTS=OFF",
		"-DLLVM_ENABLE_Z3_SOLVER=OFF",
		"-DCOMPILER_RT_BUILD_BUILTINS=ON",
		"-DLLVM_ENABLE_THREADS=ON",
		"-DLLVM_OPTIMIZED_TABLEGEN=ON",
		"-DLLVM_ENABLE_IDE=OFF",
		"-DLLVM_BUILD_UTILS=ON",
		"-DLLVM_INSTALL_UTILS=ON",
	}
}

// platformDefaultFlags is the host-specific tail of the default flag set.
func platformDefaultFlags(platform hostenv.Platform) []string {
	switch platform {
	case hostenv.Windows:
		return []string{
			// Use MT to make the distribution self-contained.
			"-DLLVM_USE_CRT_RELEASE=MT",
			"-DCMAKE_MSVC_RUNTIME_LIBRARY=MultiThreaded",
			// We don't support PDB, so no need for DIA.
			"-DLLVM_ENABLE_DIA_SDK=OFF",
		}
	case hostenv.Darwin:
		return []string{"-DLLVM_ENABLE_LIBCXX=ON"}
	default:
		return nil
	}
}

// toolchainOverrides are the bootstrap-compiler override values derived from
// the bootstrap toolchain root. Empty fields are omitted from the flag list.
type toolchainOverrides struct {
	cCompiler   string
	cxxCompiler string
	linker      string
	ar          string
	cFlags      []string
	cxxFlags    []string
	linkerFlags []string
}

// bootstrapOverrides derives per-platform compiler, linker and archiver
// paths under the bootstrap toolchain root.
func bootstrapOverrides(platform hostenv.Platform, bootstrapPath, sdkRoot string) toolchainOverrides {
	bin := func(name string) string {
		// CMake is not tolerant to backslashes.
		return strings.ReplaceAll(bootstrapPath+"/bin/"+name, `\`, "/")
	}

	switch platform {
	case hostenv.Windows:
		return toolchainOverrides{
			cCompiler:   bin("clang-cl.exe"),
			cxxCompiler: bin("clang-cl.exe"),
			linker:      bin("lld-link.exe"),
			ar:          bin("llvm-lib.exe"),
		}
	case hostenv.Linux:
		return toolchainOverrides{
			cCompiler:   bin("clang"),
			cxxCompiler: bin("clang++"),
			linker:      bin("ld.lld"),
			ar:          bin("llvm-ar"),
		}
	case hostenv.Darwin:
		return toolchainOverrides{
			cCompiler:   bin("clang"),
			cxxCompiler: bin("clang++"),
			// ld64.lld is not that good yet, stay on the system linker.
			ar:          bin("llvm-ar"),
			cFlags:      []string{"-isysroot", sdkRoot},
			cxxFlags:    []string{"-isysroot", sdkRoot, "-stdlib=libc++"},
			linkerFlags: []string{"-stdlib=libc++"},
		}
	default:
		return toolchainOverrides{}
	}
}

// CMakeFlags produces the ordered compiler-configuration flag list:
// build type, default flag set, verbatim user flags, bootstrap toolchain
// overrides, list-valued component flags, install prefix.
func CMakeFlags(cfg *buildcfg.Config, platform hostenv.Platform, params Params) []string {
	flags := []string{"-DCMAKE_BUILD_TYPE=" + cfg.BuildType}

	if cfg.UseDefaultCMakeFlags {
		flags = append(flags, baseDefaultFlags()...)
		flags = append(flags, platformDefaultFlags(platform)...)
	}

	flags = append(flags, cfg.CMakeFlags...)

	if params.BootstrapPath != "" {
		overrides := bootstrapOverrides(platform, params.BootstrapPath, params.SDKRoot)
		if overrides.cCompiler != "" {
			flags = append(flags, "-DCMAKE_C_COMPILER="+overrides.cCompiler)
		}
		if overrides.cxxCompiler != "" {
			flags = append(flags, "-DCMAKE_CXX_COMPILER="+overrides.cxxCompiler)
		}
		if overrides.linker != "" {
			flags = append(flags, "-DCMAKE_LINKER="+overrides.linker)
		}
		if overrides.ar != "" {
			flags = append(flags, "-DCMAKE_AR="+overrides.ar)
		}
		if overrides.cFlags != nil {
			flags = append(flags, "-DCMAKE_C_FLAGS="+strings.Join(overrides.cFlags, " "))
		}
		if overrides.cxxFlags != nil {
			flags = append(flags, "-DCMAKE_CXX_FLAGS="+strings.Join(overrides.cxxFlags, " "))
		}
		if overrides.linkerFlags != nil {
			joined := strings.Join(overrides.linkerFlags, " ")
			flags = append(flags,
				"-DCMAKE_EXE_LINKER_FLAGS="+joined,
				"-DCMAKE_MODULE_LINKER_FLAGS="+joined,
				"-DCMAKE_SHARED_LINKER_FLAGS="+joined,
			)
		}
	}

	if cfg.TargetBackends != nil {
		flags = append(flags, "-DLLVM_TARGETS_TO_BUILD="+strings.Join(cfg.TargetBackends, ";"))
	}
	if cfg.Projects != nil {
		flags = append(flags, "-DLLVM_ENABLE_PROJECTS="+strings.Join(cfg.Projects, ";"))
	}
	if cfg.Runtimes != nil {
		flags = append(flags, "-DLLVM_ENABLE_RUNTIMES="+strings.Join(cfg.Runtimes, ";"))
	}
	if len(cfg.DistributionComponents) > 0 {
		flags = append(flags, "-DLLVM_DISTRIBUTION_COMPONENTS="+strings.Join(cfg.DistributionComponents, ";"))
	}

	if params.InstallPath != "" {
		flags = append(flags, "-DCMAKE_INSTALL_PREFIX="+params.InstallPath)
	}

	return flags
}

// Commands returns the two-command build sequence: the cmake configuration
// generation first, then the ninja build. The first command must fully
// succeed before the second runs, since ninja consumes the generated files.
func Commands(env *hostenv.Environment, cfg *buildcfg.Config, params Params) [][]string {
	cmake := append([]string{env.CMake, "-G", "Ninja"}, CMakeFlags(cfg, env.Platform, params)...)
	cmake = append(cmake, params.SourceRoot+"/llvm")

	ninja := append([]string{env.Ninja}, cfg.BuildTargets...)

	return [][]string{cmake, ninja}
}
