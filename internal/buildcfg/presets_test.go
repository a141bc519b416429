package buildcfg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"
)

func TestPreset_Deterministic(t *testing.T) {
	t.Parallel()

	for _, name := range []string{PresetBootstrap, PresetDev, PresetUser} {
		for _, platform := range []hostenv.Platform{hostenv.Linux, hostenv.Darwin, hostenv.Windows} {
			first, ok := Preset(name, platform)
			require.True(t, ok)
			second, ok := Preset(name, platform)
			require.True(t, ok)
			require.Equal(t, first, second, "preset %s on %s must be deterministic", name, platform)
		}
	}
}

func TestPreset_UnknownName(t *testing.T) {
	t.Parallel()

	_, ok := Preset("predefined/unknown", hostenv.Linux)

	require.False(t, ok)
}

func TestPreset_UserComponentsArePlatformSensitive(t *testing.T) {
	t.Parallel()

	// --- Act ---
	linux, ok := Preset(PresetUser, hostenv.Linux)
	require.True(t, ok)
	darwin, ok := Preset(PresetUser, hostenv.Darwin)
	require.True(t, ok)

	// --- Assert ---
	// compiler_rt is distributed on Linux only.
	require.Contains(t, linux.DistributionComponents, "compiler_rt")
	require.NotContains(t, darwin.DistributionComponents, "compiler_rt")
}

func TestPreset_BootstrapTrimsCompilerRTOnDarwinOnly(t *testing.T) {
	t.Parallel()

	darwin, _ := Preset(PresetBootstrap, hostenv.Darwin)
	linux, _ := Preset(PresetBootstrap, hostenv.Linux)

	require.Contains(t, darwin.CMakeFlags, "-DCOMPILER_RT_BUILD_SANITIZERS=OFF")
	require.Empty(t, linux.CMakeFlags)
}

func TestPreset_FieldShapes(t *testing.T) {
	t.Parallel()

	bootstrap, _ := Preset(PresetBootstrap, hostenv.Linux)
	dev, _ := Preset(PresetDev, hostenv.Linux)
	user, _ := Preset(PresetUser, hostenv.Linux)

	require.Equal(t, []string{"Native"}, bootstrap.TargetBackends)
	require.Equal(t, []string{"install"}, bootstrap.BuildTargets)
	require.Nil(t, bootstrap.DistributionComponents)
	require.Nil(t, bootstrap.Runtimes)

	require.Nil(t, dev.TargetBackends)
	require.Equal(t, []string{"install-distribution"}, dev.BuildTargets)
	require.Nil(t, dev.DistributionComponents)

	require.Equal(t, []string{"install-distribution"}, user.BuildTargets)
	require.NotEmpty(t, user.DistributionComponents)

	for _, cfg := range []*Config{bootstrap, dev, user} {
		require.Equal(t, "Release", cfg.BuildType)
		require.True(t, cfg.UseDefaultCMakeFlags)
		require.Equal(t, []string{"clang", "lld", "libcxx", "libcxxabi", "compiler-rt"}, cfg.Projects)
	}
}
