package hostenv

import "runtime"

// Platform identifies the host operating system family. It is carried
// explicitly instead of consulting runtime.GOOS at use sites so that
// platform-sensitive logic stays testable on any host.
type Platform string

const (
	Windows Platform = "windows"
	Linux   Platform = "linux"
	Darwin  Platform = "darwin"
	Other   Platform = "other"
)

// CurrentPlatform maps the running process's OS onto a Platform value.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	default:
		return Other
	}
}

// Environment holds the resolved paths to every external tool a build needs.
// It is populated once by Resolver.Resolve and treated as read-only afterwards.
type Environment struct {
	Platform Platform

	Ninja string
	CMake string
	Git   string

	// VsDevCmd is the path to the Visual Studio developer shell init script.
	// Only set on Windows.
	VsDevCmd string

	// SDKRoot is the macOS SDK sysroot path. Only set on Darwin.
	SDKRoot string
}

// Options carries the user-supplied overrides for environment resolution.
// Empty fields mean "auto-detect".
type Options struct {
	Platform Platform // zero value means the current host platform

	Ninja    string
	CMake    string
	Git      string
	VsDevCmd string
	SDKRoot  string
}
