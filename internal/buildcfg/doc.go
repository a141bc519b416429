// Package buildcfg defines the format-agnostic build configuration model
// for an LLVM toolchain build, the built-in host-sensitive presets, and the
// Loader interface for reading configuration documents from disk. Concrete
// document formats (JSON, HCL) live in their own packages.
package buildcfg
