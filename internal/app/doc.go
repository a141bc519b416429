// Package app contains the core application logic. It wires the resolved
// host environment, configuration resolution, and command execution into
// the checkout, build, and archive subcommand lifecycles, decoupled from
// the process entrypoint.
package app
