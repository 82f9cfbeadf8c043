// Package command provides CLI command definitions for keva.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, configuration loading
//   - verify.go: Store file integrity check
//   - stats.go: Store file statistics
//   - compact.go: Store file rewrite and encryption migration
//   - keygen.go: Encryption key file generation
//   - watch.go: Follow saves to a store file
//
// Every command works on the store file directly. Commands that write
// take the same file lock a live process holds, so they refuse to run
// while the store is open elsewhere.
package command
