// Package main provides the entry point for keva.
//
// keva is the maintenance tool for keva store files:
//
//   - Integrity verification (frame, checksum, payload)
//   - Store file statistics and entry census
//   - Compaction (rewrite without expired entries, encryption migration)
//   - Encryption key file generation
//   - Watching a store file for saves
//
// Usage:
//
//	keva [command] [flags]
//	keva verify --file /var/lib/keva/keva.db
//	keva stats --file /var/lib/keva/keva.db --output json
//	keva compact --file /var/lib/keva/keva.db --dry-run
//
// The tool operates on store files directly and never exposes the
// store's create/read/delete operations. Commands that rewrite the file
// honor the writer lock held by a live process.
package main
