// Package storage assembles the keva store from its parts.
//
// Store combines the in-memory table, the store file manager, and the
// expiration reaper behind one handle:
//
//   - memory: sharded entry table with an expiry index
//   - snapshot: whole-file persistence with optional encryption
//
// Mutations are write-through. Create and Delete update the table and
// then rewrite the store file before returning, so the file always
// holds the last acknowledged state. Reads never touch the disk.
//
// A lock file next to the store file keeps a second process from
// opening the same file for writing.
package storage
