// Package fswatch notifies on changes to a single file.
//
// The store process saves its file with a temp-write-then-rename, so
// fswatch watches the containing directory and matches events against
// the target's base name. Write, Create, and Rename events on the
// target fire the registered callbacks; everything else in the
// directory is ignored.
//
// Callbacks run on the watcher goroutine and should return quickly.
package fswatch
