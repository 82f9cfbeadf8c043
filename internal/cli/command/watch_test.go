package command

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nzoba/keva-go/internal/storage/snapshot"
)

func TestWatchCommand_Registered(t *testing.T) {
	app := App()
	cmd := app.Command("watch")
	if cmd == nil {
		t.Fatal("watch command not registered")
	}
	if cmd.Action == nil {
		t.Error("watch command has no action")
	}
}

func TestWatchPrinter_PrintsSaveDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")
	info := writeStoreFile(t, path, nil, sampleEntries())

	manager, err := snapshot.NewManager(snapshot.Config{Path: path})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	c, buf := testContext(t)
	printer := newWatchPrinter(c)
	printer.describe(manager, "")

	out := buf.String()
	if !strings.Contains(out, "id="+info.ID) {
		t.Errorf("output missing save ID %s:\n%s", info.ID, out)
	}
	if !strings.Contains(out, "entries=3") {
		t.Errorf("output missing entry count:\n%s", out)
	}
	if !strings.Contains(out, "encrypted=false") {
		t.Errorf("output missing encryption state:\n%s", out)
	}
	if got := printer.lastID(); got != info.ID {
		t.Errorf("lastID = %s, want %s", got, info.ID)
	}
}

func TestWatchPrinter_DedupsSameSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")
	writeStoreFile(t, path, nil, sampleEntries())

	manager, err := snapshot.NewManager(snapshot.Config{Path: path})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	c, buf := testContext(t)
	printer := newWatchPrinter(c)
	printer.describe(manager, "")
	// A rename fires more than one filesystem event for the same save.
	printer.describe(manager, printer.lastID())
	printer.describe(manager, printer.lastID())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), buf.String())
	}
}

func TestWatchPrinter_NewSavePrintsAgain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")
	first := writeStoreFile(t, path, nil, sampleEntries())

	manager, err := snapshot.NewManager(snapshot.Config{Path: path})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	c, buf := testContext(t)
	printer := newWatchPrinter(c)
	printer.describe(manager, "")

	second := writeStoreFile(t, path, nil, sampleEntries())
	if second.ID == first.ID {
		t.Fatal("second save reused the first save's ID")
	}
	printer.describe(manager, printer.lastID())

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "id="+second.ID) {
		t.Errorf("second line missing new save ID %s:\n%s", second.ID, out)
	}
	if got := printer.lastID(); got != second.ID {
		t.Errorf("lastID = %s, want %s", got, second.ID)
	}
}

func TestWatchPrinter_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")

	manager, err := snapshot.NewManager(snapshot.Config{Path: path})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	c, buf := testContext(t)
	printer := newWatchPrinter(c)
	printer.describe(manager, "")

	if !strings.Contains(buf.String(), "no store file yet") {
		t.Errorf("output missing placeholder for absent file:\n%s", buf.String())
	}
}

func TestWatchPrinter_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")
	info := writeStoreFile(t, path, nil, sampleEntries())

	manager, err := snapshot.NewManager(snapshot.Config{Path: path})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	c, buf := testContext(t, "--output", "json")
	printer := newWatchPrinter(c)
	printer.describe(manager, "")

	var event watchEvent
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if event.ID != info.ID {
		t.Errorf("event ID = %s, want %s", event.ID, info.ID)
	}
	if event.Entries != 3 {
		t.Errorf("event entries = %d, want 3", event.Entries)
	}
	if event.Encrypted {
		t.Error("event reports encrypted for a plaintext file")
	}
}
