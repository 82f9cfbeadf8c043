package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyCommand_OK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")
	info := writeStoreFile(t, path, nil, sampleEntries())

	out, err := runApp(t, "--file", path, "verify")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if !strings.Contains(out, "verified") {
		t.Errorf("output missing verification marker:\n%s", out)
	}
	if !strings.Contains(out, info.ID) {
		t.Errorf("output missing snapshot ID %s:\n%s", info.ID, out)
	}
	if !strings.Contains(out, info.Checksum) {
		t.Errorf("output missing checksum:\n%s", out)
	}
}

func TestVerifyCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")
	writeStoreFile(t, path, nil, sampleEntries())

	out, err := runApp(t, "--file", path, "--output", "json", "verify")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	var result verifyResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if result.Entries != 3 {
		t.Errorf("Entries = %d, want 3", result.Entries)
	}
	if result.Encrypted {
		t.Error("Encrypted = true, want false")
	}
}

func TestVerifyCommand_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")

	_, err := runApp(t, "--file", path, "verify")
	if err == nil || !strings.Contains(err.Error(), "no store file") {
		t.Errorf("verify on missing file = %v, want no-store-file error", err)
	}
}

func TestVerifyCommand_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keva.db")
	writeStoreFile(t, path, nil, sampleEntries())

	// Flip a payload byte so the checksum no longer matches.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xFF}, 20); err != nil {
		t.Fatalf("WriteAt failed: %v", err)
	}
	f.Close()

	_, err = runApp(t, "--file", path, "verify")
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("verify on corrupt file = %v, want checksum mismatch", err)
	}
}

func TestVerifyCommand_SealedWithoutKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keva.db")
	_, cipher := writeKeyFile(t, dir)
	writeStoreFile(t, path, cipher, sampleEntries())

	// Without the key the frame and checksum still verify; the payload
	// stays sealed.
	out, err := runApp(t, "--file", path, "verify")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !strings.Contains(out, "sealed") {
		t.Errorf("output missing sealed marker:\n%s", out)
	}
}

func TestVerifyCommand_WithKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keva.db")
	keyPath, cipher := writeKeyFile(t, dir)
	writeStoreFile(t, path, cipher, sampleEntries())

	out, err := runApp(t, "--file", path, "--key-file", keyPath, "verify")
	if err != nil {
		t.Fatalf("verify with key failed: %v", err)
	}
	if !strings.Contains(out, "verified") {
		t.Errorf("output missing verification marker:\n%s", out)
	}
}

func TestVerifyCommand_PlaintextFileWithKeyConfigured(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keva.db")
	keyPath, _ := writeKeyFile(t, dir)
	writeStoreFile(t, path, nil, sampleEntries())

	out, err := runApp(t, "--file", path, "--key-file", keyPath, "verify")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !strings.Contains(out, "plaintext, key file ignored") {
		t.Errorf("output missing plaintext notice:\n%s", out)
	}
}
