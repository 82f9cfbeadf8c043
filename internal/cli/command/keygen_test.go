package command

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nzoba/keva-go/internal/storage/snapshot"
)

func TestKeygenCommand_GeneratesKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.key")

	out, err := runApp(t, "keygen", "--out", path)
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	if !strings.Contains(out, "Fingerprint") {
		t.Errorf("output missing fingerprint:\n%s", out)
	}

	key, err := snapshot.LoadKeyFile(path)
	if err != nil {
		t.Fatalf("LoadKeyFile failed: %v", err)
	}
	if len(key) != snapshot.KeyLength {
		t.Errorf("key length = %d, want %d", len(key), snapshot.KeyLength)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("key file mode = %o, want 0600", perm)
	}
}

func TestKeygenCommand_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.key")

	if _, err := runApp(t, "keygen", "--out", path); err != nil {
		t.Fatalf("first keygen failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	_, err = runApp(t, "keygen", "--out", path)
	if err == nil || !strings.Contains(err.Error(), "refusing to overwrite") {
		t.Fatalf("second keygen = %v, want overwrite refusal", err)
	}

	if _, err := runApp(t, "keygen", "--out", path, "--force"); err != nil {
		t.Fatalf("keygen --force failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Error("forced keygen left the old key in place")
	}
}

func TestKeygenCommand_Passphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.key")
	t.Setenv("KEVA_TEST_PASSPHRASE", "correct horse battery staple")

	out, err := runApp(t, "keygen", "--out", path, "--passphrase-env", "KEVA_TEST_PASSPHRASE")
	if err != nil {
		t.Fatalf("keygen with passphrase failed: %v", err)
	}
	if !strings.Contains(out, "true") {
		t.Errorf("output missing derived marker:\n%s", out)
	}

	// The file keeps the salt, so the same passphrase reproduces the key.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	material, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		t.Fatalf("decode key file: %v", err)
	}
	if len(material) != snapshot.SaltLength+snapshot.KeyLength {
		t.Fatalf("key file holds %d bytes, want %d", len(material), snapshot.SaltLength+snapshot.KeyLength)
	}

	salt, key, err := snapshot.ExtractKeyFromDerived(material)
	if err != nil {
		t.Fatalf("ExtractKeyFromDerived failed: %v", err)
	}
	again, err := snapshot.DeriveKeyFromPassphrase([]byte("correct horse battery staple"), salt)
	if err != nil {
		t.Fatalf("DeriveKeyFromPassphrase failed: %v", err)
	}
	if _, againKey, _ := snapshot.ExtractKeyFromDerived(again); !bytes.Equal(key, againKey) {
		t.Error("same passphrase and salt derived a different key")
	}
}

func TestKeygenCommand_PassphraseEnvUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.key")

	_, err := runApp(t, "keygen", "--out", path, "--passphrase-env", "KEVA_TEST_UNSET_VAR")
	if err == nil || !strings.Contains(err.Error(), "not set") {
		t.Errorf("keygen with unset env = %v, want not-set error", err)
	}
}

func TestKeygenCommand_MissingOut(t *testing.T) {
	_, err := runApp(t, "keygen")
	if err == nil || !strings.Contains(err.Error(), "--out") {
		t.Errorf("keygen without --out = %v, want usage error", err)
	}
}

func TestKeygenCommand_KeyEncryptsStore(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "store.key")
	storePath := filepath.Join(dir, "keva.db")

	if _, err := runApp(t, "keygen", "--out", keyPath); err != nil {
		t.Fatalf("keygen failed: %v", err)
	}

	cipher, err := snapshot.CipherFromKeyFile(keyPath, "")
	if err != nil {
		t.Fatalf("CipherFromKeyFile failed: %v", err)
	}
	writeStoreFile(t, storePath, cipher, sampleEntries())

	out, err := runApp(t, "--file", storePath, "--key-file", keyPath, "verify")
	if err != nil {
		t.Fatalf("verify with generated key failed: %v", err)
	}
	if !strings.Contains(out, "verified") {
		t.Errorf("output missing verification marker:\n%s", out)
	}
}
