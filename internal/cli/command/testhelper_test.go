package command

import (
	"bytes"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nzoba/keva-go/internal/core/domain"
	"github.com/nzoba/keva-go/internal/storage/snapshot"
	"github.com/nzoba/keva-go/pkg/crypto/adaptive"
)

// runApp executes the CLI with the given arguments and returns whatever
// it wrote to its output writer.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := App()
	var buf bytes.Buffer
	app.Writer = &buf
	// Without a handler, cli calls HandleExitCoder on ExitCoder errors,
	// which os.Exits the test binary; a no-op makes Run return the error.
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"keva"}, args...))
	return buf.String(), err
}

// writeStoreFile creates a store file at path with the given entries.
func writeStoreFile(t *testing.T, path string, cipher adaptive.Cipher, entries map[string]*domain.Entry) *snapshot.Info {
	t.Helper()

	m, err := snapshot.NewManager(snapshot.Config{Path: path, Cipher: cipher})
	if err != nil {
		t.Fatalf("NewManager(%s) failed: %v", path, err)
	}
	info, err := m.Write(entries)
	if err != nil {
		t.Fatalf("Write(%s) failed: %v", path, err)
	}
	return info
}

// sampleEntries returns one permanent, one live, and one expired entry.
func sampleEntries() map[string]*domain.Entry {
	now := time.Now().UnixMilli()
	return map[string]*domain.Entry{
		"permanent": {Value: []byte("a")},
		"live":      {Value: []byte("b"), ExpiresAt: now + int64(time.Hour/time.Millisecond)},
		"expired":   {Value: []byte("c"), ExpiresAt: now - 1000},
	}
}

// writeKeyFile generates a random key file and returns its path together
// with the cipher it yields, matching what the commands derive from it.
func writeKeyFile(t *testing.T, dir string) (string, adaptive.Cipher) {
	t.Helper()

	material, err := snapshot.GenerateKey(snapshot.KeyLength)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	path := filepath.Join(dir, "store.key")
	if err := snapshot.WriteKeyFile(path, material); err != nil {
		t.Fatalf("WriteKeyFile failed: %v", err)
	}

	cipher, err := snapshot.CipherFromKeyFile(path, "")
	if err != nil {
		t.Fatalf("CipherFromKeyFile failed: %v", err)
	}
	return path, cipher
}

// testContext builds a context with parsed global flags for exercising
// helpers directly, outside a full app run.
func testContext(t *testing.T, args ...string) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	// app.Run would call Setup, which initializes Metadata; replicate
	// that here since the context is built outside a full app run.
	app := &cli.App{Name: "keva", Flags: globalFlags(), Writer: &buf, Metadata: map[string]any{}}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range app.Flags {
		if err := f.Apply(set); err != nil {
			t.Fatalf("apply flag: %v", err)
		}
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	return cli.NewContext(app, set, nil), &buf
}
