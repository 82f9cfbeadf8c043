package command

import (
	"strings"
	"testing"
	"time"

	"github.com/nzoba/keva-go/internal/config"
	"github.com/nzoba/keva-go/internal/core/domain"
)

func TestApp(t *testing.T) {
	app := App()
	if app == nil {
		t.Fatal("App() returned nil")
	}

	if app.Name != "keva" {
		t.Errorf("Name = %q, want %q", app.Name, "keva")
	}
	if app.Usage == "" {
		t.Error("Usage should not be empty")
	}
	if app.Version == "" {
		t.Error("Version should not be empty")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}

	required := []string{"verify", "stats", "compact", "keygen", "watch"}
	for _, name := range required {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flagNames := make(map[string]bool)
	for _, f := range app.Flags {
		flagNames[f.Names()[0]] = true
	}

	required := []string{"config", "file", "key-file", "output"}
	for _, name := range required {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestLoadConfig_FileFlagOverridesDefault(t *testing.T) {
	c, _ := testContext(t)

	if err := loadConfig(c); err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	cfg := Configuration(c)
	if cfg.Store.Path != config.DefaultStorePath {
		t.Errorf("Store.Path = %q, want default %q", cfg.Store.Path, config.DefaultStorePath)
	}

	c, _ = testContext(t, "--file", "/tmp/elsewhere.db")
	if err := loadConfig(c); err != nil {
		t.Fatalf("loadConfig with --file failed: %v", err)
	}
	cfg = Configuration(c)
	if cfg.Store.Path != "/tmp/elsewhere.db" {
		t.Errorf("Store.Path = %q, want flag override", cfg.Store.Path)
	}
}

func TestLoadConfig_KeyFileFlagEnablesEncryption(t *testing.T) {
	c, _ := testContext(t, "--key-file", "/tmp/store.key")

	if err := loadConfig(c); err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	cfg := Configuration(c)
	if !cfg.Encryption.Enabled {
		t.Error("Encryption.Enabled = false, want true when --key-file is set")
	}
	if cfg.Encryption.KeyFile != "/tmp/store.key" {
		t.Errorf("Encryption.KeyFile = %q, want flag value", cfg.Encryption.KeyFile)
	}
}

func TestConfiguration_FallsBackToDefaults(t *testing.T) {
	c, _ := testContext(t)

	cfg := Configuration(c)
	if cfg == nil {
		t.Fatal("Configuration returned nil")
	}
	if cfg.Store.MaxKeyLength != domain.DefaultMaxKeyLength {
		t.Errorf("MaxKeyLength = %d, want %d", cfg.Store.MaxKeyLength, domain.DefaultMaxKeyLength)
	}
	if cfg.Store.CleanupInterval != time.Minute {
		t.Errorf("CleanupInterval = %v, want 1m", cfg.Store.CleanupInterval)
	}
}

func TestStoreCipher(t *testing.T) {
	t.Run("no encryption", func(t *testing.T) {
		cfg := config.Default()

		cipher, err := storeCipher(cfg)
		if err != nil {
			t.Fatalf("storeCipher failed: %v", err)
		}
		if cipher != nil {
			t.Error("cipher should be nil when encryption is not configured")
		}
	})

	t.Run("enabled without key file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Encryption.Enabled = true

		if _, err := storeCipher(cfg); err == nil {
			t.Error("storeCipher should fail when enabled without a key file")
		}
	})

	t.Run("key file", func(t *testing.T) {
		keyPath, _ := writeKeyFile(t, t.TempDir())
		cfg := config.Default()
		cfg.Encryption.KeyFile = keyPath

		cipher, err := storeCipher(cfg)
		if err != nil {
			t.Fatalf("storeCipher failed: %v", err)
		}
		if cipher == nil {
			t.Error("cipher should not be nil when a key file is configured")
		}
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestApp_UnknownCommand(t *testing.T) {
	_, err := runApp(t, "definitely-not-a-command")
	if err == nil {
		t.Error("running an unknown command should fail")
	}
}

func TestApp_Help(t *testing.T) {
	out, err := runApp(t, "--help")
	if err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	for _, want := range []string{"keva", "verify", "stats", "compact", "keygen", "watch"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}
