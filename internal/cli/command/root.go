// Package command provides CLI command definitions for keva.
//
// It uses urfave/cli/v2 for command parsing. Every command operates on
// the store file directly; none of them require a running process.
package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nzoba/keva-go/internal/cli/output"
	"github.com/nzoba/keva-go/internal/config"
	"github.com/nzoba/keva-go/internal/infra/buildinfo"
	"github.com/nzoba/keva-go/internal/infra/confloader"
	"github.com/nzoba/keva-go/internal/storage/snapshot"
	"github.com/nzoba/keva-go/pkg/crypto/adaptive"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "keva",
		Usage:   "Maintenance tool for keva store files",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			VerifyCommand(),
			StatsCommand(),
			CompactCommand(),
			KeygenCommand(),
			WatchCommand(),
		},
		Before: loadConfig,
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a keva.yaml configuration file",
			EnvVars: []string{"KEVA_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Store file path (overrides configuration)",
		},
		&cli.StringFlag{
			Name:    "key-file",
			Aliases: []string{"k"},
			Usage:   "Encryption key file (overrides configuration)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}

// loadConfig resolves the effective configuration before any command
// action runs. Sources, weakest first: built-in defaults, the YAML
// file named by --config, KEVA_* environment variables, flags.
func loadConfig(c *cli.Context) error {
	cfg := config.Default()

	loader := confloader.NewLoader(confloader.WithConfigFile(c.String("config")))
	if err := loader.Load(cfg); err != nil {
		return err
	}

	overrides := map[string]any{}
	if c.IsSet("file") {
		overrides["store.path"] = c.String("file")
	}
	if c.IsSet("key-file") {
		overrides["encryption.key_file"] = c.String("key-file")
		overrides["encryption.enabled"] = true
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return err
		}
	}

	c.App.Metadata["config"] = cfg
	return nil
}

// Configuration retrieves the configuration loaded by the Before hook.
func Configuration(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata["config"].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// storeCipher builds the cipher for the configured store file. It
// returns nil when encryption is not configured.
func storeCipher(cfg *config.Config) (adaptive.Cipher, error) {
	if cfg.Encryption.KeyFile == "" {
		if cfg.Encryption.Enabled {
			return nil, fmt.Errorf("encryption enabled but no key file configured")
		}
		return nil, nil
	}
	return snapshot.CipherFromKeyFile(cfg.Encryption.KeyFile, cfg.Encryption.Algorithm)
}

// stdout returns the writer command output goes to. Tests swap it by
// setting App.Writer.
func stdout(c *cli.Context) io.Writer {
	if c.App != nil && c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// printDetail renders one record in the selected output format. The
// table format shows the given FIELD/VALUE rows, structured formats
// serialize data directly.
func printDetail(c *cli.Context, data any, rows [][2]string) error {
	format := output.Format(c.String("output"))
	switch format {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(format)
		return formatter.Format(stdout(c), data)
	default:
		table := &output.Table{}
		table.SetHeaders("FIELD", "VALUE")
		for _, row := range rows {
			table.AddRow(row[0], row[1])
		}
		return table.Render(stdout(c))
	}
}

// formatBytes renders a byte count for table output.
func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
	case n >= 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
