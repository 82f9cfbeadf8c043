// Package command provides CLI command definitions for keva.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/urfave/cli/v2"

	"github.com/nzoba/keva-go/internal/config"
	"github.com/nzoba/keva-go/internal/core/domain"
	"github.com/nzoba/keva-go/internal/storage/snapshot"
)

// CompactCommand returns the compact command.
func CompactCommand() *cli.Command {
	return &cli.Command{
		Name:  "compact",
		Usage: "Rewrite the store file, dropping expired entries",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would be dropped without writing",
			},
			&cli.StringFlag{
				Name:  "encrypt-key-file",
				Usage: "Encrypt the rewritten file with this key file",
			},
			&cli.BoolFlag{
				Name:  "plaintext",
				Usage: "Write the rewritten file without encryption",
			},
		},
		Action: compactRun,
	}
}

type compactResult struct {
	Path       string `json:"path"`
	Before     int    `json:"before"`
	After      int    `json:"after"`
	Dropped    int    `json:"dropped"`
	SizeBefore int64  `json:"size_before"`
	SizeAfter  int64  `json:"size_after,omitempty"`
	Encrypted  bool   `json:"encrypted"`
	DryRun     bool   `json:"dry_run,omitempty"`
}

func compactRun(c *cli.Context) error {
	if c.Bool("plaintext") && c.IsSet("encrypt-key-file") {
		return fmt.Errorf("--plaintext and --encrypt-key-file are mutually exclusive")
	}

	cfg := Configuration(c)
	if err := config.Verify(cfg); err != nil {
		return err
	}

	// Compacting rewrites the file, so it takes the same lock a live
	// process holds while the store is open.
	flk := flock.New(cfg.Store.Path + ".lock")
	locked, err := flk.TryLock()
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("store file %s is in use by another process", cfg.Store.Path)
	}
	defer flk.Unlock()

	readCipher, err := storeCipher(cfg)
	if err != nil {
		return err
	}

	reader, err := snapshot.NewManager(snapshot.Config{Path: cfg.Store.Path, Cipher: readCipher})
	if err != nil {
		return err
	}

	entries, info, err := reader.Load()
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		return fmt.Errorf("no store file at %s", cfg.Store.Path)
	case errors.Is(err, snapshot.ErrEncrypted):
		return fmt.Errorf("store file %s is encrypted, pass --key-file", cfg.Store.Path)
	case err != nil:
		return fmt.Errorf("read %s: %w", cfg.Store.Path, err)
	}

	now := time.Now().UnixMilli()
	kept := make(map[string]*domain.Entry, len(entries))
	for key, e := range entries {
		if e.IsExpiredAt(now) {
			continue
		}
		kept[key] = e
	}

	writeCipher := readCipher
	switch {
	case c.IsSet("encrypt-key-file"):
		writeCipher, err = snapshot.CipherFromKeyFile(c.String("encrypt-key-file"), cfg.Encryption.Algorithm)
		if err != nil {
			return err
		}
	case c.Bool("plaintext"):
		writeCipher = nil
	}

	result := compactResult{
		Path:       cfg.Store.Path,
		Before:     len(entries),
		After:      len(kept),
		Dropped:    len(entries) - len(kept),
		SizeBefore: info.Size,
		Encrypted:  writeCipher != nil,
		DryRun:     c.Bool("dry-run"),
	}

	if !result.DryRun {
		writer, err := snapshot.NewManager(snapshot.Config{Path: cfg.Store.Path, Cipher: writeCipher})
		if err != nil {
			return err
		}
		newInfo, err := writer.Write(kept)
		if err != nil {
			return fmt.Errorf("rewrite %s: %w", cfg.Store.Path, err)
		}
		result.SizeAfter = newInfo.Size
	}

	rows := [][2]string{
		{"Path", result.Path},
		{"Entries before", strconv.Itoa(result.Before)},
		{"Entries after", strconv.Itoa(result.After)},
		{"Dropped", strconv.Itoa(result.Dropped)},
		{"Size before", formatBytes(result.SizeBefore)},
	}
	if result.DryRun {
		rows = append(rows, [2]string{"Dry run", "yes, nothing written"})
	} else {
		rows = append(rows, [2]string{"Size after", formatBytes(result.SizeAfter)})
	}
	rows = append(rows, [2]string{"Encrypted", strconv.FormatBool(result.Encrypted)})

	return printDetail(c, result, rows)
}
