// Package command provides CLI command definitions for keva.
package command

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/nzoba/keva-go/internal/cli/output"
	"github.com/nzoba/keva-go/internal/storage/snapshot"
)

// KeygenCommand returns the keygen command.
func KeygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate an encryption key file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Where to write the key file",
			},
			&cli.StringFlag{
				Name:  "passphrase-env",
				Usage: "Derive the key from the passphrase in this environment variable",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing key file",
			},
		},
		Action: keygenRun,
	}
}

type keygenResult struct {
	Path        string `json:"path"`
	Bytes       int    `json:"bytes"`
	Derived     bool   `json:"derived"`
	Fingerprint string `json:"fingerprint"`
}

func keygenRun(c *cli.Context) error {
	out := c.String("out")
	if out == "" {
		return fmt.Errorf("key file path required (--out)")
	}

	if _, err := os.Stat(out); err == nil && !c.Bool("force") {
		return fmt.Errorf("refusing to overwrite existing key file %s (use --force)", out)
	}

	var material []byte
	var err error
	envName := c.String("passphrase-env")
	if envName != "" {
		passphrase := os.Getenv(envName)
		if passphrase == "" {
			return fmt.Errorf("environment variable %s is not set", envName)
		}
		material, err = snapshot.DeriveKeyFromPassphrase([]byte(passphrase), nil)
	} else {
		material, err = snapshot.GenerateKey(snapshot.KeyLength)
	}
	if err != nil {
		return err
	}
	defer snapshot.ZeroKey(material)

	if err := snapshot.WriteKeyFile(out, material); err != nil {
		return err
	}

	// A short digest identifies the key in logs and tickets without
	// exposing any key material.
	digest := sha256.Sum256(material)
	result := keygenResult{
		Path:        out,
		Bytes:       len(material),
		Derived:     envName != "",
		Fingerprint: hex.EncodeToString(digest[:8]),
	}

	if err := printDetail(c, result, [][2]string{
		{"Path", result.Path},
		{"Bytes", strconv.Itoa(result.Bytes)},
		{"Derived", strconv.FormatBool(result.Derived)},
		{"Fingerprint", result.Fingerprint},
	}); err != nil {
		return err
	}

	switch output.Format(c.String("output")) {
	case output.FormatJSON, output.FormatYAML:
	default:
		fmt.Fprintf(stdout(c), "\nAnyone holding this file can read the store. Keep it private.\n")
	}
	return nil
}
