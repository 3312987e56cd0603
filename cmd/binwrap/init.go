package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/binary"
	"github.com/ZebulonRouseFrantzich/binwrap/internal/manifest"
)

// runInit writes a manifest from the given flags. --config names the file
// to write; it defaults to ./binwrap.lua and is never overwritten.
func runInit(args []string, stdio binary.Stdio) error {
	flags, err := parseCommonFlags("init", args, stdio.Stderr)
	if err != nil {
		return err
	}

	path := flags.config
	if path == "" {
		path = manifest.FileName
	}

	m := manifest.Manifest{
		Name:       flags.name,
		Version:    flags.version,
		URL:        flags.url,
		InstallDir: flags.installDir,
	}
	if err := m.Validate(); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists", path)
		}
		return fmt.Errorf("create manifest: %w", err)
	}

	if _, err := f.WriteString(manifest.Generate(m)); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	abs, _ := filepath.Abs(path)
	fmt.Fprintf(stdio.Stdout, "Wrote %s\n", abs)
	return nil
}
