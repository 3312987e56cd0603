package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/binary"
)

func runStatus(args []string, stdio binary.Stdio) error {
	flags, err := parseCommonFlags("status", args, stdio.Stderr)
	if err != nil {
		return err
	}

	logger := newLogger(stdio.Stderr, flags.verbose, flags.quiet)
	defer logger.Sync()

	s, err := loadSettings(context.Background(), flags, "", logger)
	if err != nil {
		return err
	}

	inst, err := newInstaller(s, logger, nil)
	if err != nil {
		return err
	}

	resolved, err := inst.Resolve()
	if err != nil && !errors.Is(err, binary.ErrNoBinaryName) {
		return err
	}

	out := stdio.Stdout
	fmt.Fprintf(out, "Platform:    %s/%s (%s)\n", s.platform.OS, s.platform.Arch, s.platform.Triple())
	fmt.Fprintf(out, "Install dir: %s\n", inst.InstallDir())
	if resolved.BinaryPath != "" {
		fmt.Fprintf(out, "Binary:      %s\n", resolved.BinaryPath)
	}

	receipt, err := inst.Receipt()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(out, "Receipt:     none (installed by another tool or interrupted)")
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "Source:      %s\n", receipt.URL)
	fmt.Fprintf(out, "Installed:   %s\n", receipt.InstalledAt.Local().Format(time.RFC1123))
	fmt.Fprintf(out, "Entries:     %d\n", receipt.Entries)
	fmt.Fprintf(out, "Install ID:  %s\n", receipt.ID)
	return nil
}
