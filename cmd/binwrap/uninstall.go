package main

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/binary"
)

func runUninstall(args []string, stdio binary.Stdio) error {
	flags, err := parseCommonFlags("uninstall", args, stdio.Stderr)
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

	removed, err := inst.Uninstall()
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(stdio.Stdout, "Uninstalled %s\n", inst.InstallDir())
	}
	return nil
}
