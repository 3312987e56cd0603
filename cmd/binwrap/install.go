package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/binary"
)

func runInstall(args []string, stdio binary.Stdio) error {
	flags, err := parseCommonFlags("install", args, stdio.Stderr)
	if err != nil {
		return err
	}

	logger := newLogger(stdio.Stderr, flags.verbose, flags.quiet)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := loadSettings(ctx, flags, "", logger)
	if err != nil {
		return err
	}

	inst, err := newInstaller(s, logger, newProgress(stdio.Stderr, flags.quiet))
	if err != nil {
		return err
	}

	if _, err := inst.Install(ctx); err != nil {
		return fmt.Errorf("install failed: %w", err)
	}

	name := inst.Name()
	if name == "" {
		name = inst.BinaryDir()
	}
	fmt.Fprintf(stdio.Stdout, "%s has been installed!\n", name)
	return nil
}
