package main

import (
	"context"
	"os"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/binary"
)

// envDebug enables debug logging for run, which takes no flags of its own.
const envDebug = "BINWRAP_DEBUG"

// runRun forwards args verbatim to the installed binary and returns its
// exit status. Settings come from the manifest and defaults only, so no
// argument is ever taken as a flag. defaultName names the binary when the
// manifest does not.
func runRun(defaultName string, args []string, stdio binary.Stdio) int {
	logger := newLogger(stdio.Stderr, os.Getenv(envDebug) != "", false)
	defer logger.Sync()

	ctx := context.Background()

	s, err := loadSettings(ctx, &commonFlags{}, defaultName, logger)
	if err != nil {
		return report(stdio.Stderr, err)
	}

	inst, err := newInstaller(s, logger, nil)
	if err != nil {
		return report(stdio.Stderr, err)
	}

	code, err := inst.Run(ctx, args, stdio)
	if err != nil {
		return report(stdio.Stderr, err)
	}
	return code
}
