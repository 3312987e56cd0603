package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/binary"
	"github.com/ZebulonRouseFrantzich/binwrap/internal/manifest"
	"github.com/spf13/pflag"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

const programName = "binwrap"

func main() {
	os.Exit(execute(os.Args, binary.OSStdio()))
}

// execute runs one invocation and returns the process exit status.
func execute(argv []string, stdio binary.Stdio) int {
	// Invoked through a symlink or copy named after the wrapped tool:
	// behave as `binwrap run` with every argument forwarded.
	if shim := invokedAs(argv); shim != "" && shim != programName {
		return runRun(shim, argv[1:], stdio)
	}

	if len(argv) < 2 {
		printUsage(stdio.Stdout)
		return 0
	}

	args := argv[2:]
	switch argv[1] {
	case "--version":
		fmt.Fprintf(stdio.Stdout, "binwrap %s\n", Version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdio.Stdout)
		return 0
	case "install":
		return report(stdio.Stderr, runInstall(args, stdio))
	case "uninstall":
		return report(stdio.Stderr, runUninstall(args, stdio))
	case "status":
		return report(stdio.Stderr, runStatus(args, stdio))
	case "init":
		return report(stdio.Stderr, runInit(args, stdio))
	case "run":
		return runRun("", args, stdio)
	default:
		fmt.Fprintf(stdio.Stderr, "Error: unknown command: %s\n", argv[1])
		fmt.Fprintf(stdio.Stderr, "Run '%s help' for usage.\n", programName)
		return 1
	}
}

// invokedAs returns argv[0]'s base name without a Windows .exe suffix.
func invokedAs(argv []string) string {
	if len(argv) == 0 || argv[0] == "" {
		return ""
	}
	name := filepath.Base(argv[0])
	if strings.EqualFold(filepath.Ext(name), ".exe") {
		name = name[:len(name)-len(".exe")]
	}
	return name
}

// report prints err and maps it to an exit status.
func report(stderr io.Writer, err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return 0
	}

	fmt.Fprintf(stderr, "Error: %s\n", manifest.FormatError(err, false))

	switch {
	case errors.Is(err, binary.ErrNotInstalled):
		fmt.Fprintf(stderr, "Run '%s install' first.\n", programName)
	case errors.Is(err, binary.ErrLockExists):
		fmt.Fprintln(stderr, "Another install is in progress. If it crashed, remove the lock file and retry.")
	}
	return 1
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "binwrap - install and run a prebuilt release binary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  binwrap install [options]    Download and extract the release")
	fmt.Fprintln(w, "  binwrap uninstall [options]  Remove the install directory")
	fmt.Fprintln(w, "  binwrap status [options]     Show the current install")
	fmt.Fprintln(w, "  binwrap init [options]       Write a binwrap.lua manifest")
	fmt.Fprintln(w, "  binwrap run [args...]        Run the installed binary with args")
	fmt.Fprintln(w, "  binwrap --version            Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, newFlagSet("binwrap", &commonFlags{}).FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings come from flags, then binwrap.lua, then defaults. The manifest")
	fmt.Fprintf(w, "is read from --config, $%s, ./%s or beside the executable.\n", manifest.EnvConfig, manifest.FileName)
	fmt.Fprintln(w, "When started under another name (e.g. a symlink called 'tool'), binwrap")
	fmt.Fprintln(w, "behaves as 'binwrap run' for a binary of that name.")
}
