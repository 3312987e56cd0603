// Package binary installs a prebuilt tool binary from a tarball URL and
// forwards invocations to it.
//
// # Lifecycle
//
// The on-disk install is the only persistent state:
//
//	<installDir>/
//	  bin/<name>      extracted archive contents
//	  .binwrap.json   install receipt
//
// Install wipes and recreates bin/ on every call, so a reinstall never leaves
// stale files from a previous version behind. Run requires a prior Install and
// returns ErrNotInstalled otherwise. Uninstall removes the whole install
// directory and tolerates a directory that was never created.
//
// # Usage
//
//	inst, err := binary.New("https://example.com/tool-v1.tar.gz", binary.Options{
//	    Name: "tool",
//	})
//	if err != nil {
//	    return err
//	}
//
//	if _, err := inst.Install(ctx); err != nil {
//	    return err
//	}
//
//	code, err := inst.Run(ctx, os.Args[1:], binary.OSStdio())
//
// # Errors
//
// Nothing in this package terminates the process. Configuration problems are
// collected into a single *ConfigError, spawn failures are *SpawnError, and a
// missing install is reported as ErrNotInstalled. Mapping these to exit codes
// is left to the caller.
//
// # Architecture
//
//   - Installer: validation, path resolution and the install/uninstall/run lifecycle
//   - Downloader: streaming HTTP GET with progress reporting
//   - Extractor: streaming tar extraction with compression sniffing and path stripping
//   - Lock: install.lock guarding the install directory across processes
//   - Receipt: metadata about the last successful install
package binary
