package binary

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	// BinDirName is the directory inside the install directory that holds
	// the extracted archive.
	BinDirName = "bin"
	// StripComponents is the number of leading path segments removed from
	// every archive entry.
	StripComponents = 1
)

var (
	// ErrNotInstalled is returned when the binary directory does not exist.
	ErrNotInstalled = errors.New("not installed")
	// ErrNoBinaryName is returned when a binary path is requested but the
	// installer was configured with an install directory only.
	ErrNoBinaryName = errors.New("no binary name configured")
)

// ProgressFunc is called during download with bytes received and total bytes.
// Total is -1 if the server doesn't send Content-Length.
type ProgressFunc func(received, total int64)

// Options configures an Installer.
type Options struct {
	// Name is the executable's file name inside the binary directory.
	Name string
	// InstallDir is the root directory the installer manages.
	// Defaults to a "bin" directory beside the running executable.
	InstallDir string
	// Logger receives structured log events. Defaults to a no-op logger.
	Logger Logger
	// HTTPClient overrides the client used for downloads.
	HTTPClient *http.Client
	// Progress is called while the archive streams in.
	Progress ProgressFunc
}

// Resolved holds the paths of an existing install.
type Resolved struct {
	InstallDir string
	BinaryDir  string
	BinaryPath string
}

// Stdio holds the streams handed to the child process.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSStdio returns the current process's standard streams.
func OSStdio() Stdio {
	return Stdio{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// ConfigError collects every problem found while validating Options.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid installer configuration:")
	for _, p := range e.Problems {
		b.WriteString("\n  ")
		b.WriteString(p)
	}
	return b.String()
}

// SpawnError reports that the child process could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
