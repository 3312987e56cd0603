package binary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// executablePath locates the running program; replaced in tests.
var executablePath = os.Executable

// Installer downloads, extracts, removes and runs one tool binary.
// It is immutable after construction.
type Installer struct {
	sourceURL  string
	name       string
	installDir string
	logger     Logger
	progress   ProgressFunc
	downloader *Downloader
	extractor  *Extractor
}

// New validates the configuration and creates an Installer.
// All problems are reported together in a *ConfigError.
func New(sourceURL string, opts Options) (*Installer, error) {
	var problems []string

	if err := validateSourceURL(sourceURL); err != nil {
		problems = append(problems, err.Error())
	}

	if opts.Name == "" && opts.InstallDir == "" {
		problems = append(problems, "you must specify either name or install directory")
	}

	if opts.Name != "" && !validName(opts.Name) {
		problems = append(problems, fmt.Sprintf("invalid binary name %q: must be a plain file name", opts.Name))
	}

	if len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}

	installDir := opts.InstallDir
	if installDir == "" {
		dir, err := defaultInstallDir()
		if err != nil {
			return nil, &ConfigError{Problems: []string{err.Error()}}
		}
		installDir = dir
	}

	installDir, err := filepath.Abs(installDir)
	if err != nil {
		return nil, &ConfigError{Problems: []string{fmt.Sprintf("resolve install directory: %v", err)}}
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Installer{
		sourceURL:  sourceURL,
		name:       opts.Name,
		installDir: installDir,
		logger:     logger,
		progress:   opts.Progress,
		downloader: NewDownloader(opts.HTTPClient),
		extractor:  NewExtractor(),
	}, nil
}

// validateSourceURL accepts absolute http(s) URLs only.
func validateSourceURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("invalid URL: empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid URL %q: must be absolute", raw)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: unsupported scheme %q", raw, u.Scheme)
	}

	return nil
}

func validName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// defaultInstallDir returns a "bin" directory beside the running executable.
func defaultInstallDir() (string, error) {
	exe, err := executablePath()
	if err != nil {
		return "", fmt.Errorf("locate executable for default install directory: %w", err)
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Join(filepath.Dir(exe), BinDirName), nil
}

// SourceURL returns the archive URL.
func (i *Installer) SourceURL() string {
	return i.sourceURL
}

// Name returns the configured binary name, which may be empty.
func (i *Installer) Name() string {
	return i.name
}

// InstallDir returns the absolute install directory.
func (i *Installer) InstallDir() string {
	return i.installDir
}

// BinaryDir returns the directory the archive is extracted into.
func (i *Installer) BinaryDir() string {
	return filepath.Join(i.installDir, BinDirName)
}

func (i *Installer) displayName() string {
	if i.name != "" {
		return i.name
	}
	return "this package"
}

// EnsureInstallDir creates the install directory if it does not exist.
func (i *Installer) EnsureInstallDir() (string, error) {
	if err := os.MkdirAll(i.installDir, 0755); err != nil {
		return "", fmt.Errorf("create install dir: %w", err)
	}
	return i.installDir, nil
}

// Resolve locates an existing install. It does not touch the filesystem
// beyond stat calls.
func (i *Installer) Resolve() (Resolved, error) {
	binaryDir := i.BinaryDir()

	info, err := os.Stat(binaryDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Resolved{}, fmt.Errorf("%s: %w", i.displayName(), ErrNotInstalled)
		}
		return Resolved{}, fmt.Errorf("stat binary dir: %w", err)
	}

	if !info.IsDir() {
		return Resolved{}, fmt.Errorf("%s: %w", i.displayName(), ErrNotInstalled)
	}

	if i.name == "" {
		return Resolved{}, ErrNoBinaryName
	}

	binaryPath := filepath.Join(binaryDir, i.name)
	if runtime.GOOS == "windows" && filepath.Ext(binaryPath) == "" {
		if _, err := os.Stat(binaryPath + ".exe"); err == nil {
			binaryPath += ".exe"
		}
	}

	return Resolved{
		InstallDir: i.installDir,
		BinaryDir:  binaryDir,
		BinaryPath: binaryPath,
	}, nil
}

// Install downloads the archive and extracts it into a freshly emptied
// binary directory. A failed install leaves no binary directory behind.
func (i *Installer) Install(ctx context.Context) (*Receipt, error) {
	installDir, err := i.EnsureInstallDir()
	if err != nil {
		return nil, err
	}

	lock, err := AcquireLock(installDir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	binaryDir := i.BinaryDir()

	if err := os.Remove(filepath.Join(installDir, ReceiptFileName)); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove old receipt: %w", err)
	}

	if err := os.RemoveAll(binaryDir); err != nil {
		return nil, fmt.Errorf("remove old binary dir: %w", err)
	}

	if err := os.MkdirAll(binaryDir, 0755); err != nil {
		return nil, fmt.Errorf("create binary dir: %w", err)
	}

	i.logger.Debug("downloading archive", "url", redactURL(i.sourceURL), "dest", binaryDir)

	entries, err := i.fetch(ctx, binaryDir)
	if err != nil {
		i.discard(binaryDir, err)
		return nil, fmt.Errorf("fetch release: %w", err)
	}

	receipt := newReceipt(i.sourceURL, i.name, entries)
	if err := writeReceipt(installDir, receipt); err != nil {
		i.discard(binaryDir, err)
		return nil, err
	}

	i.logger.Info("installed", "name", i.name, "dir", binaryDir, "entries", entries)

	return receipt, nil
}

// discard removes a half-finished binary directory after cause aborted the
// install.
func (i *Installer) discard(binaryDir string, cause error) {
	i.logger.Error("install failed", "name", i.name, "error", cause)
	if err := os.RemoveAll(binaryDir); err != nil {
		i.logger.Error("cleanup failed", "dir", binaryDir, "error", err)
	}
}

func (i *Installer) fetch(ctx context.Context, binaryDir string) (int, error) {
	body, _, err := i.downloader.Open(ctx, i.sourceURL, i.progress)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	return i.extractor.ExtractTar(body, binaryDir, StripComponents)
}

// Uninstall removes the install directory. It reports whether anything was
// removed; a missing directory is not an error.
func (i *Installer) Uninstall() (bool, error) {
	if _, err := os.Stat(i.installDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			i.logger.Debug("nothing to uninstall", "dir", i.installDir)
			return false, nil
		}
		return false, fmt.Errorf("stat install dir: %w", err)
	}

	// Taking the lock only checks that no install is mid-flight; the lock
	// file itself goes away with the directory.
	lock, err := AcquireLock(i.installDir)
	if err != nil {
		return false, err
	}
	lock.Release()

	if err := os.RemoveAll(i.installDir); err != nil {
		return false, fmt.Errorf("remove install dir: %w", err)
	}

	i.logger.Info("uninstalled", "name", i.name, "dir", i.installDir)

	return true, nil
}

// Receipt returns the receipt of the current install.
func (i *Installer) Receipt() (*Receipt, error) {
	return ReadReceipt(i.installDir)
}

// Run executes the installed binary with args and returns its exit code.
// Nothing is spawned when the binary is not installed.
func (i *Installer) Run(ctx context.Context, args []string, stdio Stdio) (int, error) {
	resolved, err := i.Resolve()
	if err != nil {
		return 1, err
	}

	i.logger.Debug("running binary", "path", resolved.BinaryPath, "args", len(args))

	return Exec(ctx, resolved.BinaryPath, args, stdio)
}
