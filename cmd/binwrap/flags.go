package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/binary"
	"github.com/ZebulonRouseFrantzich/binwrap/internal/manifest"
	"github.com/ZebulonRouseFrantzich/binwrap/internal/platform"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// commonFlags holds the options shared by install, uninstall, status and init.
type commonFlags struct {
	config     string
	url        string
	name       string
	installDir string
	version    string
	verbose    bool
	quiet      bool
}

func newFlagSet(cmd string, f *commonFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "path to binwrap.lua")
	fs.StringVar(&f.url, "url", "", "release archive URL (may use {{placeholders}})")
	fs.StringVar(&f.name, "name", "", "executable name inside the archive")
	fs.StringVar(&f.installDir, "install-dir", "", "directory to install into (default: bin beside binwrap)")
	fs.StringVar(&f.version, "version", "", "release version for {{version}}")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only log errors")
	return fs
}

// parseCommonFlags parses args for cmd. Positional arguments are rejected.
func parseCommonFlags(cmd string, args []string, stderr io.Writer) (*commonFlags, error) {
	f := &commonFlags{}
	fs := newFlagSet(cmd, f)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s %s [options]\n\nOptions:\n%s", programName, cmd, fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%s takes no arguments, got %q", cmd, fs.Args())
	}
	if f.verbose && f.quiet {
		return nil, fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	return f, nil
}

// settings is the merged configuration for one invocation.
type settings struct {
	manifest manifest.Manifest
	url      string // manifest URL with placeholders expanded
	platform *platform.Info
}

// loadSettings merges flags over the manifest over defaults. defaultName
// is used when neither flags nor the manifest name the binary.
func loadSettings(ctx context.Context, f *commonFlags, defaultName string, logger *zap.SugaredLogger) (*settings, error) {
	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debugw("platform detected", "os", info.OS, "arch", info.Arch, "distro", info.Platform)

	path, err := manifest.Locate(f.config)
	if err != nil {
		return nil, err
	}

	m := manifest.Manifest{Name: defaultName}
	if path != "" {
		parser := manifest.NewParser(platform.StaticDetector{Info: info}, zapLogger{logger})
		parsed, err := parser.ParseFile(ctx, path)
		if err != nil {
			return nil, err
		}
		m = m.Merge(*parsed)
	} else {
		logger.Debugw("no manifest found")
	}

	m = m.Merge(manifest.Manifest{
		Name:       f.name,
		Version:    f.version,
		URL:        f.url,
		InstallDir: f.installDir,
	})

	url, err := m.ReleaseURL(info)
	if err != nil {
		return nil, err
	}

	return &settings{manifest: m, url: url, platform: info}, nil
}

// newInstaller builds the installer described by s.
func newInstaller(s *settings, logger *zap.SugaredLogger, progress binary.ProgressFunc) (*binary.Installer, error) {
	return binary.New(s.url, binary.Options{
		Name:       s.manifest.Name,
		InstallDir: s.manifest.InstallDir,
		Logger:     zapLogger{logger},
		Progress:   progress,
	})
}
