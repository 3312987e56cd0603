package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// FileName is the manifest file name searched by Locate.
	FileName = "binwrap.lua"

	// EnvConfig names the environment variable holding a manifest path.
	EnvConfig = "BINWRAP_CONFIG"

	// MaxManifestSize bounds the manifest source read by ParseFile.
	MaxManifestSize = 1 << 20

	// ParseTimeout bounds how long manifest code may run.
	ParseTimeout = 5 * time.Second

	maxFieldLength = 4096
)

// Lua schema names.
const (
	luaGlobal          = "binwrap"
	luaFieldName       = "name"
	luaFieldVersion    = "version"
	luaFieldURL        = "url"
	luaFieldInstallDir = "install_dir"
)

// Manifest is the decoded binwrap table. Empty fields were not set.
type Manifest struct {
	Name       string `json:"name,omitempty"`
	Version    string `json:"version,omitempty"`
	URL        string `json:"url,omitempty"`
	InstallDir string `json:"install_dir,omitempty"`

	// Path is the file the manifest was read from; empty for ParseString.
	Path string `json:"-"`
}

// Merge returns m with every non-empty field of override applied on top.
func (m Manifest) Merge(override Manifest) Manifest {
	if override.Name != "" {
		m.Name = override.Name
	}
	if override.Version != "" {
		m.Version = override.Version
	}
	if override.URL != "" {
		m.URL = override.URL
	}
	if override.InstallDir != "" {
		m.InstallDir = override.InstallDir
	}
	return m
}

// Validate checks field sizes and that name is a bare file name.
func (m *Manifest) Validate() error {
	fields := []struct{ name, value string }{
		{luaFieldName, m.Name},
		{luaFieldVersion, m.Version},
		{luaFieldURL, m.URL},
		{luaFieldInstallDir, m.InstallDir},
	}
	for _, f := range fields {
		if len(f.value) > maxFieldLength {
			return &ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("too long (%d chars, max %d)", len(f.value), maxFieldLength),
			}
		}
	}

	if m.Name != "" && (strings.ContainsAny(m.Name, `/\`) || m.Name == "." || m.Name == "..") {
		return &ValidationError{Field: luaFieldName, Message: fmt.Sprintf("must be a file name, got %q", m.Name)}
	}

	return nil
}

// ValidationError reports an invalid manifest field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "manifest field " + e.Field + ": " + e.Message
	}
	return "invalid manifest: " + e.Message
}

// resolveDir expands a leading ~ and anchors relative paths at base.
func resolveDir(dir, base string) (string, error) {
	if dir == "" {
		return "", nil
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
	}
	if filepath.IsAbs(dir) || base == "" {
		return filepath.Clean(dir), nil
	}
	return filepath.Join(base, dir), nil
}
