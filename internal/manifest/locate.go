package manifest

import (
	"fmt"
	"os"
	"path/filepath"
)

var executablePath = os.Executable

// Locate returns the manifest to load, or "" when there is none. An
// explicit path or $BINWRAP_CONFIG must exist; the implicit locations
// (./binwrap.lua, then binwrap.lua beside the executable) are optional.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		return requireFile(explicit)
	}
	if env := os.Getenv(EnvConfig); env != "" {
		path, err := requireFile(env)
		if err != nil {
			return "", fmt.Errorf("%s: %w", EnvConfig, err)
		}
		return path, nil
	}

	candidates := []string{FileName}
	if exe, err := executablePath(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), FileName))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return filepath.Abs(c)
		}
	}
	return "", nil
}

func requireFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("manifest not found: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("manifest %s is a directory", path)
	}
	return filepath.Abs(path)
}
