// Package testutil provides fixtures for testing binwrap in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// SetupTestEnv moves the test into a fresh working directory and clears
// every environment variable binwrap reads, so a manifest on the developer's
// machine can never leak into a test. It returns the working directory.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("BINWRAP_CONFIG", "")
	t.Setenv("BINWRAP_DEBUG", "")

	home := filepath.Join(dir, "home")
	if err := os.MkdirAll(home, 0o750); err != nil {
		t.Fatalf("failed to create test home %s: %v", home, err)
	}
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	return dir
}

// FakeBinary writes an executable shell script into dir and returns its
// path. The test is skipped on Windows.
func FakeBinary(t *testing.T, dir, name, script string) string {
	t.Helper()

	RequireShell(t)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(ShellScript(script)), 0o755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}
	return path
}

// ShellScript prefixes body with a /bin/sh shebang.
func ShellScript(body string) string {
	return "#!/bin/sh\n" + body
}

// RequireShell skips tests that execute shell scripts on Windows.
func RequireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script binaries are not supported on windows")
	}
}
