package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(`binwrap = {}`), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func stubExecutable(t *testing.T, path string) {
	t.Helper()
	orig := executablePath
	executablePath = func() (string, error) { return path, nil }
	t.Cleanup(func() { executablePath = orig })
}

func TestLocate(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		path := writeManifest(t, t.TempDir())
		got, err := Locate(path)
		if err != nil || got != path {
			t.Errorf("Locate() = %q, %v, want %q", got, err, path)
		}
	})

	t.Run("explicit missing", func(t *testing.T) {
		if _, err := Locate(filepath.Join(t.TempDir(), "nope.lua")); err == nil {
			t.Error("Locate() with missing explicit path should fail")
		}
	})

	t.Run("explicit directory", func(t *testing.T) {
		if _, err := Locate(t.TempDir()); err == nil {
			t.Error("Locate() with a directory should fail")
		}
	})

	t.Run("environment", func(t *testing.T) {
		path := writeManifest(t, t.TempDir())
		t.Setenv(EnvConfig, path)
		got, err := Locate("")
		if err != nil || got != path {
			t.Errorf("Locate() = %q, %v, want %q", got, err, path)
		}
	})

	t.Run("environment missing", func(t *testing.T) {
		t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "nope.lua"))
		if _, err := Locate(""); err == nil {
			t.Error("Locate() with missing $BINWRAP_CONFIG should fail")
		}
	})

	t.Run("working directory before executable", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		cwd := t.TempDir()
		t.Chdir(cwd)
		want := writeManifest(t, cwd)

		exeDir := t.TempDir()
		writeManifest(t, exeDir)
		stubExecutable(t, filepath.Join(exeDir, "binwrap"))

		got, err := Locate("")
		if err != nil {
			t.Fatalf("Locate() error = %v", err)
		}
		if filepath.Base(got) != FileName || filepath.Dir(got) == exeDir {
			t.Errorf("Locate() = %q, want %q", got, want)
		}
	})

	t.Run("beside executable", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		t.Chdir(t.TempDir())

		exeDir := t.TempDir()
		want := writeManifest(t, exeDir)
		stubExecutable(t, filepath.Join(exeDir, "binwrap"))

		got, err := Locate("")
		if err != nil || got != want {
			t.Errorf("Locate() = %q, %v, want %q", got, err, want)
		}
	})

	t.Run("none", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		t.Chdir(t.TempDir())
		stubExecutable(t, filepath.Join(t.TempDir(), "binwrap"))

		got, err := Locate("")
		if err != nil || got != "" {
			t.Errorf("Locate() = %q, %v, want no manifest", got, err)
		}
	})
}
