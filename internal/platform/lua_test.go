package platform

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func newPlatformState(t *testing.T, info *Info) *lua.LState {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)
	if err := InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}
	return L
}

type luaCase struct {
	name string
	code string
	want lua.LValue
}

func runLuaCases(t *testing.T, L *lua.LState, tests []luaCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := L.DoString(tt.code); err != nil {
				t.Fatalf("failed to execute code: %v", err)
			}
			got := L.Get(-1)
			L.Pop(1)

			if got.Type() != tt.want.Type() {
				t.Errorf("type mismatch: got %v, want %v", got.Type(), tt.want.Type())
				return
			}
			if got.String() != tt.want.String() {
				t.Errorf("value mismatch: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInjectPlatformTable_Linux(t *testing.T) {
	L := newPlatformState(t, &Info{
		OS:       "linux",
		Arch:     "amd64",
		ArchRaw:  "x86_64",
		Platform: "ubuntu",
		Family:   FamilyDebian,
		Version:  "22.04",
	})

	runLuaCases(t, L, []luaCase{
		{"os", `return platform.os`, lua.LString("linux")},
		{"arch", `return platform.arch`, lua.LString("amd64")},
		{"arch_raw", `return platform.arch_raw`, lua.LString("x86_64")},
		{"triple", `return platform.triple`, lua.LString("x86_64-unknown-linux-gnu")},
		{"exe_suffix", `return platform.exe_suffix`, lua.LString("")},
		{"is_linux", `return platform.is_linux`, lua.LTrue},
		{"is_macos", `return platform.is_macos`, lua.LFalse},
		{"is_amd64", `return platform.is_amd64`, lua.LTrue},
		{"is_musl", `return platform.is_musl`, lua.LFalse},
		{"distro.id", `return platform.distro.id`, lua.LString("ubuntu")},
		{"distro.version", `return platform.distro.version`, lua.LString("22.04")},
		{"linux_family", `return platform.linux_family`, lua.LString("debian")},
	})
}

func TestInjectPlatformTable_MacOS(t *testing.T) {
	L := newPlatformState(t, &Info{OS: "darwin", Arch: "arm64", ArchRaw: "arm64"})

	runLuaCases(t, L, []luaCase{
		{"os", `return platform.os`, lua.LString("darwin")},
		{"is_macos", `return platform.is_macos`, lua.LTrue},
		{"is_arm64", `return platform.is_arm64`, lua.LTrue},
		{"triple", `return platform.triple`, lua.LString("aarch64-apple-darwin")},
		{"distro is nil", `return platform.distro`, lua.LNil},
		{"linux_family is nil", `return platform.linux_family`, lua.LNil},
	})
}

func TestInjectPlatformTable_Windows(t *testing.T) {
	L := newPlatformState(t, &Info{OS: "windows", Arch: "amd64", ArchRaw: "amd64"})

	runLuaCases(t, L, []luaCase{
		{"is_windows", `return platform.is_windows`, lua.LTrue},
		{"exe_suffix", `return platform.exe_suffix`, lua.LString(".exe")},
		{"triple", `return platform.triple`, lua.LString("x86_64-pc-windows-msvc")},
		{"distro is nil", `return platform.distro`, lua.LNil},
	})
}

func TestPlatformTable_ReadOnly(t *testing.T) {
	L := newPlatformState(t, &Info{OS: "linux", Arch: "amd64", Platform: "ubuntu", Family: FamilyDebian})

	tests := []struct {
		name string
		code string
	}{
		{"modify os", `platform.os = "windows"`},
		{"modify distro id", `platform.distro.id = "arch"`},
		{"add distro field", `platform.distro.codename = "jammy"`},
		{"replace distro metatable", `setmetatable(platform.distro, {})`},
		{"add new field", `platform.new_field = "value"`},
		{"modify boolean", `platform.is_linux = false`},
		{"replace metatable", `setmetatable(platform, {})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := L.DoString(tt.code); err == nil {
				t.Error("expected error when modifying read-only table, got nil")
			}
		})
	}

	err := L.DoString(`platform.os = "windows"`)
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Errorf("error = %v, want read-only message", err)
	}

	runLuaCases(t, L, []luaCase{
		{"distro id unchanged", `return platform.distro.id`, lua.LString("ubuntu")},
		{"os unchanged", `return platform.os`, lua.LString("linux")},
	})
}

func TestPlatformTable_Helpers(t *testing.T) {
	L := newPlatformState(t, &Info{OS: "linux", Arch: "amd64", ArchRaw: "amd64"})

	runLuaCases(t, L, []luaCase{
		{"when true", `return platform.when(true, "x")`, lua.LString("x")},
		{"when false", `return platform.when(false, "x")`, lua.LNil},
		{"when platform bool", `return platform.when(platform.is_linux, "linux")`, lua.LString("linux")},
		{"pick current os", `return platform.pick{linux = "tar.gz", windows = "zip"}`, lua.LString("tar.gz")},
		{"pick default", `return platform.pick{darwin = "a", default = "b"}`, lua.LString("b")},
		{"pick missing", `return platform.pick{darwin = "a"}`, lua.LNil},
	})
}

func TestPlatformTable_ReleaseURL(t *testing.T) {
	L := newPlatformState(t, &Info{OS: "darwin", Arch: "arm64", ArchRaw: "arm64"})

	code := `
		local ext = platform.pick{windows = "zip", default = "tar.gz"}
		return "https://example.com/v1.2.0/tool-" .. platform.triple .. "." .. ext
	`
	if err := L.DoString(code); err != nil {
		t.Fatalf("failed to execute code: %v", err)
	}
	got := L.Get(-1).String()
	want := "https://example.com/v1.2.0/tool-aarch64-apple-darwin.tar.gz"
	if got != want {
		t.Errorf("url = %s, want %s", got, want)
	}
}
