package manifest

import (
	"testing"
)

func TestSandboxLuaVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"string library", `x = string.format("%s-%s", "a", "b")`, false},
		{"table library", `t = {1, 2}; table.insert(t, 3)`, false},
		{"math library", `x = math.floor(1.5)`, false},
		{"basic functions", `x = type("s"); y = tostring(1); z = tonumber("2")`, false},
		{"pairs", `for k, v in pairs({a = 1}) do end`, false},

		{"os.execute", `os.execute("ls")`, true},
		{"os.getenv", `x = os.getenv("HOME")`, true},
		{"io.open", `io.open("/etc/passwd")`, true},
		{"require", `require("os")`, true},
		{"dofile", `dofile("/etc/passwd")`, true},
		{"loadfile", `loadfile("/etc/passwd")`, true},
		{"load", `load("return 1")`, true},
		{"loadstring", `loadstring("return 1")`, true},
		{"debug", `debug.getinfo(1)`, true},
		{"setmetatable", `setmetatable({}, {})`, true},
		{"getmetatable", `getmetatable("")`, true},
		{"rawset", `rawset({}, "a", 1)`, true},
		{"collectgarbage", `collectgarbage()`, true},
		{"getfenv", `getfenv(1)`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("DoString(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestSandboxLuaVM_StackDepth(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	if err := L.DoString(`local function f(n) return 1 + f(n + 1) end f(1)`); err == nil {
		t.Error("unbounded recursion should fail")
	}
}
