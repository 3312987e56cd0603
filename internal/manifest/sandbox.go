package manifest

import (
	lua "github.com/yuin/gopher-lua"
)

// Globals removed from every manifest VM. Only string, table, math and the
// basic value helpers remain.
var blockedGlobals = []string{
	// system commands, environment and filesystem
	"os",
	"io",
	// loading external code
	"require",
	"module",
	"package",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	// escaping the sandbox or the read-only platform table
	"debug",
	"getfenv",
	"setfenv",
	"getmetatable",
	"setmetatable",
	"rawget",
	"rawset",
	"rawequal",
	"collectgarbage",
	"newproxy",
}

const callStackSize = 256

// sandboxLuaVM strips every blocked global from L.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua VM for manifest code.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize:       callStackSize,
		IncludeGoStackTrace: false,
	})
	sandboxLuaVM(L)
	return L
}
