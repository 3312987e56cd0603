// Package manifest loads binwrap.lua, the optional Lua file that tells
// binwrap which release to fetch.
//
// # Schema
//
// A manifest assigns a global table:
//
//	binwrap = {
//	  name        = "tool",
//	  version     = "1.2.3",
//	  url         = "https://example.com/tool-{{version}}-{{triple}}.tar.gz",
//	  install_dir = "vendor/tool", -- optional, relative to the manifest
//	}
//
// Every field is optional and must be a string when present. The read-only
// `platform` table from the platform package is available, so URLs can be
// computed with ordinary Lua:
//
//	local ext = platform.pick{windows = "zip", default = "tar.gz"}
//	binwrap = { url = "https://example.com/tool-" .. platform.triple .. "." .. ext }
//
// # Sandbox
//
// Manifests run in a restricted gopher-lua VM: os, io, debug and every
// code-loading function are removed, the call stack is bounded and parsing
// is cut off after ParseTimeout.
//
// # Placeholders
//
// URL templates may contain {{os}}, {{arch}}, {{triple}}, {{exe}},
// {{version}} and {{name}}. Expand rejects any other placeholder instead of
// leaving it in the URL.
//
// # Lookup
//
// Locate searches an explicit path, then $BINWRAP_CONFIG, then ./binwrap.lua,
// then binwrap.lua beside the running executable.
package manifest
