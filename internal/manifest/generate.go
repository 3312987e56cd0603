package manifest

import (
	"bytes"
	"strings"
)

// Generate renders m as binwrap.lua source. Empty fields are emitted as
// commented-out examples so the file documents the schema.
func Generate(m Manifest) string {
	var buf bytes.Buffer

	buf.WriteString("-- binwrap manifest\n")
	buf.WriteString("-- Placeholders: {{name}} {{version}} {{os}} {{arch}} {{triple}} {{exe}}\n")
	buf.WriteString("-- The read-only `platform` table is available for conditional URLs.\n\n")
	buf.WriteString(luaGlobal + " = {\n")

	writeField(&buf, luaFieldName, m.Name, `"tool"`)
	writeField(&buf, luaFieldVersion, m.Version, `"1.0.0"`)
	writeField(&buf, luaFieldURL, m.URL, `"https://example.com/{{name}}-{{version}}-{{triple}}.tar.gz"`)
	writeField(&buf, luaFieldInstallDir, m.InstallDir, `"vendor/tool"`)

	buf.WriteString("}\n")
	return buf.String()
}

func writeField(buf *bytes.Buffer, key, value, example string) {
	buf.WriteString("  ")
	if value == "" {
		buf.WriteString("-- ")
		buf.WriteString(key)
		buf.WriteString(" = ")
		buf.WriteString(example)
	} else {
		buf.WriteString(key)
		buf.WriteString(" = ")
		buf.WriteString(quoteLuaString(value))
	}
	buf.WriteString(",\n")
}

// quoteLuaString quotes s as a double-quoted Lua string literal.
func quoteLuaString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
		"\x00", `\0`,
	)
	return `"` + r.Replace(s) + `"`
}
