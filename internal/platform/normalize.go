package platform

import (
	"fmt"
	"strings"
)

// familyMap maps distribution names to their canonical family names.
// gopsutil reports families inconsistently across distributions.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// archAliases maps uname-style machine names onto GOARCH names.
var archAliases = map[string]string{
	"x86_64":  "amd64",
	"x64":     "amd64",
	"aarch64": "arm64",
	"i386":    "386",
	"i686":    "386",
	"x86":     "386",
	"armv7l":  "arm",
	"armv7":   "arm",
}

// normalizeArch converts architecture names to GOARCH spelling.
// Unknown names pass through lowercased.
func normalizeArch(arch string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(arch))
	if normalized == "" {
		return "", fmt.Errorf("empty architecture")
	}

	if goarch, ok := archAliases[normalized]; ok {
		return goarch, nil
	}

	return normalized, nil
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizePlatform(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
