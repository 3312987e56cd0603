package manifest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/platform"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_]+)\s*\}\}`)

// Vars returns the placeholder values available to URL templates.
func Vars(info *platform.Info, m Manifest) map[string]string {
	vars := map[string]string{
		"name":    m.Name,
		"version": m.Version,
	}
	if info != nil {
		vars["os"] = info.OS
		vars["arch"] = info.Arch
		vars["triple"] = info.Triple()
		vars["exe"] = info.ExeSuffix()
	}
	return vars
}

// Expand replaces every {{key}} in template with vars[key]. Unknown keys
// are an error; so are known keys other than "exe" with an empty value.
func Expand(template string, vars map[string]string) (string, error) {
	var problems []string
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := vars[key]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("unknown placeholder %s (known: %s)", match, knownKeys(vars)))
		case value == "" && key != "exe":
			problems = append(problems, fmt.Sprintf("placeholder %s has no value", match))
		}
		return value
	})
	if len(problems) > 0 {
		return "", fmt.Errorf("expand %q: %s", template, strings.Join(problems, "; "))
	}
	return out, nil
}

// ReleaseURL expands m.URL for info.
func (m Manifest) ReleaseURL(info *platform.Info) (string, error) {
	if m.URL == "" {
		return "", nil
	}
	return Expand(m.URL, Vars(info, m))
}

func knownKeys(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
