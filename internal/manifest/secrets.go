package manifest

import (
	"regexp"
	"strings"
)

// SensitivePattern is a regexp that suggests a hardcoded credential.
type SensitivePattern struct {
	Name    string
	Pattern *regexp.Regexp
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:    "URL credentials",
		Pattern: regexp.MustCompile(`https?://[^/\s:@'"]+:[^/\s@'"]+@`),
	},
	{
		Name:    "token",
		Pattern: regexp.MustCompile(`(?i)(token|auth[_-]?token|access[_-]?token|bearer|api[_-]?key)\s*=\s*['"][a-zA-Z0-9_-]{15,}['"]`),
	},
	{
		Name:    "query token",
		Pattern: regexp.MustCompile(`(?i)[?&](token|access_token|api_key|sig)=[^&\s'"]{8,}`),
	},
	{
		Name:    "GitHub token",
		Pattern: regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}`),
	},
}

// SensitiveDataFinding is one suspected secret.
type SensitiveDataFinding struct {
	PatternName string
	Line        int
}

// DetectSensitiveData scans manifest source for hardcoded credentials.
// At most one finding is reported per line.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		for _, p := range sensitivePatterns {
			if p.Pattern.MatchString(line) {
				findings = append(findings, SensitiveDataFinding{PatternName: p.Name, Line: i + 1})
				break
			}
		}
	}
	return findings
}
