package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser evaluates manifests with the host platform injected.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a parser. A nil detector leaves `platform` undefined;
// a nil logger discards diagnostics.
func NewParser(detector platform.Detector, logger Logger) *Parser {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Parser{detector: detector, logger: logger}
}

// ParseError represents a manifest that could not be evaluated or decoded.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// ParseFile reads and evaluates the manifest at path. A relative
// install_dir is resolved against the manifest's directory.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	code, err := io.ReadAll(io.LimitReader(f, MaxManifestSize+1))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(code) > MaxManifestSize {
		return nil, &ParseError{
			Message: "manifest too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, MaxManifestSize),
		}
	}

	for _, finding := range DetectSensitiveData(string(code)) {
		p.logger.Warn("manifest may contain a secret",
			"path", path, "line", finding.Line, "kind", finding.PatternName)
	}

	m, err := p.ParseString(ctx, string(code))
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}
	m.Path = abs
	if m.InstallDir, err = resolveDir(m.InstallDir, filepath.Dir(abs)); err != nil {
		return nil, err
	}

	p.logger.Debug("manifest loaded", "path", abs, "name", m.Name, "version", m.Version)
	return m, nil
}

// ParseString evaluates manifest code held in memory.
func (p *Parser) ParseString(ctx context.Context, code string) (*Manifest, error) {
	ctx, cancel := context.WithTimeout(ctx, ParseTimeout)
	defer cancel()

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(code); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, &ParseError{Message: "manifest timed out", Detail: fmt.Sprintf("evaluation exceeded %s", ParseTimeout)}
			}
			return nil, ctxErr
		}
		return nil, &ParseError{Message: "Lua error", Detail: err.Error()}
	}

	m, err := extractManifest(L)
	if err != nil {
		return nil, err
	}
	if m.InstallDir, err = resolveDir(m.InstallDir, ""); err != nil {
		return nil, err
	}
	return m, nil
}

// extractManifest decodes the global binwrap table.
func extractManifest(L *lua.LState) (*Manifest, error) {
	global := L.GetGlobal(luaGlobal)
	if global.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: fmt.Sprintf("missing or invalid '%s' table", luaGlobal),
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}
	table := global.(*lua.LTable)

	m := &Manifest{}
	fields := []struct {
		key string
		dst *string
	}{
		{luaFieldName, &m.Name},
		{luaFieldVersion, &m.Version},
		{luaFieldURL, &m.URL},
		{luaFieldInstallDir, &m.InstallDir},
	}
	for _, f := range fields {
		v, err := stringField(table, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if err := m.Validate(); err != nil {
		return nil, &ParseError{Message: "manifest validation failed", Detail: err.Error()}
	}
	return m, nil
}

// stringField returns a string field, "" when absent. Numbers are rejected
// rather than coerced.
func stringField(table *lua.LTable, key string) (string, error) {
	v := table.RawGetString(key)
	switch v.Type() {
	case lua.LTNil:
		return "", nil
	case lua.LTString:
		return v.String(), nil
	default:
		return "", &ParseError{
			Message: fmt.Sprintf("invalid field '%s.%s'", luaGlobal, key),
			Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
		}
	}
}

// FormatError formats err for display, trimming Lua stack traces unless
// verbose is set.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}
