package testutil

import (
	"archive/tar"
	"bytes"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Entry describes one tar entry. Type defaults to a regular file and Mode
// to 0644 (0755 for directories).
type Entry struct {
	Name     string
	Body     string
	Mode     int64
	Type     byte
	Linkname string
}

// Tar builds an uncompressed tar stream.
func Tar(t *testing.T, entries []Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for _, e := range entries {
		typ := e.Type
		if typ == 0 {
			typ = tar.TypeReg
		}
		mode := e.Mode
		if mode == 0 {
			mode = 0644
			if typ == tar.TypeDir {
				mode = 0755
			}
		}

		hdr := &tar.Header{Name: e.Name, Mode: mode, Typeflag: typ, Linkname: e.Linkname}
		if typ == tar.TypeReg {
			hdr.Size = int64(len(e.Body))
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write header for %s: %v", e.Name, err)
		}
		if typ == tar.TypeReg {
			if _, err := tw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("failed to write content for %s: %v", e.Name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	return buf.Bytes()
}

// Gzip compresses data with gzip.
func Gzip(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// Zstd compresses data with zstd.
func Zstd(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("zstd write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}
	return buf.Bytes()
}

// Xz compresses data with xz.
func Xz(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	return buf.Bytes()
}

// ReleaseArchive is a gzipped tarball with files under a single wrapper
// directory, the way most projects publish releases. Files are executable.
func ReleaseArchive(t *testing.T, wrapper string, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := []Entry{{Name: wrapper + "/", Type: tar.TypeDir}}
	for _, name := range names {
		entries = append(entries, Entry{Name: wrapper + "/" + name, Body: files[name], Mode: 0755})
	}
	return Gzip(t, Tar(t, entries))
}

// ReleaseServer serves one archive at every path and records requests.
type ReleaseServer struct {
	*httptest.Server

	mu    sync.Mutex
	paths []string
}

// NewReleaseServer starts a server for data, closed with the test.
func NewReleaseServer(t *testing.T, data []byte) *ReleaseServer {
	t.Helper()

	rs := &ReleaseServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.paths = append(rs.paths, r.URL.Path)
		rs.mu.Unlock()

		w.Header().Set("Content-Type", "application/gzip")
		if _, err := w.Write(data); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	t.Cleanup(rs.Close)
	return rs
}

// Requests returns how many requests were served.
func (rs *ReleaseServer) Requests() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.paths)
}

// LastPath returns the most recently requested path.
func (rs *ReleaseServer) LastPath() string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.paths) == 0 {
		return ""
	}
	return rs.paths[len(rs.paths)-1]
}
