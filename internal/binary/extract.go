package binary

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Extractor handles streaming archive extraction
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractTar reads a tar stream from r, optionally gzip, zstd, xz or bzip2
// compressed, and writes its entries into destDir after removing strip
// leading path segments from each name. It returns the number of entries
// written.
func (e *Extractor) ExtractTar(r io.Reader, destDir string, strip int) (int, error) {
	stream, closeStream, err := decompress(r)
	if err != nil {
		return 0, err
	}
	defer closeStream()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("create dest dir: %w", err)
	}

	// All writes go through root so links extracted earlier cannot
	// redirect later entries outside destDir.
	root, err := os.OpenRoot(destDir)
	if err != nil {
		return 0, fmt.Errorf("open dest dir: %w", err)
	}
	defer root.Close()

	tarReader := tar.NewReader(stream)
	written := 0

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, fmt.Errorf("read tar header: %w", err)
		}

		name, ok, err := stripComponents(header.Name, strip)
		if err != nil {
			return written, err
		}
		if !ok {
			continue
		}

		target, err := safeJoin(destDir, name)
		if err != nil {
			return written, err
		}
		rel := filepath.FromSlash(name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := root.MkdirAll(rel, 0755); err != nil {
				return written, fmt.Errorf("create directory %s: %w", name, err)
			}

		case tar.TypeReg:
			if err := writeFile(root, rel, tarReader, header.FileInfo().Mode().Perm()); err != nil {
				return written, fmt.Errorf("write file %s: %w", name, err)
			}

		case tar.TypeSymlink:
			if err := root.MkdirAll(filepath.Dir(rel), 0755); err != nil {
				return written, fmt.Errorf("create parent dir for %s: %w", name, err)
			}
			if err := checkSymlink(destDir, target, header.Linkname); err != nil {
				return written, err
			}
			if err := root.Symlink(header.Linkname, rel); err != nil {
				return written, fmt.Errorf("create symlink %s: %w", name, err)
			}

		case tar.TypeLink:
			linkName, ok, err := stripComponents(header.Linkname, strip)
			if err != nil {
				return written, err
			}
			if !ok {
				return written, fmt.Errorf("hard link %s points outside archive root: %s", name, header.Linkname)
			}
			if _, err := safeJoin(destDir, linkName); err != nil {
				return written, err
			}
			if err := root.MkdirAll(filepath.Dir(rel), 0755); err != nil {
				return written, fmt.Errorf("create parent dir for %s: %w", name, err)
			}
			if err := root.Link(filepath.FromSlash(linkName), rel); err != nil {
				return written, fmt.Errorf("create hard link %s: %w", name, err)
			}

		default:
			// Devices, fifos and the like have no place in a tool release.
			continue
		}

		written++
	}

	return written, nil
}

// decompress sniffs the stream's magic bytes and wraps it in the matching
// decompressor. Anything unrecognised is treated as a plain tar stream.
func decompress(r io.Reader) (io.Reader, func(), error) {
	buffered := bufio.NewReader(r)

	magic, err := buffered.Peek(len(xzMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read archive: %w", err)
	}
	if len(magic) == 0 {
		return nil, nil, fmt.Errorf("read archive: empty stream")
	}

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gzipReader, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return gzipReader, func() { gzipReader.Close() }, nil

	case bytes.HasPrefix(magic, zstdMagic):
		zstdReader, err := zstd.NewReader(buffered)
		if err != nil {
			return nil, nil, fmt.Errorf("create zstd reader: %w", err)
		}
		return zstdReader, zstdReader.Close, nil

	case bytes.HasPrefix(magic, xzMagic):
		xzReader, err := xz.NewReader(buffered)
		if err != nil {
			return nil, nil, fmt.Errorf("create xz reader: %w", err)
		}
		return xzReader, func() {}, nil

	case isBzip2(magic):
		return bzip2.NewReader(buffered), func() {}, nil
	}

	return buffered, func() {}, nil
}

// isBzip2 matches "BZh" followed by a block size digit.
func isBzip2(magic []byte) bool {
	return len(magic) >= 4 &&
		magic[0] == 'B' && magic[1] == 'Z' && magic[2] == 'h' &&
		magic[3] >= '1' && magic[3] <= '9'
}

// stripComponents removes the first n segments of an archive path.
// It reports false when nothing is left, e.g. for the wrapping directory itself.
func stripComponents(name string, n int) (string, bool, error) {
	var parts []string
	for _, part := range strings.Split(name, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", false, fmt.Errorf("illegal file path: %s", name)
		}
		parts = append(parts, part)
	}

	if len(parts) <= n {
		return "", false, nil
	}

	return path.Join(parts[n:]...), true, nil
}

// safeJoin joins an archive path onto destDir and rejects anything that
// would land outside it.
func safeJoin(destDir, name string) (string, error) {
	cleanDest := filepath.Clean(destDir)
	target := filepath.Join(cleanDest, filepath.FromSlash(name))

	if target == cleanDest || !within(cleanDest, target) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}

	return target, nil
}

// checkSymlink rejects links whose target resolves outside destDir. The
// parent directory must already exist; it is resolved on disk so links
// extracted earlier are taken into account.
func checkSymlink(destDir, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("illegal symlink target: %s", linkname)
	}

	realDest, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return fmt.Errorf("resolve dest dir: %w", err)
	}
	realParent, err := filepath.EvalSymlinks(filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("resolve parent of %s: %w", target, err)
	}

	if !within(realDest, resolveLink(realParent, linkname)) {
		return fmt.Errorf("illegal symlink target: %s", linkname)
	}

	return nil
}

// resolveLink walks linkname from dir one segment at a time, following
// symlinks that already exist on disk. Missing segments resolve lexically.
func resolveLink(dir, linkname string) string {
	cur := dir
	for _, part := range strings.Split(filepath.ToSlash(linkname), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			cur = filepath.Dir(cur)
			continue
		}

		cur = filepath.Join(cur, part)
		if info, err := os.Lstat(cur); err == nil && info.Mode()&os.ModeSymlink != 0 {
			if real, err := filepath.EvalSymlinks(cur); err == nil {
				cur = real
			}
		}
	}
	return cur
}

// within reports whether p is dir or lies beneath it. Both must be clean.
func within(dir, p string) bool {
	return p == dir || strings.HasPrefix(p, dir+string(os.PathSeparator))
}

// writeFile copies one archive entry to name inside root with the given
// permissions.
func writeFile(root *os.Root, name string, r io.Reader, perm os.FileMode) error {
	if err := root.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	outFile, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return err
	}

	return outFile.Close()
}
