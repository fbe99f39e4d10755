// pkg/nav/nav.go
package nav

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/creativeyann17/go-zipnav/internal/vpath"
)

// Extra compression methods registered on top of the stock Store/Deflate set.
const (
	methodZstd = 93 // zstd (APPNOTE 4.5/6.3.7)
	methodXZ   = 95 // WinZip XZ
)

// Navigator provides filesystem-like navigation over a read-only ZIP archive.
// Directories inside the archive are implicit: they exist exactly when at
// least one member name lives under them.
//
// A Navigator is not safe for concurrent use.
type Navigator struct {
	zipPath string // absolute path of the archive
	rc      *zip.ReadCloser
	names   []string // all member names, sorted
	index   map[string]*zip.File
	cwd     string // current base directory, "" is the root
	closed  bool
}

// Open opens a ZIP archive for navigation. zstd and XZ compressed members
// are supported in addition to the standard methods.
func Open(zipPath string) (*Navigator, error) {
	abs, err := filepath.Abs(zipPath)
	if err != nil {
		return nil, fmt.Errorf("resolve archive path: %w", err)
	}

	rc, err := zip.OpenReader(abs)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	rc.RegisterDecompressor(methodZstd, func(r io.Reader) io.ReadCloser {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return errReadCloser{err}
		}
		return zr.IOReadCloser()
	})
	rc.RegisterDecompressor(methodXZ, func(r io.Reader) io.ReadCloser {
		xr, err := xz.NewReader(r)
		if err != nil {
			return errReadCloser{err}
		}
		return io.NopCloser(xr)
	})

	n := &Navigator{
		zipPath: abs,
		rc:      rc,
		index:   make(map[string]*zip.File, len(rc.File)),
	}
	for _, f := range rc.File {
		name := f.Name
		n.names = append(n.names, name)
		n.index[name] = f
	}
	sort.Strings(n.names)

	return n, nil
}

// Close releases the archive handle. Safe to call more than once.
func (n *Navigator) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	return n.rc.Close()
}

// Path returns the absolute path of the open archive.
func (n *Navigator) Path() string { return n.zipPath }

// Pwd returns the current base directory rendered from the archive root.
func (n *Navigator) Pwd() string {
	if n.cwd == "" {
		return "/"
	}
	return "/" + n.cwd
}

// Base returns the current base directory in canonical form (no trailing
// slash, "" for the root).
func (n *Navigator) Base() string {
	rel, _ := vpath.Resolve(n.cwd, "")
	return rel
}

// SetBase replaces the current base directory with an already-canonical
// archive-relative path. Used when adopting a base from persisted state.
func (n *Navigator) SetBase(rel string) {
	n.cwd = rel
}

func (n *Navigator) resolve(p string) (string, error) {
	return vpath.Resolve(n.cwd, p)
}

// isFileRel reports whether rel names an exact (non-directory) member.
func (n *Navigator) isFileRel(rel string) bool {
	if rel == "" || strings.HasSuffix(rel, "/") {
		return false
	}
	_, ok := n.index[rel]
	return ok
}

// dirExistsRel reports whether rel is the root or at least one member name
// lives under rel + "/". The prefix test is a binary search over the sorted
// name list.
func (n *Navigator) dirExistsRel(rel string) bool {
	if rel == "" {
		return true
	}
	prefix := strings.TrimRight(rel, "/") + "/"
	i := sort.SearchStrings(n.names, prefix)
	return i < len(n.names) && strings.HasPrefix(n.names[i], prefix)
}

// Exists reports whether path names a member or an implicit directory.
func (n *Navigator) Exists(path string) bool {
	rel, err := n.resolve(path)
	if err != nil {
		return false
	}
	return n.isFileRel(rel) || n.dirExistsRel(rel)
}

// IsDir reports whether path names the root or an implicit directory.
func (n *Navigator) IsDir(path string) bool {
	rel, err := n.resolve(path)
	if err != nil {
		return false
	}
	return n.dirExistsRel(rel)
}

// IsFile reports whether path names an exact member.
func (n *Navigator) IsFile(path string) bool {
	rel, err := n.resolve(path)
	if err != nil {
		return false
	}
	return n.isFileRel(rel)
}

// Ls lists the direct children of a directory, or every descendant when
// recursive is set. Directory entries carry a trailing slash and results are
// sorted. Listed paths are relative to the archive root, not to the listed
// directory.
func (n *Navigator) Ls(path string, recursive bool) ([]string, error) {
	rel, err := n.resolve(path)
	if err != nil {
		return nil, err
	}
	if !n.dirExistsRel(rel) {
		if n.isFileRel(strings.TrimRight(rel, "/")) {
			return nil, fmt.Errorf("%s: %w", rel, ErrNotADirectory)
		}
		return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
	}

	prefix := ""
	if rel != "" {
		prefix = strings.TrimRight(rel, "/") + "/"
	}

	seen := make(map[string]struct{})
	var out []string
	for _, name := range n.namesUnder(prefix) {
		tail := strings.TrimPrefix(name, prefix)
		if tail == "" {
			continue // explicit directory entry for the listed dir itself
		}
		if recursive {
			// every ancestor directory between prefix and the member
			segs := strings.Split(strings.TrimRight(tail, "/"), "/")
			for i := 1; i < len(segs); i++ {
				dir := prefix + strings.Join(segs[:i], "/") + "/"
				if _, ok := seen[dir]; !ok {
					seen[dir] = struct{}{}
					out = append(out, dir)
				}
			}
			if !strings.HasSuffix(name, "/") {
				if _, ok := seen[name]; !ok {
					seen[name] = struct{}{}
					out = append(out, name)
				}
			}
			continue
		}
		child := tail
		if i := strings.Index(tail, "/"); i >= 0 {
			child = tail[:i+1] // keep the slash: it is a directory
		}
		entry := prefix + child
		if _, ok := seen[entry]; !ok {
			seen[entry] = struct{}{}
			out = append(out, entry)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Cd changes the current base directory. Navigating onto a plain file fails
// with ErrNotADirectory; a path naming nothing fails with ErrNotFound.
func (n *Navigator) Cd(path string) (string, error) {
	rel, err := n.resolve(path)
	if err != nil {
		return "", err
	}
	if rel == "" {
		n.cwd = ""
		return n.Pwd(), nil
	}
	if n.dirExistsRel(rel) {
		n.cwd = strings.TrimRight(rel, "/") + "/"
		return n.Pwd(), nil
	}
	if n.isFileRel(strings.TrimRight(rel, "/")) {
		return "", fmt.Errorf("%s: %w", rel, ErrNotADirectory)
	}
	return "", fmt.Errorf("%s: %w", rel, ErrNotFound)
}

// Cat returns the decompressed content of a member.
func (n *Navigator) Cat(path string) ([]byte, error) {
	f, err := n.member(path)
	if err != nil {
		return nil, err
	}
	rd, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rd.Close()
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

// CatString returns the decompressed content of a member as text.
func (n *Navigator) CatString(path string) (string, error) {
	data, err := n.Cat(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// member resolves path to an exact file member, applying the directory
// checks shared by Cat, Info and Hash.
func (n *Navigator) member(path string) (*zip.File, error) {
	rel, err := n.resolve(path)
	if err != nil {
		return nil, err
	}
	// An exact member wins over an implicit directory of the same name,
	// unless the caller asked for a directory with a trailing slash.
	if !strings.HasSuffix(rel, "/") {
		if f, ok := n.index[rel]; ok {
			return f, nil
		}
	}
	if n.dirExistsRel(rel) {
		return nil, fmt.Errorf("%s: %w", rel, ErrIsADirectory)
	}
	return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
}

// Member looks up an exact member name in the archive index. Used by the
// extraction layer, which works on raw member names rather than resolved
// paths.
func (n *Navigator) Member(name string) (*zip.File, bool) {
	f, ok := n.index[name]
	return f, ok
}

// ScanFilesUnder recursively enumerates every file member beneath base.
// Returns an empty list (not an error) when base does not exist as a
// directory. Names are full archive-relative paths, sorted.
func (n *Navigator) ScanFilesUnder(base string) ([]string, error) {
	rel, err := n.resolve(base)
	if err != nil {
		return nil, err
	}
	if !n.dirExistsRel(rel) {
		return nil, nil
	}
	prefix := ""
	if rel != "" {
		prefix = strings.TrimRight(rel, "/") + "/"
	}
	var out []string
	for _, name := range n.namesUnder(prefix) {
		if strings.HasSuffix(name, "/") {
			continue // explicit directory entry
		}
		out = append(out, name)
	}
	return out, nil
}

// namesUnder returns the sorted run of member names starting with prefix.
func (n *Navigator) namesUnder(prefix string) []string {
	if prefix == "" {
		return n.names
	}
	lo := sort.SearchStrings(n.names, prefix)
	hi := lo
	for hi < len(n.names) && strings.HasPrefix(n.names[hi], prefix) {
		hi++
	}
	return n.names[lo:hi]
}

type errReadCloser struct{ err error }

func (r errReadCloser) Read([]byte) (int, error) { return 0, r.err }
func (r errReadCloser) Close() error             { return nil }
