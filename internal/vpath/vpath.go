// internal/vpath/vpath.go
package vpath

import (
	"errors"
	"path"
	"sort"
	"strings"
)

// ErrInvalidPath is returned when a path would resolve outside the archive root
var ErrInvalidPath = errors.New("path escapes the archive root")

// Resolve normalizes input against the current base directory and returns the
// canonical archive-relative path. The logical root is the empty string.
//
// Rules:
//   - backslashes are treated as path separators
//   - empty input resolves to the base unchanged
//   - a leading "/" resolves against the root, not the base
//   - ".", "..", duplicate and trailing separators are collapsed lexically
//   - if the input explicitly ended with a separator, it is restored on the
//     result (unless the result is the root) so directory intent survives
//
// A path that would climb above the root fails with ErrInvalidPath.
func Resolve(base, input string) (string, error) {
	input = strings.ReplaceAll(input, "\\", "/")
	hadTrailing := input != "" && strings.HasSuffix(input, "/")

	var joined string
	switch {
	case input == "":
		joined = base
	case strings.HasPrefix(input, "/"):
		joined = strings.TrimLeft(input, "/")
	default:
		joined = path.Join(base, input)
	}

	s := path.Clean(joined)
	if s == "." || s == "/" || s == "" {
		s = ""
	}

	if s == ".." || strings.HasPrefix(s, "../") {
		return "", ErrInvalidPath
	}

	if hadTrailing && s != "" && !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s, nil
}

// Render formats a canonical archive-relative path for display, with the root
// shown as "/".
func Render(rel string) string {
	if rel == "" {
		return "/"
	}
	return "/" + rel
}

// IsSafeMember reports whether an archive member name is safe to extract:
// not absolute, no drive-letter prefix, and no traversal above the
// extraction root after lexical normalization.
func IsSafeMember(name string) bool {
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return false
	}
	if len(name) >= 2 && name[1] == ':' && isAlpha(name[0]) {
		return false
	}
	norm := path.Clean(name)
	if norm == ".." || strings.HasPrefix(norm, "../") {
		return false
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// NormalizeExtensions lowercases, trims and dot-prefixes a list of file
// extensions, deduplicates them and returns them sorted. Returns nil when
// nothing usable remains, which means "no filter".
func NormalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		seen[e] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Ext returns the lowercased extension of a member name, including the dot.
func Ext(name string) string {
	return strings.ToLower(path.Ext(name))
}
