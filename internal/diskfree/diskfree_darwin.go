//go:build darwin

package diskfree

import "syscall"

// FreeBytes returns the free disk space in bytes at the given path (macOS)
func FreeBytes(path string) (uint64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}
