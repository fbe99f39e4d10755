// internal/diskfree/diskfree_test.go
package diskfree_test

import (
	"testing"

	"github.com/creativeyann17/go-zipnav/internal/diskfree"
)

func TestFreeBytes(t *testing.T) {
	free, err := diskfree.FreeBytes(t.TempDir())
	if err != nil {
		t.Fatalf("FreeBytes: %v", err)
	}
	if free == 0 {
		t.Error("FreeBytes = 0, expected free space in a fresh temp dir")
	}
}

func TestFreeBytesMissingPath(t *testing.T) {
	if _, err := diskfree.FreeBytes("/no/such/path/anywhere"); err == nil {
		t.Error("FreeBytes on missing path should fail")
	}
}
