// pkg/nav/info.go
package nav

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/blake3"
)

// FileInfo describes a single archive member.
type FileInfo struct {
	Name           string    `json:"filename"`
	Size           uint64    `json:"file_size"`
	CompressedSize uint64    `json:"compress_size"`
	Modified       time.Time `json:"date_time"`
	CRC32          uint32    `json:"crc"`
	Method         string    `json:"compress_type"`
}

// Info returns the metadata of a file member. Directories have no metadata
// of their own and fail with ErrIsADirectory.
func (n *Navigator) Info(path string) (*FileInfo, error) {
	f, err := n.member(path)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		Name:           f.Name,
		Size:           f.UncompressedSize64,
		CompressedSize: f.CompressedSize64,
		Modified:       f.Modified,
		CRC32:          f.CRC32,
		Method:         methodName(f.Method),
	}, nil
}

// Hash returns the hex BLAKE3 digest of a member's decompressed content.
func (n *Navigator) Hash(path string) (string, error) {
	f, err := n.member(path)
	if err != nil {
		return "", err
	}
	rd, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rd.Close()

	h := blake3.New()
	if _, err := io.Copy(h, rd); err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func methodName(method uint16) string {
	switch method {
	case 0:
		return "STORED"
	case 8:
		return "DEFLATED"
	case 12:
		return "BZIP2"
	case 14:
		return "LZMA"
	case methodZstd:
		return "ZSTD"
	case methodXZ:
		return "XZ"
	default:
		return fmt.Sprintf("%d", method)
	}
}
