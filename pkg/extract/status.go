// pkg/extract/status.go
package extract

import "github.com/creativeyann17/go-zipnav/internal/vpath"

// Status is a snapshot of the extraction run, computed on demand.
type Status struct {
	Active      bool     `json:"active"`
	ZipPath     string   `json:"zip_path,omitempty"`
	BaseAtInit  string   `json:"base_at_init,omitempty"`
	BatchSize   int      `json:"batch_size,omitempty"`
	Seed        int64    `json:"seed,omitempty"`
	Extensions  []string `json:"extensions,omitempty"`
	Exclude     []string `json:"exclude_patterns,omitempty"`
	TotalFiles  int      `json:"total_files"`
	Extracted   int      `json:"extracted_so_far"`
	Remaining   int      `json:"remaining"`
	FailedCount int      `json:"failed_count"`
	FailedTail  []string `json:"failed_tail,omitempty"`
	ExtractDir  string   `json:"extract_dir,omitempty"`
	StateFile   string   `json:"state_file,omitempty"`
	OnError     string   `json:"on_error,omitempty"`
	MaxRetries  int      `json:"max_retries"`
	ValidateCRC bool     `json:"validate_crc"`
}

// failedTailLen is how many recent failures Status carries for quick debugging.
const failedTailLen = 10

// Status reports the current state of the run. An inactive extractor
// reports only Active=false.
func (e *Extractor) Status() *Status {
	if !e.active {
		return &Status{Active: false}
	}
	total := len(e.order)
	done := e.cursor
	remaining := total - done
	if remaining < 0 {
		remaining = 0
	}

	tail := e.failed
	if len(tail) > failedTailLen {
		tail = tail[len(tail)-failedTailLen:]
	}

	return &Status{
		Active:      true,
		ZipPath:     e.nav.Path(),
		BaseAtInit:  vpath.Render(e.baseAtInit),
		BatchSize:   e.batchSize,
		Seed:        e.seed,
		Extensions:  e.extensions,
		Exclude:     e.exclude,
		TotalFiles:  total,
		Extracted:   done,
		Remaining:   remaining,
		FailedCount: len(e.failed),
		FailedTail:  append([]string(nil), tail...),
		ExtractDir:  e.extractDir,
		StateFile:   e.statePath,
		OnError:     e.onError,
		MaxRetries:  e.maxRetries,
		ValidateCRC: e.validateCRC,
	}
}
