// pkg/extract/options.go
package extract

// Failure policies for members that cannot be extracted.
const (
	// OnErrorSkip records the member in the failed list and continues
	OnErrorSkip = "skip"
	// OnErrorAbort stops the batch on the first failing member
	OnErrorAbort = "abort"
)

// Defaults for Options.
const (
	DefaultBatchSize  = 100
	DefaultSubdir     = "extracted"
	DefaultMaxRetries = 1

	// Preflight margin: the batch must fit in free space with 5% slack plus
	// a fixed headroom. Heuristic, kept configurable on Options.
	DefaultSpaceMargin   = 0.05
	DefaultSpaceHeadroom = 16 << 20 // 16 MiB
)

// Options configures an extraction run.
type Options struct {
	// OutputDir is the directory under which the extraction subdir is created (required)
	OutputDir string

	// BatchSize is the number of members extracted per Next call
	// Default: 100
	BatchSize int

	// Subdir is the name of the extraction directory inside OutputDir
	// Default: "extracted"
	Subdir string

	// Reset discards any existing extraction directory and saved state
	Reset bool

	// Seed drives the deterministic shuffle of the extraction order.
	// Values <= 0 mean "draw one"; the drawn seed is persisted so a resumed
	// run never re-shuffles.
	Seed int64

	// Extensions restricts candidates to the given file extensions
	// (case-insensitive, with or without the leading dot). Empty means no filter.
	Extensions []string

	// Exclude drops candidates matching these gitignore-syntax patterns,
	// evaluated relative to the base directory. Empty means no excludes.
	Exclude []string

	// OnError is the failure policy: OnErrorSkip or OnErrorAbort
	// Default: OnErrorSkip
	OnError string

	// MaxRetries is the number of additional extraction attempts per member
	// Default: 1
	MaxRetries int

	// ValidateCRC selects verified extraction: members are streamed in fixed
	// chunks and the decompressed bytes are checked against the recorded CRC.
	// Slower than raw extraction but catches silent corruption.
	ValidateCRC bool

	// SpaceMargin is the fractional slack added to the preflight space estimate
	SpaceMargin float64

	// SpaceHeadroom is the fixed number of bytes added to the preflight estimate
	SpaceHeadroom int64
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		BatchSize:     DefaultBatchSize,
		Subdir:        DefaultSubdir,
		OnError:       OnErrorSkip,
		MaxRetries:    DefaultMaxRetries,
		SpaceMargin:   DefaultSpaceMargin,
		SpaceHeadroom: DefaultSpaceHeadroom,
	}
}

// Validate checks if options are valid
func (o *Options) Validate() error {
	if o.Subdir == "" {
		o.Subdir = DefaultSubdir
	}
	if o.OnError == "" {
		o.OnError = OnErrorSkip
	}
	if o.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if o.OnError != OnErrorSkip && o.OnError != OnErrorAbort {
		return ErrInvalidPolicy
	}
	if o.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	return nil
}
