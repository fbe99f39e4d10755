// pkg/extract/errors.go
package extract

import "errors"

var (
	// ErrInvalidBatchSize is returned when the batch size is not positive
	ErrInvalidBatchSize = errors.New("batch size must be > 0")

	// ErrInvalidPolicy is returned for an unknown on-error policy value
	ErrInvalidPolicy = errors.New(`on-error policy must be "skip" or "abort"`)

	// ErrInvalidRetries is returned when max retries is negative
	ErrInvalidRetries = errors.New("max retries must be >= 0")

	// ErrNoCandidates is returned when the filter matches no archive member
	ErrNoCandidates = errors.New("no files match the requested filter")

	// ErrNoState is returned by Resume when no state file exists
	ErrNoState = errors.New("no saved extraction state to resume")

	// ErrStateConflict is returned when saved state belongs to a different
	// archive, base directory or filter than the one being initialized
	ErrStateConflict = errors.New("saved state is incompatible")

	// ErrInsufficientSpace is returned when the preflight check predicts the
	// batch will not fit in the free space of the extraction directory
	ErrInsufficientSpace = errors.New("insufficient free space in extraction directory")

	// ErrUnsafeMember is returned (under the abort policy) for member names
	// that could escape the extraction directory
	ErrUnsafeMember = errors.New("unsafe member name")

	// ErrNotActive is returned when the extractor is used before Initialize/Resume
	ErrNotActive = errors.New("extractor is not initialized")

	// ErrExhausted signals that every batch has been extracted. It is the
	// terminal condition of the iteration, not a failure.
	ErrExhausted = errors.New("no more batches")

	// ErrChecksum is returned by verified extraction when the decompressed
	// stream does not match the member's recorded CRC
	ErrChecksum = errors.New("checksum mismatch")
)
