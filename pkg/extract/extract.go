// pkg/extract/extract.go
package extract

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/creativeyann17/go-zipnav/internal/diskfree"
	"github.com/creativeyann17/go-zipnav/internal/vpath"
	"github.com/creativeyann17/go-zipnav/pkg/nav"
)

// Extractor extracts a filtered subset of archive members in fixed-size
// batches, persisting its progress after every batch so a run can be
// interrupted and resumed across process restarts.
//
// The extraction directory holds at most one batch of files at a time: each
// Next call clears it before writing the new batch. The directory is assumed
// to be owned by a single Extractor; concurrent use of the same directory by
// two instances is undefined, no locking is provided.
type Extractor struct {
	nav *nav.Navigator

	active     bool
	extractDir string
	statePath  string
	baseAtInit string

	order     []string
	cursor    int
	batchSize int
	seed      int64

	extensions []string
	exclude    []string
	matcher    *ignore.GitIgnore

	onError     string
	maxRetries  int
	validateCRC bool
	failed      []string

	spaceMargin   float64
	spaceHeadroom int64

	progress ProgressCallback
}

// New creates an extractor over an open archive navigator. The navigator
// stays owned by the caller and must outlive the extractor.
func New(n *nav.Navigator) *Extractor {
	return &Extractor{
		nav:           n,
		onError:       OnErrorSkip,
		maxRetries:    DefaultMaxRetries,
		spaceMargin:   DefaultSpaceMargin,
		spaceHeadroom: DefaultSpaceHeadroom,
	}
}

// SetProgress installs a callback receiving extraction progress events.
func (e *Extractor) SetProgress(cb ProgressCallback) {
	e.progress = cb
}

func (e *Extractor) emit(ev ProgressEvent) {
	if e.progress != nil {
		e.progress(ev)
	}
}

// Initialize prepares a batched extraction run rooted at the navigator's
// current base directory.
//
// When a compatible state file already exists (and Reset was not requested)
// the run is loaded and resumed in place; the persisted failure policy then
// wins over the option values, so a resumed run behaves like the original.
// Otherwise a fresh candidate list is scanned, filtered, shuffled with the
// seed and persisted before the first batch.
func (e *Extractor) Initialize(opts *Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	extensions := vpath.NormalizeExtensions(opts.Extensions)

	extractDir, err := filepath.Abs(filepath.Join(opts.OutputDir, opts.Subdir))
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	statePath := filepath.Join(extractDir, StateFileName)

	if opts.Reset {
		if err := os.RemoveAll(extractDir); err != nil {
			return fmt.Errorf("reset extraction dir: %w", err)
		}
	}
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return fmt.Errorf("create extraction dir: %w", err)
	}

	e.extractDir = extractDir
	e.statePath = statePath
	e.baseAtInit = e.nav.Base()
	e.spaceMargin = opts.SpaceMargin
	e.spaceHeadroom = opts.SpaceHeadroom

	if !opts.Reset {
		if _, err := os.Stat(statePath); err == nil {
			st, err := loadState(statePath)
			if err != nil {
				return err
			}
			if st.ZipPath != e.nav.Path() {
				return fmt.Errorf("%w: state belongs to archive %s", ErrStateConflict, st.ZipPath)
			}
			if st.BaseAtInit != e.baseAtInit {
				return fmt.Errorf("%w: state was initialized at %q, current base is %q",
					ErrStateConflict, st.BaseAtInit, e.baseAtInit)
			}
			if !slices.Equal(normalizeList(st.Extensions), extensions) {
				return fmt.Errorf("%w: extension filter differs from the saved one", ErrStateConflict)
			}
			if !slices.Equal(normalizeList(st.Exclude), normalizeList(opts.Exclude)) {
				return fmt.Errorf("%w: exclude patterns differ from the saved ones", ErrStateConflict)
			}
			e.adopt(st)
			e.active = true
			return nil
		}
	}

	// Fresh run: scan, filter, shuffle, persist.
	candidates, err := e.nav.ScanFilesUnder("")
	if err != nil {
		return err
	}

	var matcher *ignore.GitIgnore
	if len(opts.Exclude) > 0 {
		matcher = ignore.CompileIgnoreLines(opts.Exclude...)
	}

	order := make([]string, 0, len(candidates))
	for _, m := range candidates {
		if !vpath.IsSafeMember(m) {
			continue
		}
		if extensions != nil && !slices.Contains(extensions, vpath.Ext(m)) {
			continue
		}
		if matcher != nil && matcher.MatchesPath(e.relToBase(m)) {
			continue
		}
		order = append(order, m)
	}
	if len(order) == 0 {
		return fmt.Errorf("%w (base %q)", ErrNoCandidates, vpath.Render(e.baseAtInit))
	}

	seed := opts.Seed
	if seed <= 0 {
		seed = 1 + rand.New(rand.NewSource(time.Now().UnixNano())).Int63n(math.MaxInt64-1)
	}
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	e.order = order
	e.cursor = 0
	e.batchSize = opts.BatchSize
	e.seed = seed
	e.extensions = extensions
	e.exclude = slices.Clone(opts.Exclude)
	e.matcher = matcher
	e.onError = opts.OnError
	e.maxRetries = opts.MaxRetries
	e.validateCRC = opts.ValidateCRC
	e.failed = nil

	if err := e.saveCurrent(); err != nil {
		return err
	}
	e.active = true
	return nil
}

// Resume restores a run directly from its state file, without a prior
// Initialize in this process. The persisted base directory becomes the live
// navigation base when they differ.
func (e *Extractor) Resume(outputDir, subdir string) error {
	if subdir == "" {
		subdir = DefaultSubdir
	}
	extractDir, err := filepath.Abs(filepath.Join(outputDir, subdir))
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	statePath := filepath.Join(extractDir, StateFileName)

	if _, err := os.Stat(statePath); err != nil {
		return ErrNoState
	}
	st, err := loadState(statePath)
	if err != nil {
		return err
	}
	if st.ZipPath != e.nav.Path() {
		return fmt.Errorf("%w: state belongs to archive %s", ErrStateConflict, st.ZipPath)
	}

	e.extractDir = extractDir
	e.statePath = statePath
	e.baseAtInit = st.BaseAtInit
	if e.nav.Base() != st.BaseAtInit {
		e.nav.SetBase(st.BaseAtInit)
	}
	e.adopt(st)
	e.active = true
	return nil
}

// adopt installs a deserialized state as the live run.
func (e *Extractor) adopt(st *state) {
	e.order = st.Order
	e.cursor = st.Cursor
	e.batchSize = st.BatchSize
	e.seed = st.Seed
	e.failed = slices.Clone(st.Failed)

	e.extensions = normalizeList(st.Extensions)
	e.exclude = slices.Clone(st.Exclude)
	e.matcher = nil
	if len(e.exclude) > 0 {
		e.matcher = ignore.CompileIgnoreLines(e.exclude...)
	}

	if st.OnError != "" {
		e.onError = st.OnError
	}
	e.maxRetries = st.MaxRetries
	e.validateCRC = st.ValidateCRC
}

// HasNext reports whether Next will yield another batch.
func (e *Extractor) HasNext() bool {
	return e.active && e.cursor < len(e.order)
}

// Next extracts the next batch and returns the paths of the files it wrote.
//
// The extraction directory is cleared first, so at most one batch lives on
// disk at a time. Under the skip policy failed members are recorded and the
// batch continues (an empty result is valid); under abort the first failure
// is returned with the cursor unadvanced, leaving the previous state valid
// and resumable. Exhaustion is signaled with ErrExhausted.
func (e *Extractor) Next() ([]string, error) {
	if !e.active {
		return nil, ErrNotActive
	}
	if e.cursor >= len(e.order) {
		return nil, ErrExhausted
	}

	end := min(e.cursor+e.batchSize, len(e.order))
	batch := e.order[e.cursor:end]

	e.emit(ProgressEvent{Type: EventBatchStart})

	if err := e.clearExtractDir(); err != nil {
		return nil, err
	}
	if err := e.preflight(batch); err != nil {
		return nil, err
	}

	okPaths, failedNow, err := e.extractMembers(batch)
	if err != nil {
		return nil, err
	}

	e.cursor = end
	for _, m := range failedNow {
		if !slices.Contains(e.failed, m) {
			e.failed = append(e.failed, m)
		}
	}
	if err := e.saveCurrent(); err != nil {
		return nil, err
	}

	e.emit(ProgressEvent{Type: EventBatchComplete})
	return okPaths, nil
}

// extractMembers attempts every member of the batch in order, honoring the
// retry count and the failure policy.
func (e *Extractor) extractMembers(batch []string) (okPaths, failed []string, err error) {
	for _, m := range batch {
		if !vpath.IsSafeMember(m) {
			failed = append(failed, m)
			e.emit(ProgressEvent{Type: EventFileError, Member: m, Err: ErrUnsafeMember})
			if e.onError == OnErrorAbort {
				return nil, nil, fmt.Errorf("%w: %s", ErrUnsafeMember, m)
			}
			continue
		}

		e.emit(ProgressEvent{Type: EventFileStart, Member: m})

		var lastErr error
		for attempt := 0; attempt <= e.maxRetries; attempt++ {
			var path string
			path, lastErr = e.extractOne(m)
			if lastErr == nil {
				okPaths = append(okPaths, path)
				e.emit(ProgressEvent{Type: EventFileComplete, Member: m, Path: path})
				break
			}
		}
		if lastErr != nil {
			failed = append(failed, m)
			e.emit(ProgressEvent{Type: EventFileError, Member: m, Err: lastErr})
			if e.onError == OnErrorAbort {
				return nil, nil, fmt.Errorf("extract %s: %w", m, lastErr)
			}
		}
	}
	return okPaths, failed, nil
}

// extractOne writes a single member under the extraction directory and
// returns the absolute path it wrote.
func (e *Extractor) extractOne(member string) (string, error) {
	f, ok := e.nav.Member(member)
	if !ok {
		return "", fmt.Errorf("%s: %w", member, nav.ErrNotFound)
	}

	dest := filepath.Join(e.extractDir, filepath.FromSlash(member))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("mkdir for %s: %w", member, err)
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", member, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}

	if e.validateCRC {
		err = copyVerified(out, rc, f.CRC32)
	} else {
		_, err = io.CopyBuffer(out, rc, make([]byte, 32*1024))
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", member, err)
	}
	return dest, nil
}

// copyVerified streams the decompressed bytes in fixed-size chunks and
// checks them against the member's recorded CRC. The underlying reader
// already raises on most corruption; the explicit check also catches
// entries whose stored CRC was never verified by the decompressor.
func copyVerified(dst io.Writer, src io.Reader, want uint32) error {
	sum := crc32.NewIEEE()
	buf := make([]byte, 1<<20)
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			sum.Write(buf[:nr])
			if _, werr := dst.Write(buf[:nr]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}
	if sum.Sum32() != want {
		return fmt.Errorf("%w: got %08x, want %08x", ErrChecksum, sum.Sum32(), want)
	}
	return nil
}

// preflight estimates the decompressed size of the batch and fails before
// any write when the extraction directory's free space cannot hold it.
func (e *Extractor) preflight(batch []string) error {
	var total uint64
	for _, m := range batch {
		if f, ok := e.nav.Member(m); ok {
			total += f.UncompressedSize64
		}
	}
	needed := uint64(float64(total)*(1+e.spaceMargin)) + uint64(e.spaceHeadroom)
	free, err := diskfree.FreeBytes(e.extractDir)
	if err != nil {
		return fmt.Errorf("query free space: %w", err)
	}
	if free < needed {
		return fmt.Errorf("%w: need ~%.1f MB, free ~%.1f MB",
			ErrInsufficientSpace, float64(needed)/1e6, float64(free)/1e6)
	}
	return nil
}

// clearExtractDir removes everything from the extraction directory except
// the state file, so a batch never mixes with leftovers of the previous one.
func (e *Extractor) clearExtractDir() error {
	entries, err := os.ReadDir(e.extractDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("clear extraction dir: %w", err)
	}
	for _, ent := range entries {
		name := ent.Name()
		if name == StateFileName || name == StateFileName+".tmp" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(e.extractDir, name)); err != nil {
			return fmt.Errorf("clear extraction dir: %w", err)
		}
	}
	return nil
}

// Reset deletes the extracted files and the state file (best effort) and
// returns the extractor to its uninitialized defaults.
func (e *Extractor) Reset() error {
	if e.extractDir != "" {
		if _, err := os.Stat(e.extractDir); err == nil {
			if err := e.clearExtractDir(); err != nil {
				return err
			}
			// missing state file is fine
			if err := os.Remove(e.statePath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove state: %w", err)
			}
		}
	}

	e.active = false
	e.extractDir = ""
	e.statePath = ""
	e.baseAtInit = ""
	e.order = nil
	e.cursor = 0
	e.batchSize = 0
	e.seed = 0
	e.extensions = nil
	e.exclude = nil
	e.matcher = nil
	e.failed = nil
	e.onError = OnErrorSkip
	e.maxRetries = DefaultMaxRetries
	e.validateCRC = false
	return nil
}

func (e *Extractor) saveCurrent() error {
	return saveState(e.statePath, &state{
		ZipPath:     e.nav.Path(),
		BaseAtInit:  e.baseAtInit,
		Order:       e.order,
		Cursor:      e.cursor,
		BatchSize:   e.batchSize,
		ExtractDir:  e.extractDir,
		Seed:        e.seed,
		Extensions:  e.extensions,
		Exclude:     e.exclude,
		Failed:      e.failed,
		OnError:     e.onError,
		MaxRetries:  e.maxRetries,
		ValidateCRC: e.validateCRC,
	})
}

// relToBase strips the base-at-init prefix from a member name, for exclude
// pattern matching relative to the base directory.
func (e *Extractor) relToBase(member string) string {
	if e.baseAtInit == "" {
		return member
	}
	return strings.TrimPrefix(member, e.baseAtInit+"/")
}

func normalizeList(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
