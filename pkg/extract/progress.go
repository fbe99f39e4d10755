// pkg/extract/progress.go
package extract

import (
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressCallback is called for progress updates during extraction
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type   EventType
	Member string // archive member name
	Path   string // extracted path on disk (EventFileComplete)
	Err    error  // EventFileError
	Total  int    // total members remaining in the run (EventStart)
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventBatchStart
	EventFileStart
	EventFileComplete
	EventFileError
	EventBatchComplete
)

// ProgressBarCallback creates a progress callback that displays a progress
// bar over the members of the current run.
// Returns the callback and the progress container (call Wait() when done).
func ProgressBarCallback() (ProgressCallback, *mpb.Progress) {
	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100),
	)

	var bar *mpb.Bar

	callback := func(event ProgressEvent) {
		switch event.Type {
		case EventStart:
			bar = progress.AddBar(int64(event.Total),
				mpb.PrependDecorators(
					decor.Name("Extracting", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Percentage(decor.WC{W: 5}),
				),
			)

		case EventFileComplete, EventFileError:
			if bar != nil {
				bar.Increment()
			}
		}
	}

	return callback, progress
}
