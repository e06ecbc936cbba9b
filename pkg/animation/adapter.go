package animation

import (
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// Sync updates a data source for a frame value.
type Sync func(frame dataset.Value)

// Adapter binds a source to the playback control. Given the frame column
// and the initial frame it applies the initial state and returns the Sync
// that keeps the source up to date.
type Adapter func(frameColumn string, initial dataset.Value) (Sync, error)

// Mode selects which rows of a source are visible for a frame.
type Mode int

const (
	// ExactFrame shows only the rows whose frame equals the current frame.
	ExactFrame Mode = iota
	// UpToFrame shows every row whose frame is at or before the current
	// frame, drawing trails.
	UpToFrame
)

func (m Mode) String() string {
	if m == UpToFrame {
		return "up-to-frame"
	}
	return "exact-frame"
}

// Bind returns an adapter that filters src by frame under the given mode.
//
// When the source rows are ascending by frame, a scan stops at the first
// row past the current frame. Unsorted sources are always scanned fully.
func Bind(src *draw.Source, mode Mode) Adapter {
	return func(frameColumn string, initial dataset.Value) (Sync, error) {
		col, ok := src.Full().Column(frameColumn)
		if !ok {
			return nil, perrors.New(perrors.ErrCodeMapping,
				"source %s has no frame column %q", src.ID, frameColumn)
		}
		sorted := src.Full().IsSortedBy(frameColumn)
		frames := col.Values

		sync := func(frame dataset.Value) {
			src.SetVisible(visibleRows(frames, frame, mode, sorted))
		}
		sync(initial)
		return sync, nil
	}
}

func visibleRows(frames []dataset.Value, frame dataset.Value, mode Mode, sorted bool) []int {
	rows := []int{}
	for i, v := range frames {
		c := dataset.Compare(v, frame)
		if c > 0 && sorted {
			break
		}
		if c == 0 || (mode == UpToFrame && c < 0) {
			rows = append(rows, i)
		}
	}
	return rows
}
