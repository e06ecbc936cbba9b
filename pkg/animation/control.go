// Package animation drives frame-by-frame playback of a drawn plot.
//
// A [Control] walks the distinct frame values of the plot in ascending
// order. Every change of the current frame is pushed to the registered
// [Sync] functions, which update the visible rows of their sources. The
// control serializes all state changes: a tick that arrives while playback
// is paused does nothing, and reaching the last frame stops playback and
// rewinds to the first.
//
//	ctl, _ := animation.NewControl(frames, 10)
//	sync, _ := animation.Bind(src, animation.ExactFrame)("frameId", ctl.Min())
//	ctl.Bind(sync)
//	ctl.Play()
//	go animation.Run(ctx, ctl)
package animation

import (
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// DefaultRate is the frame rate used when none is configured.
const DefaultRate = 10.0

// State is a snapshot of the playback control.
type State struct {
	Index   int
	Frame   dataset.Value
	Label   string
	Playing bool
	Count   int
}

// Control is the playback state machine. It is safe for concurrent use.
//
// Observers and syncs run while the control's lock is held; they must not
// call back into the control.
type Control struct {
	mu        sync.Mutex
	frames    []dataset.Value
	labels    []string
	index     int
	playing   bool
	period    time.Duration
	syncs     []Sync
	observers []observer
	nextObs   int
}

type observer struct {
	id int
	fn func(State)
}

// NewControl creates a paused control positioned at the first frame.
// frames must be non-empty; they are deduplicated and sorted ascending.
func NewControl(frames []dataset.Value, rate float64) (*Control, error) {
	if err := perrors.ValidateFrameRate(rate); err != nil {
		return nil, err
	}
	sorted := slices.Clone(frames)
	slices.SortStableFunc(sorted, dataset.Compare)
	sorted = slices.CompactFunc(sorted, dataset.Equal)
	if len(sorted) == 0 {
		return nil, perrors.New(perrors.ErrCodeConfiguration, "animation needs at least one frame")
	}
	return &Control{
		frames: sorted,
		period: time.Duration(float64(time.Second) / rate),
	}, nil
}

// SetLabels attaches one display label per frame.
func (c *Control) SetLabels(labels []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(labels) != len(c.frames) {
		return perrors.LengthMismatch("frame labels", len(labels), len(c.frames))
	}
	c.labels = slices.Clone(labels)
	return nil
}

// Bind registers a sync. It is immediately brought to the current frame.
func (c *Control) Bind(s Sync) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncs = append(c.syncs, s)
	s(c.frames[c.index])
}

// Observe registers a function called with the new state after every
// change. The returned function unregisters it; it must not be called
// from inside an observer.
func (c *Control) Observe(fn func(State)) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObs
	c.nextObs++
	c.observers = append(c.observers, observer{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.observers = slices.DeleteFunc(c.observers, func(o observer) bool { return o.id == id })
	}
}

// Frames returns the ordered distinct frame values.
func (c *Control) Frames() []dataset.Value {
	return slices.Clone(c.frames)
}

// Labels returns the per-frame labels, formatting frame values when no
// labels were set.
func (c *Control) Labels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.frames))
	for i := range c.frames {
		out[i] = c.label(i)
	}
	return out
}

// Min returns the first frame.
func (c *Control) Min() dataset.Value { return c.frames[0] }

// Max returns the last frame.
func (c *Control) Max() dataset.Value { return c.frames[len(c.frames)-1] }

// Period returns the time between frames during playback.
func (c *Control) Period() time.Duration { return c.period }

// State returns the current state.
func (c *Control) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

// Set moves to the given frame value. Values between observed frames snap
// to the closest earlier frame. Values outside [Min, Max] are rejected.
func (c *Control) Set(frame dataset.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if dataset.Compare(frame, c.frames[0]) < 0 || dataset.Compare(frame, c.frames[len(c.frames)-1]) > 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "frame %s outside [%s, %s]",
			dataset.Format(frame), dataset.Format(c.frames[0]), dataset.Format(c.frames[len(c.frames)-1]))
	}
	i, found := slices.BinarySearchFunc(c.frames, frame, dataset.Compare)
	if !found {
		i--
	}
	c.moveTo(i)
	return nil
}

// SetIndex moves to the frame at index i.
func (c *Control) SetIndex(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.frames) {
		return perrors.New(perrors.ErrCodeInvalidInput, "frame index %d out of range [0, %d)", i, len(c.frames))
	}
	c.moveTo(i)
	return nil
}

// Step moves delta frames, clamped to the frame range.
func (c *Control) Step(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveTo(max(0, min(len(c.frames)-1, c.index+delta)))
}

// Play starts playback.
func (c *Control) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		c.playing = true
		c.notify()
	}
}

// Pause stops playback without moving the current frame. Once Pause
// returns no further tick advances the frame until playback resumes.
func (c *Control) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.playing = false
		c.notify()
	}
}

// Toggle flips between playing and paused and returns the new playing
// state.
func (c *Control) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = !c.playing
	c.notify()
	return c.playing
}

// Tick advances playback by one frame. It does nothing while paused. At
// the last frame it stops playback and rewinds to the first frame. It
// reports whether the control changed.
func (c *Control) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return false
	}
	if c.index == len(c.frames)-1 {
		c.playing = false
		c.moveTo(0)
		return true
	}
	c.moveTo(c.index + 1)
	return true
}

func (c *Control) moveTo(i int) {
	c.index = i
	frame := c.frames[i]
	for _, s := range c.syncs {
		s(frame)
	}
	c.notify()
}

func (c *Control) notify() {
	st := c.state()
	for _, o := range c.observers {
		o.fn(st)
	}
}

func (c *Control) state() State {
	return State{
		Index:   c.index,
		Frame:   c.frames[c.index],
		Label:   c.label(c.index),
		Playing: c.playing,
		Count:   len(c.frames),
	}
}

func (c *Control) label(i int) string {
	if c.labels != nil {
		return c.labels[i]
	}
	return dataset.Format(c.frames[i])
}
