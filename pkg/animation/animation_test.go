package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

func frames(vs ...float64) []dataset.Value {
	out := make([]dataset.Value, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func TestNewControl(t *testing.T) {
	c, err := NewControl(frames(3, 1, 2, 1), 10)
	if err != nil {
		t.Fatalf("NewControl() error: %v", err)
	}
	got := c.Frames()
	if len(got) != 3 || got[0] != 1.0 || got[2] != 3.0 {
		t.Errorf("Frames() = %v, want [1 2 3]", got)
	}
	if c.Period() != 100*time.Millisecond {
		t.Errorf("Period() = %v, want 100ms", c.Period())
	}
	if c.State().Playing {
		t.Error("new control should be paused")
	}

	if _, err := NewControl(nil, 10); !perrors.Is(err, perrors.ErrCodeConfiguration) {
		t.Errorf("NewControl(nil) error = %v, want CONFIGURATION", err)
	}
	if _, err := NewControl(frames(1), 0); !perrors.Is(err, perrors.ErrCodeConfiguration) {
		t.Errorf("NewControl(rate 0) error = %v, want CONFIGURATION", err)
	}
}

func TestTickWhilePausedIsSuppressed(t *testing.T) {
	c, _ := NewControl(frames(1, 2, 3), 10)
	if c.Tick() {
		t.Error("Tick() while paused should report no change")
	}
	if c.State().Index != 0 {
		t.Errorf("Index = %d, want 0", c.State().Index)
	}
}

func TestTickAdvancesAndRewinds(t *testing.T) {
	c, _ := NewControl(frames(1, 2, 3), 10)
	var seen []dataset.Value
	c.Bind(func(f dataset.Value) { seen = append(seen, f) })

	c.Play()
	c.Tick()
	c.Tick()
	if st := c.State(); st.Frame != 3.0 || !st.Playing {
		t.Fatalf("after two ticks state = %+v", st)
	}

	// Tick at the last frame stops and rewinds.
	c.Tick()
	st := c.State()
	if st.Playing || st.Frame != 1.0 {
		t.Errorf("after end tick state = %+v, want paused at 1", st)
	}

	want := []float64{1, 2, 3, 1}
	if len(seen) != len(want) {
		t.Fatalf("sync calls = %v, want %v", seen, want)
	}
	for i, w := range want {
		if seen[i] != w {
			t.Errorf("sync %d = %v, want %v", i, seen[i], w)
		}
	}
}

func TestPauseKeepsFrame(t *testing.T) {
	c, _ := NewControl(frames(1, 2, 3), 10)
	c.Play()
	c.Tick()
	c.Pause()
	c.Tick()
	if st := c.State(); st.Frame != 2.0 || st.Playing {
		t.Errorf("state = %+v, want paused at 2", st)
	}
	if !c.Toggle() {
		t.Error("Toggle() from paused should start playing")
	}
}

func TestSetAndStep(t *testing.T) {
	c, _ := NewControl(frames(10, 20, 30), 10)

	if err := c.Set(25.0); err != nil {
		t.Fatalf("Set(25) error: %v", err)
	}
	if c.State().Frame != 20.0 {
		t.Errorf("Set(25) snapped to %v, want 20", c.State().Frame)
	}
	if err := c.Set(40.0); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Set(40) error = %v, want INVALID_INPUT", err)
	}

	c.Step(5)
	if c.State().Frame != 30.0 {
		t.Errorf("Step(5) frame = %v, want 30", c.State().Frame)
	}
	c.Step(-10)
	if c.State().Frame != 10.0 {
		t.Errorf("Step(-10) frame = %v, want 10", c.State().Frame)
	}
	if err := c.SetIndex(3); err == nil {
		t.Error("SetIndex(3) should fail")
	}
}

func TestLabels(t *testing.T) {
	c, _ := NewControl(frames(1, 2), 10)
	if got := c.Labels(); got[0] != "1" || got[1] != "2" {
		t.Errorf("default Labels() = %v", got)
	}
	if err := c.SetLabels([]string{"a"}); !perrors.Is(err, perrors.ErrCodeLengthMismatch) {
		t.Errorf("SetLabels(short) error = %v, want LENGTH_MISMATCH", err)
	}
	_ = c.SetLabels([]string{"0.00 s", "0.10 s"})
	if c.State().Label != "0.00 s" {
		t.Errorf("Label = %q", c.State().Label)
	}
}

func source(frameVals ...float64) *draw.Source {
	return draw.NewSource("s", dataset.MustNew(dataset.Floats("frameId", frameVals...)))
}

func TestBindModes(t *testing.T) {
	tests := []struct {
		name   string
		frames []float64
		mode   Mode
		at     float64
		want   []int
	}{
		{"exact sorted", []float64{1, 1, 2, 3}, ExactFrame, 1, []int{0, 1}},
		{"exact unsorted", []float64{2, 1, 3, 1}, ExactFrame, 1, []int{1, 3}},
		{"up to sorted", []float64{1, 2, 3, 4}, UpToFrame, 3, []int{0, 1, 2}},
		{"up to unsorted", []float64{3, 1, 4, 2}, UpToFrame, 2, []int{1, 3}},
		{"no match", []float64{1, 2}, ExactFrame, 5, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source(tt.frames...)
			sync, err := Bind(src, tt.mode)("frameId", tt.at)
			if err != nil {
				t.Fatalf("Bind() error: %v", err)
			}
			got := src.VisibleRows()
			if len(got) != len(tt.want) {
				t.Fatalf("VisibleRows() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("VisibleRows() = %v, want %v", got, tt.want)
				}
			}

			sync(tt.frames[0])
			if len(src.VisibleRows()) == 0 {
				t.Error("sync to an observed frame should show rows")
			}
		})
	}
}

func TestBindMissingColumn(t *testing.T) {
	_, err := Bind(source(1), ExactFrame)("nope", 1.0)
	if !perrors.Is(err, perrors.ErrCodeMapping) {
		t.Errorf("Bind() error = %v, want MAPPING", err)
	}
}

func TestConcurrentTicksAndPause(t *testing.T) {
	c, _ := NewControl(frames(1, 2, 3, 4, 5, 6, 7, 8), 240)
	c.Play()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Tick()
			}
		}()
	}
	c.Pause()
	idx := c.State().Index
	wg.Wait()

	if c.State().Index != idx {
		t.Errorf("frame advanced after pause: %d -> %d", idx, c.State().Index)
	}
}

func TestPlayOnce(t *testing.T) {
	c, _ := NewControl(frames(1, 2, 3), 240)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := PlayOnce(ctx, c); err != nil {
		t.Fatalf("PlayOnce() error: %v", err)
	}
	if st := c.State(); st.Playing || st.Index != 0 {
		t.Errorf("after PlayOnce state = %+v, want paused at first frame", st)
	}

	if err := PlayOnce(ctx, c); err != nil {
		t.Fatalf("second PlayOnce() error: %v", err)
	}
	if n := len(c.observers); n != 0 {
		t.Errorf("observers after two runs = %d, want 0", n)
	}
}

func TestObserveRemove(t *testing.T) {
	c, _ := NewControl(frames(1, 2, 3), 10)
	var a, b int
	removeA := c.Observe(func(State) { a++ })
	c.Observe(func(State) { b++ })

	c.Step(1)
	removeA()
	removeA()
	c.Step(1)

	if a != 1 || b != 2 {
		t.Errorf("calls = (%d, %d), want (1, 2)", a, b)
	}
}
