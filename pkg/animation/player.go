package animation

import (
	"context"
	"time"
)

// Run ticks the control at its frame period until ctx is done. Ticks come
// from a single goroutine, so at most one frame advance is in flight; a
// slow tick delays the next one rather than overlapping it.
func Run(ctx context.Context, c *Control) error {
	ticker := time.NewTicker(c.Period())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}

// PlayOnce plays from the current frame until playback stops at the end
// or ctx is done.
func PlayOnce(ctx context.Context, c *Control) error {
	done := make(chan struct{})
	var closed bool
	remove := c.Observe(func(s State) {
		if !s.Playing && !closed {
			closed = true
			close(done)
		}
	})
	defer remove()
	c.Play()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- Run(ctx, c) }()

	select {
	case <-done:
		cancel()
		<-errc
		return nil
	case err := <-errc:
		return err
	}
}
