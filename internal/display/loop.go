package display

import (
	"context"
	"errors"
	"time"

	"github.com/cder-viz/cder/internal/timeutil"
)

// ErrStop ends Loop.Run without error when returned by a frame.
var ErrStop = errors.New("stop")

// DefaultMaxStep caps the frame step after a stall.
const DefaultMaxStep = 100 * time.Millisecond

// Loop calls a frame function at a fixed rate.
type Loop struct {
	Clock    timeutil.Clock
	Interval time.Duration
	// MaxStep clamps the dt handed to frame. Zero means DefaultMaxStep.
	MaxStep time.Duration
}

// Run calls frame with the time since the previous frame on every tick
// until ctx is done or frame fails. A frame returning ErrStop ends the loop
// cleanly.
func (l *Loop) Run(ctx context.Context, frame func(dt time.Duration) error) error {
	if l.Interval <= 0 {
		return errors.New("loop interval must be positive")
	}
	clock := l.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	maxStep := l.MaxStep
	if maxStep <= 0 {
		maxStep = DefaultMaxStep
	}

	ticker := clock.NewTicker(l.Interval)
	defer ticker.Stop()
	timer := timeutil.NewFrameTimer(clock, maxStep)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			if err := frame(timer.Step()); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
	}
}
