package bot

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

// Sleeper suspends the single execution context without busy-waiting
// and wakes early on cancellation.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func TimerSleeper() Sleeper { return timerSleeper{} }

func sleepUntil(ctx context.Context, clock Clock, sleeper Sleeper, deadline time.Time) error {
	return sleeper.Sleep(ctx, deadline.Sub(clock.Now()))
}
