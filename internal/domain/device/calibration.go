package device

import (
	"context"
	"sync"
	"time"
)

// DefaultCalibrationDelay is how long a simulated calibration takes.
const DefaultCalibrationDelay = 2500 * time.Millisecond

// Calibrator performs the calibration of a single device. It must return
// when ctx is cancelled.
type Calibrator interface {
	Calibrate(ctx context.Context, d Device) error
}

// SimulatedCalibrator waits for Delay and always succeeds.
type SimulatedCalibrator struct {
	Delay time.Duration
}

func (s SimulatedCalibrator) Calibrate(ctx context.Context, _ Device) error {
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultCalibrationDelay
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner runs background tasks on their own goroutines until Close.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewRunner() *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{ctx: ctx, cancel: cancel}
}

// Go starts task on a new goroutine. It returns false without running task
// once the runner is closed.
func (r *Runner) Go(task func(ctx context.Context)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		task(r.ctx)
	}()
	return true
}

// Close cancels running tasks and waits for them to return.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	r.wg.Wait()
}
