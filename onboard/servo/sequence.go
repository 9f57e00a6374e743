package servo

import (
	"fmt"
	"time"
)

// Step holds the servo at PulseWidth for Hold before the next step is written.
type Step struct {
	PulseWidth time.Duration
	Hold       time.Duration
}

func (s Step) String() string {
	return fmt.Sprintf("%s for %s", s.PulseWidth, s.Hold)
}

// STARTUP_SEQUENCE walks the servo through its full travel and back to
// neutral so the first sustained write is never a large jump.
var STARTUP_SEQUENCE = []Step{
	{PULSE_MAX, 500 * time.Millisecond},
	{PULSE_MIN, 500 * time.Millisecond},
	{PULSE_NEUTRAL, 300 * time.Millisecond},
	{PULSE_MAX, 20 * time.Millisecond},
}

// Sleeper suspends the calling goroutine. time.Sleep in production.
type Sleeper func(d time.Duration)

// Calibrate writes each step in order and holds it. The first failed write
// aborts the sequence; the caller must treat that as fatal since the servo
// position is then unknown.
func Calibrate(s *Servo, steps []Step, sleep Sleeper) (err error) {
	if sleep == nil {
		sleep = time.Sleep
	}

	for i, step := range steps {
		if err = s.SetPulseWidth(step.PulseWidth); err != nil {
			return fmt.Errorf("calibration step %d (%s): %w", i+1, step, err)
		}
		sleep(step.Hold)
	}

	return nil
}
