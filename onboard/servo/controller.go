package servo

import (
	"fmt"
	"log"
	"time"

	"github.com/CodedInternet/goservo/onboard/shutdown"
)

type State uint8

const (
	STATE_RUNNING State = iota
	STATE_STOPPING
	STATE_STOPPED
)

func (s State) String() string {
	switch s {
	case STATE_RUNNING:
		return "RUNNING"
	case STATE_STOPPING:
		return "STOPPING"
	case STATE_STOPPED:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

type ExitReason uint8

const (
	EXIT_BOUND      ExitReason = iota // iteration bound reached
	EXIT_TERMINATED                   // termination requested
	EXIT_FAULT                        // hardware write failed
)

func (r ExitReason) String() string {
	switch r {
	case EXIT_BOUND:
		return "bound reached"
	case EXIT_TERMINATED:
		return "termination requested"
	case EXIT_FAULT:
		return "hardware fault"
	default:
		return "UNKNOWN"
	}
}

// Result describes how a run loop ended.
type Result struct {
	Reason ExitReason
	Cycles int // completed write+sleep cycles
}

func (r Result) String() string {
	return fmt.Sprintf("%s after %d cycles", r.Reason, r.Cycles)
}

// Controller holds the servo at PULSE_RUN until the latch is triggered or
// the profile's iteration bound is reached, then releases it.
type Controller struct {
	servo   *Servo
	latch   *shutdown.Latch
	profile Profile
	sleep   Sleeper
	state   State

	Debug bool
}

// NewController takes ownership of s. A nil latch never terminates, which
// is how bounded profiles run.
func NewController(s *Servo, latch *shutdown.Latch, profile Profile, sleep Sleeper) *Controller {
	if latch == nil {
		latch = new(shutdown.Latch)
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Controller{
		servo:   s,
		latch:   latch,
		profile: profile,
		sleep:   sleep,
		state:   STATE_RUNNING,
	}
}

func (c *Controller) State() State {
	return c.state
}

// Run drives the loop to completion. The servo is released on every return
// path, including a failed write, and a release failure is reported when
// nothing else went wrong first.
func (c *Controller) Run() (res Result, err error) {
	defer func() {
		c.state = STATE_STOPPING
		if relErr := c.servo.Release(); relErr != nil && err == nil {
			res.Reason = EXIT_FAULT
			err = relErr
		}
		c.state = STATE_STOPPED
	}()

	for {
		if c.latch.Triggered() {
			res.Reason = EXIT_TERMINATED
			return
		}
		if res.Cycles >= c.profile.MaxIterations {
			res.Reason = EXIT_BOUND
			return
		}

		if err = c.servo.SetPulseWidth(PULSE_RUN); err != nil {
			res.Reason = EXIT_FAULT
			return
		}
		if c.Debug {
			log.Printf("[servo] cycle %d: %s", res.Cycles+1, PULSE_RUN)
		}
		c.sleep(c.profile.Interval)
		res.Cycles++
	}
}
