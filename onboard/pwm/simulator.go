package pwm

import (
	"fmt"
	"sync"
	"time"

	derrors "github.com/CodedInternet/goservo/onboard/errors"
)

type OpKind uint8

const (
	OP_SET_PULSE_WIDTH OpKind = iota
	OP_ENABLE
	OP_DISABLE
)

func (k OpKind) String() string {
	switch k {
	case OP_SET_PULSE_WIDTH:
		return "set_pulse_width"
	case OP_ENABLE:
		return "enable"
	case OP_DISABLE:
		return "disable"
	default:
		return "UNKNOWN"
	}
}

// Op is a single attempted operation on a SimulatedChannel.
type Op struct {
	Kind       OpKind
	PulseWidth time.Duration
	Failed     bool
}

func (o Op) String() string {
	if o.Kind == OP_SET_PULSE_WIDTH {
		return fmt.Sprintf("%s(%s)", o.Kind, o.PulseWidth)
	}
	return o.Kind.String()
}

// SimulatedChannel stands in for a PWM chip in -sim mode and in tests. Every
// attempted operation is appended to its log, and Fail can be used to make
// the n-th attempt (0 based, counted across all kinds) return an error.
type SimulatedChannel struct {
	lock    sync.Mutex
	config  PeriodConfig
	enabled bool
	pulse   time.Duration
	ops     []Op

	Fail map[int]error
}

func NewSimulatedChannel(config PeriodConfig) (c *SimulatedChannel, err error) {
	if err = config.Validate(); err != nil {
		return nil, derrors.HardwareInitError{Err: err}
	}

	c = &SimulatedChannel{
		config:  config,
		enabled: config.Enabled,
		pulse:   config.PulseWidth,
		Fail:    make(map[int]error),
	}
	return
}

func (c *SimulatedChannel) PeriodConfig() PeriodConfig {
	return c.config
}

func (c *SimulatedChannel) SetPulseWidth(pulse time.Duration) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.record(OP_SET_PULSE_WIDTH, pulse); err != nil {
		return err
	}
	if pulse < 0 || pulse > c.config.Period {
		c.ops[len(c.ops)-1].Failed = true
		return derrors.HardwareWriteError{Op: OP_SET_PULSE_WIDTH.String(), PulseWidth: pulse, Err: ERR_PULSE_TOO_LONG}
	}

	c.pulse = pulse
	return nil
}

func (c *SimulatedChannel) Enable() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.record(OP_ENABLE, 0); err != nil {
		return err
	}
	c.enabled = true
	return nil
}

func (c *SimulatedChannel) Disable() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.record(OP_DISABLE, 0); err != nil {
		return err
	}
	c.enabled = false
	return nil
}

func (c *SimulatedChannel) Enabled() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.enabled
}

func (c *SimulatedChannel) PulseWidth() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.pulse
}

// Ops returns a copy of the operation log.
func (c *SimulatedChannel) Ops() []Op {
	c.lock.Lock()
	defer c.lock.Unlock()

	ops := make([]Op, len(c.ops))
	copy(ops, c.ops)
	return ops
}

// Count returns how many operations of kind were attempted, optionally
// restricted to a pulse width.
func (c *SimulatedChannel) Count(kind OpKind, pulse ...time.Duration) (n int) {
	for _, op := range c.Ops() {
		if op.Kind != kind {
			continue
		}
		if len(pulse) > 0 && op.PulseWidth != pulse[0] {
			continue
		}
		n++
	}
	return
}

func (c *SimulatedChannel) record(kind OpKind, pulse time.Duration) error {
	index := len(c.ops)
	c.ops = append(c.ops, Op{Kind: kind, PulseWidth: pulse})

	if err, ok := c.Fail[index]; ok {
		c.ops[index].Failed = true
		return derrors.HardwareWriteError{Op: kind.String(), PulseWidth: pulse, Err: err}
	}
	return nil
}
