package pwm

import (
	"errors"
	"time"
)

type Polarity uint8

const (
	POLARITY_NORMAL Polarity = iota
	POLARITY_INVERSED
)

func (p Polarity) String() string {
	switch p {
	case POLARITY_NORMAL:
		return "normal"
	case POLARITY_INVERSED:
		return "inversed"
	default:
		return "UNKNOWN"
	}
}

var (
	ERR_BAD_PERIOD       = errors.New("period must be greater than zero")
	ERR_PULSE_TOO_LONG   = errors.New("pulse width exceeds period")
	ERR_CHANNEL_CLOSED   = errors.New("pwm channel has been closed")
	ERR_EXPORT_TIMEOUT   = errors.New("timed out waiting for exported pwm channel")
	ERR_UNKNOWN_POLARITY = errors.New("unknown polarity")
)

// PeriodConfig is supplied once when a channel is created and never changes.
type PeriodConfig struct {
	Period     time.Duration
	PulseWidth time.Duration // initial pulse width
	Polarity   Polarity
	Enabled    bool // enable the output once configured
}

func (c PeriodConfig) Validate() error {
	if c.Period <= 0 {
		return ERR_BAD_PERIOD
	}
	if c.PulseWidth < 0 || c.PulseWidth > c.Period {
		return ERR_PULSE_TOO_LONG
	}
	if c.Polarity > POLARITY_INVERSED {
		return ERR_UNKNOWN_POLARITY
	}
	return nil
}

// Channel is a single hardware PWM output.
// Implementations are not safe for concurrent use; a channel has one owner.
type Channel interface {
	SetPulseWidth(pulse time.Duration) error
	Enable() error
	// Disable must succeed on an already disabled channel.
	Disable() error
}
