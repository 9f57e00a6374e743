package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ERR_PULSE_OUT_OF_RANGE = errors.New("pulse width outside calibrated range")
	ERR_UNSUPPORTED        = errors.New("pwm hardware is not supported on this platform")
)

// HardwareInitError is returned when a PWM channel could not be configured.
// Nothing has been written to the actuator when this is returned.
type HardwareInitError struct {
	Chip    uint
	Channel uint
	Err     error
}

func (err HardwareInitError) Error() string {
	return fmt.Sprintf("unable to initialise pwm chip %d channel %d: %v", err.Chip, err.Channel, err.Err)
}

func (err HardwareInitError) Unwrap() error {
	return err.Err
}

// HardwareWriteError wraps a failed write to an already configured channel.
type HardwareWriteError struct {
	Op         string
	PulseWidth time.Duration
	Err        error
}

func (err HardwareWriteError) Error() string {
	if len(err.Op) == 0 {
		err.Op = "UNKNOWN"
	}

	if err.PulseWidth > 0 {
		return fmt.Sprintf("pwm %s failed at %s: %v", err.Op, err.PulseWidth, err.Err)
	}
	return fmt.Sprintf("pwm %s failed: %v", err.Op, err.Err)
}

func (err HardwareWriteError) Unwrap() error {
	return err.Err
}

type ConfigError struct {
	Field  string
	Reason string
}

func (err ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", err.Field, err.Reason)
}
