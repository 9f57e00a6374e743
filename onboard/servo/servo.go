package servo

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	derrors "github.com/CodedInternet/goservo/onboard/errors"
	"github.com/CodedInternet/goservo/onboard/pwm"
)

// Calibrated for the ESC/servo on pwm0: 50Hz, 1200-1800µs.
const (
	PERIOD        = 20 * time.Millisecond
	PULSE_MIN     = 1200 * time.Microsecond
	PULSE_NEUTRAL = 1500 * time.Microsecond
	PULSE_MAX     = 1800 * time.Microsecond
	PULSE_RUN     = 1600 * time.Microsecond
)

// PERIOD_CONFIG powers the channel up at PULSE_MAX, matching the first
// calibration step.
var PERIOD_CONFIG = pwm.PeriodConfig{
	Period:     PERIOD,
	PulseWidth: PULSE_MAX,
	Polarity:   pwm.POLARITY_NORMAL,
	Enabled:    true,
}

func InRange(pulse time.Duration) bool {
	return pulse >= PULSE_MIN && pulse <= PULSE_MAX
}

// Servo is the single owner of a PWM channel. Every write is range checked
// and the channel is disabled exactly once through Release.
type Servo struct {
	channel pwm.Channel

	release    sync.Once
	releaseErr error
	released   atomic.Bool
}

func NewServo(channel pwm.Channel) *Servo {
	return &Servo{channel: channel}
}

func (s *Servo) SetPulseWidth(pulse time.Duration) error {
	if !InRange(pulse) {
		return derrors.HardwareWriteError{Op: "set_pulse_width", PulseWidth: pulse, Err: derrors.ERR_PULSE_OUT_OF_RANGE}
	}
	if s.Released() {
		return derrors.HardwareWriteError{Op: "set_pulse_width", PulseWidth: pulse, Err: pwm.ERR_CHANNEL_CLOSED}
	}
	return s.channel.SetPulseWidth(pulse)
}

func (s *Servo) Enable() error {
	if s.Released() {
		return derrors.HardwareWriteError{Op: "enable", Err: pwm.ERR_CHANNEL_CLOSED}
	}
	return s.channel.Enable()
}

// Release disables the output and closes the channel if it is closable. Only
// the first call reaches the hardware; later calls return the same result.
func (s *Servo) Release() error {
	s.release.Do(func() {
		s.releaseErr = s.channel.Disable()
		if closer, ok := s.channel.(io.Closer); ok {
			if err := closer.Close(); err != nil && s.releaseErr == nil {
				s.releaseErr = err
			}
		}
		s.released.Store(true)
	})
	return s.releaseErr
}

func (s *Servo) Released() bool {
	return s.released.Load()
}
