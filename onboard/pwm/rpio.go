package pwm

import (
	"errors"
	"fmt"
	"time"

	derrors "github.com/CodedInternet/goservo/onboard/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// RPIO_PINS maps the Raspberry Pi hardware PWM channels to their default BCM pins.
var RPIO_PINS = map[uint]rpio.Pin{
	0: 18, // PWM0, physical pin 12
	1: 19, // PWM1, physical pin 35
}

// RPIO_MIN_FREQ and RPIO_MAX_FREQ bound the PWM clock go-rpio can produce.
const (
	RPIO_MIN_FREQ = 4688
	RPIO_MAX_FREQ = 19200000
)

var ERR_NO_SUCH_CHANNEL = errors.New("no hardware pwm on this channel")

// rpioPin is the part of rpio.Pin we drive.
type rpioPin interface {
	Mode(mode rpio.Mode)
	Freq(freq int)
	DutyCycle(dutyLen, cycleLen uint32)
	Low()
}

// RpioChannel drives a Raspberry Pi PWM channel through /dev/gpiomem with
// one tick per microsecond, so pulse widths are written as µs counts.
type RpioChannel struct {
	pin      rpioPin
	config   PeriodConfig
	cycleLen uint32
	pulse    time.Duration
	unmap    func() error
	closed   bool
}

// OpenRpio maps GPIO memory and configures the channel. The chip number
// must be 0; the Pi has a single PWM peripheral.
func OpenRpio(chip, channel uint, config PeriodConfig) (*RpioChannel, error) {
	pin, ok := RPIO_PINS[channel]
	if chip != 0 || !ok {
		return nil, derrors.HardwareInitError{Chip: chip, Channel: channel, Err: ERR_NO_SUCH_CHANNEL}
	}
	if err := config.Validate(); err != nil {
		return nil, derrors.HardwareInitError{Chip: chip, Channel: channel, Err: err}
	}

	if err := rpio.Open(); err != nil {
		return nil, derrors.HardwareInitError{Chip: chip, Channel: channel, Err: err}
	}

	c, err := newRpioChannel(pin, config, rpio.Close)
	if err != nil {
		rpio.Close()
		return nil, derrors.HardwareInitError{Chip: chip, Channel: channel, Err: err}
	}
	return c, nil
}

func newRpioChannel(pin rpioPin, config PeriodConfig, unmap func() error) (c *RpioChannel, err error) {
	cycleLen, freq, err := rpioTiming(config.Period)
	if err != nil {
		return
	}

	c = &RpioChannel{
		pin:      pin,
		config:   config,
		cycleLen: cycleLen,
		pulse:    config.PulseWidth,
		unmap:    unmap,
	}

	pin.Mode(rpio.Pwm)
	pin.Freq(freq)
	if config.Enabled {
		pin.DutyCycle(c.dutyLen(c.pulse), c.cycleLen)
	} else {
		c.off()
	}

	return
}

// rpioTiming returns the cycle length in µs ticks and the clock frequency
// that gives that cycle the requested period.
func rpioTiming(period time.Duration) (cycleLen uint32, freq int, err error) {
	if period < time.Microsecond {
		return 0, 0, ERR_BAD_PERIOD
	}

	cycleLen = uint32(period / time.Microsecond)
	freq = int(time.Second/time.Microsecond) // one tick per µs
	if freq < RPIO_MIN_FREQ || freq > RPIO_MAX_FREQ {
		return 0, 0, fmt.Errorf("pwm clock %dHz out of range", freq)
	}
	return
}

func (c *RpioChannel) PeriodConfig() PeriodConfig {
	return c.config
}

func (c *RpioChannel) dutyLen(pulse time.Duration) uint32 {
	duty := uint32(pulse / time.Microsecond)
	if c.config.Polarity == POLARITY_INVERSED {
		return c.cycleLen - duty
	}
	return duty
}

func (c *RpioChannel) SetPulseWidth(pulse time.Duration) error {
	if c.closed {
		return derrors.HardwareWriteError{Op: "set_pulse_width", PulseWidth: pulse, Err: ERR_CHANNEL_CLOSED}
	}
	if pulse < 0 || pulse > c.config.Period {
		return derrors.HardwareWriteError{Op: "set_pulse_width", PulseWidth: pulse, Err: ERR_PULSE_TOO_LONG}
	}

	c.pin.DutyCycle(c.dutyLen(pulse), c.cycleLen)
	c.pulse = pulse
	return nil
}

func (c *RpioChannel) Enable() error {
	if c.closed {
		return derrors.HardwareWriteError{Op: "enable", Err: ERR_CHANNEL_CLOSED}
	}

	c.pin.Mode(rpio.Pwm)
	c.pin.DutyCycle(c.dutyLen(c.pulse), c.cycleLen)
	return nil
}

func (c *RpioChannel) Disable() error {
	if c.closed {
		return derrors.HardwareWriteError{Op: "disable", Err: ERR_CHANNEL_CLOSED}
	}
	c.off()
	return nil
}

// off drops the duty cycle and hands the pin back as a low output.
func (c *RpioChannel) off() {
	c.pin.DutyCycle(0, c.cycleLen)
	c.pin.Mode(rpio.Output)
	c.pin.Low()
}

// Close unmaps GPIO memory. Owners call Disable first.
func (c *RpioChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.unmap()
}
