//go:build linux

package pwm

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	derrors "github.com/CodedInternet/goservo/onboard/errors"
	"golang.org/x/sys/unix"
)

const (
	SYSFS_ROOT      = "/sys/class/pwm"
	EXPORT_TIMEOUT  = time.Second
	EXPORT_INTERVAL = 10 * time.Millisecond
)

// SysfsChannel drives a PWM channel through the kernel pwm class interface.
type SysfsChannel struct {
	root     string
	chip     uint
	channel  uint
	config   PeriodConfig
	exported bool // we exported the channel and are responsible for unexporting it
	closed   bool
}

// Open exports and configures pwmchip<chip>/pwm<channel>. The channel is left
// enabled at config.PulseWidth when config.Enabled is set.
func Open(chip, channel uint, config PeriodConfig) (*SysfsChannel, error) {
	return openAt(SYSFS_ROOT, chip, channel, config)
}

func openAt(root string, chip, channel uint, config PeriodConfig) (c *SysfsChannel, err error) {
	fail := func(cause error) (*SysfsChannel, error) {
		return nil, derrors.HardwareInitError{Chip: chip, Channel: channel, Err: cause}
	}

	if err = config.Validate(); err != nil {
		return fail(err)
	}

	c = &SysfsChannel{
		root:    root,
		chip:    chip,
		channel: channel,
		config:  config,
	}

	if err = c.export(); err != nil {
		return fail(err)
	}

	// polarity is only writable while disabled and duty_cycle may never exceed period
	attrs := []struct{ name, value string }{
		{"enable", "0"},
		{"duty_cycle", "0"},
		{"period", nanos(config.Period)},
		{"duty_cycle", nanos(config.PulseWidth)},
		{"polarity", config.Polarity.String()},
	}
	if config.Enabled {
		attrs = append(attrs, struct{ name, value string }{"enable", "1"})
	}

	for _, attr := range attrs {
		if err = c.writeAttr(attr.name, attr.value); err != nil {
			c.unexport()
			return fail(err)
		}
	}

	return c, nil
}

func (c *SysfsChannel) PeriodConfig() PeriodConfig {
	return c.config
}

func (c *SysfsChannel) SetPulseWidth(pulse time.Duration) error {
	if pulse < 0 || pulse > c.config.Period {
		return derrors.HardwareWriteError{Op: "set_pulse_width", PulseWidth: pulse, Err: ERR_PULSE_TOO_LONG}
	}
	return c.write("set_pulse_width", pulse, "duty_cycle", nanos(pulse))
}

func (c *SysfsChannel) Enable() error {
	return c.write("enable", 0, "enable", "1")
}

func (c *SysfsChannel) Disable() error {
	return c.write("disable", 0, "enable", "0")
}

// Close unexports the channel if Open exported it. It does not disable the
// output; owners call Disable first.
func (c *SysfsChannel) Close() (err error) {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.unexport()
}

func (c *SysfsChannel) write(op string, pulse time.Duration, name, value string) error {
	if c.closed {
		return derrors.HardwareWriteError{Op: op, PulseWidth: pulse, Err: ERR_CHANNEL_CLOSED}
	}
	if err := c.writeAttr(name, value); err != nil {
		return derrors.HardwareWriteError{Op: op, PulseWidth: pulse, Err: err}
	}
	return nil
}

func (c *SysfsChannel) chipPath() string {
	return filepath.Join(c.root, fmt.Sprintf("pwmchip%d", c.chip))
}

func (c *SysfsChannel) channelPath() string {
	return filepath.Join(c.chipPath(), fmt.Sprintf("pwm%d", c.channel))
}

func (c *SysfsChannel) ready() bool {
	return unix.Access(filepath.Join(c.channelPath(), "enable"), unix.W_OK) == nil
}

func (c *SysfsChannel) export() error {
	if c.ready() {
		return nil
	}

	if err := writeFile(filepath.Join(c.chipPath(), "export"), strconv.FormatUint(uint64(c.channel), 10)); err != nil {
		return err
	}
	c.exported = true

	// udev may still be adjusting permissions after the directory appears
	deadline := time.Now().Add(EXPORT_TIMEOUT)
	for !c.ready() {
		if time.Now().After(deadline) {
			return ERR_EXPORT_TIMEOUT
		}
		time.Sleep(EXPORT_INTERVAL)
	}

	return nil
}

func (c *SysfsChannel) unexport() error {
	if !c.exported {
		return nil
	}
	c.exported = false
	return writeFile(filepath.Join(c.chipPath(), "unexport"), strconv.FormatUint(uint64(c.channel), 10))
}

func (c *SysfsChannel) writeAttr(name, value string) error {
	return writeFile(filepath.Join(c.channelPath(), name), value)
}

func writeFile(path, value string) (err error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_TRUNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	if _, err = unix.Write(fd, []byte(value)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func nanos(d time.Duration) string {
	return strconv.FormatInt(d.Nanoseconds(), 10)
}
