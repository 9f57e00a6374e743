//go:build !linux

package pwm

import (
	"time"

	derrors "github.com/CodedInternet/goservo/onboard/errors"
)

const SYSFS_ROOT = "/sys/class/pwm"

// SysfsChannel is only available on linux; use SimulatedChannel elsewhere.
type SysfsChannel struct {
	config PeriodConfig
}

func Open(chip, channel uint, config PeriodConfig) (*SysfsChannel, error) {
	return nil, derrors.HardwareInitError{Chip: chip, Channel: channel, Err: derrors.ERR_UNSUPPORTED}
}

func (c *SysfsChannel) PeriodConfig() PeriodConfig {
	return c.config
}

func (c *SysfsChannel) SetPulseWidth(pulse time.Duration) error {
	return derrors.HardwareWriteError{Op: "set_pulse_width", PulseWidth: pulse, Err: derrors.ERR_UNSUPPORTED}
}

func (c *SysfsChannel) Enable() error {
	return derrors.HardwareWriteError{Op: "enable", Err: derrors.ERR_UNSUPPORTED}
}

func (c *SysfsChannel) Disable() error {
	return derrors.HardwareWriteError{Op: "disable", Err: derrors.ERR_UNSUPPORTED}
}

func (c *SysfsChannel) Close() error {
	return nil
}
