package onboard

import (
	"errors"
	"log"
	"time"

	derrors "github.com/CodedInternet/goservo/onboard/errors"
	"github.com/CodedInternet/goservo/onboard/pwm"
)

// SimulatedServo logs what would have been written to a real chip.
type SimulatedServo struct {
	*pwm.SimulatedChannel
	name string
}

func (s *SimulatedServo) SetPulseWidth(pulse time.Duration) error {
	log.Printf("[sim] %s pulse width %s", s.name, pulse)
	return s.SimulatedChannel.SetPulseWidth(pulse)
}

func (s *SimulatedServo) Disable() error {
	log.Printf("[sim] %s disabled after %d operations", s.name, len(s.Ops()))
	return s.SimulatedChannel.Disable()
}

func openSimulated(chip, channel uint, period pwm.PeriodConfig) (pwm.Channel, error) {
	c, err := pwm.NewSimulatedChannel(period)
	if err != nil {
		var initErr derrors.HardwareInitError
		if errors.As(err, &initErr) {
			initErr.Chip, initErr.Channel = chip, channel
			return nil, initErr
		}
		return nil, err
	}

	s := &SimulatedServo{SimulatedChannel: c, name: pwmName(chip, channel)}
	log.Printf("[sim] %s configured: period %s, pulse %s, %s polarity, enabled=%t",
		s.name, period.Period, period.PulseWidth, period.Polarity, period.Enabled)
	return s, nil
}
