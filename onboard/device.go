package onboard

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/CodedInternet/goservo/onboard/config"
	"github.com/CodedInternet/goservo/onboard/pwm"
	"github.com/CodedInternet/goservo/onboard/servo"
	"github.com/CodedInternet/goservo/onboard/shutdown"
)

var (
	ErrNotOpen = errors.New("servo has not been opened")
)

// Opener creates the hardware channel for a configured chip/channel.
type Opener func(chip, channel uint, period pwm.PeriodConfig) (pwm.Channel, error)

// Stopper is returned by an installed termination monitor.
type Stopper interface {
	Stop()
}

// Installer starts delivering termination requests to the latch.
type Installer func(latch *shutdown.Latch) Stopper

func pwmName(chip, channel uint) string {
	return fmt.Sprintf("pwmchip%d/pwm%d", chip, channel)
}

func openSysfs(chip, channel uint, period pwm.PeriodConfig) (pwm.Channel, error) {
	c, err := pwm.Open(chip, channel, period)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func openRpio(chip, channel uint, period pwm.PeriodConfig) (pwm.Channel, error) {
	c, err := pwm.OpenRpio(chip, channel, period)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// OPENERS are the hardware drivers selectable in the config.
var OPENERS = map[string]Opener{
	config.DRIVER_RPIO:  openRpio,
	config.DRIVER_SYSFS: openSysfs,
}

func installSignals(latch *shutdown.Latch) Stopper {
	return shutdown.Install(latch)
}

// ServoDevice owns the servo for one process run: open, calibrate, hold the
// run pulse, release.
type ServoDevice struct {
	Config  config.ServoConfig
	Profile servo.Profile
	Debug   bool

	open    Opener
	install Installer
	sleep   servo.Sleeper

	servo *servo.Servo
	last  *servo.Result
}

func NewServoDevice(c config.ServoConfig) (d *ServoDevice, err error) {
	if err = c.Validate(); err != nil {
		return
	}

	profile, err := servo.ProfileByName(c.Profile)
	if err != nil {
		return
	}

	d = &ServoDevice{
		Config:  c,
		Profile: profile,
		open:    OPENERS[c.Driver],
		install: installSignals,
		sleep:   time.Sleep,
	}

	if c.Simulated {
		d.open = openSimulated
	}

	return
}

// Open creates the channel at the power up pulse. A previously released
// servo is replaced.
func (d *ServoDevice) Open() (err error) {
	if d.servo != nil && !d.servo.Released() {
		return nil
	}

	channel, err := d.open(d.Config.Chip, d.Config.Channel, servo.PERIOD_CONFIG)
	if err != nil {
		return
	}

	d.servo = servo.NewServo(channel)
	log.Printf("[servo] opened %s at %s", pwmName(d.Config.Chip, d.Config.Channel), servo.PERIOD_CONFIG.PulseWidth)
	return nil
}

func (d *ServoDevice) Calibrate() error {
	if d.servo == nil || d.servo.Released() {
		return ErrNotOpen
	}

	log.Printf("[servo] calibrating (%d steps)", len(servo.STARTUP_SEQUENCE))
	return servo.Calibrate(d.servo, servo.STARTUP_SEQUENCE, d.sleep)
}

// Loop holds the run pulse until the profile ends. The servo is released
// when Loop returns, whatever the outcome.
func (d *ServoDevice) Loop() (res servo.Result, err error) {
	if d.servo == nil || d.servo.Released() {
		return res, ErrNotOpen
	}

	var latch *shutdown.Latch
	if d.Profile.WatchSignals {
		latch = new(shutdown.Latch)
		monitor := d.install(latch)
		defer monitor.Stop()
		log.Printf("[servo] termination monitor installed")
	}

	c := servo.NewController(d.servo, latch, d.Profile, d.sleep)
	c.Debug = d.Debug

	log.Printf("[servo] running profile %s", d.Profile)
	res, err = c.Run()
	d.last = &res
	log.Printf("[servo] stopped: %s", res)
	return
}

// Run is the whole process lifecycle. The servo is released on every path
// once it has been opened.
func (d *ServoDevice) Run() (res servo.Result, err error) {
	if err = d.Open(); err != nil {
		return
	}
	defer func() {
		if relErr := d.Release(); relErr != nil && err == nil {
			err = relErr
		}
	}()

	if err = d.Calibrate(); err != nil {
		res.Reason = servo.EXIT_FAULT
		return
	}

	return d.Loop()
}

// Release disables the output. Safe to call at any time and repeatedly.
func (d *ServoDevice) Release() error {
	if d.servo == nil {
		return nil
	}
	return d.servo.Release()
}

func (d *ServoDevice) Status() string {
	state := "closed"
	if d.servo != nil {
		state = "open"
		if d.servo.Released() {
			state = "released"
		}
	}

	status := fmt.Sprintf("%s %s, profile %s", pwmName(d.Config.Chip, d.Config.Channel), state, d.Profile)
	if d.last != nil {
		status += fmt.Sprintf(", last run: %s", *d.last)
	}
	return status
}

// ExitCode maps a run outcome to a process exit status. A requested
// termination is a clean exit.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
