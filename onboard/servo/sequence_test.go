package servo

import (
	"errors"
	"testing"
	"time"

	"github.com/CodedInternet/goservo/onboard/pwm"
	. "github.com/smartystreets/goconvey/convey"
)

// recordingSleeper records every sleep together with the number of channel
// operations that had happened when it started.
type recordingSleeper struct {
	channel *pwm.SimulatedChannel
	sleeps  []time.Duration
	opsAt   []int
	onSleep func(n int)
}

func (r *recordingSleeper) sleep(d time.Duration) {
	r.sleeps = append(r.sleeps, d)
	r.opsAt = append(r.opsAt, len(r.channel.Ops()))
	if r.onSleep != nil {
		r.onSleep(len(r.sleeps))
	}
}

func TestCalibrate(t *testing.T) {
	Convey("the startup sequence is executed in order", t, func() {
		channel := newTestChannel()
		sleeper := &recordingSleeper{channel: channel}

		err := Calibrate(NewServo(channel), STARTUP_SEQUENCE, sleeper.sleep)
		So(err, ShouldBeNil)

		So(channel.Ops(), ShouldResemble, []pwm.Op{
			{Kind: pwm.OP_SET_PULSE_WIDTH, PulseWidth: PULSE_MAX},
			{Kind: pwm.OP_SET_PULSE_WIDTH, PulseWidth: PULSE_MIN},
			{Kind: pwm.OP_SET_PULSE_WIDTH, PulseWidth: PULSE_NEUTRAL},
			{Kind: pwm.OP_SET_PULSE_WIDTH, PulseWidth: PULSE_MAX},
		})
		So(sleeper.sleeps, ShouldResemble, []time.Duration{
			500 * time.Millisecond,
			500 * time.Millisecond,
			300 * time.Millisecond,
			20 * time.Millisecond,
		})

		Convey("each hold starts after its write", func() {
			So(sleeper.opsAt, ShouldResemble, []int{1, 2, 3, 4})
		})

		Convey("the output is left enabled", func() {
			So(channel.Enabled(), ShouldBeTrue)
		})
	})

	Convey("a failed write aborts the sequence", t, func() {
		channel := newTestChannel()
		channel.Fail[1] = errors.New("channel busy")
		sleeper := &recordingSleeper{channel: channel}

		err := Calibrate(NewServo(channel), STARTUP_SEQUENCE, sleeper.sleep)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "calibration step 2")

		So(len(channel.Ops()), ShouldEqual, 2)
		So(len(sleeper.sleeps), ShouldEqual, 1)
		So(channel.Count(pwm.OP_SET_PULSE_WIDTH, PULSE_RUN), ShouldEqual, 0)
	})

	Convey("an out of range step is refused before any hardware write", t, func() {
		channel := newTestChannel()
		steps := []Step{{PULSE_MAX + time.Millisecond, time.Millisecond}}

		err := Calibrate(NewServo(channel), steps, func(time.Duration) {})
		So(err, ShouldNotBeNil)
		So(channel.Ops(), ShouldBeEmpty)
	})
}
