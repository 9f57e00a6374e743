package errors

import (
	"errors"
	"io"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHardwareErrors(t *testing.T) {
	Convey("init errors unwrap to the cause", t, func() {
		var err error = HardwareInitError{Chip: 0, Channel: 1, Err: io.ErrUnexpectedEOF}

		So(errors.Is(err, io.ErrUnexpectedEOF), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "chip 0 channel 1")

		var initErr HardwareInitError
		So(errors.As(err, &initErr), ShouldBeTrue)
		So(initErr.Channel, ShouldEqual, uint(1))
	})

	Convey("write errors report the operation", t, func() {
		err := HardwareWriteError{Op: "set_pulse_width", PulseWidth: 1500 * time.Microsecond, Err: ERR_PULSE_OUT_OF_RANGE}
		So(err.Error(), ShouldContainSubstring, "set_pulse_width")
		So(err.Error(), ShouldContainSubstring, "1.5ms")
		So(errors.Is(err, ERR_PULSE_OUT_OF_RANGE), ShouldBeTrue)

		Convey("with a missing operation name", func() {
			err := HardwareWriteError{Err: io.EOF}
			So(err.Error(), ShouldEqual, "pwm UNKNOWN failed: EOF")
		})
	})

	Convey("config errors name the field", t, func() {
		err := ConfigError{Field: "profile", Reason: "unknown profile fast"}
		So(err.Error(), ShouldEqual, "invalid config field profile: unknown profile fast")
	})
}
