//go:build linux

package pwm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	derrors "github.com/CodedInternet/goservo/onboard/errors"
	. "github.com/smartystreets/goconvey/convey"
)

var channelAttrs = []string{"period", "duty_cycle", "polarity", "enable"}

func createChannelDir(root string) string {
	dir := filepath.Join(root, "pwmchip0", "pwm0")
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(err)
	}
	// enable goes last as it is what export polls for
	for _, attr := range channelAttrs {
		if err := os.WriteFile(filepath.Join(dir, attr), nil, 0644); err != nil {
			panic(err)
		}
	}
	return dir
}

func readAttr(dir, name string) string {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func TestSysfsChannel(t *testing.T) {
	Convey("an already exported channel is configured in place", t, func() {
		root := t.TempDir()
		dir := createChannelDir(root)

		c, err := openAt(root, 0, 0, testConfig)
		So(err, ShouldBeNil)
		So(c.exported, ShouldBeFalse)

		So(readAttr(dir, "period"), ShouldEqual, "20000000")
		So(readAttr(dir, "duty_cycle"), ShouldEqual, "1800000")
		So(readAttr(dir, "polarity"), ShouldEqual, "normal")
		So(readAttr(dir, "enable"), ShouldEqual, "1")

		Convey("pulse width writes go to duty_cycle", func() {
			So(c.SetPulseWidth(1500*time.Microsecond), ShouldBeNil)
			So(readAttr(dir, "duty_cycle"), ShouldEqual, "1500000")
		})

		Convey("disable clears enable and may be repeated", func() {
			So(c.Disable(), ShouldBeNil)
			So(c.Disable(), ShouldBeNil)
			So(readAttr(dir, "enable"), ShouldEqual, "0")
		})

		Convey("a closed channel refuses writes", func() {
			So(c.Close(), ShouldBeNil)
			err := c.SetPulseWidth(1500 * time.Microsecond)
			So(errors.Is(err, ERR_CHANNEL_CLOSED), ShouldBeTrue)
		})
	})

	Convey("a disabled start leaves enable at zero", t, func() {
		root := t.TempDir()
		dir := createChannelDir(root)

		config := testConfig
		config.Enabled = false
		config.Polarity = POLARITY_INVERSED
		_, err := openAt(root, 0, 0, config)
		So(err, ShouldBeNil)
		So(readAttr(dir, "enable"), ShouldEqual, "0")
		So(readAttr(dir, "polarity"), ShouldEqual, "inversed")
	})

	Convey("an unexported channel is exported and unexported on close", t, func() {
		root := t.TempDir()
		chip := filepath.Join(root, "pwmchip0")
		So(os.MkdirAll(chip, 0755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(chip, "export"), nil, 0644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(chip, "unexport"), nil, 0644), ShouldBeNil)

		go func() {
			time.Sleep(3 * EXPORT_INTERVAL)
			createChannelDir(root)
		}()

		c, err := openAt(root, 0, 0, testConfig)
		So(err, ShouldBeNil)
		So(c.exported, ShouldBeTrue)
		So(readAttr(chip, "export"), ShouldEqual, "0")

		So(c.Close(), ShouldBeNil)
		So(readAttr(chip, "unexport"), ShouldEqual, "0")
	})

	Convey("a missing chip is an init error", t, func() {
		_, err := openAt(t.TempDir(), 3, 1, testConfig)

		var initErr derrors.HardwareInitError
		So(errors.As(err, &initErr), ShouldBeTrue)
		So(initErr.Chip, ShouldEqual, uint(3))
		So(initErr.Channel, ShouldEqual, uint(1))
	})

	Convey("an invalid config never touches the filesystem", t, func() {
		_, err := openAt(t.TempDir(), 0, 0, PeriodConfig{})
		So(errors.Is(err, ERR_BAD_PERIOD), ShouldBeTrue)
	})
}
