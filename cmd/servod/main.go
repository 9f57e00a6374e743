package main

import (
	"fmt"
	"log"
	"os"

	"github.com/CodedInternet/goservo/onboard"
	"github.com/CodedInternet/goservo/onboard/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	configFile string
	simulated  bool
	profile    string
)

var rootCmd = &cobra.Command{
	Use:   "servod",
	Short: "Calibrate a PWM servo and hold it at the run pulse",
	Long: `servod brings the servo on a single PWM channel through its startup ` +
		`sequence, holds the run pulse for the selected profile and disables ` +
		`the channel on exit, including on SIGINT and SIGTERM.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := newDevice()
		if err != nil {
			return err
		}

		_, err = device.Run()
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "servo config file (overrides SERVO_CONFIG, default "+config.DEFAULT_FILE+")")
	flags.BoolVar(&simulated, "sim", false, "run against a simulated channel")
	flags.StringVar(&profile, "profile", "", "run profile: signals or bounded")

	rootCmd.AddCommand(shellCmd)
}

type releaser interface {
	Release() error
}

// release disables the output and logs a failure.
func release(r releaser) {
	if err := r.Release(); err != nil {
		log.Printf("[servo] release failed: %v", err)
	}
}

// newDevice merges the config file, environment and flags, in that order,
// and registers the release for every exit through atexit.
func newDevice() (device *onboard.ServoDevice, err error) {
	env, err := config.LoadEnv()
	if err != nil {
		return
	}

	c, err := config.Resolve(env, config.Flags{
		ConfigFile: configFile,
		Simulated:  simulated,
		Profile:    profile,
	})
	if err != nil {
		return
	}

	device, err = onboard.NewServoDevice(c)
	if err != nil {
		return
	}
	device.Debug = env.DEBUG

	atexit.Register(func() {
		release(device)
	})

	return
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	atexit.Exit(onboard.ExitCode(err))
}
