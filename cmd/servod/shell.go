package main

import (
	"github.com/CodedInternet/goservo/onboard"
	"github.com/CodedInternet/goservo/onboard/servo"
	"github.com/abiosoft/ishell"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive development shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := newDevice()
		if err != nil {
			return err
		}
		defer release(device)

		shell := newShell(device)
		shell.Run()
		return nil
	},
}

func newShell(device *onboard.ServoDevice) *ishell.Shell {
	shell := ishell.New()
	shell.Println("Servo development shell")

	shell.AddCmd(&ishell.Cmd{
		Name: "calibrate",
		Help: "open the channel if needed and run the startup sequence",
		Func: func(c *ishell.Context) {
			if err := device.Open(); err != nil {
				c.Err(err)
				return
			}
			for i, step := range servo.STARTUP_SEQUENCE {
				c.Printf("step %d: %s\n", i+1, step)
			}
			if err := device.Calibrate(); err != nil {
				// position is unknown after a partial sequence
				release(device)
				c.Err(err)
				return
			}
			c.Println("calibrated")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "run",
		Help: "hold the run pulse for the configured profile, then release",
		Func: func(c *ishell.Context) {
			res, err := device.Loop()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("stopped: %s\n", res)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "disable",
		Help: "disable the output",
		Func: func(c *ishell.Context) {
			if err := device.Release(); err != nil {
				c.Err(err)
				return
			}
			c.Println("disabled")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "show the channel state and last run",
		Func: func(c *ishell.Context) {
			c.Println(device.Status())
		},
	})

	return shell
}
