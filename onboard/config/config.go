package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	derrors "github.com/CodedInternet/goservo/onboard/errors"
	"github.com/CodedInternet/goservo/onboard/servo"
	"github.com/Masterminds/semver"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	CONFIG_VERSION = "~1.0"
	DEFAULT_FILE   = "./servo.yaml"
	ENV_FILE       = ".env"

	DRIVER_RPIO  = "rpio"
	DRIVER_SYSFS = "sysfs"
)

// EnvConfig is read from the process environment, after an optional .env.
type EnvConfig struct {
	ConfigFile string `env:"SERVO_CONFIG"` // DEFAULT_FILE when unset
	Simulated  bool   `env:"SERVO_SIM" envDefault:"false"`
	Profile    string `env:"SERVO_PROFILE"`
	DEBUG      bool   `env:"DEBUG" envDefault:"false"`
}

// Flags are command line overrides. Zero values mean "not given".
type Flags struct {
	ConfigFile string
	Simulated  bool
	Profile    string
}

// ServoConfig says where the servo is wired. Pulse widths are not
// configurable; they live in the servo package.
type ServoConfig struct {
	Version   string `yaml:"version"`
	Chip      uint   `yaml:"chip"`
	Channel   uint   `yaml:"channel"`
	Driver    string `yaml:"driver"` // rpio or sysfs
	Simulated bool   `yaml:"simulated"`
	Profile   string `yaml:"profile"`
}

func Default() ServoConfig {
	return ServoConfig{
		Version: "1.0.0",
		Driver:  DRIVER_RPIO,
		Profile: servo.PROFILE_SIGNALS.Name,
	}
}

func LoadEnv() (c EnvConfig, err error) {
	if err = godotenv.Load(ENV_FILE); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("unable to load %s: %w", ENV_FILE, err)
	}

	c.ConfigFile = DEFAULT_FILE
	err = env.Parse(&c)
	return
}

// Resolve picks the config file and layers file, environment and flags, each
// overriding the one before.
func Resolve(e EnvConfig, f Flags) (c ServoConfig, err error) {
	filename := e.ConfigFile
	if len(f.ConfigFile) > 0 {
		filename = f.ConfigFile
	}
	if len(filename) == 0 {
		filename = DEFAULT_FILE
	}

	c, err = Load(filename)
	if err != nil {
		return
	}

	c = c.Apply(e)
	if f.Simulated {
		c.Simulated = true
	}
	if len(f.Profile) > 0 {
		c.Profile = f.Profile
	}

	err = c.Validate()
	return
}

// Load reads a config file. A missing file yields Default().
func Load(filename string) (c ServoConfig, err error) {
	raw, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return c, fmt.Errorf("unable to read config %s: %w", filename, err)
	}

	return Parse(raw)
}

func Parse(raw []byte) (c ServoConfig, err error) {
	c = Default()
	if err = yaml.UnmarshalStrict(raw, &c); err != nil {
		return c, fmt.Errorf("unable to unmarshal yaml: %w", err)
	}

	err = c.Validate()
	return
}

func (c ServoConfig) Validate() error {
	version, err := semver.NewVersion(c.Version)
	if err != nil {
		return derrors.ConfigError{Field: "version", Reason: err.Error()}
	}

	constraint, err := semver.NewConstraint(CONFIG_VERSION)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return derrors.ConfigError{Field: "version", Reason: fmt.Sprintf("got %s - require %s", c.Version, CONFIG_VERSION)}
	}

	switch c.Driver {
	case DRIVER_RPIO, DRIVER_SYSFS:
	default:
		return derrors.ConfigError{Field: "driver", Reason: fmt.Sprintf("unknown driver %q", c.Driver)}
	}

	if _, err = servo.ProfileByName(c.Profile); err != nil {
		return derrors.ConfigError{Field: "profile", Reason: err.Error()}
	}

	return nil
}

// Apply overlays the environment on the file config.
func (c ServoConfig) Apply(e EnvConfig) ServoConfig {
	if e.Simulated {
		c.Simulated = true
	}
	if len(e.Profile) > 0 {
		c.Profile = e.Profile
	}
	return c
}
