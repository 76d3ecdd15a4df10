// Package axis drives one MC1 linear-guide axis controller.
package axis

import (
	"flag"
	"time"
)

// Config defines the session configuration for one axis controller.
// RailLength and StepsPerMeter are fixed for the session lifetime and
// govern all unit conversions and the worst-case homing timeout.
type Config struct {
	// Port is the serial device path, e.g. /dev/ttyUSB0 or COM2.
	Port string
	// BaudRate of the controller link.
	BaudRate int
	// DeviceID addresses one of possibly several controllers on the bus.
	DeviceID int
	// RailLength is the usable rail length in meters.
	RailLength float64
	// StepsPerMeter converts physical distances to controller steps.
	StepsPerMeter float64
	// DefaultTimeout bounds acknowledgement waits for administrative
	// commands; motion commands add the worst-case traversal time.
	DefaultTimeout time.Duration
	// RetryAttempts is the retransmit budget for timed-out commands.
	RetryAttempts int
	// HomingVelocity is the homing speed fixed in the controller hardware,
	// in m/s. It only enters the homing timeout, not the motion itself.
	HomingVelocity float64
}

var defaultConfig = Config{
	BaudRate:       19200,
	RailLength:     5.23,
	StepsPerMeter:  1000000,
	DefaultTimeout: 5 * time.Second,
	RetryAttempts:  3,
	HomingVelocity: 0.1,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port of the axis controller.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate of the controller link.")
	flag.IntVar(&defaultConfig.DeviceID, "device-id", defaultConfig.DeviceID, "DNC device id on the bus.")
	flag.Float64Var(&defaultConfig.RailLength, "rail", defaultConfig.RailLength, "Rail length in meters.")
	flag.Float64Var(&defaultConfig.StepsPerMeter, "steps", defaultConfig.StepsPerMeter, "Controller steps per meter.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
