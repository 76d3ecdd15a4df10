// Package remote exposes one axis controller on an MQTT broker.
package remote

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
)

// Config provides the options to register an axis on a broker.
type Config struct {
	// BrokerURL specifies the MQTT broker to use,
	// e.g. mqtt://host:port/topic-prefix
	BrokerURL string
	// Type and ID identify the axis on the broker; topics live under
	// "<prefix><type>/<id>/".
	Type string
	ID   string
	// Description is published in the retained meta message.
	Description string
	// PosInterval is the period of position samples, 0 to disable.
	PosInterval time.Duration
}

var defaultConfig = Config{
	BrokerURL:   "mqtt://localhost:1883/selmc/",
	Type:        "linear-axis",
	PosInterval: time.Second,
}

func init() {
	if val := os.Getenv("SELMC_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
	if val := os.Getenv("SELMC_ID"); val != "" {
		defaultConfig.ID = val
	} else {
		defaultConfig.ID = machineID()
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.Type, "type", defaultConfig.Type, "Controller type.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Controller ID.")
	flag.StringVar(&defaultConfig.Description, "description", defaultConfig.Description, "Controller description.")
	flag.DurationVar(&defaultConfig.PosInterval, "pos-interval", defaultConfig.PosInterval, "Position sampling period, 0 to disable.")
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

// Name is the topic path of the axis relative to the broker prefix.
func (c *Config) Name() string {
	return c.Type + "/" + c.ID
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	if c.Type == "" || c.ID == "" {
		return fmt.Errorf("controller type and id must be specified")
	}
	return nil
}

// machineID retrieves the unique ID identifying this machine, used as the
// default controller ID. An empty string is returned on hosts without one;
// the ID must then be given explicitly.
func machineID() string {
	id, err := machineid.ID()
	if err != nil {
		return ""
	}
	return id
}
