// Package config loads the acquisition tool configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/accgyro/mpu"
)

var ErrInvalid = errors.New("invalid configuration")

// Bus kinds
const (
	BusI2C     = "i2c"
	BusSPI     = "spi"
	BusGobot   = "gobot"
	BusMCP2221 = "mcp2221"
)

// Interrupt backends
const (
	BackendPeriph = "periph"
	BackendGobot  = "gobot"
)

// DefaultEdgePollInterval is used by the gobot backend when no interval is
// configured; sysfs pins detect no edges without polling.
const DefaultEdgePollInterval = 10 * time.Millisecond

type Config struct {
	Bus       Bus       `yaml:"bus"`
	Sensor    Sensor    `yaml:"sensor"`
	Interrupt Interrupt `yaml:"interrupt"`
	MQTT      MQTT      `yaml:"mqtt"`
	// PollInterval is the polling loop period.
	PollInterval time.Duration `yaml:"poll_interval"`
}

type Bus struct {
	Kind    string `yaml:"kind"`
	Device  string `yaml:"device"`
	Address byte   `yaml:"address"`
	// SpeedHz is the bus clock, zero keeps the driver default.
	SpeedHz    int64 `yaml:"speed_hz"`
	GobotBus   int   `yaml:"gobot_bus"`
	RetryLimit int   `yaml:"retry_limit"`
}

type Sensor struct {
	Variant mpu.Variant `yaml:"variant"`
	// GyroRegister overrides the variant gyro read register when not zero.
	GyroRegister byte `yaml:"gyro_register"`
}

type Interrupt struct {
	// Pin is empty when the board does not wire the data-ready line.
	Pin          string        `yaml:"pin"`
	Backend      string        `yaml:"backend"`
	EnsureLow    bool          `yaml:"ensure_low"`
	Priority     uint8         `yaml:"priority"`
	// PollInterval drives gobot edge detection on sysfs pins.
	PollInterval time.Duration `yaml:"poll_interval"`
}

type MQTT struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

func Default() Config {
	return Config{
		Bus: Bus{
			Kind:       BusI2C,
			Device:     "/dev/i2c-1",
			Address:    mpu.DefaultAddress,
			RetryLimit: 1,
		},
		Sensor: Sensor{
			Variant: mpu.MPU6050,
		},
		Interrupt: Interrupt{
			Backend:   BackendPeriph,
			EnsureLow: true,
			Priority:  0x0F,
		},
		MQTT: MQTT{
			ClientID: "accgyro",
			Topic:    "accgyro/raw",
		},
		PollInterval: 10 * time.Millisecond,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if cfg.Interrupt.Backend == BackendGobot && cfg.Interrupt.PollInterval == 0 {
		cfg.Interrupt.PollInterval = DefaultEdgePollInterval
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Bus.Kind {
	case BusI2C, BusSPI, BusGobot, BusMCP2221:
	default:
		return fmt.Errorf("unknown bus kind %q: %w", c.Bus.Kind, ErrInvalid)
	}
	if c.Bus.Kind != BusMCP2221 && c.Bus.Kind != BusGobot && c.Bus.Device == "" {
		return fmt.Errorf("bus device is required for %s: %w", c.Bus.Kind, ErrInvalid)
	}
	if c.Sensor.GyroRegister == 0 {
		if _, err := mpu.GyroReadRegister(c.Sensor.Variant); err != nil {
			return fmt.Errorf("%w: %w", err, ErrInvalid)
		}
	}
	if c.Interrupt.Pin != "" {
		switch c.Interrupt.Backend {
		case BackendPeriph, BackendGobot:
		default:
			return fmt.Errorf("unknown interrupt backend %q: %w", c.Interrupt.Backend, ErrInvalid)
		}
		if c.Interrupt.PollInterval < 0 {
			return fmt.Errorf("interrupt poll interval must not be negative: %w", ErrInvalid)
		}
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive: %w", ErrInvalid)
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return fmt.Errorf("mqtt topic is required with a broker: %w", ErrInvalid)
	}
	return nil
}

// GyroRegister resolves the gyro read register of the configured sensor.
func (c Config) GyroRegister() byte {
	if c.Sensor.GyroRegister != 0 {
		return c.Sensor.GyroRegister
	}
	reg, err := mpu.GyroReadRegister(c.Sensor.Variant)
	if err != nil {
		return mpu.RegGyroXOutH
	}
	return reg
}
