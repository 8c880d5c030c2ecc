// Package config loads the robot configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level robot configuration.
type Config struct {
	Serial  SerialConfig `yaml:"serial"`
	Motors  MotorsConfig `yaml:"motors"`
	Gun     GunConfig    `yaml:"gun"`
	Sensors []SensorPins `yaml:"sensors"`
	Roam    RoamConfig   `yaml:"roam"`
	MQTT    MQTTConfig   `yaml:"mqtt"`
	Loop    LoopConfig   `yaml:"loop"`
}

// SerialConfig defines the command link.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// MotorPinsConfig names the output lines of one stepper channel.
type MotorPinsConfig struct {
	Enable    uint8 `yaml:"enable"`
	Direction uint8 `yaml:"direction"`
	Step      uint8 `yaml:"step"`
	InvertDir bool  `yaml:"invert_dir"`
}

// MotorsConfig defines both stepper channels and their shared signal
// timing.
type MotorsConfig struct {
	Left           MotorPinsConfig `yaml:"left"`
	Right          MotorPinsConfig `yaml:"right"`
	DirSetupMicros uint32          `yaml:"dir_setup_us"`
	StepHoldMicros uint32          `yaml:"step_hold_us"`
}

// GunConfig defines the trigger mechanism.
type GunConfig struct {
	Pin      uint8         `yaml:"pin"`
	FireRate time.Duration `yaml:"fire_rate"`
}

// SensorPins names the lines of one ultrasonic sensor.
type SensorPins struct {
	Trig uint8 `yaml:"trig"`
	Echo uint8 `yaml:"echo"`
}

// RoamConfig tunes autonomous roaming.
type RoamConfig struct {
	WallLimitMicros uint32 `yaml:"wall_limit_us"`
	CruiseRate      int32  `yaml:"cruise_rate"`
	TurnRate        int32  `yaml:"turn_rate"`
}

// MQTTConfig defines the telemetry broker. Empty URL disables
// telemetry.
type MQTTConfig struct {
	BrokerURL string `yaml:"broker_url"`
}

// LoopConfig defines the control loop cadences.
type LoopConfig struct {
	CommandTick time.Duration `yaml:"command_tick"`
	SensingTick time.Duration `yaml:"sensing_tick"`
}

// Defaults returns the configuration of the reference chassis.
func Defaults() *Config {
	return &Config{
		Serial: SerialConfig{Port: "/dev/ttyUSB0", Baud: 115200},
		Motors: MotorsConfig{
			Left:           MotorPinsConfig{Enable: 23, Direction: 4, Step: 5},
			Right:          MotorPinsConfig{Enable: 27, Direction: 26, Step: 25, InvertDir: true},
			DirSetupMicros: 5,
			StepHoldMicros: 3,
		},
		Gun: GunConfig{Pin: 33, FireRate: time.Second},
		Sensors: []SensorPins{
			{Trig: 17, Echo: 16},
			{Trig: 18, Echo: 34},
			{Trig: 19, Echo: 35},
			{Trig: 21, Echo: 36},
			{Trig: 22, Echo: 39},
		},
		Roam: RoamConfig{WallLimitMicros: 4000, CruiseRate: 750, TurnRate: 750},
		Loop: LoopConfig{
			CommandTick: 10 * time.Millisecond,
			SensingTick: 10 * time.Millisecond,
		},
	}
}

// Load reads a YAML file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	conf := Defaults()
	if path == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return conf, conf.validate()
}

func (c *Config) validate() error {
	if len(c.Sensors) != 0 && len(c.Sensors) != 5 {
		return fmt.Errorf("config: expected 5 sensors, got %d", len(c.Sensors))
	}
	if c.Gun.FireRate < 0 {
		return fmt.Errorf("config: negative fire rate")
	}
	return nil
}
