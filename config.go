package turborally

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/turborally/turborally/internal/rally"
)

type OpponentConfig struct {
	Name    string  `json:"name" yaml:"name"`
	Vehicle string  `json:"vehicle" yaml:"vehicle"`
	Skill   float64 `json:"skill" yaml:"skill"`
}

type Config struct {
	Name            string `json:"name" yaml:"name"`
	Seed            int64  `json:"seed" yaml:"seed"`
	BaseDirectory   string `json:"base_directory" yaml:"base_directory"`
	LeaderboardFile string `json:"leaderboard_file" yaml:"leaderboard_file"`
	LiveHTTPPort    uint16 `json:"live_http_port" yaml:"live_http_port"`

	Opponents []OpponentConfig `json:"opponents" yaml:"opponents"`

	// Stages defines a fixed multi-stage event. When set, the game only
	// prompts for driver name and vehicle and races these stages in order.
	Stages []*rally.StageConfig `json:"stages" yaml:"stages"`

	Vehicles     []rally.Vehicle          `json:"vehicles" yaml:"vehicles"`
	Tracks       []rally.Track            `json:"tracks" yaml:"tracks"`
	Weather      []*rally.WeatherConfig   `json:"weather" yaml:"weather"`
	DynamicTrack rally.DynamicTrackConfig `json:"dynamic_track" yaml:"dynamic_track"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:            "Turbo Rally",
		BaseDirectory:   ".",
		LeaderboardFile: "leaderboard.db",
		Vehicles:        rally.DefaultVehicles(),
		Tracks:          rally.DefaultTracks(),
		Weather:         rally.DefaultWeathers(),
	}
}

// LoadConfig reads a YAML config from path. Values absent from the file keep
// their defaults, so a partial config (say, only opponents) is fine.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)

	if err != nil {
		return nil, errors.Wrapf(err, "could not open config: %s", path)
	}

	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, errors.Wrapf(err, "could not decode config: %s", path)
	}

	if config.Name == "" {
		config.Name = "Turbo Rally"
	}

	if len(config.Vehicles) == 0 {
		config.Vehicles = rally.DefaultVehicles()
	}

	if len(config.Tracks) == 0 {
		config.Tracks = rally.DefaultTracks()
	}

	if len(config.Weather) == 0 {
		config.Weather = rally.DefaultWeathers()
	}

	return config, nil
}

func (c *Config) FindVehicle(name string) (rally.Vehicle, bool) {
	for _, vehicle := range c.Vehicles {
		if vehicle.Name == name {
			return vehicle, true
		}
	}

	return rally.Vehicle{}, false
}
