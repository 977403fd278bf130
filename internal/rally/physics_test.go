package rally

import (
	"math/rand"
	"testing"
	"time"
)

func TestLapTime(t *testing.T) {
	clearWeather := CurrentWeather{Graphics: "clear", Traction: 1.0}

	t.Run("NoObstacles", func(t *testing.T) {
		vehicle := Vehicle{Name: "Dust Rider", TopSpeed: 140, Handling: 0.9, Acceleration: 0.8}
		track := Track{Name: "Open Road", Terrain: TerrainMud, LengthKm: 5.0}

		got := LapTime(vehicle, 1.0, track, clearWeather, 1.0, rand.New(rand.NewSource(1)))

		// 140 km/h * 0.85 performance * 0.7 mud grip = 83.3 km/h over 5 km
		speed := 140.0 * 0.85 * 0.7
		expected := time.Duration(5.0 / speed * float64(time.Hour))

		if got != expected {
			t.Errorf("Expected lap time: %s, was: %s", expected, got)
		}
	})

	t.Run("ObstaclePenaltyBounds", func(t *testing.T) {
		vehicle := Vehicle{Name: "Gravel Master", TopSpeed: 150, Handling: 0.85, Acceleration: 0.9}
		track := Track{
			Name:      "Gravel Pass",
			Terrain:   TerrainGravel,
			LengthKm:  4.5,
			Obstacles: []string{"rock", "ditch"},
		}

		effectiveSpeed := 150.0 * 0.875 * 0.85

		// 2 obstacles cost between 0.5 and 1.5 km/h each
		fastest := time.Duration(4.5 / (effectiveSpeed - 2*0.5) * float64(time.Hour))
		slowest := time.Duration(4.5 / (effectiveSpeed - 2*1.5) * float64(time.Hour))

		r := rand.New(rand.NewSource(99))

		for i := 0; i < 100; i++ {
			got := LapTime(vehicle, 1.0, track, clearWeather, 1.0, r)

			if got < fastest || got > slowest {
				t.Errorf("Expected lap time between %s and %s, was: %s", fastest, slowest, got)
			}
		}
	})

	t.Run("SpeedNeverDropsBelowMinimum", func(t *testing.T) {
		vehicle := Vehicle{Name: "Lawnmower", TopSpeed: 10, Handling: 0.5, Acceleration: 0.5}
		track := Track{
			Name:      "Boulder Field",
			Terrain:   TerrainMud,
			LengthKm:  2.0,
			Obstacles: []string{"rock", "rock", "rock", "rock", "rock", "rock", "rock", "rock", "rock", "rock"},
		}

		// effective speed is 3.5 km/h, ten obstacles always cost at least 5
		expected := time.Duration(2.0 / minimumEffectiveSpeed * float64(time.Hour))

		got := LapTime(vehicle, 1.0, track, clearWeather, 1.0, rand.New(rand.NewSource(1)))

		if got != expected {
			t.Errorf("Expected clamped lap time: %s, was: %s", expected, got)
		}
	})

	t.Run("WeatherSlowsTheLap", func(t *testing.T) {
		vehicle := Vehicle{Name: "Mud Crusher", TopSpeed: 130, Handling: 0.95, Acceleration: 0.85}
		track := Track{Name: "Forest Trail", Terrain: TerrainMud, LengthKm: 5.0}

		storm := CurrentWeather{Graphics: "storm", Traction: 0.7}

		clearLap := LapTime(vehicle, 1.0, track, clearWeather, 1.0, rand.New(rand.NewSource(1)))
		stormLap := LapTime(vehicle, 1.0, track, storm, 1.0, rand.New(rand.NewSource(1)))

		if stormLap <= clearLap {
			t.Errorf("Expected storm lap (%s) to be slower than clear lap (%s)", stormLap, clearLap)
		}
	})

	t.Run("SkillScalesTheLap", func(t *testing.T) {
		vehicle := Vehicle{Name: "Sand Storm", TopSpeed: 145, Handling: 0.8, Acceleration: 0.88}
		track := Track{Name: "Desert Run", Terrain: TerrainSand, LengthKm: 6.0}

		fullSkill := LapTime(vehicle, 1.0, track, clearWeather, 1.0, rand.New(rand.NewSource(1)))
		lessSkill := LapTime(vehicle, 0.9, track, clearWeather, 1.0, rand.New(rand.NewSource(1)))

		if lessSkill <= fullSkill {
			t.Errorf("Expected lower skill lap (%s) to be slower than full skill lap (%s)", lessSkill, fullSkill)
		}
	})

	t.Run("SameSeedSameLapTime", func(t *testing.T) {
		vehicle := Vehicle{Name: "Rock Hopper", TopSpeed: 135, Handling: 0.92, Acceleration: 0.83}
		track := Track{
			Name:      "Forest Trail",
			Terrain:   TerrainMud,
			LengthKm:  5.0,
			Obstacles: []string{"log", "puddle", "rock"},
		}

		a := LapTime(vehicle, 1.0, track, clearWeather, 1.0, rand.New(rand.NewSource(7)))
		b := LapTime(vehicle, 1.0, track, clearWeather, 1.0, rand.New(rand.NewSource(7)))

		if a != b {
			t.Errorf("Expected identical lap times for identical seeds, got %s and %s", a, b)
		}
	})
}
