package rally

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWeatherManager(t *testing.T) {
	logger := logrus.New()

	t.Run("NoWeatherFallsBackToDefault", func(t *testing.T) {
		wm := NewWeatherManager(nilPlugin{}, logger)
		wm.OnNewStage(nil, rand.New(rand.NewSource(1)))

		current := wm.Current()

		if current.Graphics != "clear" || current.Traction != 1.0 {
			t.Errorf("Expected default clear weather, was: %s", current.String())
		}
	})

	t.Run("ProgressionAfterDurationLaps", func(t *testing.T) {
		weathers := []*WeatherConfig{
			{Graphics: "clear", Traction: 1.0, DurationLaps: 2},
			{Graphics: "rain", Traction: 0.8, DurationLaps: 2},
		}

		wm := NewWeatherManager(nilPlugin{}, logger)
		wm.OnNewStage(weathers, rand.New(rand.NewSource(1)))

		if wm.Current().Graphics != "clear" {
			t.Errorf("Expected clear at stage start, was: %s", wm.Current().Graphics)
		}

		wm.OnLapCompleted()

		if wm.Current().Graphics != "clear" {
			t.Errorf("Expected clear after one lap, was: %s", wm.Current().Graphics)
		}

		wm.OnLapCompleted()

		if wm.Current().Graphics != "rain" {
			t.Errorf("Expected rain after two laps, was: %s", wm.Current().Graphics)
		}

		// progression cycles back around
		wm.OnLapCompleted()
		wm.OnLapCompleted()

		if wm.Current().Graphics != "clear" {
			t.Errorf("Expected clear again after four laps, was: %s", wm.Current().Graphics)
		}
	})

	t.Run("SingleWeatherNeverProgresses", func(t *testing.T) {
		weathers := []*WeatherConfig{
			{Graphics: "storm", Traction: 0.7, DurationLaps: 1},
		}

		wm := NewWeatherManager(nilPlugin{}, logger)
		wm.OnNewStage(weathers, rand.New(rand.NewSource(1)))

		for i := 0; i < 5; i++ {
			wm.OnLapCompleted()
		}

		if wm.Current().Graphics != "storm" {
			t.Errorf("Expected storm throughout, was: %s", wm.Current().Graphics)
		}
	})

	t.Run("ZeroDurationNeverProgresses", func(t *testing.T) {
		weathers := []*WeatherConfig{
			{Graphics: "clear", Traction: 1.0},
			{Graphics: "rain", Traction: 0.8},
		}

		wm := NewWeatherManager(nilPlugin{}, logger)
		wm.OnNewStage(weathers, rand.New(rand.NewSource(1)))

		for i := 0; i < 10; i++ {
			wm.OnLapCompleted()
		}

		if wm.Current().Graphics != "clear" {
			t.Errorf("Expected clear throughout, was: %s", wm.Current().Graphics)
		}
	})

	t.Run("TemperaturesStayWithinVariation", func(t *testing.T) {
		weather := &WeatherConfig{
			Graphics:               "clear",
			Traction:               1.0,
			BaseTemperatureAmbient: 26,
			BaseTemperatureRoad:    7,
			VariationAmbient:       2,
			VariationRoad:          1,
			WindBaseSpeedMin:       3,
			WindBaseSpeedMax:       15,
		}

		wm := NewWeatherManager(nilPlugin{}, logger)

		r := rand.New(rand.NewSource(4))

		for i := 0; i < 50; i++ {
			wm.OnNewStage([]*WeatherConfig{weather}, r)

			current := wm.Current()

			if current.Ambient < 24 || current.Ambient > 28 {
				t.Errorf("Expected ambient within 26±2, was: %d", current.Ambient)
			}

			if current.Road < current.Ambient+6 || current.Road > current.Ambient+8 {
				t.Errorf("Expected road within ambient+7±1, was: %d (ambient %d)", current.Road, current.Ambient)
			}

			if current.WindSpeed < 3 || current.WindSpeed > 15 {
				t.Errorf("Expected wind between 3 and 15, was: %d", current.WindSpeed)
			}
		}
	})

	t.Run("WeatherChangeNotifiesPlugin", func(t *testing.T) {
		plugin := &capturePlugin{}

		wm := NewWeatherManager(plugin, logger)
		wm.OnNewStage([]*WeatherConfig{{Graphics: "rain", Traction: 0.8}}, rand.New(rand.NewSource(1)))

		if len(plugin.weatherChanges) != 1 {
			t.Fatalf("Expected 1 weather change, was: %d", len(plugin.weatherChanges))
		}

		if plugin.weatherChanges[0].Graphics != "rain" {
			t.Errorf("Expected rain, was: %s", plugin.weatherChanges[0].Graphics)
		}
	})
}
