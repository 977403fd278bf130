package rally

import (
	"fmt"
	"math/rand"
	"sync"
)

type WeatherConfig struct {
	Graphics               string  `json:"graphics" yaml:"graphics"`
	Traction               float64 `json:"traction" yaml:"traction"`
	DurationLaps           int     `json:"duration_laps" yaml:"duration_laps"`
	BaseTemperatureAmbient int     `json:"base_temperature_ambient" yaml:"base_temperature_ambient"`
	BaseTemperatureRoad    int     `json:"base_temperature_road" yaml:"base_temperature_road"`
	VariationAmbient       int     `json:"variation_ambient" yaml:"variation_ambient"`
	VariationRoad          int     `json:"variation_road" yaml:"variation_road"`
	WindBaseSpeedMin       int     `json:"wind_base_speed_min" yaml:"wind_base_speed_min"`
	WindBaseSpeedMax       int     `json:"wind_base_speed_max" yaml:"wind_base_speed_max"`
}

type CurrentWeather struct {
	Graphics  string
	Traction  float64
	Ambient   int
	Road      int
	WindSpeed int
}

func (c CurrentWeather) String() string {
	return fmt.Sprintf("%s, %d°/%d° ambient/road, %d km/h wind, %.2f traction", c.Graphics, c.Ambient, c.Road, c.WindSpeed, c.Traction)
}

// WeatherManager tracks the active weather for a stage. Stages with more
// than one weather config progress through them as laps complete, each
// config lasting DurationLaps laps.
type WeatherManager struct {
	plugin Plugin
	logger Logger

	rand *rand.Rand

	weathers            []*WeatherConfig
	currentWeatherIndex int
	weatherProgression  bool
	lapsUntilNext       int

	// mutex guards currentWeather, which live HTTP handlers read while the
	// stage runs.
	mutex          sync.RWMutex
	currentWeather *CurrentWeather
}

func NewWeatherManager(plugin Plugin, logger Logger) *WeatherManager {
	return &WeatherManager{
		plugin: plugin,
		logger: logger,
	}
}

func (wm *WeatherManager) OnNewStage(weathers []*WeatherConfig, r *rand.Rand) {
	wm.rand = r
	wm.weathers = weathers
	wm.currentWeatherIndex = 0
	wm.weatherProgression = false
	wm.lapsUntilNext = 0

	if len(wm.weathers) == 0 {
		wm.logger.Debugf("No weather defined! Falling back to sensible defaults.")

		wm.weathers = []*WeatherConfig{DefaultWeather()}
	}

	if len(wm.weathers) > 1 {
		wm.logger.Debugf("Stage has multiple weathers! Enabling weather progression.")
		wm.weatherProgression = true
	}

	wm.ChangeWeather(wm.weathers[wm.currentWeatherIndex])
	wm.lapsUntilNext = wm.weathers[wm.currentWeatherIndex].DurationLaps
}

func (wm *WeatherManager) ChangeWeather(weatherConfig *WeatherConfig) {
	ambient, road := wm.calculateTemperatures(weatherConfig)
	windSpeed := wm.calculateWind(weatherConfig)

	weather := &CurrentWeather{
		Graphics:  weatherConfig.Graphics,
		Traction:  weatherConfig.Traction,
		Ambient:   ambient,
		Road:      road,
		WindSpeed: windSpeed,
	}

	wm.mutex.Lock()
	wm.currentWeather = weather
	wm.mutex.Unlock()

	wm.logger.Infof("Weather is now: %s", weather.String())

	if err := wm.plugin.OnWeatherChange(*weather); err != nil {
		wm.logger.WithError(err).Error("On weather change plugin returned an error")
	}
}

func (wm *WeatherManager) calculateTemperatures(weatherConfig *WeatherConfig) (ambient, road int) {
	var ambientModifier int

	if weatherConfig.VariationAmbient > 0 {
		ambientModifier = wm.rand.Intn(weatherConfig.VariationAmbient*2) - weatherConfig.VariationAmbient
	}

	ambient = weatherConfig.BaseTemperatureAmbient + ambientModifier

	var roadModifier int

	if weatherConfig.VariationRoad > 0 {
		roadModifier = wm.rand.Intn(weatherConfig.VariationRoad*2) - weatherConfig.VariationRoad
	}

	road = ambient + weatherConfig.BaseTemperatureRoad + roadModifier

	return ambient, road
}

func (wm *WeatherManager) calculateWind(weatherConfig *WeatherConfig) int {
	windRange := weatherConfig.WindBaseSpeedMax - weatherConfig.WindBaseSpeedMin

	var windModifier int

	if windRange > 0 {
		windModifier = wm.rand.Intn(windRange)
	}

	speed := weatherConfig.WindBaseSpeedMin + windModifier

	if speed > 40 {
		speed = 40
	}

	return speed
}

// OnLapCompleted advances weather progression. Each weather lasts its
// configured DurationLaps; a zero duration means it never progresses.
func (wm *WeatherManager) OnLapCompleted() {
	if !wm.weatherProgression || wm.lapsUntilNext == 0 {
		return
	}

	wm.lapsUntilNext--

	if wm.lapsUntilNext == 0 {
		wm.NextWeather()
	}
}

func (wm *WeatherManager) NextWeather() {
	wm.currentWeatherIndex++

	if wm.currentWeatherIndex == len(wm.weathers) {
		wm.currentWeatherIndex = 0
	}

	wm.logger.Infof("Moving weather to %s", wm.weathers[wm.currentWeatherIndex].Graphics)

	wm.ChangeWeather(wm.weathers[wm.currentWeatherIndex])
	wm.lapsUntilNext = wm.weathers[wm.currentWeatherIndex].DurationLaps
}

func (wm *WeatherManager) Current() CurrentWeather {
	wm.mutex.RLock()
	defer wm.mutex.RUnlock()

	if wm.currentWeather == nil {
		return CurrentWeather{Graphics: "clear", Traction: 1.0}
	}

	return *wm.currentWeather
}

func DefaultWeather() *WeatherConfig {
	return &WeatherConfig{
		Graphics:               "clear",
		Traction:               1.0,
		BaseTemperatureAmbient: 26,
		BaseTemperatureRoad:    7,
		VariationAmbient:       1,
		VariationRoad:          1,
		WindBaseSpeedMin:       3,
		WindBaseSpeedMax:       15,
	}
}

func DefaultWeathers() []*WeatherConfig {
	return []*WeatherConfig{
		DefaultWeather(),
		{
			Graphics:               "rain",
			Traction:               0.8,
			BaseTemperatureAmbient: 18,
			BaseTemperatureRoad:    4,
			VariationAmbient:       2,
			VariationRoad:          1,
			WindBaseSpeedMin:       10,
			WindBaseSpeedMax:       25,
		},
		{
			Graphics:               "storm",
			Traction:               0.7,
			BaseTemperatureAmbient: 14,
			BaseTemperatureRoad:    2,
			VariationAmbient:       3,
			VariationRoad:          2,
			WindBaseSpeedMin:       20,
			WindBaseSpeedMax:       40,
		},
	}
}
