package rally

import (
	"math/rand"
	"time"
)

// minimumEffectiveSpeed stops obstacle penalties from producing zero or
// negative speeds, in km/h.
const minimumEffectiveSpeed = 1.0

// LapTime computes a single lap time. A vehicle's top speed is scaled by its
// performance modifier and driver skill, then by the track surface, weather
// traction and current grip. Every obstacle on the track costs a penalty
// drawn uniformly from [0.5, 1.5) km/h off the effective speed.
func LapTime(vehicle Vehicle, skill float64, track Track, weather CurrentWeather, grip float64, r *rand.Rand) time.Duration {
	baseSpeed := vehicle.TopSpeed * vehicle.PerformanceModifier() * skill
	effectiveSpeed := baseSpeed * track.GripModifier() * weather.Traction * grip

	obstaclePenalty := float64(len(track.Obstacles)) * (0.5 + r.Float64())

	speed := effectiveSpeed - obstaclePenalty

	if speed < minimumEffectiveSpeed {
		speed = minimumEffectiveSpeed
	}

	hours := track.LengthKm / speed

	return time.Duration(hours * float64(time.Hour))
}
