package rally

import "fmt"

type Vehicle struct {
	Name         string  `json:"name" yaml:"name"`
	TopSpeed     float64 `json:"top_speed" yaml:"top_speed"`
	Handling     float64 `json:"handling" yaml:"handling"`
	Acceleration float64 `json:"acceleration" yaml:"acceleration"`
}

// PerformanceModifier combines handling and acceleration into a single
// multiplier applied to the vehicle's top speed.
func (v Vehicle) PerformanceModifier() float64 {
	return (v.Handling + v.Acceleration) / 2
}

func (v Vehicle) String() string {
	return fmt.Sprintf("%s (Speed: %.0f, Handling: %.2f, Acceleration: %.2f)", v.Name, v.TopSpeed, v.Handling, v.Acceleration)
}

func (v Vehicle) IsZero() bool {
	return v.Name == "" && v.TopSpeed == 0
}

func DefaultVehicles() []Vehicle {
	return []Vehicle{
		{Name: "Dust Rider", TopSpeed: 140, Handling: 0.9, Acceleration: 0.8},
		{Name: "Mud Crusher", TopSpeed: 130, Handling: 0.95, Acceleration: 0.85},
		{Name: "Gravel Master", TopSpeed: 150, Handling: 0.85, Acceleration: 0.9},
		{Name: "Sand Storm", TopSpeed: 145, Handling: 0.8, Acceleration: 0.88},
		{Name: "Rock Hopper", TopSpeed: 135, Handling: 0.92, Acceleration: 0.83},
	}
}
