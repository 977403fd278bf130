package rally

import "time"

type Lap struct {
	DriverGUID    string
	DriverName    string
	VehicleName   string
	Number        int
	LapTime       time.Duration
	Weather       string
	Grip          float64
	CompletedTime time.Time
}
