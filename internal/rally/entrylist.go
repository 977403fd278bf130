package rally

import (
	"fmt"
	"time"
)

type Driver struct {
	Name     string `json:"name" yaml:"name"`
	GUID     string `json:"guid" yaml:"guid"`
	IsPlayer bool   `json:"is_player" yaml:"is_player"`
}

type Entrant struct {
	Driver  Driver  `json:"driver" yaml:"driver"`
	Vehicle Vehicle `json:"vehicle" yaml:"vehicle"`

	// Skill scales the vehicle's performance modifier. The player always
	// drives at 1.0; AI opponents get a small spread around it.
	Skill float64 `json:"skill" yaml:"skill"`

	SessionData SessionData `json:"-"`
}

type SessionData struct {
	Laps []*Lap

	HasCompletedStage bool
}

func (e *Entrant) String() string {
	return fmt.Sprintf("%s in %s", e.Driver.Name, e.Vehicle.Name)
}

func (e *Entrant) AddLap(lap *Lap) {
	e.SessionData.Laps = append(e.SessionData.Laps, lap)
}

func (e *Entrant) LapCount() int {
	return len(e.SessionData.Laps)
}

// BestLap returns the entrant's fastest lap, or nil if no laps are complete.
func (e *Entrant) BestLap() *Lap {
	var best *Lap

	for _, lap := range e.SessionData.Laps {
		if best == nil || lap.LapTime < best.LapTime {
			best = lap
		}
	}

	return best
}

func (e *Entrant) TotalRaceTime() time.Duration {
	var total time.Duration

	for _, lap := range e.SessionData.Laps {
		total += lap.LapTime
	}

	return total
}

func (e *Entrant) ClearSessionData() {
	e.SessionData = SessionData{}
}

type EntryList []*Entrant

func (e EntryList) FindByGUID(guid string) *Entrant {
	for _, entrant := range e {
		if entrant.Driver.GUID == guid {
			return entrant
		}
	}

	return nil
}

func (e EntryList) Player() *Entrant {
	for _, entrant := range e {
		if entrant.Driver.IsPlayer {
			return entrant
		}
	}

	return nil
}
