package rally

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const CurrentResultsVersion = 2

func (r *Race) GenerateResults(stage *StageConfig) *StageResults {
	var result []*StageResult
	var cars []*StageCar
	var laps []*StageLap

	for _, entrant := range r.entryList {
		cars = append(cars, &StageCar{
			Driver: StageDriver{
				GUID: entrant.Driver.GUID,
				Name: entrant.Driver.Name,
			},
			Vehicle: entrant.Vehicle.Name,
			Skill:   entrant.Skill,
		})
	}

	for pos, line := range r.entryList.Leaderboard() {
		entrant := line.Entrant

		result = append(result, &StageResult{
			Position:    pos + 1,
			DriverGUID:  entrant.Driver.GUID,
			DriverName:  entrant.Driver.Name,
			VehicleName: entrant.Vehicle.Name,
			BestLap:     int(line.BestLap.Milliseconds()),
			TotalTime:   int(line.TotalTime.Milliseconds()),
			NumLaps:     line.NumLaps,
		})

		for _, lap := range entrant.SessionData.Laps {
			laps = append(laps, &StageLap{
				DriverGUID:  lap.DriverGUID,
				DriverName:  lap.DriverName,
				VehicleName: lap.VehicleName,
				LapNumber:   lap.Number,
				LapTime:     int(lap.LapTime.Milliseconds()),
				Weather:     lap.Weather,
				Grip:        lap.Grip,
				Timestamp:   int(lap.CompletedTime.Unix()),
			})
		}
	}

	sort.Slice(laps, func(i, j int) bool {
		lapI := laps[i]
		lapJ := laps[j]

		if lapI.Timestamp == lapJ.Timestamp {
			return lapI.LapNumber < lapJ.LapNumber
		}

		return lapI.Timestamp < lapJ.Timestamp
	})

	resultDate := time.Now()

	return &StageResults{
		Version:     CurrentResultsVersion,
		EventID:     r.eventID,
		EventName:   r.config.Name,
		StageName:   stage.Name,
		TrackName:   stage.Track.Name,
		Terrain:     string(stage.Track.Terrain),
		Cars:        cars,
		Laps:        laps,
		Result:      result,
		Date:        resultDate,
		ResultsFile: fmt.Sprintf("%d_%d_%d_%d_%d_%s.json", resultDate.Year(), resultDate.Month(), resultDate.Day(), resultDate.Hour(), resultDate.Minute(), stage.Track.DirectoryName()),
	}
}

// saveResults saves the results to the disk.
func saveResults(basePath string, results *StageResults) error {
	resultsPath := filepath.Join(basePath, "results")

	if err := os.MkdirAll(resultsPath, 0755); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(resultsPath, results.ResultsFile))

	if err != nil {
		return err
	}

	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "\t")

	return encoder.Encode(results)
}

type StageResults struct {
	Version     int            `json:"Version"`
	EventID     string         `json:"EventId"`
	EventName   string         `json:"EventName"`
	StageName   string         `json:"StageName"`
	TrackName   string         `json:"TrackName"`
	Terrain     string         `json:"Terrain"`
	Cars        []*StageCar    `json:"Cars"`
	Laps        []*StageLap    `json:"Laps"`
	Result      []*StageResult `json:"Result"`
	Date        time.Time      `json:"Date"`
	ResultsFile string         `json:"ResultsFile"`
}

type StageCar struct {
	Driver  StageDriver `json:"Driver"`
	Vehicle string      `json:"Vehicle"`
	Skill   float64     `json:"Skill"`
}

type StageDriver struct {
	GUID string `json:"Guid"`
	Name string `json:"Name"`
}

type StageLap struct {
	DriverGUID  string  `json:"DriverGuid"`
	DriverName  string  `json:"DriverName"`
	VehicleName string  `json:"VehicleName"`
	LapNumber   int     `json:"LapNumber"`
	LapTime     int     `json:"LapTime"`
	Weather     string  `json:"Weather"`
	Grip        float64 `json:"Grip"`
	Timestamp   int     `json:"Timestamp"`
}

type StageResult struct {
	Position    int    `json:"Position"`
	DriverGUID  string `json:"DriverGuid"`
	DriverName  string `json:"DriverName"`
	VehicleName string `json:"VehicleName"`
	BestLap     int    `json:"BestLap"`
	TotalTime   int    `json:"TotalTime"`
	NumLaps     int    `json:"NumLaps"`
}
