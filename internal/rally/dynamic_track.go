package rally

import (
	"fmt"
	"math/rand"
	"sync"
)

type DynamicTrackConfig struct {
	StageStart    int `json:"stage_start" yaml:"stage_start"`
	Randomness    int `json:"randomness" yaml:"randomness"`
	StageTransfer int `json:"stage_transfer" yaml:"stage_transfer"`
	LapGain       int `json:"lap_gain" yaml:"lap_gain"`
}

func (d DynamicTrackConfig) IsZero() bool {
	return d.StageStart == 0 && d.Randomness == 0 && d.StageTransfer == 0 && d.LapGain == 0
}

// DynamicTrack models the track surface rubbering in as laps are driven.
// Grip starts at StageStart percent, improves by 1% every LapGain laps and
// partially carries over between stages.
type DynamicTrack struct {
	DynamicTrackConfig

	startingGrip      float64
	currentGrip       float64
	numLapsBeforeGain int
	numStages         int

	rand   *rand.Rand
	logger Logger

	mutex sync.RWMutex
}

func NewDynamicTrack(logger Logger, config DynamicTrackConfig) *DynamicTrack {
	return &DynamicTrack{
		DynamicTrackConfig: config,
		logger:             logger,
	}
}

func (d *DynamicTrack) Init(r *rand.Rand) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.rand = r
	d.currentGrip = float64(d.StageStart) / 100.0
	d.numStages = 0
	d.numLapsBeforeGain = 0
}

func (d *DynamicTrack) OnLapCompleted() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.numLapsBeforeGain++

	if d.numLapsBeforeGain == d.LapGain && d.currentGrip < 1.0 {
		d.currentGrip += 0.01

		if d.currentGrip > 1.0 {
			d.currentGrip = 1.0
		}

		d.logger.Debugf("Dynamic Track: %d/%d laps completed to add 1%% grip, grip is now: %.3f", d.numLapsBeforeGain, d.LapGain, d.currentGrip)

		d.numLapsBeforeGain = 0
	}
}

func (d *DynamicTrack) OnNewStage() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	var gripAddedInPreviousStage, gripCarriedOver float64

	if d.numStages > 0 {
		gripAddedInPreviousStage = d.currentGrip - d.startingGrip
		gripCarriedOver = gripAddedInPreviousStage * (float64(d.StageTransfer) / 100.0)
	}

	var randomGrip float64

	if d.Randomness > 0 && d.rand != nil {
		randomGrip = d.rand.Float64() * (float64(d.Randomness) / 100.0)
	}

	d.startingGrip = (d.currentGrip - gripAddedInPreviousStage) + randomGrip + gripCarriedOver
	d.currentGrip = d.startingGrip
	d.numLapsBeforeGain = 0

	d.logger.Infof("Dynamic Track: New Stage. Starting grip: %.3f, grip carried over: %.3f", d.startingGrip, gripCarriedOver)

	d.numStages++
}

func (d *DynamicTrack) String() string {
	return fmt.Sprintf("Stage Start: %d, Randomness: %d, Stage Transfer: %d, Lap Gain: %d", d.StageStart, d.Randomness, d.StageTransfer, d.LapGain)
}

func (d *DynamicTrack) CurrentGrip() float64 {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.currentGrip
}
