package turborally

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/turborally/turborally/internal/rally"
)

// ErrInputClosed is returned when stdin closes before the player finished
// answering the setup prompts.
var ErrInputClosed = errors.New("turborally: input closed")

const defaultDriverName = "Player"

// Game drives one interactive race: it prompts for driver name, vehicle,
// track, weather and lap count, runs the race, then prints the results and
// updates the all-time leaderboard.
type Game struct {
	config *Config
	logger rally.Logger

	scanner *bufio.Scanner
	output  io.Writer
}

func NewGame(config *Config, input io.Reader, output io.Writer, logger rally.Logger) *Game {
	return &Game{
		config:  config,
		logger:  logger,
		scanner: bufio.NewScanner(input),
		output:  output,
	}
}

func (g *Game) readLine() (string, error) {
	if !g.scanner.Scan() {
		if err := g.scanner.Err(); err != nil {
			return "", err
		}

		return "", ErrInputClosed
	}

	return strings.TrimSpace(g.scanner.Text()), nil
}

// chooseOption shows a numbered menu and reads choices until a valid one is
// entered. It returns the zero-based index of the chosen option.
func (g *Game) chooseOption(title string, options []string) (int, error) {
	fmt.Fprintf(g.output, "\n%s\n", title)

	for i, option := range options {
		fmt.Fprintf(g.output, " %d. %s\n", i+1, option)
	}

	for {
		fmt.Fprintf(g.output, "Enter a number (1-%d): ", len(options))

		line, err := g.readLine()

		if err != nil {
			return 0, err
		}

		choice, err := strconv.Atoi(line)

		if err != nil || choice < 1 || choice > len(options) {
			fmt.Fprintf(g.output, "Invalid choice: %q. Please try again.\n", line)
			continue
		}

		return choice - 1, nil
	}
}

// chooseNumber reads numbers until one of at least min is entered.
func (g *Game) chooseNumber(title string, min int) (int, error) {
	for {
		fmt.Fprintf(g.output, "\n%s: ", title)

		line, err := g.readLine()

		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(line)

		if err != nil || n < min {
			fmt.Fprintf(g.output, "Invalid number: %q. Please enter a whole number of at least %d.\n", line, min)
			continue
		}

		return n, nil
	}
}

func (g *Game) chooseDriverName() (string, error) {
	fmt.Fprintf(g.output, "\nDriver name [%s]: ", defaultDriverName)

	name, err := g.readLine()

	if err != nil {
		return "", err
	}

	if name == "" {
		name = defaultDriverName
	}

	return name, nil
}

func (g *Game) chooseVehicle() (rally.Vehicle, error) {
	options := make([]string, len(g.config.Vehicles))

	for i, vehicle := range g.config.Vehicles {
		options[i] = vehicle.String()
	}

	index, err := g.chooseOption("Select your vehicle:", options)

	if err != nil {
		return rally.Vehicle{}, err
	}

	return g.config.Vehicles[index], nil
}

func (g *Game) chooseTrack() (rally.Track, error) {
	options := make([]string, len(g.config.Tracks))

	for i, track := range g.config.Tracks {
		options[i] = track.String()
	}

	index, err := g.chooseOption("Select a track:", options)

	if err != nil {
		return rally.Track{}, err
	}

	return g.config.Tracks[index], nil
}

func (g *Game) chooseWeather() (*rally.WeatherConfig, error) {
	options := make([]string, len(g.config.Weather))

	for i, weather := range g.config.Weather {
		options[i] = fmt.Sprintf("%s (traction: %.2f)", weather.Graphics, weather.Traction)
	}

	index, err := g.chooseOption("Select the weather:", options)

	if err != nil {
		return nil, err
	}

	return g.config.Weather[index], nil
}

// buildStages returns the configured multi-stage event if one is defined,
// otherwise it prompts for track, weather and lap count and builds a single
// stage from the answers.
func (g *Game) buildStages() ([]*rally.StageConfig, error) {
	if len(g.config.Stages) > 0 {
		g.logger.Infof("Racing the configured %d stage event", len(g.config.Stages))

		return g.config.Stages, nil
	}

	track, err := g.chooseTrack()

	if err != nil {
		return nil, err
	}

	weather, err := g.chooseWeather()

	if err != nil {
		return nil, err
	}

	laps, err := g.chooseNumber("Number of laps", 1)

	if err != nil {
		return nil, err
	}

	return []*rally.StageConfig{
		{
			Name:    track.Name,
			Track:   track,
			Laps:    laps,
			Weather: []*rally.WeatherConfig{weather},
		},
	}, nil
}

func (g *Game) buildEntryList(driverName string, vehicle rally.Vehicle) rally.EntryList {
	entryList := rally.EntryList{
		{
			Driver: rally.Driver{
				Name:     driverName,
				GUID:     uuid.New().String(),
				IsPlayer: true,
			},
			Vehicle: vehicle,
			Skill:   1.0,
		},
	}

	for _, opponent := range g.config.Opponents {
		opponentVehicle, ok := g.config.FindVehicle(opponent.Vehicle)

		if !ok {
			g.logger.Warnf("Opponent %q has unknown vehicle: %q, skipping them", opponent.Name, opponent.Vehicle)
			continue
		}

		entryList = append(entryList, &rally.Entrant{
			Driver: rally.Driver{
				Name: opponent.Name,
				GUID: uuid.New().String(),
			},
			Vehicle: opponentVehicle,
			Skill:   opponent.Skill,
		})
	}

	return entryList
}

// Run plays one complete race from prompts to printed results.
func (g *Game) Run(ctx context.Context) error {
	banner := color.New(color.FgHiYellow, color.Bold)
	_, _ = banner.Fprintf(g.output, "=== %s ===\n", g.config.Name)

	driverName, err := g.chooseDriverName()

	if err != nil {
		return err
	}

	vehicle, err := g.chooseVehicle()

	if err != nil {
		return err
	}

	stages, err := g.buildStages()

	if err != nil {
		return err
	}

	for _, stage := range stages {
		if g.config.BaseDirectory == "" {
			continue
		}

		if err := rally.LoadTrackSurfaces(g.config.BaseDirectory, &stage.Track, g.logger); err != nil {
			g.logger.WithError(err).Warnf("Could not load track surfaces for: %s", stage.Track.Name)
		}
	}

	eventConfig := &rally.EventConfig{
		Name:          g.config.Name,
		Seed:          g.config.Seed,
		BaseDirectory: g.config.BaseDirectory,
		DynamicTrack:  g.config.DynamicTrack,
		Stages:        stages,
	}

	entryList := g.buildEntryList(driverName, vehicle)

	var plugin rally.Plugin
	var live *rally.HTTP

	if g.config.LiveHTTPPort > 0 {
		live = rally.NewHTTP(g.config.LiveHTTPPort, g.logger)
		plugin = rally.MultiPlugin(live)
	}

	race, err := rally.NewRace(eventConfig, entryList, plugin, g.logger)

	if err != nil {
		return err
	}

	if live != nil {
		defer func() {
			_ = live.Close()
		}()
	}

	results, err := race.Run(ctx)

	if err != nil {
		return err
	}

	playerGUID := entryList.Player().Driver.GUID

	for _, stageResults := range results {
		renderStageResults(g.output, stageResults, playerGUID)
	}

	renderLeaderboard(g.output, race.Leaderboard())

	if g.config.LeaderboardFile != "" {
		if err := g.recordResults(results); err != nil {
			g.logger.WithError(err).Error("Could not update the all-time leaderboard")
		}
	}

	return nil
}

// recordResults saves each entrant's stage result into the persistent
// leaderboard, then prints the all-time bests for the final track.
func (g *Game) recordResults(results []*rally.StageResults) error {
	store, err := OpenLeaderboardStore(g.config.LeaderboardFile)

	if err != nil {
		return err
	}

	defer store.Close()

	for _, stageResults := range results {
		weather := ""

		if len(stageResults.Laps) > 0 {
			weather = stageResults.Laps[0].Weather
		}

		for _, line := range stageResults.Result {
			entry := LeaderboardEntry{
				TrackName:   stageResults.TrackName,
				DriverName:  line.DriverName,
				VehicleName: line.VehicleName,
				Weather:     weather,
				BestLap:     durationFromMilliseconds(line.BestLap),
				TotalTime:   durationFromMilliseconds(line.TotalTime),
				NumLaps:     line.NumLaps,
				RecordedAt:  stageResults.Date,
			}

			if err := store.Record(entry); err != nil {
				return err
			}
		}
	}

	lastStage := results[len(results)-1]

	top, err := store.TopN(lastStage.TrackName, 10)

	if err != nil {
		return err
	}

	renderAllTimeLeaderboard(g.output, lastStage.TrackName, top)

	return nil
}
