package rally

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Plugin interface {
	Init(race *Race, logger Logger) error

	OnNewStage(stage StageInfo) error
	OnWeatherChange(weather CurrentWeather) error
	OnLapCompleted(driverGUID string, lap Lap) error
	OnStageEnd(results *StageResults) error
}

type multiPlugin struct {
	plugins []Plugin
}

func MultiPlugin(plugins ...Plugin) Plugin {
	return &multiPlugin{plugins: plugins}
}

func (mp *multiPlugin) Init(race *Race, logger Logger) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.Init(race, logger)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnNewStage(stage StageInfo) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnNewStage(stage)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnWeatherChange(weather CurrentWeather) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnWeatherChange(weather)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnLapCompleted(driverGUID string, lap Lap) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnLapCompleted(driverGUID, lap)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnStageEnd(results *StageResults) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnStageEnd(results)
		})
	}

	return g.Wait()
}

type nilPlugin struct{}

func (n nilPlugin) Init(_ *Race, _ Logger) error {
	return nil
}

func (n nilPlugin) OnNewStage(_ StageInfo) error {
	return nil
}

func (n nilPlugin) OnWeatherChange(_ CurrentWeather) error {
	return nil
}

func (n nilPlugin) OnLapCompleted(_ string, _ Lap) error {
	return nil
}

func (n nilPlugin) OnStageEnd(_ *StageResults) error {
	return nil
}
