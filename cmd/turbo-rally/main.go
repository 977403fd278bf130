package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/turborally/turborally"
)

var (
	configPath string
	verbose    bool
)

func init() {
	flag.StringVar(&configPath, "c", "./config.yml", "config path")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	config, err := turborally.LoadConfig(configPath)

	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			logger.Infof("No config found at %s, using defaults", configPath)
			config = turborally.DefaultConfig()
		} else {
			logger.WithError(err).Fatalf("Could not read config at %s", configPath)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		<-c
		cancel()
	}()

	game := turborally.NewGame(config, os.Stdin, os.Stdout, logger)

	if err := game.Run(ctx); err != nil {
		logger.WithError(err).Fatal("Could not run game")
	}
}
