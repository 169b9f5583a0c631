package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/accgyro/cmd/accgyro/console"
	"github.com/mklimuk/accgyro/config"
	"github.com/mklimuk/accgyro/snsctx"
)

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, console.Exit(1, "configuration error: %s", console.Red(err))
	}
	return cfg, nil
}

var readCmd = cli.Command{
	Name:      "read",
	Aliases:   []string{"rd"},
	Usage:     "read a single raw sample",
	ArgsUsage: "[gyro|accel|all]",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		what := "all"
		if c.NArg() > 0 {
			what = c.Args().Get(0)
		}
		if what != "all" && what != "gyro" && what != "accel" {
			return console.Exit(1, "expected gyro, accel or all, got %q", what)
		}
		ctx, cancel := context.WithTimeout(snsctx.SetVerbose(c.Context, c.Bool("verbose")), 5*time.Second)
		defer cancel()
		s, err := openSession(cfg, nil)
		if err != nil {
			return console.Exit(1, "device initialization error: %s", console.Red(err))
		}
		defer func() {
			if err := s.Close(); err != nil {
				console.Errorf("error closing device: %s", console.Red(err))
			}
		}()
		if what != "accel" {
			if err := s.dev.ReadGyro(ctx); err != nil {
				return console.Exit(1, "error reading gyro: %s", console.Red(err))
			}
			console.Printf("%s %s\n", console.PictoGyro, console.White(s.dev.Gyro()))
		}
		if what != "gyro" {
			if err := s.dev.ReadAcc(ctx); err != nil {
				return console.Exit(1, "error reading accelerometer: %s", console.Red(err))
			}
			console.Printf("%s %s\n", console.PictoAccel, console.White(s.dev.Acc()))
		}
		return nil
	},
}
