package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/accgyro/cmd/accgyro/console"
	"github.com/mklimuk/accgyro/mpu"
	"github.com/mklimuk/accgyro/publish"
	"github.com/mklimuk/accgyro/snsctx"
)

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "acquire samples on every data-ready edge",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "mqtt",
			Usage: "publish readings to this broker (overrides config)",
		},
		&cli.IntFlag{
			Name:  "count",
			Usage: "stop after this many readings (0 runs until interrupted)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "do not print readings",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "continue in polling mode without asking",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
		defer stop()
		ctx = snsctx.SetVerbose(ctx, c.Bool("verbose"))

		// the update callback runs in the interrupt context, only signal the loop
		updates := make(chan struct{}, 1)
		notify := func(*mpu.Device) {
			select {
			case updates <- struct{}{}:
			default:
			}
		}
		s, err := openSession(cfg, notify)
		if err != nil {
			return console.Exit(1, "device initialization error: %s", console.Red(err))
		}
		defer func() {
			if err := s.Close(); err != nil {
				console.Errorf("error closing device: %s", console.Red(err))
			}
		}()

		err = s.dev.InitInterrupt(ctx)
		if err != nil {
			console.Warnf("could not arm data-ready line: %s", console.Red(err))
		}
		if !s.dev.Armed() && cfg.Interrupt.Pin != "" && !c.Bool("yes") {
			answer, err := console.YesOrNo("data-ready line not armed, continue in polling mode?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer == console.No {
				return console.Exit(1, "aborted")
			}
		}
		if s.dev.Armed() {
			console.PInfof(console.PictoPin, "data-ready line %s armed", console.Green(cfg.Interrupt.Pin))
		} else {
			console.Infof("polling every %s", console.Yellow(cfg.PollInterval))
		}

		var pub *publish.MQTT
		broker := cfg.MQTT.Broker
		if c.IsSet("mqtt") {
			broker = c.String("mqtt")
		}
		if broker != "" {
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			pub, err = publish.Connect(connectCtx, broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
			cancel()
			if err != nil {
				return console.Exit(1, "mqtt error: %s", console.Red(err))
			}
			defer pub.Close()
		}

		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()
		count := c.Int("count")
		readings := 0
		for {
			select {
			case <-ctx.Done():
				console.Infof("%d readings acquired", readings)
				return nil
			case <-updates:
			case <-ticker.C:
			}
			if s.dev.Armed() && !s.dev.CheckDataReady() {
				continue
			}
			r, ok := acquire(ctx, s.dev)
			if !ok {
				continue
			}
			readings++
			if !c.Bool("quiet") {
				console.Printf("%s %s  %s %s\n", console.PictoGyro, console.White(r.Gyro), console.PictoAccel, console.White(r.Acc))
			}
			if pub != nil {
				if err := pub.Publish(ctx, r); err != nil {
					slog.Warn("publish failed", "error", err)
				}
			}
			if count > 0 && readings >= count {
				return nil
			}
		}
	},
}

// acquire reads both sensors; on failure the caller retries on the next cycle.
func acquire(ctx context.Context, dev *mpu.Device) (publish.Reading, bool) {
	if err := dev.ReadGyro(ctx); err != nil {
		slog.Warn("gyro read failed", "error", err)
		return publish.Reading{}, false
	}
	if err := dev.ReadAcc(ctx); err != nil {
		slog.Warn("accelerometer read failed", "error", err)
		return publish.Reading{}, false
	}
	return publish.Reading{Time: time.Now(), Gyro: dev.Gyro(), Acc: dev.Acc()}, true
}
