package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sowon-dev/doorhack/config"
	"github.com/sowon-dev/doorhack/cracker"
)

var (
	GitVersion string
)

func main() {
	cfg := &config.Config{}
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Progress goes to the console and, mirrored without color codes,
	// to the log file.
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}}
	if logPath := cfg.GetString(config.ConfigLog); logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot open log file:", err)
			os.Exit(1)
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}
	sink := zerolog.MultiLevelWriter(writers...)

	level := zerolog.InfoLevel
	switch cfg.GetString(config.ConfigLogLevel) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(sink).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	logger.Debug().Msgf("doorhack %s", GitVersion)
	logger.Debug().Msgf("Loaded config: %v", cfg.AllSettings())

	engine := cracker.NewEngine(cfg)
	if tracePath := cfg.GetString(config.ConfigTrace); tracePath != "" {
		tf, err := os.Create(tracePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot create trace file")
		}
		defer tf.Close()
		engine.SetTraceStream(tf)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	res, err := engine.Run(ctx)
	stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		logger.Err(err).Msg("run failed")
		os.Exit(1)
	}

	if cfg.GetBool(config.ConfigRateHistogram) && len(res.Stats.RateSamples) > 1 {
		fmt.Println("attempt rate distribution (attempts/s):")
		hist := histogram.Hist(9, res.Stats.RateSamples)
		histogram.Fprint(os.Stdout, hist, histogram.Linear(40))
	}
}
