// Command stars-segmenter loads recorded driving traces, runs the
// trace-to-segment pipeline and drains the resulting segment stream,
// optionally recording segment metadata to a configured sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rheadawn/stars/internal/config"
	"github.com/Rheadawn/stars/internal/geo"
	"github.com/Rheadawn/stars/internal/logging"
	intOtel "github.com/Rheadawn/stars/internal/otel"
	"github.com/Rheadawn/stars/internal/parser"
	"github.com/Rheadawn/stars/internal/pipeline"
	"github.com/Rheadawn/stars/internal/roadnet"
	"github.com/Rheadawn/stars/internal/segmenter"
	"github.com/Rheadawn/stars/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "stars-segmenter:", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory containing stars_segmenter.cfg.json")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}

	sessionStart := time.Now()
	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(cfg.LogsDir, "stars_segmenter", sessionStart))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	otelProvider, err := intOtel.New(intOtel.Config{
		Enabled:      cfg.Otel.Enabled,
		ServiceName:  "stars-segmenter",
		BatchTimeout: 5 * time.Second,
		LogWriter:    logFile,
		Endpoint:     cfg.Otel.Endpoint,
		Insecure:     cfg.Otel.Insecure,
	})
	if err != nil {
		return err
	}
	defer otelProvider.Shutdown(context.Background())

	slogManager := logging.NewSlogManager()
	slogManager.Setup(logFile, cfg.LogLevel, otelProvider.LogProvider())
	appLog := slogManager.Logger()

	zlevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		zlevel = zerolog.InfoLevel
	}
	pipeLog := logging.NewPipelineLogger(
		zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zlevel).With().Timestamp().Logger(),
	)

	nets := make(map[string]*roadnet.Network, len(cfg.MapToDynamicFiles))
	for mapFile := range cfg.MapToDynamicFiles {
		net, err := parser.ReadStaticFile(mapFile)
		if err != nil {
			return err
		}
		mapName, err := parser.MapNameFromFile(mapFile)
		if err != nil {
			mapName = mapFile
		}
		appLog.Info("loaded road network", "map", mapName,
			"blocks", len(net.Blocks), "roads", len(net.Roads), "lanes", len(net.Lanes))
		nets[mapFile] = net
	}

	backend, err := storage.NewBackend(cfg.Storage)
	if err != nil {
		return err
	}
	if backend != nil {
		if err := backend.Init(); err != nil {
			return err
		}
		defer backend.Close()
	}

	p, err := pipeline.New(nets, pipeline.Config{
		MapToDynamicFiles:         cfg.MapToDynamicFiles,
		UseEveryVehicleAsEgo:      cfg.UseEveryVehicleAsEgo,
		OrderFilesBySeed:          cfg.OrderFilesBySeed,
		SimulationRunPrefetchSize: cfg.SimulationRunPrefetchSize,
		RngSeed:                   cfg.RngSeed,
		Segmentation: segmenter.Options{
			Type:                segmenter.Type(cfg.Segmentation.Type),
			Value:               cfg.Segmentation.Value,
			SecondaryValue:      cfg.Segmentation.SecondaryValue,
			AddJunctions:        cfg.Segmentation.AddJunctions,
			MinSegmentTickCount: cfg.MinSegmentTickCount,
			MaxSegmentTickCount: cfg.MaxSegmentTickCount,
		},
	}, pipeLog)
	if err != nil {
		return err
	}

	monitor := pipeline.NewMonitor(p.Metrics(), pipeLog, time.Second)
	monitor.Start()
	defer monitor.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream := p.Run(ctx)
	defer stream.Close()

	segmentCount := 0
	for seg := range stream.Segments() {
		segmentCount++
		if backend != nil {
			rec := storage.NewSegmentRecord(seg, geo.PathLengthMeters(seg))
			if err := backend.RecordSegment(&rec); err != nil {
				appLog.Error("failed to record segment metadata", "error", err)
			}
		}
	}

	status := p.Metrics().Snapshot()
	appLog.Info("pipeline finished",
		"readSimulationRuns", status.ReadSimulationRuns,
		"slicedSimulationRuns", status.SlicedSimulationRuns,
		"segments", segmentCount,
		"duration", time.Since(sessionStart).String(),
	)
	return nil
}
