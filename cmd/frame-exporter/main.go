// Package main is the entry point for the frame-exporter application.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/frame-exporter/internal/config"
	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/internal/extractor"
	"github.com/joe/frame-exporter/internal/logging"
	"github.com/joe/frame-exporter/internal/publish"
	"github.com/joe/frame-exporter/internal/resolve"
	"github.com/joe/frame-exporter/internal/tui"
	"github.com/joe/frame-exporter/pkg/filesystem"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseFlags()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("starting",
		zap.String("downloads", cfg.DownloadsPath),
		zap.String("scratch", cfg.ScratchPath),
		zap.Int("fps", cfg.FPS),
		zap.String("format", cfg.Format.String()))

	publisher, closePublisher, err := publish.Open(cfg.DownloadsPath, publish.WithLogger(logger))
	if err != nil {
		return err
	}
	defer closePublisher()

	ffmpeg := extractor.New(
		extractor.WithBinary(cfg.FFmpegPath),
		extractor.WithProbeBinary(cfg.FFprobePath),
		extractor.WithFPS(cfg.FPS),
		extractor.WithFormat(cfg.Format.String()),
		extractor.WithLogger(logger),
	)

	ctrl := exporter.New(exporter.Deps{
		Extractor:  ffmpeg,
		Publisher:  publisher,
		Resolver:   resolve.New(cfg.StagingPath(), resolve.WithLogger(logger)),
		Scratch:    filesystem.NewRealFileSystem(),
		ScratchDir: cfg.ScratchPath,
	}, exporter.WithLogger(logger))
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewAppModel(ctx, ctrl, tui.Options{
		Columns:      cfg.Columns,
		InitialVideo: cfg.VideoPath,
		Downloads:    cfg.DownloadsPath,
		Logger:       logger,
	})
	defer model.Close()

	// Only use alt screen if stdout is a TTY
	var opts []tea.ProgramOption
	if term.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, tea.WithAltScreen())
	}

	_, err = tea.NewProgram(model, opts...).Run()
	if err != nil {
		return fmt.Errorf("failed to run interface: %w", err)
	}

	logger.Info("exiting")

	return nil
}
