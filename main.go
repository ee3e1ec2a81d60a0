package main

import (
	"embed"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/Zephyruston/whisper-im/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	setupLogging()
	slog.Info("starting app", "version", version, "commit", commit, "date", date)

	svc := app.New(version)

	wapp := application.New(application.Options{
		Name:        "Voice Input",
		Description: "Voice input tool for Wayland desktops, powered by whisper.cpp",
		Services: []application.Service{
			application.NewService(svc),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
	})

	// Create main window
	window := wapp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:  "Voice Input",
		Width:  560,
		Height: 640,
		URL:    "/",
	})

	// Closing the window ends the program, there is no tray to keep it
	// alive in the background.
	window.RegisterHook(events.Common.WindowClosing, func(*application.WindowEvent) {
		svc.Shutdown()
		wapp.Quit()
	})

	// Initialize service with app and window references
	svc.Init(wapp, window)

	if err := wapp.Run(); err != nil {
		slog.Error("run app", "error", err)
		os.Exit(1)
	}
}

// setupLogging matches the colored handler Wails itself logs through,
// so application and framework output read the same.
func setupLogging() {
	level := slog.LevelInfo
	if os.Getenv("WHISPER_IM_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}
