package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/ytget/mood-player/internal/api"
	"github.com/ytget/mood-player/internal/config"
	"github.com/ytget/mood-player/internal/metrics"
	"github.com/ytget/mood-player/internal/music"
	"github.com/ytget/mood-player/internal/playback"
	"github.com/ytget/mood-player/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.mood-player"
	AppName = "Mood Player"

	metricsShutdownTimeout = 2 * time.Second
)

func main() {
	logger := logrus.New()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	myApp := app.NewWithID(AppID)

	// Configuration is resolved once and read-only afterwards
	settings := config.NewSettings(myApp)
	cfg, err := config.Load(settings)
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	logger.SetLevel(cfg.LogLevel)
	logger.WithField("api_root_url", cfg.APIRootURL).Infof("%s v%s starting...", AppName, version)

	registry := prometheus.NewRegistry()
	recorder, err := metrics.New(registry)
	if err != nil {
		logger.WithError(err).Fatal("registering metrics")
	}
	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, registry)
		srv.Start(func(err error) {
			logger.WithError(err).Error("metrics listener stopped")
		})
		defer srv.Stop(metricsShutdownTimeout, logger)
	}

	// Initialize services
	client := api.NewClient(cfg.APIRootURL, nil)
	sink := playback.NewAudioSink(nil, logger)

	player := music.NewWidget(client, logger)
	player.SetDispatcher(fyne.Do)
	player.SetMetrics(recorder)

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	ui.NewRootUI(myWindow, settings, player, sink, logger)

	myWindow.ShowAndRun()
}
