package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"dvine-asset/api"
	"dvine-asset/config"
	"dvine-asset/extractor"
	dvineLogger "dvine-asset/utils/logger"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	var logFile *os.File
	var loggerWriter io.Writer = os.Stdout
	if config.Cfg.Backend.MainLogFile != "" {
		var err error
		logFile, err = os.OpenFile(config.Cfg.Backend.MainLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			mainLogger := dvineLogger.NewLogger("Main", config.Cfg.Backend.LogLevel, os.Stdout)
			mainLogger.Errorf("failed to open main log file: %v", err)
			os.Exit(1)
		}
		loggerWriter = io.MultiWriter(os.Stdout, logFile)
		defer func(logFile *os.File) {
			_ = logFile.Close()
		}(logFile)
	}
	mainLogger := dvineLogger.NewLogger("Main", config.Cfg.Backend.LogLevel, loggerWriter)
	mainLogger.Infof("========================= Dvine Asset Extractor %s =========================", config.Version)

	// Without a configured backend port, run a single extraction pass
	// and exit. This is the batch mode for build pipelines.
	if config.Cfg.Backend.Port == 0 {
		runOnce(mainLogger)
		return
	}

	app := fiber.New(fiber.Config{
		BodyLimit:   30 * 1024 * 1024,
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})

	if config.Cfg.Backend.AccessLog != "" {
		logCfg := logger.Config{Format: config.Cfg.Backend.AccessLog}
		if config.Cfg.Backend.AccessLogPath != "" {
			accessLogFile, err := os.OpenFile(config.Cfg.Backend.AccessLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				mainLogger.Errorf("failed to open access log file: %v", err)
				os.Exit(1)
			}
			defer func(accessLogFile *os.File) {
				_ = accessLogFile.Close()
			}(accessLogFile)
			logCfg.Output = accessLogFile
		}
		app.Use(logger.New(logCfg))
	}

	api.RegisterRoutes(app)

	addr := fmt.Sprintf("%s:%d", config.Cfg.Backend.Host, config.Cfg.Backend.Port)
	if config.Cfg.Backend.SSL {
		if err := app.ListenTLS(addr, config.Cfg.Backend.SSLCert, config.Cfg.Backend.SSLKey); err != nil {
			mainLogger.Errorf("failed to start HTTPS server: %v", err)
			os.Exit(1)
		}
	} else {
		if err := app.Listen(addr); err != nil {
			mainLogger.Errorf("failed to start HTTP server: %v", err)
			os.Exit(1)
		}
	}
}

func runOnce(mainLogger *dvineLogger.Logger) {
	ctx := context.Background()
	if err := extractor.FetchGameData(ctx); err != nil {
		mainLogger.Errorf("failed to download game data: %v", err)
		os.Exit(1)
	}
	ext := extractor.NewDvineAssetExtractor(ctx, extractor.ConfiguredPreset())
	summary, err := ext.Run()
	if err != nil {
		mainLogger.Errorf("extraction failed: %v", err)
		os.Exit(1)
	}
	mainLogger.Infof("Extraction finished: %d animations, %d effects, %d failed items",
		summary.Animations, summary.Effects, summary.Failed)
}
