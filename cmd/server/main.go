package main

import (
	"fmt"

	"github.com/MKhiriev/go-web-interface/internal/app"
	"github.com/MKhiriev/go-web-interface/internal/config"
	"github.com/MKhiriev/go-web-interface/internal/handler"
	"github.com/MKhiriev/go-web-interface/internal/logger"
	"github.com/MKhiriev/go-web-interface/internal/server"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("web-interface-server", config.DefaultLogLevel).Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("web-interface-server", cfg.Log.Level)
	log.Debug().Any("config", cfg.Redacted()).Msg("received configs")

	handlers := handler.NewHandlers(buildVersion, log)

	application, err := app.Build(cfg, log, handlers.Controllers()...)
	if err != nil {
		log.Fatal().Err(err).Msg("error building application")
	}

	srv, err := server.NewServer(application.Engine, application.MetricsHandler(), *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
