// Command pyroutech-server runs the journey planner behind an HTTP API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"pyroutech.ch/internal/config"
	"pyroutech.ch/internal/feedstore"
	"pyroutech.ch/internal/logging"
	"pyroutech.ch/internal/query"
	"pyroutech.ch/internal/restapi"
)

func scanConfigFlag(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func main() {
	configPath := scanConfigFlag(os.Args[1:])
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	flag.String("config", configPath, "optional YAML config file")
	config.RegisterFlags(flag.CommandLine, &cfg)
	flag.Parse()

	logger := logging.New(os.Stdout, cfg.SlogLevel(), cfg.LogJSON)

	fs, err := feedstore.Load(cfg.GTFSDir, logger)
	if err != nil {
		logger.Error("failed to load GTFS feed", "error", err)
		os.Exit(1)
	}

	srv := &restapi.Server{
		FeedStore: fs,
		DefaultOptions: query.Options{
			MaxRoutes:      cfg.DefaultMaxRoutes,
			MinTransferSec: cfg.MinTransferSec,
			LabelsPerStop:  cfg.LabelsPerStop,
			LookbackSec:    cfg.LookbackSec,
		},
		Logger: logger,
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      restapi.NewRouter(srv),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", httpServer.Addr, "gtfs_dir", cfg.GTFSDir)
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
