package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brokercrm/server/config"
	"brokercrm/server/internal/api"
	"brokercrm/server/internal/clock"
	"brokercrm/server/internal/database"
	"brokercrm/server/internal/followup"
	"brokercrm/server/internal/labels"
	"brokercrm/server/internal/matching"
	"brokercrm/server/internal/processor"
	"brokercrm/server/internal/queue"
	"brokercrm/server/internal/scheduler"
	"brokercrm/server/internal/tasks"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
	}

	logger.Infof("Using database at: %s", cfg.DBPath)
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	groups, err := config.LoadLocationGroups(cfg.LocationGroupsPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load location groups")
	}

	clk := clock.System{}
	calculator := tasks.NewCalculator(clk)

	completions := queue.NewCompletionQueue(cfg.RecurrenceProcessing.QueueSize, logger)
	recurrence := processor.NewRecurrenceProcessor(db, calculator, completions, cfg, logger)
	recurrence.Start()
	defer recurrence.Stop()

	sweep := scheduler.NewScheduler(db, clk, cfg.FollowUp.SweepInterval, logger)
	sweep.Start()
	defer sweep.Stop()

	handler := api.NewHandler(api.Dependencies{
		Store:       db,
		Clock:       clk,
		Engine:      matching.NewEngine(cfg.Matching.Workers, cfg.Matching.DefaultLimit),
		FollowUps:   followup.NewScheduler(clk),
		Calculator:  calculator,
		Groups:      groups,
		Completions: completions,
		Spawner:     recurrence,
		Catalog:     labels.NewCatalog(),
	}, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	api.SetupRoutes(router, handler)
	api.SetupLocationGroupRoutes(router, groups, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Accept-Language")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
