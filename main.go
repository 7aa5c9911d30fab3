package main

import (
	"time"

	"github.com/VeyTgo/todoquest/config"
	"github.com/VeyTgo/todoquest/models"
	"github.com/VeyTgo/todoquest/progression"
	"github.com/VeyTgo/todoquest/routes"
	"github.com/VeyTgo/todoquest/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Quest{}, &models.Counter{})

	clock := progression.NewTimeAPIClock(cfg.ClockBaseURL, cfg.ClockTimezone, time.Duration(cfg.ClockTimeoutSec)*time.Second)
	svc := progression.NewService(db, clock)

	r := routes.SetupRouter(db, svc)

	// The reset endpoint stays available for external cron; the background
	// sweeper is a safety net for deployments without one.
	if cfg.SweepInBackground {
		progression.StartDailySweeper(svc, time.Duration(cfg.SweepIntervalMin)*time.Minute)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
