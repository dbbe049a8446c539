package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	natsadapter "github.com/samirrijal/aqgrid/internal/adapters/nats"
	"github.com/samirrijal/aqgrid/internal/core/ports"
	"github.com/samirrijal/aqgrid/internal/core/usecases"
	"github.com/samirrijal/aqgrid/internal/pkg/config"
	"github.com/samirrijal/aqgrid/internal/pkg/logging"
	"github.com/samirrijal/aqgrid/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load("aqgrid-sensors")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher ports.EventPublisher
	if cfg.NATS.URL != "" {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, serving HTTP only", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	sim := usecases.NewSensorSimulator(
		usecases.DefaultSensors(),
		rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5e45)),
		publisher,
	)
	go sim.Run(ctx, time.Duration(cfg.Sensors.Tick)*time.Second)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "aqgrid sensors",
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	app.Get("/aqi", func(c *fiber.Ctx) error {
		snap := sim.Snapshot()
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(fiber.Map{
			"timestamp": snap.Timestamp,
			"sensors":   snap.Sensors,
		})
	})
	app.Get("/metrics", metrics.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Sensors.Port)
		slog.Info("sensor simulator starting", "addr", addr, "tick_seconds", cfg.Sensors.Tick)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("sensor simulator stopped")
}
