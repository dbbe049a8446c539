package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/aqgrid/internal/adapters/postgres"
	"github.com/samirrijal/aqgrid/internal/adapters/valkey"
	"github.com/samirrijal/aqgrid/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	AQI        *usecases.AQIService
	Population *usecases.PopulationService
	Priority   *usecases.PriorityService
	Runs       *usecases.RunService
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
