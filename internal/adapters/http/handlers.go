package http

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/aqgrid/internal/core/domain"
	"github.com/samirrijal/aqgrid/internal/core/usecases"
)

// sensorInput mirrors domain.Sensor with pointers so missing fields are
// detected instead of silently read as zero.
type sensorInput struct {
	X   *float64 `json:"x"`
	Y   *float64 `json:"y"`
	AQI *float64 `json:"aqi"`
}

type generateAQIRequest struct {
	Sensors []sensorInput `json:"sensors"`
}

type generatePriorityRequest struct {
	AQIMatrix        domain.Grid `json:"aqi_matrix"`
	PopulationMatrix domain.Grid `json:"population_matrix"`
}

// GenerateAQIHandler interpolates the posted sensors onto the grid.
func GenerateAQIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generateAQIRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if len(req.Sensors) == 0 {
			return errBadRequest(c, usecases.ErrNoSensors.Error())
		}

		sensors := make([]domain.Sensor, len(req.Sensors))
		for i, s := range req.Sensors {
			if s.X == nil || s.Y == nil || s.AQI == nil {
				return errBadRequest(c, fmt.Sprintf("sensor %d: x, y and aqi are required", i))
			}
			sensors[i] = domain.Sensor{X: *s.X, Y: *s.Y, AQI: *s.AQI}
		}

		m, err := deps.AQI.Generate(c.UserContext(), sensors)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(m)
	}
}

// GeneratePopulationHandler returns one population matrix from the
// configured source. Any failure is a 500 carrying the underlying message.
func GeneratePopulationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := deps.Population.Fetch(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(g.Matrix)
	}
}

// GeneratePriorityHandler ranks the posted grids and returns the top cells.
func GeneratePriorityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generatePriorityRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.AQIMatrix == nil || req.PopulationMatrix == nil {
			return errBadRequest(c, "aqi_matrix and population_matrix are required")
		}

		top, err := deps.Priority.TopCells(c.UserContext(), req.AQIMatrix, req.PopulationMatrix)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"top_5": top})
	}
}

// LiveAQIHandler interpolates the current live sensor readings.
func LiveAQIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sensors, m, err := deps.AQI.Live(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}

		c.Set("Cache-Control", "no-cache")
		return c.JSON(fiber.Map{
			"timestamp": time.Now().UTC(),
			"sensors":   sensors,
			"grid_size": m.GridSize,
			"min":       m.Min,
			"max":       m.Max,
			"matrix":    m.Matrix,
		})
	}
}

// LivePopulationHandler returns a population grid with its source name.
func LivePopulationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := deps.Population.Fetch(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{
			"timestamp": time.Now().UTC(),
			"name":      g.Name,
			"matrix":    g.Matrix,
		})
	}
}

// PriorityZonesHandler computes the current top zones from live inputs.
func PriorityZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		run, err := deps.Priority.LiveZones(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}

		c.Set("Cache-Control", "no-cache")
		return c.JSON(fiber.Map{
			"timestamp":         run.CreatedAt,
			"run_id":            run.ID,
			"population_source": run.PopulationSource,
			"top_5":             run.Zones,
		})
	}
}

// RankingsHandler pages through the full live ranking. Every response names
// its population grid; passing it back as ?population= keeps later pages on
// the same grid. Sensor readings are live and can still move between pages.
func RankingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := parsePage(c, 100, 1000)

		ranking, err := deps.Priority.LiveRanking(c.UserContext(), c.Query("population"))
		if err != nil {
			return errFromService(c, err)
		}

		start, end := pageBounds(offset, limit, len(ranking.Cells))
		pg := Pagination{Offset: offset, Limit: limit, Total: len(ranking.Cells)}
		SetLinkHeaders(c, pg, url.Values{"population": {ranking.PopulationSource}})
		c.Set("Cache-Control", "no-cache")
		return c.JSON(RankingPage{
			PopulationSource: ranking.PopulationSource,
			PaginatedResponse: PaginatedResponse{
				Data:       ranking.Cells[start:end],
				Pagination: pg,
			},
		})
	}
}

// RunsHandler lists recently recorded priority runs.
func RunsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		runs, err := deps.Runs.Recent(c.UserContext(), c.QueryInt("limit", 20))
		if err != nil {
			return errFromService(c, err)
		}
		if runs == nil {
			runs = []domain.PriorityRun{}
		}
		return c.JSON(runs)
	}
}

// AQICategoryHandler classifies an AQI value.
func AQICategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("aqi")
		if raw == "" {
			return errBadRequest(c, "aqi query parameter is required")
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return errBadRequest(c, "aqi must be a finite number")
		}

		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(fiber.Map{
			"aqi":      v,
			"category": domain.CategoryFor(v),
		})
	}
}
