package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/aqgrid/internal/core/domain"
)

func zoneToMap(z domain.Zone) map[string]interface{} {
	return map[string]interface{}{
		"x":              z.X,
		"y":              z.Y,
		"priority_score": z.PriorityScore,
		"aqi":            z.AQI,
		"category":       string(z.Category),
	}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	sensorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Sensor",
		Fields: graphql.Fields{
			"x":   &graphql.Field{Type: graphql.Float},
			"y":   &graphql.Field{Type: graphql.Float},
			"aqi": &graphql.Field{Type: graphql.Float},
		},
	})

	zoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Zone",
		Fields: graphql.Fields{
			"x":              &graphql.Field{Type: graphql.Int},
			"y":              &graphql.Field{Type: graphql.Int},
			"priority_score": &graphql.Field{Type: graphql.Float},
			"aqi":            &graphql.Field{Type: graphql.Float},
			"category":       &graphql.Field{Type: graphql.String},
		},
	})

	runType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PriorityRun",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"created_at":        &graphql.Field{Type: graphql.DateTime},
			"sensor_count":      &graphql.Field{Type: graphql.Int},
			"population_source": &graphql.Field{Type: graphql.String},
			"zones":             &graphql.Field{Type: graphql.NewList(zoneType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"sensors": &graphql.Field{
				Type:        graphql.NewList(sensorType),
				Description: "Current live sensor readings",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.AQI.LiveSensors(p.Context)
				},
			},
			"aqiCategory": &graphql.Field{
				Type:        graphql.String,
				Description: "EPA category for an AQI value",
				Args: graphql.FieldConfigArgument{
					"aqi": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					v, _ := p.Args["aqi"].(float64)
					return string(domain.CategoryFor(v)), nil
				},
			},
			"priorityZones": &graphql.Field{
				Type:        graphql.NewList(zoneType),
				Description: "Top priority zones from live sensors and population",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					run, err := deps.Priority.LiveZones(p.Context)
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, 0, len(run.Zones))
					for _, z := range run.Zones {
						result = append(result, zoneToMap(z))
					}
					return result, nil
				},
			},
			"runs": &graphql.Field{
				Type:        graphql.NewList(runType),
				Description: "Recently recorded priority runs",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					runs, err := deps.Runs.Recent(p.Context, limit)
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, 0, len(runs))
					for _, r := range runs {
						zones := make([]map[string]interface{}, 0, len(r.Zones))
						for _, z := range r.Zones {
							zones = append(zones, zoneToMap(z))
						}
						result = append(result, map[string]interface{}{
							"id":                r.ID,
							"created_at":        r.CreatedAt,
							"sensor_count":      r.SensorCount,
							"population_source": r.PopulationSource,
							"zones":             zones,
						})
					}
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
