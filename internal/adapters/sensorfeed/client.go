// Package sensorfeed reads live sensor readings from a sensor server over HTTP.
package sensorfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// Client implements ports.SensorSource against GET {url} → {"sensors": [...]}.
type Client struct {
	url     string
	timeout time.Duration
}

func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{url: url, timeout: timeout}
}

type payload struct {
	Sensors []domain.Sensor `json:"sensors"`
}

func (c *Client) CurrentSensors(ctx context.Context) ([]domain.Sensor, error) {
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	agent := fiber.Get(c.url).Timeout(timeout)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("get %s: %w", c.url, errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", c.url, status)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode sensors: %w", err)
	}
	return p.Sensors, nil
}
