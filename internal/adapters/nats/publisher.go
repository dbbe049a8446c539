package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/aqgrid/internal/core/domain"
)

// Subjects used on the bus.
const (
	SubjectSnapshot = "aqi.sensors.snapshot"
	SubjectZones    = "aqi.zones.updated"

	SensorsWildcard = "aqi.sensors.>"
	ZonesWildcard   = "aqi.zones.>"
)

// Streams returns the JetStream streams the publisher keeps in place.
func Streams() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      "AQI_SENSORS",
			Subjects:  []string{SensorsWildcard},
			Retention: nats.LimitsPolicy,
			MaxAge:    1 * time.Hour,
			MaxMsgs:   10_000,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "AQI_ZONES",
			Subjects:  []string{ZonesWildcard},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams() {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishSnapshot(ctx context.Context, snap *domain.SensorSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectSnapshot, data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishZones(ctx context.Context, run *domain.PriorityRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectZones, data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection (e.g. for the WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
