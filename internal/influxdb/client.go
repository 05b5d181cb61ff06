// Package influxdb exports finished event lists to InfluxDB so runs can be
// inspected with the usual time-series tooling. The sink is optional; the
// simulation itself never touches the network.
package influxdb

import (
	"context"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	api "github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/bweide/sensim/internal/event"
)

const measurementName = "simulation_events"

// Config maps the connection details required to reach InfluxDB.
type Config struct {
	URL     string
	Token   string
	Org     string
	Bucket  string
	Timeout time.Duration
}

// FromEnv loads configuration values from environment variables.
// INFLUX_URL, INFLUX_TOKEN, INFLUX_ORG, and INFLUX_BUCKET are required.
// INFLUX_TIMEOUT is optional and defaults to 5s when not provided.
func FromEnv() (Config, error) {
	cfg := Config{
		URL:    os.Getenv("INFLUX_URL"),
		Token:  os.Getenv("INFLUX_TOKEN"),
		Org:    os.Getenv("INFLUX_ORG"),
		Bucket: os.Getenv("INFLUX_BUCKET"),
	}

	if cfg.URL == "" || cfg.Token == "" || cfg.Org == "" || cfg.Bucket == "" {
		return Config{}, fmt.Errorf("missing InfluxDB configuration, ensure INFLUX_URL, INFLUX_TOKEN, INFLUX_ORG, and INFLUX_BUCKET are set")
	}

	timeout := os.Getenv("INFLUX_TIMEOUT")
	switch {
	case timeout == "":
		cfg.Timeout = 5 * time.Second
	default:
		dur, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid INFLUX_TIMEOUT: %w", err)
		}
		cfg.Timeout = dur
	}

	return cfg, nil
}

// Client wraps the InfluxDB client with project-specific defaults.
type Client struct {
	cfg    Config
	client influxdb2.Client
}

// New establishes a new InfluxDB client based on the provided configuration.
// A ping is issued to ensure the connection is healthy before returning.
func New(ctx context.Context, cfg Config) (*Client, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	ctxPing := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctxPing, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	ok, err := client.Ping(ctxPing)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ping InfluxDB: %w", err)
	}
	if !ok {
		client.Close()
		return nil, fmt.Errorf("influxdb ping failed")
	}

	return &Client{cfg: cfg, client: client}, nil
}

// WriteAPI returns the blocking write API bound to the configured org and bucket.
func (c *Client) WriteAPI() api.WriteAPIBlocking {
	return c.client.WriteAPIBlocking(c.cfg.Org, c.cfg.Bucket)
}

// Config exposes the immutable client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// WriteEventList exports a finished event list, one point per event. Times of
// day are placed on the given date; the run id tags every point so several
// runs can share a bucket.
func (c *Client) WriteEventList(ctx context.Context, runID string, date time.Time, events []event.Event) error {
	writer := c.WriteAPI()
	for _, ev := range events {
		point := influxdb2.NewPoint(
			measurementName,
			map[string]string{
				"run_id":   runID,
				"event_id": ev.ID,
				"kind":     kindTag(ev.Action.Kind),
			},
			map[string]interface{}{
				"action": ev.Action.String(),
			},
			ev.Time.At(date),
		)
		if err := writer.WritePoint(ctx, point); err != nil {
			return fmt.Errorf("write event %s: %w", ev.ID, err)
		}
	}
	return nil
}

func kindTag(k event.Kind) string {
	switch k {
	case event.KindCreate:
		return "create"
	case event.KindMove:
		return "move"
	case event.KindDelete:
		return "delete"
	case event.KindMessage:
		return "message"
	}
	return "unknown"
}

// Ping checks the InfluxDB availability using the wrapped client.
func (c *Client) Ping(ctx context.Context) error {
	ok, err := c.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("influxdb ping failed")
	}
	return nil
}

// Close releases resources held by the underlying client.
func (c *Client) Close() {
	c.client.Close()
}

// MeasurementName returns the measurement identifier used for exported runs.
func MeasurementName() string {
	return measurementName
}
