// Package controller implements the operator side of the channel: issuing
// disguised commands and gathering the replies that arrive inside the wait
// window.
package controller

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/zonesync-proto/zonesync/internal/bus"
	"github.com/zonesync-proto/zonesync/internal/envelope"
)

// Controller broadcasts commands and aggregates agent replies.
type Controller struct {
	bus         bus.Bus
	topic       string
	artifactDir string
	agg         *Aggregator
	logger      zerolog.Logger
}

// New creates a controller publishing and listening on topic.
func New(b bus.Bus, topic, artifactDir string, logger zerolog.Logger) *Controller {
	return &Controller{
		bus:         b,
		topic:       topic,
		artifactDir: artifactDir,
		agg:         NewAggregator(),
		logger:      logger,
	}
}

// Start subscribes to the shared topic. Replies fold into the current wait
// window; everything else on the topic is dropped silently.
func (c *Controller) Start(ctx context.Context) error {
	return c.bus.Subscribe(ctx, c.topic, func(_ string, payload []byte) {
		in := envelope.Classify(payload)
		if in.Verdict != envelope.VerdictResponse {
			return
		}
		c.logger.Debug().Str("identity", in.Response.Identity).Msg("response received")
		c.agg.Append(*in.Response)
	})
}

// IssueCommand opens a fresh wait window and broadcasts the command. Every
// response classified before the next IssueCommand belongs to this window.
func (c *Controller) IssueCommand(ctx context.Context, action envelope.Action, argument string) error {
	env, err := envelope.BuildCommand(action, argument)
	if err != nil {
		return err
	}
	raw, err := env.Encode()
	if err != nil {
		return err
	}

	c.agg.Clear()
	return c.bus.Publish(ctx, c.topic, raw)
}

// Collect waits out the window and returns the responses in arrival order.
func (c *Controller) Collect(d time.Duration) []envelope.Response {
	return c.agg.Collect(d)
}

// SaveArtifact writes a fetched file body into the artifact directory under a
// unique name. Bodies that decode as base64 are stored decoded, anything
// else is stored as-is.
func (c *Controller) SaveArtifact(r envelope.Response) (string, error) {
	name := fmt.Sprintf("%s_%s.dat", r.Identity, ulid.Make())
	path := filepath.Join(c.artifactDir, name)

	data := []byte(r.Message)
	if decoded, err := base64.StdEncoding.DecodeString(r.Message); err == nil {
		data = decoded
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
