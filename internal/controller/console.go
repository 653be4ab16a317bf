package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zonesync-proto/zonesync/internal/envelope"
)

// Console drives the interactive action menu. The flow is strictly
// request/wait/next-request: a new command cannot be issued while a wait
// window is running.
type Console struct {
	ctrl        *Controller
	in          *bufio.Scanner
	out         io.Writer
	defaultWait time.Duration
}

// NewConsole creates a console reading operator input from in.
func NewConsole(ctrl *Controller, in io.Reader, out io.Writer, defaultWait time.Duration) *Console {
	return &Console{
		ctrl:        ctrl,
		in:          bufio.NewScanner(in),
		out:         out,
		defaultWait: defaultWait,
	}
}

// Run loops the menu until the operator quits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.printMenu()

		choice, ok := c.prompt("Select action: ")
		if !ok || strings.EqualFold(choice, "q") {
			fmt.Fprintln(c.out, "Quitting...")
			return nil
		}

		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(envelope.Actions) {
			fmt.Fprintln(c.out, "Invalid action selected.")
			continue
		}
		action := envelope.Actions[n-1]

		path := ""
		if action.NeedsPath() {
			path, ok = c.prompt("Enter path: ")
			if !ok {
				return nil
			}
			if path == "" {
				fmt.Fprintln(c.out, "Path cannot be empty.")
				continue
			}
		}

		wait := c.defaultWait
		answer, ok := c.prompt(fmt.Sprintf("Set wait window (seconds) [default %d]: ", int(wait.Seconds())))
		if !ok {
			return nil
		}
		if secs, err := strconv.Atoi(answer); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}

		if err := c.ctrl.IssueCommand(ctx, action, path); err != nil {
			fmt.Fprintf(c.out, "Command failed: %v\n", err)
			continue
		}

		fmt.Fprintf(c.out, "Waiting %s for responses...\n", wait)
		c.report(action, c.ctrl.Collect(wait))
	}
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out, "Actions:")
	for i, action := range envelope.Actions {
		fmt.Fprintf(c.out, "\t[%d] %s\n", i+1, action)
	}
	fmt.Fprintln(c.out, "\t[Q] Quit.")
}

func (c *Console) report(action envelope.Action, responses []envelope.Response) {
	fmt.Fprintf(c.out, "\nResponses (%d):\n", len(responses))
	for _, r := range responses {
		if action == envelope.ActionFetchFile {
			saved, err := c.ctrl.SaveArtifact(r)
			if err != nil {
				fmt.Fprintf(c.out, "\t- %s failed to save: %v\n", r.Identity, err)
				continue
			}
			fmt.Fprintf(c.out, "\t- %s response saved to %s\n", r.Identity, saved)
			continue
		}
		fmt.Fprintf(c.out, "\t- %s: %s\n", r.Identity, r.Message)
	}
}

// prompt prints label and reads one trimmed line. ok is false once input is
// exhausted.
func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}
