package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/agentd/internal/message"
	"github.com/fyrsmithlabs/agentd/internal/policy"
)

// terminalConfirmer prompts on the terminal when the policy defers a
// tool call to the user.
type terminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalConfirmer(in io.Reader, out io.Writer) *terminalConfirmer {
	return &terminalConfirmer{in: bufio.NewReader(in), out: out}
}

// RequestConfirmation implements policy.ConfirmationHandler.
func (c *terminalConfirmer) RequestConfirmation(ctx context.Context, call message.ToolCall) (policy.ConfirmationResult, error) {
	fmt.Fprintf(c.out, "\nThe model wants to run %s", call.Name)
	if len(call.Args) > 0 {
		fmt.Fprintf(c.out, " with:\n")
		keys := make([]string, 0, len(call.Args))
		for k := range call.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(c.out, "  %s: %v\n", k, call.Args[k])
		}
	} else {
		fmt.Fprintln(c.out)
	}

	for {
		fmt.Fprint(c.out, "Allow? [y]es / [n]o / [a]lways / ne[v]er: ")
		line, err := c.in.ReadString('\n')
		if err != nil {
			return policy.ConfirmationResult{}, fmt.Errorf("read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return policy.ConfirmOnce(), nil
		case "n", "no":
			return policy.DenyOnce(), nil
		case "a", "always":
			return policy.ConfirmAlways(), nil
		case "v", "never":
			return policy.DenyNever(), nil
		}
		fmt.Fprintln(c.out, "Please answer y, n, a or v.")
	}
}
