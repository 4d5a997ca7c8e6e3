package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/agentd/internal/agent"
	"github.com/fyrsmithlabs/agentd/internal/config"
	"github.com/fyrsmithlabs/agentd/internal/guardrails"
	"github.com/fyrsmithlabs/agentd/internal/logging"
	"github.com/fyrsmithlabs/agentd/internal/message"
	"github.com/fyrsmithlabs/agentd/internal/telemetry"
)

var systemPrompt string

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the configured model.

An optional prompt argument is processed as the first turn. Tool calls
the policy cannot auto-decide prompt for confirmation on the terminal.

Examples:
  # Interactive session
  agentd chat

  # One prompt first, then interactive
  agentd chat "Summarize the open pull requests"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&systemPrompt, "system", "", "system prompt for the conversation")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, &cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	confirmer := newTerminalConfirmer(os.Stdin, os.Stdout)
	ag, closeTools, err := buildAgent(ctx, cfg, confirmer, logger)
	if err != nil {
		return err
	}
	defer closeTools()

	ctx = logging.WithSessionID(ctx, uuid.NewString())

	bag := message.NewBag()
	if systemPrompt != "" {
		bag = bag.Append(message.System(systemPrompt))
	}

	if len(args) == 1 {
		bag = processTurn(ctx, ag, bag, args[0])
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			return nil
		}
		bag = processTurn(ctx, ag, bag, input)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// processTurn runs one call and returns the conversation to continue
// from. Blocked turns and denials keep the session alive; the offending
// input is not retained.
func processTurn(ctx context.Context, ag *agent.Agent, bag message.Bag, input string) message.Bag {
	candidate := bag.Append(message.User(input))
	ctx = logging.WithCallID(ctx, uuid.NewString())

	result, err := ag.Call(ctx, candidate, agent.CallOptions{})
	if err != nil {
		var blocked *guardrails.BlockedError
		if errors.As(err, &blocked) {
			fmt.Printf("Blocked by %s guardrail: %s\n", blocked.Stage, blocked.Result.Reason)
			return bag
		}
		fmt.Printf("Error: %v\n", err)
		return bag
	}

	fmt.Printf("Agent: %s\n", result.Answer)
	return result.Bag
}
