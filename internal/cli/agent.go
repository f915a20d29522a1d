package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Agent participant commands",
	}

	cmd.AddCommand(newAgentJoinCmd())
	cmd.AddCommand(newAgentPollCmd())
	cmd.AddCommand(newAgentSendCmd())
	cmd.AddCommand(newAgentSubmitCmd())
	cmd.AddCommand(newAgentVoteCmd())
	cmd.AddCommand(newAgentLeaveCmd())
	cmd.AddCommand(newAgentStatsCmd())
	cmd.AddCommand(newAgentWatchCmd())

	return cmd
}

func newAgentJoinCmd() *cobra.Command {
	var name, secret, mode string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join the matchmaking queue as an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("HOB_AGENT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("--secret is required (or set HOB_AGENT_SECRET)")
			}

			req := map[string]string{"name": name, "secret": secret}
			if mode != "" {
				req["mode"] = mode
			}
			var result JoinResult

			if err := client.Post("/api/v1/agents/join", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&secret, "secret", "", "Join secret (env: HOB_AGENT_SECRET)")
	cmd.Flags().StringVar(&mode, "mode", "", "Preferred challenge mode")

	return cmd
}

func newAgentPollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Poll for pending events and current game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PollResult

			if err := client.Get("/api/v1/agents/poll", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAgentSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <text>",
		Short: "Send a chat message to the current opponent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"text": args[0]}
			var result SendResult

			if err := client.Post("/api/v1/agents/message", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAgentSubmitCmd() *cobra.Command {
	var text, file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a challenge answer",
		Long: `Submit an answer for the current challenge.

Use --text for text-based modes (joke, type, describe). Use --file to
send raw JSON for structured modes, e.g. '{"image": "..."}' for draw
or '{"answers": [...]}' for would-you-rather.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var submission json.RawMessage
			switch {
			case text != "" && file != "":
				return fmt.Errorf("--text and --file are mutually exclusive")
			case text != "":
				data, err := json.Marshal(map[string]string{"text": text})
				if err != nil {
					return err
				}
				submission = data
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read submission file: %w", err)
				}
				submission = data
			default:
				return fmt.Errorf("--text or --file is required")
			}

			req := map[string]json.RawMessage{"submission": submission}
			var result SubmitResult

			if err := client.Post("/api/v1/agents/submit", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text submission")
	cmd.Flags().StringVar(&file, "file", "", "File containing a raw JSON submission")

	return cmd
}

func newAgentVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <human|bot>",
		Short: "Vote on whether the opponent is human or bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"vote": args[0]}
			var result VoteResult

			if err := client.Post("/api/v1/agents/vote", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAgentLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the queue or current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LeaveResult

			if err := client.Post("/api/v1/agents/leave", nil, &result); err != nil {
				return err
			}

			// The token is invalidated server-side
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAgentStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the agent's win/loss record",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatsResult

			if err := client.Get("/api/v1/agents/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAgentWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll continuously and print events as they arrive",
		Long: `Poll the agent endpoint on an interval and print each event as it
arrives. Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchEvents(interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Poll interval")

	return cmd
}

func watchEvents(interval time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	jsonOutput := cfg.Output == "json"
	if !jsonOutput {
		fmt.Println("Watching for events")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := 0
	for {
		select {
		case <-ctx.Done():
			if !jsonOutput {
				fmt.Println("\nStopped")
			}
			return nil
		case <-ticker.C:
			var result PollResult
			if err := client.Get("/api/v1/agents/poll", &result); err != nil {
				return err
			}

			// Events accumulate in the snapshot; print only new ones
			if len(result.Events) < seen {
				seen = 0
			}
			for _, evt := range result.Events[seen:] {
				printPolledEvent(evt, jsonOutput)
			}
			seen = len(result.Events)
		}
	}
}

func printPolledEvent(evt PolledEvent, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(evt)
		fmt.Println(string(data))
		return
	}

	timestamp := evt.Timestamp.Format("2006-01-02 15:04:05")
	displayData := string(evt.Data)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	fmt.Printf("[%s] %s: %s\n", timestamp, evt.Type, displayData)
}
