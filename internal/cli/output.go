package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case JoinResult:
		o.printJoinResult(v)
	case PollResult:
		o.printPollResult(v)
	case SendResult:
		fmt.Printf("Sent: %s\n", v.Text)
	case SubmitResult:
		fmt.Println("Submission recorded")
	case VoteResult:
		fmt.Printf("Voted: %s\n", v.Voted)
	case LeaveResult:
		fmt.Println("Left the game")
	case StatsResult:
		o.printStatsResult(v)
	case ServerStatsResult:
		o.printServerStats(v)
	case ProviderListResult:
		o.printProviderList(v)
	case Provider:
		o.printProvider(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// JoinResult is the agent join response
type JoinResult struct {
	Token         string `json:"token"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Message       string `json:"message"`
}

// PolledEvent is one buffered event from the poll snapshot
type PolledEvent struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// PollMessage is one chat message from the poll snapshot
type PollMessage struct {
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PollResult is the poll snapshot response
type PollResult struct {
	Phase       string          `json:"phase"`
	Started     bool            `json:"gameStarted"`
	Opponent    string          `json:"opponent,omitempty"`
	NewMessages []PollMessage   `json:"newMessages"`
	AllMessages []PollMessage   `json:"allMessages"`
	Events      []PolledEvent   `json:"events"`
	VotePhase   json.RawMessage `json:"votePhase,omitempty"`
	Reveal      json.RawMessage `json:"reveal,omitempty"`
}

// SendResult confirms a sent message
type SendResult struct {
	Sent bool   `json:"sent"`
	Text string `json:"text"`
}

// SubmitResult confirms a recorded submission
type SubmitResult struct {
	Submitted bool `json:"submitted"`
}

// VoteResult confirms a recorded vote
type VoteResult struct {
	Voted string `json:"voted"`
}

// LeaveResult confirms a departure
type LeaveResult struct {
	Left bool `json:"left"`
}

// StatsResult is the agent's personal record
type StatsResult struct {
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Streak     int `json:"streak"`
	TotalGames int `json:"totalGames"`
}

// ServerStatsResult is the public activity snapshot
type ServerStatsResult struct {
	PlayersOnline  int `json:"playersOnline"`
	GamesActive    int `json:"gamesActive"`
	PlayersWaiting int `json:"playersWaiting"`
}

// Provider is a registered provider
type Provider struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	WebhookURL     string     `json:"webhook_url"`
	CreatedAt      time.Time  `json:"created_at"`
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`
}

// ProviderListResult wraps the provider collection
type ProviderListResult struct {
	Providers []Provider `json:"providers"`
}

// HealthResult is the health check response
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printJoinResult(v JoinResult) {
	fmt.Printf("Joined as %s (%s)\n", v.Name, v.ParticipantID)
	fmt.Println("Token saved")
}

func (o *Output) printPollResult(v PollResult) {
	fmt.Printf("Phase: %s\n", v.Phase)
	if v.Opponent != "" {
		fmt.Printf("Opponent: %s\n", v.Opponent)
	}
	if len(v.NewMessages) > 0 {
		fmt.Println("New messages:")
		for _, m := range v.NewMessages {
			fmt.Printf("  [%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.From, m.Text)
		}
	}
	if len(v.Events) > 0 {
		fmt.Println("Events:")
		for _, e := range v.Events {
			data := string(e.Data)
			if len(data) > 80 {
				data = data[:80] + "..."
			}
			fmt.Printf("  [%s] %s %s\n", e.Timestamp.Format("15:04:05"), e.Type, data)
		}
	}
	if v.Reveal != nil {
		fmt.Printf("Reveal: %s\n", string(v.Reveal))
	}
}

func (o *Output) printStatsResult(v StatsResult) {
	fmt.Printf("Wins: %d  Losses: %d  Streak: %d  Games: %d\n",
		v.Wins, v.Losses, v.Streak, v.TotalGames)
}

func (o *Output) printServerStats(v ServerStatsResult) {
	fmt.Printf("Online: %d  Waiting: %d  Active games: %d\n",
		v.PlayersOnline, v.PlayersWaiting, v.GamesActive)
}

func (o *Output) printProvider(v Provider) {
	last := "never"
	if v.LastNotifiedAt != nil {
		last = v.LastNotifiedAt.Format(time.RFC3339)
	}
	fmt.Printf("%s  %s  %s  notified: %s\n", v.ID, v.Name, v.WebhookURL, last)
}

func (o *Output) printProviderList(v ProviderListResult) {
	if len(v.Providers) == 0 {
		fmt.Println("No providers registered")
		return
	}
	var b strings.Builder
	for _, p := range v.Providers {
		last := "never"
		if p.LastNotifiedAt != nil {
			last = p.LastNotifiedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "%s  %s  %s  notified: %s\n", p.ID, p.Name, p.WebhookURL, last)
	}
	fmt.Print(b.String())
}
