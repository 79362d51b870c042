package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/setgame/internal/web/sse"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput, fragments bool
	var until string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream the session's live events",
		Long: `Connect to the session's event stream and print events as they happen.

Events include:
  - connected: Current score, cards left and timer on connect
  - board_changed: Cards dealt, removed or shuffled
  - score_changed: A hand resolved
  - remaining_changed: Cards left in deck and board
  - timer_tick: One second passed
  - mode_changed / pause_changed: Timer settings changed
  - notification / notification_cleared: Hand result message
  - game_ended: Time ran out or no sets remain
  - session_closed: The session was deleted

HTML fragments for the browser are skipped unless --fragments is set.
The stream ends on session_closed, on the --until event, or on Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireSession(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cfg.SessionID, streamOptions{
				json:      jsonOutput,
				fragments: fragments,
				until:     until,
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().BoolVar(&fragments, "fragments", false, "Include HTML fragment events")
	cmd.Flags().StringVar(&until, "until", "", "Stop after the first event of this type (e.g. game_ended)")

	return cmd
}

type streamOptions struct {
	json      bool
	fragments bool
	until     string
}

// SSEEvent is one printed event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	ID    string    `json:"id,omitempty"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

// readEvents parses an SSE stream and calls fn for each complete event
// until fn returns false or the stream ends. Comments are skipped.
func readEvents(r io.Reader, fn func(SSEEvent) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var evt SSEEvent
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch {
		case line == "":
			if evt.Event != "" {
				evt.Data = strings.Join(data, "\n")
				evt.Time = time.Now()
				if !fn(evt) {
					return nil
				}
			}
			evt, data = SSEEvent{}, nil
		case field == "":
			// comment, e.g. keepalive
		case field == "event":
			evt.Event = value
		case field == "id":
			evt.ID = value
		case field == "data":
			data = append(data, value)
		}
	}
	return scanner.Err()
}

func streamEvents(ctx context.Context, sessionID string, opts streamOptions) error {
	// The stream lives on the web router; EventSource clients pass the token
	// as a query parameter
	u := strings.TrimSuffix(cfg.ServerURL, "/") + "/sessions/" + url.PathEscape(sessionID) +
		"/events?token=" + url.QueryEscape(cfg.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := &http.Client{
		// A bad token redirects to the home page; report it instead of following
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusSeeOther, http.StatusUnauthorized:
		return fmt.Errorf("session %s not found or token rejected", sessionID)
	default:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !opts.json {
		fmt.Printf("Connected to session %s\n", sessionID)
	}

	err = readEvents(resp.Body, func(evt SSEEvent) bool {
		if opts.fragments || evt.Event != sse.FragmentEvent {
			printEvent(evt, opts.json)
		}
		return evt.Event != sse.SessionClosedEvent && evt.Event != opts.until
	})
	if err != nil && !errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("stream error: %w", err)
	}

	if !opts.json {
		fmt.Println("Disconnected")
	}
	return nil
}

func printEvent(evt SSEEvent, jsonOutput bool) {
	if jsonOutput {
		line, _ := json.Marshal(evt)
		fmt.Println(string(line))
		return
	}

	display := strings.ReplaceAll(evt.Data, "\n", " ")
	if len(display) > 100 {
		display = display[:100] + "..."
	}
	fmt.Printf("[%s] %s: %s\n", evt.Time.Format("15:04:05"), evt.Event, display)
}
