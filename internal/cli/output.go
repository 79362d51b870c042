package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mcoot/setgame/internal/api/response"
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
	case response.CreatedSession:
		fmt.Printf("Session: %s\n", v.ID)
		fmt.Printf("Token: %s\n", v.Token)
		o.printGame(v.Game)
	case response.Session:
		fmt.Printf("Session: %s\n", v.ID)
		o.printGame(v.Game)
	case response.Selection:
		o.printSelection(v)
	case response.Hint:
		o.printHint(v)
	case response.Pause:
		if v.Paused {
			fmt.Println("Paused")
		} else {
			fmt.Println("Resumed")
		}
	case response.Shuffle:
		if !v.Shuffled {
			fmt.Println("Shuffle ignored")
			return
		}
		o.printGame(v.Game)
	case []response.Mode:
		o.printModes(v)
	case HealthResult:
		fmt.Printf("Status: %s (%d live sessions)\n", v.Status, v.LiveSessions)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGame(g response.Game) {
	fmt.Printf("Mode: %s  Time: %d  Score: %d  Cards left: %d\n",
		g.Timer.Mode, g.Timer.Remaining, g.Score, g.RemainingCards)
	if g.Timer.Paused {
		fmt.Println("PAUSED")
	}
	if g.Notification != nil {
		fmt.Println(g.Notification.Message)
	}

	fmt.Println()
	o.printBoard(g.Board, g.Hand)

	if len(g.Hand) > 0 {
		fmt.Printf("\nHand: %s\n", strings.Join(g.Hand, ", "))
	}
	if g.Ended {
		fmt.Printf("\nGame over. Final score: %d\n", g.Score)
	}
}

func (o *Output) printBoard(b response.Board, hand []string) {
	selected := make(map[string]bool, len(hand))
	for _, id := range hand {
		selected[id] = true
	}

	// Longest card ID is green-stripe-squiggle-3
	const width = 23
	for _, row := range b.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			switch {
			case c == nil:
				cells[i] = fmt.Sprintf(" %-*s ", width, ".")
			case selected[c.ID]:
				cells[i] = fmt.Sprintf("[%-*s]", width, c.ID)
			default:
				cells[i] = fmt.Sprintf(" %-*s ", width, c.ID)
			}
		}
		fmt.Println(strings.Join(cells, " "))
	}
}

func (o *Output) printSelection(s response.Selection) {
	switch {
	case s.Ignored:
		fmt.Println("Selection ignored")
	case s.Resolution != nil && s.Resolution.Valid:
		fmt.Printf("Set! Score %d\n", s.Game.Score)
	case s.Resolution != nil:
		fmt.Printf("Not a set. Score %d\n", s.Game.Score)
	case s.Selected:
		fmt.Printf("Selected (%d/3)\n", s.HandSize)
	default:
		fmt.Printf("Deselected (%d/3)\n", s.HandSize)
	}
}

func (o *Output) printHint(h response.Hint) {
	if !h.Found {
		fmt.Println("No set on the board")
		return
	}
	ids := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		ids[i] = c.ID
	}
	fmt.Printf("Hint: %s\n", strings.Join(ids, " "))
}

func (o *Output) printModes(modes []response.Mode) {
	for _, m := range modes {
		def := ""
		if m.Default {
			def = " [default]"
		}
		fmt.Printf("  %-10s %4ds +%ds%s\n", m.Name, m.Initial, m.Increment, def)
	}
}
