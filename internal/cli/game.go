package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/setgame/internal/api/request"
	"github.com/mcoot/setgame/internal/api/response"
)

// sessionPath returns the API path for the current session
func sessionPath(suffix string) (string, error) {
	if err := cfg.RequireSession(); err != nil {
		return "", err
	}
	return "/api/v1/sessions/" + url.PathEscape(cfg.SessionID) + suffix, nil
}

func newNewCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game and remember its session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CreatedSession

			if err := client.Post(cmd.Context(), "/api/v1/sessions", request.CreateSessionRequest{Mode: mode}, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(result.ID, result.Token); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Timer mode (see 'setgame modes')")

	return cmd
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List timer modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Mode

			if err := client.Get(cmd.Context(), "/api/v1/modes", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the board, score and timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath("")
			if err != nil {
				return err
			}

			var result response.Session
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <card-id>...",
		Short: "Toggle cards in the hand; three cards resolve the hand",
		Long: `Toggle one or more cards in order. Card IDs look like red-fill-oval-2
(color-shade-shape-number) and are shown by 'setgame state'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath("/select")
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			for _, id := range args {
				var result response.Selection
				if err := client.Post(cmd.Context(), path, request.SelectRequest{CardID: id}, &result); err != nil {
					return err
				}
				out.Print(result)
			}
			return nil
		},
	}
}

func newHintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hint",
		Short: "Show a valid set on the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath("/hint")
			if err != nil {
				return err
			}

			var result response.Hint
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <name>",
		Short: "Switch timer mode; starts a new game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath("/mode")
			if err != nil {
				return err
			}

			var result response.Session
			if err := client.Put(cmd.Context(), path, request.ModeRequest{Mode: args[0]}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause or resume the timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath("/pause")
			if err != nil {
				return err
			}

			var result response.Pause
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newShuffleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle",
		Short: "Return the board to the deck and deal again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath("/shuffle")
			if err != nil {
				return err
			}

			var result response.Shuffle
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Start a fresh game in the same mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath("/restart")
			if err != nil {
				return err
			}

			var result response.Session
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "End the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath("")
			if err != nil {
				return err
			}

			id := cfg.SessionID
			// A session that already expired is still forgotten locally
			if err := client.Delete(cmd.Context(), path); err != nil && !sessionGone(err) {
				return err
			}
			if err := cfg.ClearSession(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Session " + id + " closed")
			return nil
		},
	}
}
