package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/cascade"
)

// DeleteResult is the output of delete.
type DeleteResult struct {
	Type    cascade.EntityType   `json:"type"`
	ID      string               `json:"id"`
	Info    cascade.DeletionInfo `json:"info"`
	Deleted bool                 `json:"deleted"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <team|player|set|game> <ref>",
		Short: "Delete an entity and everything that depends on it",
		Long: `Delete an entity and everything that depends on it.

Without --yes the command only lists what the deletion would reach.

  team    removes the team with its games, players and sets
  player  removes the player and takes them off every game's court
  set     removes the lineup and deactivates it in every game
  game    removes the game

Box scores and per-game lineup snapshots of other games are kept.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := cascade.ParseEntityType(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid entity type", err)
			}
			return withSession(cmd, opts, func(s *session) error {
				id, err := resolveEntity(s.repo, string(kind), args[1])
				if err != nil {
					return err
				}
				res := DeleteResult{Type: kind, ID: id, Info: s.cascade.GetDeletionInfo(kind, id)}
				if yes {
					if !s.cascade.Delete(kind, id) {
						return refused("delete")
					}
					if err := s.commit("delete."+string(kind), id, map[string]any{
						"games":   len(res.Info.Games),
						"players": len(res.Info.Players),
						"sets":    len(res.Info.Sets),
					}); err != nil {
						return err
					}
					res.Deleted = true
				}
				return s.out.Success(res, func(w io.Writer) { printDeletion(w, res) })
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "perform the deletion")
	return cmd
}

func printDeletion(w io.Writer, res DeleteResult) {
	verb := "Would affect"
	if res.Deleted {
		verb = "Deleted " + string(res.Type) + " " + res.ID + ", affected"
	}
	if res.Info.Empty() {
		fmt.Fprintf(w, "%s nothing else\n", verb)
	} else {
		fmt.Fprintf(w, "%s %d games, %d players, %d sets\n",
			verb, len(res.Info.Games), len(res.Info.Players), len(res.Info.Sets))
		for _, g := range res.Info.Games {
			fmt.Fprintf(w, "  game   %s vs %s\n", g.ID, g.OpposingTeamName)
		}
		for _, p := range res.Info.Players {
			fmt.Fprintf(w, "  player %s %s\n", p.ID, p.Name)
		}
		for _, st := range res.Info.Sets {
			fmt.Fprintf(w, "  set    %s %s\n", st.ID, st.Name)
		}
	}
	if !res.Deleted {
		fmt.Fprintln(w, "Run again with --yes to delete.")
	}
}
