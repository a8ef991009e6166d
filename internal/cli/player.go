package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/ledger"
)

// NewPlayerCommand creates the player command group.
func NewPlayerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage players",
		Long: `Manage players.

Players are referenced by id, name (fuzzy matched) or jersey number ("#7").`,
	}
	cmd.AddCommand(newPlayerAddCommand(rootOpts))
	cmd.AddCommand(newPlayerUpdateCommand(rootOpts))
	cmd.AddCommand(newPlayerListCommand(rootOpts))
	return cmd
}

func newPlayerAddCommand(opts *RootOptions) *cobra.Command {
	var team string
	var number int
	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Add a player to a team",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				teamID, err := resolveTeam(s.repo, team)
				if err != nil {
					return err
				}
				player := s.ledger.AddPlayer(args[0], number, teamID)
				if err := s.commit("player.add", player.ID, map[string]any{"name": player.Name, "number": number, "team": teamID}); err != nil {
					return err
				}
				return s.out.Success(player, func(w io.Writer) {
					fmt.Fprintf(w, "Added player #%d %s (%s)\n", player.Number, player.Name, player.ID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "team id or name (required)")
	cmd.Flags().IntVarP(&number, "number", "n", 0, "jersey number")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newPlayerUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, team string
	var number int
	cmd := &cobra.Command{
		Use:           "update <player>",
		Short:         "Change a player's name, number or team",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				playerID, err := resolvePlayer(s.repo, "", args[0])
				if err != nil {
					return err
				}
				var u ledger.PlayerUpdate
				if cmd.Flags().Changed("name") {
					u.Name = &name
				}
				if cmd.Flags().Changed("number") {
					u.Number = &number
				}
				if cmd.Flags().Changed("team") {
					teamID, err := resolveTeam(s.repo, team)
					if err != nil {
						return err
					}
					u.TeamID = &teamID
				}
				if !s.ledger.UpdatePlayer(playerID, u) {
					return refused("player update")
				}
				player, _ := s.repo.Players().Get(playerID)
				if err := s.commit("player.update", playerID, player); err != nil {
					return err
				}
				return s.out.Success(player, func(w io.Writer) {
					fmt.Fprintf(w, "Updated player #%d %s (%s)\n", player.Number, player.Name, player.ID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().IntVarP(&number, "number", "n", 0, "new jersey number")
	cmd.Flags().StringVar(&team, "team", "", "move to team (id or name)")
	return cmd
}

func newPlayerListCommand(opts *RootOptions) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List players with career records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				teamID := ""
				if team != "" {
					var err error
					if teamID, err = resolveTeam(s.repo, team); err != nil {
						return err
					}
				}
				players := s.repo.Players().Filter(func(p domain.Player) bool {
					return teamID == "" || p.TeamID == teamID
				})
				return s.out.Success(players, func(w io.Writer) {
					if len(players) == 0 {
						fmt.Fprintln(w, "No players.")
						return
					}
					for _, p := range players {
						fmt.Fprintf(w, "%-36s  #%-3d %-20s  %s\n", p.ID, p.Number, p.Name, p.GameNumbers)
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "only this team's players")
	return cmd
}

// NewSetCommand creates the set (lineup) command group.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage lineups",
	}
	cmd.AddCommand(newSetAddCommand(rootOpts))
	cmd.AddCommand(newSetListCommand(rootOpts))
	return cmd
}

func newSetAddCommand(opts *RootOptions) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Add a lineup to a team",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				teamID, err := resolveTeam(s.repo, team)
				if err != nil {
					return err
				}
				set := s.ledger.AddSet(args[0], teamID)
				if err := s.commit("set.add", set.ID, map[string]any{"name": set.Name, "team": teamID}); err != nil {
					return err
				}
				return s.out.Success(set, func(w io.Writer) {
					fmt.Fprintf(w, "Added set %s (%s)\n", set.Name, set.ID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "team id or name (required)")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newSetListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List lineups with run counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				sets := s.repo.Sets().All()
				return s.out.Success(sets, func(w io.Writer) {
					if len(sets) == 0 {
						fmt.Fprintln(w, "No sets.")
						return
					}
					for _, st := range sets {
						fmt.Fprintf(w, "%-36s  %-20s  runs=%d\n", st.ID, st.Name, st.RunCount)
					}
				})
			})
		},
	}
}
