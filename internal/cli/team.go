package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/ledger"
	"github.com/roach88/statbook/internal/stats"
)

// NewTeamCommand creates the team command group.
func NewTeamCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}
	cmd.AddCommand(newTeamAddCommand(rootOpts))
	cmd.AddCommand(newTeamUpdateCommand(rootOpts))
	cmd.AddCommand(newTeamListCommand(rootOpts))
	cmd.AddCommand(newTeamShowCommand(rootOpts))
	return cmd
}

func newTeamAddCommand(opts *RootOptions) *cobra.Command {
	var image string
	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Add a team",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				team := s.ledger.AddTeam(args[0], image)
				if err := s.commit("team.add", team.ID, map[string]any{"name": team.Name}); err != nil {
					return err
				}
				return s.out.Success(team, func(w io.Writer) {
					fmt.Fprintf(w, "Added team %s (%s)\n", team.Name, team.ID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "image reference")
	return cmd
}

func newTeamUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, image string
	cmd := &cobra.Command{
		Use:           "update <team>",
		Short:         "Rename a team or change its image",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				teamID, err := resolveTeam(s.repo, args[0])
				if err != nil {
					return err
				}
				var u ledger.TeamUpdate
				if cmd.Flags().Changed("name") {
					u.Name = &name
				}
				if cmd.Flags().Changed("image") {
					u.ImageRef = &image
				}
				if !s.ledger.UpdateTeam(teamID, u) {
					return refused("team update")
				}
				if err := s.commit("team.update", teamID, map[string]any{"name": name, "image": image}); err != nil {
					return err
				}
				team, _ := s.repo.Teams().Get(teamID)
				return s.out.Success(team, func(w io.Writer) {
					fmt.Fprintf(w, "Updated team %s (%s)\n", team.Name, team.ID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&image, "image", "", "new image reference")
	return cmd
}

func newTeamListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List teams with their records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				teams := s.repo.Teams().All()
				return s.out.Success(teams, func(w io.Writer) {
					if len(teams) == 0 {
						fmt.Fprintln(w, "No teams.")
						return
					}
					for _, t := range teams {
						fmt.Fprintf(w, "%-36s  %-20s  %s\n", t.ID, t.Name, t.GameNumbers)
					}
				})
			})
		},
	}
}

// TeamView is a team with its roster and lineups.
type TeamView struct {
	domain.Team
	Players []domain.Player `json:"players"`
	Sets    []domain.Set    `json:"sets"`
}

func newTeamShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <team>",
		Short:         "Show a team's roster, lineups and season totals",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				teamID, err := resolveTeam(s.repo, args[0])
				if err != nil {
					return err
				}
				team, _ := s.repo.Teams().Get(teamID)
				view := TeamView{
					Team:    team,
					Players: s.repo.Players().Filter(func(p domain.Player) bool { return p.TeamID == teamID }),
					Sets:    s.repo.Sets().Filter(func(st domain.Set) bool { return st.TeamID == teamID }),
				}
				return s.out.Success(view, func(w io.Writer) {
					fmt.Fprintf(w, "%s (%s)  %s\n", team.Name, team.ID, team.GameNumbers)
					fmt.Fprintf(w, "Points: %d for, %d against\n",
						team.Stats.Us.Get(stats.Points), team.Stats.Opponent.Get(stats.Points))
					for _, p := range view.Players {
						fmt.Fprintf(w, "  #%-3d %-20s  %s\n", p.Number, p.Name, p.GameNumbers)
					}
					for _, st := range view.Sets {
						fmt.Fprintf(w, "  set %-20s  runs=%d\n", st.Name, st.RunCount)
					}
				})
			})
		},
	}
}
