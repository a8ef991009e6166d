package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/completion"
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/stats"
)

// NewGameCommand creates the game command group.
func NewGameCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Manage games",
		Long: `Manage games.

Games are referenced by id or by a unique id prefix of at least 4 characters.`,
	}
	cmd.AddCommand(newGameAddCommand(rootOpts))
	cmd.AddCommand(newGameListCommand(rootOpts))
	cmd.AddCommand(newGameShowCommand(rootOpts))
	cmd.AddCommand(newGameActiveCommand(rootOpts))
	cmd.AddCommand(newGameCompleteCommand(rootOpts))
	cmd.AddCommand(newGameReopenCommand(rootOpts))
	return cmd
}

func newGameAddCommand(opts *RootOptions) *cobra.Command {
	var opponent string
	var periods int
	cmd := &cobra.Command{
		Use:           "add <team>",
		Short:         "Start a game for a team",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("periods") && opts.Config != nil {
				periods = opts.Config.Periods
			}
			if periods < 1 {
				return NewExitError(ExitCommandError, "--periods must be at least 1")
			}
			return withSession(cmd, opts, func(s *session) error {
				teamID, err := resolveTeam(s.repo, args[0])
				if err != nil {
					return err
				}
				game, ok := s.ledger.AddGame(teamID, opponent)
				if !ok {
					return refused("game add")
				}
				if periods > 1 && !s.ledger.ResetPeriod(game.ID, periods-1) {
					return refused("game add")
				}
				if err := s.commit("game.add", game.ID, map[string]any{"team": teamID, "opponent": game.OpposingTeamName, "periods": periods}); err != nil {
					return err
				}
				game, _ = s.repo.Games().Get(game.ID)
				return s.out.Success(game, func(w io.Writer) {
					fmt.Fprintf(w, "Added game vs %s (%s), %d periods\n", game.OpposingTeamName, game.ID, len(game.Periods))
				})
			})
		},
	}
	cmd.Flags().StringVar(&opponent, "opponent", "", "opposing team name (required)")
	cmd.Flags().IntVar(&periods, "periods", 1, "number of periods; STATBOOK_PERIODS when not given")
	_ = cmd.MarkFlagRequired("opponent")
	return cmd
}

// GameSummary is one row of game list.
type GameSummary struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	Opponent string `json:"opponent"`
	Us       int    `json:"us"`
	Them     int    `json:"them"`
	Finished bool   `json:"finished"`
}

func summarize(g domain.Game) GameSummary {
	return GameSummary{
		ID:       g.ID,
		TeamID:   g.TeamID,
		Opponent: g.OpposingTeamName,
		Us:       g.StatTotals.Us.Get(stats.Points),
		Them:     g.StatTotals.Opponent.Get(stats.Points),
		Finished: g.IsFinished,
	}
}

func newGameListCommand(opts *RootOptions) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List games",
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
				rows := []GameSummary{}
				for _, g := range s.repo.Games().All() {
					if teamID == "" || g.TeamID == teamID {
						rows = append(rows, summarize(g))
					}
				}
				return s.out.Success(rows, func(w io.Writer) {
					if len(rows) == 0 {
						fmt.Fprintln(w, "No games.")
						return
					}
					for _, r := range rows {
						state := "live"
						if r.Finished {
							state = "final"
						}
						fmt.Fprintf(w, "%-36s  vs %-20s  %3d-%-3d  %s\n", r.ID, r.Opponent, r.Us, r.Them, state)
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "only this team's games")
	return cmd
}

// BoxLine is one player's line in a box score.
type BoxLine struct {
	PlayerID string       `json:"player_id"`
	Name     string       `json:"name"`
	Number   int          `json:"number"`
	Stats    stats.Vector `json:"stats"`
}

// GameView is a game with its box score resolved to player names.
type GameView struct {
	Game     domain.Game   `json:"game"`
	Result   domain.Result `json:"result,omitempty"`
	BoxScore []BoxLine     `json:"box_score"`
	Periods  [][2]int      `json:"periods"`
}

func viewGame(s *session, g domain.Game) GameView {
	v := GameView{Game: g, BoxScore: []BoxLine{}, Periods: make([][2]int, len(g.Periods))}
	if g.IsFinished {
		v.Result = completion.CalculateGameResult(g)
	}
	for i, p := range g.Periods {
		v.Periods[i] = [2]int{p.Us, p.Opponent}
	}
	for _, p := range s.repo.Players().All() {
		line, ok := g.BoxScore[p.ID]
		if !ok {
			continue
		}
		v.BoxScore = append(v.BoxScore, BoxLine{PlayerID: p.ID, Name: p.Name, Number: p.Number, Stats: line})
	}
	return v
}

func newGameShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <game>",
		Short:         "Show the score by period and the box score",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				gameID, err := resolveGame(s.repo, args[0])
				if err != nil {
					return err
				}
				g, _ := s.repo.Games().Get(gameID)
				v := viewGame(s, g)
				return s.out.Success(v, func(w io.Writer) { printGame(w, v) })
			})
		},
	}
}

func printGame(w io.Writer, v GameView) {
	g := v.Game
	header := fmt.Sprintf("vs %s (%s)", g.OpposingTeamName, g.ID)
	if g.IsFinished {
		header += " final: " + string(v.Result)
	}
	fmt.Fprintln(w, header)
	for i, p := range v.Periods {
		fmt.Fprintf(w, "  P%-2d %3d-%-3d  %d plays\n", i+1, p[0], p[1], len(g.Periods[i].PlayByPlay))
	}
	fmt.Fprintf(w, "  Total %3d-%-3d\n", g.StatTotals.Us.Get(stats.Points), g.StatTotals.Opponent.Get(stats.Points))
	for _, line := range v.BoxScore {
		fmt.Fprintf(w, "  #%-3d %-20s  %2d pts %2d reb %2d ast  %+d\n",
			line.Number, line.Name,
			line.Stats.Get(stats.Points),
			line.Stats.Get(stats.OffensiveRebounds)+line.Stats.Get(stats.DefensiveRebounds),
			line.Stats.Get(stats.Assists),
			line.Stats.Get(stats.PlusMinus))
	}
}

func newGameActiveCommand(opts *RootOptions) *cobra.Command {
	var players, sets []string
	var off bool
	cmd := &cobra.Command{
		Use:   "active <game>",
		Short: "Put players or lineups on or off the court",
		Long: `Put players or lineups on or off the court.

Putting a player on the court credits them with playing the game.

Examples:
  statbook game active 0192 --player "Ann" --player "#7"
  statbook game active 0192 --set Zone
  statbook game active 0192 --player Ann --off`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(players) == 0 && len(sets) == 0 {
				return NewExitError(ExitCommandError, "give at least one --player or --set")
			}
			return withSession(cmd, opts, func(s *session) error {
				gameID, err := resolveGame(s.repo, args[0])
				if err != nil {
					return err
				}
				g, _ := s.repo.Games().Get(gameID)
				changed := map[string]any{"active": !off}
				var playerIDs, setIDs []string
				for _, q := range players {
					id, err := resolvePlayer(s.repo, g.TeamID, q)
					if err != nil {
						return err
					}
					if !s.ledger.SetPlayerActive(gameID, id, !off) {
						return refused("game active")
					}
					playerIDs = append(playerIDs, id)
				}
				for _, q := range sets {
					id, err := resolveSet(s.repo, g.TeamID, q)
					if err != nil {
						return err
					}
					if !s.ledger.SetLineupActive(gameID, id, !off) {
						return refused("game active")
					}
					setIDs = append(setIDs, id)
				}
				changed["players"], changed["sets"] = playerIDs, setIDs
				if err := s.commit("game.active", gameID, changed); err != nil {
					return err
				}
				g, _ = s.repo.Games().Get(gameID)
				return s.out.Success(g, func(w io.Writer) {
					fmt.Fprintf(w, "On court: %d players, %d sets\n", len(g.ActivePlayers), len(g.ActiveSets))
				})
			})
		},
	}
	cmd.Flags().StringArrayVar(&players, "player", nil, "player id, name or #number (repeatable)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set id or name (repeatable)")
	cmd.Flags().BoolVar(&off, "off", false, "take off the court instead")
	return cmd
}

func newGameCompleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <game>",
		Short: "Finish a game and credit the result",
		Long: `Finish a game. The result is credited once to the team and to every
player who played, and the game's statistics are folded into their
season and career totals. Completing a finished game is refused.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				gameID, err := resolveGame(s.repo, args[0])
				if err != nil {
					return err
				}
				g, _ := s.repo.Games().Get(gameID)
				if !s.ledger.CompleteGame(gameID, g.TeamID) {
					return refused("game complete")
				}
				g, _ = s.repo.Games().Get(gameID)
				result := completion.CalculateGameResult(g)
				if err := s.commit("game.complete", gameID, map[string]any{"result": result}); err != nil {
					return err
				}
				return s.out.Success(viewGame(s, g), func(w io.Writer) {
					fmt.Fprintf(w, "Game %s final: %s %d-%d\n", gameID, result,
						g.StatTotals.Us.Get(stats.Points), g.StatTotals.Opponent.Get(stats.Points))
				})
			})
		},
	}
}

func newGameReopenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reopen <game>",
		Short:         "Reopen a finished game and reverse its credited result",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				gameID, err := resolveGame(s.repo, args[0])
				if err != nil {
					return err
				}
				g, _ := s.repo.Games().Get(gameID)
				if !s.ledger.ReopenGame(gameID, g.TeamID) {
					return refused("game reopen")
				}
				if err := s.commit("game.reopen", gameID, nil); err != nil {
					return err
				}
				g, _ = s.repo.Games().Get(gameID)
				return s.out.Success(g, func(w io.Writer) {
					fmt.Fprintf(w, "Game %s reopened\n", gameID)
				})
			})
		},
	}
}
