package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/ledger"
	"github.com/roach88/statbook/internal/stats"
)

// NewPlayCommand creates the play command group. Periods are numbered from 1
// on the command line.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Record and correct plays",
	}
	cmd.AddCommand(newPlayRecordCommand(rootOpts))
	cmd.AddCommand(newPlayUndoCommand(rootOpts))
	cmd.AddCommand(newPlayRemoveCommand(rootOpts))
	cmd.AddCommand(newPlayResetCommand(rootOpts))
	cmd.AddCommand(newPlayListCommand(rootOpts))
	return cmd
}

// periodIndex converts a 1-based --period flag to a period index.
func periodIndex(period int) (int, error) {
	if period < 1 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid period %d: periods start at 1", period))
	}
	return period - 1, nil
}

// RecordResult is the output of play record.
type RecordResult struct {
	GameID    string      `json:"game_id"`
	Period    int         `json:"period"`
	PlayerID  string      `json:"player_id"`
	Stats     []stats.Key `json:"stats"`
	Points    int         `json:"points"`
	RunClosed bool        `json:"run_closed"`
	Us        int         `json:"us"`
	Opponent  int         `json:"opponent"`
}

func newPlayRecordCommand(opts *RootOptions) *cobra.Command {
	var player, set string
	var statNames []string
	var period int
	var opponent bool
	cmd := &cobra.Command{
		Use:   "record <game>",
		Short: "Record a play",
		Long: `Record a play.

A play is one or more stat keys credited together, for example a made two
is TwoPointMakes,TwoPointAttempts. Scoring keys move the period score and
the plus/minus of every player on the court.

The play is attributed to --set, or to the game's only active lineup when
exactly one is active.

Examples:
  statbook play record 0192 --player Ann --stat TwoPointMakes,TwoPointAttempts
  statbook play record 0192 --player "#7" --stat Assists --period 2
  statbook play record 0192 --opponent --stat ThreePointMakes`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := periodIndex(period)
			if err != nil {
				return err
			}
			keys, err := stats.ParseKeys(statNames)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --stat", err)
			}
			if opponent == (player != "") {
				return NewExitError(ExitCommandError, "give exactly one of --player or --opponent")
			}
			return withSession(cmd, opts, func(s *session) error {
				gameID, err := resolveGame(s.repo, args[0])
				if err != nil {
					return err
				}
				g, _ := s.repo.Games().Get(gameID)

				play := ledger.Play{GameID: gameID, Stats: keys, Period: idx, Side: stats.Us}
				if opponent {
					play.PlayerID, play.Side = domain.OpponentID, stats.Opponent
				} else if play.PlayerID, err = resolvePlayer(s.repo, g.TeamID, player); err != nil {
					return err
				}
				switch {
				case set != "":
					if play.SetID, err = resolveSet(s.repo, g.TeamID, set); err != nil {
						return err
					}
				case len(g.ActiveSets) == 1:
					play.SetID = g.ActiveSets[0]
				}

				o := s.ledger.RecordPlay(play)
				if !o.OK {
					return refused("play record")
				}
				if err := s.commit("play.record", gameID, map[string]any{
					"period": period,
					"player": play.PlayerID,
					"set":    play.SetID,
					"stats":  keys,
					"points": o.Points,
				}); err != nil {
					return err
				}
				g, _ = s.repo.Games().Get(gameID)
				res := RecordResult{
					GameID:    gameID,
					Period:    period,
					PlayerID:  play.PlayerID,
					Stats:     keys,
					Points:    o.Points,
					RunClosed: o.RunClosed,
					Us:        g.Periods[idx].Us,
					Opponent:  g.Periods[idx].Opponent,
				}
				return s.out.Success(res, func(w io.Writer) {
					fmt.Fprintf(w, "P%d %d-%d", period, res.Us, res.Opponent)
					if res.Points != 0 {
						fmt.Fprintf(w, " (+%d %s)", res.Points, play.Side)
					}
					if res.RunClosed {
						fmt.Fprint(w, " run closed")
					}
					fmt.Fprintln(w)
				})
			})
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player id, name or #number")
	cmd.Flags().BoolVar(&opponent, "opponent", false, "the play was made by the opposing team")
	cmd.Flags().StringSliceVar(&statNames, "stat", nil, "stat keys, comma separated (required)")
	cmd.Flags().StringVar(&set, "set", "", "lineup to attribute the play to")
	cmd.Flags().IntVar(&period, "period", 1, "period number")
	_ = cmd.MarkFlagRequired("stat")
	return cmd
}

// newPeriodCommand builds the undo, remove and reset commands, which share
// their shape: resolve the game, run one ledger call on a period, commit.
func newPeriodCommand(opts *RootOptions, use, short, op string, run func(s *session, gameID string, idx int) bool) *cobra.Command {
	var period int
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := periodIndex(period)
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(s *session) error {
				gameID, err := resolveGame(s.repo, args[0])
				if err != nil {
					return err
				}
				if !run(s, gameID, idx) {
					return refused(strings.ReplaceAll(op, ".", " "))
				}
				if err := s.commit(op, gameID, map[string]any{"period": period}); err != nil {
					return err
				}
				var p domain.Period
				if g, _ := s.repo.Games().Get(gameID); idx < len(g.Periods) {
					p = g.Periods[idx]
				}
				return s.out.Success(p, func(w io.Writer) {
					fmt.Fprintf(w, "P%d %d-%d, %d plays\n", period, p.Us, p.Opponent, len(p.PlayByPlay))
				})
			})
		},
	}
	cmd.Flags().IntVar(&period, "period", 1, "period number")
	return cmd
}

func newPlayUndoCommand(opts *RootOptions) *cobra.Command {
	return newPeriodCommand(opts, "undo <game>", "Undo the most recent play of a period", "play.undo",
		func(s *session, gameID string, idx int) bool {
			return s.ledger.UndoLastPlay(gameID, idx)
		})
}

func newPlayRemoveCommand(opts *RootOptions) *cobra.Command {
	var index int
	cmd := newPeriodCommand(opts, "remove <game>", "Remove a play from a period's log", "play.remove",
		func(s *session, gameID string, idx int) bool {
			return s.ledger.RemovePlayFromPeriod(gameID, idx, index)
		})
	cmd.Flags().IntVar(&index, "index", 0, "play position in the log, 0 is the most recent")
	return cmd
}

func newPlayResetCommand(opts *RootOptions) *cobra.Command {
	return newPeriodCommand(opts, "reset <game>", "Clear a period's score and log (box score is kept)", "play.reset",
		func(s *session, gameID string, idx int) bool {
			return s.ledger.ResetPeriod(gameID, idx)
		})
}

func newPlayListCommand(opts *RootOptions) *cobra.Command {
	var period int
	cmd := &cobra.Command{
		Use:           "list <game>",
		Short:         "Show a period's play-by-play, most recent first",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := periodIndex(period)
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(s *session) error {
				gameID, err := resolveGame(s.repo, args[0])
				if err != nil {
					return err
				}
				g, _ := s.repo.Games().Get(gameID)
				if idx >= len(g.Periods) {
					return NewExitError(ExitCommandError, fmt.Sprintf("game has %d periods", len(g.Periods)))
				}
				log := g.Periods[idx].PlayByPlay
				return s.out.Success(log, func(w io.Writer) {
					if len(log) == 0 {
						fmt.Fprintln(w, "No plays.")
						return
					}
					for i, e := range log {
						who := e.PlayerID
						if p, ok := s.repo.Players().Get(e.PlayerID); ok {
							who = p.Name
						}
						names := make([]string, len(e.Actions))
						for j, k := range e.Actions {
							names[j] = k.String()
						}
						fmt.Fprintf(w, "%3d  %-20s  %s\n", i, who, strings.Join(names, ","))
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&period, "period", 1, "period number")
	return cmd
}
