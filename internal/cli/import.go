package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/roster"
	"github.com/roach88/statbook/internal/store"
)

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <season.yaml>",
		Short: "Import teams, players and lineups from a season file",
		Long: `Import teams, players and lineups from a YAML season file.

The file is checked against the season schema before anything is written.
Entities that already exist (same team name, jersey number or lineup name)
are skipped, so importing the same file twice is harmless.

Example file:
  season: "2026"
  teams:
    - name: Hawks
      players:
        - {name: Ann, number: 4}
      sets: [{name: Zone}]`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := roster.Load(args[0])
			if err != nil {
				var verr *roster.ValidationError
				if errors.As(err, &verr) {
					out := opts.formatter(cmd)
					_ = out.Error("E_SCHEMA", "season file is invalid", verr.Problems)
					if opts.Format != "json" {
						for _, p := range verr.Problems {
							fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
						}
					}
					return WrapExitError(ExitFailure, "invalid season file", err)
				}
				return WrapExitError(ExitCommandError, "failed to read season file", err)
			}
			return withSession(cmd, opts, func(s *session) error {
				sum := roster.Apply(s.ledger, s.repo, season)
				if sum.TeamsAdded+sum.PlayersAdded+sum.SetsAdded > 0 {
					detail := map[string]any{"file": args[0], "season": season.Season, "summary": sum}
					if err := s.commit("import", "", detail); err != nil {
						return err
					}
				}
				return s.out.Success(sum, func(w io.Writer) {
					fmt.Fprintf(w, "Imported %d teams, %d players, %d sets (%d already present)\n",
						sum.TeamsAdded, sum.PlayersAdded, sum.SetsAdded, sum.Existing)
				})
			})
		},
	}
	return cmd
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	var entity string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the journal of changes",
		Long: `Show the journal of changes, oldest first.

Examples:
  statbook history --limit 20
  statbook history --entity 0192`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return NewExitError(ExitCommandError, "--limit must not be negative")
			}
			return withSession(cmd, opts, func(s *session) error {
				entityID := entity
				if entity != "" {
					if id, ok := resolveAny(s, entity); ok {
						entityID = id
					}
				}
				entries, err := s.store.ReadJournal(s.ctx, entityID, limit)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read journal", err)
				}
				return s.out.Success(entries, func(w io.Writer) { printJournal(w, entries) })
			})
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "only entries for this entity (id or name)")
	cmd.Flags().IntVar(&limit, "limit", 0, "most recent N entries (0 for all)")
	return cmd
}

// resolveAny looks the reference up in every collection. Deleted entities
// no longer resolve; their raw id still matches journal entries.
func resolveAny(s *session, ref string) (string, bool) {
	for _, kind := range []string{"game", "team", "player", "set"} {
		if id, err := resolveEntity(s.repo, kind, ref); err == nil {
			return id, true
		}
	}
	return "", false
}

func printJournal(w io.Writer, entries []store.JournalEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%5d  %-14s %-36s %s\n", e.Seq, e.Op, e.EntityID, e.Detail)
	}
}
