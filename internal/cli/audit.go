package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/audit"
)

// AuditResult is the output of audit.
type AuditResult struct {
	Audit      audit.CountAudit  `json:"audit"`
	Correction *audit.Correction `json:"correction,omitempty"`
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(opts *RootOptions) *cobra.Command {
	var correct bool
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Compare stored win/loss records with the finished games",
		Long: `Recompute every team's and player's wins, losses, draws and games
played from the finished games and compare them with the stored records.

Discrepancy is stored minus expected. With --correct the stored records
are overwritten with the expected ones; running it again changes nothing.

Exit codes:
  0 - Records match (or were corrected)
  1 - Drift found
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				res := AuditResult{Audit: s.auditor.AuditGameCounts()}
				if correct {
					c := s.auditor.CorrectGameCounts()
					if c.TeamsUpdated+c.PlayersUpdated > 0 {
						if err := s.commit("audit.correct", "", c); err != nil {
							return err
						}
					}
					res.Correction = &c
				}
				text := func(w io.Writer) { printAudit(w, res) }
				if !res.Audit.Clean() && res.Correction == nil {
					return s.out.Failure("E_DRIFT", "game counts drifted", res, text)
				}
				return s.out.Success(res, text)
			})
		},
	}
	cmd.Flags().BoolVar(&correct, "correct", false, "overwrite drifted records")
	return cmd
}

func printAudit(w io.Writer, res AuditResult) {
	a := res.Audit
	drifted := 0
	for _, t := range a.Teams {
		if !t.Discrepancy.IsZero() {
			drifted++
			fmt.Fprintf(w, "team   %-20s  stored %s  expected %s\n", t.Name, t.Stored, t.Expected)
		}
	}
	for _, p := range a.Players {
		if !p.Discrepancy.IsZero() {
			drifted++
			fmt.Fprintf(w, "player %-20s  stored %s  expected %s\n", p.Name, p.Stored, p.Expected)
		}
	}
	if drifted == 0 {
		fmt.Fprintf(w, "Records match %d finished games.\n", len(a.Games))
	}
	if c := res.Correction; c != nil {
		fmt.Fprintf(w, "Corrected %d teams, %d players.\n", c.TeamsUpdated, c.PlayersUpdated)
	}
}

// ValidateResult is the output of validate.
type ValidateResult struct {
	Report audit.Report `json:"report"`
	Fixed  int          `json:"fixed"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every collection for invalid and dangling data",
		Long: `Check teams, players, sets and games for empty names, negative
statistics, references to deleted entities and drifted records, and score
each collection from 0 to 100.

With --fix every fixable issue is repaired and the collections are checked
again; the report shows what remains.

Exit codes:
  0 - No error-severity issues remain
  1 - Error-severity issues remain
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				res := ValidateResult{Report: s.auditor.RunFullValidation()}
				if fix {
					res.Fixed = res.Report.ApplyFixes()
					if res.Fixed > 0 {
						if err := s.commit("validate.fix", "", map[string]any{"fixed": res.Fixed}); err != nil {
							return err
						}
						res.Report = s.auditor.RunFullValidation()
					}
				}
				text := func(w io.Writer) { printReport(w, res) }
				if n := res.Report.Count(audit.Error); n > 0 {
					return s.out.Failure("E_INVALID", fmt.Sprintf("%d error-severity issues", n), res, text)
				}
				return s.out.Success(res, text)
			})
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "repair fixable issues")
	return cmd
}

func printReport(w io.Writer, res ValidateResult) {
	r := res.Report
	if res.Fixed > 0 {
		fmt.Fprintf(w, "Fixed %d issues.\n", res.Fixed)
	}
	for _, is := range r.Issues {
		mark := " "
		if is.Fixable {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-7s %-8s %-36s %s\n", mark, is.Severity, is.Collection, is.EntityID, is.Message)
	}
	for _, h := range r.Health {
		fmt.Fprintf(w, "%-8s %3d/100 (%d issues)\n", h.Collection, h.Score, h.Issues)
	}
	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "✓ No issues")
	}
}
