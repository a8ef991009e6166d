// Package cli implements the statbook command line.
//
// Every mutating command follows the same cycle: open the store, load the
// repository, run one ledger operation, then commit the new collection
// state together with a journal entry in a single transaction. A refused
// operation commits nothing and exits with ExitCommandError.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/config"
	"github.com/roach88/statbook/internal/ids"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string

	Config *config.Config

	// IDs overrides the entity id generator (for testing).
	// If nil, the ledger uses UUIDv7 ids.
	IDs ids.Generator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the statbook root command. Flag defaults come from
// cfg; flags given on the command line win.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	return newRootCommand(&RootOptions{Config: cfg})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cfg := opts.Config
	cmd := &cobra.Command{
		Use:   "statbook",
		Short: "Basketball statistics ledger",
		Long: `statbook records basketball games play by play and keeps team, player
and lineup statistics consistent with the games that produced them.

State lives in a local SQLite file (--db, STATBOOK_DB). Every change is
journaled; see "statbook history".`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.DB == "" {
				return NewExitError(ExitCommandError, "--db must not be empty")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", cfg.DB, "path to SQLite database")

	cmd.AddCommand(NewTeamCommand(opts))
	cmd.AddCommand(NewPlayerCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewGameCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// logger builds the command's logger. Ledger warnings (refusals and their
// reasons) go to stderr at the configured level; --verbose lowers it to debug.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.Config != nil {
		if l, err := o.Config.Level(); err == nil {
			level = l
		}
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
