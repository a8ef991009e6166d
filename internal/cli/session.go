package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/statbook/internal/audit"
	"github.com/roach88/statbook/internal/cascade"
	"github.com/roach88/statbook/internal/ledger"
	"github.com/roach88/statbook/internal/repo"
	"github.com/roach88/statbook/internal/store"
)

// session is one command's view of the database: the store, the repository
// loaded from it, and the components operating on that repository.
type session struct {
	ctx     context.Context
	store   *store.Store
	repo    *repo.Repository
	ledger  *ledger.Ledger
	cascade *cascade.Engine
	auditor *audit.Auditor
	logger  *slog.Logger
	out     *OutputFormatter
}

func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger(cmd)
	out := opts.formatter(cmd)

	out.VerboseLog("opening %s", opts.DB)
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	r := repo.NewRepository()
	if err := r.Load(ctx, st); err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load state", err)
	}

	return &session{
		ctx:     ctx,
		store:   st,
		repo:    r,
		ledger:  ledger.New(r, opts.IDs, logger),
		cascade: cascade.New(r, logger),
		auditor: audit.New(r, logger),
		logger:  logger,
		out:     out,
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// commit persists the repository and journals op in one transaction.
func (s *session) commit(op, entityID string, detail any) error {
	b := s.store.Batch()
	if err := s.repo.Save(s.ctx, b); err != nil {
		return WrapExitError(ExitCommandError, "failed to save state", err)
	}
	b.Journal(op, entityID, detail)
	if err := b.Commit(s.ctx); err != nil {
		return WrapExitError(ExitCommandError, "failed to commit "+op, err)
	}
	s.logger.Debug("committed", "op", op, "entity_id", entityID)
	return nil
}

// refused is returned when the ledger declines an operation. The reason has
// already been logged by the ledger.
func refused(op string) error {
	return NewExitError(ExitCommandError, op+" refused")
}

// withSession opens a session, runs fn and closes the session.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(s *session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
