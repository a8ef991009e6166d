// Package scenario runs YAML-described ledger scenarios.
//
// A scenario executes its setup and flow steps against a fresh in-memory
// SQLite store, committing state and a journal entry after every step. The
// assertions are then evaluated against a repository reloaded from that
// store, so a passing scenario also proves the state survives a round trip.
//
// Each flow step produces one trace line:
//
//	3 play.record game=g1 player=p1 stats=[TwoPointMakes] => ok points=2 run=true
//
// Traces are compared with golden files under testdata/golden.
package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/statbook/internal/audit"
	"github.com/roach88/statbook/internal/cascade"
	"github.com/roach88/statbook/internal/ids"
	"github.com/roach88/statbook/internal/ledger"
	"github.com/roach88/statbook/internal/repo"
	"github.com/roach88/statbook/internal/store"
)

// Result is the outcome of running a scenario.
type Result struct {
	Pass   bool     `json:"pass"`
	Trace  []string `json:"trace"`
	Errors []string `json:"errors,omitempty"`
}

func (r *Result) failf(format string, a ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, a...))
}

type runner struct {
	repo    *repo.Repository
	gen     *ids.FixedGenerator
	ledger  *ledger.Ledger
	cascade *cascade.Engine
	auditor *audit.Auditor
	store   *store.Store
}

// Run executes a scenario. The error is non-nil only when the scenario
// itself is broken (bad arguments, a refused setup step, storage failure);
// failed expectations and assertions are reported in Result.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	return RunWithLogger(ctx, s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with ledger logging sent to logger.
func RunWithLogger(ctx context.Context, s *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	r := &runner{
		repo:  repo.NewRepository(),
		gen:   ids.NewFixedGenerator(),
		store: st,
	}
	r.ledger = ledger.New(r.repo, r.gen, logger)
	r.cascade = cascade.New(r.repo, logger)
	r.auditor = audit.New(r.repo, logger)

	for i, step := range s.Setup {
		o, err := r.exec(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("setup step %d (%s): %w", i+1, step.Op, err)
		}
		if !o.ok {
			return nil, fmt.Errorf("setup step %d (%s): refused", i+1, step.Op)
		}
	}

	result := &Result{Pass: true, Trace: []string{}}
	for i, step := range s.Flow {
		o, err := r.exec(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("flow step %d (%s): %w", i+1, step.Op, err)
		}
		result.Trace = append(result.Trace, traceLine(i+1, step, o))
		if o.ok == step.Refused {
			result.failf("step %d (%s): expected %s, got %s", i+1, step.Op, status(!step.Refused), status(o.ok))
		}
	}

	final := repo.NewRepository()
	if err := final.Load(ctx, st); err != nil {
		return nil, fmt.Errorf("reload state: %w", err)
	}
	journal, err := st.ReadJournal(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	checkAssertions(final, len(journal), s.Assertions, result, logger)
	return result, nil
}

// exec runs one step and, if it succeeded, commits the new state together
// with a journal entry.
func (r *runner) exec(ctx context.Context, step Step) (outcome, error) {
	op := operations[step.Op]
	if op == nil {
		return outcome{}, fmt.Errorf("unknown op %q", step.Op)
	}
	a := &argReader{args: step.Args}
	o := op(r, a)
	if a.err != nil {
		return outcome{}, a.err
	}
	if !o.ok {
		return o, nil
	}

	b := r.store.Batch()
	if err := r.repo.Save(ctx, b); err != nil {
		return outcome{}, err
	}
	b.Journal(step.Op, o.entity, step.Args)
	if err := b.Commit(ctx); err != nil {
		return outcome{}, err
	}
	return o, nil
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "refused"
}

func traceLine(n int, step Step, o outcome) string {
	line := fmt.Sprintf("%d %s", n, step.Op)
	if args := formatArgs(step.Args); args != "" {
		line += " " + args
	}
	line += " => " + status(o.ok)
	if o.detail != "" {
		line += " " + o.detail
	}
	return line
}
