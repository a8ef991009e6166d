package audit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/repo"
	"github.com/roach88/statbook/internal/stats"
)

// Severity ranks an issue.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Kind classifies what went wrong.
type Kind string

const (
	NotFound          Kind = "NotFound"
	ValidationFailure Kind = "ValidationFailure"
	ConsistencyDrift  Kind = "ConsistencyDrift"
)

// Issue is one finding of RunFullValidation. Fix is nil unless Fixable.
type Issue struct {
	Collection string   `json:"collection"`
	EntityID   string   `json:"entity_id"`
	Severity   Severity `json:"severity"`
	Kind       Kind     `json:"kind"`
	Message    string   `json:"message"`
	Fixable    bool     `json:"fixable"`
	Fix        func()   `json:"-"`
}

// Health is the 0-100 score of one collection.
type Health struct {
	Collection string `json:"collection"`
	Issues     int    `json:"issues"`
	Score      int    `json:"score"`
}

// Report is the result of RunFullValidation.
type Report struct {
	Issues []Issue    `json:"issues"`
	Health []Health   `json:"health"`
	Counts CountAudit `json:"counts"`
}

// collectionWeights is the score lost per issue.
var collectionWeights = []struct {
	name   string
	weight int
}{
	{repo.TeamsCollection, 10},
	{repo.PlayersCollection, 5},
	{repo.SetsCollection, 10},
	{repo.GamesCollection, 5},
}

// HealthScore returns max(0, 100 - issues*weight).
func HealthScore(issues, weight int) int {
	return max(0, 100-issues*weight)
}

// Count returns the number of issues with severity sev.
func (r Report) Count(sev Severity) int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

// Score returns the health score of collection, or 100 if it is unknown.
func (r Report) Score(collection string) int {
	for _, h := range r.Health {
		if h.Collection == collection {
			return h.Score
		}
	}
	return 100
}

// ApplyFixes runs every fixable issue's remediation and returns how many ran.
// Each fix re-reads the entity it repairs, so fixes touching the same entity
// compose.
func (r Report) ApplyFixes() int {
	n := 0
	for _, is := range r.Issues {
		if is.Fixable && is.Fix != nil {
			is.Fix()
			n++
		}
	}
	return n
}

// RunFullValidation scans every collection for structural problems and
// count drift, and scores each collection.
func (a *Auditor) RunFullValidation() Report {
	counts := a.AuditGameCounts()
	var issues []Issue
	issues = append(issues, a.validateTeams(counts)...)
	issues = append(issues, a.validatePlayers(counts)...)
	issues = append(issues, a.validateSets()...)
	issues = append(issues, a.validateGames()...)

	perCollection := map[string]int{}
	for _, is := range issues {
		perCollection[is.Collection]++
	}
	report := Report{Issues: issues, Counts: counts}
	for _, cw := range collectionWeights {
		report.Health = append(report.Health, Health{
			Collection: cw.name,
			Issues:     perCollection[cw.name],
			Score:      HealthScore(perCollection[cw.name], cw.weight),
		})
	}

	a.logger.Info("validation complete",
		"issues", len(issues),
		"errors", report.Count(Error),
		"warnings", report.Count(Warning))
	return report
}

func (a *Auditor) validateTeams(counts CountAudit) []Issue {
	var issues []Issue
	for _, t := range a.uow.Teams().All() {
		id := t.ID
		if strings.TrimSpace(t.Name) == "" {
			issues = append(issues, Issue{
				Collection: repo.TeamsCollection, EntityID: id,
				Severity: Error, Kind: ValidationFailure,
				Message: "team has no name",
			})
		}
		for _, side := range []stats.Side{stats.Us, stats.Opponent} {
			if neg := t.Stats.Get(side).NegativeKeys(); len(neg) > 0 {
				issues = append(issues, Issue{
					Collection: repo.TeamsCollection, EntityID: id,
					Severity: Warning, Kind: ValidationFailure,
					Message: fmt.Sprintf("negative %s stats: %s", side, joinKeys(neg)),
					Fixable: true,
					Fix: func() {
						a.updateTeam(id, func(t *domain.Team) {
							t.Stats = t.Stats.With(side, t.Stats.Get(side).ClampNonNegative())
						})
					},
				})
			}
		}
		if !t.GameNumbers.Consistent() {
			issues = append(issues, gamesPlayedIssue(repo.TeamsCollection, id, t.GameNumbers, func() {
				a.updateTeam(id, func(t *domain.Team) { t.GameNumbers = recount(t.GameNumbers) })
			}))
		}
	}
	for _, ta := range counts.Teams {
		if ta.Discrepancy.IsZero() {
			continue
		}
		id, want := ta.TeamID, ta.Expected
		issues = append(issues, Issue{
			Collection: repo.TeamsCollection, EntityID: id,
			Severity: Warning, Kind: ConsistencyDrift,
			Message: fmt.Sprintf("stored %s, finished games say %s", ta.Stored, want),
			Fixable: true,
			Fix: func() {
				a.updateTeam(id, func(t *domain.Team) { t.GameNumbers = want })
			},
		})
	}
	return issues
}

func (a *Auditor) validatePlayers(counts CountAudit) []Issue {
	var issues []Issue
	for _, p := range a.uow.Players().All() {
		id := p.ID
		if strings.TrimSpace(p.Name) == "" {
			issues = append(issues, Issue{
				Collection: repo.PlayersCollection, EntityID: id,
				Severity: Error, Kind: ValidationFailure,
				Message: "player has no name",
			})
		}
		if !a.uow.Teams().Has(p.TeamID) {
			issues = append(issues, Issue{
				Collection: repo.PlayersCollection, EntityID: id,
				Severity: Warning, Kind: NotFound,
				Message: fmt.Sprintf("team %q not found", p.TeamID),
			})
		}
		if neg := p.Stats.NegativeKeys(); len(neg) > 0 {
			issues = append(issues, Issue{
				Collection: repo.PlayersCollection, EntityID: id,
				Severity: Warning, Kind: ValidationFailure,
				Message: "negative stats: " + joinKeys(neg),
				Fixable: true,
				Fix: func() {
					a.updatePlayer(id, func(p *domain.Player) { p.Stats = p.Stats.ClampNonNegative() })
				},
			})
		}
		if !p.GameNumbers.Consistent() {
			issues = append(issues, gamesPlayedIssue(repo.PlayersCollection, id, p.GameNumbers, func() {
				a.updatePlayer(id, func(p *domain.Player) { p.GameNumbers = recount(p.GameNumbers) })
			}))
		}
	}
	for _, pa := range counts.Players {
		if pa.Discrepancy.IsZero() {
			continue
		}
		id, want := pa.PlayerID, pa.Expected
		issues = append(issues, Issue{
			Collection: repo.PlayersCollection, EntityID: id,
			Severity: Warning, Kind: ConsistencyDrift,
			Message: fmt.Sprintf("stored %s, finished games say %s", pa.Stored, want),
			Fixable: true,
			Fix: func() {
				a.updatePlayer(id, func(p *domain.Player) { p.GameNumbers = want })
			},
		})
	}
	return issues
}

func (a *Auditor) validateSets() []Issue {
	var issues []Issue
	for _, s := range a.uow.Sets().All() {
		id := s.ID
		if strings.TrimSpace(s.Name) == "" {
			issues = append(issues, Issue{
				Collection: repo.SetsCollection, EntityID: id,
				Severity: Error, Kind: ValidationFailure,
				Message: "set has no name",
			})
		}
		if !a.uow.Teams().Has(s.TeamID) {
			issues = append(issues, Issue{
				Collection: repo.SetsCollection, EntityID: id,
				Severity: Warning, Kind: NotFound,
				Message: fmt.Sprintf("team %q not found", s.TeamID),
			})
		}
		if s.RunCount < 0 {
			issues = append(issues, Issue{
				Collection: repo.SetsCollection, EntityID: id,
				Severity: Warning, Kind: ValidationFailure,
				Message: fmt.Sprintf("negative run count %d", s.RunCount),
				Fixable: true,
				Fix: func() {
					a.updateSet(id, func(s *domain.Set) { s.RunCount = max(0, s.RunCount) })
				},
			})
		}
		if neg := s.Stats.NegativeKeys(); len(neg) > 0 {
			issues = append(issues, Issue{
				Collection: repo.SetsCollection, EntityID: id,
				Severity: Warning, Kind: ValidationFailure,
				Message: "negative stats: " + joinKeys(neg),
				Fixable: true,
				Fix: func() {
					a.updateSet(id, func(s *domain.Set) { s.Stats = s.Stats.ClampNonNegative() })
				},
			})
		}
	}
	return issues
}

func (a *Auditor) validateGames() []Issue {
	var issues []Issue
	for _, g := range a.uow.Games().All() {
		id := g.ID
		if !a.uow.Teams().Has(g.TeamID) {
			issues = append(issues, Issue{
				Collection: repo.GamesCollection, EntityID: id,
				Severity: Error, Kind: NotFound,
				Message: fmt.Sprintf("team %q not found", g.TeamID),
			})
		}
		for _, pid := range g.ActivePlayers {
			if a.uow.Players().Has(pid) {
				continue
			}
			issues = append(issues, Issue{
				Collection: repo.GamesCollection, EntityID: id,
				Severity: Warning, Kind: NotFound,
				Message: fmt.Sprintf("active player %q not found", pid),
				Fixable: true,
				Fix: func() {
					a.updateGame(id, func(g *domain.Game) { g.ActivePlayers = domain.RemoveID(g.ActivePlayers, pid) })
				},
			})
		}
		for _, pid := range g.GamePlayedList {
			if a.uow.Players().Has(pid) {
				continue
			}
			// Participation is history; the finished-game fold still needs it.
			issues = append(issues, Issue{
				Collection: repo.GamesCollection, EntityID: id,
				Severity: Info, Kind: NotFound,
				Message: fmt.Sprintf("participant %q not found", pid),
			})
		}
		for _, pid := range sortedKeys(g.BoxScore) {
			if a.uow.Players().Has(pid) {
				continue
			}
			issues = append(issues, Issue{
				Collection: repo.GamesCollection, EntityID: id,
				Severity: Info, Kind: NotFound,
				Message: fmt.Sprintf("box score row for unknown player %q", pid),
			})
		}
		for _, sid := range sortedKeys(g.Sets) {
			if a.uow.Sets().Has(sid) {
				continue
			}
			issues = append(issues, Issue{
				Collection: repo.GamesCollection, EntityID: id,
				Severity: Info, Kind: NotFound,
				Message: fmt.Sprintf("lineup snapshot for unknown set %q", sid),
			})
		}
		for _, sid := range g.ActiveSets {
			if a.uow.Sets().Has(sid) {
				continue
			}
			issues = append(issues, Issue{
				Collection: repo.GamesCollection, EntityID: id,
				Severity: Warning, Kind: NotFound,
				Message: fmt.Sprintf("active set %q not found", sid),
				Fixable: true,
				Fix: func() {
					a.updateGame(id, func(g *domain.Game) { g.ActiveSets = domain.RemoveID(g.ActiveSets, sid) })
				},
			})
		}
		if !g.IsFinished {
			continue
		}
		for _, side := range []stats.Side{stats.Us, stats.Opponent} {
			sum := periodSum(g, side)
			total := g.StatTotals.Get(side).Get(stats.Points)
			if sum == total {
				continue
			}
			issues = append(issues, Issue{
				Collection: repo.GamesCollection, EntityID: id,
				Severity: Warning, Kind: ConsistencyDrift,
				Message: fmt.Sprintf("%s period scores sum to %d, total points %d", side, sum, total),
				Fixable: true,
				Fix:     func() { a.syncGamePoints(id, side) },
			})
		}
	}
	return issues
}

func gamesPlayedIssue(collection, id string, n domain.GameNumbers, fix func()) Issue {
	return Issue{
		Collection: collection, EntityID: id,
		Severity: Error, Kind: ValidationFailure,
		Message: fmt.Sprintf("games played %d != %d wins + %d losses + %d draws",
			n.GamesPlayed, n.Wins, n.Losses, n.Draws),
		Fixable: true,
		Fix:     fix,
	}
}

// recount derives GamesPlayed from the buckets, clamping negatives first.
func recount(n domain.GameNumbers) domain.GameNumbers {
	n.Wins, n.Losses, n.Draws = max(0, n.Wins), max(0, n.Losses), max(0, n.Draws)
	n.GamesPlayed = n.Wins + n.Losses + n.Draws
	return n
}

func periodSum(g domain.Game, side stats.Side) int {
	sum := 0
	for _, p := range g.Periods {
		sum += p.Score(side)
	}
	return sum
}

func joinKeys(keys []stats.Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

// syncGamePoints sets a finished game's points for side to its period sum.
// The change is carried into the team's folded stats and, since it can flip
// the result, the stored game numbers are recounted.
func (a *Auditor) syncGamePoints(gameID string, side stats.Side) {
	var (
		teamID string
		delta  int
	)
	a.updateGame(gameID, func(g *domain.Game) {
		v := g.StatTotals.Get(side)
		delta = periodSum(*g, side) - v[stats.Points]
		v[stats.Points] += delta
		g.StatTotals = g.StatTotals.With(side, v)
		teamID = g.TeamID
	})
	if delta == 0 {
		return
	}
	if a.uow.Teams().Has(teamID) {
		a.updateTeam(teamID, func(t *domain.Team) {
			t.Stats = stats.ApplyDeltaForSide(t.Stats, stats.Points, delta, side)
		})
	}
	a.CorrectGameCounts()
}

func (a *Auditor) updateTeam(id string, fn func(*domain.Team)) {
	t, ok := a.uow.Teams().Get(id)
	if !ok {
		a.logger.Warn("fix: team not found", "team_id", id)
		return
	}
	fn(&t)
	a.uow.Teams().Put(t)
}

func (a *Auditor) updatePlayer(id string, fn func(*domain.Player)) {
	p, ok := a.uow.Players().Get(id)
	if !ok {
		a.logger.Warn("fix: player not found", "player_id", id)
		return
	}
	fn(&p)
	a.uow.Players().Put(p)
}

func (a *Auditor) updateSet(id string, fn func(*domain.Set)) {
	s, ok := a.uow.Sets().Get(id)
	if !ok {
		a.logger.Warn("fix: set not found", "set_id", id)
		return
	}
	fn(&s)
	a.uow.Sets().Put(s)
}

func (a *Auditor) updateGame(id string, fn func(*domain.Game)) {
	g, ok := a.uow.Games().Get(id)
	if !ok {
		a.logger.Warn("fix: game not found", "game_id", id)
		return
	}
	fn(&g)
	a.uow.Games().Put(g)
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
