package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/repo"
)

// minSimilarity is the fuzzy match threshold, as 1 - distance/len.
const minSimilarity = 0.7

// minIDPrefix is the shortest id prefix accepted in place of a full id.
const minIDPrefix = 4

type candidate struct {
	id   string
	name string
}

// match resolves query against candidates. It tries, in order: exact id,
// case-insensitive name, unique id prefix, and finally the closest name by
// Levenshtein distance.
func match(kind, query string, cands []candidate) (string, error) {
	for _, c := range cands {
		if c.id == query {
			return c.id, nil
		}
	}

	q := strings.ToLower(domain.NormalizeName(query))
	var named []string
	for _, c := range cands {
		if strings.ToLower(c.name) == q {
			named = append(named, c.id)
		}
	}
	switch len(named) {
	case 1:
		return named[0], nil
	case 0:
	default:
		return "", ambiguous(kind, query, named)
	}

	if len(query) >= minIDPrefix {
		var prefixed []string
		for _, c := range cands {
			if strings.HasPrefix(c.id, query) {
				prefixed = append(prefixed, c.id)
			}
		}
		switch len(prefixed) {
		case 1:
			return prefixed[0], nil
		case 0:
		default:
			return "", ambiguous(kind, query, prefixed)
		}
	}

	best, bestScore := []string(nil), 0.0
	for _, c := range cands {
		name := strings.ToLower(c.name)
		distance := fuzzy.LevenshteinDistance(q, name)
		maxLen := float64(max(len(q), len(name)))
		if maxLen == 0 {
			continue
		}
		similarity := 1 - float64(distance)/maxLen
		switch {
		case similarity < minSimilarity:
		case similarity > bestScore:
			best, bestScore = []string{c.id}, similarity
		case similarity == bestScore:
			best = append(best, c.id)
		}
	}
	switch len(best) {
	case 0:
		return "", NewExitError(ExitCommandError, fmt.Sprintf("%s %q not found", kind, query))
	case 1:
		return best[0], nil
	default:
		return "", ambiguous(kind, query, best)
	}
}

func ambiguous(kind, query string, ids []string) error {
	return NewExitError(ExitCommandError,
		fmt.Sprintf("%s %q is ambiguous: %s", kind, query, strings.Join(ids, ", ")))
}

func resolveTeam(uow repo.UnitOfWork, query string) (string, error) {
	var cands []candidate
	for _, t := range uow.Teams().All() {
		cands = append(cands, candidate{t.ID, t.Name})
	}
	return match("team", query, cands)
}

// resolvePlayer accepts an id, a name or a jersey number ("#7"). A non-empty
// teamID restricts the search to that team's roster.
func resolvePlayer(uow repo.UnitOfWork, teamID, query string) (string, error) {
	players := uow.Players().Filter(func(p domain.Player) bool {
		return teamID == "" || p.TeamID == teamID
	})
	if n, ok := strings.CutPrefix(query, "#"); ok {
		number, err := strconv.Atoi(n)
		if err != nil {
			return "", NewExitError(ExitCommandError, fmt.Sprintf("invalid jersey number %q", query))
		}
		var ids []string
		for _, p := range players {
			if p.Number == number {
				ids = append(ids, p.ID)
			}
		}
		switch len(ids) {
		case 0:
			return "", NewExitError(ExitCommandError, fmt.Sprintf("player %q not found", query))
		case 1:
			return ids[0], nil
		default:
			return "", ambiguous("player", query, ids)
		}
	}
	var cands []candidate
	for _, p := range players {
		cands = append(cands, candidate{p.ID, p.Name})
	}
	return match("player", query, cands)
}

func resolveSet(uow repo.UnitOfWork, teamID, query string) (string, error) {
	var cands []candidate
	for _, s := range uow.Sets().All() {
		if teamID == "" || s.TeamID == teamID {
			cands = append(cands, candidate{s.ID, s.Name})
		}
	}
	return match("set", query, cands)
}

// resolveGame matches by id or id prefix only; opponents repeat across a
// season.
func resolveGame(uow repo.UnitOfWork, query string) (string, error) {
	var cands []candidate
	for _, g := range uow.Games().All() {
		cands = append(cands, candidate{id: g.ID})
	}
	if len(query) < minIDPrefix && !uow.Games().Has(query) {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("game %q not found", query))
	}
	return match("game", query, cands)
}

// resolveEntity dispatches on a collection name, for delete and history.
func resolveEntity(uow repo.UnitOfWork, kind, query string) (string, error) {
	switch kind {
	case "team":
		return resolveTeam(uow, query)
	case "player":
		return resolvePlayer(uow, "", query)
	case "set":
		return resolveSet(uow, "", query)
	case "game":
		return resolveGame(uow, query)
	default:
		return "", NewExitError(ExitCommandError, fmt.Sprintf("unknown entity type %q", kind))
	}
}
