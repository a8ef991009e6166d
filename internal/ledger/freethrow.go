package ledger

import (
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/stats"
)

// isFreeThrowPlay reports whether a play belongs to a free-throw sequence.
func isFreeThrowPlay(keys []stats.Key) bool {
	return stats.Contains(keys, stats.FreeThrowsMade) || stats.Contains(keys, stats.FreeThrowsAttempted)
}

// NextFreeThrowState advances a period's free-throw state for one play.
//
//	Idle           --free throw-->  InFreeThrowRun
//	InFreeThrowRun --free throw-->  InFreeThrowRun
//	InFreeThrowRun --other------->  Idle
func NextFreeThrowState(_ domain.FreeThrowState, keys []stats.Key) domain.FreeThrowState {
	if isFreeThrowPlay(keys) {
		return domain.InFreeThrowRun
	}
	return domain.Idle
}

var possessionEnders = []stats.Key{
	stats.TwoPointMakes,
	stats.TwoPointAttempts,
	stats.ThreePointMakes,
	stats.ThreePointAttempts,
	stats.Turnovers,
}

// ShouldIncrementSetRun reports whether a play closes the active lineup's run.
//
// Field goal attempts and turnovers always close a run. Inside a free-throw
// sequence, any play that is not a made-and-attempted free throw closes the
// prior possession; this includes a play with FreeThrowsMade alone.
func ShouldIncrementSetRun(playerID string, keys []stats.Key, freeThrowBefore bool) bool {
	if playerID == domain.OpponentID {
		return false
	}
	for _, k := range possessionEnders {
		if stats.Contains(keys, k) {
			return true
		}
	}
	bothFreeThrowKeys := stats.Contains(keys, stats.FreeThrowsMade) && stats.Contains(keys, stats.FreeThrowsAttempted)
	return freeThrowBefore && !bothFreeThrowKeys
}
