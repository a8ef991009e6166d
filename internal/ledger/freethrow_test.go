package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/stats"
)

func TestShouldIncrementSetRun(t *testing.T) {
	tests := []struct {
		name     string
		player   string
		keys     []stats.Key
		ftBefore bool
		want     bool
	}{
		{"opponent never closes", domain.OpponentID, keys(stats.TwoPointMakes), true, false},
		{"two made", "p1", keys(stats.TwoPointMakes, stats.TwoPointAttempts), false, true},
		{"two missed", "p1", keys(stats.TwoPointAttempts), false, true},
		{"three made", "p1", keys(stats.ThreePointMakes), false, true},
		{"three missed", "p1", keys(stats.ThreePointAttempts), false, true},
		{"turnover", "p1", keys(stats.Turnovers), false, true},
		{"assist outside free throws", "p1", keys(stats.Assists), false, false},
		{"rebound breaks free throws", "p1", keys(stats.DefensiveRebounds), true, true},
		{"made free throw continues", "p1", keys(stats.FreeThrowsMade, stats.FreeThrowsAttempted), true, false},
		{"missed free throw breaks", "p1", keys(stats.FreeThrowsAttempted), true, true},
		{"made-only free throw breaks", "p1", keys(stats.FreeThrowsMade), true, true},
		{"first free throw", "p1", keys(stats.FreeThrowsMade, stats.FreeThrowsAttempted), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldIncrementSetRun(tt.player, tt.keys, tt.ftBefore))
		})
	}
}

func TestNextFreeThrowState(t *testing.T) {
	assert.Equal(t, domain.InFreeThrowRun, NextFreeThrowState(domain.Idle, keys(stats.FreeThrowsAttempted)))
	assert.Equal(t, domain.InFreeThrowRun, NextFreeThrowState(domain.InFreeThrowRun, keys(stats.FreeThrowsMade)))
	assert.Equal(t, domain.Idle, NextFreeThrowState(domain.InFreeThrowRun, keys(stats.Steals)))
	assert.Equal(t, domain.Idle, NextFreeThrowState(domain.Idle, keys(stats.Assists)))
}
