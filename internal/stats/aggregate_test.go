package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDelta_LeavesInputUntouched(t *testing.T) {
	var v Vector
	v[Assists] = 2

	out := ApplyDelta(v, Assists, 3)

	assert.Equal(t, 5, out.Get(Assists))
	assert.Equal(t, 2, v.Get(Assists), "input vector must not change")
}

func TestApplyDelta_ZeroDefault(t *testing.T) {
	out := ApplyDelta(Vector{}, Steals, 1)
	assert.Equal(t, 1, out.Get(Steals))
	for _, k := range AllKeys() {
		if k != Steals {
			assert.Zero(t, out.Get(k), k.String())
		}
	}
}

func TestApplyDelta_NoClamping(t *testing.T) {
	out := ApplyDelta(Vector{}, Turnovers, -2)
	assert.Equal(t, -2, out.Get(Turnovers))
}

func TestApplyDelta_InvalidKeyIsIdentity(t *testing.T) {
	var v Vector
	v[Points] = 7
	assert.Equal(t, v, ApplyDelta(v, Key(99), 4))
}

func TestSignedPlusMinus(t *testing.T) {
	assert.Equal(t, 3, SignedPlusMinus(Us, 3))
	assert.Equal(t, -3, SignedPlusMinus(Opponent, 3))
	assert.Equal(t, 0, SignedPlusMinus(Opponent, 0))
	assert.Equal(t, 2, SignedPlusMinus(Opponent, -2))
}

func TestApplyDeltaForSide_OnlyTouchesNamedSide(t *testing.T) {
	var totals SideTotals
	totals.Us[Points] = 10
	totals.Opponent[Points] = 8

	out := ApplyDeltaForSide(totals, Points, 3, Opponent)

	assert.Equal(t, 11, out.Opponent.Get(Points))
	assert.Equal(t, totals.Us, out.Us)
	assert.Equal(t, 8, totals.Opponent.Get(Points))
}

func TestPointValue(t *testing.T) {
	assert.Equal(t, 3, PointValue(ThreePointMakes))
	assert.Equal(t, 2, PointValue(TwoPointMakes))
	assert.Equal(t, 1, PointValue(FreeThrowsMade))
	assert.Equal(t, 0, PointValue(ThreePointAttempts))
	assert.Equal(t, 0, PointValue(Points))
	assert.Equal(t, 2, PlayPoints([]Key{TwoPointMakes, TwoPointAttempts}))
	assert.Equal(t, 0, PlayPoints(nil))
}

func TestVector_NegativeKeysIgnoresPlusMinus(t *testing.T) {
	var v Vector
	v[PlusMinus] = -8
	v[Blocks] = -1

	assert.Equal(t, []Key{Blocks}, v.NegativeKeys())

	clamped := v.ClampNonNegative()
	assert.Equal(t, 0, clamped.Get(Blocks))
	assert.Equal(t, -8, clamped.Get(PlusMinus))
}

func TestVector_AddScaled(t *testing.T) {
	var a, b Vector
	a[Points] = 10
	b[Points] = 4
	b[Assists] = 1

	assert.Equal(t, 14, a.Add(b, 1).Get(Points))
	assert.Equal(t, -1, a.Add(b, -1).Get(Assists))
}

func TestVector_JSONByName(t *testing.T) {
	var v Vector
	v[FreeThrowsMade] = 2
	v[PlusMinus] = -3

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FreeThrowsMade":2`)
	assert.Contains(t, string(data), `"PlusMinus":-3`)

	var decoded Vector
	require.NoError(t, json.Unmarshal([]byte(`{"Assists":4}`), &decoded))
	assert.Equal(t, 4, decoded.Get(Assists))
	assert.Zero(t, decoded.Get(Points))

	assert.Error(t, json.Unmarshal([]byte(`{"Dunks":1}`), &decoded))
}

func TestParseKeyAndSide(t *testing.T) {
	k, err := ParseKey("ThreePointAttempts")
	require.NoError(t, err)
	assert.Equal(t, ThreePointAttempts, k)

	_, err = ParseKey("threepointattempts")
	assert.Error(t, err)

	keys, err := ParseKeys([]string{"TwoPointMakes", "TwoPointAttempts"})
	require.NoError(t, err)
	assert.Equal(t, []Key{TwoPointMakes, TwoPointAttempts}, keys)

	side, err := ParseSide("Opponent")
	require.NoError(t, err)
	assert.Equal(t, Opponent, side)

	_, err = ParseSide("Them")
	assert.Error(t, err)
}
