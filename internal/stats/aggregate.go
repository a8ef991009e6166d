// Package stats computes statistics vectors.
//
// Every function here is pure: inputs are never modified and results are
// new values. Negative results are valid; they appear while a play is being
// reversed.
package stats

// ApplyDelta returns v with k shifted by amount.
func ApplyDelta(v Vector, k Key, amount int) Vector {
	if !k.Valid() {
		return v
	}
	v[k] += amount
	return v
}

// SignedPlusMinus returns amount for Us and -amount for Opponent.
func SignedPlusMinus(side Side, amount int) int {
	if side == Opponent {
		return -amount
	}
	return amount
}

// ApplyDeltaForSide applies ApplyDelta to the named side only.
func ApplyDeltaForSide(t SideTotals, k Key, amount int, side Side) SideTotals {
	return t.With(side, ApplyDelta(t.Get(side), k, amount))
}

// PointValue is the scoring table: three for a made three, two for a made
// two, one for a made free throw.
func PointValue(k Key) int {
	switch k {
	case ThreePointMakes:
		return 3
	case TwoPointMakes:
		return 2
	case FreeThrowsMade:
		return 1
	default:
		return 0
	}
}

// PlayPoints sums PointValue over the keys of one play.
func PlayPoints(keys []Key) int {
	total := 0
	for _, k := range keys {
		total += PointValue(k)
	}
	return total
}
