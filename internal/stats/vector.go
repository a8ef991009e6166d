package stats

import (
	"encoding/json"
	"fmt"
)

// Vector holds one value per Key. The zero Vector has every stat at 0.
// Vectors are values: assignment copies, so every function below is pure.
type Vector [NumKeys]int

// Get returns the value for k, or 0 for an invalid key.
func (v Vector) Get(k Key) int {
	if !k.Valid() {
		return 0
	}
	return v[k]
}

// Add returns the element-wise sum scaled by sign (+1 folds, -1 unfolds).
func (v Vector) Add(other Vector, sign int) Vector {
	for i := range v {
		v[i] += other[i] * sign
	}
	return v
}

// NegativeKeys lists keys holding a negative value, ignoring PlusMinus.
func (v Vector) NegativeKeys() []Key {
	var keys []Key
	for i, n := range v {
		if Key(i) != PlusMinus && n < 0 {
			keys = append(keys, Key(i))
		}
	}
	return keys
}

// ClampNonNegative zeroes every negative stat except PlusMinus.
func (v Vector) ClampNonNegative() Vector {
	for _, k := range v.NegativeKeys() {
		v[k] = 0
	}
	return v
}

// MarshalJSON encodes the vector as an object keyed by stat name.
func (v Vector) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, NumKeys)
	for i, n := range v {
		m[keyNames[i]] = n
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts an object keyed by stat name. Missing keys decode as 0.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshal stats vector: %w", err)
	}
	var out Vector
	for name, n := range m {
		k, err := ParseKey(name)
		if err != nil {
			return fmt.Errorf("unmarshal stats vector: %w", err)
		}
		out[k] = n
	}
	*v = out
	return nil
}

// SideTotals holds one vector per side.
type SideTotals struct {
	Us       Vector `json:"us"`
	Opponent Vector `json:"opponent"`
}

// Get returns the vector for side.
func (t SideTotals) Get(side Side) Vector {
	if side == Opponent {
		return t.Opponent
	}
	return t.Us
}

// With returns a copy of t with side's vector replaced.
func (t SideTotals) With(side Side, v Vector) SideTotals {
	if side == Opponent {
		t.Opponent = v
	} else {
		t.Us = v
	}
	return t
}

// Add folds other into t, scaled by sign.
func (t SideTotals) Add(other SideTotals, sign int) SideTotals {
	t.Us = t.Us.Add(other.Us, sign)
	t.Opponent = t.Opponent.Add(other.Opponent, sign)
	return t
}
