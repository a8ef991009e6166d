package stats

import (
	"encoding/json"
	"fmt"
)

// Key identifies one tracked statistic.
// The set of keys is closed; NumKeys is the size of every Vector.
type Key int

const (
	Points Key = iota
	Assists
	OffensiveRebounds
	DefensiveRebounds
	Steals
	Blocks
	Deflections
	Turnovers
	TwoPointMakes
	TwoPointAttempts
	ThreePointMakes
	ThreePointAttempts
	FreeThrowsMade
	FreeThrowsAttempted
	FoulsCommitted
	FoulsDrawn
	PlusMinus

	// NumKeys is the number of defined keys.
	NumKeys
)

var keyNames = [NumKeys]string{
	Points:              "Points",
	Assists:             "Assists",
	OffensiveRebounds:   "OffensiveRebounds",
	DefensiveRebounds:   "DefensiveRebounds",
	Steals:              "Steals",
	Blocks:              "Blocks",
	Deflections:         "Deflections",
	Turnovers:           "Turnovers",
	TwoPointMakes:       "TwoPointMakes",
	TwoPointAttempts:    "TwoPointAttempts",
	ThreePointMakes:     "ThreePointMakes",
	ThreePointAttempts:  "ThreePointAttempts",
	FreeThrowsMade:      "FreeThrowsMade",
	FreeThrowsAttempted: "FreeThrowsAttempted",
	FoulsCommitted:      "FoulsCommitted",
	FoulsDrawn:          "FoulsDrawn",
	PlusMinus:           "PlusMinus",
}

// AllKeys returns every key in declaration order.
func AllKeys() []Key {
	keys := make([]Key, NumKeys)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Valid reports whether k is one of the defined keys.
func (k Key) Valid() bool {
	return k >= 0 && k < NumKeys
}

func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey resolves a stat name to its Key.
func ParseKey(name string) (Key, error) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stat key %q", name)
}

// ParseKeys resolves a list of stat names, failing on the first unknown one.
func ParseKeys(names []string) ([]Key, error) {
	keys := make([]Key, 0, len(names))
	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Contains reports whether k appears in keys.
func Contains(keys []Key, k Key) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}

func (k Key) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal stat key: invalid key %d", int(k))
	}
	return json.Marshal(keyNames[k])
}

func (k *Key) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("unmarshal stat key: %w", err)
	}
	parsed, err := ParseKey(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Side distinguishes the tracked team from its opponent.
type Side int

const (
	Us Side = iota
	Opponent
)

func (s Side) String() string {
	switch s {
	case Us:
		return "Us"
	case Opponent:
		return "Opponent"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide resolves "Us" or "Opponent".
func ParseSide(name string) (Side, error) {
	switch name {
	case "Us":
		return Us, nil
	case "Opponent":
		return Opponent, nil
	default:
		return 0, fmt.Errorf("unknown side %q", name)
	}
}

func (s Side) MarshalJSON() ([]byte, error) {
	if s != Us && s != Opponent {
		return nil, fmt.Errorf("marshal side: invalid side %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("unmarshal side: %w", err)
	}
	parsed, err := ParseSide(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
