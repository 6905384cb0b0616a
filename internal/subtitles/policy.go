package subtitles

import (
	"fmt"
	"strings"
)

// Policy selects how Align combines the two tracks.
type Policy int

const (
	// PrimaryA keeps track A's cue boundaries and matches track B onto them.
	PrimaryA Policy = iota
	// PrimaryB keeps track B's cue boundaries and matches track A onto them.
	PrimaryB
	// Union coalesces both tracks into shared windows with no primary track.
	Union
)

func (p Policy) String() string {
	switch p {
	case PrimaryA:
		return "a"
	case PrimaryB:
		return "b"
	case Union:
		return "union"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a user-facing policy name to a Policy. The language codes
// zh and en are accepted as aliases for tracks A and B.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "a", "zh", "primary-a":
		return PrimaryA, nil
	case "b", "en", "primary-b":
		return PrimaryB, nil
	case "union", "":
		return Union, nil
	default:
		return 0, fmt.Errorf("unknown alignment policy %q (want a, b, or union)", value)
	}
}
