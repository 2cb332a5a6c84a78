// Package roster assigns display slots to a fantasy team's drafted players.
// Labeling is a per-player classification independent of scoring; it does
// not enforce roster-wide slot uniqueness.
package roster

import "strings"

// Slot labels.
const (
	SlotQB   = "QB"
	SlotRB   = "RB"
	SlotWR   = "WR"
	SlotTE   = "TE"
	SlotK    = "K"
	SlotDEF  = "DEF"
	SlotFlex = "FLEX"
)

// Regular-slot caps before overflow to FLEX.
const (
	capRB = 2
	capWR = 2
	capTE = 1
)

// counters track filled regular slots for one labeling run. They only
// increase and stop incrementing once a position hits its cap.
type counters struct {
	rb, wr, te int
}

// Label assigns a display slot per raw position for one team's roster.
// The fold is order-dependent by design: callers must supply a stable
// iteration order (draft pick number) to get reproducible labels across
// runs. Unrecognized raw positions default to FLEX.
func Label(rawPositions []string) []string {
	var c counters
	labels := make([]string, len(rawPositions))
	for i, raw := range rawPositions {
		labels[i] = c.next(raw)
	}
	return labels
}

func (c *counters) next(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case SlotQB:
		return SlotQB
	case SlotK:
		return SlotK
	case SlotDEF, "DST", "D/ST":
		return SlotDEF
	case SlotRB:
		if c.rb < capRB {
			c.rb++
			return SlotRB
		}
		return SlotFlex
	case SlotWR:
		if c.wr < capWR {
			c.wr++
			return SlotWR
		}
		return SlotFlex
	case SlotTE:
		if c.te < capTE {
			c.te++
			return SlotTE
		}
		return SlotFlex
	default:
		return SlotFlex
	}
}
