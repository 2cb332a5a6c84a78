package roster

import (
	"reflect"
	"testing"
)

func TestLabelOverflowToFlex(t *testing.T) {
	positions := []string{"RB", "RB", "RB", "WR", "WR", "WR", "TE", "TE"}
	want := []string{"RB", "RB", "FLEX", "WR", "WR", "FLEX", "TE", "FLEX"}

	got := Label(positions)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Label(%v) = %v, want %v", positions, got, want)
	}
}

func TestLabelFullRoster(t *testing.T) {
	positions := []string{"QB", "RB", "WR", "RB", "WR", "TE", "K", "DEF", "RB", "WR"}
	want := []string{"QB", "RB", "WR", "RB", "WR", "TE", "K", "DEF", "FLEX", "FLEX"}

	got := Label(positions)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Label(%v) = %v, want %v", positions, got, want)
	}
}

func TestLabelUncappedPositions(t *testing.T) {
	// QB, K, and DEF have no cap; they never overflow.
	positions := []string{"QB", "QB", "K", "K", "DEF", "DEF"}
	want := []string{"QB", "QB", "K", "K", "DEF", "DEF"}

	got := Label(positions)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Label(%v) = %v, want %v", positions, got, want)
	}
}

func TestLabelDefenseAliases(t *testing.T) {
	for _, raw := range []string{"DEF", "DST", "D/ST", "dst"} {
		got := Label([]string{raw})
		if got[0] != SlotDEF {
			t.Errorf("Label([%q]) = %v, want %v", raw, got[0], SlotDEF)
		}
	}
}

func TestLabelUnknownPositionIsFlex(t *testing.T) {
	got := Label([]string{"FB", "OL", ""})
	want := []string{"FLEX", "FLEX", "FLEX"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Label(unknown) = %v, want %v", got, want)
	}
}

func TestLabelOrderDependence(t *testing.T) {
	// The third RB overflows whichever player arrives third, so reordering
	// the input changes which entry reads FLEX.
	a := Label([]string{"RB", "RB", "RB"})
	b := Label([]string{"RB", "RB", "RB"})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input produced different labels: %v vs %v", a, b)
	}
	if a[2] != SlotFlex || a[0] != SlotRB {
		t.Errorf("overflow must hit the last arrival: got %v", a)
	}
}

func TestLabelEmpty(t *testing.T) {
	if got := Label(nil); len(got) != 0 {
		t.Errorf("Label(nil) = %v, want empty", got)
	}
}
