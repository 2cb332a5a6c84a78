package boxscore

import (
	"reflect"
	"testing"
)

func TestTwoPointConversions(t *testing.T) {
	plays := []Play{
		{Text: "Josh Allen pass complete to Stefon Diggs for the two-point conversion", Team: "BUF"},
		{Text: "Two-Point Conversion: Josh Allen rush. ATTEMPT FAILED.", Team: "BUF"},
		{Text: "Josh Allen pass deep right to Khalil Shakir for 24 yards, TOUCHDOWN", Team: "BUF"},
		{Text: "two-point conversion fails on the Josh Allen keeper", Team: "BUF"},
	}

	if got := TwoPointConversions(plays, "Josh Allen"); got != 1 {
		t.Errorf("TwoPointConversions = %d, want 1", got)
	}
}

func TestTwoPointConversionsNameMismatch(t *testing.T) {
	plays := []Play{
		{Text: "Dak Prescott pass to CeeDee Lamb for the two-point conversion", Team: "DAL"},
	}
	if got := TwoPointConversions(plays, "Josh Allen"); got != 0 {
		t.Errorf("TwoPointConversions for absent player = %d, want 0", got)
	}
}

func TestTwoPointConversionsEveryOccurrenceCounts(t *testing.T) {
	plays := []Play{
		{Text: "Saquon Barkley rush up the middle for the two-point conversion", Team: "PHI"},
		{Text: "Saquon Barkley rush left for the two-point conversion", Team: "PHI"},
	}
	if got := TwoPointConversions(plays, "Saquon Barkley"); got != 2 {
		t.Errorf("TwoPointConversions = %d, want 2", got)
	}
}

func TestTeamTwoPointConversions(t *testing.T) {
	plays := []Play{
		{Text: "Jalen Hurts rush for the two-point conversion", Team: "PHI"},
		{Text: "Two-point conversion failed", Team: "PHI"},
		{Text: "A.J. Brown catch for the two-point conversion", Team: "PHI"},
		{Text: "Josh Allen rush for the two-point conversion", Team: "BUF"},
	}

	if got := TeamTwoPointConversions(plays, "phi"); got != 2 {
		t.Errorf("TeamTwoPointConversions(PHI) = %d, want 2", got)
	}
}

func TestFieldGoalDistances(t *testing.T) {
	plays := []Play{
		{Text: "Tyler Bass 52 Yd Field Goal", Team: "BUF"},
		{Text: "Tyler Bass 38 yard field goal is GOOD", Team: "BUF"},
		{Text: "Tyler Bass 47 Yd Field Goal No Good", Team: "BUF"},
		{Text: "Harrison Butker 29 Yd Field Goal", Team: "KC"},
	}

	got := FieldGoalDistances(plays, "Tyler Bass")
	want := []int{52, 38}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FieldGoalDistances = %v, want %v", got, want)
	}
}

func TestFieldGoalDistancesHyphenatedToken(t *testing.T) {
	plays := []Play{
		{Text: "Justin Tucker 61-yard field goal is good", Team: "BAL"},
	}
	got := FieldGoalDistances(plays, "Justin Tucker")
	if !reflect.DeepEqual(got, []int{61}) {
		t.Errorf("FieldGoalDistances = %v, want [61]", got)
	}
}

func TestFieldGoalDistancesUnparseableTokenSkipped(t *testing.T) {
	plays := []Play{
		{Text: "Tyler Bass makes field goal attempt", Team: "BUF"},
		{Text: "Tyler Bass 44 Yd Field Goal", Team: "BUF"},
	}
	got := FieldGoalDistances(plays, "Tyler Bass")
	if !reflect.DeepEqual(got, []int{44}) {
		t.Errorf("FieldGoalDistances = %v, want [44]", got)
	}
}

func TestBlockedKicks(t *testing.T) {
	drives := []Drive{
		{Team: "NYJ", Result: "BLOCKED FG", Plays: []Play{
			{Text: "Greg Zuerlein 44 Yd Field Goal BLOCKED", Team: "NYJ"},
		}},
		{Team: "NYJ", Result: "PUNT", Plays: []Play{
			{Text: "Thomas Morstead punts 51 yards", Team: "NYJ"},
		}},
		{Team: "BUF", Result: "TD", Plays: []Play{
			{Text: "James Cook 4 Yd Run, TOUCHDOWN", Team: "BUF"},
		}},
	}

	if got := BlockedKicks(drives, "NYJ"); got != 1 {
		t.Errorf("BlockedKicks(NYJ) = %d, want 1", got)
	}
	if got := BlockedKicks(drives, "BUF"); got != 0 {
		t.Errorf("BlockedKicks(BUF) = %d, want 0", got)
	}
}

func TestBlockedKicksFromPlayTextOnly(t *testing.T) {
	drives := []Drive{
		{Team: "MIA", Result: "DOWNS", Plays: []Play{
			{Text: "Jason Sanders punt BLOCKED by Matt Milano", Team: "MIA"},
		}},
	}
	if got := BlockedKicks(drives, "MIA"); got != 1 {
		t.Errorf("BlockedKicks = %d, want 1", got)
	}
}

func driveFixture() []Drive {
	return []Drive{
		{Team: "KC", Result: "TD"},
		{Team: "KC", Result: "FG"},
		{Team: "KC", Result: "INT TD"},   // returned by the other defense
		{Team: "KC", Result: "PUNT"},
		{Team: "KC", Result: "TD"},
		{Team: "BUF", Result: "TD"},
		{Team: "BUF", Result: "FUM TD"},
	}
}

func TestOffensiveTouchdowns(t *testing.T) {
	drives := driveFixture()
	if got := OffensiveTouchdowns(drives, "KC"); got != 2 {
		t.Errorf("OffensiveTouchdowns(KC) = %d, want 2", got)
	}
	if got := OffensiveTouchdowns(drives, "BUF"); got != 1 {
		t.Errorf("OffensiveTouchdowns(BUF) = %d, want 1", got)
	}
}

func TestDefensiveTouchdowns(t *testing.T) {
	drives := driveFixture()
	// KC drives ending in INT TD score for the opposing defense.
	if got := DefensiveTouchdowns(drives, "KC"); got != 1 {
		t.Errorf("DefensiveTouchdowns(vs KC) = %d, want 1", got)
	}
	if got := DefensiveTouchdowns(drives, "BUF"); got != 1 {
		t.Errorf("DefensiveTouchdowns(vs BUF) = %d, want 1", got)
	}
}

func TestPointsAllowed(t *testing.T) {
	drives := driveFixture()
	plays := []Play{
		{Text: "Patrick Mahomes pass for the two-point conversion", Team: "KC"},
	}

	// KC offense: 2 TDs (12) + kicking points (XP + FG read from the
	// aggregate, here 5) + one two-point (2). The INT TD drive is excluded.
	if got := PointsAllowed(drives, plays, "KC", 5); got != 19 {
		t.Errorf("PointsAllowed(vs KC) = %d, want 19", got)
	}
}

func TestPointsAllowedExcludesOwnReturnScores(t *testing.T) {
	drives := []Drive{
		{Team: "NE", Result: "INT TD"},
		{Team: "NE", Result: "FUM TD"},
		{Team: "NE", Result: "PUNT TD"},
	}
	if got := PointsAllowed(drives, nil, "NE", 0); got != 0 {
		t.Errorf("PointsAllowed = %d, want 0 when every score was a return", got)
	}
}
