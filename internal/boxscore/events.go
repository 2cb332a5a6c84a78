package boxscore

import (
	"strconv"
	"strings"

	"github.com/fortuna/gridiron/internal/logger"
)

// Event scanning over free-text play descriptions. The same scan rules run
// against DOM text nodes and feed play text; only team attribution differs
// between the two sources.
//
// Name matching is a case-insensitive substring check. That can over- or
// under-count when one name contains another or punctuation shifts casing;
// the rule is kept as-is for compatibility with the upstream play text.

// TwoPointConversions counts successful two-point plays crediting the named
// player. Every qualifying play counts; there is no dedup across drives.
func TwoPointConversions(plays []Play, name string) int {
	count := 0
	for _, p := range plays {
		if isTwoPointSuccess(p.Text) && containsFold(p.Text, name) {
			count++
		}
	}
	return count
}

// TeamTwoPointConversions counts successful two-point plays run by a team,
// regardless of which player converted. Used for points-allowed.
func TeamTwoPointConversions(plays []Play, team string) int {
	count := 0
	for _, p := range plays {
		if p.Team == strings.ToUpper(team) && isTwoPointSuccess(p.Text) {
			count++
		}
	}
	return count
}

func isTwoPointSuccess(text string) bool {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "two-point") {
		return false
	}
	if strings.Contains(lower, "failed") || strings.Contains(lower, "fails") {
		return false
	}
	return true
}

// FieldGoalDistances collects the made field-goal distances for the named
// kicker. The distance is the integer token immediately following the name;
// a token that fails to parse skips that contribution and continues.
func FieldGoalDistances(plays []Play, kicker string) []int {
	var distances []int
	for _, p := range plays {
		lower := strings.ToLower(p.Text)
		if !strings.Contains(lower, "field goal") || strings.Contains(lower, "no good") {
			continue
		}
		idx := indexFold(p.Text, kicker)
		if idx < 0 {
			continue
		}
		rest := strings.Fields(p.Text[idx+len(kicker):])
		if len(rest) == 0 {
			continue
		}
		dist, err := strconv.Atoi(leadingDigits(rest[0]))
		if err != nil {
			logger.Get().WithField("token", rest[0]).Debug("unparseable field goal distance, skipping")
			continue
		}
		distances = append(distances, dist)
	}
	return distances
}

// BlockedKicks counts kicks or punts by the given team that were blocked.
// Each one awards the opposing defense two points.
func BlockedKicks(drives []Drive, kickingTeam string) int {
	team := strings.ToUpper(kickingTeam)
	count := 0
	for _, d := range drives {
		if d.Team != team {
			continue
		}
		if strings.Contains(strings.ToLower(d.Result), "blocked") {
			count++
			continue
		}
		for _, p := range d.Plays {
			if strings.Contains(strings.ToLower(p.Text), "blocked") {
				count++
			}
		}
	}
	return count
}

// Drive result labels as emitted by the provider.
const (
	resultTouchdown  = "TD"
	resultFieldGoal  = "FG"
	resultIntReturn  = "INT TD"
	resultFumReturn  = "FUM TD"
	resultPuntReturn = "PUNT TD"
)

// OffensiveTouchdowns counts drives the team finished in an offensive
// touchdown. Turnovers and kicks returned for scores resolve to the other
// team's defense and are excluded here.
func OffensiveTouchdowns(drives []Drive, team string) int {
	abbr := strings.ToUpper(team)
	count := 0
	for _, d := range drives {
		if d.Team == abbr && d.Result == resultTouchdown {
			count++
		}
	}
	return count
}

// DefensiveTouchdowns counts opponent drives that ended with the team's
// defense or return unit scoring.
func DefensiveTouchdowns(drives []Drive, opponent string) int {
	abbr := strings.ToUpper(opponent)
	count := 0
	for _, d := range drives {
		if d.Team != abbr {
			continue
		}
		switch d.Result {
		case resultIntReturn, resultFumReturn, resultPuntReturn:
			count++
		}
	}
	return count
}

// PointsAllowed computes the opponent's offensive scoring against a
// defense: offensive touchdowns at six, kicking points read from the
// opponent's kicking aggregate, and successful two-point conversions at
// two. The defense's own return scores never count against it.
func PointsAllowed(drives []Drive, plays []Play, opponent string, opponentKickingPoints int) int {
	tds := OffensiveTouchdowns(drives, opponent)
	twoPoint := TeamTwoPointConversions(plays, opponent)
	return tds*6 + opponentKickingPoints + twoPoint*2
}

// leadingDigits keeps the leading digit run of a token, so "52" and
// "52-yard" both read as 52.
func leadingDigits(tok string) string {
	end := 0
	for end < len(tok) && tok[end] >= '0' && tok[end] <= '9' {
		end++
	}
	return tok[:end]
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return indexFold(s, substr) >= 0
}

func indexFold(s, substr string) int {
	if substr == "" {
		return -1
	}
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
