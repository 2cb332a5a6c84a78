// Package scoring maps extracted stat lines to fantasy point totals. Every
// function is pure; rounding happens exactly once, at the final per-player
// aggregation.
package scoring

import (
	"math"
	"strings"

	"github.com/fortuna/gridiron/internal/boxscore"
)

// Points returns the final fantasy point total for one player this pass,
// rounded to two decimal places. Intermediate terms are never rounded.
func Points(position string, line boxscore.StatLine) float64 {
	var pts float64
	switch strings.ToUpper(position) {
	case "QB":
		pts = passingPoints(line) + offenseCommon(line)
	case "RB":
		pts = rushingPoints(line) + offenseCommon(line)
	case "WR", "TE":
		pts = receivingPoints(line) + offenseCommon(line)
	case "K":
		pts = kickingPoints(line)
	case "DEF", "DST":
		pts = defensePoints(line)
	default:
		// Unrecognized raw positions score as generic offense.
		pts = rushingPoints(line) + receivingPoints(line) + offenseCommon(line)
	}
	return Round2(pts)
}

func passingPoints(line boxscore.StatLine) float64 {
	return float64(line.PassYards)/25 +
		float64(line.PassTDs)*4 +
		float64(line.PassInts)*-1
}

func rushingPoints(line boxscore.StatLine) float64 {
	return float64(line.RushYards)/10 + float64(line.RushTDs)*6
}

func receivingPoints(line boxscore.StatLine) float64 {
	return float64(line.RecYards)/10 + float64(line.RecTDs)*6
}

// offenseCommon applies to every offensive position: lost fumbles cost two
// points and each successful two-point conversion adds two.
func offenseCommon(line boxscore.StatLine) float64 {
	return float64(line.FumblesLost)*-2 + float64(line.TwoPointConversions)*2
}

func kickingPoints(line boxscore.StatLine) float64 {
	pts := float64(line.ExtraPointsMade)
	for _, dist := range line.FieldGoalDistances {
		pts += float64(FieldGoalPoints(dist))
	}
	return pts
}

// FieldGoalPoints bands a made field goal by distance: under 40 yards is
// worth 3, under 50 worth 4, 50 and beyond worth 5.
func FieldGoalPoints(distance int) int {
	switch {
	case distance < 40:
		return 3
	case distance < 50:
		return 4
	default:
		return 5
	}
}

func defensePoints(line boxscore.StatLine) float64 {
	return float64(line.Sacks) +
		float64(line.DefensiveTDs)*6 +
		float64(line.Interceptions)*2 +
		float64(line.BlockedKicks)*2 +
		PointsAllowedBonus(line.PointsAllowed)
}

// PointsAllowedBonus bands a defense's bonus by the opponent's offensive
// scoring. Monotonically non-increasing across the breakpoints.
func PointsAllowedBonus(pointsAllowed int) float64 {
	switch {
	case pointsAllowed <= 0:
		return 10
	case pointsAllowed <= 6:
		return 7
	case pointsAllowed <= 13:
		return 4
	case pointsAllowed <= 20:
		return 1
	case pointsAllowed <= 27:
		return 0
	case pointsAllowed <= 34:
		return -1
	default:
		return -4
	}
}

// Round2 rounds to two decimal places using standard rounding.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
