package boxscore

import (
	"strconv"
	"strings"

	"github.com/fortuna/gridiron/internal/logger"
)

// Feed stat labels. Indices are resolved per category from the feed's own
// label row rather than hardcoded positions, which survives column
// reordering across provider updates.
const (
	labelYards = "YDS"
	labelTD    = "TD"
	labelInt   = "INT"
	labelLost  = "LOST"
	labelXP    = "XP"
	labelPts   = "PTS"
	labelSacks = "SACKS"
)

type feedExtractor struct{}

func (feedExtractor) Extract(pair *DocumentPair, id Identity) (StatLine, error) {
	var line StatLine
	feed := pair.Feed
	if feed == nil {
		return line, nil
	}

	drives := pair.Drives()
	plays := pair.Plays()

	if id.IsTeamDefense() {
		extractFeedDefense(feed, id, drives, plays, &line)
		return line, nil
	}

	side := feedSide(feed, id.Team)
	found := false
	if side != nil {
		for _, cat := range side.Statistics {
			stats, idx, ok := athleteStats(cat, id.PlayerID)
			if !ok {
				continue
			}
			found = true
			switch strings.ToLower(cat.Name) {
			case catPassing:
				line.PassYards = statInt(stats, idx, labelYards)
				line.PassTDs = statInt(stats, idx, labelTD)
				line.PassInts = statInt(stats, idx, labelInt)
			case catRushing:
				line.RushYards = statInt(stats, idx, labelYards)
				line.RushTDs = statInt(stats, idx, labelTD)
			case catReceiving:
				line.RecYards = statInt(stats, idx, labelYards)
				line.RecTDs = statInt(stats, idx, labelTD)
			case catFumbles:
				line.FumblesLost = statInt(stats, idx, labelLost)
			case catKicking:
				line.ExtraPointsMade = madeOfSplit(statText(stats, idx, labelXP))
			}
		}
	}

	line.TwoPointConversions = TwoPointConversions(plays, id.Name)
	line.FieldGoalDistances = FieldGoalDistances(plays, id.Name)

	if !found && feedHasCategories(side) {
		return line, ErrIdentityNotFound
	}
	return line, nil
}

// extractFeedDefense builds a team-defense line. The feed has no aggregate
// defense row for return scores, so defensive touchdowns are reconstructed
// from drive-level scoring events.
func extractFeedDefense(feed *Feed, id Identity, drives []Drive, plays []Play, line *StatLine) {
	side := feedSide(feed, id.Team)
	if side != nil {
		if cat := feedCategory(side, catDefensive); cat != nil {
			line.Sacks = totalInt(cat, labelSacks)
		}
		if cat := feedCategory(side, catInterceptions); cat != nil {
			line.Interceptions = totalInt(cat, labelInt)
		}
	}

	line.DefensiveTDs = DefensiveTouchdowns(drives, id.Opponent)
	line.BlockedKicks = BlockedKicks(drives, id.Opponent)

	oppKick := 0
	if opp := feedSide(feed, id.Opponent); opp != nil {
		if cat := feedCategory(opp, catKicking); cat != nil {
			oppKick = totalInt(cat, labelPts)
		}
	}
	line.PointsAllowed = PointsAllowed(drives, plays, id.Opponent, oppKick)
}

func feedSide(feed *Feed, team string) *FeedTeamPlayers {
	abbr := strings.ToUpper(team)
	for i := range feed.Boxscore.Players {
		if strings.ToUpper(feed.Boxscore.Players[i].Team.Abbreviation) == abbr {
			return &feed.Boxscore.Players[i]
		}
	}
	return nil
}

func feedCategory(side *FeedTeamPlayers, name string) *FeedStatCategory {
	for i := range side.Statistics {
		if strings.EqualFold(side.Statistics[i].Name, name) {
			return &side.Statistics[i]
		}
	}
	return nil
}

func feedHasCategories(side *FeedTeamPlayers) bool {
	return side != nil && len(side.Statistics) > 0
}

// athleteStats finds a player's stat row inside a category and returns it
// with the category's label -> index map.
func athleteStats(cat FeedStatCategory, playerID string) ([]string, map[string]int, bool) {
	for _, a := range cat.Athletes {
		if a.Athlete.ID == playerID {
			return a.Stats, labelIndex(cat.Labels), true
		}
	}
	return nil, nil, false
}

func labelIndex(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[strings.ToUpper(l)] = i
	}
	return idx
}

func statText(stats []string, idx map[string]int, label string) string {
	i, ok := idx[label]
	if !ok || i >= len(stats) {
		return ""
	}
	return strings.TrimSpace(stats[i])
}

func statInt(stats []string, idx map[string]int, label string) int {
	text := statText(stats, idx, label)
	if text == "" || text == "--" {
		return 0
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		logger.Get().WithField("stat", text).Debug("unparseable feed stat, treating as zero")
		return 0
	}
	return v
}

func totalInt(cat *FeedStatCategory, label string) int {
	return statInt(cat.Totals, labelIndex(cat.Labels), label)
}
