package boxscore

import (
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/gridiron/internal/logger"
)

// Tree backend: reads the rendered box score page. Each side of the page is
// a column of category blocks; a block holds a label and a table whose rows
// carry a player link and fixed stat cells. Anything missing reads as zero.
const (
	selAwayColumn    = "div.gamepackage-away-wrap"
	selHomeColumn    = "div.gamepackage-home-wrap"
	selCategoryBlock = "div.boxscore-block"
	selCategoryLabel = ".category-label"
	selStatRow       = "table tbody tr"
	selStatusNode    = ".game-status"

	selDrive     = "li.drive"
	selDriveSpan = "span.drive-result"
	selDriveLogo = "img.team-logo"
	selPlayText  = "li.post-play"
)

// Category label fragments matched inside block labels ("Buffalo Passing").
const (
	catPassing       = "passing"
	catRushing       = "rushing"
	catReceiving     = "receiving"
	catFumbles       = "fumbles"
	catKicking       = "kicking"
	catDefensive     = "defensive"
	catInterceptions = "interceptions"
	catReturns       = "returns"
)

// Fixed stat column indices per category.
const (
	colPassYards = 1 // C/ATT, YDS, AVG, TD, INT
	colPassTD    = 3
	colPassInt   = 4

	colRushYards = 1 // CAR, YDS, AVG, TD, LONG
	colRushTD    = 3

	colRecYards = 1 // REC, YDS, AVG, TD, LONG
	colRecTD    = 3

	colFumLost = 1 // FUM, LOST, REC

	colKickXP  = 3 // FG, PCT, LONG, XP, PTS
	colKickPts = 4

	colDefSacks = 2 // TOT, SOLO, SACKS, TFL, TD
	colDefTD    = 4

	colIntCount = 0 // INT, YDS, TD
	colIntTD    = 2

	colRetTD = 3 // NO, YDS, AVG, TD
)

type treeExtractor struct{}

func (treeExtractor) Extract(pair *DocumentPair, id Identity) (StatLine, error) {
	var line StatLine
	if pair.BoxScore == nil {
		// Game not started: every category reads zero.
		return line, nil
	}

	col := sideColumn(pair.BoxScore, id.Home)
	drives := pair.Drives()
	plays := pair.Plays()

	if id.IsTeamDefense() {
		extractTreeDefense(pair, col, id, drives, plays, &line)
		return line, nil
	}

	found := false
	if row := playerRow(col, catPassing, id.PlayerID); row != nil {
		found = true
		line.PassYards = cellInt(row, colPassYards)
		line.PassTDs = cellInt(row, colPassTD)
		line.PassInts = cellInt(row, colPassInt)
	}
	if row := playerRow(col, catRushing, id.PlayerID); row != nil {
		found = true
		line.RushYards = cellInt(row, colRushYards)
		line.RushTDs = cellInt(row, colRushTD)
	}
	if row := playerRow(col, catReceiving, id.PlayerID); row != nil {
		found = true
		line.RecYards = cellInt(row, colRecYards)
		line.RecTDs = cellInt(row, colRecTD)
	}
	if row := playerRow(col, catFumbles, id.PlayerID); row != nil {
		found = true
		line.FumblesLost = cellInt(row, colFumLost)
	}
	if row := playerRow(col, catKicking, id.PlayerID); row != nil {
		found = true
		line.ExtraPointsMade = madeOfSplit(cellText(row, colKickXP))
	}

	line.TwoPointConversions = TwoPointConversions(plays, id.Name)
	line.FieldGoalDistances = FieldGoalDistances(plays, id.Name)

	if !found && hasAnyCategory(col) {
		return line, ErrIdentityNotFound
	}
	return line, nil
}

func extractTreeDefense(pair *DocumentPair, col *goquery.Selection, id Identity, drives []Drive, plays []Play, line *StatLine) {
	if row := aggregateRow(col, catDefensive); row != nil {
		line.Sacks = cellInt(row, colDefSacks)
		line.DefensiveTDs = cellInt(row, colDefTD)
	}
	if row := aggregateRow(col, catInterceptions); row != nil {
		line.Interceptions = cellInt(row, colIntCount)
		line.DefensiveTDs += cellInt(row, colIntTD)
	}
	if row := aggregateRow(col, catReturns); row != nil {
		line.DefensiveTDs += cellInt(row, colRetTD)
	}

	line.BlockedKicks = BlockedKicks(drives, id.Opponent)

	oppKick := 0
	oppCol := sideColumn(pair.BoxScore, !id.Home)
	if row := aggregateRow(oppCol, catKicking); row != nil {
		oppKick = cellInt(row, colKickPts)
	}
	line.PointsAllowed = PointsAllowed(drives, plays, id.Opponent, oppKick)
}

func sideColumn(doc *goquery.Document, home bool) *goquery.Selection {
	if home {
		return doc.Find(selHomeColumn)
	}
	return doc.Find(selAwayColumn)
}

// categoryBlock finds the first block whose label contains the fragment.
// Returns nil when the section has not rendered yet.
func categoryBlock(col *goquery.Selection, fragment string) *goquery.Selection {
	var block *goquery.Selection
	col.Find(selCategoryBlock).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(s.Find(selCategoryLabel).Text()))
		if strings.Contains(label, fragment) {
			block = s
			return false
		}
		return true
	})
	return block
}

func hasAnyCategory(col *goquery.Selection) bool {
	return col.Find(selCategoryBlock).Length() > 0
}

// playerRow matches the row whose embedded link href carries the player id.
func playerRow(col *goquery.Selection, fragment, playerID string) *goquery.Selection {
	block := categoryBlock(col, fragment)
	if block == nil {
		return nil
	}
	var row *goquery.Selection
	block.Find(selStatRow).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		href, ok := tr.Find("a").Attr("href")
		if ok && strings.Contains(href, playerID) {
			row = tr
			return false
		}
		return true
	})
	return row
}

// aggregateRow returns a category's final team-total row.
func aggregateRow(col *goquery.Selection, fragment string) *goquery.Selection {
	block := categoryBlock(col, fragment)
	if block == nil {
		return nil
	}
	rows := block.Find(selStatRow)
	if rows.Length() == 0 {
		return nil
	}
	return rows.Last()
}

// cellText reads the idx-th stat cell of a row. Stat cells follow the name
// cell, so indexing starts after it.
func cellText(row *goquery.Selection, idx int) string {
	cells := row.Find("td.stat")
	if idx >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(idx).Text())
}

func cellInt(row *goquery.Selection, idx int) int {
	text := cellText(row, idx)
	if text == "" || text == "--" {
		return 0
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		logger.Get().WithField("cell", text).Debug("unparseable stat cell, treating as zero")
		return 0
	}
	return v
}

// madeOfSplit reads the made count out of an "X/Y" cell.
func madeOfSplit(s string) int {
	parts := strings.Split(s, "/")
	if len(parts) == 0 {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	return v
}

// treeStatus reads the page's status node. "Final" and cancellation words
// are the terminal markers; a populated box score otherwise means live.
func treeStatus(doc *goquery.Document) Status {
	if doc == nil {
		return NotStarted
	}
	status := strings.ToLower(strings.TrimSpace(doc.Find(selStatusNode).First().Text()))
	switch {
	case strings.Contains(status, "final"):
		return Final
	case strings.Contains(status, "cancel"):
		return Canceled
	case status == "" && doc.Find(selCategoryBlock).Length() == 0:
		return NotStarted
	default:
		return InProgress
	}
}

// treeDrives walks the play-by-play accordion. Play team attribution comes
// from the drive's team-logo image reference fragment.
func treeDrives(doc *goquery.Document) []Drive {
	if doc == nil {
		return nil
	}
	var drives []Drive
	doc.Find(selDrive).Each(func(_ int, s *goquery.Selection) {
		d := Drive{
			Result: strings.ToUpper(strings.TrimSpace(s.Find(selDriveSpan).First().Text())),
		}
		if src, ok := s.Find(selDriveLogo).First().Attr("src"); ok {
			d.Team = abbrFromImageRef(src)
		}
		s.Find(selPlayText).Each(func(_ int, p *goquery.Selection) {
			d.Plays = append(d.Plays, Play{
				Text: strings.TrimSpace(p.Text()),
				Team: d.Team,
			})
		})
		drives = append(drives, d)
	})
	return drives
}

// abbrFromImageRef pulls the 3-letter abbreviation out of a team logo URL,
// e.g. ".../teamlogos/nfl/500/buf.png" -> "BUF".
func abbrFromImageRef(src string) string {
	base := path.Base(src)
	if dot := strings.IndexByte(base, '.'); dot > 0 {
		base = base[:dot]
	}
	return strings.ToUpper(base)
}
