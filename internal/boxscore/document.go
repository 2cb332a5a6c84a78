package boxscore

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TeamDefenseID is the sentinel player id identifying a rostered team
// defense. Defense stat lines read category aggregate rows instead of an
// individual player row.
const TeamDefenseID = "DEF"

// Identity describes one rostered player inside one game. Supplied by the
// caller per player per pass and never mutated here.
type Identity struct {
	PlayerID string // external player id, or TeamDefenseID
	Name     string // raw display name as it appears in play text
	Position string // QB, RB, WR, TE, K, DEF
	Team     string // 3-letter abbreviation
	Opponent string // 3-letter abbreviation
	Home     bool
}

// IsTeamDefense reports whether this identity is a team-defense sentinel.
func (id Identity) IsTeamDefense() bool {
	return id.PlayerID == TeamDefenseID
}

// StatLine holds the raw counting stats extracted for one player from one
// DocumentPair. An absent stat category is a valid zero, not an error.
type StatLine struct {
	PassYards int
	PassTDs   int
	PassInts  int

	RushYards int
	RushTDs   int

	RecYards int
	RecTDs   int

	FumblesLost int

	ExtraPointsMade    int
	FieldGoalDistances []int

	TwoPointConversions int

	// Team-defense only
	Sacks         int
	Interceptions int
	DefensiveTDs  int
	BlockedKicks  int
	PointsAllowed int
}

// Play is one free-text play description with team attribution.
type Play struct {
	Text string
	Team string // abbreviation of the team running the play
}

// Drive is one possession with its result label.
type Drive struct {
	Team   string
	Result string
	Plays  []Play
}

// DocumentPair is the opaque parsed representation of one external game's
// box score and play-by-play. It is fetched once per game id per pass and
// shared, read-only, by every player in that game.
type DocumentPair struct {
	GameID string

	// Feed is set when the provider exposes a structured event feed for
	// the game. When present the feed backend is used.
	Feed *Feed

	// Tree form: the rendered box score page and play-by-play page.
	BoxScore   *goquery.Document
	PlayByPlay *goquery.Document

	// Header fields populated by whichever source supplied the pair.
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Clock     string
	Period    int
}

// HasFeed reports whether a structured event feed is available.
func (p *DocumentPair) HasFeed() bool {
	return p.Feed != nil
}

// CurrentScore renders a human-readable score line, away team first.
func (p *DocumentPair) CurrentScore() string {
	return fmt.Sprintf("%s %d, %s %d", p.AwayTeam, p.AwayScore, p.HomeTeam, p.HomeScore)
}

// Drives returns the game's possessions from whichever representation is
// present. An empty slice is normal for games that have not started.
func (p *DocumentPair) Drives() []Drive {
	if p.Feed != nil {
		return p.Feed.drives()
	}
	return treeDrives(p.PlayByPlay)
}

// Plays flattens every drive's plays into one chronological sequence.
func (p *DocumentPair) Plays() []Play {
	var plays []Play
	for _, d := range p.Drives() {
		plays = append(plays, d.Plays...)
	}
	return plays
}

// Feed is the structured event feed for one game: per-player labeled stat
// groups plus drive records. Mirrors the provider's summary payload.
type Feed struct {
	Status   FeedStatus   `json:"status"`
	Boxscore FeedBoxscore `json:"boxscore"`
	Drives   FeedDrives   `json:"drives"`
}

// FeedStatus carries the provider's game-state markers.
type FeedStatus struct {
	State        string `json:"state"` // pre, in, post
	Name         string `json:"name"`  // STATUS_FINAL, STATUS_CANCELED, ...
	Completed    bool   `json:"completed"`
	Period       int    `json:"period"`
	DisplayClock string `json:"displayClock"`
}

// FeedBoxscore groups per-player stat categories by team.
type FeedBoxscore struct {
	Players []FeedTeamPlayers `json:"players"`
}

// FeedTeamPlayers holds one team's stat categories.
type FeedTeamPlayers struct {
	Team       FeedTeam           `json:"team"`
	HomeAway   string             `json:"homeAway"`
	Statistics []FeedStatCategory `json:"statistics"`
}

// FeedTeam identifies a team inside the feed.
type FeedTeam struct {
	Abbreviation string `json:"abbreviation"`
}

// FeedStatCategory is one labeled stat group ("passing", "kicking", ...).
// Stats line up positionally with Labels; Totals is the team aggregate row.
type FeedStatCategory struct {
	Name     string            `json:"name"`
	Labels   []string          `json:"labels"`
	Athletes []FeedAthleteLine `json:"athletes"`
	Totals   []string          `json:"totals"`
}

// FeedAthleteLine is one player's row within a category.
type FeedAthleteLine struct {
	Athlete FeedAthlete `json:"athlete"`
	Stats   []string    `json:"stats"`
}

// FeedAthlete identifies a player inside the feed.
type FeedAthlete struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// FeedDrives wraps the drive list.
type FeedDrives struct {
	Previous []FeedDrive `json:"previous"`
}

// FeedDrive is one possession record.
type FeedDrive struct {
	Team   FeedTeam   `json:"team"`
	Result string     `json:"result"`
	Plays  []FeedPlay `json:"plays"`
}

// FeedPlay is one play record with free text and team attribution.
type FeedPlay struct {
	Text string   `json:"text"`
	Team FeedTeam `json:"team"`
}

func (f *Feed) drives() []Drive {
	drives := make([]Drive, 0, len(f.Drives.Previous))
	for _, fd := range f.Drives.Previous {
		d := Drive{
			Team:   strings.ToUpper(fd.Team.Abbreviation),
			Result: strings.ToUpper(fd.Result),
		}
		for _, fp := range fd.Plays {
			team := strings.ToUpper(fp.Team.Abbreviation)
			if team == "" {
				team = d.Team
			}
			d.Plays = append(d.Plays, Play{Text: fp.Text, Team: team})
		}
		drives = append(drives, d)
	}
	return drives
}
