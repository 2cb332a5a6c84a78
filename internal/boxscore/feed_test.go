package boxscore

import (
	"encoding/json"
	"reflect"
	"testing"
)

const feedFixture = `{
	"status": {"state": "in", "name": "STATUS_IN_PROGRESS", "period": 3, "displayClock": "8:52"},
	"boxscore": {
		"players": [
			{
				"team": {"abbreviation": "BUF"},
				"homeAway": "home",
				"statistics": [
					{
						"name": "passing",
						"labels": ["C/ATT", "YDS", "AVG", "TD", "INT"],
						"athletes": [
							{"athlete": {"id": "3918298", "displayName": "Josh Allen"}, "stats": ["24/35", "300", "8.6", "3", "1"]}
						],
						"totals": ["24/35", "300", "8.6", "3", "1"]
					},
					{
						"name": "rushing",
						"labels": ["CAR", "YDS", "AVG", "TD", "LONG"],
						"athletes": [
							{"athlete": {"id": "3918298", "displayName": "Josh Allen"}, "stats": ["6", "41", "6.8", "0", "14"]},
							{"athlete": {"id": "4379399", "displayName": "James Cook"}, "stats": ["18", "87", "4.8", "2", "22"]}
						],
						"totals": ["24", "128", "5.3", "2", "22"]
					},
					{
						"name": "kicking",
						"labels": ["FG", "PCT", "LONG", "XP", "PTS"],
						"athletes": [
							{"athlete": {"id": "4040655", "displayName": "Tyler Bass"}, "stats": ["1/1", "100.0", "52", "2/2", "5"]}
						],
						"totals": ["1/1", "100.0", "52", "2/2", "5"]
					},
					{
						"name": "defensive",
						"labels": ["TOT", "SOLO", "SACKS", "TFL", "TD"],
						"athletes": [],
						"totals": ["58", "40", "3", "5", "0"]
					},
					{
						"name": "interceptions",
						"labels": ["INT", "YDS", "TD"],
						"athletes": [],
						"totals": ["1", "22", "0"]
					}
				]
			},
			{
				"team": {"abbreviation": "NYJ"},
				"homeAway": "away",
				"statistics": [
					{
						"name": "kicking",
						"labels": ["FG", "PCT", "LONG", "XP", "PTS"],
						"athletes": [
							{"athlete": {"id": "2473037", "displayName": "Greg Zuerlein"}, "stats": ["2/2", "100.0", "44", "1/1", "7"]}
						],
						"totals": ["2/2", "100.0", "44", "1/1", "7"]
					}
				]
			}
		]
	},
	"drives": {
		"previous": [
			{"team": {"abbreviation": "NYJ"}, "result": "TD", "plays": [
				{"text": "Breece Hall 12 Yd Run, TOUCHDOWN", "team": {"abbreviation": "NYJ"}}
			]},
			{"team": {"abbreviation": "NYJ"}, "result": "FG", "plays": [
				{"text": "Greg Zuerlein 44 Yd Field Goal", "team": {"abbreviation": "NYJ"}}
			]},
			{"team": {"abbreviation": "NYJ"}, "result": "INT TD", "plays": [
				{"text": "Aaron Rodgers pass INTERCEPTED, returned for TOUCHDOWN", "team": {"abbreviation": "NYJ"}}
			]},
			{"team": {"abbreviation": "BUF"}, "result": "TD", "plays": [
				{"text": "James Cook 4 Yd Run, TOUCHDOWN", "team": {"abbreviation": "BUF"}},
				{"text": "Josh Allen pass to Dawson Knox for the two-point conversion", "team": {"abbreviation": "BUF"}}
			]}
		]
	}
}`

func feedPair(t *testing.T) *DocumentPair {
	t.Helper()
	var feed Feed
	if err := json.Unmarshal([]byte(feedFixture), &feed); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return &DocumentPair{GameID: "401547602", Feed: &feed, HomeTeam: "BUF", AwayTeam: "NYJ"}
}

func TestNewExtractorSelectsByFeedAvailability(t *testing.T) {
	withFeed := feedPair(t)
	if _, ok := NewExtractor(withFeed).(feedExtractor); !ok {
		t.Errorf("pair with feed selected %T, want feedExtractor", NewExtractor(withFeed))
	}

	withoutFeed := &DocumentPair{GameID: "401547602"}
	if _, ok := NewExtractor(withoutFeed).(treeExtractor); !ok {
		t.Errorf("pair without feed selected %T, want treeExtractor", NewExtractor(withoutFeed))
	}
}

func TestFeedExtractQuarterback(t *testing.T) {
	pair := feedPair(t)
	line, err := NewExtractor(pair).Extract(pair, Identity{
		PlayerID: "3918298", Name: "Josh Allen", Position: "QB",
		Team: "BUF", Opponent: "NYJ", Home: true,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if line.PassYards != 300 || line.PassTDs != 3 || line.PassInts != 1 {
		t.Errorf("passing = %d/%d/%d, want 300/3/1", line.PassYards, line.PassTDs, line.PassInts)
	}
	if line.RushYards != 41 || line.RushTDs != 0 {
		t.Errorf("rushing = %d yds %d td, want 41/0", line.RushYards, line.RushTDs)
	}
	if line.TwoPointConversions != 1 {
		t.Errorf("two-point conversions = %d, want 1", line.TwoPointConversions)
	}
}

func TestFeedExtractKicker(t *testing.T) {
	pair := feedPair(t)
	line, err := NewExtractor(pair).Extract(pair, Identity{
		PlayerID: "2473037", Name: "Greg Zuerlein", Position: "K",
		Team: "NYJ", Opponent: "BUF", Home: false,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if line.ExtraPointsMade != 1 {
		t.Errorf("extra points = %d, want 1", line.ExtraPointsMade)
	}
	if !reflect.DeepEqual(line.FieldGoalDistances, []int{44}) {
		t.Errorf("field goal distances = %v, want [44]", line.FieldGoalDistances)
	}
}

func TestFeedExtractTeamDefense(t *testing.T) {
	pair := feedPair(t)
	line, err := NewExtractor(pair).Extract(pair, Identity{
		PlayerID: TeamDefenseID, Name: "Bills D/ST", Position: "DEF",
		Team: "BUF", Opponent: "NYJ", Home: true,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if line.Sacks != 3 {
		t.Errorf("sacks = %d, want 3", line.Sacks)
	}
	if line.Interceptions != 1 {
		t.Errorf("interceptions = %d, want 1", line.Interceptions)
	}
	// The NYJ INT TD drive belongs to the BUF defense.
	if line.DefensiveTDs != 1 {
		t.Errorf("defensive TDs = %d, want 1", line.DefensiveTDs)
	}
	// NYJ offense: 1 TD (6) + 7 kicking points. The INT TD is excluded.
	if line.PointsAllowed != 13 {
		t.Errorf("points allowed = %d, want 13", line.PointsAllowed)
	}
}

func TestFeedExtractIdentityNotFound(t *testing.T) {
	pair := feedPair(t)
	_, err := NewExtractor(pair).Extract(pair, Identity{
		PlayerID: "999999", Name: "Nobody Jones", Position: "WR",
		Team: "BUF", Opponent: "NYJ", Home: true,
	})
	if err != ErrIdentityNotFound {
		t.Errorf("Extract(absent player) error = %v, want ErrIdentityNotFound", err)
	}
}

func TestFeedExtractMissingCategoriesAreZero(t *testing.T) {
	// NYJ side only renders kicking, so a Jets skill player reads zeros
	// rather than erroring only when present in at least one category.
	pair := feedPair(t)
	line, err := NewExtractor(pair).Extract(pair, Identity{
		PlayerID: "2473037", Name: "Greg Zuerlein", Position: "K",
		Team: "NYJ", Opponent: "BUF", Home: false,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if line.PassYards != 0 || line.RushYards != 0 || line.RecYards != 0 {
		t.Errorf("absent categories produced nonzero stats: %+v", line)
	}
}

func TestFeedStatusFromPair(t *testing.T) {
	pair := feedPair(t)
	if got := pair.Status(); got != InProgress {
		t.Errorf("Status() = %v, want InProgress", got)
	}
}
