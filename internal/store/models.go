package store

import (
	"database/sql"
	"time"
)

// League is one fantasy league instance.
type League struct {
	LeagueID    int       `json:"league_id" db:"league_id"`
	Name        string    `json:"name" db:"name"`
	Season      int       `json:"season" db:"season"`
	CurrentWeek int       `json:"current_week" db:"current_week"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Owner is one fantasy team owner inside a league.
type Owner struct {
	OwnerID   int            `json:"owner_id" db:"owner_id"`
	LeagueID  int            `json:"league_id" db:"league_id"`
	Name      string         `json:"name" db:"name"`
	TeamName  sql.NullString `json:"team_name,omitempty" db:"team_name"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// RosterPlayer is one drafted player on an owner's roster, joined with the
// week's game assignment. DraftPick provides the stable iteration order the
// slot labeler requires.
type RosterPlayer struct {
	RosterID  int    `json:"roster_id" db:"roster_id"`
	OwnerID   int    `json:"owner_id" db:"owner_id"`
	LeagueID  int    `json:"league_id" db:"league_id"`
	PlayerID  string `json:"player_id" db:"player_id"` // external id or DEF sentinel
	Name      string `json:"name" db:"name"`
	Position  string `json:"position" db:"position"`
	Team      string `json:"team" db:"team"`
	DraftPick int    `json:"draft_pick" db:"draft_pick"`

	// Week-specific game assignment
	GameID   string    `json:"game_id" db:"game_id"`
	Opponent string    `json:"opponent" db:"opponent"`
	Home     bool      `json:"home" db:"home"`
	Kickoff  time.Time `json:"kickoff" db:"kickoff"`

	// Display slot assigned by the labeler; not persisted.
	Slot string `json:"slot,omitempty" db:"-"`
}

// PlayerScore is the persisted point total for one rostered player in one
// week. Each pass replaces the total with the freshly computed value for
// the current document state; there is no additive accumulation here.
type PlayerScore struct {
	OwnerID    int            `json:"owner_id" db:"owner_id"`
	PlayerID   string         `json:"player_id" db:"player_id"`
	Week       int            `json:"week" db:"week"`
	Points     float64        `json:"points" db:"points"`
	GameStatus string         `json:"game_status" db:"game_status"`
	FinalScore sql.NullString `json:"final_score,omitempty" db:"final_score"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// GameRecord is the observed state of one external game in one week. It
// backs the terminal-status memo when the cache is cold.
type GameRecord struct {
	GameID     string         `json:"game_id" db:"game_id"`
	Week       int            `json:"week" db:"week"`
	HomeTeam   string         `json:"home_team" db:"home_team"`
	AwayTeam   string         `json:"away_team" db:"away_team"`
	Kickoff    time.Time      `json:"kickoff" db:"kickoff"`
	Status     string         `json:"status" db:"status"`
	FinalScore sql.NullString `json:"final_score,omitempty" db:"final_score"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}
