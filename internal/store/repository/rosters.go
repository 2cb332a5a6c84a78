package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// RosterRepository handles drafted-roster data access.
type RosterRepository struct {
	db *store.Database
}

// NewRosterRepository creates a new roster repository.
func NewRosterRepository(db *store.Database) *RosterRepository {
	return &RosterRepository{db: db}
}

const rosterColumns = `
	r.roster_id, r.owner_id, o.league_id, r.player_id, r.name, r.position,
	r.team, r.draft_pick,
	COALESCE(g.game_id, ''),
	COALESCE(CASE WHEN g.home_team = r.team THEN g.away_team ELSE g.home_team END, ''),
	COALESCE(g.home_team = r.team, FALSE),
	COALESCE(g.kickoff, TO_TIMESTAMP(0))
`

// ActiveRoster returns every drafted player across the league joined with
// their game assignment for the week, ordered by owner then draft pick.
// Draft-pick order is the labeler's stable iteration order.
func (r *RosterRepository) ActiveRoster(ctx context.Context, leagueID, week int) ([]*store.RosterPlayer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM rosters r
		JOIN owners o ON o.owner_id = r.owner_id
		LEFT JOIN week_games g ON g.week = $2 AND (g.home_team = r.team OR g.away_team = r.team)
		WHERE o.league_id = $1
		ORDER BY r.owner_id, r.draft_pick
	`, rosterColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("querying active roster: %w", err)
	}
	defer rows.Close()

	return scanRosterPlayers(rows)
}

// ByOwner returns one owner's roster in draft-pick order.
func (r *RosterRepository) ByOwner(ctx context.Context, ownerID, week int) ([]*store.RosterPlayer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM rosters r
		JOIN owners o ON o.owner_id = r.owner_id
		LEFT JOIN week_games g ON g.week = $2 AND (g.home_team = r.team OR g.away_team = r.team)
		WHERE r.owner_id = $1
		ORDER BY r.draft_pick
	`, rosterColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, ownerID, week)
	if err != nil {
		return nil, fmt.Errorf("querying owner roster: %w", err)
	}
	defer rows.Close()

	return scanRosterPlayers(rows)
}

func scanRosterPlayers(rows *sql.Rows) ([]*store.RosterPlayer, error) {
	var players []*store.RosterPlayer
	for rows.Next() {
		p := &store.RosterPlayer{}
		if err := rows.Scan(
			&p.RosterID, &p.OwnerID, &p.LeagueID, &p.PlayerID, &p.Name, &p.Position,
			&p.Team, &p.DraftPick, &p.GameID, &p.Opponent, &p.Home, &p.Kickoff,
		); err != nil {
			return nil, fmt.Errorf("scanning roster player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster players: %w", err)
	}
	return players, nil
}
