package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// GameRepository handles the per-week game schedule and observed statuses.
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository.
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// ByWeek returns the week's games.
func (r *GameRepository) ByWeek(ctx context.Context, week int) ([]*store.GameRecord, error) {
	query := `
		SELECT game_id, week, home_team, away_team, kickoff, status, final_score, updated_at
		FROM week_games
		WHERE week = $1
		ORDER BY kickoff
	`

	rows, err := r.db.DB().QueryContext(ctx, query, week)
	if err != nil {
		return nil, fmt.Errorf("querying week games: %w", err)
	}
	defer rows.Close()

	var games []*store.GameRecord
	for rows.Next() {
		g := &store.GameRecord{}
		if err := rows.Scan(&g.GameID, &g.Week, &g.HomeTeam, &g.AwayTeam,
			&g.Kickoff, &g.Status, &g.FinalScore, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning game record: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game records: %w", err)
	}
	return games, nil
}

// GetStatus returns the persisted status of one game in one week.
// An unseen game reads as "scheduled".
func (r *GameRepository) GetStatus(ctx context.Context, gameID string, week int) (string, error) {
	query := `SELECT status FROM week_games WHERE game_id = $1 AND week = $2`

	var status string
	err := r.db.DB().QueryRowContext(ctx, query, gameID, week).Scan(&status)
	if err == sql.ErrNoRows {
		return "scheduled", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying game status: %w", err)
	}
	return status, nil
}

// UpdateStatus records a game's observed status and, for newly-terminal
// games, the final score string.
func (r *GameRepository) UpdateStatus(ctx context.Context, gameID string, week int, status string, finalScore sql.NullString) error {
	query := `
		UPDATE week_games
		SET status = $3,
			final_score = COALESCE($4, final_score),
			updated_at = NOW()
		WHERE game_id = $1 AND week = $2
	`

	_, err := r.db.DB().ExecContext(ctx, query, gameID, week, status, finalScore)
	if err != nil {
		return fmt.Errorf("updating game status: %w", err)
	}
	return nil
}

// CurrentWeek looks up a league's active week number.
func (r *GameRepository) CurrentWeek(ctx context.Context, leagueID int) (int, error) {
	query := `SELECT current_week FROM leagues WHERE league_id = $1`

	var week int
	err := r.db.DB().QueryRowContext(ctx, query, leagueID).Scan(&week)
	if err != nil {
		return 0, fmt.Errorf("league %d not found: %w", leagueID, err)
	}
	return week, nil
}

// AdvanceWeek bumps a league to the next week during the weekly rollover.
func (r *GameRepository) AdvanceWeek(ctx context.Context, leagueID int) (int, error) {
	query := `
		UPDATE leagues
		SET current_week = current_week + 1, updated_at = NOW()
		WHERE league_id = $1
		RETURNING current_week
	`

	var week int
	err := r.db.DB().QueryRowContext(ctx, query, leagueID).Scan(&week)
	if err != nil {
		return 0, fmt.Errorf("advancing week for league %d: %w", leagueID, err)
	}
	return week, nil
}
