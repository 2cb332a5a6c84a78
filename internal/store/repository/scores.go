package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// ScoreRepository persists per-player weekly point totals.
type ScoreRepository struct {
	db *store.Database
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *store.Database) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Upsert replaces the stored total for one player-week with the freshly
// computed value. Successive passes over an in-progress game therefore
// converge on the document's cumulative state instead of double-counting.
func (r *ScoreRepository) Upsert(ctx context.Context, score *store.PlayerScore) error {
	query := `
		INSERT INTO player_scores (owner_id, player_id, week, points, game_status, final_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (owner_id, player_id, week)
		DO UPDATE SET points = EXCLUDED.points,
			game_status = EXCLUDED.game_status,
			final_score = COALESCE(EXCLUDED.final_score, player_scores.final_score),
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		score.OwnerID, score.PlayerID, score.Week, score.Points,
		score.GameStatus, score.FinalScore,
	)
	if err != nil {
		return fmt.Errorf("upserting player score: %w", err)
	}
	return nil
}

// ByOwner returns an owner's scores for one week keyed by player id.
func (r *ScoreRepository) ByOwner(ctx context.Context, ownerID, week int) (map[string]*store.PlayerScore, error) {
	query := `
		SELECT owner_id, player_id, week, points, game_status, final_score, updated_at
		FROM player_scores
		WHERE owner_id = $1 AND week = $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, ownerID, week)
	if err != nil {
		return nil, fmt.Errorf("querying owner scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]*store.PlayerScore)
	for rows.Next() {
		s := &store.PlayerScore{}
		if err := rows.Scan(&s.OwnerID, &s.PlayerID, &s.Week, &s.Points,
			&s.GameStatus, &s.FinalScore, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning player score: %w", err)
		}
		scores[s.PlayerID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player scores: %w", err)
	}
	return scores, nil
}

// OwnerTotal sums an owner's points for one week.
type OwnerTotal struct {
	OwnerID  int     `json:"owner_id"`
	Owner    string  `json:"owner"`
	TeamName string  `json:"team_name,omitempty"`
	Points   float64 `json:"points"`
}

// LeagueScoreboard returns per-owner weekly totals, highest first.
func (r *ScoreRepository) LeagueScoreboard(ctx context.Context, leagueID, week int) ([]*OwnerTotal, error) {
	query := `
		SELECT o.owner_id, o.name, COALESCE(o.team_name, ''), COALESCE(SUM(ps.points), 0)
		FROM owners o
		LEFT JOIN player_scores ps ON ps.owner_id = o.owner_id AND ps.week = $2
		WHERE o.league_id = $1
		GROUP BY o.owner_id, o.name, o.team_name
		ORDER BY 4 DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("querying scoreboard: %w", err)
	}
	defer rows.Close()

	var totals []*OwnerTotal
	for rows.Next() {
		t := &OwnerTotal{}
		if err := rows.Scan(&t.OwnerID, &t.Owner, &t.TeamName, &t.Points); err != nil {
			return nil, fmt.Errorf("scanning owner total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating owner totals: %w", err)
	}
	return totals, nil
}

// Get returns one persisted score, or sql.ErrNoRows when absent.
func (r *ScoreRepository) Get(ctx context.Context, ownerID int, playerID string, week int) (*store.PlayerScore, error) {
	query := `
		SELECT owner_id, player_id, week, points, game_status, final_score, updated_at
		FROM player_scores
		WHERE owner_id = $1 AND player_id = $2 AND week = $3
	`

	s := &store.PlayerScore{}
	err := r.db.DB().QueryRowContext(ctx, query, ownerID, playerID, week).Scan(
		&s.OwnerID, &s.PlayerID, &s.Week, &s.Points,
		&s.GameStatus, &s.FinalScore, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("querying player score: %w", err)
	}
	return s, nil
}
