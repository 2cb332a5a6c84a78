package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fortuna/gridiron/internal/roster"
	"github.com/fortuna/gridiron/internal/scheduler"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// PassRunner triggers a scoring pass on demand.
type PassRunner interface {
	RunPass(ctx context.Context) (*scheduler.PassSummary, error)
}

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	db      *store.Database
	rosters *repository.RosterRepository
	scores  *repository.ScoreRepository
	games   *repository.GameRepository
	runner  PassRunner
}

// NewHandler creates a new handler. The runner may be nil, disabling the
// manual pass endpoint.
func NewHandler(db *store.Database, runner PassRunner) *Handler {
	return &Handler{
		db:      db,
		rosters: repository.NewRosterRepository(db),
		scores:  repository.NewScoreRepository(db),
		games:   repository.NewGameRepository(db),
		runner:  runner,
	}
}

// HealthCheck handles health check requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "gridiron",
		"version": "1.0.0",
	})
}

// GetScoreboard returns the league's per-owner totals for a week.
func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	leagueID, err := pathInt(r, "leagueID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid league ID", err)
		return
	}

	week, err := h.resolveWeek(r, leagueID)
	if err != nil {
		respondError(w, http.StatusNotFound, "League not found", err)
		return
	}

	totals, err := h.scores.LeagueScoreboard(r.Context(), leagueID, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch scoreboard", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"league_id":  leagueID,
		"week":       week,
		"scoreboard": totals,
	})
}

// GetLeagueGames returns the week's games with their observed statuses.
func (h *Handler) GetLeagueGames(w http.ResponseWriter, r *http.Request) {
	leagueID, err := pathInt(r, "leagueID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid league ID", err)
		return
	}

	week, err := h.resolveWeek(r, leagueID)
	if err != nil {
		respondError(w, http.StatusNotFound, "League not found", err)
		return
	}

	games, err := h.games.ByWeek(r.Context(), week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"week":  week,
		"games": games,
		"count": len(games),
	})
}

// rosterEntry is one displayed roster row: player, slot label, points.
type rosterEntry struct {
	Slot       string  `json:"slot"`
	PlayerID   string  `json:"player_id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Team       string  `json:"team"`
	Opponent   string  `json:"opponent,omitempty"`
	GameStatus string  `json:"game_status,omitempty"`
	Points     float64 `json:"points"`
}

// GetOwnerRoster returns one owner's roster in draft order with display
// slots and current week points.
func (h *Handler) GetOwnerRoster(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathInt(r, "ownerID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid owner ID", err)
		return
	}

	week, err := queryInt(r, "week")
	if err != nil || week < 1 {
		respondError(w, http.StatusBadRequest, "Missing or invalid week", err)
		return
	}

	players, err := h.rosters.ByOwner(r.Context(), ownerID, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch roster", err)
		return
	}

	scores, err := h.scores.ByOwner(r.Context(), ownerID, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch scores", err)
		return
	}

	positions := make([]string, len(players))
	for i, p := range players {
		positions[i] = p.Position
	}
	slots := roster.Label(positions)

	total := 0.0
	entries := make([]rosterEntry, len(players))
	for i, p := range players {
		entry := rosterEntry{
			Slot:     slots[i],
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Position: p.Position,
			Team:     p.Team,
			Opponent: p.Opponent,
		}
		if s, ok := scores[p.PlayerID]; ok {
			entry.Points = s.Points
			entry.GameStatus = s.GameStatus
			total += s.Points
		}
		entries[i] = entry
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"owner_id": ownerID,
		"week":     week,
		"roster":   entries,
		"total":    total,
	})
}

// TriggerPass runs one scoring pass immediately.
func (h *Handler) TriggerPass(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		respondError(w, http.StatusServiceUnavailable, "Scoring passes are disabled", nil)
		return
	}

	summary, err := h.runner.RunPass(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Scoring pass failed", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// resolveWeek uses the week query parameter when present, else the
// league's current week.
func (h *Handler) resolveWeek(r *http.Request, leagueID int) (int, error) {
	if week, err := queryInt(r, "week"); err == nil && week > 0 {
		return week, nil
	}
	return h.games.CurrentWeek(r.Context(), leagueID)
}

func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

func queryInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.URL.Query().Get(name))
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
