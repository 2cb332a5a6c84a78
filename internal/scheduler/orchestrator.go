// Package scheduler runs the scoring passes: one bounded-pool task per
// game id, fan-in of the per-game results, then persistence and publish.
package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/fortuna/gridiron/internal/boxscore"
	"github.com/fortuna/gridiron/internal/logger"
	"github.com/fortuna/gridiron/internal/scoring"
	"github.com/fortuna/gridiron/internal/store"
)

// Fetcher retrieves one game's documents.
type Fetcher interface {
	Fetch(ctx context.Context, gameID string) (*boxscore.DocumentPair, error)
}

// RosterSource supplies the league's drafted players with their weekly
// game assignments.
type RosterSource interface {
	ActiveRoster(ctx context.Context, leagueID, week int) ([]*store.RosterPlayer, error)
}

// ScoreSink persists per-player weekly totals. Upsert replaces the stored
// total, so repeated passes over live games never double-count.
type ScoreSink interface {
	Upsert(ctx context.Context, score *store.PlayerScore) error
}

// GameStore persists observed game statuses and the league week pointer.
type GameStore interface {
	GetStatus(ctx context.Context, gameID string, week int) (string, error)
	UpdateStatus(ctx context.Context, gameID string, week int, status string, finalScore sql.NullString) error
	CurrentWeek(ctx context.Context, leagueID int) (int, error)
	AdvanceWeek(ctx context.Context, leagueID int) (int, error)
}

// StatusMemo is the fast path for terminal-status checks. A cold memo
// falls back to GameStore.
type StatusMemo interface {
	GameStatus(ctx context.Context, gameID string) (string, error)
	SetGameStatus(ctx context.Context, gameID, status string) error
	ClearGameStatuses(ctx context.Context) error
}

// Publisher pushes pass results to downstream consumers.
type Publisher interface {
	PublishScoreUpdate(ctx context.Context, update interface{}) error
	PublishFinalGame(ctx context.Context, game interface{}) error
}

// Broadcaster fans score updates out to connected websocket clients.
type Broadcaster interface {
	BroadcastScores(update interface{})
}

// Config holds orchestrator settings.
type Config struct {
	LeagueID          int
	PollInterval      time.Duration
	Workers           int
	EnableLivePolling bool
	RolloverSchedule  string // cron spec in the reference timezone
	Location          *time.Location
}

// DefaultConfig returns orchestrator defaults.
func DefaultConfig() *Config {
	return &Config{
		LeagueID:          1,
		PollInterval:      60 * time.Second,
		Workers:           4,
		EnableLivePolling: true,
		RolloverSchedule:  "0 5 * * 2",
		Location:          time.UTC,
	}
}

// Orchestrator drives the scoring loop for one league.
type Orchestrator struct {
	fetcher     Fetcher
	rosters     RosterSource
	scores      ScoreSink
	games       GameStore
	memo        StatusMemo
	publisher   Publisher
	broadcaster Broadcaster
	config      *Config

	cron   *cron.Cron
	cancel context.CancelFunc

	// now is swapped in tests
	now func() time.Time
}

// New creates an orchestrator. Publisher and broadcaster may be nil.
func New(fetcher Fetcher, rosters RosterSource, scores ScoreSink, games GameStore,
	memo StatusMemo, pub Publisher, bc Broadcaster, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &Orchestrator{
		fetcher:     fetcher,
		rosters:     rosters,
		scores:      scores,
		games:       games,
		memo:        memo,
		publisher:   pub,
		broadcaster: bc,
		config:      config,
		now:         time.Now,
	}
}

// PassSummary reports what one scoring pass did.
type PassSummary struct {
	Week          int    `json:"week"`
	Games         int    `json:"games"`
	Parsed        int    `json:"parsed"`
	SkippedIdle   int    `json:"skipped_idle"`
	SkippedFinal  int    `json:"skipped_final"`
	Failed        int    `json:"failed"`
	PlayersScored int    `json:"players_scored"`
	Elapsed       string `json:"elapsed"`
}

// ScoreUpdate is the payload published after a pass touches a live game.
type ScoreUpdate struct {
	GameID        string   `json:"game_id"`
	Week          int      `json:"week"`
	Status        string   `json:"status"`
	CurrentScore  string   `json:"current_score,omitempty"`
	TimeRemaining string   `json:"time_remaining,omitempty"`
	Players       []Scored `json:"players"`
}

// Scored is one player's fresh total inside a ScoreUpdate.
type Scored struct {
	OwnerID  int     `json:"owner_id"`
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Points   float64 `json:"points"`
}

// gameResult is one worker's fan-in record.
type gameResult struct {
	gameID        string
	status        boxscore.Status
	priorStatus   boxscore.Status
	currentScore  string
	timeRemaining string
	scores        []*store.PlayerScore
	update        *ScoreUpdate
	err           error
}

// RunPass executes one full scoring pass over the league's current week.
// Each distinct game id is fetched and parsed by exactly one pool task;
// a failing game is logged and skipped without affecting the others.
func (o *Orchestrator) RunPass(ctx context.Context) (*PassSummary, error) {
	start := o.now()

	week, err := o.games.CurrentWeek(ctx, o.config.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("resolving current week: %w", err)
	}

	roster, err := o.rosters.ActiveRoster(ctx, o.config.LeagueID, week)
	if err != nil {
		return nil, fmt.Errorf("loading active roster: %w", err)
	}

	byGame := groupByGame(roster)
	summary := &PassSummary{Week: week, Games: len(byGame)}

	results := make(chan gameResult, len(byGame))
	sem := make(chan struct{}, o.config.Workers)
	var wg sync.WaitGroup

	for gameID, players := range byGame {
		if gameID == "" {
			// Bye week: no game assignment, the players contribute zero.
			summary.PlayersScored += o.persistZeros(ctx, players, week, "bye")
			summary.Games--
			continue
		}

		prior := o.priorStatus(ctx, gameID, week)
		switch boxscore.Classify(players[0].Kickoff, o.now(), prior) {
		case boxscore.SkipTerminal:
			summary.SkippedFinal++
			continue
		case boxscore.SkipNotStarted:
			summary.SkippedIdle++
			summary.PlayersScored += o.persistZeros(ctx, players, week, boxscore.NotStarted.String())
			continue
		}

		wg.Add(1)
		go func(gameID string, players []*store.RosterPlayer, prior boxscore.Status) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- o.scoreGame(ctx, gameID, week, players, prior)
		}(gameID, players, prior)
	}

	wg.Wait()
	close(results)

	// Fan-in: persistence and publishing happen only after every game task
	// has finished or failed.
	for res := range results {
		if res.err != nil {
			summary.Failed++
			logger.WithGame(res.gameID).WithError(res.err).Warn("scoring pass skipped game")
			continue
		}
		summary.Parsed++
		summary.PlayersScored += o.persistGame(ctx, res, week)
		o.publishGame(ctx, res)
	}

	summary.Elapsed = o.now().Sub(start).Round(time.Millisecond).String()
	logger.Get().WithFields(logrus.Fields{
		"week":    summary.Week,
		"games":   summary.Games,
		"parsed":  summary.Parsed,
		"failed":  summary.Failed,
		"players": summary.PlayersScored,
		"elapsed": summary.Elapsed,
	}).Info("scoring pass complete")
	return summary, nil
}

// scoreGame fetches one game's documents and computes every rostered
// player's fresh total from them.
func (o *Orchestrator) scoreGame(ctx context.Context, gameID string, week int, players []*store.RosterPlayer, prior boxscore.Status) gameResult {
	res := gameResult{gameID: gameID, priorStatus: prior}

	pair, err := o.fetcher.Fetch(ctx, gameID)
	if err != nil {
		res.err = err
		return res
	}

	res.status = pair.Status()
	if res.status == boxscore.NotStarted {
		// Kickoff passed but the provider still shows pregame.
		for _, p := range players {
			res.scores = append(res.scores, zeroScore(p, week, res.status.String()))
		}
		return res
	}

	res.currentScore = pair.CurrentScore()
	if res.status == boxscore.InProgress {
		res.timeRemaining = pair.TimeRemaining()
	}

	extractor := boxscore.NewExtractor(pair)
	update := &ScoreUpdate{
		GameID:        gameID,
		Week:          week,
		Status:        res.status.String(),
		CurrentScore:  res.currentScore,
		TimeRemaining: res.timeRemaining,
	}

	for _, p := range players {
		id := boxscore.Identity{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Position: p.Position,
			Team:     p.Team,
			Opponent: p.Opponent,
			Home:     p.Home,
		}
		line, err := extractor.Extract(pair, id)
		if err != nil {
			if errors.Is(err, boxscore.ErrIdentityNotFound) {
				// Keep the prior stored total for this player.
				logger.WithPlayer(p.PlayerID, p.Name).WithField("game_id", gameID).
					Debug("player not present in game documents")
				continue
			}
			res.err = fmt.Errorf("extracting %s: %w", p.Name, err)
			return res
		}

		points := scoring.Points(p.Position, line)
		score := &store.PlayerScore{
			OwnerID:    p.OwnerID,
			PlayerID:   p.PlayerID,
			Week:       week,
			Points:     points,
			GameStatus: res.status.String(),
		}
		if res.status.Terminal() {
			score.FinalScore = sql.NullString{String: res.currentScore, Valid: true}
		}
		res.scores = append(res.scores, score)
		update.Players = append(update.Players, Scored{
			OwnerID:  p.OwnerID,
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Position: p.Position,
			Points:   points,
		})
	}

	res.update = update
	return res
}

// persistGame writes one game's scores and status records.
func (o *Orchestrator) persistGame(ctx context.Context, res gameResult, week int) int {
	written := 0
	for _, score := range res.scores {
		if err := o.scores.Upsert(ctx, score); err != nil {
			logger.WithPlayer(score.PlayerID, "").WithError(err).Warn("failed to persist score")
			continue
		}
		written++
	}

	var finalScore sql.NullString
	if res.status.Terminal() && res.currentScore != "" {
		finalScore = sql.NullString{String: res.currentScore, Valid: true}
	}
	if err := o.games.UpdateStatus(ctx, res.gameID, week, res.status.String(), finalScore); err != nil {
		logger.WithGame(res.gameID).WithError(err).Warn("failed to persist game status")
	}
	if err := o.memo.SetGameStatus(ctx, res.gameID, res.status.String()); err != nil {
		logger.WithGame(res.gameID).WithError(err).Warn("failed to memoize game status")
	}
	return written
}

// publishGame pushes one game's update to the stream and the websocket hub.
func (o *Orchestrator) publishGame(ctx context.Context, res gameResult) {
	if res.update == nil {
		return
	}
	if o.broadcaster != nil {
		o.broadcaster.BroadcastScores(res.update)
	}
	if o.publisher == nil {
		return
	}

	var err error
	if res.status.Terminal() && !res.priorStatus.Terminal() {
		err = o.publisher.PublishFinalGame(ctx, res.update)
	} else if res.status == boxscore.InProgress {
		err = o.publisher.PublishScoreUpdate(ctx, res.update)
	}
	if err != nil {
		logger.WithGame(res.gameID).WithError(err).Warn("failed to publish score update")
	}
}

// persistZeros writes zero totals for players whose game has no parseable
// documents this pass.
func (o *Orchestrator) persistZeros(ctx context.Context, players []*store.RosterPlayer, week int, status string) int {
	written := 0
	for _, p := range players {
		if err := o.scores.Upsert(ctx, zeroScore(p, week, status)); err != nil {
			logger.WithPlayer(p.PlayerID, p.Name).WithError(err).Warn("failed to persist zero score")
			continue
		}
		written++
	}
	return written
}

func zeroScore(p *store.RosterPlayer, week int, status string) *store.PlayerScore {
	return &store.PlayerScore{
		OwnerID:    p.OwnerID,
		PlayerID:   p.PlayerID,
		Week:       week,
		Points:     0,
		GameStatus: status,
	}
}

// priorStatus resolves a game's last observed status, memo first then the
// store. An unseen game reads as scheduled.
func (o *Orchestrator) priorStatus(ctx context.Context, gameID string, week int) boxscore.Status {
	if o.memo != nil {
		if cached, err := o.memo.GameStatus(ctx, gameID); err == nil && cached != "" {
			return boxscore.ParseStatus(cached)
		}
	}
	stored, err := o.games.GetStatus(ctx, gameID, week)
	if err != nil {
		logger.WithGame(gameID).WithError(err).Debug("status lookup failed, assuming scheduled")
		return boxscore.NotStarted
	}
	return boxscore.ParseStatus(stored)
}

// groupByGame buckets the roster so each distinct game id gets exactly one
// fetch and parse per pass.
func groupByGame(roster []*store.RosterPlayer) map[string][]*store.RosterPlayer {
	byGame := make(map[string][]*store.RosterPlayer)
	for _, p := range roster {
		byGame[p.GameID] = append(byGame[p.GameID], p)
	}
	return byGame
}

// Start runs the polling loop and the weekly rollover until the context is
// canceled.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	logger.Get().WithFields(logrus.Fields{
		"league_id":     o.config.LeagueID,
		"poll_interval": o.config.PollInterval.String(),
		"workers":       o.config.Workers,
		"rollover":      o.config.RolloverSchedule,
	}).Info("scoring orchestrator starting")

	o.cron = cron.New(cron.WithLocation(o.config.Location))
	if _, err := o.cron.AddFunc(o.config.RolloverSchedule, func() {
		o.runRollover(ctx)
	}); err != nil {
		logger.Get().WithError(err).Error("invalid rollover schedule, weekly rollover disabled")
	} else {
		o.cron.Start()
	}

	if o.config.EnableLivePolling {
		go o.runPolling(ctx)
	}

	<-ctx.Done()
	logger.Get().Info("scoring orchestrator stopping")
}

// runPolling executes scoring passes on the poll interval, backing off
// after repeated failures.
func (o *Orchestrator) runPolling(ctx context.Context) {
	ticker := time.NewTicker(o.config.PollInterval)
	defer ticker.Stop()

	consecutiveErrors := 0
	const maxConsecutiveErrors = 5

	o.runPassLogged(ctx, &consecutiveErrors, maxConsecutiveErrors)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.runPassLogged(ctx, &consecutiveErrors, maxConsecutiveErrors)
		}
	}
}

func (o *Orchestrator) runPassLogged(ctx context.Context, consecutiveErrors *int, maxConsecutiveErrors int) {
	if _, err := o.RunPass(ctx); err != nil {
		*consecutiveErrors++
		logger.Get().WithError(err).WithField("consecutive", *consecutiveErrors).Warn("scoring pass failed")
		if *consecutiveErrors >= maxConsecutiveErrors {
			logger.Get().Warn("high error rate, pausing before next pass")
			select {
			case <-ctx.Done():
			case <-time.After(o.config.PollInterval):
			}
		}
		return
	}
	*consecutiveErrors = 0
}

// runRollover advances the league to the next week and drops the status
// memos so the new week's games start fresh.
func (o *Orchestrator) runRollover(ctx context.Context) {
	week, err := o.games.AdvanceWeek(ctx, o.config.LeagueID)
	if err != nil {
		logger.Get().WithError(err).Error("weekly rollover failed")
		return
	}
	if o.memo != nil {
		if err := o.memo.ClearGameStatuses(ctx); err != nil {
			logger.Get().WithError(err).Warn("failed to clear status memos during rollover")
		}
	}
	logger.Get().WithField("week", week).Info("weekly rollover complete")
}

// Stop gracefully stops the orchestrator.
func (o *Orchestrator) Stop() {
	if o.cron != nil {
		o.cron.Stop()
	}
	if o.cancel != nil {
		o.cancel()
	}
}
