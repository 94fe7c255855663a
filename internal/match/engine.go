// Package match owns the game lifecycle: the lobby sequence, the round
// loop, and every player-facing mutation. The Engine is the sole writer of
// the game state; all operations serialize on one mutex and every
// externally observable change ends with a full-state broadcast.
package match

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/catalog"
	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/market"
	"github.com/bullvbear/match-engine/internal/metrics"
	"github.com/bullvbear/match-engine/internal/model"
	"github.com/bullvbear/match-engine/internal/portfolio"
	"github.com/bullvbear/match-engine/internal/results"
	"github.com/bullvbear/match-engine/internal/sentiment"
	"github.com/bullvbear/match-engine/internal/trading"
)

// Broadcaster fans engine output out to connected clients. BroadcastState
// is called with the engine lock held, so implementations must serialize
// the state synchronously and queue the bytes without blocking.
type Broadcaster interface {
	BroadcastState(*model.GameState)
	BroadcastResults([]model.MatchResult)
}

// Engine drives one match at a time.
type Engine struct {
	mu    sync.Mutex
	cfg   *config.Config
	state *model.GameState

	sim     *market.Simulator
	moods   *sentiment.Ledger
	book    *portfolio.Ledger
	desk    *trading.Desk
	scorer  *results.Generator
	rng     *rand.Rand
	logger  *slog.Logger
	broad   Broadcaster
	sched   scheduler

	// timerGen invalidates in-flight ticks: a tick whose generation no
	// longer matches is from a stopped phase and is dropped.
	timerGen uint64

	stepIdx         int
	roundTick       int
	preMatchStarted bool

	// connected tracks which players currently have a live session, keyed
	// by display name. Disconnected players stay in the roster but do not
	// count toward all-ready checks.
	connected map[string]bool
}

// NewEngine wires the engine from the configuration. The rand.Rand is
// injected so tests run deterministically.
func NewEngine(cfg *config.Config, broad Broadcaster, scorer *results.Generator, rng *rand.Rand, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		state:     catalog.NewGameState(cfg),
		sim:       market.NewSimulator(cfg, rng),
		moods:     sentiment.NewLedger(cfg, rng),
		book:      portfolio.NewLedger(cfg),
		desk:      trading.NewDesk(cfg),
		scorer:    scorer,
		rng:       rng,
		logger:    logger,
		broad:     broad,
		connected: make(map[string]bool),
	}
}

// PublishState broadcasts the current state unconditionally. Used at
// startup so newly connecting clients have a snapshot to replay.
func (e *Engine) PublishState() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.broadcastLocked()
}

// Join adds a player, or rebinds an existing player with the same display
// name to the new session. Rebinding is the reconnection path: the display
// name is the stable identity, the session id is transient.
func (e *Engine) Join(sessionID, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if existing := e.state.PlayerByName(name); existing != nil {
		e.logger.Info("player reconnected", "player", name)
		existing.ID = sessionID
	} else {
		e.state.Players = append(e.state.Players, catalog.NewPlayer(e.cfg, sessionID, name))
		e.logger.Info("player joined", "player", name, "players", len(e.state.Players))
	}
	e.connected[name] = true
	metrics.ActivePlayers.Set(float64(len(e.state.Players)))

	if e.state.Phase == model.PhasePreMatch && !e.preMatchStarted {
		e.startPreMatchLocked()
		return
	}
	e.broadcastLocked()
}

// Leave records a disconnect. The player record survives so the same
// display name can reclaim it; the gateway resets the match separately
// once the last client is gone. A departure can complete an all-ready
// check the leaver was holding up.
func (e *Engine) Leave(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.state.PlayerByID(sessionID)
	if p == nil {
		return
	}
	e.connected[p.Name] = false
	e.logger.Info("player disconnected", "player", p.Name)

	if e.state.Phase == model.PhasePreMatch && e.preMatchStarted {
		e.advanceIfAllReadyLocked()
	}
}

// StartPreMatch kicks off the lobby sequence if it is not already running.
func (e *Engine) StartPreMatch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != model.PhasePreMatch || e.preMatchStarted {
		return
	}
	e.startPreMatchLocked()
}

func (e *Engine) startPreMatchLocked() {
	e.preMatchStarted = true
	e.enterStepLocked(0)
}

// SelectAvatar records a player's avatar pick during avatar selection.
func (e *Engine) SelectAvatar(sessionID, avatarID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != model.PhasePreMatch || e.state.SubPhase != model.SubPhaseAvatarSelection {
		return
	}
	if !catalog.AvatarExists(avatarID) {
		return
	}
	p := e.state.PlayerByID(sessionID)
	if p == nil {
		return
	}
	p.AvatarID = avatarID
	e.advanceIfAllReadyLocked()
	e.broadcastLocked()
}

// SelectStrategy records a player's strategy pick during strategy
// selection.
func (e *Engine) SelectStrategy(sessionID, strategyID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != model.PhasePreMatch || e.state.SubPhase != model.SubPhaseStrategySelection {
		return
	}
	if !catalog.StrategyExists(strategyID) {
		return
	}
	p := e.state.PlayerByID(sessionID)
	if p == nil {
		return
	}
	p.StrategyID = strategyID
	e.advanceIfAllReadyLocked()
	e.broadcastLocked()
}

// Buy places a buy order for the session's player.
func (e *Engine) Buy(sessionID, assetID string, quantity float64) trading.Result {
	return e.trade(model.SideBuy, sessionID, assetID, quantity)
}

// Sell places a sell order for the session's player.
func (e *Engine) Sell(sessionID, assetID string, quantity float64) trading.Result {
	return e.trade(model.SideSell, sessionID, assetID, quantity)
}

func (e *Engine) trade(side model.TradeSide, sessionID, assetID string, quantity float64) trading.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	qty := decimal.NewFromFloat(quantity)
	open := e.tradingOpenLocked()

	var res trading.Result
	if side == model.SideBuy {
		res = e.desk.Buy(e.state, sessionID, assetID, qty, open)
	} else {
		res = e.desk.Sell(e.state, sessionID, assetID, qty, open)
	}

	if res != trading.Executed {
		metrics.TradeRejections.WithLabelValues(res.String()).Inc()
		e.logger.Debug("order rejected",
			"side", side, "asset", assetID, "reason", res.String())
		return res
	}

	metrics.TradesTotal.WithLabelValues(string(side)).Inc()
	e.book.Revalue(e.state)
	e.book.ScoreRisk(e.state)
	e.broadcastLocked()
	return res
}

// tradingOpenLocked reports whether orders execute right now: a round is
// running and its news window has elapsed.
func (e *Engine) tradingOpenLocked() bool {
	return e.state.Phase == model.PhasePlaying &&
		e.roundTick >= e.cfg.Match.NewsWindowSeconds
}

// UsePowerUp consumes one use of the named power-up and applies its
// effect. Unknown ids and exhausted power-ups are silent no-ops.
func (e *Engine) UsePowerUp(sessionID, powerUpID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != model.PhasePlaying {
		return
	}
	p := e.state.PlayerByID(sessionID)
	if p == nil {
		return
	}
	pu := p.PowerUp(powerUpID)
	if pu == nil || pu.UsesLeft <= 0 {
		return
	}

	switch powerUpID {
	case model.PowerUpRiskShield:
		p.RiskScore -= e.cfg.Match.RiskShieldReduction
		if p.RiskScore < 0 {
			p.RiskScore = 0
		}
	case model.PowerUpBailout:
		p.Cash = p.Cash.Add(decimal.NewFromFloat(e.cfg.Match.BailoutCash))
		e.book.Revalue(e.state)
	default:
		return
	}

	pu.UsesLeft--
	e.logger.Info("power-up used", "player", p.Name, "powerUp", powerUpID)
	e.broadcastLocked()
}

// PlayAgain rebuilds the match with the same roster and restarts the lobby
// sequence. Only valid once the current match has finished.
func (e *Engine) PlayAgain() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != model.PhaseFinished {
		return
	}
	e.resetLocked(true)
	e.startPreMatchLocked()
}

// Reset tears the match down to a fresh lobby. With preservePlayers the
// roster carries over with starting resources; without it the lobby is
// empty.
func (e *Engine) Reset(preservePlayers bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked(preservePlayers)
	e.broadcastLocked()
}

func (e *Engine) resetLocked(preservePlayers bool) {
	e.stopTimerLocked()

	old := e.state.Players
	e.state = catalog.NewGameState(e.cfg)
	e.sim.Reset()
	e.stepIdx = 0
	e.roundTick = 0
	e.preMatchStarted = false

	if preservePlayers {
		for _, p := range old {
			e.state.Players = append(e.state.Players, catalog.NewPlayer(e.cfg, p.ID, p.Name))
		}
	} else {
		e.connected = make(map[string]bool)
	}
	metrics.ActivePlayers.Set(float64(len(e.state.Players)))
	e.logger.Info("match reset", "players", len(e.state.Players))
}

// --- lobby sequence ---

func (e *Engine) enterStepLocked(i int) {
	steps := e.preMatchSteps()
	if i >= len(steps) {
		e.startMatchLocked()
		return
	}

	step := steps[i]
	e.stepIdx = i
	e.state.SubPhase = step.sub
	e.state.TimeRemaining = step.duration
	if step.onEnter != nil {
		step.onEnter(e)
	}
	e.logger.Info("pre-match stage", "stage", step.sub, "seconds", step.duration)
	e.broadcastLocked()
	e.startTimerLocked(e.preMatchTickLocked)
}

func (e *Engine) preMatchTickLocked() {
	e.state.TimeRemaining--
	if e.state.TimeRemaining <= 0 {
		e.advanceStepLocked()
		return
	}
	e.broadcastLocked()
}

func (e *Engine) advanceStepLocked() {
	e.stopTimerLocked()
	e.enterStepLocked(e.stepIdx + 1)
}

func (e *Engine) advanceIfAllReadyLocked() {
	steps := e.preMatchSteps()
	step := steps[e.stepIdx]
	if step.allReady != nil && step.allReady(e) {
		e.advanceStepLocked()
	}
}

func (e *Engine) drawScenarioLocked() {
	e.state.ActiveScenario = catalog.RandomScenario(e.rng)
	e.logger.Info("scenario drawn", "scenario", e.state.ActiveScenario.ID)
}

// --- round loop ---

func (e *Engine) startMatchLocked() {
	// Players who never picked get the catalog defaults.
	for _, p := range e.state.Players {
		if p.AvatarID == "" {
			p.AvatarID = catalog.Avatars[0].ID
		}
		if p.StrategyID == "" {
			p.StrategyID = catalog.Strategies[0].ID
		}
	}

	e.state.Phase = model.PhasePlaying
	e.state.SubPhase = ""
	e.state.CurrentRound = 0
	e.logger.Info("match started", "players", len(e.state.Players))
	e.startRoundLocked()
}

func (e *Engine) startRoundLocked() {
	e.state.CurrentRound++
	e.state.FearZoneActive = e.state.CurrentRound == e.state.MaxRounds
	e.roundTick = 0
	e.state.TimeRemaining = e.cfg.Match.RoundSeconds

	e.moods.Decay(e.state.Sentiment)

	// A multi-round event stays active; otherwise draw a fresh card and
	// push its sentiment impact plus sector rotation.
	if e.state.ActiveEvent != nil && e.state.ActiveEvent.RemainingRounds > 1 {
		e.state.ActiveEvent.RemainingRounds--
	} else {
		card := catalog.RandomNewsCard(e.rng)
		e.state.ActiveEvent = card.ToMarketEvent()
		e.moods.ApplyNews(e.state.Sentiment, card)
		e.moods.Rotate(e.state.Sentiment, card)
	}

	e.sim.BeginRound(e.state, e.state.ActiveEvent.Grade)
	metrics.RoundsStarted.Inc()
	e.logger.Info("round started",
		"round", e.state.CurrentRound,
		"event", e.state.ActiveEvent.Headline,
		"fearZone", e.state.FearZoneActive)

	e.broadcastLocked()
	e.startTimerLocked(e.roundTickLocked)
}

func (e *Engine) roundTickLocked() {
	e.roundTick++
	e.state.TimeRemaining = e.cfg.Match.RoundSeconds - e.roundTick
	if e.state.TimeRemaining < 0 {
		e.state.TimeRemaining = 0
	}

	if tradingElapsed := e.roundTick - e.cfg.Match.NewsWindowSeconds; tradingElapsed > 0 {
		e.sim.Step(e.state, tradingElapsed)
		metrics.TicksTotal.Inc()
	}

	e.book.Revalue(e.state)
	e.book.ScoreRisk(e.state)
	e.broadcastLocked()

	if e.roundTick >= e.cfg.Match.RoundSeconds {
		e.stopTimerLocked()
		if e.state.CurrentRound < e.state.MaxRounds {
			e.startRoundLocked()
		} else {
			e.endMatchLocked()
		}
	}
}

func (e *Engine) endMatchLocked() {
	e.state.Phase = model.PhaseFinished
	e.state.TimeRemaining = 0
	e.book.Revalue(e.state)
	e.book.ScoreRisk(e.state)
	metrics.MatchesFinished.Inc()
	e.logger.Info("match finished", "rounds", e.state.CurrentRound)
	e.broadcastLocked()

	// Results run off-lock: critique generation may block on the advisor,
	// and ticks for the next lobby must not wait on it.
	snapshot := clonePlayers(e.state.Players)
	go func() {
		res := e.scorer.Generate(context.Background(), snapshot)
		e.broad.BroadcastResults(res)
	}()
}

// --- timers ---

func (e *Engine) startTimerLocked(handler func()) {
	e.timerGen++
	gen := e.timerGen
	e.sched.Start(time.Second, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.timerGen {
			return
		}
		handler()
	})
}

func (e *Engine) stopTimerLocked() {
	e.timerGen++
	e.sched.Stop()
}

func (e *Engine) broadcastLocked() {
	metrics.BroadcastsTotal.Inc()
	e.broad.BroadcastState(e.state)
}

// clonePlayers deep-copies the fields results reads, so scoring can run
// outside the engine lock.
func clonePlayers(players []*model.Player) []*model.Player {
	out := make([]*model.Player, 0, len(players))
	for _, p := range players {
		cp := *p
		cp.Holdings = append([]model.Holding(nil), p.Holdings...)
		cp.PowerUps = append([]model.PowerUp(nil), p.PowerUps...)
		cp.TransactionLog = append([]model.Transaction(nil), p.TransactionLog...)
		out = append(out, &cp)
	}
	return out
}
