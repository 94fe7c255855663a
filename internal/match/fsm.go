package match

import (
	"github.com/bullvbear/match-engine/internal/model"
)

// preMatchStep is one timed stage of the lobby sequence. allReady, when
// set, lets the stage end early once every connected player has made the
// stage's choice; onEnter runs side effects when the stage begins.
type preMatchStep struct {
	sub      model.PreMatchSubPhase
	duration int
	allReady func(*Engine) bool
	onEnter  func(*Engine)
}

// preMatchSteps builds the lobby sequence from the configured durations.
// The order is fixed; only the timings are tunable.
func (e *Engine) preMatchSteps() []preMatchStep {
	m := e.cfg.Match
	return []preMatchStep{
		{
			sub:      model.SubPhaseIntro,
			duration: m.IntroSeconds,
		},
		{
			sub:      model.SubPhaseAvatarSelection,
			duration: m.AvatarSelectSeconds,
			allReady: func(e *Engine) bool {
				return e.everyConnectedLocked(func(p *model.Player) bool { return p.AvatarID != "" })
			},
		},
		{
			sub:      model.SubPhaseStrategySelection,
			duration: m.StrategySelectSeconds,
			allReady: func(e *Engine) bool {
				return e.everyConnectedLocked(func(p *model.Player) bool { return p.StrategyID != "" })
			},
		},
		{
			sub:      model.SubPhaseScenarioTeaser,
			duration: m.ScenarioTeaserSeconds,
			onEnter:  (*Engine).drawScenarioLocked,
		},
		{
			sub:      model.SubPhaseTutorial,
			duration: m.TutorialSeconds,
		},
	}
}

// everyConnectedLocked reports whether all connected players satisfy pred.
// Disconnected players are skipped so one dropped client cannot hold up
// the lobby. A lobby with nobody connected is never "all ready"; the timer
// runs out instead.
func (e *Engine) everyConnectedLocked(pred func(*model.Player) bool) bool {
	live := 0
	for _, p := range e.state.Players {
		if !e.connected[p.Name] {
			continue
		}
		live++
		if !pred(p) {
			return false
		}
	}
	return live > 0
}
