package quiz

// TransitionPhase is the state of the slide-change guard.
type TransitionPhase int

const (
	PhaseIdle          TransitionPhase = iota // Ready to change slides
	PhaseTransitioning                        // A slide change is settling
)

// Transition guards against overlapping slide changes. Requests made while
// transitioning are rejected, not queued.
type Transition struct {
	phase TransitionPhase
}

// Phase returns the current phase.
func (t *Transition) Phase() TransitionPhase { return t.phase }

// Begin starts a transition or returns ErrTransitionInFlight.
func (t *Transition) Begin() error {
	if t.phase == PhaseTransitioning {
		return ErrTransitionInFlight
	}
	t.phase = PhaseTransitioning
	return nil
}

// End returns the guard to idle. Ending an idle guard is a no-op.
func (t *Transition) End() {
	t.phase = PhaseIdle
}
