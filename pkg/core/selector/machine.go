package selector

// State is a step of the selection state machine
type State int

const (
	StateSampleTier State = iota // Rejection sampling against the current pool
	StateRepairTier              // Repair-and-extend against the current pool
	StateEscalate                // Move on to the next wider pool
	StateDone                    // Selection frozen
)

func (s State) String() string {
	switch s {
	case StateSampleTier:
		return "SampleTier"
	case StateRepairTier:
		return "RepairTier"
	case StateEscalate:
		return "Escalate"
	default:
		return "Done"
	}
}

// Signals are the observations a state reports when it finishes a step
type Signals struct {
	// Satisfied is true if the current selection fills the quota and meets every constraint
	Satisfied bool

	// AttemptsExhausted is true if the retry budget for this pool has been spent
	AttemptsExhausted bool

	// PoolExhausted is true if the pool cannot produce anything new. While sampling this
	// means every draw takes the whole remaining pool; while repairing it means there is
	// no wider pool to escalate to.
	PoolExhausted bool
}

type transitionKey struct {
	state             State
	satisfied         bool
	attemptsExhausted bool
	poolExhausted     bool
}

// transitions is the full table for the states that observe signals. Escalate always
// moves to SampleTier and Done is terminal.
var transitions = map[transitionKey]State{
	// Sampling: success ends the draw, running out of attempts or pool moves to repair
	{StateSampleTier, true, false, false}:  StateDone,
	{StateSampleTier, true, true, false}:   StateDone,
	{StateSampleTier, true, false, true}:   StateDone,
	{StateSampleTier, true, true, true}:    StateDone,
	{StateSampleTier, false, false, false}: StateSampleTier,
	{StateSampleTier, false, true, false}:  StateRepairTier,
	{StateSampleTier, false, false, true}:  StateRepairTier,
	{StateSampleTier, false, true, true}:   StateRepairTier,

	// Repair: success ends the draw, otherwise widen the pool until none is left
	{StateRepairTier, true, false, false}:  StateDone,
	{StateRepairTier, true, true, false}:   StateDone,
	{StateRepairTier, true, false, true}:   StateDone,
	{StateRepairTier, true, true, true}:    StateDone,
	{StateRepairTier, false, false, false}: StateEscalate,
	{StateRepairTier, false, true, false}:  StateEscalate,
	{StateRepairTier, false, false, true}:  StateDone,
	{StateRepairTier, false, true, true}:   StateDone,
}

// nextState looks up the transition for a finished step
func nextState(s State, sig Signals) State {
	switch s {
	case StateEscalate:
		return StateSampleTier
	case StateDone:
		return StateDone
	}
	return transitions[transitionKey{
		state:             s,
		satisfied:         sig.Satisfied,
		attemptsExhausted: sig.AttemptsExhausted,
		poolExhausted:     sig.PoolExhausted,
	}]
}

// Transition records one state change of a selection run
type Transition struct {
	From     State
	To       State
	Pool     string
	Attempts int // Attempts spent in the pool when the transition happened
}
