package selector

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// DefaultRetryBudget is the number of random draws tried per pool before repairing
const DefaultRetryBudget = 1000

// Pool names in escalation order
var poolNames = []string{"A", "AB", "ABC"}

// Config contains the parameters for selecting one window
type Config struct {
	// Window labels logs, metrics and the report
	Window string

	// Quota is the number of slots to fill
	Quota int

	// RetryBudget is the number of draws tried per pool before falling back to repair
	RetryBudget int

	// Constraints to satisfy, in repair order
	Constraints []Constraint

	// Rand is the random source for every draw
	Rand Rand

	Logger  *zap.Logger
	Metrics *Metrics
}

// Report makes the result of a selection run observable, including every relaxed constraint
type Report struct {
	Window    string
	Quota     int
	Selected  int
	Satisfied bool

	// FinalPool is the widest pool the run had to use
	FinalPool string

	Attempts       int
	AttemptsByPool map[string]int

	Constraints    []ConstraintResult
	QuotaShortfall int

	// ToppedUp counts slots filled after the last repair without regard to constraints
	ToppedUp int

	Repairs     []RepairStep
	Transitions []Transition
}

// Unmet returns the constraints the final selection does not satisfy
func (r *Report) Unmet() []ConstraintResult {
	var unmet []ConstraintResult
	for _, c := range r.Constraints {
		if !c.Satisfied {
			unmet = append(unmet, c)
		}
	}
	return unmet
}

// Outcome is the frozen selection for a window and its report
type Outcome struct {
	Selection []model.Applicant
	Report    *Report
}

// run holds the working state of one Select call
type run struct {
	cfg   Config
	pools Pools
	log   *zap.Logger

	stage     int
	base      []model.Applicant // Selection carried over from the last repair
	candidate []model.Applicant // Latest selection produced by a step
	remaining []model.Applicant // Current pool minus base
	attempts  int               // Attempts in the current pool

	report *Report
}

// Select fills a window's quota from the nested pools, escalating from Pool_A through
// Pool_AB to Pool_ABC until a selection meets every constraint or no wider pool is left.
//
// The returned selection has at most Quota members and fewer only if Pool_ABC is
// smaller than Quota. Unmet constraints are reported, not returned as errors.
func Select(cfg Config, pools Pools) (*Outcome, error) {
	if cfg.Quota < 1 {
		return nil, fmt.Errorf("quota must be at least 1, got %d", cfg.Quota)
	}
	if cfg.RetryBudget < 1 {
		return nil, fmt.Errorf("retry budget must be at least 1, got %d", cfg.RetryBudget)
	}
	if cfg.Rand == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := &run{
		cfg:   cfg,
		pools: pools,
		log:   cfg.Logger.With(zap.String("window", cfg.Window)),
		report: &Report{
			Window:         cfg.Window,
			Quota:          cfg.Quota,
			AttemptsByPool: make(map[string]int),
		},
	}
	r.enterStage(0)

	state := StateSampleTier
	for state != StateDone {
		var sig Signals
		var err error

		switch state {
		case StateSampleTier:
			sig, err = r.sampleStep()
		case StateRepairTier:
			sig, err = r.repairStep()
		case StateEscalate:
			r.enterStage(r.stage + 1)
		}
		if err != nil {
			return nil, err
		}

		next := nextState(state, sig)
		if next != state {
			r.recordTransition(state, next)
		}
		state = next
	}

	if err := r.finish(); err != nil {
		return nil, err
	}

	return &Outcome{
		Selection: r.base,
		Report:    r.report,
	}, nil
}

func (r *run) poolName() string {
	return poolNames[r.stage]
}

func (r *run) lastStage() bool {
	return r.stage == len(poolNames)-1
}

// enterStage switches to the pool of the given stage and resets the attempt counter
func (r *run) enterStage(stage int) {
	r.stage = stage
	r.attempts = 0
	r.remaining = Difference(r.pools.stage(stage), r.base)
	r.report.FinalPool = r.poolName()

	r.log.Debug("Sampling from pool",
		zap.String("pool", r.poolName()),
		zap.Int("pool_size", len(r.remaining)),
		zap.Int("already_selected", len(r.base)))
}

// sampleStep makes one random draw of the missing slots and checks the combined selection
func (r *run) sampleStep() (Signals, error) {
	need := r.cfg.Quota - len(r.base)

	draw, err := sample(r.cfg.Rand, r.remaining, min(need, len(r.remaining)))
	if err != nil {
		return Signals{}, err
	}

	candidate := make([]model.Applicant, 0, len(r.base)+len(draw))
	candidate = append(candidate, r.base...)
	candidate = append(candidate, draw...)
	r.candidate = candidate

	r.attempts++
	r.report.Attempts++
	r.report.AttemptsByPool[r.poolName()]++
	r.cfg.Metrics.observeAttempt(r.cfg.Window, r.poolName())

	sig := Signals{
		Satisfied:         isAcceptable(candidate, r.cfg.Quota, r.cfg.Constraints),
		AttemptsExhausted: r.attempts >= r.cfg.RetryBudget,
		// Another attempt cannot differ when the quota is already full or a draw takes the whole pool
		PoolExhausted: need == 0 || len(r.remaining) <= need,
	}

	if sig.Satisfied {
		r.base = candidate
		r.log.Info("Pool satisfies all constraints",
			zap.String("pool", r.poolName()),
			zap.Int("attempt", r.attempts))
	} else if sig.AttemptsExhausted || sig.PoolExhausted {
		r.log.Info("Constraints cannot be satisfied by sampling alone",
			zap.String("pool", r.poolName()),
			zap.Int("attempts", r.attempts))
	}

	return sig, nil
}

// repairStep runs repair-and-extend on the latest candidate against the current pool
func (r *run) repairStep() (Signals, error) {
	repaired, steps, err := repairAndExtend(
		r.cfg.Rand,
		r.cfg.Quota,
		r.cfg.Constraints,
		r.candidate,
		r.pools.stage(r.stage),
		r.poolName(),
	)
	if err != nil {
		return Signals{}, err
	}

	for _, step := range steps {
		r.cfg.Metrics.observeRepair(r.cfg.Window, step)
		switch {
		case step.Removed == 0:
			r.log.Debug("Repair removed no entries",
				zap.String("pool", step.Pool),
				zap.String("constraint", step.Constraint))
		case step.Unfilled > 0:
			r.log.Info("Repair could not backfill every removed entry",
				zap.String("pool", step.Pool),
				zap.String("constraint", step.Constraint),
				zap.Int("removed", step.Removed),
				zap.Int("backfilled", step.Backfilled))
		default:
			r.log.Debug("Repair replaced entries",
				zap.String("pool", step.Pool),
				zap.String("constraint", step.Constraint),
				zap.Int("replaced", step.Removed))
		}
	}
	r.report.Repairs = append(r.report.Repairs, steps...)

	r.base = repaired
	r.candidate = repaired

	return Signals{
		Satisfied:     isAcceptable(repaired, r.cfg.Quota, r.cfg.Constraints),
		PoolExhausted: r.lastStage(),
	}, nil
}

func (r *run) recordTransition(from, to State) {
	r.report.Transitions = append(r.report.Transitions, Transition{
		From:     from,
		To:       to,
		Pool:     r.poolName(),
		Attempts: r.attempts,
	})
	r.cfg.Metrics.observeTransition(r.cfg.Window, from, to)
}

// finish tops up an under-quota selection and builds the final report
func (r *run) finish() error {
	if len(r.base) < r.cfg.Quota {
		if err := r.topUp(); err != nil {
			return err
		}
	}

	report := r.report
	report.Selected = len(r.base)
	report.QuotaShortfall = r.cfg.Quota - len(r.base)
	report.Constraints = EvaluateConstraints(r.base, r.cfg.Quota, r.cfg.Constraints)
	report.Satisfied = isAcceptable(r.base, r.cfg.Quota, r.cfg.Constraints)
	r.cfg.Metrics.observeReport(report)

	if report.Satisfied {
		return nil
	}

	for _, c := range report.Unmet() {
		r.log.Warn("Constraint relaxed",
			zap.String("constraint", c.Name),
			zap.Int("target", c.Target),
			zap.Int("achieved", c.Achieved),
			zap.Int("shortfall", c.Shortfall))
	}
	if report.QuotaShortfall > 0 {
		r.log.Warn("Quota not filled",
			zap.Int("quota", r.cfg.Quota),
			zap.Int("selected", report.Selected))
	}

	return nil
}

// topUp fills the remaining slots from whatever is left in Pool_ABC, higher tiers first.
// Slot count takes priority over the soft constraints at this point.
func (r *run) topUp() error {
	tierB := Difference(r.pools.AB, r.pools.A)
	tierC := Difference(r.pools.ABC, r.pools.AB)

	for _, tier := range [][]model.Applicant{r.pools.A, tierB, tierC} {
		need := r.cfg.Quota - len(r.base)
		if need <= 0 {
			break
		}
		available := Difference(tier, r.base)
		fill, err := sample(r.cfg.Rand, available, min(need, len(available)))
		if err != nil {
			return err
		}
		r.base = append(r.base, fill...)
		r.report.ToppedUp += len(fill)
	}

	if r.report.ToppedUp > 0 {
		r.log.Info("Topped up selection ignoring constraints", zap.Int("added", r.report.ToppedUp))
	}

	return nil
}
