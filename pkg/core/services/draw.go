package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector/constraints"
	"github.com/jakechorley/accreditation-draw/pkg/db"
)

// DrawOptions controls a single draw
type DrawOptions struct {
	// Seed reproduces an earlier draw. A random seed is chosen when nil.
	Seed *uint64

	// DryRun skips the table sinks and the draw history
	DryRun bool

	Metrics *selector.Metrics
}

// WindowResult is the frozen selection of one window
type WindowResult struct {
	Name      string
	Quota     int
	Dates     []time.Time
	Selection []model.Applicant
	Report    *selector.Report
}

// DrawResult represents the result of a complete draw
type DrawResult struct {
	DrawID      string
	Seed        uint64
	RosterSize  int
	Balance     *selector.BalanceResult
	Windows     []WindowResult
	WaitingList []model.Applicant
	Tables      []Table
	Persisted   bool
}

// Satisfied returns true if every window met every constraint and filled its quota
func (r *DrawResult) Satisfied() bool {
	for _, w := range r.Windows {
		if !w.Report.Satisfied {
			return false
		}
	}
	return true
}

// DrawAccreditations runs the full draw: it balances flexible applicants between the two
// windows, selects each window in order from the applicants not yet chosen, and puts
// everyone left over on the waiting list.
//
// Tables go to every sink and the draw is recorded in store unless opts.DryRun is set.
// store may be nil.
func DrawAccreditations(
	ctx context.Context,
	lister ApplicantLister,
	sinks []TableWriter,
	store db.DrawStore,
	cfg *config.Config,
	logger *zap.Logger,
	opts DrawOptions,
) (*DrawResult, error) {
	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	r := selector.NewRand(seed)

	logger.Info("Starting draw", zap.String("seed", strconv.FormatUint(seed, 10)), zap.Bool("dry_run", opts.DryRun))

	roster, err := lister.ListApplicants(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	logger.Info("Roster loaded", zap.Int("applicants", len(roster.Applicants)))

	balance, err := selector.BalanceWindows(r, roster.Applicants)
	if err != nil {
		return nil, fmt.Errorf("failed to balance windows: %w", err)
	}
	logger.Info("Balanced flexible applicants",
		zap.Int("target_window1", balance.TargetWindow1Count),
		zap.Int("moved_to_window1", balance.MovedToWindow1),
		zap.Int("moved_to_window2", balance.MovedToWindow2))
	if balance.Window1Overfull {
		logger.Warn("Window 1 preferences exceed half of the roster",
			zap.Int("fixed_window1", balance.FixedWindow1Count),
			zap.Int("target_window1", balance.TargetWindow1Count))
	}

	result := &DrawResult{
		Seed:       seed,
		RosterSize: len(roster.Applicants),
		Balance:    balance,
	}

	tiers := selector.Classify(balance.Applicants)
	var selections [][]model.Applicant

	for i, w := range cfg.Windows {
		dates, err := w.Dates()
		if err != nil {
			return nil, fmt.Errorf("failed to expand dates for window %s: %w", w.Name, err)
		}

		pools := tiers.Without(selections...).ForWindow(model.PreferenceForWindow(i + 1)).Pools()
		logger.Info("Selecting window",
			zap.String("window", w.Name),
			zap.Int("quota", w.Quota),
			zap.Int("pool_a", len(pools.A)),
			zap.Int("pool_ab", len(pools.AB)),
			zap.Int("pool_abc", len(pools.ABC)))

		outcome, err := selector.Select(selector.Config{
			Window:      w.Name,
			Quota:       w.Quota,
			RetryBudget: cfg.EffectiveRetryBudget(),
			Constraints: constraints.Default(),
			Rand:        r,
			Logger:      logger,
			Metrics:     opts.Metrics,
		}, pools)
		if err != nil {
			return nil, fmt.Errorf("failed to select window %s: %w", w.Name, err)
		}

		selections = append(selections, outcome.Selection)
		result.Windows = append(result.Windows, WindowResult{
			Name:      w.Name,
			Quota:     w.Quota,
			Dates:     dates,
			Selection: outcome.Selection,
			Report:    outcome.Report,
		})
		result.Tables = append(result.Tables, buildTable(roster, w.Name, db.StageSelected, outcome.Selection))
	}

	result.WaitingList = selector.Difference(balance.Applicants, selections...)
	result.Tables = append(result.Tables, buildTable(roster, cfg.WaitingListName(), db.StageWaitingList, result.WaitingList))
	logger.Info("Waiting list assembled", zap.Int("applicants", len(result.WaitingList)))

	if opts.DryRun {
		logger.Info("Dry run, nothing written")
		return result, nil
	}

	for _, sink := range sinks {
		for _, t := range result.Tables {
			if err := sink.WriteTable(t.Name, t.Header, t.Rows); err != nil {
				return nil, fmt.Errorf("failed to write table %s to %s: %w", t.Name, sink, err)
			}
		}
		logger.Info("Tables written", zap.String("sink", sink.String()), zap.Int("tables", len(result.Tables)))
	}

	if store == nil {
		return result, nil
	}

	result.DrawID = uuid.New().String()
	summary, err := encodeSummary(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draw summary: %w", err)
	}

	draw := &db.Draw{
		ID:         result.DrawID,
		CreatedAt:  time.Now(),
		Seed:       strconv.FormatUint(seed, 10),
		RosterSize: result.RosterSize,
		Satisfied:  result.Satisfied(),
		Summary:    summary,
	}
	if err := store.InsertDraw(ctx, draw, drawEntries(draw.ID, result.Tables)); err != nil {
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}
	result.Persisted = true
	logger.Info("Draw recorded", zap.String("draw_id", draw.ID))

	return result, nil
}
