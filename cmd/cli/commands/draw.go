package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
	"github.com/jakechorley/accreditation-draw/pkg/core/services"
)

// DrawCmd creates the draw command
func DrawCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw both accreditation windows and the waiting list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seedFlag, _ := cmd.Flags().GetString("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			csvPath, _ := cmd.Flags().GetString("csv")
			outDir, _ := cmd.Flags().GetString("out")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")

			opts := services.DrawOptions{DryRun: dryRun}
			if seedFlag != "" {
				seed, err := parseSeed(seedFlag)
				if err != nil {
					return err
				}
				opts.Seed = &seed
			}

			var registry *prometheus.Registry
			if metricsFile != "" {
				registry = prometheus.NewRegistry()
				opts.Metrics = selector.NewMetrics(registry)
			}

			lister, cfg, err := app.ApplicantSource(csvPath)
			if err != nil {
				return err
			}

			var sinks []services.TableWriter
			if !dryRun {
				sinks, err = app.TableSinks(outDir)
				if err != nil {
					return err
				}
			}

			store, err := app.DrawStore()
			if err != nil {
				return err
			}

			result, err := services.DrawAccreditations(app.Ctx, lister, sinks, store, cfg, app.Logger, opts)
			if err != nil {
				return err
			}

			if registry != nil {
				if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
					return fmt.Errorf("failed to write metrics file: %w", err)
				}
				app.Logger.Debug("Metrics written", zap.String("path", metricsFile))
			}

			printDrawResult(result)
			return nil
		},
	}

	cmd.Flags().String("seed", "", "Seed for random decisions (reproduces an earlier draw)")
	cmd.Flags().Bool("dry-run", false, "Run without writing tables or recording the draw")
	cmd.Flags().String("csv", "", "Read the roster from this CSV file instead of the configured source")
	cmd.Flags().String("out", "", "Write CSV tables into this directory")
	cmd.Flags().String("metrics-file", "", "Write selector metrics in Prometheus text format to this file")

	return cmd
}

func parseSeed(value string) (uint64, error) {
	seed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seed must be a non-negative integer: %w", err)
	}
	return seed, nil
}

func printDrawResult(result *services.DrawResult) {
	fmt.Printf("\n✓ Draw completed (seed %d)\n\n", result.Seed)

	b := result.Balance
	fmt.Printf("Roster: %d applicants, %d flexible (%d → window 1, %d → window 2)\n",
		result.RosterSize, b.FlexibleCount, b.MovedToWindow1, b.MovedToWindow2)
	if b.Window1Overfull {
		fmt.Printf("⚠️  Window 1 preferences (%d) exceed the target of %d\n", b.FixedWindow1Count, b.TargetWindow1Count)
	}

	for _, w := range result.Windows {
		fmt.Println()
		printWindow(w)
	}

	fmt.Printf("\nWaiting list: %d applicants\n", len(result.WaitingList))

	if result.Persisted {
		fmt.Printf("\nDraw ID: %s\n", result.DrawID)
	}
	fmt.Println()
}

func printWindow(w services.WindowResult) {
	report := w.Report
	status := "✓"
	if !report.Satisfied {
		status = "⚠️ "
	}

	fmt.Printf("%s %s: %d of %d selected from pool %s after %d attempts\n",
		status, w.Name, report.Selected, report.Quota, report.FinalPool, report.Attempts)

	if len(w.Dates) > 0 {
		dates := make([]string, len(w.Dates))
		for i, d := range w.Dates {
			dates[i] = d.Format("Mon 2006-01-02")
		}
		fmt.Printf("  Dates: %s\n", strings.Join(dates, ", "))
	}

	for _, c := range report.Constraints {
		mark := "✓"
		if !c.Satisfied {
			mark = "✗"
		}
		fmt.Printf("  %s %-18s %s\n", mark, c.Name, c.Description)
	}
	if report.QuotaShortfall > 0 {
		fmt.Printf("  ✗ %d slots unfilled\n", report.QuotaShortfall)
	}
	if report.ToppedUp > 0 {
		fmt.Printf("  %d slots filled without regard to constraints\n", report.ToppedUp)
	}

	for _, a := range w.Selection {
		fmt.Printf("  - %s\n", a.ID)
	}
}
