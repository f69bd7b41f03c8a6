package commands

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jakechorley/accreditation-draw/pkg/core/services"
)

// ListDrawsCmd creates the listDraws command
func ListDrawsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listDraws",
		Short: "List recorded draws from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.DrawStore()
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("no databaseURL configured")
			}

			listings, err := services.ListDraws(app.Ctx, store, app.Logger)
			if err != nil {
				return err
			}

			if len(listings) == 0 {
				fmt.Println("\nNo draws recorded yet.")
				return nil
			}

			fmt.Printf("\nFound %d draws:\n\n", len(listings))
			for _, l := range listings {
				status := "all constraints met"
				if !l.Draw.Satisfied {
					status = "constraints relaxed"
				}
				fmt.Printf("- %s  %s  seed %s  %d applicants  %s\n",
					l.Draw.CreatedAt.Local().Format("2006-01-02 15:04"),
					l.Draw.ID,
					l.Draw.Seed,
					l.Draw.RosterSize,
					status)
				for _, name := range sortedKeys(l.TableCounts) {
					fmt.Printf("    %-15s %d\n", name, l.TableCounts[name])
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
