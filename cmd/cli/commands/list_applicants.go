package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
	"github.com/jakechorley/accreditation-draw/pkg/core/services"
)

// ListApplicantsCmd creates the listApplicants command
func ListApplicantsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listApplicants",
		Short: "List the roster with each applicant's tier and window preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, _ := cmd.Flags().GetString("csv")

			lister, cfg, err := app.ApplicantSource(csvPath)
			if err != nil {
				return err
			}

			listing, err := services.ListApplicants(lister, cfg, app.Logger)
			if err != nil {
				return err
			}

			printApplicantListing(listing)
			return nil
		},
	}

	cmd.Flags().String("csv", "", "Read the roster from this CSV file instead of the configured source")

	return cmd
}

func printApplicantListing(listing *services.ApplicantListing) {
	fmt.Printf("\nFound %d applicants:\n\n", len(listing.Applicants))
	for _, a := range listing.Applicants {
		experience := ""
		if a.PriorExperience {
			experience = " [experienced]"
		}
		fmt.Printf("- %-30s tier %s  %-8s  %-7s  score %4.1f%s\n",
			a.ID, a.Tier, a.WindowPreference, a.Gender, a.MeritScore, experience)
	}

	fmt.Printf("\nTiers: A %d, B %d, C %d\n",
		listing.ByTier[selector.TierA], listing.ByTier[selector.TierB], listing.ByTier[selector.TierC])
	fmt.Printf("Preferences: window 1 %d, window 2 %d, flexible %d\n",
		listing.ByPreference[model.PreferenceWindow1],
		listing.ByPreference[model.PreferenceWindow2],
		listing.ByPreference[model.PreferenceFlexible])
	fmt.Printf("Gender: %d male, %d non-male. Experienced: %d\n\n", listing.Male, listing.NonMale, listing.Experienced)
}
