package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
)

// ApplicantView is an applicant together with the tier its score falls in
type ApplicantView struct {
	model.Applicant
	Tier selector.Tier
}

// ApplicantListing summarises the roster before a draw
type ApplicantListing struct {
	Applicants   []ApplicantView
	ByTier       map[selector.Tier]int
	ByPreference map[model.WindowPreference]int
	Male         int
	NonMale      int
	Experienced  int
}

// ListApplicants reads the roster and classifies every applicant
func ListApplicants(lister ApplicantLister, cfg *config.Config, logger *zap.Logger) (*ApplicantListing, error) {
	roster, err := lister.ListApplicants(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}

	listing := &ApplicantListing{
		Applicants:   make([]ApplicantView, 0, len(roster.Applicants)),
		ByTier:       make(map[selector.Tier]int),
		ByPreference: make(map[model.WindowPreference]int),
	}
	for _, a := range roster.Applicants {
		tier := selector.ClassifyScore(a.MeritScore)
		listing.Applicants = append(listing.Applicants, ApplicantView{Applicant: a, Tier: tier})
		listing.ByTier[tier]++
		listing.ByPreference[a.WindowPreference]++
		if a.IsMale() {
			listing.Male++
		} else {
			listing.NonMale++
		}
		if a.PriorExperience {
			listing.Experienced++
		}
	}

	logger.Debug("Applicants classified",
		zap.Int("count", len(listing.Applicants)),
		zap.Int("tier_a", listing.ByTier[selector.TierA]),
		zap.Int("tier_b", listing.ByTier[selector.TierB]),
		zap.Int("tier_c", listing.ByTier[selector.TierC]))

	return listing, nil
}
