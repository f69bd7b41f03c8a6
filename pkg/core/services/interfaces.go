package services

import (
	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// ApplicantLister reads the roster named by the configuration
type ApplicantLister interface {
	ListApplicants(cfg *config.Config) (*model.Roster, error)
}

// TableWriter writes one named result table, replacing any previous contents
type TableWriter interface {
	WriteTable(name string, header []string, rows [][]string) error
	String() string
}
