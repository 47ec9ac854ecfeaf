package service

import (
	"strings"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"

	"gorm.io/gorm"
)

// LeadMigrationService moves legacy lead-flagged family rows into the
// normalized leads table.
type LeadMigrationService struct {
	familyRepo repository.FamilyRepository
	leadRepo   repository.LeadRepository
}

// NewLeadMigrationService creates a lead migration service.
func NewLeadMigrationService(familyRepo repository.FamilyRepository, leadRepo repository.LeadRepository) *LeadMigrationService {
	return &LeadMigrationService{
		familyRepo: familyRepo,
		leadRepo:   leadRepo,
	}
}

// MigrationSummary counts per-row outcomes of one migration run.
type MigrationSummary struct {
	Total    int
	Migrated int
	Skipped  int
	Failed   int
}

// MigrateLegacyLeads converts each family still flagged is_lead into a Lead
// row, clearing the flag. Families whose email already has a lead are
// skipped. Per-row failures are logged and counted; the batch runs to
// completion regardless.
func (s *LeadMigrationService) MigrateLegacyLeads() (*MigrationSummary, error) {
	families, err := s.familyRepo.ListLegacyLeads()
	if err != nil {
		logger.Errorw("lead_migration_list_failed", "error", err)
		return nil, ErrUpstreamUnavailable
	}

	summary := &MigrationSummary{Total: len(families)}
	for i := range families {
		family := &families[i]
		log := logger.SW("family_id", family.ID, "email", family.Email)

		email := strings.ToLower(strings.TrimSpace(family.Email))
		if email == "" {
			summary.Failed++
			log.Warnw("lead_migration_row_missing_email")
			continue
		}

		exists, err := s.leadRepo.ExistsByEmail(email)
		if err != nil {
			summary.Failed++
			log.Errorw("lead_migration_dedupe_failed", "error", err)
			continue
		}
		if exists {
			if err := s.clearLegacyFlag(family); err != nil {
				summary.Failed++
				log.Errorw("lead_migration_flag_clear_failed", "error", err)
				continue
			}
			summary.Skipped++
			log.Infow("lead_migration_row_skipped_duplicate")
			continue
		}

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			lead := &models.Lead{
				Email:    email,
				LeadType: constants.LeadTypeWaitlist,
				Name:     family.Name,
				Status:   constants.LeadStatusNew,
				FamilyID: &family.ID,
				Details:  models.JSON{"migrated_from_family_id": family.ID},
			}
			if err := s.leadRepo.WithTx(tx).Create(lead); err != nil {
				return err
			}
			family.IsLead = false
			return s.familyRepo.WithTx(tx).Update(family)
		})
		if err != nil {
			summary.Failed++
			log.Errorw("lead_migration_row_failed", "error", err)
			continue
		}
		summary.Migrated++
	}

	logger.Infow("lead_migration_completed",
		"total", summary.Total,
		"migrated", summary.Migrated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *LeadMigrationService) clearLegacyFlag(family *models.Family) error {
	if !family.IsLead {
		return nil
	}
	family.IsLead = false
	return s.familyRepo.Update(family)
}
