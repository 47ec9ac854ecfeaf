package service

import (
	"net/mail"
	"strings"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Lead ingest actions.
const (
	LeadActionCreated = "created"
	LeadActionExists  = "exists"
	LeadActionSkipped = "skipped"
)

// LeadService captures inbound leads from external forms.
type LeadService struct {
	familyRepo     repository.FamilyRepository
	leadRepo       repository.LeadRepository
	enrollmentRepo repository.EnrollmentRepository
}

// NewLeadService creates a lead service.
func NewLeadService(familyRepo repository.FamilyRepository, leadRepo repository.LeadRepository, enrollmentRepo repository.EnrollmentRepository) *LeadService {
	return &LeadService{
		familyRepo:     familyRepo,
		leadRepo:       leadRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func leadLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// IngestLeadInput is one captured form submission. Details carries the
// type-specific fields already validated at the boundary.
type IngestLeadInput struct {
	Email    string
	LeadType string
	Name     string
	Phone    string
	Details  models.JSON
}

// IngestLeadResult reports what the capture did.
type IngestLeadResult struct {
	Action string
	Lead   *models.Lead
}

// Ingest captures a lead, deduplicating by (email, lead_type) among
// unresolved leads and skipping families that are already customers.
func (s *LeadService) Ingest(input IngestLeadInput) (*IngestLeadResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	leadType := strings.ToLower(strings.TrimSpace(input.LeadType))
	log := leadLogger("email", email, "lead_type", leadType)

	if email == "" || !isValidEmail(email) {
		return nil, ErrValidation
	}
	if leadType != constants.LeadTypeExitIntent && leadType != constants.LeadTypeWaitlist {
		return nil, ErrValidation
	}

	existing, err := s.leadRepo.GetOpenByEmailAndType(email, leadType)
	if err != nil {
		log.Errorw("lead_dedupe_lookup_failed", "error", err)
		return nil, ErrLeadCreateFailed
	}
	if existing != nil {
		log.Infow("lead_ingest_exists", "lead_id", existing.ID)
		return &IngestLeadResult{Action: LeadActionExists, Lead: existing}, nil
	}

	family, err := s.familyRepo.GetByEmail(email)
	if err != nil {
		log.Errorw("lead_family_lookup_failed", "error", err)
		return nil, ErrLeadCreateFailed
	}
	if family != nil {
		enrolled, err := s.enrollmentRepo.HasOpenByFamilyID(family.ID)
		if err != nil {
			log.Errorw("lead_enrollment_lookup_failed", "family_id", family.ID, "error", err)
			return nil, ErrLeadCreateFailed
		}
		if enrolled {
			// Existing customers do not re-enter the lead pipeline.
			log.Infow("lead_ingest_skipped_enrolled", "family_id", family.ID)
			return &IngestLeadResult{Action: LeadActionSkipped}, nil
		}
	}

	var lead *models.Lead
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if family == nil {
			name := strings.TrimSpace(input.Name)
			if name == "" {
				name = email
			}
			family = &models.Family{
				Name:   name,
				Email:  email,
				Phone:  strings.TrimSpace(input.Phone),
				Status: constants.FamilyStatusLead,
			}
			if err := s.familyRepo.WithTx(tx).Create(family); err != nil {
				return err
			}
		}
		lead = &models.Lead{
			Email:    email,
			LeadType: leadType,
			Name:     strings.TrimSpace(input.Name),
			Status:   constants.LeadStatusNew,
			FamilyID: &family.ID,
			Details:  input.Details,
		}
		return s.leadRepo.WithTx(tx).Create(lead)
	})
	if err != nil {
		log.Errorw("lead_ingest_create_failed", "error", err)
		return nil, ErrLeadCreateFailed
	}

	log.Infow("lead_ingest_created", "lead_id", lead.ID, "family_id", family.ID)
	return &IngestLeadResult{Action: LeadActionCreated, Lead: lead}, nil
}

func isValidEmail(email string) bool {
	parsed, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return parsed.Address == email
}
