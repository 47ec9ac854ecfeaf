package handlers

import (
	"errors"
	"strings"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/http/response"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ingestLeadRequest is the union of the per-type form payloads. The lead_type
// tag decides which type-specific fields are kept.
type ingestLeadRequest struct {
	Email    string `json:"email"`
	LeadType string `json:"lead_type"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`

	// exit_intent fields
	PageURL string `json:"page_url"`
	Message string `json:"message"`

	// waitlist fields
	Program      string `json:"program"`
	StudentGrade string `json:"student_grade"`
}

// IngestLead captures a lead submitted by an external form via the
// automation tool.
func (h *Handler) IngestLead(c *gin.Context) {
	log := requestLog(c)

	var req ingestLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnw("lead_ingest_bind_failed", "error", err)
		response.BadRequest(c, "invalid json body")
		return
	}

	details, err := leadDetails(req)
	if err != nil {
		response.BadRequest(c, "email and a valid lead_type are required")
		return
	}

	result, err := h.LeadService.Ingest(service.IngestLeadInput{
		Email:    req.Email,
		LeadType: req.LeadType,
		Name:     req.Name,
		Phone:    req.Phone,
		Details:  details,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			response.BadRequest(c, "email and a valid lead_type are required")
			return
		}
		log.Errorw("lead_ingest_failed", "error", err)
		response.Internal(c, "lead ingest failed")
		return
	}

	body := gin.H{"action": result.Action}
	if result.Lead != nil {
		body["lead_id"] = result.Lead.ID
	}
	response.Success(c, body)
}

// leadDetails validates the tagged variant and keeps only the fields that
// belong to the declared type.
func leadDetails(req ingestLeadRequest) (models.JSON, error) {
	details := models.JSON{}
	switch strings.ToLower(strings.TrimSpace(req.LeadType)) {
	case constants.LeadTypeExitIntent:
		if strings.TrimSpace(req.PageURL) != "" {
			details["page_url"] = strings.TrimSpace(req.PageURL)
		}
		if strings.TrimSpace(req.Message) != "" {
			details["message"] = strings.TrimSpace(req.Message)
		}
	case constants.LeadTypeWaitlist:
		if strings.TrimSpace(req.Program) != "" {
			details["program"] = strings.TrimSpace(req.Program)
		}
		if strings.TrimSpace(req.StudentGrade) != "" {
			details["student_grade"] = strings.TrimSpace(req.StudentGrade)
		}
	default:
		return nil, service.ErrValidation
	}
	return details, nil
}
