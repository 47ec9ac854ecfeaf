package handlers

import (
	"errors"

	"github.com/brightpods/admin-api/internal/http/response"
	"github.com/brightpods/admin-api/internal/service"

	"github.com/gin-gonic/gin"
)

type enrollmentRequest struct {
	EnrollmentID uint `json:"enrollment_id"`
}

// PendingOnboarding lists outstanding onboarding items for an enrollment.
func (h *Handler) PendingOnboarding(c *gin.Context) {
	log := requestLog(c)

	var req enrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EnrollmentID == 0 {
		response.BadRequest(c, "enrollment_id is required")
		return
	}

	result, err := h.OnboardingService.PendingItems(req.EnrollmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(c, "enrollment_id is required")
		case errors.Is(err, service.ErrEnrollmentNotFound):
			response.NotFound(c, "enrollment not found")
		default:
			log.Errorw("onboarding_pending_failed", "enrollment_id", req.EnrollmentID, "error", err)
			response.Internal(c, "onboarding lookup failed")
		}
		return
	}
	response.Success(c, result)
}

// CheckOnboardingStatus resolves sent forms through the external form check
// and marks completed ones.
func (h *Handler) CheckOnboardingStatus(c *gin.Context) {
	log := requestLog(c)

	var req enrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EnrollmentID == 0 {
		response.BadRequest(c, "enrollment_id is required")
		return
	}

	result, err := h.OnboardingService.CheckStatus(c.Request.Context(), req.EnrollmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(c, "enrollment_id is required")
		case errors.Is(err, service.ErrEnrollmentNotFound):
			response.NotFound(c, "enrollment not found")
		case errors.Is(err, service.ErrFormCheckFailed):
			log.Errorw("onboarding_check_upstream_failed", "enrollment_id", req.EnrollmentID, "error", err)
			response.Internal(c, "form check upstream failed")
		default:
			log.Errorw("onboarding_check_failed", "enrollment_id", req.EnrollmentID, "error", err)
			response.Internal(c, "onboarding check failed")
		}
		return
	}
	response.Success(c, result)
}
