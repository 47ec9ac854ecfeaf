package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brightpods/admin-api/internal/config"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/repository"

	"go.uber.org/zap"
)

const defaultFormCheckTimeoutMS = 10000

// OnboardingService serves the automation tool's onboarding queries.
type OnboardingService struct {
	enrollmentRepo repository.EnrollmentRepository
	onboardingRepo repository.OnboardingRepository
	cfg            config.AutomationConfig
	httpClient     *http.Client
}

// NewOnboardingService creates an onboarding service.
func NewOnboardingService(enrollmentRepo repository.EnrollmentRepository, onboardingRepo repository.OnboardingRepository, cfg config.AutomationConfig) *OnboardingService {
	timeout := cfg.TimeoutMS
	if timeout <= 0 {
		timeout = defaultFormCheckTimeoutMS
	}
	return &OnboardingService{
		enrollmentRepo: enrollmentRepo,
		onboardingRepo: onboardingRepo,
		cfg:            cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Millisecond,
		},
	}
}

func onboardingLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// PendingItem is one outstanding onboarding task, reduced for the
// automation tool.
type PendingItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// PendingItemsResult lists outstanding items plus display names for the
// message templates the automation tool fills in.
type PendingItemsResult struct {
	EnrollmentID     uint          `json:"enrollment_id"`
	FamilyName       string        `json:"family_name"`
	ParentFirstName  string        `json:"parent_first_name"`
	StudentName      string        `json:"student_name"`
	StudentFirstName string        `json:"student_first_name"`
	Items            []PendingItem `json:"items"`
}

// PendingItems returns all not-yet-completed onboarding items for an
// enrollment, each reduced to name, url, and type.
func (s *OnboardingService) PendingItems(enrollmentID uint) (*PendingItemsResult, error) {
	if enrollmentID == 0 {
		return nil, ErrValidation
	}
	enrollment, err := s.enrollmentRepo.GetByID(enrollmentID)
	if err != nil {
		onboardingLogger("enrollment_id", enrollmentID).Errorw("onboarding_enrollment_fetch_failed", "error", err)
		return nil, ErrUpstreamUnavailable
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}

	items, err := s.onboardingRepo.ListPendingByEnrollmentID(enrollmentID)
	if err != nil {
		onboardingLogger("enrollment_id", enrollmentID).Errorw("onboarding_items_fetch_failed", "error", err)
		return nil, ErrUpstreamUnavailable
	}

	result := &PendingItemsResult{
		EnrollmentID: enrollmentID,
		Items:        make([]PendingItem, 0, len(items)),
	}
	if enrollment.Family != nil {
		result.FamilyName = enrollment.Family.Name
		result.ParentFirstName = firstName(enrollment.Family.Name)
	}
	if enrollment.Student != nil {
		result.StudentName = enrollment.Student.Name
		result.StudentFirstName = firstName(enrollment.Student.Name)
	}
	for _, item := range items {
		url := item.FormURL
		if url == "" {
			url = item.DocumentURL
		}
		result.Items = append(result.Items, PendingItem{
			Name: item.Name,
			URL:  url,
			Type: item.ItemType,
		})
	}
	return result, nil
}

// CheckStatusResult reports the outcome of an external completion check.
type CheckStatusResult struct {
	EnrollmentID uint `json:"enrollment_id"`
	Checked      bool `json:"checked"`
	PendingCount int  `json:"pending_count"`
	Completed    int  `json:"completed"`
}

type formCheckRequest struct {
	EnrollmentID uint            `json:"enrollment_id"`
	Forms        []formCheckItem `json:"forms"`
}

type formCheckItem struct {
	ItemID uint   `json:"item_id"`
	FormID string `json:"form_id"`
}

type formCheckResponse struct {
	CompletedFormIDs []string `json:"completed_form_ids"`
}

// CheckStatus forwards sent form items to the configured form-check webhook
// and marks whichever ones it reports completed. When no webhook URL is
// configured the check is a no-op that reports the pending count only.
func (s *OnboardingService) CheckStatus(ctx context.Context, enrollmentID uint) (*CheckStatusResult, error) {
	log := onboardingLogger("enrollment_id", enrollmentID)
	if enrollmentID == 0 {
		return nil, ErrValidation
	}
	enrollment, err := s.enrollmentRepo.GetByID(enrollmentID)
	if err != nil {
		log.Errorw("onboarding_enrollment_fetch_failed", "error", err)
		return nil, ErrUpstreamUnavailable
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}

	items, err := s.onboardingRepo.ListSentFormsByEnrollmentID(enrollmentID)
	if err != nil {
		log.Errorw("onboarding_items_fetch_failed", "error", err)
		return nil, ErrUpstreamUnavailable
	}
	result := &CheckStatusResult{
		EnrollmentID: enrollmentID,
		PendingCount: len(items),
	}

	checkURL := strings.TrimSpace(s.cfg.FormCheckURL)
	if checkURL == "" || len(items) == 0 {
		return result, nil
	}

	payload := formCheckRequest{EnrollmentID: enrollmentID}
	itemsByFormID := make(map[string]uint, len(items))
	for _, item := range items {
		payload.Forms = append(payload.Forms, formCheckItem{ItemID: item.ID, FormID: item.FormID})
		itemsByFormID[item.FormID] = item.ID
	}

	completedFormIDs, err := s.callFormCheck(ctx, checkURL, payload)
	if err != nil {
		log.Errorw("onboarding_form_check_failed", "error", err)
		return nil, ErrFormCheckFailed
	}
	result.Checked = true

	ids := make([]uint, 0, len(completedFormIDs))
	for _, formID := range completedFormIDs {
		if itemID, ok := itemsByFormID[strings.TrimSpace(formID)]; ok {
			ids = append(ids, itemID)
		}
	}
	if len(ids) > 0 {
		moved, err := s.onboardingRepo.MarkCompleted(ids, time.Now().UTC())
		if err != nil {
			log.Errorw("onboarding_mark_completed_failed", "error", err)
			return nil, ErrUpstreamUnavailable
		}
		result.Completed = int(moved)
		result.PendingCount = len(items) - result.Completed
	}

	log.Infow("onboarding_status_checked",
		"pending", result.PendingCount,
		"completed", result.Completed,
	)
	return result, nil
}

func (s *OnboardingService) callFormCheck(ctx context.Context, checkURL string, payload formCheckRequest) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, checkURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("form check status %d", resp.StatusCode)
	}
	var decoded formCheckResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, err
	}
	return decoded.CompletedFormIDs, nil
}

// firstName extracts a display first name, handling the roster system's
// "Last, First" stored convention.
func firstName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if idx := strings.Index(name, ","); idx >= 0 {
		name = strings.TrimSpace(name[idx+1:])
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
