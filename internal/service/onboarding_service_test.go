package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brightpods/admin-api/internal/config"
	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOnboardingServiceTest(t *testing.T, cfg config.AutomationConfig) (*OnboardingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:onboarding_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Family{},
		&models.Student{},
		&models.Enrollment{},
		&models.OnboardingItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	svc := NewOnboardingService(
		repository.NewEnrollmentRepository(db),
		repository.NewOnboardingRepository(db),
		cfg,
	)
	return svc, db
}

func seedOnboardingEnrollment(t *testing.T, db *gorm.DB) *models.Enrollment {
	t.Helper()
	family := models.Family{
		Name:   "Miranda, Elena",
		Email:  "elena.miranda@example.com",
		Status: constants.FamilyStatusActive,
	}
	if err := db.Create(&family).Error; err != nil {
		t.Fatalf("create family failed: %v", err)
	}
	student := models.Student{FamilyID: family.ID, Name: "Miranda, Victor", Grade: "5"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student failed: %v", err)
	}
	enrollment := models.Enrollment{
		FamilyID:  family.ID,
		StudentID: student.ID,
		Program:   "math-pod",
		Status:    constants.EnrollmentStatusActive,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("create enrollment failed: %v", err)
	}
	return &enrollment
}

func TestPendingItemsReducesAndExtractsFirstNames(t *testing.T) {
	svc, db := setupOnboardingServiceTest(t, config.AutomationConfig{})
	enrollment := seedOnboardingEnrollment(t, db)

	items := []models.OnboardingItem{
		{
			EnrollmentID: enrollment.ID,
			Name:         "Intake form",
			ItemType:     constants.OnboardingItemTypeForm,
			Status:       constants.OnboardingStatusSent,
			FormID:       "frm_intake",
			FormURL:      "https://forms.example.com/intake",
		},
		{
			EnrollmentID: enrollment.ID,
			Name:         "Liability waiver",
			ItemType:     constants.OnboardingItemTypeDocument,
			Status:       constants.OnboardingStatusPending,
			DocumentURL:  "https://docs.example.com/waiver.pdf",
		},
		{
			EnrollmentID: enrollment.ID,
			Name:         "Completed form",
			ItemType:     constants.OnboardingItemTypeForm,
			Status:       constants.OnboardingStatusCompleted,
			FormID:       "frm_done",
		},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create item failed: %v", err)
		}
	}

	result, err := svc.PendingItems(enrollment.ID)
	if err != nil {
		t.Fatalf("pending items failed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(result.Items))
	}
	if result.Items[0].URL != "https://forms.example.com/intake" {
		t.Fatalf("form url expected, got %s", result.Items[0].URL)
	}
	if result.Items[1].URL != "https://docs.example.com/waiver.pdf" {
		t.Fatalf("document url expected, got %s", result.Items[1].URL)
	}
	if result.ParentFirstName != "Elena" {
		t.Fatalf("parent first name want Elena got %s", result.ParentFirstName)
	}
	if result.StudentFirstName != "Victor" {
		t.Fatalf("student first name want Victor got %s", result.StudentFirstName)
	}
}

func TestPendingItemsEnrollmentNotFound(t *testing.T) {
	svc, _ := setupOnboardingServiceTest(t, config.AutomationConfig{})

	_, err := svc.PendingItems(12345)
	if !errors.Is(err, ErrEnrollmentNotFound) {
		t.Fatalf("want ErrEnrollmentNotFound got %v", err)
	}
}

func TestCheckStatusNoopWithoutConfiguredURL(t *testing.T) {
	svc, db := setupOnboardingServiceTest(t, config.AutomationConfig{})
	enrollment := seedOnboardingEnrollment(t, db)

	item := models.OnboardingItem{
		EnrollmentID: enrollment.ID,
		Name:         "Intake form",
		ItemType:     constants.OnboardingItemTypeForm,
		Status:       constants.OnboardingStatusSent,
		FormID:       "frm_intake",
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	result, err := svc.CheckStatus(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("check status failed: %v", err)
	}
	if result.Checked {
		t.Fatalf("unconfigured check must be a no-op")
	}
	if result.PendingCount != 1 {
		t.Fatalf("pending count want 1 got %d", result.PendingCount)
	}

	var reloaded models.OnboardingItem
	if err := db.First(&reloaded, item.ID).Error; err != nil {
		t.Fatalf("reload item failed: %v", err)
	}
	if reloaded.Status != constants.OnboardingStatusSent {
		t.Fatalf("item status must be untouched, got %s", reloaded.Status)
	}
}

func TestCheckStatusMarksReportedFormsCompleted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req formCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if len(req.Forms) != 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(formCheckResponse{
			CompletedFormIDs: []string{"frm_intake"},
		})
	}))
	defer server.Close()

	svc, db := setupOnboardingServiceTest(t, config.AutomationConfig{FormCheckURL: server.URL})
	enrollment := seedOnboardingEnrollment(t, db)

	sentItems := []models.OnboardingItem{
		{
			EnrollmentID: enrollment.ID,
			Name:         "Intake form",
			ItemType:     constants.OnboardingItemTypeForm,
			Status:       constants.OnboardingStatusSent,
			FormID:       "frm_intake",
		},
		{
			EnrollmentID: enrollment.ID,
			Name:         "Media release",
			ItemType:     constants.OnboardingItemTypeForm,
			Status:       constants.OnboardingStatusSent,
			FormID:       "frm_media",
		},
	}
	for i := range sentItems {
		if err := db.Create(&sentItems[i]).Error; err != nil {
			t.Fatalf("create item failed: %v", err)
		}
	}

	result, err := svc.CheckStatus(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("check status failed: %v", err)
	}
	if !result.Checked {
		t.Fatalf("check must run against the configured URL")
	}
	if result.Completed != 1 {
		t.Fatalf("completed want 1 got %d", result.Completed)
	}
	if result.PendingCount != 1 {
		t.Fatalf("pending count want 1 got %d", result.PendingCount)
	}

	var completed models.OnboardingItem
	if err := db.Where("form_id = ?", "frm_intake").First(&completed).Error; err != nil {
		t.Fatalf("reload completed item failed: %v", err)
	}
	if completed.Status != constants.OnboardingStatusCompleted {
		t.Fatalf("item status want completed got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatalf("completed item must carry completed_at")
	}
}
