package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReconcileServiceTest(t *testing.T) (*ReconcileService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:reconcile_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Family{},
		&models.Student{},
		&models.Enrollment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewReconcileService(repository.NewEnrollmentRepository(db)), db
}

func seedEnrolledStudent(t *testing.T, db *gorm.DB, studentName, status string) {
	t.Helper()
	family := models.Family{
		Name:   "Family " + studentName,
		Email:  fmt.Sprintf("fam_%d@example.com", time.Now().UnixNano()),
		Status: constants.FamilyStatusActive,
	}
	if err := db.Create(&family).Error; err != nil {
		t.Fatalf("create family failed: %v", err)
	}
	student := models.Student{FamilyID: family.ID, Name: studentName}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student failed: %v", err)
	}
	enrollment := models.Enrollment{
		FamilyID:  family.ID,
		StudentID: student.ID,
		Status:    status,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("create enrollment failed: %v", err)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Miranda, Victor", "miranda victor"},
		{"  VICTOR   MIRANDA ", "victor miranda"},
		{"O'Brien, Anne-Marie", "o brien anne marie"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Fatalf("NormalizeName(%q) want %q got %q", tc.in, tc.want, got)
		}
	}
}

func TestMissingFromRosterMatchesBothOrderings(t *testing.T) {
	svc, db := setupReconcileServiceTest(t)
	seedEnrolledStudent(t, db, "Miranda, Victor", constants.EnrollmentStatusActive)
	seedEnrolledStudent(t, db, "Chen, Lily", constants.EnrollmentStatusTrial)
	// Ended enrollments do not count as enrolled.
	seedEnrolledStudent(t, db, "Okafor, Sam", constants.EnrollmentStatusEnded)

	diff, err := svc.MissingFromRoster([]RosterEntry{
		{Name: "Victor Miranda", Grade: "5"},
		{Name: "lily chen", Grade: "4"},
		{Name: "Sam Okafor", Grade: "6"},
		{Name: "Dana Unknown", Grade: "3"},
	})
	if err != nil {
		t.Fatalf("missing from roster failed: %v", err)
	}
	if diff.TotalRoster != 4 {
		t.Fatalf("total want 4 got %d", diff.TotalRoster)
	}
	if diff.Matched != 2 {
		t.Fatalf("matched want 2 got %d", diff.Matched)
	}
	if len(diff.Missing) != 2 {
		t.Fatalf("missing want 2 got %d", len(diff.Missing))
	}
	missingNames := map[string]bool{}
	for _, entry := range diff.Missing {
		missingNames[entry.Name] = true
	}
	if !missingNames["Sam Okafor"] || !missingNames["Dana Unknown"] {
		t.Fatalf("unexpected missing set: %+v", diff.Missing)
	}
}
