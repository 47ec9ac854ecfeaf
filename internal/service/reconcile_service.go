package service

import (
	"strings"
	"unicode"

	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/repository"
)

// ReconcileService diffs an expected roster against live enrollments.
type ReconcileService struct {
	enrollmentRepo repository.EnrollmentRepository
}

// NewReconcileService creates a reconcile service.
func NewReconcileService(enrollmentRepo repository.EnrollmentRepository) *ReconcileService {
	return &ReconcileService{enrollmentRepo: enrollmentRepo}
}

// RosterEntry is one expected enrollee from the operator-supplied roster.
type RosterEntry struct {
	Name  string
	Grade string
}

// RosterDiff reports roster entries without a matching trial or active
// enrollment.
type RosterDiff struct {
	TotalRoster int
	Matched     int
	Missing     []RosterEntry
}

// MissingFromRoster compares each roster entry against enrolled student names
// using normalized-name matching. A roster "Victor Miranda" matches a stored
// "Miranda, Victor".
func (s *ReconcileService) MissingFromRoster(entries []RosterEntry) (*RosterDiff, error) {
	enrollments, err := s.enrollmentRepo.ListOpenWithStudents()
	if err != nil {
		logger.Errorw("reconcile_enrollment_list_failed", "error", err)
		return nil, ErrUpstreamUnavailable
	}

	enrolled := make(map[string]struct{})
	for _, enrollment := range enrollments {
		if enrollment.Student == nil {
			continue
		}
		for _, key := range nameKeys(enrollment.Student.Name) {
			enrolled[key] = struct{}{}
		}
	}

	diff := &RosterDiff{TotalRoster: len(entries)}
	for _, entry := range entries {
		if matchesAny(entry.Name, enrolled) {
			diff.Matched++
			continue
		}
		diff.Missing = append(diff.Missing, entry)
	}
	return diff, nil
}

func matchesAny(name string, enrolled map[string]struct{}) bool {
	for _, key := range nameKeys(name) {
		if _, ok := enrolled[key]; ok {
			return true
		}
	}
	return false
}

// NormalizeName casefolds, strips punctuation, and collapses whitespace so
// formatting differences never break a match.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == ',' || r == '.' || r == '-' || r == '\'':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// nameKeys returns the normalized name in both orderings. A stored
// "Last, First" yields both "last first" and "first last".
func nameKeys(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	keys := make([]string, 0, 2)
	direct := NormalizeName(name)
	if direct != "" {
		keys = append(keys, direct)
	}
	if idx := strings.Index(name, ","); idx >= 0 {
		flipped := NormalizeName(strings.TrimSpace(name[idx+1:]) + " " + strings.TrimSpace(name[:idx]))
		if flipped != "" && flipped != direct {
			keys = append(keys, flipped)
		}
	} else {
		// "First [Middle] Last" also matches a stored "Last, First ...".
		fields := strings.Fields(direct)
		if len(fields) >= 2 {
			flipped := strings.Join(append([]string{fields[len(fields)-1]}, fields[:len(fields)-1]...), " ")
			if flipped != direct {
				keys = append(keys, flipped)
			}
		}
	}
	return keys
}
