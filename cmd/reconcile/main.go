package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brightpods/admin-api/internal/config"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"
	"github.com/brightpods/admin-api/internal/service"
)

// One-shot operator tool: diff a CSV roster export against trial and active
// enrollments and list the students the roster expects but the system lacks.
func main() {
	csvPath := flag.String("csv", "", "path to the roster CSV export")
	nameColumn := flag.String("name-column", "student_name", "header name of the student name column")
	gradeColumn := flag.String("grade-column", "grade", "header name of the grade column (optional)")
	flag.Parse()

	if strings.TrimSpace(*csvPath) == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -csv roster.csv [-name-column student_name] [-grade-column grade]")
		os.Exit(2)
	}

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns: cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns: cfg.Database.Pool.MaxIdleConns,
	}); err != nil {
		logger.Errorw("db_init_failed", "error", err)
		os.Exit(1)
	}

	entries, err := readRoster(*csvPath, *nameColumn, *gradeColumn)
	if err != nil {
		logger.Errorw("roster_read_failed", "csv", *csvPath, "error", err)
		os.Exit(1)
	}

	svc := service.NewReconcileService(repository.NewEnrollmentRepository(models.DB))
	diff, err := svc.MissingFromRoster(entries)
	if err != nil {
		logger.Errorw("roster_diff_failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("roster entries: %d\n", diff.TotalRoster)
	fmt.Printf("matched:        %d\n", diff.Matched)
	fmt.Printf("missing:        %d\n", len(diff.Missing))
	for _, entry := range diff.Missing {
		if entry.Grade != "" {
			fmt.Printf("  - %s (grade %s)\n", entry.Name, entry.Grade)
		} else {
			fmt.Printf("  - %s\n", entry.Name)
		}
	}
	if len(diff.Missing) > 0 {
		os.Exit(1)
	}
}

// readRoster parses the CSV, locating columns by header name. Rows with an
// empty name cell are skipped.
func readRoster(path, nameColumn, gradeColumn string) ([]service.RosterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	nameIdx, gradeIdx := -1, -1
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case strings.ToLower(nameColumn):
			nameIdx = i
		case strings.ToLower(gradeColumn):
			gradeIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("column %q not found in header", nameColumn)
	}

	var entries []service.RosterEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if nameIdx >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			continue
		}
		entry := service.RosterEntry{Name: name}
		if gradeIdx >= 0 && gradeIdx < len(record) {
			entry.Grade = strings.TrimSpace(record[gradeIdx])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
