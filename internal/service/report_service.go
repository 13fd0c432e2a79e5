package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/models"
	"github.com/studieplein/presentie-api/internal/vclock"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
	"github.com/studieplein/presentie-api/pkg/export"
)

type reportStudentRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Student, error)
}

type reportGroupRepository interface {
	FindByID(ctx context.Context, id string) (*models.Group, error)
}

type reportRecordRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.RecordWithCause, error)
}

// ReportService builds per-student year reports and their exports. All
// tallies run up to the virtual instant: scheduled hours stop counting at
// the instant and later records are left out.
type ReportService struct {
	students  reportStudentRepository
	groups    reportGroupRepository
	records   reportRecordRepository
	schedules *ScheduleService
	yearStart time.Time
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewReportService constructs a ReportService. yearStart bounds the
// hours-so-far count from below; a zero value defers to each timetable's
// own start date.
func NewReportService(
	students reportStudentRepository,
	groups reportGroupRepository,
	records reportRecordRepository,
	schedules *ScheduleService,
	yearStart time.Time,
	csv *export.CSVExporter,
	pdf *export.PDFExporter,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		students:  students,
		groups:    groups,
		records:   records,
		schedules: schedules,
		yearStart: yearStart,
		csv:       csv,
		pdf:       pdf,
		logger:    logger,
	}
}

// Report assembles the student's year report: totals against the number
// of scheduled hours, percentages, the lateness-cause histogram, and the
// full record list.
func (s *ReportService) Report(ctx context.Context, code string) (*dto.StudentReport, error) {
	student, err := s.students.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown student code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	group, err := s.groups.FindByID(ctx, student.GroupID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group")
	}

	resolver, err := s.schedules.ResolverForGroup(ctx, student.GroupID)
	if err != nil {
		return nil, err
	}

	all, err := s.records.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}

	instant := s.schedules.Now()
	records := make([]models.RecordWithCause, 0, len(all))
	for _, rec := range all {
		if !rec.Datetime().After(instant) {
			records = append(records, rec)
		}
	}

	totals := dto.ReportTotals{
		HoursInYear: scheduledHourCount(resolver.Timetables(), s.yearStart, instant),
		Records:     len(records),
	}
	causeCounts := make(map[string]*dto.CauseCount)
	for _, rec := range records {
		switch {
		case rec.Absent:
			totals.Absent++
		case rec.Late:
			totals.Late++
		default:
			totals.Present++
		}
		if rec.Delay != nil {
			totals.TotalMinutesLate += *rec.Delay
		}
		if rec.CauseID != nil {
			count, ok := causeCounts[*rec.CauseID]
			if !ok {
				count = &dto.CauseCount{CauseID: *rec.CauseID}
				if rec.CauseLabel != nil {
					count.Label = *rec.CauseLabel
				}
				causeCounts[*rec.CauseID] = count
			}
			count.Count++
		}
	}

	if unknown := totals.HoursInYear - totals.Present - totals.Late - totals.Absent; unknown > 0 {
		totals.AbsentUnknown = unknown
	}

	causes := make([]dto.CauseCount, 0, len(causeCounts))
	for _, count := range causeCounts {
		causes = append(causes, *count)
	}
	sort.Slice(causes, func(i, j int) bool {
		if causes[i].Count != causes[j].Count {
			return causes[i].Count > causes[j].Count
		}
		return causes[i].Label < causes[j].Label
	})

	report := &dto.StudentReport{
		StudentID:   student.ID,
		Code:        student.Code,
		FullName:    student.FullName(),
		Year:        student.Year,
		Level:       student.Level,
		Totals:      totals,
		Percentages: reportPercentages(totals),
		Causes:      causes,
		Records:     records,
	}
	if group != nil {
		report.GroupLabel = group.Label
	}
	return report, nil
}

// ExportCSV renders the student's record list as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, code string) ([]byte, string, error) {
	report, err := s.Report(ctx, code)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(reportDataset(report))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, fmt.Sprintf("attendance-%s.csv", report.Code), nil
}

// ExportPDF renders the student's record list as a tabular PDF.
func (s *ReportService) ExportPDF(ctx context.Context, code string) ([]byte, string, error) {
	report, err := s.Report(ctx, code)
	if err != nil {
		return nil, "", err
	}
	title := fmt.Sprintf("Attendance %s (%s)", report.FullName, report.Code)
	payload, err := s.pdf.Render(reportDataset(report), title)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, fmt.Sprintf("attendance-%s.pdf", report.Code), nil
}

// scheduledHourCount walks every timetable day by day and sums the slots
// scheduled on each weekday, bounded below by the school-year start and
// above by the instant: only hours elapsed so far count.
func scheduledHourCount(timetables []models.Timetable, yearStart, instant time.Time) int {
	today := models.Midnight(instant)
	total := 0
	for _, tt := range timetables {
		start := models.Midnight(tt.DateStart)
		if !yearStart.IsZero() && models.Midnight(yearStart).After(start) {
			start = models.Midnight(yearStart)
		}
		end := models.Midnight(tt.DateEnd)
		if today.Before(end) {
			end = today
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			total += len(tt.HoursOnDay(models.WeekdayIndex(d)))
		}
	}
	return total
}

func reportPercentages(totals dto.ReportTotals) dto.ReportPercentages {
	if totals.HoursInYear == 0 {
		return dto.ReportPercentages{}
	}
	hours := float64(totals.HoursInYear)
	return dto.ReportPercentages{
		Present: float64(totals.Present) / hours * 100,
		Late:    float64(totals.Late) / hours * 100,
		Absent:  float64(totals.Absent) / hours * 100,
	}
}

func reportDataset(report *dto.StudentReport) export.Dataset {
	headers := []string{"date", "time", "status", "minutes_late", "cause", "reasoning"}
	rows := make([]map[string]string, 0, len(report.Records))
	for _, rec := range report.Records {
		status := "present"
		switch {
		case rec.Absent:
			status = "absent"
		case rec.Late:
			status = "late"
		}
		row := map[string]string{
			"date":   vclock.FormatDate(rec.Date),
			"time":   rec.Time,
			"status": status,
		}
		if rec.Delay != nil {
			row["minutes_late"] = fmt.Sprintf("%d", *rec.Delay)
		}
		if rec.CauseLabel != nil {
			row["cause"] = *rec.CauseLabel
		}
		if rec.Reasoning != nil {
			row["reasoning"] = *rec.Reasoning
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
