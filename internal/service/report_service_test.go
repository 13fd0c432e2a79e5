package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/models"
	"github.com/studieplein/presentie-api/internal/vclock"
	"github.com/studieplein/presentie-api/pkg/export"
)

type mockReportStudentRepo struct {
	byCode map[string]*models.Student
}

func (m *mockReportStudentRepo) FindByCode(ctx context.Context, code string) (*models.Student, error) {
	if s, ok := m.byCode[code]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockReportGroupRepo struct {
	byID map[string]*models.Group
}

func (m *mockReportGroupRepo) FindByID(ctx context.Context, id string) (*models.Group, error) {
	if g, ok := m.byID[id]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

type mockReportRecordRepo struct {
	records []models.RecordWithCause
}

func (m *mockReportRecordRepo) ListByStudent(ctx context.Context, studentID string) ([]models.RecordWithCause, error) {
	return m.records, nil
}

func newReportFixture(t *testing.T, records []models.RecordWithCause) *ReportService {
	t.Helper()

	clock, err := vclock.New(vclock.Defaults{Date: "2022/01/17", Time: "15:30"})
	require.NoError(t, err)
	cache := NewCacheService(nil, nil, 0, zap.NewNop(), false)
	schedules := NewScheduleService(&mockTimetableRepo{timetables: mondayTimetable()}, cache, clock, zap.NewNop())

	students := &mockReportStudentRepo{byCode: map[string]*models.Student{
		"100042": {ID: "stu-1", Code: "100042", NameFirst: "Bram", NameLast: "de Jong", Year: 3, Level: "havo", GroupID: "group-1"},
	}}
	groups := &mockReportGroupRepo{byID: map[string]*models.Group{
		"group-1": {ID: "group-1", Label: "H3a", Year: 3, Level: "havo"},
	}}

	yearStart := time.Date(2021, 8, 30, 0, 0, 0, 0, time.UTC)
	return NewReportService(students, groups, &mockReportRecordRepo{records: records},
		schedules, yearStart, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())
}

func reportRecords() []models.RecordWithCause {
	causeID := "cause-1"
	causeLabel := "overslept"
	return []models.RecordWithCause{
		{AttendanceRecord: models.AttendanceRecord{ID: "rec-1", StudentID: "stu-1", HourID: "mon-1",
			Date: time.Date(2021, 9, 6, 0, 0, 0, 0, time.UTC), Time: "08:31"}},
		{AttendanceRecord: models.AttendanceRecord{ID: "rec-2", StudentID: "stu-1", HourID: "mon-1",
			Date: time.Date(2021, 9, 13, 0, 0, 0, 0, time.UTC), Time: "08:40", Late: true, Delay: intPtr(10), CauseID: &causeID},
			CauseLabel: &causeLabel},
		{AttendanceRecord: models.AttendanceRecord{ID: "rec-3", StudentID: "stu-1", HourID: "mon-1",
			Date: time.Date(2021, 9, 20, 0, 0, 0, 0, time.UTC), Time: "09:10", Late: true, Absent: true, Delay: intPtr(40)}},
	}
}

func TestReportTotalsAndCauses(t *testing.T) {
	svc := newReportFixture(t, reportRecords())

	report, err := svc.Report(context.Background(), "100042")
	require.NoError(t, err)

	assert.Equal(t, "Bram de Jong", report.FullName)
	assert.Equal(t, "H3a", report.GroupLabel)

	// one Monday slot every week from 2021/08/30 through the clock's
	// 2022/01/17: 21 Mondays elapsed so far
	assert.Equal(t, 21, report.Totals.HoursInYear)
	assert.Equal(t, 3, report.Totals.Records)
	assert.Equal(t, 1, report.Totals.Present)
	assert.Equal(t, 1, report.Totals.Late)
	assert.Equal(t, 1, report.Totals.Absent)
	assert.Equal(t, 18, report.Totals.AbsentUnknown)
	assert.Equal(t, 50, report.Totals.TotalMinutesLate)

	assert.InDelta(t, 100.0/21, report.Percentages.Present, 0.001)
	assert.InDelta(t, 100.0/21, report.Percentages.Late, 0.001)

	require.Len(t, report.Causes, 1)
	assert.Equal(t, "overslept", report.Causes[0].Label)
	assert.Equal(t, 1, report.Causes[0].Count)
}

func TestReportStopsAtTheClock(t *testing.T) {
	records := append(reportRecords(), models.RecordWithCause{
		AttendanceRecord: models.AttendanceRecord{ID: "rec-future", StudentID: "stu-1", HourID: "mon-1",
			Date: time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC), Time: "08:31"},
	})
	svc := newReportFixture(t, records)

	report, err := svc.Report(context.Background(), "100042")
	require.NoError(t, err)

	// the clock sits on 2022/01/17: the May record has not happened yet
	assert.Equal(t, 3, report.Totals.Records)
	assert.Equal(t, 1, report.Totals.Present)
	assert.Equal(t, 21, report.Totals.HoursInYear)
	require.Len(t, report.Records, 3)
	for _, rec := range report.Records {
		assert.False(t, rec.Datetime().After(time.Date(2022, 1, 17, 15, 30, 0, 0, time.UTC)))
	}
}

func TestReportUnknownStudent(t *testing.T) {
	svc := newReportFixture(t, nil)

	_, err := svc.Report(context.Background(), "999999")
	require.Error(t, err)
}

func TestReportExportCSV(t *testing.T) {
	svc := newReportFixture(t, reportRecords())

	payload, filename, err := svc.ExportCSV(context.Background(), "100042")
	require.NoError(t, err)
	assert.Equal(t, "attendance-100042.csv", filename)

	content := string(payload)
	assert.True(t, strings.HasPrefix(content, "date,time,status"))
	assert.Contains(t, content, "2021/09/13,08:40,late,10,overslept")
	assert.Contains(t, content, "2021/09/20,09:10,absent,40")
}

func TestReportExportPDF(t *testing.T) {
	svc := newReportFixture(t, reportRecords())

	payload, filename, err := svc.ExportPDF(context.Background(), "100042")
	require.NoError(t, err)
	assert.Equal(t, "attendance-100042.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
