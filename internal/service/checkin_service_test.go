package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/models"
	"github.com/studieplein/presentie-api/internal/schedule"
	"github.com/studieplein/presentie-api/internal/vclock"
	"github.com/studieplein/presentie-api/pkg/config"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
)

type mockTimetableRepo struct {
	timetables []models.Timetable
}

func (m *mockTimetableRepo) ListByGroup(ctx context.Context, groupID string) ([]models.Timetable, error) {
	return m.timetables, nil
}

type mockCheckinStudentRepo struct {
	byCode map[string]*models.Student
}

func (m *mockCheckinStudentRepo) FindByCode(ctx context.Context, code string) (*models.Student, error) {
	if s, ok := m.byCode[code]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockRecordRepo struct {
	created []*models.AttendanceRecord
	forHour []models.AttendanceRecord
	causes  []models.Cause
}

func (m *mockRecordRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	m.created = append(m.created, record)
	return nil
}

func (m *mockRecordRepo) ListForHourOnDate(ctx context.Context, studentID, hourID string, date time.Time) ([]models.AttendanceRecord, error) {
	return m.forHour, nil
}

func (m *mockRecordRepo) ListCauses(ctx context.Context) ([]models.Cause, error) {
	return m.causes, nil
}

// mondayTimetable has a single Monday slot 08:30-09:15 over the school
// year. 2022/01/17 is a Monday.
func mondayTimetable() []models.Timetable {
	return []models.Timetable{{
		ID:        "tt-1",
		Label:     "regular",
		DateStart: time.Date(2021, 8, 30, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC),
		Hours: []models.HourSlot{
			{ID: "mon-1", TimetableID: "tt-1", DayOfWeek: 0, Ordinal: 1, TimeStart: "08:30", TimeEnd: "09:15", Course: "wiskunde", Level: "havo"},
		},
	}}
}

func newCheckinFixture(t *testing.T, clockTime string, demoMode bool, records *mockRecordRepo) *CheckinService {
	t.Helper()

	clock, err := vclock.New(vclock.Defaults{Date: "2022/01/17", Time: clockTime})
	require.NoError(t, err)

	cache := NewCacheService(nil, nil, 0, zap.NewNop(), false)
	schedules := NewScheduleService(&mockTimetableRepo{timetables: mondayTimetable()}, cache, clock, zap.NewNop())

	students := &mockCheckinStudentRepo{byCode: map[string]*models.Student{
		"100042": {ID: "stu-1", Code: "100042", PasswordHash: hashOf(t, "geheim"), NameFirst: "Bram", NameLast: "de Jong", GroupID: "group-1"},
	}}

	return NewCheckinService(
		students,
		records,
		schedules,
		schedule.NewClassifier(5, 30),
		validator.New(),
		zap.NewNop(),
		nil,
		config.AttendanceConfig{MaxLateMinutes: 5, MaxAbsentMinutes: 30, DemoMode: demoMode},
	)
}

func TestCheckInOnTime(t *testing.T) {
	records := &mockRecordRepo{}
	svc := newCheckinFixture(t, "08:33", true, records)

	res, err := svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "100042", Password: "geheim"})
	require.NoError(t, err)
	assert.Equal(t, dto.CheckinOutcomePresent, res.Outcome)
	require.Len(t, records.created, 1)
	assert.False(t, records.created[0].Late)
	assert.False(t, records.created[0].Absent)
	assert.Equal(t, "08:33", records.created[0].Time)
}

func TestCheckInLateNeedsCause(t *testing.T) {
	records := &mockRecordRepo{causes: []models.Cause{{ID: "cause-1", Label: "overslept"}}}
	svc := newCheckinFixture(t, "08:40", true, records)

	res, err := svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "100042", Password: "geheim"})
	require.NoError(t, err)
	assert.Equal(t, dto.CheckinOutcomeNeedCause, res.Outcome)
	assert.NotEmpty(t, res.Causes)
	assert.Empty(t, records.created, "nothing committed until a cause is given")
	require.NotNil(t, res.MinutesLate)
	assert.Equal(t, 10, *res.MinutesLate)
}

func TestCheckInLateWithCause(t *testing.T) {
	records := &mockRecordRepo{}
	svc := newCheckinFixture(t, "08:40", true, records)

	causeID := "cause-1"
	res, err := svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "100042", Password: "geheim", CauseID: &causeID})
	require.NoError(t, err)
	assert.Equal(t, dto.CheckinOutcomeLate, res.Outcome)
	require.Len(t, records.created, 1)
	assert.True(t, records.created[0].Late)
	require.NotNil(t, records.created[0].Delay)
	assert.Equal(t, 10, *records.created[0].Delay)
	assert.Equal(t, &causeID, records.created[0].CauseID)
}

func TestCheckInAbsent(t *testing.T) {
	records := &mockRecordRepo{causes: []models.Cause{{ID: "cause-1", Label: "overslept"}}}
	svc := newCheckinFixture(t, "09:05", true, records)

	// past the absence threshold the cause form still comes first
	res, err := svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "100042", Password: "geheim"})
	require.NoError(t, err)
	assert.Equal(t, dto.CheckinOutcomeNeedCause, res.Outcome)
	assert.NotEmpty(t, res.Causes)
	assert.Empty(t, records.created)

	causeID := "cause-1"
	res, err = svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "100042", Password: "geheim", CauseID: &causeID})
	require.NoError(t, err)
	assert.Equal(t, dto.CheckinOutcomeAbsent, res.Outcome)
	require.Len(t, records.created, 1)
	assert.True(t, records.created[0].Absent)
	assert.Equal(t, &causeID, records.created[0].CauseID)
}

func TestCheckInOutsideAnyHour(t *testing.T) {
	records := &mockRecordRepo{}
	svc := newCheckinFixture(t, "12:00", true, records)

	res, err := svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "100042", Password: "geheim"})
	require.NoError(t, err)
	assert.Equal(t, dto.CheckinOutcomeNoHour, res.Outcome)
	assert.Empty(t, records.created)

	// the terminal still shows the student when the next lesson is;
	// with today's lessons done the date advances off today
	require.NotNil(t, res.Schedule)
	assert.False(t, res.Schedule.LessonsToday)
	require.NotNil(t, res.Schedule.NextHourDate)
	assert.Equal(t, "2022/01/18", *res.Schedule.NextHourDate)
	assert.Equal(t, "tuesday", res.Schedule.NextHourDay)
}

func TestCheckInDuplicateRejectedOutsideDemoMode(t *testing.T) {
	records := &mockRecordRepo{forHour: []models.AttendanceRecord{{
		ID: "rec-1", StudentID: "stu-1", HourID: "mon-1",
		Date: time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC), Time: "08:31",
	}}}
	svc := newCheckinFixture(t, "08:33", false, records)

	_, err := svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "100042", Password: "geheim"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyCheckedIn.Code, appErrors.FromError(err).Code)
	assert.Empty(t, records.created)
}

func TestCheckInUnknownCode(t *testing.T) {
	svc := newCheckinFixture(t, "08:33", true, &mockRecordRepo{})

	_, err := svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "999999", Password: "geheim"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCheckInWrongPassword(t *testing.T) {
	records := &mockRecordRepo{}
	svc := newCheckinFixture(t, "08:33", true, records)

	_, err := svc.CheckIn(context.Background(), dto.CheckinRequest{Code: "100042", Password: "fout"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Empty(t, records.created)
}
