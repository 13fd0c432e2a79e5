package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studieplein/presentie-api/internal/models"
)

func TestRecordRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectExec("INSERT INTO records").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.AttendanceRecord{
		StudentID: "stu-1",
		HourID:    "h1",
		Date:      time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC),
		Time:      "08:40",
		Late:      true,
	}
	err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID, "missing ID gets generated")
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryListForHourOnDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	date := time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "hour_id", "cause_id", "date", "time", "absent", "late", "delay", "reasoning", "created_at"}).
		AddRow("rec-1", "stu-1", "h1", nil, date, "08:32", false, false, nil, nil, time.Now()).
		AddRow("rec-2", "stu-1", "h1", nil, date, "08:40", false, true, 10, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, hour_id, cause_id, date, time, absent, late, delay, reasoning, created_at")).
		WithArgs("stu-1", "h1", date).
		WillReturnRows(rows)

	records, err := repo.ListForHourOnDate(context.Background(), "stu-1", "h1", date)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "08:32", records[0].Time)
	assert.True(t, records[1].Late)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	causeLabel := "overslept"
	rows := sqlmock.NewRows([]string{"id", "student_id", "hour_id", "cause_id", "date", "time", "absent", "late", "delay", "reasoning", "created_at", "cause_label"}).
		AddRow("rec-1", "stu-1", "h1", "cause-1", time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC), "08:40", false, true, 10, nil, time.Now(), causeLabel)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT r.id, r.student_id, r.hour_id, r.cause_id")).
		WithArgs("stu-1").
		WillReturnRows(rows)

	records, err := repo.ListByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].CauseLabel)
	assert.Equal(t, "overslept", *records[0].CauseLabel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryListCauses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	rows := sqlmock.NewRows([]string{"id", "label"}).
		AddRow("cause-1", "dentist").
		AddRow("cause-2", "overslept")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label FROM causes")).
		WillReturnRows(rows)

	causes, err := repo.ListCauses(context.Background())
	require.NoError(t, err)
	assert.Len(t, causes, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
