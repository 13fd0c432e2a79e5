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

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "code", "name_first", "name_middle", "name_last",
		"birthdate", "year", "level", "group_id", "group_label",
	}).AddRow(
		"stu-1", "bram@school.example", "hash", "100042", "Bram", nil, "de Jong",
		time.Date(2006, 4, 12, 0, 0, 0, 0, time.UTC), 3, "havo", "group-1", "H3a",
	)
}

func TestStudentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.email, s.password_hash, s.code")).
		WithArgs("group-1", 4, "%jong%").
		WillReturnRows(studentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(s.id)")).
		WithArgs("group-1", 4, "%jong%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	minYear := 4
	students, total, err := repo.List(context.Background(), models.StudentFilter{
		GroupID: "group-1",
		MinYear: &minYear,
		Search:  "Jong",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, students, 1)
	assert.Equal(t, "Bram de Jong", students[0].FullName())
	assert.Equal(t, "H3a", students[0].GroupLabel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "code", "name_first", "name_middle", "name_last",
		"birthdate", "year", "level", "group_id",
	}).AddRow(
		"stu-1", nil, "hash", "100042", "Bram", nil, "de Jong",
		time.Date(2006, 4, 12, 0, 0, 0, 0, time.UTC), 3, "havo", "group-1",
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.email, s.password_hash, s.code")).
		WithArgs("100042").
		WillReturnRows(rows)

	student, err := repo.FindByCode(context.Background(), "100042")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", student.ID)
	assert.Equal(t, "100042", student.EmailID(), "no email falls back to the card code")
	assert.NoError(t, mock.ExpectationsWereMet())
}
