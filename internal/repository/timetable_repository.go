package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/studieplein/presentie-api/internal/models"
)

// TimetableRepository loads a group's timetables with their hour slots.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListByGroup returns the group's timetables ordered by start date, each
// with its hour slots ordered by weekday and ordinal. Resolution code
// relies on both orderings.
func (r *TimetableRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Timetable, error) {
	const ttQuery = `SELECT t.id, t.label, t.date_start, t.date_end
        FROM timetables t
        JOIN group_timetables gt ON gt.timetable_id = t.id
        WHERE gt.group_id = $1
        ORDER BY t.date_start ASC`

	var timetables []models.Timetable
	if err := r.db.SelectContext(ctx, &timetables, ttQuery, groupID); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	if len(timetables) == 0 {
		return timetables, nil
	}

	ids := make([]string, len(timetables))
	for i, tt := range timetables {
		ids[i] = tt.ID
	}

	hourQuery, args, err := sqlx.In(`SELECT id, timetable_id, day_of_week, ordinal, time_start, time_end, course, level
        FROM hours
        WHERE timetable_id IN (?)
        ORDER BY day_of_week ASC, ordinal ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("build hours query: %w", err)
	}
	hourQuery = r.db.Rebind(hourQuery)

	var hours []models.HourSlot
	if err := r.db.SelectContext(ctx, &hours, hourQuery, args...); err != nil {
		return nil, fmt.Errorf("list hours: %w", err)
	}

	byTimetable := make(map[string][]models.HourSlot, len(timetables))
	for _, h := range hours {
		byTimetable[h.TimetableID] = append(byTimetable[h.TimetableID], h)
	}
	for i := range timetables {
		timetables[i].Hours = byTimetable[timetables[i].ID]
	}
	return timetables, nil
}

// FindHour fetches a single hour slot by ID.
func (r *TimetableRepository) FindHour(ctx context.Context, hourID string) (*models.HourSlot, error) {
	const query = `SELECT id, timetable_id, day_of_week, ordinal, time_start, time_end, course, level
        FROM hours WHERE id = $1`
	var hour models.HourSlot
	if err := r.db.GetContext(ctx, &hour, query, hourID); err != nil {
		return nil, err
	}
	return &hour, nil
}
