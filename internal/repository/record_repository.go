package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studieplein/presentie-api/internal/models"
)

// RecordRepository manages committed check-in records and their causes.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs a RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts a check-in record. Records are append-only.
func (r *RecordRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO records (id, student_id, hour_id, cause_id, date, time, absent, late, delay, reasoning, created_at)
        VALUES (:id, :student_id, :hour_id, :cause_id, :date, :time, :absent, :late, :delay, :reasoning, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// ListForHourOnDate returns a student's records for one hour slot on one
// calendar day, oldest first. Status derivation picks among these.
func (r *RecordRepository) ListForHourOnDate(ctx context.Context, studentID, hourID string, date time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, student_id, hour_id, cause_id, date, time, absent, late, delay, reasoning, created_at
        FROM records
        WHERE student_id = $1 AND hour_id = $2 AND date = $3
        ORDER BY time ASC, created_at ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID, hourID, models.Midnight(date)); err != nil {
		return nil, fmt.Errorf("list records for hour: %w", err)
	}
	return records, nil
}

// ListByStudent returns all of a student's records with cause labels,
// oldest first, for the year report.
func (r *RecordRepository) ListByStudent(ctx context.Context, studentID string) ([]models.RecordWithCause, error) {
	const query = `SELECT r.id, r.student_id, r.hour_id, r.cause_id, r.date, r.time, r.absent, r.late, r.delay, r.reasoning, r.created_at,
        c.label AS cause_label
        FROM records r
        LEFT JOIN causes c ON c.id = r.cause_id
        WHERE r.student_id = $1
        ORDER BY r.date ASC, r.time ASC`
	var records []models.RecordWithCause
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list records by student: %w", err)
	}
	return records, nil
}

// ListCauses returns the configured lateness causes.
func (r *RecordRepository) ListCauses(ctx context.Context) ([]models.Cause, error) {
	const query = `SELECT id, label FROM causes ORDER BY label ASC`
	var causes []models.Cause
	if err := r.db.SelectContext(ctx, &causes, query); err != nil {
		return nil, fmt.Errorf("list causes: %w", err)
	}
	return causes, nil
}
