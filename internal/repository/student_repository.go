package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/studieplein/presentie-api/internal/models"
)

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `s.id, s.email, s.password_hash, s.code, s.name_first, s.name_middle, s.name_last, s.birthdate, s.year, s.level, s.group_id`

// List returns students matching the filter with their group labels.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithGroup, int, error) {
	base := "FROM students s JOIN groups g ON g.id = s.group_id"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("s.group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}
	if filter.MinYear != nil {
		conditions = append(conditions, fmt.Sprintf("s.year >= $%d", len(args)+1))
		args = append(args, *filter.MinYear)
	}
	if filter.Level != "" {
		conditions = append(conditions, fmt.Sprintf("s.level = $%d", len(args)+1))
		args = append(args, filter.Level)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name_first) LIKE $%d OR LOWER(s.name_last) LIKE $%d OR s.code LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":  "s.name_last",
		"code":  "s.code",
		"year":  "s.year",
		"level": "s.level",
		"group": "g.label",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "s.name_last"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s, g.label AS group_label %s ORDER BY %s %s, s.name_first ASC LIMIT %d OFFSET %d`,
		studentColumns, base, column, order, size, offset)

	var students []models.StudentWithGroup
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(s.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail fetches a student by email address.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.email = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByCode fetches a student by card code.
func (r *StudentRepository) FindByCode(ctx context.Context, code string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.code = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, code); err != nil {
		return nil, err
	}
	return &student, nil
}
