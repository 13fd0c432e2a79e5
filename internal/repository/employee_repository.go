package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/studieplein/presentie-api/internal/models"
)

// EmployeeRepository manages persistence for staff accounts.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByEmail fetches an employee with their titles by email address.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	const query = `SELECT id, email, password_hash, name_first, name_middle, name_last
        FROM employees WHERE email = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, email); err != nil {
		return nil, err
	}

	const titleQuery = `SELECT t.id, t.label, t.admin, t.year, t.level, t.senior
        FROM titles t
        JOIN employee_titles et ON et.title_id = t.id
        WHERE et.employee_id = $1
        ORDER BY t.label ASC`
	if err := r.db.SelectContext(ctx, &employee.Titles, titleQuery, employee.ID); err != nil {
		return nil, fmt.Errorf("list employee titles: %w", err)
	}
	return &employee, nil
}

// FindByID fetches an employee with their titles by ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, email, password_hash, name_first, name_middle, name_last
        FROM employees WHERE id = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}

	const titleQuery = `SELECT t.id, t.label, t.admin, t.year, t.level, t.senior
        FROM titles t
        JOIN employee_titles et ON et.title_id = t.id
        WHERE et.employee_id = $1
        ORDER BY t.label ASC`
	if err := r.db.SelectContext(ctx, &employee.Titles, titleQuery, employee.ID); err != nil {
		return nil, fmt.Errorf("list employee titles: %w", err)
	}
	return &employee, nil
}
