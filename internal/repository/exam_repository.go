package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examgrid/examgrid-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, course, duration_minutes, instructions, passing_score, status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.Course, e.DurationMinutes, e.Instructions, e.PassingScore, e.Status, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID retrieves an exam by ID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	var e model.Exam
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, course, duration_minutes, instructions, passing_score, status, created_by, created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Course, &e.DurationMinutes, &e.Instructions, &e.PassingScore,
		&e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Update rewrites an exam's editable fields.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, course = $2, duration_minutes = $3, instructions = $4,
		     passing_score = $5, updated_at = NOW()
		 WHERE id = $6`,
		e.Title, e.Course, e.DurationMinutes, e.Instructions, e.PassingScore, e.ID,
	)
	return err
}

// SetStatus transitions an exam's lifecycle state.
func (r *ExamRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.ExamStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	return err
}

// ListPublished retrieves published exams with their question counts, newest first.
func (r *ExamRepository) ListPublished(ctx context.Context) ([]model.ExamSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.title, e.course, e.duration_minutes, e.instructions, e.passing_score,
		        e.status, e.created_by, e.created_at, e.updated_at,
		        COUNT(q.id) AS question_count
		 FROM exams e
		 LEFT JOIN questions q ON q.exam_id = e.id
		 WHERE e.status = $1
		 GROUP BY e.id
		 ORDER BY e.created_at DESC`,
		model.ExamStatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.ExamSummary
	for rows.Next() {
		var e model.ExamSummary
		if err := rows.Scan(&e.ID, &e.Title, &e.Course, &e.DurationMinutes, &e.Instructions,
			&e.PassingScore, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.QuestionCount); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListByAuthor retrieves exams created by one teacher, newest first.
func (r *ExamRepository) ListByAuthor(ctx context.Context, authorID int) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, course, duration_minutes, instructions, passing_score, status, created_by, created_at, updated_at
		 FROM exams WHERE created_by = $1
		 ORDER BY created_at DESC`, authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.Course, &e.DurationMinutes, &e.Instructions,
			&e.PassingScore, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}
