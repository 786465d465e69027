package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examgrid/examgrid-backend/internal/model"
)

// SubmissionRepository handles submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// CreateWithAnswers inserts a submission together with its answers in one
// transaction, so a submission can never exist half-written.
func (r *SubmissionRepository) CreateWithAnswers(ctx context.Context, s *model.Submission, answers []model.Answer) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO submissions (exam_id, student_id, max_possible_score, status)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, submitted_at`,
			s.ExamID, s.StudentID, s.MaxPossibleScore, s.Status,
		).Scan(&s.ID, &s.SubmittedAt); err != nil {
			return err
		}

		for i := range answers {
			a := &answers[i]
			a.SubmissionID = s.ID
			if err := tx.QueryRow(ctx,
				`INSERT INTO answers (submission_id, question_id, student_answer)
				 VALUES ($1, $2, $3)
				 RETURNING id`,
				a.SubmissionID, a.QuestionID, a.StudentAnswer,
			).Scan(&a.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a submission by ID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	var s model.Submission
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, score, max_possible_score, status, submitted_at, graded_at
		 FROM submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.ExamID, &s.StudentID, &s.Score, &s.MaxPossibleScore, &s.Status, &s.SubmittedAt, &s.GradedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ExistsByExamAndStudent reports whether the student already submitted this exam.
func (r *SubmissionRepository) ExistsByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE exam_id = $1 AND student_id = $2)`,
		examID, studentID,
	).Scan(&exists)
	return exists, err
}

// ListByStudent retrieves a student's submissions, newest first.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, student_id, score, max_possible_score, status, submitted_at, graded_at
		 FROM submissions WHERE student_id = $1
		 ORDER BY submitted_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// ListByExam retrieves all submissions for one exam, newest first.
func (r *SubmissionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, student_id, score, max_possible_score, status, submitted_at, graded_at
		 FROM submissions WHERE exam_id = $1
		 ORDER BY submitted_at DESC`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// SetStatus transitions a submission's grading state.
func (r *SubmissionRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.SubmissionStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE submissions SET status = $1 WHERE id = $2`, status, id,
	)
	return err
}

// FinishGrading records the final score and marks the submission graded.
func (r *SubmissionRepository) FinishGrading(ctx context.Context, id uuid.UUID, score int, gradedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE submissions
		 SET score = $1, status = $2, graded_at = $3
		 WHERE id = $4`,
		score, model.SubmissionStatusGraded, gradedAt, id,
	)
	return err
}

func scanSubmissions(rows pgx.Rows) ([]model.Submission, error) {
	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.ExamID, &s.StudentID, &s.Score, &s.MaxPossibleScore,
			&s.Status, &s.SubmittedAt, &s.GradedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
