package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examgrid/examgrid-backend/internal/model"
)

// AnswerRepository handles answer data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// GradedPair couples an answer with the question it responds to. The grading
// orchestrator consumes these so it never performs per-answer question lookups.
type GradedPair struct {
	Answer   model.Answer
	Question model.Question
}

// ListBySubmissionWithQuestions retrieves every answer of a submission joined
// with its question in a single query, ordered by question order.
func (r *AnswerRepository) ListBySubmissionWithQuestions(ctx context.Context, submissionID uuid.UUID) ([]GradedPair, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.submission_id, a.question_id, a.student_answer, a.is_correct, a.points_earned, a.feedback, a.graded_at,
		        q.id, q.exam_id, q.question_text, q.question_type, q.expected_answer, q.points, q.order_num
		 FROM answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.submission_id = $1
		 ORDER BY q.order_num`, submissionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []GradedPair
	for rows.Next() {
		var p GradedPair
		var feedback *string
		if err := rows.Scan(
			&p.Answer.ID, &p.Answer.SubmissionID, &p.Answer.QuestionID, &p.Answer.StudentAnswer,
			&p.Answer.IsCorrect, &p.Answer.PointsEarned, &feedback, &p.Answer.GradedAt,
			&p.Question.ID, &p.Question.ExamID, &p.Question.QuestionText, &p.Question.QuestionType,
			&p.Question.ExpectedAnswer, &p.Question.Points, &p.Question.OrderNum,
		); err != nil {
			return nil, err
		}
		if feedback != nil {
			p.Answer.Feedback = *feedback
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// ListBySubmission retrieves a submission's answers without grading references.
func (r *AnswerRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.submission_id, a.question_id, a.student_answer, a.is_correct, a.points_earned, a.feedback, a.graded_at
		 FROM answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.submission_id = $1
		 ORDER BY q.order_num`, submissionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		var feedback *string
		if err := rows.Scan(&a.ID, &a.SubmissionID, &a.QuestionID, &a.StudentAnswer,
			&a.IsCorrect, &a.PointsEarned, &feedback, &a.GradedAt); err != nil {
			return nil, err
		}
		if feedback != nil {
			a.Feedback = *feedback
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// SaveGrade writes one answer's grading result back to storage.
func (r *AnswerRepository) SaveGrade(ctx context.Context, id uuid.UUID, isCorrect bool, pointsEarned int, feedback string, gradedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE answers
		 SET is_correct = $1, points_earned = $2, feedback = $3, graded_at = $4
		 WHERE id = $5`,
		isCorrect, pointsEarned, feedback, gradedAt, id,
	)
	return err
}
