package model

import "github.com/google/uuid"

// QuestionType enumerates the supported question families.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeEssay          QuestionType = "essay"
)

// Question represents a single exam question. ExpectedAnswer is the grading
// reference and must never be exposed to students.
type Question struct {
	ID             uuid.UUID    `json:"id"`
	ExamID         uuid.UUID    `json:"exam_id"`
	QuestionText   string       `json:"question_text"`
	QuestionType   QuestionType `json:"question_type"`
	ExpectedAnswer string       `json:"expected_answer,omitempty"`
	Points         int          `json:"points"`
	OrderNum       int          `json:"order_num"`
}

// StudentQuestion is a question as shown to an exam taker.
type StudentQuestion struct {
	ID           uuid.UUID    `json:"id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Points       int          `json:"points"`
	OrderNum     int          `json:"order_num"`
}

// StudentView strips the expected answer for student-facing responses.
func (q Question) StudentView() StudentQuestion {
	return StudentQuestion{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Points:       q.Points,
		OrderNum:     q.OrderNum,
	}
}

// AddQuestionRequest is the payload for adding a question to an exam.
type AddQuestionRequest struct {
	QuestionText   string `json:"question_text" binding:"required,min=1,max=5000"`
	QuestionType   string `json:"question_type" binding:"required,oneof=multiple_choice true_false short_answer essay"`
	ExpectedAnswer string `json:"expected_answer" binding:"required,max=10000"`
	Points         int    `json:"points" binding:"required,min=1"`
	OrderNum       int    `json:"order_num" binding:"min=0"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing an exam's questions.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}
