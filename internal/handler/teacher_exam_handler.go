package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/examgrid/examgrid-backend/internal/middleware"
	"github.com/examgrid/examgrid-backend/internal/model"
	"github.com/examgrid/examgrid-backend/internal/response"
	"github.com/examgrid/examgrid-backend/internal/service"
	"github.com/examgrid/examgrid-backend/internal/validator"
)

// TeacherExamHandler handles exam authoring endpoints.
type TeacherExamHandler struct {
	examService       *service.ExamService
	submissionService *service.SubmissionService
}

// NewTeacherExamHandler creates a new TeacherExamHandler.
func NewTeacherExamHandler(examService *service.ExamService, submissionService *service.SubmissionService) *TeacherExamHandler {
	return &TeacherExamHandler{examService: examService, submissionService: submissionService}
}

// Create godoc
// POST /api/v1/teacher/exams
// Starts a new draft exam.
func (h *TeacherExamHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// List godoc
// GET /api/v1/teacher/exams
// Lists exams authored by the teacher.
func (h *TeacherExamHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	exams, err := h.examService.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Get godoc
// GET /api/v1/teacher/exams/:examId
// Returns the exam with questions, answer keys included.
func (h *TeacherExamHandler) Get(c *gin.Context) {
	claims, examID, ok := h.parseExamRequest(c)
	if !ok {
		return
	}

	detail, err := h.examService.GetDetail(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		h.failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// Update godoc
// PUT /api/v1/teacher/exams/:examId
// Edits a draft exam's title and description.
func (h *TeacherExamHandler) Update(c *gin.Context) {
	claims, examID, ok := h.parseExamRequest(c)
	if !ok {
		return
	}

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), claims.UserID, examID, req)
	if err != nil {
		h.failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// AddQuestion godoc
// POST /api/v1/teacher/exams/:examId/questions
// Appends a question to a draft exam.
func (h *TeacherExamHandler) AddQuestion(c *gin.Context) {
	claims, examID, ok := h.parseExamRequest(c)
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.examService.AddQuestion(c.Request.Context(), claims.UserID, examID, req)
	if err != nil {
		h.failExamError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// ReplaceQuestions godoc
// PUT /api/v1/teacher/exams/:examId/questions
// Replaces a draft exam's question set.
func (h *TeacherExamHandler) ReplaceQuestions(c *gin.Context) {
	claims, examID, ok := h.parseExamRequest(c)
	if !ok {
		return
	}

	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.examService.ReplaceQuestions(c.Request.Context(), claims.UserID, examID, req)
	if err != nil {
		h.failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Publish godoc
// POST /api/v1/teacher/exams/:examId/publish
// Makes the exam visible to students.
func (h *TeacherExamHandler) Publish(c *gin.Context) {
	claims, examID, ok := h.parseExamRequest(c)
	if !ok {
		return
	}

	exam, err := h.examService.Publish(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		h.failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// ListSubmissions godoc
// GET /api/v1/teacher/exams/:examId/submissions
// Lists all submissions to an exam the teacher authored.
func (h *TeacherExamHandler) ListSubmissions(c *gin.Context) {
	claims, examID, ok := h.parseExamRequest(c)
	if !ok {
		return
	}

	submissions, err := h.submissionService.ListByExam(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		h.failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": submissions})
}

func (h *TeacherExamHandler) parseExamRequest(c *gin.Context) (*service.Claims, uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, uuid.Nil, false
	}

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, uuid.Nil, false
	}

	return claims, examID, true
}

func (h *TeacherExamHandler) failExamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotExamAuthor):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrExamNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrExamNotDraft)
	case errors.Is(err, service.ErrExamNoQuestions):
		response.Fail(c, http.StatusConflict, response.ErrExamNoQuestions)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
