package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minhle/career-os/internal/application/usecase/lessons"
)

type LessonHandler struct {
	lessonUseCase *lessons.LessonUseCase
	quizUseCase   *lessons.QuizUseCase
}

func NewLessonHandler(lessonUC *lessons.LessonUseCase, quizUC *lessons.QuizUseCase) *LessonHandler {
	return &LessonHandler{
		lessonUseCase: lessonUC,
		quizUseCase:   quizUC,
	}
}

func lessonInputFromRequest(c *gin.Context) (lessons.LessonInput, bool) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return lessons.LessonInput{}, false
	}

	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roadmap id"})
		return lessons.LessonInput{}, false
	}

	return lessons.LessonInput{
		UserID:     userID,
		RoadmapID:  roadmapID,
		TopicID:    c.Param("topicId"),
		SubtopicID: c.Param("subtopicId"),
	}, true
}

func (h *LessonHandler) StartLesson(c *gin.Context) {
	input, ok := lessonInputFromRequest(c)
	if !ok {
		return
	}

	output, err := h.lessonUseCase.ExecuteStart(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToLessonDTO(output))
}

func (h *LessonHandler) NextSection(c *gin.Context) {
	input, ok := lessonInputFromRequest(c)
	if !ok {
		return
	}

	var req NextSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	output, err := h.lessonUseCase.ExecuteNextSection(c.Request.Context(), lessons.NextSectionInput{
		LessonInput:  input,
		SectionIndex: *req.SectionIndex,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToLessonDTO(output))
}

func (h *LessonHandler) GenerateQuiz(c *gin.Context) {
	input, ok := lessonInputFromRequest(c)
	if !ok {
		return
	}

	output, err := h.quizUseCase.ExecuteGenerate(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToQuizDTO(output))
}

func (h *LessonHandler) GradeQuiz(c *gin.Context) {
	input, ok := lessonInputFromRequest(c)
	if !ok {
		return
	}

	var req GradeQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	output, err := h.quizUseCase.ExecuteGrade(c.Request.Context(), lessons.GradeQuizInput{
		LessonInput: input,
		Answers:     req.Answers,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToQuizResultDTO(output))
}
