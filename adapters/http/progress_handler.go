package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	progressUC "github.com/minhle/career-os/internal/application/usecase/progress"
)

type ProgressHandler struct {
	completeUseCase  *progressUC.CompleteSubtopicUseCase
	dashboardUseCase *progressUC.DashboardUseCase
	listUseCase      *progressUC.RoadmapProgressUseCase
}

func NewProgressHandler(
	completeUC *progressUC.CompleteSubtopicUseCase,
	dashboardUC *progressUC.DashboardUseCase,
	listUC *progressUC.RoadmapProgressUseCase,
) *ProgressHandler {
	return &ProgressHandler{
		completeUseCase:  completeUC,
		dashboardUseCase: dashboardUC,
		listUseCase:      listUC,
	}
}

func (h *ProgressHandler) CompleteSubtopic(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roadmap id"})
		return
	}

	output, err := h.completeUseCase.Execute(c.Request.Context(), progressUC.CompleteInput{
		UserID:     userID,
		RoadmapID:  roadmapID,
		TopicID:    c.Param("topicId"),
		SubtopicID: c.Param("subtopicId"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress":          ToTopicProgressDTO(output.Progress),
		"already_completed": output.AlreadyCompleted,
	})
}

func (h *ProgressHandler) ListRoadmapProgress(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roadmap id"})
		return
	}

	records, err := h.listUseCase.Execute(c.Request.Context(), userID, roadmapID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": ToTopicProgressDTOs(records)})
}

func (h *ProgressHandler) GetDashboard(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	output, err := h.dashboardUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToDashboardDTO(output))
}
