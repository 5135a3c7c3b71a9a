package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minhle/career-os/internal/application/usecase/roadmaps"
)

type RoadmapHandler struct {
	generateRoadmapUseCase *roadmaps.GenerateRoadmapUseCase
	getRoadmapUseCase      *roadmaps.GetRoadmapUseCase
}

func NewRoadmapHandler(
	generateUC *roadmaps.GenerateRoadmapUseCase,
	getUC *roadmaps.GetRoadmapUseCase,
) *RoadmapHandler {
	return &RoadmapHandler{
		generateRoadmapUseCase: generateUC,
		getRoadmapUseCase:      getUC,
	}
}

func (h *RoadmapHandler) GenerateRoadmap(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	pathID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path id"})
		return
	}

	var req GenerateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	output, err := h.generateRoadmapUseCase.Execute(c.Request.Context(), roadmaps.GenerateInput{
		UserID:    userID,
		PathID:    pathID,
		SkillName: req.SkillName,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToRoadmapDTO(output.Roadmap))
}

func (h *RoadmapHandler) ListRoadmaps(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	pathID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path id"})
		return
	}

	roadmapsList, err := h.getRoadmapUseCase.ExecuteList(c.Request.Context(), userID, pathID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roadmaps": ToRoadmapDTOs(roadmapsList)})
}

func (h *RoadmapHandler) GetRoadmap(c *gin.Context) {
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

	rm, err := h.getRoadmapUseCase.Execute(c.Request.Context(), userID, roadmapID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToRoadmapDTO(rm))
}
