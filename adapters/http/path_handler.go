package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minhle/career-os/internal/application/usecase/paths"
)

type PathHandler struct {
	generatePathsUseCase *paths.GeneratePathsUseCase
	listPathsUseCase     *paths.ListPathsUseCase
	selectPathUseCase    *paths.SelectPathUseCase
}

func NewPathHandler(
	generateUC *paths.GeneratePathsUseCase,
	listUC *paths.ListPathsUseCase,
	selectUC *paths.SelectPathUseCase,
) *PathHandler {
	return &PathHandler{
		generatePathsUseCase: generateUC,
		listPathsUseCase:     listUC,
		selectPathUseCase:    selectUC,
	}
}

func (h *PathHandler) GeneratePaths(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	output, err := h.generatePathsUseCase.Execute(c.Request.Context(), paths.GenerateInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"paths": ToLearningPathDTOs(output.Paths)})
}

func (h *PathHandler) ListPaths(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	pathsList, err := h.listPathsUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paths": ToLearningPathDTOs(pathsList)})
}

func (h *PathHandler) SelectPath(c *gin.Context) {
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

	selected, err := h.selectPathUseCase.Execute(c.Request.Context(), paths.SelectInput{
		UserID: userID,
		PathID: pathID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToLearningPathDTO(selected))
}
