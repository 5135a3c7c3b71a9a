package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhle/career-os/internal/application/usecase/maintenance"
)

type MaintenanceHandler struct {
	resetUseCase *maintenance.ResetUseCase
}

func NewMaintenanceHandler(resetUC *maintenance.ResetUseCase) *MaintenanceHandler {
	return &MaintenanceHandler{resetUseCase: resetUC}
}

// ResetData wipes the user's generated learning data. Account and profile
// identity survive; onboarding reopens.
func (h *MaintenanceHandler) ResetData(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	if err := h.resetUseCase.Execute(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "learning data reset"})
}
