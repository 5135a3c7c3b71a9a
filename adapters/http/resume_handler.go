package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhle/career-os/internal/application/usecase/resume"
)

type ResumeHandler struct {
	extractUseCase *resume.ExtractSkillsUseCase
}

func NewResumeHandler(extractUC *resume.ExtractSkillsUseCase) *ResumeHandler {
	return &ResumeHandler{extractUseCase: extractUC}
}

// ExtractSkills accepts multipart form data: a required "text" field with the
// resume body and an optional "file" with the original document.
func (h *ResumeHandler) ExtractSkills(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	text := c.PostForm("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'text' is required"})
		return
	}

	input := resume.ExtractInput{
		UserID: userID,
		Text:   text,
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file cannot open"})
			return
		}
		defer file.Close()
		input.File = file
		input.Filename = fileHeader.Filename
	}

	output, err := h.extractUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ExtractSkillsResponse{
		Skills:    output.Skills,
		Fallback:  output.Fallback,
		ResumeURL: output.ResumeURL,
	})
}
