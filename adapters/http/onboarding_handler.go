package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhle/career-os/internal/application/usecase/onboarding"
)

type OnboardingHandler struct {
	onboardingUseCase *onboarding.OnboardingUseCase
}

func NewOnboardingHandler(uc *onboarding.OnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{onboardingUseCase: uc}
}

func (h *OnboardingHandler) GetProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	output, err := h.onboardingUseCase.ExecuteGetProfile(c.Request.Context(), onboarding.GetProfileInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": ToProfileDTO(output.Profile),
		"skills":  ToUserSkillDTOs(output.Skills),
	})
}

func (h *OnboardingHandler) UpdateProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	output, err := h.onboardingUseCase.ExecuteUpdateProfile(c.Request.Context(), onboarding.UpdateProfileInput{
		UserID:      userID,
		DisplayName: req.DisplayName,
		TargetJob:   req.TargetJob,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *OnboardingHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	var req CompleteOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	output, err := h.onboardingUseCase.ExecuteComplete(c.Request.Context(), onboarding.CompleteInput{
		UserID:      userID,
		DisplayName: req.DisplayName,
		TargetJob:   req.TargetJob,
		SkillNames:  req.Skills,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *OnboardingHandler) ListSkills(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	skills, err := h.onboardingUseCase.ExecuteListSkills(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": ToUserSkillDTOs(skills)})
}

func (h *OnboardingHandler) ReplaceSkills(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	var req ReplaceSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	skills, err := h.onboardingUseCase.ExecuteReplaceSkills(c.Request.Context(), onboarding.ReplaceSkillsInput{
		UserID:     userID,
		SkillNames: req.Skills,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": ToUserSkillDTOs(skills)})
}
