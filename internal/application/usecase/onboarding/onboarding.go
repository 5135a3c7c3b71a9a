package onboarding

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/skill"
	"github.com/minhle/career-os/pkg/apperror"
)

type OnboardingUseCase struct {
	profileRepo profile.Repository
	skillRepo   skill.Repository
}

func NewOnboardingUseCase(profileRepo profile.Repository, skillRepo skill.Repository) *OnboardingUseCase {
	return &OnboardingUseCase{
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
	}
}

type GetProfileInput struct {
	UserID uuid.UUID
}

type GetProfileOutput struct {
	Profile *profile.Profile
	Skills  []*skill.UserSkill
}

func (uc *OnboardingUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	p, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	skills, err := uc.skillRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetProfileOutput{Profile: p, Skills: skills}, nil
}

type UpdateProfileInput struct {
	UserID      uuid.UUID
	DisplayName string
	TargetJob   string
}

type UpdateProfileOutput struct {
	Profile *profile.Profile
}

func (uc *OnboardingUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	current, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	p := &profile.Profile{
		UserID:              input.UserID,
		DisplayName:         input.DisplayName,
		TargetJob:           input.TargetJob,
		OnboardingCompleted: current.OnboardingCompleted,
		UpdatedAt:           time.Now().UTC(),
	}
	if err := uc.profileRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return &UpdateProfileOutput{Profile: p}, nil
}

type CompleteInput struct {
	UserID      uuid.UUID
	DisplayName string
	TargetJob   string
	SkillNames  []string
}

type CompleteOutput struct {
	Profile *profile.Profile
}

// ExecuteComplete finishes the onboarding wizard. The target job is required;
// the skill list is optional and may be empty.
func (uc *OnboardingUseCase) ExecuteComplete(ctx context.Context, input CompleteInput) (*CompleteOutput, error) {
	targetJob := strings.TrimSpace(input.TargetJob)
	if targetJob == "" {
		return nil, apperror.NewInvalidInput("target job title is required to complete onboarding", nil)
	}

	names := normalizeSkillNames(input.SkillNames)
	if err := uc.skillRepo.ReplaceManual(ctx, input.UserID, names); err != nil {
		return nil, err
	}

	p := &profile.Profile{
		UserID:              input.UserID,
		DisplayName:         input.DisplayName,
		TargetJob:           targetJob,
		OnboardingCompleted: true,
		UpdatedAt:           time.Now().UTC(),
	}
	if err := uc.profileRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return &CompleteOutput{Profile: p}, nil
}

func (uc *OnboardingUseCase) ExecuteListSkills(ctx context.Context, userID uuid.UUID) ([]*skill.UserSkill, error) {
	return uc.skillRepo.ListByUser(ctx, userID)
}

type ReplaceSkillsInput struct {
	UserID     uuid.UUID
	SkillNames []string
}

func (uc *OnboardingUseCase) ExecuteReplaceSkills(ctx context.Context, input ReplaceSkillsInput) ([]*skill.UserSkill, error) {
	if err := uc.skillRepo.ReplaceManual(ctx, input.UserID, normalizeSkillNames(input.SkillNames)); err != nil {
		return nil, err
	}
	return uc.skillRepo.ListByUser(ctx, input.UserID)
}

func normalizeSkillNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
