package paths

import (
	"context"

	"github.com/google/uuid"

	"github.com/minhle/career-os/internal/domain/path"
)

type ListPathsUseCase struct {
	pathRepo path.Repository
}

func NewListPathsUseCase(pathRepo path.Repository) *ListPathsUseCase {
	return &ListPathsUseCase{pathRepo: pathRepo}
}

func (uc *ListPathsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*path.LearningPath, error) {
	return uc.pathRepo.ListByUser(ctx, userID)
}

type SelectPathUseCase struct {
	pathRepo path.Repository
}

func NewSelectPathUseCase(pathRepo path.Repository) *SelectPathUseCase {
	return &SelectPathUseCase{pathRepo: pathRepo}
}

type SelectInput struct {
	UserID uuid.UUID
	PathID uuid.UUID
}

// Execute marks one path selected. The repository clears any previous
// selection in the same transaction, so at most one path per user is ever
// selected.
func (uc *SelectPathUseCase) Execute(ctx context.Context, input SelectInput) (*path.LearningPath, error) {
	if err := uc.pathRepo.Select(ctx, input.UserID, input.PathID); err != nil {
		return nil, err
	}
	return uc.pathRepo.GetByID(ctx, input.UserID, input.PathID)
}
