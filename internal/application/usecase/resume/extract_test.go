package resume

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/skill"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type fakeProfileRepo struct {
	resumeURLs map[uuid.UUID]string
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	return &profile.Profile{UserID: userID}, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, _ *profile.Profile) error { return nil }

func (f *fakeProfileRepo) SetResumeURL(_ context.Context, userID uuid.UUID, url string) error {
	f.resumeURLs[userID] = url
	return nil
}

type fakeSkillRepo struct {
	merged map[uuid.UUID][]string
}

func (f *fakeSkillRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]*skill.UserSkill, error) {
	return nil, nil
}

func (f *fakeSkillRepo) ReplaceManual(_ context.Context, _ uuid.UUID, _ []string) error { return nil }

func (f *fakeSkillRepo) MergeResume(_ context.Context, userID uuid.UUID, names []string) error {
	f.merged[userID] = append(f.merged[userID], names...)
	return nil
}

func (f *fakeSkillRepo) DeleteByUser(_ context.Context, _ uuid.UUID) error { return nil }

type fakeStorage struct {
	url string
	err error
}

func (f *fakeStorage) UploadResume(_ context.Context, _ string, _ io.Reader) (string, error) {
	return f.url, f.err
}

func skillsJSON(names ...string) json.RawMessage {
	payload, _ := json.Marshal(map[string][]string{"skills": names})
	return payload
}

func newExtractFixture(llm *service.MockLLM, storage service.ResumeStorage) (*ExtractSkillsUseCase, *fakeProfileRepo, *fakeSkillRepo) {
	profileRepo := &fakeProfileRepo{resumeURLs: map[uuid.UUID]string{}}
	skillRepo := &fakeSkillRepo{merged: map[uuid.UUID][]string{}}
	uc := NewExtractSkillsUseCase(profileRepo, skillRepo, llm, storage, logger.NewNop())
	return uc, profileRepo, skillRepo
}

func TestExtractSkills_MergesExtractedSkills(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: skillsJSON("Go", "PostgreSQL", "Docker")})
	uc, _, skillRepo := newExtractFixture(llm, &fakeStorage{})

	userID := uuid.New()
	out, err := uc.Execute(context.Background(), ExtractInput{
		UserID: userID,
		Text:   "Ten years of Go and PostgreSQL.",
	})
	require.NoError(t, err)
	assert.False(t, out.Fallback)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker"}, out.Skills)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker"}, skillRepo.merged[userID])
}

func TestExtractSkills_FallbackOnProviderError(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{Err: apperror.NewUpstream("provider down", nil)})
	uc, _, skillRepo := newExtractFixture(llm, &fakeStorage{})

	userID := uuid.New()
	out, err := uc.Execute(context.Background(), ExtractInput{
		UserID: userID,
		Text:   "Some resume text.",
	})
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.NotEmpty(t, out.Skills)

	// Fallback suggestions are not persisted as the user's skills.
	assert.Empty(t, skillRepo.merged[userID])
}

func TestExtractSkills_FallbackOnEmptyExtraction(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: skillsJSON("  ", "")})
	uc, _, _ := newExtractFixture(llm, &fakeStorage{})

	out, err := uc.Execute(context.Background(), ExtractInput{
		UserID: uuid.New(),
		Text:   "Blank-ish resume.",
	})
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.NotEmpty(t, out.Skills)
}

func TestExtractSkills_DeduplicatesNames(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: skillsJSON("Go", "go", " Go ", "SQL")})
	uc, _, _ := newExtractFixture(llm, &fakeStorage{})

	out, err := uc.Execute(context.Background(), ExtractInput{
		UserID: uuid.New(),
		Text:   "Go go go.",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, out.Skills)
}

func TestExtractSkills_RequiresText(t *testing.T) {
	uc, _, _ := newExtractFixture(service.NewMockLLM(), &fakeStorage{})

	_, err := uc.Execute(context.Background(), ExtractInput{UserID: uuid.New(), Text: "  "})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestExtractSkills_UploadFailureIsNotFatal(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: skillsJSON("Go")})
	uc, profileRepo, _ := newExtractFixture(llm, &fakeStorage{err: errors.New("storage down")})

	userID := uuid.New()
	out, err := uc.Execute(context.Background(), ExtractInput{
		UserID:   userID,
		Text:     "Resume body.",
		File:     strings.NewReader("%PDF-1.4"),
		Filename: "resume.pdf",
	})
	require.NoError(t, err)
	assert.False(t, out.Fallback)
	assert.Empty(t, out.ResumeURL)
	assert.Empty(t, profileRepo.resumeURLs)
}

func TestBuildExtractPrompt_TruncatesAtRuneBoundary(t *testing.T) {
	// A multi-byte rune straddles the truncation point.
	text := strings.Repeat("a", maxResumeChars-1) + "日本語"

	prompt := buildExtractPrompt(text)
	assert.True(t, utf8.ValidString(prompt))
	assert.NotContains(t, prompt, "日")
	assert.Contains(t, prompt, strings.Repeat("a", maxResumeChars-1))
}

func TestExtractSkills_RecordsUploadedResumeURL(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: skillsJSON("Go")})
	uc, profileRepo, _ := newExtractFixture(llm, &fakeStorage{url: "https://cdn.example/resumes/resume.pdf"})

	userID := uuid.New()
	out, err := uc.Execute(context.Background(), ExtractInput{
		UserID:   userID,
		Text:     "Resume body.",
		File:     strings.NewReader("%PDF-1.4"),
		Filename: "resume.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/resumes/resume.pdf", out.ResumeURL)
	assert.Equal(t, "https://cdn.example/resumes/resume.pdf", profileRepo.resumeURLs[userID])
}
