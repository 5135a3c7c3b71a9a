package http

import (
	"time"

	"github.com/minhle/career-os/internal/application/usecase/lessons"
	progressUC "github.com/minhle/career-os/internal/application/usecase/progress"
	"github.com/minhle/career-os/internal/domain/path"
	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/internal/domain/skill"
)

// Profile DTOs

type ProfileDTO struct {
	DisplayName         string    `json:"display_name"`
	TargetJob           string    `json:"target_job"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	ResumeURL           *string   `json:"resume_url,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	return ProfileDTO{
		DisplayName:         p.DisplayName,
		TargetJob:           p.TargetJob,
		OnboardingCompleted: p.OnboardingCompleted,
		ResumeURL:           p.ResumeURL,
		UpdatedAt:           p.UpdatedAt,
	}
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	TargetJob   string `json:"target_job"`
}

type CompleteOnboardingRequest struct {
	DisplayName string   `json:"display_name"`
	TargetJob   string   `json:"target_job" binding:"required"`
	Skills      []string `json:"skills"`
}

type ReplaceSkillsRequest struct {
	Skills []string `json:"skills" binding:"required"`
}

type UserSkillDTO struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

func ToUserSkillDTOs(skills []*skill.UserSkill) []UserSkillDTO {
	dtos := make([]UserSkillDTO, len(skills))
	for i, s := range skills {
		dtos[i] = UserSkillDTO{Name: s.Name, Source: string(s.Source)}
	}
	return dtos
}

// Learning path DTOs

type SkillItemDTO struct {
	Name           string `json:"name"`
	Priority       int    `json:"priority"`
	EstimatedHours int    `json:"estimated_hours"`
}

type LearningPathDTO struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Skills           []SkillItemDTO `json:"skills"`
	DurationEstimate string         `json:"duration_estimate"`
	MarketDemand     string         `json:"market_demand"`
	IsSelected       bool           `json:"is_selected"`
	CreatedAt        time.Time      `json:"created_at"`
}

func ToLearningPathDTO(p *path.LearningPath) LearningPathDTO {
	items := make([]SkillItemDTO, len(p.Skills))
	for i, s := range p.Skills {
		items[i] = SkillItemDTO(s)
	}
	return LearningPathDTO{
		ID:               p.ID.String(),
		Type:             string(p.Type),
		Title:            p.Title,
		Description:      p.Description,
		Skills:           items,
		DurationEstimate: p.DurationEstimate,
		MarketDemand:     p.MarketDemand,
		IsSelected:       p.IsSelected,
		CreatedAt:        p.CreatedAt,
	}
}

func ToLearningPathDTOs(paths []*path.LearningPath) []LearningPathDTO {
	dtos := make([]LearningPathDTO, len(paths))
	for i, p := range paths {
		dtos[i] = ToLearningPathDTO(p)
	}
	return dtos
}

// Roadmap DTOs

type GenerateRoadmapRequest struct {
	SkillName string `json:"skill_name" binding:"required"`
}

type SubtopicDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TopicDTO struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Subtopics   []SubtopicDTO `json:"subtopics"`
}

type RoadmapDTO struct {
	ID        string     `json:"id"`
	PathID    string     `json:"path_id"`
	SkillName string     `json:"skill_name"`
	Topics    []TopicDTO `json:"topics"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToRoadmapDTO(r *roadmap.Roadmap) RoadmapDTO {
	topics := make([]TopicDTO, len(r.Topics))
	for i, t := range r.Topics {
		subs := make([]SubtopicDTO, len(t.Subtopics))
		for j, s := range t.Subtopics {
			subs[j] = SubtopicDTO(s)
		}
		topics[i] = TopicDTO{ID: t.ID, Title: t.Title, Description: t.Description, Subtopics: subs}
	}
	return RoadmapDTO{
		ID:        r.ID.String(),
		PathID:    r.PathID.String(),
		SkillName: r.SkillName,
		Topics:    topics,
		CreatedAt: r.CreatedAt,
	}
}

func ToRoadmapDTOs(roadmaps []*roadmap.Roadmap) []RoadmapDTO {
	dtos := make([]RoadmapDTO, len(roadmaps))
	for i, r := range roadmaps {
		dtos[i] = ToRoadmapDTO(r)
	}
	return dtos
}

// Lesson DTOs

type LessonSectionDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type LessonDTO struct {
	SectionTitles []string           `json:"section_titles"`
	Sections      []LessonSectionDTO `json:"sections"`
	Done          bool               `json:"done"`
}

func ToLessonDTO(out *lessons.LessonOutput) LessonDTO {
	sections := make([]LessonSectionDTO, len(out.Lesson.Sections))
	for i, s := range out.Lesson.Sections {
		sections[i] = LessonSectionDTO(s)
	}
	return LessonDTO{
		SectionTitles: out.Lesson.SectionTitles,
		Sections:      sections,
		Done:          out.Done,
	}
}

type NextSectionRequest struct {
	SectionIndex *int `json:"section_index" binding:"required"`
}

// Quiz DTOs

type QuizQuestionDTO struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type QuizDTO struct {
	Questions []QuizQuestionDTO `json:"questions"`
}

func ToQuizDTO(out *lessons.GenerateQuizOutput) QuizDTO {
	questions := make([]QuizQuestionDTO, len(out.Questions))
	for i, q := range out.Questions {
		questions[i] = QuizQuestionDTO(q)
	}
	return QuizDTO{Questions: questions}
}

type GradeQuizRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

type GradedAnswerDTO struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation"`
}

type QuizResultDTO struct {
	ScorePct int               `json:"score_pct"`
	Passed   bool              `json:"passed"`
	Results  []GradedAnswerDTO `json:"results"`
}

func ToQuizResultDTO(out *lessons.GradeQuizOutput) QuizResultDTO {
	results := make([]GradedAnswerDTO, len(out.Results))
	for i, r := range out.Results {
		results[i] = GradedAnswerDTO(r)
	}
	return QuizResultDTO{ScorePct: out.ScorePct, Passed: out.Passed, Results: results}
}

// Progress DTOs

type TopicProgressDTO struct {
	TopicID       string     `json:"topic_id"`
	SubtopicID    string     `json:"subtopic_id"`
	Completed     bool       `json:"completed"`
	CompletionPct int        `json:"completion_pct"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func ToTopicProgressDTO(p *progress.TopicProgress) TopicProgressDTO {
	return TopicProgressDTO{
		TopicID:       p.TopicID,
		SubtopicID:    p.SubtopicID,
		Completed:     p.Completed,
		CompletionPct: p.CompletionPct,
		CompletedAt:   p.CompletedAt,
	}
}

func ToTopicProgressDTOs(records []*progress.TopicProgress) []TopicProgressDTO {
	dtos := make([]TopicProgressDTO, len(records))
	for i, r := range records {
		dtos[i] = ToTopicProgressDTO(r)
	}
	return dtos
}

type RoadmapSummaryDTO struct {
	RoadmapID          string `json:"roadmap_id"`
	SkillName          string `json:"skill_name"`
	CompletedSubtopics int    `json:"completed_subtopics"`
	TotalSubtopics     int    `json:"total_subtopics"`
}

type DashboardDTO struct {
	Profile            ProfileDTO          `json:"profile"`
	SelectedPath       *LearningPathDTO    `json:"selected_path,omitempty"`
	Roadmaps           []RoadmapSummaryDTO `json:"roadmaps"`
	CompletedSubtopics int                 `json:"completed_subtopics"`
}

func ToDashboardDTO(out *progressUC.DashboardOutput) DashboardDTO {
	dto := DashboardDTO{
		Profile:            ToProfileDTO(out.Profile),
		Roadmaps:           make([]RoadmapSummaryDTO, len(out.Summaries)),
		CompletedSubtopics: out.CompletedSubtopics,
	}
	if out.SelectedPath != nil {
		selected := ToLearningPathDTO(out.SelectedPath)
		dto.SelectedPath = &selected
	}
	for i, s := range out.Summaries {
		dto.Roadmaps[i] = RoadmapSummaryDTO{
			RoadmapID:          s.RoadmapID.String(),
			SkillName:          s.SkillName,
			CompletedSubtopics: s.CompletedSubtopics,
			TotalSubtopics:     s.TotalSubtopics,
		}
	}
	return dto
}

// Resume DTOs

type ExtractSkillsResponse struct {
	Skills    []string `json:"skills"`
	Fallback  bool     `json:"fallback"`
	ResumeURL string   `json:"resume_url,omitempty"`
}
