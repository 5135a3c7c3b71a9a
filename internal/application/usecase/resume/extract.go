package resume

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/skill"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

// fallbackSkills is returned when extraction fails for any reason. The list is
// deliberately generic so the user always has something to edit.
var fallbackSkills = []string{
	"Communication",
	"Problem Solving",
	"Teamwork",
	"Time Management",
	"Project Management",
}

type ExtractSkillsUseCase struct {
	profileRepo profile.Repository
	skillRepo   skill.Repository
	llm         service.LLMService
	storage     service.ResumeStorage
	logger      logger.Logger
}

func NewExtractSkillsUseCase(
	profileRepo profile.Repository,
	skillRepo skill.Repository,
	llm service.LLMService,
	storage service.ResumeStorage,
	log logger.Logger,
) *ExtractSkillsUseCase {
	return &ExtractSkillsUseCase{
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		llm:         llm,
		storage:     storage,
		logger:      log,
	}
}

type ExtractInput struct {
	UserID uuid.UUID
	// Text is the resume body as plain text.
	Text string
	// File, when set, is archived to media storage; Filename names the upload.
	File     io.Reader
	Filename string
}

type ExtractOutput struct {
	Skills []string
	// Fallback is true when extraction failed and the generic default list
	// was returned instead.
	Fallback bool
	// ResumeURL is the stored copy's URL, empty when no file was submitted
	// or the upload failed.
	ResumeURL string
}

type extractedSkills struct {
	Skills []string `json:"skills"`
}

var skillsSchema = &service.JSONSchema{
	Name: "resume-skills",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"skills"},
		"properties": map[string]any{
			"skills": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 30,
				"items":    map[string]any{"type": "string"},
			},
		},
	},
}

const extractSystemPrompt = `You extract professional skills from resumes. ` +
	`Return strictly the requested JSON, nothing else.`

// Execute archives the resume (best-effort), asks the extractor for a flat
// skill list, and merges the result into the user's skills. Extraction never
// fails the request: any error degrades to the default skill list.
func (uc *ExtractSkillsUseCase) Execute(ctx context.Context, input ExtractInput) (*ExtractOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperror.NewInvalidInput("resume text is required", nil)
	}

	out := &ExtractOutput{}

	if input.File != nil {
		url, err := uc.storage.UploadResume(ctx, input.Filename, input.File)
		if err != nil {
			uc.logger.Warn("Resume upload failed, continuing without archive", zap.Error(err))
		} else {
			out.ResumeURL = url
			if err := uc.profileRepo.SetResumeURL(ctx, input.UserID, url); err != nil {
				uc.logger.Warn("Failed to record resume URL", zap.Error(err))
			}
		}
	}

	skills, err := uc.extract(ctx, input.Text)
	if err != nil {
		uc.logger.Warn("Skill extraction failed, returning fallback list", zap.Error(err))
		out.Skills = append([]string(nil), fallbackSkills...)
		out.Fallback = true
		return out, nil
	}

	if err := uc.skillRepo.MergeResume(ctx, input.UserID, skills); err != nil {
		return nil, err
	}
	out.Skills = skills
	return out, nil
}

func (uc *ExtractSkillsUseCase) extract(ctx context.Context, text string) ([]string, error) {
	raw, err := uc.llm.GenerateJSON(ctx, service.GenerateRequest{
		System:      extractSystemPrompt,
		Prompt:      buildExtractPrompt(text),
		Schema:      skillsSchema,
		MaxTokens:   1024,
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}
	var reply extractedSkills
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, apperror.NewMalformedReply("failed to decode extracted skills", err)
	}

	seen := make(map[string]struct{}, len(reply.Skills))
	skills := make([]string, 0, len(reply.Skills))
	for _, s := range reply.Skills {
		name := strings.TrimSpace(s)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, name)
	}
	if len(skills) == 0 {
		return nil, apperror.NewMalformedReply("extractor returned no usable skills", nil)
	}
	return skills, nil
}

const maxResumeChars = 20000

func buildExtractPrompt(text string) string {
	if len(text) > maxResumeChars {
		// Back up to a rune boundary so the cut never splits a character.
		n := maxResumeChars
		for n > 0 && !utf8.RuneStart(text[n]) {
			n--
		}
		text = text[:n]
	}
	var b strings.Builder
	b.WriteString("Extract the professional skills mentioned in this resume as short ")
	b.WriteString("canonical names (e.g. \"PostgreSQL\", not \"worked with postgres databases\").\n\n")
	b.WriteString("Resume:\n")
	b.WriteString(text)
	b.WriteString("\n")
	return b.String()
}
