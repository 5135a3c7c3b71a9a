package lessons

import (
	"fmt"
	"strings"

	"github.com/minhle/career-os/internal/application/service"
)

type generatedLessonPlan struct {
	SectionTitles []string `json:"section_titles"`
	FirstSection  string   `json:"first_section"`
}

var lessonPlanSchema = &service.JSONSchema{
	Name: "lesson-plan",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"section_titles", "first_section"},
		"properties": map[string]any{
			"section_titles": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 6,
				"items":    map[string]any{"type": "string"},
			},
			"first_section": map[string]any{"type": "string"},
		},
	},
}

type generatedQuiz struct {
	Questions []generatedQuestion `json:"questions"`
}

type generatedQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

var quizSchema = &service.JSONSchema{
	Name: "subtopic-quiz",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 5,
				"maxItems": 10,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"question", "options", "correct_index", "explanation"},
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"minItems": 4,
							"maxItems": 4,
							"items":    map[string]any{"type": "string"},
						},
						"correct_index": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
						"explanation":   map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

const lessonSystemPrompt = `You are a patient technical tutor writing concise lesson ` +
	`material in markdown. Return strictly the requested JSON, nothing else.`

func buildLessonPlanPrompt(skillName, subtopicTitle, subtopicDescription string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %s\nSubtopic: %s\n", skillName, subtopicTitle)
	if subtopicDescription != "" {
		fmt.Fprintf(&b, "About: %s\n", subtopicDescription)
	}
	b.WriteString("\nPlan a short lesson: 3 to 6 section titles in teaching order, ")
	b.WriteString("then write the full content of the first section (markdown, ~300 words).\n")
	return b.String()
}

func buildSectionPrompt(skillName, subtopicTitle, sectionTitle string, allTitles []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %s\nSubtopic: %s\n", skillName, subtopicTitle)
	fmt.Fprintf(&b, "Lesson outline: %s\n\n", strings.Join(allTitles, "; "))
	fmt.Fprintf(&b, "Write the full content of the section %q (markdown, ~300 words). ", sectionTitle)
	b.WriteString("Return only the section content.\n")
	return b.String()
}

const quizSystemPrompt = `You are an examiner writing multiple-choice questions that test ` +
	`understanding, not trivia. Return strictly the requested JSON, nothing else.`

func buildQuizPrompt(skillName, subtopicTitle string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %s\nSubtopic: %s\n\n", skillName, subtopicTitle)
	b.WriteString("Write ten multiple-choice questions about this subtopic. ")
	b.WriteString("Each question has exactly four options, one correct answer ")
	b.WriteString("(correct_index, zero-based), and a one-sentence explanation.\n")
	return b.String()
}
