package roadmaps

import (
	"fmt"
	"strings"

	"github.com/minhle/career-os/internal/application/service"
)

type generatedRoadmap struct {
	Topics []generatedTopic `json:"topics"`
}

type generatedTopic struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Subtopics   []generatedSubtopic `json:"subtopics"`
}

type generatedSubtopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var roadmapSchema = &service.JSONSchema{
	Name: "skill-roadmap",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"topics"},
		"properties": map[string]any{
			"topics": map[string]any{
				"type":     "array",
				"minItems": 4,
				"maxItems": 12,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"title", "description", "subtopics"},
					"properties": map[string]any{
						"title":       map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"subtopics": map[string]any{
							"type":     "array",
							"minItems": 2,
							"maxItems": 6,
							"items": map[string]any{
								"type":                 "object",
								"additionalProperties": false,
								"required":             []string{"title", "description"},
								"properties": map[string]any{
									"title":       map[string]any{"type": "string"},
									"description": map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	},
}

const roadmapSystemPrompt = `You are a curriculum designer. Break a single skill into an ` +
	`ordered study roadmap for a learner working toward a specific job. ` +
	`Return strictly the requested JSON, nothing else.`

func buildRoadmapPrompt(skillName, targetJob string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %s\n", skillName)
	fmt.Fprintf(&b, "Target job: %s\n\n", targetJob)
	b.WriteString("Produce 4 to 12 topics ordered from fundamentals to advanced. ")
	b.WriteString("Each topic needs a title, a short description, and 2 to 6 subtopics ")
	b.WriteString("with their own titles and descriptions.\n")
	return b.String()
}
