package paths

import (
	"fmt"
	"strings"

	"github.com/minhle/career-os/internal/application/service"
)

// generatedPaths mirrors the JSON the generator is asked to produce.
type generatedPaths struct {
	Paths []generatedPath `json:"paths"`
}

type generatedPath struct {
	Type             string           `json:"type"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Skills           []generatedSkill `json:"skills"`
	DurationEstimate string           `json:"duration_estimate"`
	MarketDemand     string           `json:"market_demand"`
}

type generatedSkill struct {
	Name           string `json:"name"`
	Priority       int    `json:"priority"`
	EstimatedHours int    `json:"estimated_hours"`
}

var learningPathsSchema = &service.JSONSchema{
	Name: "learning-paths",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"paths"},
		"properties": map[string]any{
			"paths": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 3,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required": []string{
						"type", "title", "description", "skills",
						"duration_estimate", "market_demand",
					},
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []string{"recommended", "easier", "professional"},
						},
						"title":       map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"skills": map[string]any{
							"type":     "array",
							"minItems": 4,
							"maxItems": 8,
							"items": map[string]any{
								"type":                 "object",
								"additionalProperties": false,
								"required":             []string{"name", "priority", "estimated_hours"},
								"properties": map[string]any{
									"name":            map[string]any{"type": "string"},
									"priority":        map[string]any{"type": "integer", "minimum": 1},
									"estimated_hours": map[string]any{"type": "integer", "minimum": 1},
								},
							},
						},
						"duration_estimate": map[string]any{"type": "string"},
						"market_demand": map[string]any{
							"type": "string",
							"enum": []string{"low", "medium", "high"},
						},
					},
				},
			},
		},
	},
}

const pathsSystemPrompt = `You are a career coach who designs practical skill curricula. ` +
	`Base every path only on the target job and the skills the user already has. ` +
	`Return strictly the requested JSON, nothing else.`

func buildPathsPrompt(targetJob string, currentSkills []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target job: %s\n", targetJob)
	if len(currentSkills) > 0 {
		fmt.Fprintf(&b, "Current skills: %s\n", strings.Join(currentSkills, ", "))
	} else {
		b.WriteString("Current skills: none listed\n")
	}
	b.WriteString("\nPropose exactly three learning paths toward the target job:\n")
	b.WriteString("- \"recommended\": the balanced default path\n")
	b.WriteString("- \"easier\": a gentler path that leans on the current skills\n")
	b.WriteString("- \"professional\": a deeper path for ambitious learners\n")
	b.WriteString("\nEach path needs a title, a one-paragraph description, 4 to 8 skills ")
	b.WriteString("(name, priority starting at 1, estimated hours), an overall duration estimate ")
	b.WriteString("like \"3-4 months\", and a market demand label (low, medium, high).\n")
	return b.String()
}
