package recommender

import (
	"fmt"
	"strings"

	"reelmatch/internal/models"
)

// ServicesPlaceholder is replaced by the catalog listing in custom templates.
const ServicesPlaceholder = "{{SERVICES}}"

// DefaultSystemTemplate is used when no template file is configured.
const DefaultSystemTemplate = `You are an expert video production consultant for a company called b2w.tv.
Your goal is to analyze the user's request and recommend the top 1 to 3 most relevant video services from the provided list.

Available Services:
{{SERVICES}}

Rules:
1. Analyze the user's intent semantically.
2. Select the best matching services (minimum 1, maximum 3).
3. Provide a brief, persuasive reason starting with "Why this matches:" for each recommendation.
4. Extract specific keywords from the user's input that triggered this recommendation.
5. Return JSON only.`

// ServicesContext renders one line per catalog entry.
func ServicesContext(services []models.ServiceRecord) string {
	lines := make([]string, 0, len(services))
	for _, s := range services {
		lines = append(lines, fmt.Sprintf("- ID: %s, Name: %s, Desc: %s", s.ID, s.Title, s.Description))
	}
	return strings.Join(lines, "\n")
}

// BuildSystemInstruction fills template with the catalog listing. An empty
// template falls back to DefaultSystemTemplate; a template without the
// placeholder gets the listing appended.
func BuildSystemInstruction(template string, services []models.ServiceRecord) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultSystemTemplate
	}
	listing := ServicesContext(services)
	if !strings.Contains(template, ServicesPlaceholder) {
		return strings.TrimRight(template, "\n") + "\n\nAvailable Services:\n" + listing
	}
	return strings.ReplaceAll(template, ServicesPlaceholder, listing)
}

// ResponseSchema describes the reply shape requested from the backend.
func ResponseSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"recommendations": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"serviceId": {Type: TypeString, Description: "The ID of the service from the available list"},
						"reason":    {Type: TypeString, Description: "A short explanation of why this fits the user request"},
						"matchedKeywords": {
							Type:        TypeArray,
							Items:       &Schema{Type: TypeString},
							Description: "Keywords from the user text that matched this service",
						},
					},
					Required: []string{"serviceId", "reason", "matchedKeywords"},
				},
			},
		},
		Required: []string{"recommendations"},
	}
}
