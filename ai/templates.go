package ai

import "trello-project/microservices/planner-service/models"

const (
	CategoryDevelopment = "development"
	CategoryMarketing   = "marketing"
	CategoryDesign      = "design"
	CategoryResearch    = "research"
	CategoryGeneral     = "general"
)

// categoryOrder fixes iteration order so classification is deterministic.
var categoryOrder = []string{CategoryDevelopment, CategoryMarketing, CategoryDesign, CategoryResearch}

var categoryKeywords = map[string][]string{
	CategoryDevelopment: {
		"develop", "development", "code", "coding", "software", "app", "application", "api",
		"backend", "frontend", "feature", "bug", "deploy", "deployment", "release", "website",
		"web", "mobile", "database", "integration", "build", "refactor", "test", "testing",
	},
	CategoryMarketing: {
		"marketing", "campaign", "brand", "branding", "social", "seo", "content", "launch",
		"promotion", "advertising", "ads", "audience", "newsletter", "email", "market", "sales",
	},
	CategoryDesign: {
		"design", "ui", "ux", "prototype", "mockup", "wireframe", "logo", "visual", "graphic",
		"layout", "style", "illustration",
	},
	CategoryResearch: {
		"research", "study", "analysis", "survey", "experiment", "interview", "data", "report",
		"investigate", "evaluate", "benchmark",
	},
}

type taskTemplate struct {
	Title    string
	Priority models.TaskPriority
	Category string
}

var categoryTemplates = map[string][]taskTemplate{
	CategoryDevelopment: {
		{"Set up development environment", models.PriorityHigh, CategoryDevelopment},
		{"Define API contracts", models.PriorityHigh, CategoryDevelopment},
		{"Implement core features", models.PriorityHigh, CategoryDevelopment},
		{"Write unit tests", models.PriorityMedium, CategoryDevelopment},
		{"Set up continuous integration", models.PriorityMedium, CategoryDevelopment},
		{"Code review session", models.PriorityMedium, CategoryDevelopment},
		{"Prepare deployment plan", models.PriorityLow, CategoryDevelopment},
	},
	CategoryMarketing: {
		{"Define target audience", models.PriorityHigh, CategoryMarketing},
		{"Create marketing campaign plan", models.PriorityHigh, CategoryMarketing},
		{"Prepare social media content", models.PriorityMedium, CategoryMarketing},
		{"Set up campaign analytics", models.PriorityMedium, CategoryMarketing},
		{"Draft launch newsletter", models.PriorityMedium, CategoryMarketing},
		{"Review competitor positioning", models.PriorityLow, CategoryMarketing},
	},
	CategoryDesign: {
		{"Gather design requirements", models.PriorityHigh, CategoryDesign},
		{"Create wireframes", models.PriorityHigh, CategoryDesign},
		{"Build interactive prototype", models.PriorityMedium, CategoryDesign},
		{"Run usability review", models.PriorityMedium, CategoryDesign},
		{"Finalize style guide", models.PriorityLow, CategoryDesign},
	},
	CategoryResearch: {
		{"Define research questions", models.PriorityHigh, CategoryResearch},
		{"Collect background data", models.PriorityMedium, CategoryResearch},
		{"Conduct stakeholder interviews", models.PriorityMedium, CategoryResearch},
		{"Analyze findings", models.PriorityMedium, CategoryResearch},
		{"Write research report", models.PriorityLow, CategoryResearch},
	},
	CategoryGeneral: {
		{"Define project scope", models.PriorityHigh, CategoryGeneral},
		{"Create project timeline", models.PriorityHigh, CategoryGeneral},
		{"Identify project risks", models.PriorityMedium, CategoryGeneral},
		{"Schedule kickoff meeting", models.PriorityMedium, CategoryGeneral},
		{"Document requirements", models.PriorityMedium, CategoryGeneral},
		{"Plan status reporting", models.PriorityLow, CategoryGeneral},
	},
}
