package course

// TitleRequest asks for alternative course title suggestions.
type TitleRequest struct {
	Title     string `json:"title"`
	Language  string `json:"language"`
	SkipCache bool   `json:"skip_cache"`
}

// TitleSuggestion is one proposed course title.
type TitleSuggestion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}

// TitleResponse holds the generated title suggestions.
type TitleResponse struct {
	Suggestions []TitleSuggestion `json:"suggestions"`
	FromCache   bool              `json:"from_cache"`
}

// OutlineRequest asks for a course outline.
type OutlineRequest struct {
	Title             string `json:"title"`
	NumModules        int    `json:"num_modules"`
	Language          string `json:"language"`
	AdditionalContext string `json:"additional_context,omitempty"`
	SkipCache         bool   `json:"skip_cache"`
}

// Module is one outline module.
type Module struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	EstimatedDuration int      `json:"estimated_duration"` // minutes
	KeyTopics         []string `json:"key_topics"`
}

// OutlineResponse holds the generated outline.
type OutlineResponse struct {
	Modules       []Module `json:"modules"`
	TotalDuration int      `json:"total_duration"`
	FromCache     bool     `json:"from_cache"`
}

// ScriptRequest asks for a spoken script for one module.
type ScriptRequest struct {
	ModuleTitle       string `json:"module_title"`
	ModuleDescription string `json:"module_description"`
	CourseTitle       string `json:"course_title"`
	Language          string `json:"language"`
	TargetDuration    int    `json:"target_duration"` // minutes
	Tone              string `json:"tone"`
	AdditionalContext string `json:"additional_context,omitempty"`
	SkipCache         bool   `json:"skip_cache"`
}

// ScriptSection is one section of a module script.
type ScriptSection struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	SlideMarkers []string `json:"slide_markers"`
}

// ScriptResponse holds the generated module script.
type ScriptResponse struct {
	ModuleID          string          `json:"module_id"`
	ModuleTitle       string          `json:"module_title"`
	Sections          []ScriptSection `json:"sections"`
	TotalWords        int             `json:"total_words"`
	EstimatedDuration int             `json:"estimated_duration"`
	Citations         []string        `json:"citations"`
	FromCache         bool            `json:"from_cache"`
}

// StructureRequest asks for an instructional-design analysis of a topic.
type StructureRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`
	SkipCache      bool   `json:"skip_cache"`
}

// StructureAnalysis holds the recommended course structure.
type StructureAnalysis struct {
	RecommendedModules  int      `json:"recommended_modules"`
	RecommendedDuration int      `json:"recommended_duration"`
	Complexity          string   `json:"complexity"`
	TargetAudience      string   `json:"target_audience"`
	KeyTopics           []string `json:"key_topics"`
	LearningObjectives  []string `json:"learning_objectives"`
	Suggestions         []string `json:"suggestions"`
	FromCache           bool     `json:"from_cache"`
}
