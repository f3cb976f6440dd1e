package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskExtractNeeds turns a project description into a JSON list of
	// materials, labor, tools and logistics needs.
	TaskExtractNeeds TaskType = "extract_needs"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides the global timeout if > 0
}

// LLMConfig holds all configuration for the LLM subsystem. It is filled by
// the config package; this package reads no environment.
type LLMConfig struct {
	Enabled    bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with the LLM disabled.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskExtractNeeds: {Temperature: 0.1, MaxTokens: 1024, TimeoutMs: 15000},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}
