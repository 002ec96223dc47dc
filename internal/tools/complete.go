package tools

import "context"

// CompleteToolName is matched by the orchestrator to end the run.
const CompleteToolName = "complete"

// CompleteTool signals that all feedback has been handled. It carries a
// summary and has no other effect.
type CompleteTool struct{}

func NewCompleteTool() *CompleteTool {
	return &CompleteTool{}
}

func (t *CompleteTool) Name() string {
	return CompleteToolName
}

func (t *CompleteTool) Description() string {
	return "Signal that all feedback has been processed. Call this exactly once, after every correction has been applied."
}

func (t *CompleteTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{
				"type":        "string",
				"description": "Short summary of what was changed",
			},
		},
		"required": []string{},
	}
}

func (t *CompleteTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	summary := GetStringParam(params, "summary", "")
	result := success("Feedback processing complete")
	result.Data = map[string]interface{}{
		"complete": true,
		"summary":  summary,
	}
	return result
}
