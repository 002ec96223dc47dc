// Package tools defines the catalog of feedback tools exposed to the
// completion provider and the executors that apply their effects to a
// feedback session.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codefionn/notizfix/internal/logger"
)

// ToolSpec represents the static specification of a tool (name, description,
// parameters). It is used for provider schema generation and performs no
// execution itself.
type ToolSpec interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
}

// ToolExecutor handles the actual execution of a tool. A validation failure
// is reported through the returned ToolResult, never through a panic or an
// error value.
type ToolExecutor interface {
	Execute(ctx context.Context, params map[string]interface{}) *ToolResult
}

// Tool combines a spec and its executor.
type Tool interface {
	ToolSpec
	ToolExecutor
}

// ToolCall represents one tool invocation requested by the model.
type ToolCall struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ToolResult is the outcome of one tool execution.
type ToolResult struct {
	ID      string                 `json:"id,omitempty"`
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Serialize renders the result as the JSON payload fed back into the
// conversation as a tool turn.
func (r *ToolResult) Serialize() string {
	data, err := json.Marshal(map[string]interface{}{
		"success": r.Success,
		"message": r.Message,
		"data":    r.Data,
	})
	if err != nil {
		return `{"success":false,"message":"failed to serialize tool result"}`
	}
	return string(data)
}

func failure(format string, args ...interface{}) *ToolResult {
	return &ToolResult{Success: false, Message: fmt.Sprintf(format, args...)}
}

func success(format string, args ...interface{}) *ToolResult {
	return &ToolResult{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Registry manages the available tools.
type Registry struct {
	names   []string
	entries map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Tool)}
}

// Register adds a tool to the registry. Registration order is preserved for
// schema generation.
func (r *Registry) Register(tool Tool) {
	if _, exists := r.entries[tool.Name()]; !exists {
		r.names = append(r.names, tool.Name())
	}
	r.entries[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.entries[name]
	return tool, ok
}

// ListSpecs returns all registered tool specs in registration order.
func (r *Registry) ListSpecs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.names))
	for _, name := range r.names {
		specs = append(specs, r.entries[name])
	}
	return specs
}

// Execute dispatches one tool call. An unknown tool name is a non-fatal
// failure result, not an error.
func (r *Registry) Execute(ctx context.Context, call *ToolCall) *ToolResult {
	tool, ok := r.entries[call.Name]
	if !ok {
		logger.Warn("Unknown tool requested: %s", call.Name)
		result := failure("Unknown tool: %s", call.Name)
		result.ID = call.ID
		return result
	}

	result := tool.Execute(ctx, call.Parameters)
	if result == nil {
		result = failure("tool %s returned no result", call.Name)
	}
	result.ID = call.ID
	return result
}

// ToJSONSchema converts the registered tools to the provider-facing schema.
func (r *Registry) ToJSONSchema() []map[string]interface{} {
	schemas := make([]map[string]interface{}, 0, len(r.names))
	for _, spec := range r.ListSpecs() {
		schemas = append(schemas, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        spec.Name(),
				"description": spec.Description(),
				"parameters":  spec.Parameters(),
			},
		})
	}
	return schemas
}

// Helper function to get string parameter
func GetStringParam(params map[string]interface{}, key string, defaultVal string) string {
	if val, ok := params[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// Helper function to get bool parameter
func GetBoolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if val, ok := params[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// Helper function to get a string slice parameter
func GetStringSliceParam(params map[string]interface{}, key string) []string {
	val, ok := params[key]
	if !ok {
		return nil
	}

	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
