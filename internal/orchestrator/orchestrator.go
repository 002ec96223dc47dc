// Package orchestrator drives the tool-calling loop between the completion
// provider and the feedback tools.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codefionn/notizfix/internal/llm"
	"github.com/codefionn/notizfix/internal/logger"
	"github.com/codefionn/notizfix/internal/session"
	"github.com/codefionn/notizfix/internal/tools"
)

// State identifies where the orchestration loop currently is.
type State string

const (
	StateAwaitingModel    State = "awaiting-model"
	StateDispatchingTools State = "dispatching-tools"
	StateDone             State = "done"
	StateBudgetExhausted  State = "budget-exhausted"
)

// maxIterations bounds the number of provider round trips per run. There is
// no rollback when the ceiling hits; already executed tool effects stay.
const maxIterations = 10

// transcriptPreviewLen caps how much of the document the system prompt
// carries.
const transcriptPreviewLen = 1000

// Result is what a finished orchestration run reports back to the caller.
type Result struct {
	State      State
	Response   string
	Summary    string
	Iterations int
}

// Orchestrator runs one feedback conversation against one session. It is not
// reusable; create a new one per run.
type Orchestrator struct {
	client   llm.Client
	registry *tools.Registry
	session  *session.FeedbackSession
	state    State

	// OnToolResult, when set, is invoked after every tool execution. Used
	// for verbose progress output.
	OnToolResult func(name string, result *tools.ToolResult)
}

// New creates an orchestrator bound to the given provider, tool registry and
// session.
func New(client llm.Client, registry *tools.Registry, sess *session.FeedbackSession) *Orchestrator {
	return &Orchestrator{
		client:   client,
		registry: registry,
		session:  sess,
		state:    StateAwaitingModel,
	}
}

// State returns the current loop state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run feeds the feedback text through the tool-calling loop. Provider errors
// are returned as-is and terminate the run.
func (o *Orchestrator) Run(ctx context.Context, feedback string) (*Result, error) {
	systemPrompt, err := o.buildSystemPrompt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build system prompt: %w", err)
	}

	messages := []*llm.Message{
		{Role: "user", Content: feedback},
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		o.state = StateAwaitingModel
		logger.Debug("Orchestrator iteration %d/%d", iteration, maxIterations)

		resp, err := o.client.CompleteWithRequest(ctx, &llm.CompletionRequest{
			Messages:     messages,
			Tools:        o.registry.ToJSONSchema(),
			Temperature:  0.2,
			MaxTokens:    4096,
			SystemPrompt: systemPrompt,
		})
		if err != nil {
			return nil, err
		}

		if len(resp.ToolCalls) == 0 {
			o.state = StateDone
			return &Result{
				State:      StateDone,
				Response:   resp.Content,
				Iterations: iteration,
			}, nil
		}

		o.state = StateDispatchingTools
		messages = append(messages, &llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, raw := range resp.ToolCalls {
			call := parseToolCall(raw)
			logger.Debug("Executing tool %s", call.Name)

			result := o.registry.Execute(ctx, call)
			if o.OnToolResult != nil {
				o.OnToolResult(call.Name, result)
			}

			messages = append(messages, &llm.Message{
				Role:     "tool",
				Content:  result.Serialize(),
				ToolID:   call.ID,
				ToolName: call.Name,
			})

			// Remaining calls in the same batch are intentionally
			// skipped once the model signals completion.
			if call.Name == tools.CompleteToolName {
				o.state = StateDone
				return &Result{
					State:      StateDone,
					Summary:    tools.GetStringParam(call.Parameters, "summary", ""),
					Iterations: iteration,
				}, nil
			}
		}
	}

	o.state = StateBudgetExhausted
	logger.Warn("Iteration ceiling of %d reached without completion, stopping", maxIterations)
	return &Result{
		State:      StateBudgetExhausted,
		Iterations: maxIterations,
	}, nil
}

// parseToolCall converts one raw provider tool call into an executable call.
// Malformed JSON arguments degrade to an empty parameter map so the tool can
// report its own precondition failure instead of the turn aborting.
func parseToolCall(raw map[string]interface{}) *tools.ToolCall {
	call := &tools.ToolCall{
		Parameters: map[string]interface{}{},
	}
	if id, ok := raw["id"].(string); ok {
		call.ID = id
	}

	fn, ok := raw["function"].(map[string]interface{})
	if !ok {
		return call
	}
	if name, ok := fn["name"].(string); ok {
		call.Name = name
	}

	args, ok := fn["arguments"].(string)
	if !ok || args == "" {
		return call
	}
	var params map[string]interface{}
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		logger.Debug("Malformed tool arguments for %s: %v", call.Name, err)
		return call
	}
	if params != nil {
		call.Parameters = params
	}
	return call
}

func (o *Orchestrator) buildSystemPrompt(ctx context.Context) (string, error) {
	var b strings.Builder

	b.WriteString("You process user feedback on a transcribed note. ")
	b.WriteString("Interpret the feedback and apply it with the available tools. ")
	b.WriteString("Call complete once all feedback has been handled. ")
	b.WriteString("If the feedback is a question about usage, answer it with provide_help.\n\n")

	b.WriteString("Available tools:\n")
	for _, spec := range o.registry.ListSpecs() {
		fmt.Fprintf(&b, "- %s: %s\n", spec.Name(), spec.Description())
	}

	b.WriteString("\nCurrent document:\n```\n")
	b.WriteString(previewText(o.session.Text()))
	b.WriteString("\n```\n")

	projects, err := o.session.Store.GetAllProjects(ctx)
	if err != nil {
		return "", err
	}
	if len(projects) > 0 {
		b.WriteString("\nKnown projects:\n")
		for _, p := range projects {
			fmt.Fprintf(&b, "- %s (%s)\n", p.ID, p.Name)
		}
	}

	return b.String(), nil
}

func previewText(text string) string {
	if len(text) <= transcriptPreviewLen {
		return text
	}
	return text[:transcriptPreviewLen] + "..."
}
