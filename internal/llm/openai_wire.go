package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire types for the OpenAI chat completions JSON contract.

type openAIChatRequest struct {
	Model       string                   `json:"model"`
	Messages    []openAIChatMessage      `json:"messages"`
	Tools       []map[string]interface{} `json:"tools,omitempty"`
	Temperature *float64                 `json:"temperature,omitempty"`
	MaxTokens   int                      `json:"max_tokens,omitempty"`
}

type openAIChatMessage struct {
	Role       string                   `json:"role"`
	Content    interface{}              `json:"content"`
	Name       string                   `json:"name,omitempty"`
	ToolCalls  []map[string]interface{} `json:"tool_calls,omitempty"`
	ToolCallID string                   `json:"tool_call_id,omitempty"`
}

type openAIChatResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Model   string                 `json:"model"`
	Created int64                  `json:"created"`
	Choices []openAIChatChoice     `json:"choices"`
	Usage   map[string]interface{} `json:"usage,omitempty"`
}

type openAIChatChoice struct {
	Index        int                `json:"index"`
	FinishReason string             `json:"finish_reason"`
	Message      *openAIChatMessage `json:"message"`
}

// convertRequestToOpenAI converts a CompletionRequest into the chat
// completions payload, injecting the system prompt as the first message.
func convertRequestToOpenAI(req *CompletionRequest, model string) (*openAIChatRequest, error) {
	messages := make([]openAIChatMessage, 0, len(req.Messages)+1)

	if system := strings.TrimSpace(req.SystemPrompt); system != "" {
		messages = append(messages, openAIChatMessage{Role: "system", Content: system})
	}

	for _, msg := range req.Messages {
		if msg == nil {
			continue
		}

		role := strings.TrimSpace(strings.ToLower(msg.Role))
		if role == "" {
			role = "user"
		}

		oMsg := openAIChatMessage{
			Role:    role,
			Content: msg.Content,
		}

		if msg.ToolName != "" {
			oMsg.Name = msg.ToolName
		}
		if role == "assistant" && len(msg.ToolCalls) > 0 {
			oMsg.ToolCalls = msg.ToolCalls
		}
		if role == "tool" && msg.ToolID != "" {
			oMsg.ToolCallID = msg.ToolID
		}

		messages = append(messages, oMsg)
	}

	if len(messages) == 0 {
		return nil, fmt.Errorf("openai completion requires at least one message")
	}

	payload := &openAIChatRequest{
		Model:    model,
		Messages: messages,
	}

	if req.Temperature != 0 {
		temp := req.Temperature
		payload.Temperature = &temp
	}
	if req.MaxTokens > 0 {
		payload.MaxTokens = req.MaxTokens
	}
	if len(req.Tools) > 0 {
		payload.Tools = req.Tools
	}

	return payload, nil
}

// convertOpenAIToolCalls deep-copies response tool calls, stringifying each
// function's arguments so downstream consumers always see a JSON string.
func convertOpenAIToolCalls(toolCalls []map[string]interface{}) []map[string]interface{} {
	if len(toolCalls) == 0 {
		return nil
	}

	result := make([]map[string]interface{}, 0, len(toolCalls))
	for _, tc := range toolCalls {
		if tc == nil {
			continue
		}

		copyMap := make(map[string]interface{}, len(tc))
		for k, v := range tc {
			if k == "function" {
				fnMap, _ := v.(map[string]interface{})
				if fnMap == nil {
					continue
				}

				fnCopy := make(map[string]interface{}, len(fnMap))
				for fk, fv := range fnMap {
					if fk == "arguments" {
						fnCopy[fk] = stringifyArguments(fv)
					} else {
						fnCopy[fk] = fv
					}
				}
				copyMap[k] = fnCopy
				continue
			}

			copyMap[k] = v
		}

		result = append(result, copyMap)
	}

	return result
}

func stringifyArguments(raw interface{}) string {
	switch value := raw.(type) {
	case nil:
		return "{}"
	case string:
		if strings.TrimSpace(value) == "" {
			return "{}"
		}
		return value
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return "{}"
		}
		return string(data)
	}
}

// extractOpenAIText flattens the content field, which providers return as
// either a plain string or a list of typed parts.
func extractOpenAIText(content interface{}) string {
	switch value := content.(type) {
	case nil:
		return ""
	case string:
		return value
	case []interface{}:
		var sb strings.Builder
		for _, part := range value {
			sb.WriteString(extractOpenAIText(part))
		}
		return sb.String()
	case map[string]interface{}:
		if text, ok := value["text"].(string); ok {
			return text
		}
		if inner, ok := value["content"]; ok {
			return extractOpenAIText(inner)
		}
	}
	return ""
}
