package tools

import (
	"context"
	"strings"

	"github.com/codefionn/notizfix/internal/session"
)

// CorrectTextTool replaces misrecognized text in the current document.
type CorrectTextTool struct {
	session *session.FeedbackSession
}

func NewCorrectTextTool(sess *session.FeedbackSession) *CorrectTextTool {
	return &CorrectTextTool{session: sess}
}

func (t *CorrectTextTool) Name() string {
	return "correct_text"
}

func (t *CorrectTextTool) Description() string {
	return "Replace incorrectly transcribed text in the document. Use the exact text as it appears in the transcript."
}

func (t *CorrectTextTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"find": map[string]interface{}{
				"type":        "string",
				"description": "The exact text to find in the document",
			},
			"replace": map[string]interface{}{
				"type":        "string",
				"description": "The corrected text to replace it with",
			},
			"replace_all": map[string]interface{}{
				"type":        "boolean",
				"description": "Replace every occurrence (default) or only the first",
			},
		},
		"required": []string{"find", "replace"},
	}
}

func (t *CorrectTextTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	find := GetStringParam(params, "find", "")
	if find == "" {
		return failure("find parameter is required")
	}
	replace := GetStringParam(params, "replace", "")
	replaceAll := GetBoolParam(params, "replace_all", true)

	text := t.session.Text()
	count := strings.Count(text, find)
	if count == 0 {
		return failure("text not found in document: %q", find)
	}

	if replaceAll {
		t.session.SetText(strings.ReplaceAll(text, find, replace))
	} else {
		t.session.SetText(strings.Replace(text, find, replace, 1))
		count = 1
	}

	t.session.RecordChange(session.ChangeTextCorrection,
		"Replaced \""+find+"\" with \""+replace+"\"",
		map[string]interface{}{
			"find":    find,
			"replace": replace,
			"count":   count,
		})

	return success("Replaced %d occurrence(s) of %q with %q", count, find, replace)
}
