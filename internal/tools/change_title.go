package tools

import (
	"context"
	"regexp"

	"github.com/codefionn/notizfix/internal/entity"
	"github.com/codefionn/notizfix/internal/session"
)

var topHeadingRe = regexp.MustCompile(`(?m)^# .*$`)

// ChangeTitleTool rewrites the document's top-level heading. It always
// succeeds; when no heading exists the text stays untouched but the change is
// still recorded so the applier can rename the file from the slug.
type ChangeTitleTool struct {
	session *session.FeedbackSession
}

func NewChangeTitleTool(sess *session.FeedbackSession) *ChangeTitleTool {
	return &ChangeTitleTool{session: sess}
}

func (t *ChangeTitleTool) Name() string {
	return "change_title"
}

func (t *ChangeTitleTool) Description() string {
	return "Change the document title. Rewrites the first top-level heading and renames the file accordingly."
}

func (t *ChangeTitleTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "The new document title",
			},
		},
		"required": []string{"title"},
	}
}

func (t *ChangeTitleTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	title := GetStringParam(params, "title", "")
	if title == "" {
		return failure("title parameter is required")
	}

	text := t.session.Text()
	replaced := false
	updated := topHeadingRe.ReplaceAllStringFunc(text, func(match string) string {
		if replaced {
			return match
		}
		replaced = true
		return "# " + title
	})
	if replaced {
		t.session.SetText(updated)
	}

	slug := entity.Slugify(title)
	t.session.RecordChange(session.ChangeTitleChanged,
		"Changed title to \""+title+"\"",
		map[string]interface{}{
			"title": title,
			"slug":  slug,
		})

	return success("Title changed to %q", title)
}
