package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/codefionn/notizfix/internal/session"
)

var (
	projectNameLineRe = regexp.MustCompile(`(?m)^\*\*Project\*\*: .*$`)
	projectIDLineRe   = regexp.MustCompile("(?m)^\\*\\*Project ID\\*\\*: `[^`\n]*`")
)

// ChangeProjectTool reassigns the document to a different project. The
// document's metadata lines are rewritten in place and the project's routing
// is recorded so the change applier can relocate the file afterwards.
type ChangeProjectTool struct {
	session *session.FeedbackSession
}

func NewChangeProjectTool(sess *session.FeedbackSession) *ChangeProjectTool {
	return &ChangeProjectTool{session: sess}
}

func (t *ChangeProjectTool) Name() string {
	return "change_project"
}

func (t *ChangeProjectTool) Description() string {
	return "Assign the document to a different project. The project must already exist in the knowledge base."
}

func (t *ChangeProjectTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "Identifier of the project to assign the document to",
			},
		},
		"required": []string{"project_id"},
	}
}

func (t *ChangeProjectTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	projectID := GetStringParam(params, "project_id", "")
	if projectID == "" {
		return failure("project_id parameter is required")
	}

	project, err := t.session.Store.GetProject(ctx, projectID)
	if err != nil {
		known, listErr := t.session.Store.GetAllProjects(ctx)
		if listErr != nil {
			return failure("unknown project %q", projectID)
		}
		ids := make([]string, 0, len(known))
		for _, p := range known {
			ids = append(ids, p.ID)
		}
		return failure("unknown project %q, known projects: %s", projectID, strings.Join(ids, ", "))
	}

	text := t.session.Text()
	text = projectNameLineRe.ReplaceAllString(text, "**Project**: "+project.Name)
	text = projectIDLineRe.ReplaceAllString(text, fmt.Sprintf("**Project ID**: `%s`", project.ID))
	t.session.SetText(text)

	t.session.RecordChange(session.ChangeProjectChanged,
		"Assigned document to project \""+project.Name+"\"",
		map[string]interface{}{
			"project_id":   project.ID,
			"project_name": project.Name,
			"routing": map[string]interface{}{
				"destination": project.Routing.Destination,
				"structure":   project.Routing.Structure,
			},
		})

	return success("Document assigned to project %q", project.Name)
}
