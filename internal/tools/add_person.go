package tools

import (
	"context"
	"errors"
	"time"

	"github.com/codefionn/notizfix/internal/entity"
	"github.com/codefionn/notizfix/internal/session"
)

// AddPersonTool records a new person in the knowledge base.
type AddPersonTool struct {
	session *session.FeedbackSession
}

func NewAddPersonTool(sess *session.FeedbackSession) *AddPersonTool {
	return &AddPersonTool{session: sess}
}

func (t *AddPersonTool) Name() string {
	return "add_person"
}

func (t *AddPersonTool) Description() string {
	return "Add a person to the knowledge base, with optional role, company and common mistranscriptions of their name."
}

func (t *AddPersonTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "The person's correctly spelled name",
			},
			"sounds_like": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Spellings the transcriber typically produces instead",
			},
			"role": map[string]interface{}{
				"type":        "string",
				"description": "The person's role or job title",
			},
			"company": map[string]interface{}{
				"type":        "string",
				"description": "The company or organization they belong to",
			},
		},
		"required": []string{"name"},
	}
}

func (t *AddPersonTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	name := GetStringParam(params, "name", "")
	if name == "" {
		return failure("name parameter is required")
	}

	id := entity.DeriveID(name)
	if id == "" {
		return failure("cannot derive an identifier from %q", name)
	}

	_, err := t.session.Store.GetPerson(ctx, id)
	if err == nil {
		return failure("person %q already exists", id)
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return failure("failed to check for existing person: %v", err)
	}

	person := &entity.Person{
		ID:         id,
		Name:       name,
		SoundsLike: GetStringSliceParam(params, "sounds_like"),
		Role:       GetStringParam(params, "role", ""),
		Company:    GetStringParam(params, "company", ""),
		CreatedAt:  time.Now(),
	}

	if !t.session.DryRun {
		if err := t.session.Store.SaveEntity(ctx, person); err != nil {
			return failure("failed to save person: %v", err)
		}
	}

	t.session.RecordChange(session.ChangePersonAdded,
		"Added person \""+name+"\"",
		map[string]interface{}{
			"id":   id,
			"name": name,
		})

	return success("Added person %q (id %s)", name, id)
}
