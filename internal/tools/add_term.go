package tools

import (
	"context"
	"errors"
	"time"

	"github.com/codefionn/notizfix/internal/entity"
	"github.com/codefionn/notizfix/internal/session"
)

// AddTermTool records a new domain term in the knowledge base so the
// transcriber stops mangling it.
type AddTermTool struct {
	session *session.FeedbackSession
}

func NewAddTermTool(sess *session.FeedbackSession) *AddTermTool {
	return &AddTermTool{session: sess}
}

func (t *AddTermTool) Name() string {
	return "add_term"
}

func (t *AddTermTool) Description() string {
	return "Add a domain term or acronym to the knowledge base, with optional expansion and common mistranscriptions."
}

func (t *AddTermTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "The correct spelling of the term",
			},
			"expansion": map[string]interface{}{
				"type":        "string",
				"description": "What the term or acronym stands for",
			},
			"sounds_like": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Spellings the transcriber typically produces instead",
			},
			"domain": map[string]interface{}{
				"type":        "string",
				"description": "Subject area the term belongs to",
			},
		},
		"required": []string{"name"},
	}
}

func (t *AddTermTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	name := GetStringParam(params, "name", "")
	if name == "" {
		return failure("name parameter is required")
	}

	id := entity.DeriveID(name)
	if id == "" {
		return failure("cannot derive an identifier from %q", name)
	}

	_, err := t.session.Store.GetTerm(ctx, id)
	if err == nil {
		return failure("term %q already exists", id)
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return failure("failed to check for existing term: %v", err)
	}

	term := &entity.Term{
		ID:         id,
		Name:       name,
		Expansion:  GetStringParam(params, "expansion", ""),
		SoundsLike: GetStringSliceParam(params, "sounds_like"),
		Domain:     GetStringParam(params, "domain", ""),
		CreatedAt:  time.Now(),
	}

	if !t.session.DryRun {
		if err := t.session.Store.SaveEntity(ctx, term); err != nil {
			return failure("failed to save term: %v", err)
		}
	}

	t.session.RecordChange(session.ChangeTermAdded,
		"Added term \""+name+"\"",
		map[string]interface{}{
			"id":   id,
			"name": name,
		})

	return success("Added term %q (id %s)", name, id)
}
