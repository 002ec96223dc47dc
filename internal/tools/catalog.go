package tools

import "github.com/codefionn/notizfix/internal/session"

// NewFeedbackRegistry builds the registry of all feedback tools bound to one
// session.
func NewFeedbackRegistry(sess *session.FeedbackSession) *Registry {
	registry := NewRegistry()
	registry.Register(NewCorrectTextTool(sess))
	registry.Register(NewAddTermTool(sess))
	registry.Register(NewAddPersonTool(sess))
	registry.Register(NewChangeProjectTool(sess))
	registry.Register(NewChangeTitleTool(sess))
	registry.Register(NewProvideHelpTool())
	registry.Register(NewCompleteTool())
	return registry
}
