package tools

import "context"

// ProvideHelpTool returns static usage guidance keyed by topic. It never
// mutates the session.
type ProvideHelpTool struct{}

func NewProvideHelpTool() *ProvideHelpTool {
	return &ProvideHelpTool{}
}

func (t *ProvideHelpTool) Name() string {
	return "provide_help"
}

func (t *ProvideHelpTool) Description() string {
	return "Explain to the user what kinds of feedback this tool understands. Use when the feedback is a question about usage rather than a correction."
}

func (t *ProvideHelpTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"topic": map[string]interface{}{
				"type":        "string",
				"description": "Which area the user asked about",
				"enum":        []string{"terms", "people", "projects", "corrections", "general"},
			},
		},
		"required": []string{},
	}
}

const (
	helpTerms = `## Terms

Tell me about domain terms or acronyms the transcriber keeps getting wrong, for example:
- "NATS is spelled all caps, it often comes out as 'gnats'"
- "Add the term Kubernetes, the transcript says 'cooper netties'"

I store the correct spelling together with the known mishearings so future transcripts are fixed automatically.`

	helpPeople = `## People

Tell me who appears in your transcripts, for example:
- "The speaker called 'Yon' is actually Jan Kowalski, our platform lead"
- "Add Maria Fischer from Acme, her name shows up as 'marry fisher'"

I store the person's name, role and company together with the transcriber's usual misspellings.`

	helpProjects = `## Projects

Documents can be assigned to projects, which control where the file is stored, for example:
- "This belongs to the infra-migration project"
- "Move this note to the hiring project"

Projects must already exist in the knowledge base, I will list the known ones if the name does not match.`

	helpCorrections = `## Corrections

Point out anything that was transcribed wrong, for example:
- "Replace 'sink' with 'sync' everywhere"
- "The second paragraph should say 'deployment freeze', not 'deployment fees'"
- "The title should be 'Weekly platform sync'"

I apply the fixes directly to the document text.`

	helpGeneral = `I process feedback on transcribed notes. You can:
- correct mistranscribed text ("replace X with Y")
- teach me domain terms and acronyms
- teach me people's names, roles and companies
- assign the document to a project
- change the document title

Just describe what is wrong in plain language.`
)

func (t *ProvideHelpTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	topic := GetStringParam(params, "topic", "general")

	var text string
	switch topic {
	case "terms":
		text = helpTerms
	case "people":
		text = helpPeople
	case "projects":
		text = helpProjects
	case "corrections":
		text = helpCorrections
	default:
		text = helpGeneral
	}

	result := success("%s", text)
	result.Data = map[string]interface{}{"topic": topic}
	return result
}
