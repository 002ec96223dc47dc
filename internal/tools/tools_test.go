package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/codefionn/notizfix/internal/entity"
	"github.com/codefionn/notizfix/internal/fs"
	"github.com/codefionn/notizfix/internal/session"
)

func newTestSession(t *testing.T, text string) (*session.FeedbackSession, *entity.MarkdownStore) {
	t.Helper()
	store := entity.NewMarkdownStore(fs.NewMockFS(), "/kb")
	sess := session.New("/notes/2024/01/15-1412-weekly-sync.md", text, store)
	return sess, store
}

func TestRegistryUnknownTool(t *testing.T) {
	sess, _ := newTestSession(t, "hello")
	registry := NewFeedbackRegistry(sess)

	result := registry.Execute(context.Background(), &ToolCall{ID: "call_1", Name: "delete_everything"})
	if result.Success {
		t.Fatal("expected failure for unknown tool")
	}
	if !strings.Contains(result.Message, "Unknown tool") {
		t.Fatalf("expected message to contain 'Unknown tool', got %q", result.Message)
	}
	if result.ID != "call_1" {
		t.Fatalf("expected result ID call_1, got %q", result.ID)
	}
}

func TestRegistrySchema(t *testing.T) {
	sess, _ := newTestSession(t, "hello")
	registry := NewFeedbackRegistry(sess)

	schemas := registry.ToJSONSchema()
	if len(schemas) != 7 {
		t.Fatalf("expected 7 tool schemas, got %d", len(schemas))
	}

	first := schemas[0]
	if first["type"] != "function" {
		t.Fatalf("expected type function, got %v", first["type"])
	}
	fn, ok := first["function"].(map[string]interface{})
	if !ok {
		t.Fatal("expected function object in schema")
	}
	if fn["name"] != "correct_text" {
		t.Fatalf("expected first tool correct_text, got %v", fn["name"])
	}
	params, ok := fn["parameters"].(map[string]interface{})
	if !ok || params["type"] != "object" {
		t.Fatalf("expected object parameters, got %v", fn["parameters"])
	}
}

func TestCorrectTextReplaceAll(t *testing.T) {
	sess, _ := newTestSession(t, "the sink failed, restart the sink")
	registry := NewFeedbackRegistry(sess)

	result := registry.Execute(context.Background(), &ToolCall{
		Name:       "correct_text",
		Parameters: map[string]interface{}{"find": "sink", "replace": "sync"},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if got := sess.Text(); got != "the sync failed, restart the sync" {
		t.Fatalf("unexpected text: %q", got)
	}

	changes := sess.Changes()
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Kind != session.ChangeTextCorrection {
		t.Fatalf("expected text_correction change, got %s", changes[0].Kind)
	}
	if changes[0].Details["count"] != 2 {
		t.Fatalf("expected count 2, got %v", changes[0].Details["count"])
	}
}

func TestCorrectTextFirstOnly(t *testing.T) {
	sess, _ := newTestSession(t, "alpha beta alpha")
	registry := NewFeedbackRegistry(sess)

	result := registry.Execute(context.Background(), &ToolCall{
		Name: "correct_text",
		Parameters: map[string]interface{}{
			"find":        "alpha",
			"replace":     "gamma",
			"replace_all": false,
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if got := sess.Text(); got != "gamma beta alpha" {
		t.Fatalf("unexpected text: %q", got)
	}
	if count := sess.Changes()[0].Details["count"]; count != 1 {
		t.Fatalf("expected count 1, got %v", count)
	}
}

func TestCorrectTextNotFound(t *testing.T) {
	original := "Test content\nWith some lines\nTo edit"
	sess, _ := newTestSession(t, original)
	registry := NewFeedbackRegistry(sess)

	result := registry.Execute(context.Background(), &ToolCall{
		Name:       "correct_text",
		Parameters: map[string]interface{}{"find": "absent", "replace": "x"},
	})
	if result.Success {
		t.Fatal("expected failure for absent find text")
	}
	if sess.Text() != original {
		t.Fatal("text must stay untouched on failure")
	}
	if len(sess.Changes()) != 0 {
		t.Fatal("failed tool must not record a change")
	}
}

func TestCorrectTextSingleOccurrence(t *testing.T) {
	sess, _ := newTestSession(t, "Test content\nWith some lines\nTo edit")
	registry := NewFeedbackRegistry(sess)

	result := registry.Execute(context.Background(), &ToolCall{
		Name:       "correct_text",
		Parameters: map[string]interface{}{"find": "Test", "replace": "Demo"},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if strings.Contains(sess.Text(), "Test") {
		t.Fatalf("expected no remaining occurrence, got %q", sess.Text())
	}

	changes := sess.Changes()
	if len(changes) != 1 || changes[0].Kind != session.ChangeTextCorrection {
		t.Fatalf("expected exactly one text_correction change, got %+v", changes)
	}
	if changes[0].Details["count"] != 1 {
		t.Fatalf("expected count 1, got %v", changes[0].Details["count"])
	}
}

func TestAddTerm(t *testing.T) {
	sess, store := newTestSession(t, "doc")
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	result := registry.Execute(ctx, &ToolCall{
		Name: "add_term",
		Parameters: map[string]interface{}{
			"name":        "NATS",
			"expansion":   "Neural Autonomic Transport System",
			"sounds_like": []interface{}{"gnats", "nuts"},
			"domain":      "messaging",
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}

	term, err := store.GetTerm(ctx, "nats")
	if err != nil {
		t.Fatalf("expected term to be persisted: %v", err)
	}
	if term.Name != "NATS" || len(term.SoundsLike) != 2 {
		t.Fatalf("unexpected persisted term: %+v", term)
	}

	changes := sess.Changes()
	if len(changes) != 1 || changes[0].Kind != session.ChangeTermAdded {
		t.Fatalf("expected one term_added change, got %+v", changes)
	}
}

func TestAddTermDuplicate(t *testing.T) {
	sess, store := newTestSession(t, "doc")
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	if err := store.SaveEntity(ctx, &entity.Term{ID: "nats", Name: "NATS"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result := registry.Execute(ctx, &ToolCall{
		Name:       "add_term",
		Parameters: map[string]interface{}{"name": "NATS"},
	})
	if result.Success {
		t.Fatal("expected failure for duplicate term id")
	}
	if len(sess.Changes()) != 0 {
		t.Fatal("failed tool must not record a change")
	}
}

func TestAddTermDryRunRecordsChangeWithoutSaving(t *testing.T) {
	sess, store := newTestSession(t, "doc")
	sess.DryRun = true
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	result := registry.Execute(ctx, &ToolCall{
		Name:       "add_term",
		Parameters: map[string]interface{}{"name": "Kubernetes"},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}

	if _, err := store.GetTerm(ctx, "kubernetes"); err == nil {
		t.Fatal("dry-run must not persist the term")
	}
	changes := sess.Changes()
	if len(changes) != 1 || changes[0].Kind != session.ChangeTermAdded {
		t.Fatalf("dry-run must still record the change, got %+v", changes)
	}
}

func TestAddPersonDryRunRecordsChangeWithoutSaving(t *testing.T) {
	sess, store := newTestSession(t, "doc")
	sess.DryRun = true
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	result := registry.Execute(ctx, &ToolCall{
		Name: "add_person",
		Parameters: map[string]interface{}{
			"name":    "Jan Kowalski",
			"role":    "platform lead",
			"company": "Acme",
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}

	if _, err := store.GetPerson(ctx, "jan-kowalski"); err == nil {
		t.Fatal("dry-run must not persist the person")
	}
	changes := sess.Changes()
	if len(changes) != 1 || changes[0].Kind != session.ChangePersonAdded {
		t.Fatalf("dry-run must still record the change, got %+v", changes)
	}
}

func TestAddPersonDuplicate(t *testing.T) {
	sess, store := newTestSession(t, "doc")
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	if err := store.SaveEntity(ctx, &entity.Person{ID: "jan-kowalski", Name: "Jan Kowalski"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result := registry.Execute(ctx, &ToolCall{
		Name:       "add_person",
		Parameters: map[string]interface{}{"name": "Jan Kowalski"},
	})
	if result.Success {
		t.Fatal("expected failure for duplicate person id")
	}
}

func TestChangeProjectRewritesMetadataLines(t *testing.T) {
	text := "# Weekly Sync\n\n**Project**: Old Project\n**Project ID**: `old-project`\n\nBody text.\n"
	sess, store := newTestSession(t, text)
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	project := &entity.Project{
		ID:      "infra-migration",
		Name:    "Infra Migration",
		Routing: entity.Routing{Destination: "~/notes/infra", Structure: "month"},
	}
	if err := store.SaveEntity(ctx, project); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result := registry.Execute(ctx, &ToolCall{
		Name:       "change_project",
		Parameters: map[string]interface{}{"project_id": "infra-migration"},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}

	got := sess.Text()
	if !strings.Contains(got, "**Project**: Infra Migration") {
		t.Fatalf("project name line not rewritten: %q", got)
	}
	if !strings.Contains(got, "**Project ID**: `infra-migration`") {
		t.Fatalf("project id line not rewritten: %q", got)
	}

	change := sess.LastChange(session.ChangeProjectChanged)
	if change == nil {
		t.Fatal("expected project_changed change")
	}
	routing, ok := change.Details["routing"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected routing details, got %+v", change.Details)
	}
	if routing["destination"] != "~/notes/infra" || routing["structure"] != "month" {
		t.Fatalf("unexpected routing details: %+v", routing)
	}
}

func TestChangeProjectMissingMetadataLinesIsSilent(t *testing.T) {
	sess, store := newTestSession(t, "# Title\n\nNo metadata here.\n")
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	if err := store.SaveEntity(ctx, &entity.Project{ID: "hiring", Name: "Hiring"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result := registry.Execute(ctx, &ToolCall{
		Name:       "change_project",
		Parameters: map[string]interface{}{"project_id": "hiring"},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if sess.Text() != "# Title\n\nNo metadata here.\n" {
		t.Fatalf("text must stay unchanged when metadata lines are absent, got %q", sess.Text())
	}
	if sess.LastChange(session.ChangeProjectChanged) == nil {
		t.Fatal("change must still be recorded")
	}
}

func TestChangeProjectUnknownListsKnownIDs(t *testing.T) {
	sess, store := newTestSession(t, "doc")
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	for _, id := range []string{"alpha", "beta"} {
		if err := store.SaveEntity(ctx, &entity.Project{ID: id, Name: id}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result := registry.Execute(ctx, &ToolCall{
		Name:       "change_project",
		Parameters: map[string]interface{}{"project_id": "nope"},
	})
	if result.Success {
		t.Fatal("expected failure for unknown project")
	}
	if !strings.Contains(result.Message, "alpha") || !strings.Contains(result.Message, "beta") {
		t.Fatalf("message must list all known project ids, got %q", result.Message)
	}
}

func TestChangeTitleRewritesFirstHeadingOnly(t *testing.T) {
	sess, _ := newTestSession(t, "# Old Title\n\nText.\n\n# Appendix\n")
	registry := NewFeedbackRegistry(sess)

	result := registry.Execute(context.Background(), &ToolCall{
		Name:       "change_title",
		Parameters: map[string]interface{}{"title": "Weekly Platform Sync"},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if got := sess.Text(); got != "# Weekly Platform Sync\n\nText.\n\n# Appendix\n" {
		t.Fatalf("unexpected text: %q", got)
	}

	change := sess.LastChange(session.ChangeTitleChanged)
	if change == nil {
		t.Fatal("expected title_changed change")
	}
	if change.Details["slug"] != "weekly-platform-sync" {
		t.Fatalf("unexpected slug: %v", change.Details["slug"])
	}
}

func TestChangeTitleWithoutHeadingStillRecordsChange(t *testing.T) {
	sess, _ := newTestSession(t, "plain text without heading\n")
	registry := NewFeedbackRegistry(sess)

	result := registry.Execute(context.Background(), &ToolCall{
		Name:       "change_title",
		Parameters: map[string]interface{}{"title": "New Title"},
	})
	if !result.Success {
		t.Fatalf("change_title must never fail, got %q", result.Message)
	}
	if sess.Text() != "plain text without heading\n" {
		t.Fatalf("text must stay unchanged, got %q", sess.Text())
	}

	change := sess.LastChange(session.ChangeTitleChanged)
	if change == nil {
		t.Fatal("expected title_changed change even without a heading")
	}
	if change.Details["slug"] != "new-title" {
		t.Fatalf("unexpected slug: %v", change.Details["slug"])
	}
}

func TestProvideHelpTopics(t *testing.T) {
	sess, _ := newTestSession(t, "doc")
	registry := NewFeedbackRegistry(sess)
	ctx := context.Background()

	for _, topic := range []string{"terms", "people", "projects", "corrections", "general", "bogus"} {
		result := registry.Execute(ctx, &ToolCall{
			Name:       "provide_help",
			Parameters: map[string]interface{}{"topic": topic},
		})
		if !result.Success {
			t.Fatalf("provide_help must never fail, topic %q: %q", topic, result.Message)
		}
		if result.Message == "" {
			t.Fatalf("expected guidance text for topic %q", topic)
		}
	}

	if len(sess.Changes()) != 0 {
		t.Fatal("provide_help must not record changes")
	}
}

func TestCompleteSignal(t *testing.T) {
	sess, _ := newTestSession(t, "doc")
	registry := NewFeedbackRegistry(sess)

	result := registry.Execute(context.Background(), &ToolCall{
		Name:       "complete",
		Parameters: map[string]interface{}{"summary": "fixed two typos"},
	})
	if !result.Success {
		t.Fatalf("complete must never fail, got %q", result.Message)
	}
	if result.Data["complete"] != true {
		t.Fatalf("expected complete flag in data, got %+v", result.Data)
	}
	if result.Data["summary"] != "fixed two typos" {
		t.Fatalf("expected summary in data, got %+v", result.Data)
	}
	if len(sess.Changes()) != 0 {
		t.Fatal("complete must not record changes")
	}
}

func TestGetStringSliceParam(t *testing.T) {
	params := map[string]interface{}{
		"mixed":  []interface{}{"a", 1, "b", ""},
		"typed":  []string{"x", "y"},
		"single": "solo",
	}

	if got := GetStringSliceParam(params, "mixed"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected mixed result: %v", got)
	}
	if got := GetStringSliceParam(params, "typed"); len(got) != 2 {
		t.Fatalf("unexpected typed result: %v", got)
	}
	if got := GetStringSliceParam(params, "single"); len(got) != 1 || got[0] != "solo" {
		t.Fatalf("unexpected single result: %v", got)
	}
	if got := GetStringSliceParam(params, "missing"); got != nil {
		t.Fatalf("expected nil for missing key, got %v", got)
	}
}
