package session

import "testing"

func TestRecordChangeAppendsInOrder(t *testing.T) {
	sess := New("/notes/15-1412-daily.md", "# Daily\n", nil)

	sess.RecordChange(ChangeTextCorrection, "fixed typo", map[string]interface{}{"count": 1})
	sess.RecordChange(ChangeTitleChanged, "renamed", map[string]interface{}{"slug": "weekly"})

	changes := sess.Changes()
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[0].Kind != ChangeTextCorrection || changes[1].Kind != ChangeTitleChanged {
		t.Errorf("changes out of order: %v, %v", changes[0].Kind, changes[1].Kind)
	}
}

func TestChangesReturnsCopy(t *testing.T) {
	sess := New("/notes/a.md", "text", nil)
	sess.RecordChange(ChangeTermAdded, "added term", nil)

	changes := sess.Changes()
	changes[0].Description = "mutated"

	if sess.Changes()[0].Description != "added term" {
		t.Error("Changes() must return a copy, not the backing slice")
	}
}

func TestLastChange(t *testing.T) {
	sess := New("/notes/a.md", "text", nil)
	if sess.LastChange(ChangeTitleChanged) != nil {
		t.Fatal("expected nil for empty log")
	}

	sess.RecordChange(ChangeTitleChanged, "first", map[string]interface{}{"slug": "one"})
	sess.RecordChange(ChangeTextCorrection, "typo", nil)
	sess.RecordChange(ChangeTitleChanged, "second", map[string]interface{}{"slug": "two"})

	last := sess.LastChange(ChangeTitleChanged)
	if last == nil || last.Details["slug"] != "two" {
		t.Fatalf("expected latest title change, got %+v", last)
	}
}

func TestModified(t *testing.T) {
	sess := New("/notes/a.md", "original", nil)
	if sess.Modified() {
		t.Error("fresh session must not be modified")
	}
	sess.SetText("changed")
	if !sess.Modified() {
		t.Error("expected modified after SetText")
	}
}
