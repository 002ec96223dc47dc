// Package session holds the mutable state of a single feedback run: the
// document text being corrected and the ordered audit log of applied changes.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codefionn/notizfix/internal/entity"
)

// ChangeKind discriminates audit log entries.
type ChangeKind string

const (
	ChangeTextCorrection ChangeKind = "text_correction"
	ChangeTermAdded      ChangeKind = "term_added"
	ChangePersonAdded    ChangeKind = "person_added"
	ChangeProjectChanged ChangeKind = "project_changed"
	ChangeTitleChanged   ChangeKind = "title_changed"
)

// Change is one audit record of a successfully executed tool effect. Changes
// are append-only and never reordered; their sequence is the sole input to
// the change applier.
type Change struct {
	Kind        ChangeKind             `json:"kind"`
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// FeedbackSession is the unit of work for one feedback invocation. It is
// created at the start of a run, exclusively owned by that run's
// orchestrator, and discarded when the run ends.
type FeedbackSession struct {
	ID           string
	SourcePath   string
	OriginalText string
	Store        entity.Store
	Verbose      bool
	DryRun       bool

	mu      sync.RWMutex
	text    string
	changes []Change
	created time.Time
}

// New creates a session for the document at sourcePath holding text.
func New(sourcePath, text string, store entity.Store) *FeedbackSession {
	return &FeedbackSession{
		ID:           uuid.NewString(),
		SourcePath:   sourcePath,
		OriginalText: text,
		Store:        store,
		text:         text,
		created:      time.Now(),
	}
}

// Text returns the current document text.
func (s *FeedbackSession) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// SetText replaces the document text.
func (s *FeedbackSession) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// RecordChange appends one audit entry. Only successful tool executions may
// record a change.
func (s *FeedbackSession) RecordChange(kind ChangeKind, description string, details map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, Change{
		Kind:        kind,
		Description: description,
		Details:     details,
		Timestamp:   time.Now(),
	})
}

// Changes returns a copy of the audit log in execution order.
func (s *FeedbackSession) Changes() []Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Change, len(s.changes))
	copy(out, s.changes)
	return out
}

// LastChange returns the most recent change of the given kind, or nil.
func (s *FeedbackSession) LastChange(kind ChangeKind) *Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.changes) - 1; i >= 0; i-- {
		if s.changes[i].Kind == kind {
			c := s.changes[i]
			return &c
		}
	}
	return nil
}

// Modified reports whether the document text differs from the original.
func (s *FeedbackSession) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text != s.OriginalText
}
