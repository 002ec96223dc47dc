// Package applier turns a finished feedback session into its final file:
// renaming from a title change, relocating from a project change, then
// persisting the corrected text.
package applier

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/codefionn/notizfix/internal/fs"
	"github.com/codefionn/notizfix/internal/logger"
	"github.com/codefionn/notizfix/internal/session"
)

// timestampPrefixRe matches the DD-HHMM- capture prefix some transcripts
// carry in their filename. The digits are preserved across renames.
var timestampPrefixRe = regexp.MustCompile(`^(\d{2}-\d{4})-`)

// Result reports where the document ended up.
type Result struct {
	NewPath string
	Moved   bool
}

// ChangeApplier computes the final path of a session's document from its
// change log and writes the result. The clock and home directory are
// injectable for tests.
type ChangeApplier struct {
	fs      fs.FileSystem
	homeDir string
	now     func() time.Time
}

// New creates an applier writing through the given filesystem.
func New(filesystem fs.FileSystem, homeDir string) *ChangeApplier {
	return &ChangeApplier{
		fs:      filesystem,
		homeDir: homeDir,
		now:     time.Now,
	}
}

// Apply persists the session's text under its final path. The title step runs
// before the project step because relocation reuses the renamed basename.
// Dry-run computes the path without touching the filesystem.
func (a *ChangeApplier) Apply(ctx context.Context, sess *session.FeedbackSession) (*Result, error) {
	newPath := sess.SourcePath
	moved := false

	if change := sess.LastChange(session.ChangeTitleChanged); change != nil {
		if slug, ok := change.Details["slug"].(string); ok && slug != "" {
			newPath = filepath.Join(filepath.Dir(newPath), renameBase(filepath.Base(newPath), slug))
		}
	}

	if change := sess.LastChange(session.ChangeProjectChanged); change != nil {
		if dest := routingDestination(change); dest != "" {
			dir := a.routingDir(dest, routingStructure(change))
			newPath = filepath.Join(dir, filepath.Base(newPath))
			moved = true
		}
	}

	if sess.DryRun {
		logger.Info("Dry run, would write %s", newPath)
		return &Result{NewPath: newPath, Moved: moved}, nil
	}

	if err := a.fs.MkdirAll(ctx, filepath.Dir(newPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}
	if err := a.fs.WriteFile(ctx, newPath, []byte(sess.Text())); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	if newPath != sess.SourcePath {
		if err := a.fs.Delete(ctx, sess.SourcePath); err != nil {
			return nil, fmt.Errorf("failed to remove original document: %w", err)
		}
	}

	return &Result{NewPath: newPath, Moved: moved}, nil
}

// renameBase builds the new filename for a title slug, keeping a DD-HHMM-
// timestamp prefix when the original filename carries one.
func renameBase(base, slug string) string {
	if m := timestampPrefixRe.FindStringSubmatch(base); m != nil {
		return m[1] + "-" + slug + ".md"
	}
	return slug + ".md"
}

// routingDir resolves the destination directory for a project routing,
// expanding a leading ~ and appending the date nesting selected by structure.
// The date is the current wall-clock time, not anything recorded in the
// document.
func (a *ChangeApplier) routingDir(dest, structure string) string {
	if dest == "~" {
		dest = a.homeDir
	} else if strings.HasPrefix(dest, "~/") {
		dest = filepath.Join(a.homeDir, dest[2:])
	}

	now := a.now()
	switch structure {
	case "year":
		return filepath.Join(dest, fmt.Sprintf("%04d", now.Year()))
	case "month":
		return filepath.Join(dest, fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())))
	case "day":
		return filepath.Join(dest, fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), fmt.Sprintf("%02d", now.Day()))
	default:
		return dest
	}
}

func routingDestination(change *session.Change) string {
	routing, ok := change.Details["routing"].(map[string]interface{})
	if !ok {
		return ""
	}
	dest, _ := routing["destination"].(string)
	return dest
}

func routingStructure(change *session.Change) string {
	routing, ok := change.Details["routing"].(map[string]interface{})
	if !ok {
		return ""
	}
	structure, _ := routing["structure"].(string)
	return structure
}
