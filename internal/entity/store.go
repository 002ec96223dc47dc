package entity

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codefionn/notizfix/internal/fs"
	"github.com/codefionn/notizfix/internal/logger"
)

var (
	// ErrNotFound is returned when no entity exists under the requested ID.
	ErrNotFound = errors.New("entity not found")
	// ErrUnsupportedKind is returned for entities the store cannot persist.
	ErrUnsupportedKind = errors.New("unsupported entity kind")
)

// Store is the knowledge base contract the feedback tools depend on.
type Store interface {
	GetTerm(ctx context.Context, id string) (*Term, error)
	GetPerson(ctx context.Context, id string) (*Person, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	GetAllProjects(ctx context.Context) ([]*Project, error)
	SaveEntity(ctx context.Context, e Entity) error
}

// MarkdownStore persists each entity as a Markdown file with a YAML
// frontmatter block, one file per entity:
//
//	<root>/terms/<id>.md
//	<root>/people/<id>.md
//	<root>/projects/<id>.md
type MarkdownStore struct {
	fs   fs.FileSystem
	root string
}

// NewMarkdownStore creates a store rooted at dir.
func NewMarkdownStore(filesystem fs.FileSystem, dir string) *MarkdownStore {
	return &MarkdownStore{fs: filesystem, root: dir}
}

func (s *MarkdownStore) GetTerm(ctx context.Context, id string) (*Term, error) {
	front, body, err := s.read(ctx, s.path(KindTerm, id))
	if err != nil {
		return nil, err
	}
	var t Term
	if err := yaml.Unmarshal(front, &t); err != nil {
		return nil, fmt.Errorf("parse term %s: %w", id, err)
	}
	t.Notes = body
	return &t, nil
}

func (s *MarkdownStore) GetPerson(ctx context.Context, id string) (*Person, error) {
	front, body, err := s.read(ctx, s.path(KindPerson, id))
	if err != nil {
		return nil, err
	}
	var p Person
	if err := yaml.Unmarshal(front, &p); err != nil {
		return nil, fmt.Errorf("parse person %s: %w", id, err)
	}
	p.Notes = body
	return &p, nil
}

func (s *MarkdownStore) GetProject(ctx context.Context, id string) (*Project, error) {
	front, body, err := s.read(ctx, s.path(KindProject, id))
	if err != nil {
		return nil, err
	}
	var p Project
	if err := yaml.Unmarshal(front, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", id, err)
	}
	p.Notes = body
	return &p, nil
}

func (s *MarkdownStore) GetAllProjects(ctx context.Context) ([]*Project, error) {
	dir := filepath.Join(s.root, kindDir(KindProject))
	infos, err := s.fs.ListDir(ctx, dir)
	if err != nil {
		// A missing projects directory is an empty knowledge base, not an
		// error.
		return nil, nil
	}

	projects := make([]*Project, 0, len(infos))
	for _, info := range infos {
		if info.IsDir || !strings.HasSuffix(info.Path, ".md") {
			continue
		}
		id := strings.TrimSuffix(filepath.Base(info.Path), ".md")
		project, err := s.GetProject(ctx, id)
		if err != nil {
			logger.Warn("skipping unreadable project %s: %v", id, err)
			continue
		}
		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (s *MarkdownStore) SaveEntity(ctx context.Context, e Entity) error {
	var notes string
	switch v := e.(type) {
	case *Term:
		notes = v.Notes
	case *Person:
		notes = v.Notes
	case *Project:
		notes = v.Notes
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedKind, e)
	}

	front, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s %s: %w", e.EntityKind(), e.EntityID(), err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n")
	if notes != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(notes, "\n"))
		b.WriteString("\n")
	}

	path := s.path(e.EntityKind(), e.EntityID())
	if err := s.fs.MkdirAll(ctx, filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create entity directory: %w", err)
	}
	if err := s.fs.WriteFile(ctx, path, []byte(b.String())); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Debug("saved %s entity %s to %s", e.EntityKind(), e.EntityID(), path)
	return nil
}

func (s *MarkdownStore) path(kind Kind, id string) string {
	return filepath.Join(s.root, kindDir(kind), id+".md")
}

func kindDir(kind Kind) string {
	switch kind {
	case KindTerm:
		return "terms"
	case KindPerson:
		return "people"
	case KindProject:
		return "projects"
	default:
		return string(kind)
	}
}

// read splits an entity file into its frontmatter block and Markdown body.
func (s *MarkdownStore) read(ctx context.Context, path string) ([]byte, string, error) {
	exists, err := s.fs.Exists(ctx, path)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", ErrNotFound
	}

	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, "", err
	}

	content := string(data)
	if !strings.HasPrefix(content, "---\n") {
		// No frontmatter: treat the whole file as body.
		return nil, strings.TrimSpace(content), nil
	}

	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated frontmatter in %s", path)
	}

	front := rest[:end+1]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return []byte(front), strings.TrimSpace(body), nil
}
