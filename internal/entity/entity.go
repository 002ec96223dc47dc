// Package entity models the persistent knowledge base of terms, people and
// projects that transcripts are corrected against.
package entity

import (
	"strings"
	"time"
)

// Kind identifies the entity record type.
type Kind string

const (
	KindTerm    Kind = "term"
	KindPerson  Kind = "person"
	KindProject Kind = "project"
)

// Entity is implemented by all knowledge base record types.
type Entity interface {
	EntityID() string
	EntityKind() Kind
}

// Term is a domain-specific term or acronym the transcriber keeps
// misrecognizing.
type Term struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	Expansion  string    `yaml:"expansion,omitempty"`
	SoundsLike []string  `yaml:"sounds_like,omitempty"`
	Domain     string    `yaml:"domain,omitempty"`
	CreatedAt  time.Time `yaml:"created_at,omitempty"`
	Notes      string    `yaml:"-"`
}

func (t *Term) EntityID() string { return t.ID }
func (t *Term) EntityKind() Kind { return KindTerm }

// Person is somebody who appears in transcripts.
type Person struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	SoundsLike []string  `yaml:"sounds_like,omitempty"`
	Role       string    `yaml:"role,omitempty"`
	Company    string    `yaml:"company,omitempty"`
	CreatedAt  time.Time `yaml:"created_at,omitempty"`
	Notes      string    `yaml:"-"`
}

func (p *Person) EntityID() string { return p.ID }
func (p *Person) EntityKind() Kind { return KindPerson }

// Routing describes where documents assigned to a project are filed.
// Structure selects the date subdirectory nesting: "year", "month", "day" or
// anything else for a flat destination.
type Routing struct {
	Destination string `yaml:"destination,omitempty"`
	Structure   string `yaml:"structure,omitempty"`
}

// Project groups transcripts and owns their filing location.
type Project struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Status    string    `yaml:"status,omitempty"`
	Routing   Routing   `yaml:"routing,omitempty"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
	Notes     string    `yaml:"-"`
}

func (p *Project) EntityID() string { return p.ID }
func (p *Project) EntityKind() Kind { return KindProject }

// DeriveID builds a stable entity identifier from a display name: lowercase,
// every run of non-alphanumeric characters becomes a single dash, leading and
// trailing dashes are trimmed.
func DeriveID(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// maxSlugLen caps filename slugs so renamed transcripts stay manageable.
const maxSlugLen = 60

// Slugify derives a filename slug from a title. Same rules as DeriveID plus a
// length cap that never cuts mid-word unless the first word alone exceeds the
// cap.
func Slugify(title string) string {
	slug := DeriveID(title)
	if len(slug) <= maxSlugLen {
		return slug
	}

	cut := strings.LastIndex(slug[:maxSlugLen+1], "-")
	if cut <= 0 {
		cut = maxSlugLen
	}
	return strings.Trim(slug[:cut], "-")
}
