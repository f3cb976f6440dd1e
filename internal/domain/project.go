package domain

import (
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID        string
	Name      string
	Client    string
	Status    ProjectStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a project needs before it is persisted.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	switch p.Status {
	case ProjectActive, ProjectDone, ProjectArchived:
	default:
		return fmt.Errorf("invalid project status %q", p.Status)
	}
	return nil
}

// DisplayID returns the first 8 characters of the ID.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
