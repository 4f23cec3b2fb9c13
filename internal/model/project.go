package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	ProjectStatusDraft     = "Draft"
	ProjectStatusPublished = "Published"

	// PublishedURLSuffix is the hosted-app domain appended to published slugs.
	PublishedURLSuffix = ".candlelight.app"

	defaultProjectThumbnailURL = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=400&h=300&fit=crop"
	lastEditedJustNow          = "Just now"
	duplicateTitleSuffix       = " (Copy)"

	projectTitleMaxLength = 200
)

var (
	ErrInvalidProjectTitle = errors.New("invalid_project_title")

	whitespaceRunPattern = regexp.MustCompile(`\s+`)
)

// Project is one website project owned by a dashboard account.
type Project struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	LastEdited string `json:"lastEdited"`
	Status     string `json:"status"`
	URL        string `json:"url,omitempty"`
}

// ProjectInput holds the raw values used to construct a Project.
type ProjectInput struct {
	Title     string
	Thumbnail string
	URL       string
}

// NewProject constructs a Draft project. The title is required; thumbnail
// falls back to the stock image.
func NewProject(input ProjectInput) (Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Project{}, ErrInvalidProjectTitle
	}
	if len(title) > projectTitleMaxLength {
		return Project{}, fmt.Errorf("%w: too long", ErrInvalidProjectTitle)
	}

	thumbnail := strings.TrimSpace(input.Thumbnail)
	if thumbnail == "" {
		thumbnail = defaultProjectThumbnailURL
	}

	return Project{
		ID:         uuid.NewString(),
		Title:      title,
		Thumbnail:  thumbnail,
		LastEdited: lastEditedJustNow,
		Status:     ProjectStatusDraft,
		URL:        strings.TrimSpace(input.URL),
	}, nil
}

// Publish transitions the project Draft -> Published and stamps the hosted
// URL derived from the title. Publishing an already-published project is a
// no-op so the stamped URL never changes.
func (project *Project) Publish() {
	if project.Status == ProjectStatusPublished {
		return
	}
	project.Status = ProjectStatusPublished
	project.URL = PublishedSlug(project.Title) + PublishedURLSuffix
}

// Duplicate clones the project under a fresh identifier. The copy is always a
// Draft with no published URL, regardless of the source state.
func (project Project) Duplicate() Project {
	duplicated := project
	duplicated.ID = uuid.NewString()
	duplicated.Title = project.Title + duplicateTitleSuffix
	duplicated.LastEdited = lastEditedJustNow
	duplicated.Status = ProjectStatusDraft
	duplicated.URL = ""
	return duplicated
}

// PublishedSlug lowercases a title and collapses whitespace runs to hyphens.
func PublishedSlug(title string) string {
	return whitespaceRunPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}
