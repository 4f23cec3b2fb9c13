package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PostStatusDraft     = "Draft"
	PostStatusPublished = "Published"

	defaultPostImageURL = "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=400&h=300&fit=crop"

	postTitleMaxLength   = 300
	postExcerptMaxLength = 1000

	publishDateLayout = "2006-01-02"
)

var (
	ErrInvalidPostTitle   = errors.New("invalid_post_title")
	ErrInvalidPostExcerpt = errors.New("invalid_post_excerpt")
)

// BlogPost is one entry in the content manager.
type BlogPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt"`
	Content     string  `json:"content"`
	Status      string  `json:"status"`
	PublishDate *string `json:"publishDate"`
	Views       int64   `json:"views"`
	Image       string  `json:"image"`
}

// BlogPostInput holds the raw values used to construct a BlogPost.
type BlogPostInput struct {
	Title   string
	Excerpt string
	Content string
}

// NewBlogPost constructs a Draft post with a nil publish date and zero views.
// Title and excerpt are both required.
func NewBlogPost(input BlogPostInput) (BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return BlogPost{}, ErrInvalidPostTitle
	}
	if len(title) > postTitleMaxLength {
		return BlogPost{}, fmt.Errorf("%w: too long", ErrInvalidPostTitle)
	}

	excerpt := strings.TrimSpace(input.Excerpt)
	if excerpt == "" {
		return BlogPost{}, ErrInvalidPostExcerpt
	}
	if len(excerpt) > postExcerptMaxLength {
		return BlogPost{}, fmt.Errorf("%w: too long", ErrInvalidPostExcerpt)
	}

	return BlogPost{
		ID:          uuid.NewString(),
		Title:       title,
		Excerpt:     excerpt,
		Content:     input.Content,
		Status:      PostStatusDraft,
		PublishDate: nil,
		Views:       0,
		Image:       defaultPostImageURL,
	}, nil
}

// Publish transitions the post Draft -> Published and stamps the publish date
// once. Re-publishing keeps the original date.
func (post *BlogPost) Publish(now time.Time) {
	if post.Status == PostStatusPublished {
		return
	}
	stampedDate := now.UTC().Format(publishDateLayout)
	post.Status = PostStatusPublished
	post.PublishDate = &stampedDate
}
