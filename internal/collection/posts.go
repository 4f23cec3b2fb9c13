package collection

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	notificationTitlePostCreated   = "Post Created"
	notificationTitlePostDeleted   = "Post Deleted"
	notificationTitlePostPublished = "Post Published"
	notificationTitlePostUpdated   = "Post Updated"

	notificationMessagePostCreated   = "Your blog post has been created successfully"
	notificationMessagePostDeleted   = "Blog post has been deleted successfully"
	notificationMessagePostPublished = "Your blog post is now live!"
	notificationMessagePostUpdated   = "Your blog post has been updated successfully"

	logEventSavePosts = "save_posts"
)

// Posts manages the blog-post collection.
type Posts struct {
	persistedStore store.Store
	notifier       Notifier
	logger         *zap.Logger
	clock          func() time.Time
}

// NewPosts creates the blog collection service.
func NewPosts(persistedStore store.Store, notifier Notifier, logger *zap.Logger) *Posts {
	return &Posts{persistedStore: persistedStore, notifier: notifier, logger: logger, clock: time.Now}
}

// WithClock overrides the publish-date clock, primarily for tests.
func (posts *Posts) WithClock(clock func() time.Time) *Posts {
	posts.clock = clock
	return posts
}

// PostPatch carries the fields a post update may change. Nil fields are left
// untouched. Posts remain editable in any lifecycle state.
type PostPatch struct {
	Title   *string
	Excerpt *string
	Content *string
}

// List returns the owner's posts filtered by title substring and status.
func (posts *Posts) List(ctx context.Context, ownerID string, filter Filter) ([]model.BlogPost, error) {
	allPosts, loadErr := loadList[model.BlogPost](ctx, posts.persistedStore, ownerID, store.KeyPosts)
	if loadErr != nil {
		return nil, loadErr
	}

	filtered := make([]model.BlogPost, 0, len(allPosts))
	for _, post := range allPosts {
		if filter.matchesQuery(post.Title) && filter.matchesStatus(post.Status) {
			filtered = append(filtered, post)
		}
	}
	return filtered, nil
}

// Create validates the input, prepends the new Draft post and persists the
// collection.
func (posts *Posts) Create(ctx context.Context, ownerID string, input model.BlogPostInput) (model.BlogPost, error) {
	newPost, constructErr := model.NewBlogPost(input)
	if constructErr != nil {
		return model.BlogPost{}, constructErr
	}

	allPosts, loadErr := loadList[model.BlogPost](ctx, posts.persistedStore, ownerID, store.KeyPosts)
	if loadErr != nil {
		return model.BlogPost{}, loadErr
	}

	if saveErr := posts.save(ctx, ownerID, prepend(allPosts, newPost)); saveErr != nil {
		return model.BlogPost{}, saveErr
	}

	posts.notifier.Success(ownerID, notificationTitlePostCreated, notificationMessagePostCreated)
	return newPost, nil
}

// Update merges the patch into the identified post. An absent identifier is a
// silent no-op.
func (posts *Posts) Update(ctx context.Context, ownerID string, postID string, patch PostPatch) (model.BlogPost, bool, error) {
	allPosts, loadErr := loadList[model.BlogPost](ctx, posts.persistedStore, ownerID, store.KeyPosts)
	if loadErr != nil {
		return model.BlogPost{}, false, loadErr
	}

	for index := range allPosts {
		if allPosts[index].ID != postID {
			continue
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
			allPosts[index].Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Excerpt != nil && strings.TrimSpace(*patch.Excerpt) != "" {
			allPosts[index].Excerpt = strings.TrimSpace(*patch.Excerpt)
		}
		if patch.Content != nil {
			allPosts[index].Content = *patch.Content
		}
		if saveErr := posts.save(ctx, ownerID, allPosts); saveErr != nil {
			return model.BlogPost{}, false, saveErr
		}
		posts.notifier.Success(ownerID, notificationTitlePostUpdated, notificationMessagePostUpdated)
		return allPosts[index], true, nil
	}
	return model.BlogPost{}, false, nil
}

// Delete removes the identified post. An absent identifier is a silent no-op.
func (posts *Posts) Delete(ctx context.Context, ownerID string, postID string) error {
	allPosts, loadErr := loadList[model.BlogPost](ctx, posts.persistedStore, ownerID, store.KeyPosts)
	if loadErr != nil {
		return loadErr
	}

	remaining := make([]model.BlogPost, 0, len(allPosts))
	removed := false
	for _, post := range allPosts {
		if post.ID == postID {
			removed = true
			continue
		}
		remaining = append(remaining, post)
	}
	if !removed {
		return nil
	}

	if saveErr := posts.save(ctx, ownerID, remaining); saveErr != nil {
		return saveErr
	}

	posts.notifier.Success(ownerID, notificationTitlePostDeleted, notificationMessagePostDeleted)
	return nil
}

// Publish transitions the identified post Draft -> Published, stamping the
// publish date once. Publishing twice is idempotent.
func (posts *Posts) Publish(ctx context.Context, ownerID string, postID string) (model.BlogPost, bool, error) {
	allPosts, loadErr := loadList[model.BlogPost](ctx, posts.persistedStore, ownerID, store.KeyPosts)
	if loadErr != nil {
		return model.BlogPost{}, false, loadErr
	}

	for index := range allPosts {
		if allPosts[index].ID != postID {
			continue
		}
		alreadyPublished := allPosts[index].Status == model.PostStatusPublished
		allPosts[index].Publish(posts.clock())
		if saveErr := posts.save(ctx, ownerID, allPosts); saveErr != nil {
			return model.BlogPost{}, false, saveErr
		}
		if !alreadyPublished {
			posts.notifier.Success(ownerID, notificationTitlePostPublished, notificationMessagePostPublished)
		}
		return allPosts[index], true, nil
	}
	return model.BlogPost{}, false, nil
}

func (posts *Posts) save(ctx context.Context, ownerID string, allPosts []model.BlogPost) error {
	if saveErr := posts.persistedStore.Set(ctx, ownerID, store.KeyPosts, allPosts); saveErr != nil {
		posts.logger.Warn(logEventSavePosts, zap.Error(saveErr))
		return saveErr
	}
	return nil
}
