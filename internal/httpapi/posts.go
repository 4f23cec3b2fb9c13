package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/collection"
	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	logEventListPosts   = "list_posts"
	logEventPersistPost = "persist_post"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Excerpt *string `json:"excerpt"`
	Content *string `json:"content"`
}

// ListPosts returns the owner's blog posts, optionally filtered.
func (handlers *Handlers) ListPosts(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	allPosts, listErr := handlers.posts.List(ginContext.Request.Context(), account.ID, handlers.collectionFilter(ginContext))
	if listErr != nil {
		handlers.logger.Warn(logEventListPosts, zap.Error(listErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyItems: allPosts})
}

// CreatePost adds a draft post at the head of the collection.
func (handlers *Handlers) CreatePost(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request createPostRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	createdPost, createErr := handlers.posts.Create(ginContext.Request.Context(), account.ID, model.BlogPostInput{
		Title:   request.Title,
		Excerpt: request.Excerpt,
		Content: request.Content,
	})
	if errors.Is(createErr, model.ErrInvalidPostTitle) || errors.Is(createErr, model.ErrInvalidPostExcerpt) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if createErr != nil {
		handlers.logger.Warn(logEventPersistPost, zap.Error(createErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusCreated, createdPost)
}

// UpdatePost applies a partial edit to one post.
func (handlers *Handlers) UpdatePost(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request updatePostRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	updatedPost, found, updateErr := handlers.posts.Update(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID), collection.PostPatch{
		Title:   request.Title,
		Excerpt: request.Excerpt,
		Content: request.Content,
	})
	if updateErr != nil {
		handlers.logger.Warn(logEventPersistPost, zap.Error(updateErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	if !found {
		ginContext.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownItem})
		return
	}
	ginContext.JSON(http.StatusOK, updatedPost)
}

// DeletePost removes one post. Deleting an absent id leaves the collection
// unchanged.
func (handlers *Handlers) DeletePost(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	if deleteErr := handlers.posts.Delete(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID)); deleteErr != nil {
		handlers.logger.Warn(logEventPersistPost, zap.Error(deleteErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyStatus: statusValueOK})
}

// PublishPost marks a post published, stamping its publish date once.
func (handlers *Handlers) PublishPost(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	publishedPost, found, publishErr := handlers.posts.Publish(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID))
	if publishErr != nil {
		handlers.logger.Warn(logEventPersistPost, zap.Error(publishErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	if !found {
		ginContext.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownItem})
		return
	}
	ginContext.JSON(http.StatusOK, publishedPost)
}
