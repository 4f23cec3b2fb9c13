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
	logEventListProjects   = "list_projects"
	logEventPersistProject = "persist_project"
)

type createProjectRequest struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

type updateProjectRequest struct {
	Title     *string `json:"title"`
	Thumbnail *string `json:"thumbnail"`
}

func (handlers *Handlers) collectionFilter(ginContext *gin.Context) collection.Filter {
	return collection.Filter{
		Query:  ginContext.Query(queryParamQuery),
		Status: ginContext.Query(queryParamStatus),
	}
}

// ListProjects returns the owner's projects, optionally filtered by title
// substring and status.
func (handlers *Handlers) ListProjects(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	allProjects, listErr := handlers.projects.List(ginContext.Request.Context(), account.ID, handlers.collectionFilter(ginContext))
	if listErr != nil {
		handlers.logger.Warn(logEventListProjects, zap.Error(listErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyItems: allProjects})
}

// CreateProject adds a draft project at the head of the collection.
func (handlers *Handlers) CreateProject(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request createProjectRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	createdProject, createErr := handlers.projects.Create(ginContext.Request.Context(), account.ID, model.ProjectInput{
		Title:     request.Title,
		Thumbnail: request.Thumbnail,
	})
	if errors.Is(createErr, model.ErrInvalidProjectTitle) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if createErr != nil {
		handlers.logger.Warn(logEventPersistProject, zap.Error(createErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusCreated, createdProject)
}

// UpdateProject applies a partial edit to one project.
func (handlers *Handlers) UpdateProject(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request updateProjectRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	updatedProject, found, updateErr := handlers.projects.Update(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID), collection.ProjectPatch{
		Title:     request.Title,
		Thumbnail: request.Thumbnail,
	})
	if updateErr != nil {
		handlers.logger.Warn(logEventPersistProject, zap.Error(updateErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	if !found {
		ginContext.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownItem})
		return
	}
	ginContext.JSON(http.StatusOK, updatedProject)
}

// DeleteProject removes one project. Deleting an absent id leaves the
// collection unchanged.
func (handlers *Handlers) DeleteProject(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	if deleteErr := handlers.projects.Delete(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID)); deleteErr != nil {
		handlers.logger.Warn(logEventPersistProject, zap.Error(deleteErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyStatus: statusValueOK})
}

// PublishProject marks a project published and assigns its public URL.
func (handlers *Handlers) PublishProject(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	publishedProject, found, publishErr := handlers.projects.Publish(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID))
	if publishErr != nil {
		handlers.logger.Warn(logEventPersistProject, zap.Error(publishErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	if !found {
		ginContext.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownItem})
		return
	}
	ginContext.JSON(http.StatusOK, publishedProject)
}

// DuplicateProject copies a project into a fresh draft.
func (handlers *Handlers) DuplicateProject(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	duplicatedProject, found, duplicateErr := handlers.projects.Duplicate(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID))
	if duplicateErr != nil {
		handlers.logger.Warn(logEventPersistProject, zap.Error(duplicateErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	if !found {
		ginContext.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownItem})
		return
	}
	ginContext.JSON(http.StatusCreated, duplicatedProject)
}
