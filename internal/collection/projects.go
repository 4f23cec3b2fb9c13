package collection

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	notificationTitleProjectCreated    = "Project Created"
	notificationTitleProjectDeleted    = "Project Deleted"
	notificationTitleProjectDuplicated = "Project Duplicated"
	notificationTitleProjectPublished  = "Project Published"

	notificationMessageProjectCreated    = "Your project has been created successfully"
	notificationMessageProjectDeleted    = "Project has been deleted successfully"
	notificationMessageProjectDuplicated = "Project has been duplicated successfully"
	notificationMessageProjectPublished  = "Your project is now live!"

	logEventSaveProjects = "save_projects"
)

// Projects manages the website-project collection.
type Projects struct {
	persistedStore store.Store
	notifier       Notifier
	logger         *zap.Logger
}

// NewProjects creates the project collection service.
func NewProjects(persistedStore store.Store, notifier Notifier, logger *zap.Logger) *Projects {
	return &Projects{persistedStore: persistedStore, notifier: notifier, logger: logger}
}

// ProjectPatch carries the fields a project update may change. Nil fields are
// left untouched.
type ProjectPatch struct {
	Title     *string
	Thumbnail *string
}

// List returns the owner's projects filtered by title substring and status,
// most recent first.
func (projects *Projects) List(ctx context.Context, ownerID string, filter Filter) ([]model.Project, error) {
	allProjects, loadErr := loadList[model.Project](ctx, projects.persistedStore, ownerID, store.KeyProjects)
	if loadErr != nil {
		return nil, loadErr
	}

	filtered := make([]model.Project, 0, len(allProjects))
	for _, project := range allProjects {
		if filter.matchesQuery(project.Title) && filter.matchesStatus(project.Status) {
			filtered = append(filtered, project)
		}
	}
	return filtered, nil
}

// Create validates the input, prepends the new Draft project and persists the
// collection.
func (projects *Projects) Create(ctx context.Context, ownerID string, input model.ProjectInput) (model.Project, error) {
	newProject, constructErr := model.NewProject(input)
	if constructErr != nil {
		return model.Project{}, constructErr
	}

	allProjects, loadErr := loadList[model.Project](ctx, projects.persistedStore, ownerID, store.KeyProjects)
	if loadErr != nil {
		return model.Project{}, loadErr
	}

	if saveErr := projects.save(ctx, ownerID, prepend(allProjects, newProject)); saveErr != nil {
		return model.Project{}, saveErr
	}

	projects.notifier.Success(ownerID, notificationTitleProjectCreated, notificationMessageProjectCreated)
	return newProject, nil
}

// Update merges the patch into the identified project. An absent identifier
// is a silent no-op.
func (projects *Projects) Update(ctx context.Context, ownerID string, projectID string, patch ProjectPatch) (model.Project, bool, error) {
	allProjects, loadErr := loadList[model.Project](ctx, projects.persistedStore, ownerID, store.KeyProjects)
	if loadErr != nil {
		return model.Project{}, false, loadErr
	}

	for index := range allProjects {
		if allProjects[index].ID != projectID {
			continue
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
			allProjects[index].Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Thumbnail != nil {
			allProjects[index].Thumbnail = strings.TrimSpace(*patch.Thumbnail)
		}
		if saveErr := projects.save(ctx, ownerID, allProjects); saveErr != nil {
			return model.Project{}, false, saveErr
		}
		return allProjects[index], true, nil
	}
	return model.Project{}, false, nil
}

// Delete removes the identified project. An absent identifier is a silent
// no-op; dependent records are never cascaded.
func (projects *Projects) Delete(ctx context.Context, ownerID string, projectID string) error {
	allProjects, loadErr := loadList[model.Project](ctx, projects.persistedStore, ownerID, store.KeyProjects)
	if loadErr != nil {
		return loadErr
	}

	remaining := make([]model.Project, 0, len(allProjects))
	removed := false
	for _, project := range allProjects {
		if project.ID == projectID {
			removed = true
			continue
		}
		remaining = append(remaining, project)
	}
	if !removed {
		return nil
	}

	if saveErr := projects.save(ctx, ownerID, remaining); saveErr != nil {
		return saveErr
	}

	projects.notifier.Success(ownerID, notificationTitleProjectDeleted, notificationMessageProjectDeleted)
	return nil
}

// Publish transitions the identified project Draft -> Published, stamping its
// hosted URL. Publishing twice is idempotent.
func (projects *Projects) Publish(ctx context.Context, ownerID string, projectID string) (model.Project, bool, error) {
	allProjects, loadErr := loadList[model.Project](ctx, projects.persistedStore, ownerID, store.KeyProjects)
	if loadErr != nil {
		return model.Project{}, false, loadErr
	}

	for index := range allProjects {
		if allProjects[index].ID != projectID {
			continue
		}
		alreadyPublished := allProjects[index].Status == model.ProjectStatusPublished
		allProjects[index].Publish()
		if saveErr := projects.save(ctx, ownerID, allProjects); saveErr != nil {
			return model.Project{}, false, saveErr
		}
		if !alreadyPublished {
			projects.notifier.Success(ownerID, notificationTitleProjectPublished, notificationMessageProjectPublished)
		}
		return allProjects[index], true, nil
	}
	return model.Project{}, false, nil
}

// Duplicate clones the identified project as a fresh Draft and prepends it.
func (projects *Projects) Duplicate(ctx context.Context, ownerID string, projectID string) (model.Project, bool, error) {
	allProjects, loadErr := loadList[model.Project](ctx, projects.persistedStore, ownerID, store.KeyProjects)
	if loadErr != nil {
		return model.Project{}, false, loadErr
	}

	for _, project := range allProjects {
		if project.ID != projectID {
			continue
		}
		duplicated := project.Duplicate()
		if saveErr := projects.save(ctx, ownerID, prepend(allProjects, duplicated)); saveErr != nil {
			return model.Project{}, false, saveErr
		}
		projects.notifier.Success(ownerID, notificationTitleProjectDuplicated, notificationMessageProjectDuplicated)
		return duplicated, true, nil
	}
	return model.Project{}, false, nil
}

func (projects *Projects) save(ctx context.Context, ownerID string, allProjects []model.Project) error {
	if saveErr := projects.persistedStore.Set(ctx, ownerID, store.KeyProjects, allProjects); saveErr != nil {
		projects.logger.Warn(logEventSaveProjects, zap.Error(saveErr))
		return saveErr
	}
	return nil
}
