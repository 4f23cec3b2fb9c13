package builder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	defaultGenerateDelay = 2500 * time.Millisecond

	generateSuccessTitle   = "Website Generated"
	generateSuccessMessage = "Your website has been generated successfully!"
	exportSuccessTitle     = "Code Downloaded"
	exportSuccessMessage   = "Website code has been downloaded successfully!"

	logEventPersistContent    = "persist_generated_content"
	logEventPersistComponents = "persist_dropped_components"
)

var (
	// ErrMissingPrompt rejects generation from a blank prompt.
	ErrMissingPrompt = errors.New("builder: prompt required")
	// ErrGenerationPending rejects a second generation while one is running.
	ErrGenerationPending = errors.New("builder: generation already pending")
	// ErrUnknownComponent reports a drop of a name outside the palette.
	ErrUnknownComponent = errors.New("builder: unknown component")
	// ErrNothingToExport reports an export with no content and no components.
	ErrNothingToExport = errors.New("builder: nothing to export")
)

// Notifier receives the builder's outcome notifications.
type Notifier interface {
	Success(ownerID string, title string, message string)
}

// Service owns generated site content and the manually dropped component
// list for each owner. Generation completes after a simulated delay; the
// classification itself is instant and deterministic.
type Service struct {
	persistedStore store.Store
	notifier       Notifier
	logger         *zap.Logger
	generateDelay  time.Duration
	mutex          sync.Mutex
	pendingByOwner map[string]struct{}
}

// NewService constructs the builder service.
func NewService(persistedStore store.Store, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		persistedStore: persistedStore,
		notifier:       notifier,
		logger:         logger,
		generateDelay:  defaultGenerateDelay,
		pendingByOwner: make(map[string]struct{}),
	}
}

// WithGenerateDelay overrides the simulated generation delay.
func (builderService *Service) WithGenerateDelay(delay time.Duration) *Service {
	builderService.generateDelay = delay
	return builderService
}

// Generate classifies the prompt and persists the result after the simulated
// delay. A blank prompt is rejected, as is a second generation for the same
// owner while one is still running.
func (builderService *Service) Generate(ctx context.Context, ownerID string, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrMissingPrompt
	}

	builderService.mutex.Lock()
	if _, pending := builderService.pendingByOwner[ownerID]; pending {
		builderService.mutex.Unlock()
		return ErrGenerationPending
	}
	builderService.pendingByOwner[ownerID] = struct{}{}
	builderService.mutex.Unlock()

	time.AfterFunc(builderService.generateDelay, func() {
		builderService.completeGeneration(ownerID, prompt)
	})
	return nil
}

func (builderService *Service) completeGeneration(ownerID string, prompt string) {
	defer func() {
		builderService.mutex.Lock()
		delete(builderService.pendingByOwner, ownerID)
		builderService.mutex.Unlock()
	}()

	generatedSite := ClassifyPrompt(prompt)
	if persistErr := builderService.persistedStore.Set(context.Background(), ownerID, store.KeyGeneratedContent, generatedSite); persistErr != nil {
		builderService.logger.Warn(logEventPersistContent, zap.Error(persistErr))
		return
	}
	builderService.notifier.Success(ownerID, generateSuccessTitle, generateSuccessMessage)
}

// Generating reports whether a generation is in flight for the owner.
func (builderService *Service) Generating(ownerID string) bool {
	builderService.mutex.Lock()
	defer builderService.mutex.Unlock()
	_, pending := builderService.pendingByOwner[ownerID]
	return pending
}

// Content returns the owner's generated site, when one exists.
func (builderService *Service) Content(ctx context.Context, ownerID string) (*model.GeneratedSite, bool, error) {
	var generatedSite model.GeneratedSite
	populated, loadErr := store.Load(ctx, builderService.persistedStore, ownerID, store.KeyGeneratedContent, &generatedSite)
	if loadErr != nil {
		return nil, false, loadErr
	}
	if !populated {
		return nil, false, nil
	}
	return &generatedSite, true, nil
}

// Components returns the owner's dropped component list in canvas order.
func (builderService *Service) Components(ctx context.Context, ownerID string) ([]string, error) {
	droppedComponents := []string{}
	if _, loadErr := store.Load(ctx, builderService.persistedStore, ownerID, store.KeyDroppedComponents, &droppedComponents); loadErr != nil {
		return nil, loadErr
	}
	return droppedComponents, nil
}

// AddComponent appends a palette component to the canvas.
func (builderService *Service) AddComponent(ctx context.Context, ownerID string, componentName string) ([]string, error) {
	if !IsKnownComponent(componentName) {
		return nil, ErrUnknownComponent
	}
	droppedComponents, listErr := builderService.Components(ctx, ownerID)
	if listErr != nil {
		return nil, listErr
	}
	droppedComponents = append(droppedComponents, componentName)
	if persistErr := builderService.persistedStore.Set(ctx, ownerID, store.KeyDroppedComponents, droppedComponents); persistErr != nil {
		builderService.logger.Warn(logEventPersistComponents, zap.Error(persistErr))
		return nil, persistErr
	}
	return droppedComponents, nil
}

// RemoveComponent drops the component at the index. An out of range index
// leaves the list unchanged.
func (builderService *Service) RemoveComponent(ctx context.Context, ownerID string, componentIndex int) ([]string, error) {
	droppedComponents, listErr := builderService.Components(ctx, ownerID)
	if listErr != nil {
		return nil, listErr
	}
	if componentIndex < 0 || componentIndex >= len(droppedComponents) {
		return droppedComponents, nil
	}
	droppedComponents = append(droppedComponents[:componentIndex], droppedComponents[componentIndex+1:]...)
	if persistErr := builderService.persistedStore.Set(ctx, ownerID, store.KeyDroppedComponents, droppedComponents); persistErr != nil {
		builderService.logger.Warn(logEventPersistComponents, zap.Error(persistErr))
		return nil, persistErr
	}
	return droppedComponents, nil
}

// Export renders the downloadable document and its file name. Owners with
// neither generated content nor dropped components have nothing to export.
func (builderService *Service) Export(ctx context.Context, ownerID string) (string, string, error) {
	generatedSite, _, contentErr := builderService.Content(ctx, ownerID)
	if contentErr != nil {
		return "", "", contentErr
	}
	droppedComponents, componentsErr := builderService.Components(ctx, ownerID)
	if componentsErr != nil {
		return "", "", componentsErr
	}
	if generatedSite == nil && len(droppedComponents) == 0 {
		return "", "", ErrNothingToExport
	}
	renderedDocument, renderErr := RenderExport(generatedSite, droppedComponents)
	if renderErr != nil {
		return "", "", renderErr
	}
	builderService.notifier.Success(ownerID, exportSuccessTitle, exportSuccessMessage)
	return ExportFileName(generatedSite), renderedDocument, nil
}
