package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	deployDelay    = 3 * time.Second
	domainDelay    = 2 * time.Second
	subdomainDelay = 2 * time.Second

	deployKind    = "deploy"
	domainKind    = "connect_domain"
	subdomainKind = "publish_subdomain"

	deploySuccessTitle      = "Deployment Complete"
	deploySuccessMessage    = "Your website has been deployed successfully!"
	domainSuccessTitle      = "Domain Connected"
	domainSuccessMessage    = "Your custom domain has been connected successfully!"
	subdomainSuccessTitle   = "Subdomain Published"
	subdomainSuccessMessage = "Your website is now live on the subdomain!"

	// PublishedDomainSuffix terminates every subdomain-derived live URL.
	PublishedDomainSuffix = ".candlelight.app"

	defaultSubdomainLabel = "my-website"

	integrationNameGitHub  = "GitHub"
	integrationNameNetlify = "Netlify"
	integrationNameVercel  = "Vercel"
)

var (
	// ErrMissingDomain rejects connecting an empty custom domain.
	ErrMissingDomain = errors.New("workflow: domain required")
	// ErrMissingSubdomain rejects publishing an empty subdomain label.
	ErrMissingSubdomain = errors.New("workflow: subdomain required")
	// ErrUnknownIntegration reports a toggle against an integration that is
	// not configured.
	ErrUnknownIntegration = errors.New("workflow: unknown integration")
)

// Integration is one external hosting hook shown on the deploy surface.
type Integration struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

func defaultIntegrations() []Integration {
	return []Integration{
		{Name: integrationNameGitHub, Connected: true},
		{Name: integrationNameNetlify, Connected: false},
		{Name: integrationNameVercel, Connected: false},
	}
}

// DeployStatus is the aggregate view of the deploy surface for one owner.
type DeployStatus struct {
	DeployState    string        `json:"deployState"`
	DomainState    string        `json:"domainState"`
	SubdomainState string        `json:"subdomainState"`
	Domain         string        `json:"domain"`
	Subdomain      string        `json:"subdomain"`
	LiveURL        string        `json:"liveUrl"`
	Integrations   []Integration `json:"integrations"`
}

// Deploy owns the three publishing workflows plus the domain, subdomain and
// integration records they operate on.
type Deploy struct {
	persistedStore   store.Store
	deployMachine    *Machine
	domainMachine    *Machine
	subdomainMachine *Machine
}

// NewDeploy wires the deploy service and its machines.
func NewDeploy(persistedStore store.Store, notifier Notifier, logger *zap.Logger) *Deploy {
	deployService := &Deploy{persistedStore: persistedStore}
	deployService.deployMachine = NewMachine(persistedStore, notifier, logger, MachineConfig{
		Kind:           deployKind,
		StatusKey:      store.KeyDeployStatus,
		Delay:          deployDelay,
		SuccessTitle:   deploySuccessTitle,
		SuccessMessage: deploySuccessMessage,
	})
	deployService.domainMachine = NewMachine(persistedStore, notifier, logger, MachineConfig{
		Kind:           domainKind,
		StatusKey:      store.KeyDomainStatus,
		Delay:          domainDelay,
		SuccessTitle:   domainSuccessTitle,
		SuccessMessage: domainSuccessMessage,
	})
	deployService.subdomainMachine = NewMachine(persistedStore, notifier, logger, MachineConfig{
		Kind:           subdomainKind,
		StatusKey:      store.KeySubdomainStatus,
		Delay:          subdomainDelay,
		SuccessTitle:   subdomainSuccessTitle,
		SuccessMessage: subdomainSuccessMessage,
	})
	return deployService
}

// WithDelays overrides the simulated delays. Tests use short delays to keep
// the suite fast.
func (deployService *Deploy) WithDelays(deployDelayOverride time.Duration, domainDelayOverride time.Duration, subdomainDelayOverride time.Duration) *Deploy {
	deployService.deployMachine.delay = deployDelayOverride
	deployService.domainMachine.delay = domainDelayOverride
	deployService.subdomainMachine.delay = subdomainDelayOverride
	return deployService
}

// Status assembles the full deploy view for an owner.
func (deployService *Deploy) Status(ctx context.Context, ownerID string) (DeployStatus, error) {
	aggregateStatus := DeployStatus{}
	var stateErr error
	if aggregateStatus.DeployState, stateErr = deployService.deployMachine.State(ctx, ownerID); stateErr != nil {
		return DeployStatus{}, stateErr
	}
	if aggregateStatus.DomainState, stateErr = deployService.domainMachine.State(ctx, ownerID); stateErr != nil {
		return DeployStatus{}, stateErr
	}
	if aggregateStatus.SubdomainState, stateErr = deployService.subdomainMachine.State(ctx, ownerID); stateErr != nil {
		return DeployStatus{}, stateErr
	}
	if _, loadErr := store.Load(ctx, deployService.persistedStore, ownerID, store.KeyDeployDomain, &aggregateStatus.Domain); loadErr != nil {
		return DeployStatus{}, loadErr
	}
	if _, loadErr := store.Load(ctx, deployService.persistedStore, ownerID, store.KeyDeploySubdomain, &aggregateStatus.Subdomain); loadErr != nil {
		return DeployStatus{}, loadErr
	}
	aggregateStatus.Integrations = defaultIntegrations()
	if _, loadErr := store.Load(ctx, deployService.persistedStore, ownerID, store.KeyDeployIntegrations, &aggregateStatus.Integrations); loadErr != nil {
		return DeployStatus{}, loadErr
	}
	aggregateStatus.LiveURL = deployService.liveURL(aggregateStatus)
	return aggregateStatus, nil
}

func (deployService *Deploy) liveURL(aggregateStatus DeployStatus) string {
	if aggregateStatus.DeployState != StateSuccess && aggregateStatus.SubdomainState != StateSuccess {
		return ""
	}
	subdomainLabel := aggregateStatus.Subdomain
	if subdomainLabel == "" {
		subdomainLabel = defaultSubdomainLabel
	}
	return subdomainLabel + PublishedDomainSuffix
}

// TriggerDeploy starts a deployment run.
func (deployService *Deploy) TriggerDeploy(ctx context.Context, ownerID string) error {
	return deployService.deployMachine.Trigger(ctx, ownerID)
}

// ConnectDomain records the custom domain and starts the connection run.
func (deployService *Deploy) ConnectDomain(ctx context.Context, ownerID string, domainName string) error {
	trimmedDomain := strings.TrimSpace(domainName)
	if trimmedDomain == "" {
		return ErrMissingDomain
	}
	if persistErr := deployService.persistedStore.Set(ctx, ownerID, store.KeyDeployDomain, trimmedDomain); persistErr != nil {
		return persistErr
	}
	return deployService.domainMachine.Trigger(ctx, ownerID)
}

// PublishSubdomain records the subdomain label and starts the publishing run.
func (deployService *Deploy) PublishSubdomain(ctx context.Context, ownerID string, subdomainLabel string) error {
	trimmedLabel := strings.ToLower(strings.TrimSpace(subdomainLabel))
	if trimmedLabel == "" {
		return ErrMissingSubdomain
	}
	if persistErr := deployService.persistedStore.Set(ctx, ownerID, store.KeyDeploySubdomain, trimmedLabel); persistErr != nil {
		return persistErr
	}
	return deployService.subdomainMachine.Trigger(ctx, ownerID)
}

// ToggleIntegration flips one integration's connected flag and persists the
// full list.
func (deployService *Deploy) ToggleIntegration(ctx context.Context, ownerID string, integrationName string) ([]Integration, error) {
	integrations := defaultIntegrations()
	if _, loadErr := store.Load(ctx, deployService.persistedStore, ownerID, store.KeyDeployIntegrations, &integrations); loadErr != nil {
		return nil, loadErr
	}
	found := false
	for index := range integrations {
		if integrations[index].Name == integrationName {
			integrations[index].Connected = !integrations[index].Connected
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUnknownIntegration
	}
	if persistErr := deployService.persistedStore.Set(ctx, ownerID, store.KeyDeployIntegrations, integrations); persistErr != nil {
		return nil, persistErr
	}
	return integrations, nil
}
