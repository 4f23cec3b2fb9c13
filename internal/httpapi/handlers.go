package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/assistant"
	"github.com/CandlelightHQ/candlelight_svc/internal/builder"
	"github.com/CandlelightHQ/candlelight_svc/internal/collection"
	"github.com/CandlelightHQ/candlelight_svc/internal/identity"
	"github.com/CandlelightHQ/candlelight_svc/internal/notify"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
	"github.com/CandlelightHQ/candlelight_svc/internal/workflow"
)

const (
	jsonKeyError      = "error"
	jsonKeyStatus     = "status"
	jsonKeyAccount    = "account"
	jsonKeyItems      = "items"
	jsonKeyMessages   = "messages"
	jsonKeyReplying   = "replying"
	jsonKeyGenerating = "generating"
	jsonKeyContent    = "content"
	jsonKeyComponents = "components"
	jsonKeyFileName   = "fileName"
	jsonKeyPlan       = "plan"
	jsonKeyPhase      = "phase"
	jsonKeyQueued     = "queued"

	statusValueOK = "ok"

	errorValueInvalidJSON        = "invalid json"
	errorValueCaptchaRequired    = "complete the captcha"
	errorValueInvalidCredentials = "invalid email or password"
	errorValueEmailTaken         = "email already registered"
	errorValueMissingFields      = "missing required fields"
	errorValueUnknownItem        = "unknown item"
	errorValueWorkflowPending    = "workflow already running"
	errorValueLastTeamManager    = "last managing member"
	errorValueQueryFailed        = "query failed"
	errorValueSaveFailed         = "save failed"
	errorValueNothingToExport    = "nothing to export"
	errorValueStreamUnavailable  = "stream unavailable"

	queryParamQuery  = "query"
	queryParamStatus = "status"
	pathParamID      = "id"
	pathParamIndex   = "index"
	pathParamName    = "name"
)

// Config captures the dependencies of the JSON API handlers.
type Config struct {
	AuthManager     *AuthManager
	IdentityService identity.Provider
	Projects        *collection.Projects
	Posts           *collection.Posts
	Team            *collection.Team
	Billing         *collection.Billing
	Assistant       *assistant.Log
	Builder         *builder.Service
	Deploy          *workflow.Deploy
	Store           store.Store
	NotifyCenter    *notify.Center
	Logger          *zap.Logger
}

// Handlers bundles the JSON API endpoints for the dashboard.
type Handlers struct {
	authManager     *AuthManager
	identityService identity.Provider
	projects        *collection.Projects
	posts           *collection.Posts
	team            *collection.Team
	billing         *collection.Billing
	assistantLog    *assistant.Log
	siteBuilder     *builder.Service
	deploy          *workflow.Deploy
	persistedStore  store.Store
	notifyCenter    *notify.Center
	logger          *zap.Logger
}

// ErrMissingDependency indicates the handler configuration is incomplete.
var ErrMissingDependency = errors.New("httpapi: missing dependency")

// NewHandlers constructs the JSON API handlers.
func NewHandlers(configuration Config) (*Handlers, error) {
	if configuration.AuthManager == nil ||
		configuration.IdentityService == nil ||
		configuration.Projects == nil ||
		configuration.Posts == nil ||
		configuration.Team == nil ||
		configuration.Billing == nil ||
		configuration.Assistant == nil ||
		configuration.Builder == nil ||
		configuration.Deploy == nil ||
		configuration.Store == nil ||
		configuration.NotifyCenter == nil {
		return nil, ErrMissingDependency
	}
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		authManager:     configuration.AuthManager,
		identityService: configuration.IdentityService,
		projects:        configuration.Projects,
		posts:           configuration.Posts,
		team:            configuration.Team,
		billing:         configuration.Billing,
		assistantLog:    configuration.Assistant,
		siteBuilder:     configuration.Builder,
		deploy:          configuration.Deploy,
		persistedStore:  configuration.Store,
		notifyCenter:    configuration.NotifyCenter,
		logger:          logger,
	}, nil
}

// RegisterRoutes wires every dashboard endpoint onto the router.
func (handlers *Handlers) RegisterRoutes(router *gin.Engine) {
	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/signup", handlers.SignUp)
		authRoutes.POST("/login", handlers.LogIn)
		authRoutes.POST("/logout", handlers.LogOut)
	}

	apiRoutes := router.Group("/api")
	apiRoutes.Use(handlers.authManager.RequireAuthenticatedJSON())
	{
		apiRoutes.GET("/me", handlers.CurrentAccount)

		apiRoutes.GET("/projects", handlers.ListProjects)
		apiRoutes.POST("/projects", handlers.CreateProject)
		apiRoutes.PATCH("/projects/:id", handlers.UpdateProject)
		apiRoutes.DELETE("/projects/:id", handlers.DeleteProject)
		apiRoutes.POST("/projects/:id/publish", handlers.PublishProject)
		apiRoutes.POST("/projects/:id/duplicate", handlers.DuplicateProject)

		apiRoutes.GET("/posts", handlers.ListPosts)
		apiRoutes.POST("/posts", handlers.CreatePost)
		apiRoutes.PATCH("/posts/:id", handlers.UpdatePost)
		apiRoutes.DELETE("/posts/:id", handlers.DeletePost)
		apiRoutes.POST("/posts/:id/publish", handlers.PublishPost)

		apiRoutes.GET("/team", handlers.ListTeam)
		apiRoutes.POST("/team/invites", handlers.InviteTeamMember)
		apiRoutes.PATCH("/team/:id/role", handlers.UpdateTeamMemberRole)
		apiRoutes.DELETE("/team/:id", handlers.RemoveTeamMember)

		apiRoutes.GET("/billing/invoices", handlers.ListInvoices)
		apiRoutes.POST("/billing/invoices", handlers.AddInvoice)
		apiRoutes.DELETE("/billing/invoices/:id", handlers.DeleteInvoice)
		apiRoutes.GET("/billing/invoices/:id/document", handlers.DownloadInvoice)
		apiRoutes.GET("/billing/cards", handlers.ListCards)
		apiRoutes.POST("/billing/cards", handlers.AddCard)
		apiRoutes.DELETE("/billing/cards/:index", handlers.RemoveCard)
		apiRoutes.GET("/billing/plan", handlers.CurrentPlan)
		apiRoutes.PUT("/billing/plan", handlers.ChangePlan)

		apiRoutes.GET("/assistant/messages", handlers.ListAssistantMessages)
		apiRoutes.POST("/assistant/messages", handlers.SendAssistantMessage)

		apiRoutes.POST("/builder/generate", handlers.GenerateSite)
		apiRoutes.GET("/builder/content", handlers.BuilderContent)
		apiRoutes.GET("/builder/components", handlers.ListComponents)
		apiRoutes.POST("/builder/components", handlers.AddComponent)
		apiRoutes.DELETE("/builder/components/:index", handlers.RemoveComponent)
		apiRoutes.GET("/builder/export", handlers.ExportSite)

		apiRoutes.GET("/deploy", handlers.DeployStatus)
		apiRoutes.POST("/deploy/run", handlers.TriggerDeploy)
		apiRoutes.POST("/deploy/domain", handlers.ConnectDomain)
		apiRoutes.POST("/deploy/subdomain", handlers.PublishSubdomain)
		apiRoutes.POST("/deploy/integrations/:name/toggle", handlers.ToggleIntegration)

		apiRoutes.GET("/settings/profile", handlers.Profile)
		apiRoutes.PUT("/settings/profile", handlers.UpdateProfile)
		apiRoutes.GET("/settings/brand", handlers.BrandKit)
		apiRoutes.PUT("/settings/brand", handlers.UpdateBrandKit)

		apiRoutes.GET("/analytics", handlers.Analytics)

		apiRoutes.GET("/notifications/state", handlers.NotificationState)
		apiRoutes.POST("/notifications/dismiss", handlers.DismissNotification)
		apiRoutes.GET("/notifications/stream", handlers.StreamNotifications)
	}
}
