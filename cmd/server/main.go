package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/CandlelightHQ/candlelight_svc/internal/assistant"
	"github.com/CandlelightHQ/candlelight_svc/internal/builder"
	"github.com/CandlelightHQ/candlelight_svc/internal/collection"
	"github.com/CandlelightHQ/candlelight_svc/internal/httpapi"
	"github.com/CandlelightHQ/candlelight_svc/internal/identity"
	"github.com/CandlelightHQ/candlelight_svc/internal/notify"
	"github.com/CandlelightHQ/candlelight_svc/internal/storage"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
	"github.com/CandlelightHQ/candlelight_svc/internal/task"
	"github.com/CandlelightHQ/candlelight_svc/internal/workflow"
)

const (
	commandUseName              = "server"
	commandShortDescription     = "Run the website builder dashboard server"
	commandLongDescription      = "Launch the website builder dashboard HTTP server"
	missingConfigurationMessage = "missing required configuration"
	loggerCreationErrorMessage  = "logger"
	logEventListening           = "listening"
	logFieldAddress             = "addr"

	flagNameApplicationAddress     = "app-addr"
	flagNameDatabaseDriver         = "db-driver"
	flagNameDatabaseDataSourceName = "db-dsn"
	flagNameRedisAddress           = "redis-addr"
	flagNameSessionSecret          = "session-secret"
	flagNameTokenSigningKey        = "token-signing-key"
	flagNameMaintenanceSchedule    = "maintenance-schedule"

	flagUsageApplicationAddress     = "address for the HTTP server to listen on"
	flagUsageDatabaseDriver         = "database driver (sqlite or postgres)"
	flagUsageDatabaseDataSourceName = "database connection string"
	flagUsageRedisAddress           = "redis address for the persisted store (empty keeps the relational backend)"
	flagUsageSessionSecret          = "secret for the session cookie store"
	flagUsageTokenSigningKey        = "HMAC key for session tokens"
	flagUsageMaintenanceSchedule    = "cron schedule for the nightly store sweep"

	environmentKeyApplicationAddress  = "APP_ADDR"
	environmentKeyDatabaseDriver      = "DB_DRIVER"
	environmentKeyDatabaseDataSource  = "DB_DSN"
	environmentKeyRedisAddress        = "REDIS_ADDR"
	environmentKeySessionSecret       = "SESSION_SECRET"
	environmentKeyTokenSigningKey     = "TOKEN_SIGNING_KEY"
	environmentKeyMaintenanceSchedule = "MAINTENANCE_SCHEDULE"

	defaultApplicationAddress  = ":8080"
	defaultDatabaseDriver      = storage.DriverNameSQLite
	defaultDatabaseDataSource  = "candlelight.db"
	defaultMaintenanceSchedule = "0 3 * * *"

	corsOriginWildcard       = "*"
	corsHeaderAuthorization  = "Authorization"
	corsHeaderContentType    = "Content-Type"
	httpMethodGet            = "GET"
	httpMethodOptions        = "OPTIONS"
	httpMethodPost           = "POST"
	httpMethodPatch          = "PATCH"
	httpMethodPut            = "PUT"
	httpMethodDelete         = "DELETE"
	readHeaderTimeoutSeconds = 5

	loggerContextOpenDatabase  = "open_db"
	loggerContextAutoMigrate   = "migrate"
	loggerContextHandlers      = "handlers"
	loggerContextScheduler     = "scheduler"
	loggerContextServer        = "server"
	loggerContextSigningKey    = "token_signing_key"
	unexpectedArgumentsMessage = "unexpected command arguments"
	commandInitializationError = "failed to configure command"
	flagNotDefinedMessage      = "flag %s not defined"
	environmentApplyError      = "failed to apply environment configuration"
)

var (
	corsAllowedMethods = []string{httpMethodPost, httpMethodGet, httpMethodPatch, httpMethodPut, httpMethodDelete, httpMethodOptions}
	corsAllowedHeaders = []string{corsHeaderAuthorization, corsHeaderContentType}
	corsExposedHeaders = []string{corsHeaderContentType}
	corsAllowOrigins   = []string{corsOriginWildcard}
)

// ServerConfig captures configuration needed to run the server.
type ServerConfig struct {
	ApplicationAddress     string
	DatabaseDriver         string
	DatabaseDataSourceName string
	RedisAddress           string
	SessionSecret          string
	TokenSigningKey        string
	MaintenanceSchedule    string
}

// DatabaseOpener opens a database connection from storage configuration.
type DatabaseOpener func(storage.Config) (*gorm.DB, error)

// ServerApplication constructs and executes the server command.
type ServerApplication struct {
	configurationLoader *viper.Viper
	databaseOpener      DatabaseOpener
}

// NewServerApplication creates a ServerApplication with default dependencies.
func NewServerApplication() *ServerApplication {
	return &ServerApplication{
		configurationLoader: viper.New(),
		databaseOpener:      storage.OpenDatabase,
	}
}

// WithDatabaseOpener overrides the database opener dependency.
func (application *ServerApplication) WithDatabaseOpener(databaseOpener DatabaseOpener) *ServerApplication {
	application.databaseOpener = databaseOpener
	return application
}

// Command builds the Cobra command for the server.
func (application *ServerApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		RunE:  application.runCommand,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	return rootCommand, nil
}

type configurationBinding struct {
	environmentKey string
	flagName       string
	defaultValue   string
	usage          string
}

func (application *ServerApplication) configurationBindings() []configurationBinding {
	return []configurationBinding{
		{environmentKeyApplicationAddress, flagNameApplicationAddress, defaultApplicationAddress, flagUsageApplicationAddress},
		{environmentKeyDatabaseDriver, flagNameDatabaseDriver, defaultDatabaseDriver, flagUsageDatabaseDriver},
		{environmentKeyDatabaseDataSource, flagNameDatabaseDataSourceName, defaultDatabaseDataSource, flagUsageDatabaseDataSourceName},
		{environmentKeyRedisAddress, flagNameRedisAddress, "", flagUsageRedisAddress},
		{environmentKeySessionSecret, flagNameSessionSecret, "", flagUsageSessionSecret},
		{environmentKeyTokenSigningKey, flagNameTokenSigningKey, "", flagUsageTokenSigningKey},
		{environmentKeyMaintenanceSchedule, flagNameMaintenanceSchedule, defaultMaintenanceSchedule, flagUsageMaintenanceSchedule},
	}
}

func (application *ServerApplication) configureCommand(command *cobra.Command) error {
	application.configurationLoader.AutomaticEnv()

	commandFlags := command.Flags()
	for _, binding := range application.configurationBindings() {
		application.configurationLoader.SetDefault(binding.environmentKey, binding.defaultValue)
		commandFlags.String(binding.flagName, binding.defaultValue, binding.usage)

		if bindErr := application.bindFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}

	return nil
}

func (application *ServerApplication) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *ServerApplication) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentApplyError, setErr)
	}

	return nil
}

func (application *ServerApplication) loadConfiguration() ServerConfig {
	return ServerConfig{
		ApplicationAddress:     application.configurationLoader.GetString(environmentKeyApplicationAddress),
		DatabaseDriver:         strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabaseDriver)),
		DatabaseDataSourceName: strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabaseDataSource)),
		RedisAddress:           strings.TrimSpace(application.configurationLoader.GetString(environmentKeyRedisAddress)),
		SessionSecret:          strings.TrimSpace(application.configurationLoader.GetString(environmentKeySessionSecret)),
		TokenSigningKey:        strings.TrimSpace(application.configurationLoader.GetString(environmentKeyTokenSigningKey)),
		MaintenanceSchedule:    strings.TrimSpace(application.configurationLoader.GetString(environmentKeyMaintenanceSchedule)),
	}
}

func (application *ServerApplication) runCommand(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf("%s: %s", unexpectedArgumentsMessage, strings.Join(arguments, " "))
	}

	serverConfig := application.loadConfiguration()
	if validationErr := application.ensureRequiredConfiguration(serverConfig); validationErr != nil {
		return validationErr
	}

	logger, loggerErr := zap.NewProduction()
	if loggerErr != nil {
		return fmt.Errorf("%s: %w", loggerCreationErrorMessage, loggerErr)
	}
	defer func() {
		_ = logger.Sync()
	}()

	database, databaseErr := application.databaseOpener(storage.Config{
		DriverName:     serverConfig.DatabaseDriver,
		DataSourceName: serverConfig.DatabaseDataSourceName,
	})
	if databaseErr != nil {
		logger.Fatal(loggerContextOpenDatabase, zap.Error(databaseErr))
	}

	if migrateErr := storage.AutoMigrate(database); migrateErr != nil {
		logger.Fatal(loggerContextAutoMigrate, zap.Error(migrateErr))
	}

	persistedStore := selectStoreBackend(database, serverConfig.RedisAddress)

	notifyCenter := notify.NewCenter()
	defer notifyCenter.Close()

	identityProvider := identity.NewLocalProvider(database, logger)
	tokenIssuer, issuerErr := identity.NewTokenIssuer(serverConfig.TokenSigningKey)
	if issuerErr != nil {
		logger.Fatal(loggerContextSigningKey, zap.Error(issuerErr))
	}
	authManager := httpapi.NewAuthManager(serverConfig.SessionSecret, tokenIssuer, identityProvider, logger)

	apiHandlers, handlersErr := httpapi.NewHandlers(httpapi.Config{
		AuthManager:     authManager,
		IdentityService: identityProvider,
		Projects:        collection.NewProjects(persistedStore, notifyCenter, logger),
		Posts:           collection.NewPosts(persistedStore, notifyCenter, logger),
		Team:            collection.NewTeam(persistedStore, notifyCenter, logger),
		Billing:         collection.NewBilling(persistedStore, notifyCenter, logger),
		Assistant:       assistant.NewLog(persistedStore, logger),
		Builder:         builder.NewService(persistedStore, notifyCenter, logger),
		Deploy:          workflow.NewDeploy(persistedStore, notifyCenter, logger),
		Store:           persistedStore,
		NotifyCenter:    notifyCenter,
		Logger:          logger,
	})
	if handlersErr != nil {
		logger.Fatal(loggerContextHandlers, zap.Error(handlersErr))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsAllowOrigins,
		AllowMethods:     corsAllowedMethods,
		AllowHeaders:     corsAllowedHeaders,
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	apiHandlers.RegisterRoutes(router)

	maintenanceScheduler := cron.New()
	staleKeySweeper := task.NewStaleKeySweeper(database, logger)
	if _, scheduleErr := maintenanceScheduler.AddFunc(serverConfig.MaintenanceSchedule, func() {
		_, _ = staleKeySweeper.Run(context.Background())
	}); scheduleErr != nil {
		logger.Fatal(loggerContextScheduler, zap.Error(scheduleErr))
	}
	maintenanceScheduler.Start()
	defer maintenanceScheduler.Stop()

	httpServer := &http.Server{
		Addr:              serverConfig.ApplicationAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeoutSeconds * time.Second,
	}

	logger.Info(logEventListening, zap.String(logFieldAddress, serverConfig.ApplicationAddress))
	if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Fatal(loggerContextServer, zap.Error(serveErr))
	}

	return nil
}

func selectStoreBackend(database *gorm.DB, redisAddress string) store.Store {
	if redisAddress == "" {
		return store.NewGormStore(database)
	}
	return store.NewRedisStore(redis.NewClient(&redis.Options{Addr: redisAddress}))
}

func (application *ServerApplication) ensureRequiredConfiguration(configuration ServerConfig) error {
	var missingParameters []string

	if configuration.SessionSecret == "" {
		missingParameters = append(missingParameters, flagNameSessionSecret)
	}

	if configuration.TokenSigningKey == "" {
		missingParameters = append(missingParameters, flagNameTokenSigningKey)
	}

	if len(missingParameters) == 0 {
		return nil
	}

	return fmt.Errorf("%s: %s", missingConfigurationMessage, strings.Join(missingParameters, ", "))
}

func main() {
	application := NewServerApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationError, commandErr)
		os.Exit(1)
	}

	if executeErr := rootCommand.Execute(); executeErr != nil {
		os.Exit(1)
	}
}
