package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/meetsync/meetsync-api/api/contacts"
	"github.com/meetsync/meetsync-api/api/extractions"
	"github.com/meetsync/meetsync-api/api/health"
	"github.com/meetsync/meetsync-api/api/hubspotauth"
	"github.com/meetsync/meetsync-api/api/meetings"
	"github.com/meetsync/meetsync-api/api/types"
	"github.com/meetsync/meetsync-api/api/version"
	_ "github.com/meetsync/meetsync-api/docs/swagger"
	contactsService "github.com/meetsync/meetsync-api/internal/services/contacts"
	credentialsService "github.com/meetsync/meetsync-api/internal/services/credentials"
	"github.com/meetsync/meetsync-api/internal/services/hubspot"
	jobsService "github.com/meetsync/meetsync-api/internal/services/jobs"
	meetingsService "github.com/meetsync/meetsync-api/internal/services/meetings"
	"github.com/meetsync/meetsync-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine)

	// Swagger documentation
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if deps == nil {
		deps = &types.Dependencies{}
	}

	if deps.DB != nil && deps.DB.DB != nil {
		initializeServices(deps, cfg)
	}

	v1 := engine.Group("/api/v1")

	// Meeting ingestion and retrieval (10 req/s, burst of 20)
	meetingGroup := v1.Group("/meetings")
	meetingGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	meetings.RegisterRoutes(meetingGroup, deps)

	// Extraction results and job tracking (10 req/s, burst of 20)
	extractions.RegisterRoutes(v1, deps,
		PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))

	// CRM operations go to HubSpot, keep the rate modest (5 req/s, burst of 10)
	contactGroup := v1.Group("/contacts")
	contactGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 5, 10))
	contacts.RegisterRoutes(contactGroup, deps)

	// OAuth connect flow (1 req/s, burst of 2)
	connectGroup := v1.Group("/hubspot")
	connectGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 1, 2))
	hubspotauth.RegisterRoutes(connectGroup, deps)

	return nil
}

// initializeServices fills in any handler dependencies not already set
func initializeServices(deps *types.Dependencies, cfg *config.Config) {
	db := deps.DB.DB

	if deps.MeetingService == nil {
		deps.MeetingService = meetingsService.NewService(meetingsService.NewGormRepository(db))
	}
	if deps.ContactService == nil {
		deps.ContactService = contactsService.NewService(contactsService.NewGormRepository(db))
	}
	if deps.CredentialService == nil {
		deps.CredentialService = credentialsService.NewService(credentialsService.NewGormRepository(db))
	}
	if deps.JobService == nil {
		deps.JobService = jobsService.NewService(jobsService.NewRepository(db))
	}

	hubspotConfig := hubspot.Config{
		ClientID:     cfg.HubSpot.ClientID,
		ClientSecret: cfg.HubSpot.ClientSecret,
		BaseURL:      cfg.HubSpot.BaseURL,
		TokenURL:     cfg.HubSpot.TokenURL,
		Timeout:      cfg.HubSpot.Timeout,
	}
	if deps.TokenExchanger == nil {
		deps.TokenExchanger = hubspot.NewTokenExchanger(hubspotConfig)
	}
	if deps.CRMClient == nil {
		deps.CRMClient = hubspot.NewClient(hubspotConfig,
			hubspot.NewTokenExchanger(hubspotConfig), deps.CredentialService)
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
