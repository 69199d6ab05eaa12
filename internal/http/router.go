package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/logger"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	// CSRF must run before the session so that the session context
	// is not replaced by the CSRF request copy
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadSave())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	if cfg.Items != nil && cfg.Lister != nil {
		items := NewItemsController(cfg.Items, cfg.Lister, log)
		api.GET("/items/:type", items.List)
		api.POST("/items/:type", items.Create)
		api.GET("/items/:type/:id", items.Get)
		api.PUT("/items/:type/:id", items.Update)
		api.DELETE("/items/:type/:id", items.Delete)
	}

	if cfg.Categories != nil && cfg.Pos != nil {
		categories := NewCategoriesController(cfg.Categories, cfg.Pos, log)
		api.GET("/categories", categories.List)
		api.PATCH("/categories/:name", categories.Rename)
		api.DELETE("/categories/:name", categories.Delete)
		api.GET("/pos", categories.PartsOfSpeech)
	}

	if cfg.Flashcards != nil && cfg.Sessions != nil {
		cards := NewFlashcardsController(cfg.Flashcards, cfg.Sessions, log)
		api.POST("/flashcards/configure", cards.Configure)
		api.GET("/flashcards/batch", cards.Batch)
		api.POST("/flashcards/cursor", cards.Cursor)
		api.GET("/flashcards/resume", cards.Resume)
		api.POST("/flashcards/restart", cards.Restart)
		api.GET("/flashcards/state", cards.State)
		api.DELETE("/flashcards", cards.Reset)
	}

	if cfg.AnkiImporter != nil {
		importer := NewAnkiImportController(cfg.AnkiImporter, cfg.MaxUploadSize, log)
		api.POST("/import/anki", importer.Import)
	}

	return router
}
