package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/kotoba/internal/anki"
	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/tags"
	"github.com/mrlokans/kotoba/internal/flashcards"
	http_controllers "github.com/mrlokans/kotoba/internal/http"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/query"
	"github.com/mrlokans/kotoba/internal/services"
	"github.com/mrlokans/kotoba/internal/session"
)

// Serve runs the HTTP server until SIGINT or SIGTERM and then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log *logger.Logger) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	log.Info("server exiting")
}

func Run(cfg *config.Config, version string) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting kotoba", "version", version)

	if cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database.Path, database.Options{LogLevel: gormlogger.Warn, Logger: log})
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", "error", err)
		}
	}()

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("failed to get SQL DB for sessions", "error", err)
	}
	sessions, err := session.NewSQLiteManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatal("failed to initialize session manager", "error", err)
	}

	tagRepo := tags.NewRepository(db.DB)
	builder := query.NewBuilder(db.DB)

	importOpts := anki.Options{Logger: log}
	if cfg.Import.ConvertScript {
		importOpts.Converter = anki.NewTraditionalConverter(log)
	}
	if cfg.Import.InferPos {
		inferrer, err := anki.NewKagomeInferrer()
		if err != nil {
			log.Warn("POS inference disabled", "error", err)
		} else {
			importOpts.Inferrer = inferrer
		}
	}

	var csrfSecret []byte
	if cfg.Security.CSRFSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Security.CSRFSecret)
		if err != nil {
			// not hex, use as raw bytes
			csrfSecret = []byte(cfg.Security.CSRFSecret)
		}
	} else {
		log.Info("CSRF protection disabled, set CSRF_SECRET to enable")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:      db,
		Items:         services.NewItemService(db, log),
		Lister:        builder,
		Categories:    services.NewCategoryService(db, log),
		Pos:           tagRepo,
		Logger:        log,
		Flashcards:    flashcards.NewManager(builder, tagRepo, log),
		Sessions:      sessions,
		AnkiImporter:  anki.NewImporter(db, importOpts),
		MaxUploadSize: cfg.Import.MaxUploadSize,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Session.SecureCookies,
		Version:       version,
	})

	Serve(router, cfg, log)
}
