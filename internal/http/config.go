package http

import (
	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/flashcards"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	Items      ItemStore
	Lister     ItemLister
	Categories CategoryStore
	Pos        PosStore
	Logger     *logger.Logger

	// Flashcards keep their deck in the session
	Flashcards *flashcards.Manager
	Sessions   *session.Manager

	// Anki upload
	AnkiImporter  AnkiImporter
	MaxUploadSize int64

	// Security
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string
}
