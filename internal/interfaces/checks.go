package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/kotoba/internal/anki"
	"github.com/mrlokans/kotoba/internal/database/tags"
	"github.com/mrlokans/kotoba/internal/flashcards"
	"github.com/mrlokans/kotoba/internal/http"
	"github.com/mrlokans/kotoba/internal/query"
	"github.com/mrlokans/kotoba/internal/services"
	"github.com/mrlokans/kotoba/internal/session"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.ItemStore = (*services.ItemService)(nil)
var _ http.CategoryStore = (*services.CategoryService)(nil)
var _ http.ItemLister = (*query.Builder)(nil)
var _ http.PosStore = (*tags.Repository)(nil)

// =============================================================================
// Flashcards
// =============================================================================

var _ flashcards.DeckSource = (*query.Builder)(nil)
var _ flashcards.PosLabeler = (*tags.Repository)(nil)
var _ flashcards.Session = (*flashcards.MemorySession)(nil)
var _ http.SessionProvider = (*session.Manager)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ http.AnkiImporter = (*anki.Importer)(nil)
var _ anki.Converter = anki.Passthrough{}
var _ anki.PosInferrer = (*anki.KagomeInferrer)(nil)
