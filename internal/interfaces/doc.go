// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - ItemStore: Item writes with tag links (internal/http/stores.go)
//   - ItemLister: Filtered, sorted, paginated listings (internal/http/stores.go)
//   - CategoryStore: Category rename, delete and counts (internal/http/stores.go)
//   - PosStore: The part-of-speech master list (internal/http/stores.go)
//
// ## Flashcard Interfaces
//
//   - DeckSource: Deck counts and batches (internal/flashcards/manager.go)
//   - PosLabeler: POS strings for vocab cards (internal/flashcards/manager.go)
//   - Session: Per-client key/value state (internal/flashcards/session.go)
//
// ## Import Interfaces
//
//   - Converter: Explanation script conversion (internal/anki/convert.go)
//   - PosInferrer: POS guesses for untagged notes (internal/anki/infer.go)
//
// # Adding a New Import Source
//
// To import vocabulary from another flashcard application:
//
//  1. Add a reader next to internal/anki/reader.go that yields notes with
//     term, reading, POS, explanation and example.
//
//  2. Reuse anki.CleanTerm, anki.CleanExample and anki.PosNormalizer so the
//     stored data looks the same whichever source it came from.
//
//  3. Write each file inside one db.DB.Transaction using items and tags
//     repositories built on the transaction handle.
//
//  4. Register a CLI command in main.go and, if needed, an upload route in
//     internal/http/router.go.
//
// # Adding a New Item Type
//
//  1. Add the ItemType constant and its table in internal/entities/items.go.
//
//  2. Register the model in database.Models().
//
//  3. Extend query.Scope and the union in query.batchSQL.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
