// Package database provides the data access layer for the notebook.
//
// # Architecture
//
//	database/
//	├── database.go   # Connection setup, migrations, POS master list seeding
//	├── items/        # Vocab and grammar item CRUD (Item Store)
//	└── tags/         # Categories, parts of speech and their links (Tag Store)
//
// Listing, filtering and the flashcard deck queries are compiled by
// internal/query on top of the same *gorm.DB.
//
// # Transactions
//
// Repositories hold a *gorm.DB and never open transactions themselves.
// Callers that need several writes to commit together construct the
// repositories on the transaction handle:
//
//	err := db.DB.Transaction(func(tx *gorm.DB) error {
//	    id, err := items.NewRepository(tx).Create(entities.ItemTypeVocab, fields)
//	    if err != nil {
//	        return err
//	    }
//	    return tags.NewRepository(tx).RelinkCategories(id, entities.ItemTypeVocab, names)
//	})
//
// # Foreign keys
//
// SQLite foreign key enforcement is enabled through the DSN, so deleting a
// category removes its links and deleting a vocab row removes its POS links.
// Category links of deleted items are removed explicitly by the Item Store
// because item_category_links points at two different item tables.
package database
