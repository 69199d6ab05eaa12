package http

import (
	"io"

	"github.com/mrlokans/kotoba/internal/anki"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/query"
	"github.com/mrlokans/kotoba/internal/services"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls.

// ItemStore writes and reads single items with their tags.
type ItemStore interface {
	Create(itemType entities.ItemType, input services.ItemInput) (*services.ItemDetail, error)
	Update(id uint, itemType entities.ItemType, input services.ItemInput) (*services.ItemDetail, error)
	Delete(id uint, itemType entities.ItemType) error
	Get(id uint, itemType entities.ItemType) (*services.ItemDetail, error)
}

// ItemLister renders filtered, sorted and paginated listings.
type ItemLister interface {
	List(f query.Filter) (*query.Page, error)
}

// CategoryStore manages category names.
type CategoryStore interface {
	List() ([]string, error)
	ListWithCounts() ([]entities.CategoryCount, error)
	Delete(name string) error
	Rename(oldName, newName string) error
}

// PosStore lists the part-of-speech master table.
type PosStore interface {
	ListPartsOfSpeech() ([]entities.PartOfSpeech, error)
}

// AnkiImporter loads an uploaded export.
type AnkiImporter interface {
	ImportReader(name string, r io.Reader) *anki.Result
}
