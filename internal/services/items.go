package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/items"
	"github.com/mrlokans/kotoba/internal/database/tags"
	"github.com/mrlokans/kotoba/internal/entities"
	domainerrors "github.com/mrlokans/kotoba/internal/errors"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/pos"
	"github.com/mrlokans/kotoba/internal/validation"
)

// ItemService writes items and their tag links as one unit: an item is
// never stored without the categories and parts of speech it was saved with.
type ItemService struct {
	db        *gorm.DB
	catalog   *pos.Catalog
	validator *validation.Validator
	log       *logger.Logger
}

func NewItemService(db *database.Database, log *logger.Logger) *ItemService {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemService{
		db:        db.DB,
		catalog:   db.Catalog,
		validator: validation.New(),
		log:       log.With("component", "items"),
	}
}

// Create stores a new item with its tags.
func (s *ItemService) Create(itemType entities.ItemType, input ItemInput) (*ItemDetail, error) {
	input = trimInput(input)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	var id uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = items.NewRepository(tx).Create(itemType, input.fields())
		if err != nil {
			return err
		}
		return s.relink(tx, id, itemType, input)
	})
	if err != nil {
		return nil, wrapStorage(err, "create item")
	}

	s.log.Info("item created", "type", itemType, "id", id, "term", input.Term)
	return s.Get(id, itemType)
}

// Update replaces an item's fields and tags.
func (s *ItemService) Update(id uint, itemType entities.ItemType, input ItemInput) (*ItemDetail, error) {
	input = trimInput(input)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := items.NewRepository(tx).Update(id, itemType, input.fields()); err != nil {
			return err
		}
		return s.relink(tx, id, itemType, input)
	})
	if err != nil {
		return nil, wrapStorage(err, "update item")
	}

	s.log.Info("item updated", "type", itemType, "id", id)
	return s.Get(id, itemType)
}

// Delete removes an item and its tag links.
func (s *ItemService) Delete(id uint, itemType entities.ItemType) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return items.NewRepository(tx).Delete(id, itemType)
	})
	if err != nil {
		return wrapStorage(err, "delete item")
	}
	s.log.Info("item deleted", "type", itemType, "id", id)
	return nil
}

// Get returns an item with its categories and, for vocab, its parts of speech.
func (s *ItemService) Get(id uint, itemType entities.ItemType) (*ItemDetail, error) {
	item, err := items.NewRepository(s.db).GetByID(id, itemType)
	if err != nil {
		return nil, wrapStorage(err, "get item")
	}

	tagRepo := tags.NewRepository(s.db)
	detail := &ItemDetail{Item: *item}
	if detail.Categories, err = tagRepo.GetCategoriesForItem(id, itemType); err != nil {
		return nil, wrapStorage(err, "get item categories")
	}
	if itemType == entities.ItemTypeVocab {
		if detail.Pos, err = tagRepo.GetPosForItem(id); err != nil {
			return nil, wrapStorage(err, "get item parts of speech")
		}
	}
	return detail, nil
}

func (s *ItemService) relink(tx *gorm.DB, id uint, itemType entities.ItemType, input ItemInput) error {
	tagRepo := tags.NewRepository(tx)
	if err := tagRepo.RelinkCategories(id, itemType, input.Categories); err != nil {
		return err
	}
	if itemType != entities.ItemTypeVocab {
		return nil
	}
	return tagRepo.RelinkPos(id, s.catalog.Expand(input.Pos))
}

func trimInput(in ItemInput) ItemInput {
	in.Term = strings.TrimSpace(in.Term)
	in.Explanation = strings.TrimSpace(in.Explanation)
	in.Example = strings.TrimSpace(in.Example)
	return in
}

// wrapStorage passes domain errors through and marks everything else as a
// storage failure.
func wrapStorage(err error, msg string) error {
	var de *domainerrors.Error
	if domainerrors.As(err, &de) {
		return err
	}
	return domainerrors.Storage(err, msg)
}
