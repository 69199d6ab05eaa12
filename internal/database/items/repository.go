// Package items provides database operations for vocab and grammar items.
//
// Both item types share one Repository; the ItemType argument selects the
// table. Tag links are maintained through internal/database/tags, never
// written directly from here.
//
// # Usage
//
//	repo := items.NewRepository(db)
//	id, err := repo.Create(entities.ItemTypeGrammar, entities.ItemFields{Term: "〜ながら"})
package items

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/database/tags"
	"github.com/mrlokans/kotoba/internal/entities"
	domainerrors "github.com/mrlokans/kotoba/internal/errors"
)

// Repository handles all item database operations.
type Repository struct {
	db   *gorm.DB
	tags *tags.Repository
}

// NewRepository creates a new items repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, tags: tags.NewRepository(db)}
}

// Create inserts a new item and returns its id.
func (r *Repository) Create(itemType entities.ItemType, fields entities.ItemFields) (uint, error) {
	item := entities.Item{
		Term:        fields.Term,
		Explanation: fields.Explanation,
		Example:     fields.Example,
	}
	if err := r.db.Table(itemType.Table()).Create(&item).Error; err != nil {
		return 0, fmt.Errorf("failed to create %s item: %w", itemType, err)
	}
	return item.ID, nil
}

// Update replaces the fields of an existing item.
func (r *Repository) Update(id uint, itemType entities.ItemType, fields entities.ItemFields) error {
	result := r.db.Table(itemType.Table()).Where("id = ?", id).Updates(map[string]any{
		"term":        fields.Term,
		"explanation": fields.Explanation,
		"example":     fields.Example,
		"updated_at":  r.db.NowFunc(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update %s item %d: %w", itemType, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.NotFoundf("%s item %d not found", itemType, id)
	}
	return nil
}

// Delete clears the item's tag links and removes the row.
func (r *Repository) Delete(id uint, itemType entities.ItemType) error {
	exists, err := r.Exists(id, itemType)
	if err != nil {
		return err
	}
	if !exists {
		return domainerrors.NotFoundf("%s item %d not found", itemType, id)
	}

	if err := r.tags.RelinkCategories(id, itemType, nil); err != nil {
		return err
	}
	if itemType == entities.ItemTypeVocab {
		if err := r.tags.RelinkPos(id, nil); err != nil {
			return err
		}
	}

	if err := r.db.Table(itemType.Table()).Where("id = ?", id).Delete(&entities.Item{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s item %d: %w", itemType, id, err)
	}
	return nil
}

// GetByID returns one item.
func (r *Repository) GetByID(id uint, itemType entities.ItemType) (*entities.Item, error) {
	var item entities.Item
	result := r.db.Table(itemType.Table()).Where("id = ?", id).Limit(1).Find(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.NotFoundf("%s item %d not found", itemType, id)
	}
	item.Type = itemType
	return &item, nil
}

// Exists reports whether an item with this id is stored.
func (r *Repository) Exists(id uint, itemType entities.ItemType) (bool, error) {
	var count int64
	err := r.db.Table(itemType.Table()).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
