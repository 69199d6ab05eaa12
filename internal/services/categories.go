package services

import (
	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/tags"
	"github.com/mrlokans/kotoba/internal/entities"
	domainerrors "github.com/mrlokans/kotoba/internal/errors"
	"github.com/mrlokans/kotoba/internal/logger"
)

// CategoryService runs category maintenance in transactions.
type CategoryService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryService(db *database.Database, log *logger.Logger) *CategoryService {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryService{db: db.DB, log: log.With("component", "categories")}
}

func (s *CategoryService) List() ([]string, error) {
	return tags.NewRepository(s.db).ListAllCategories()
}

func (s *CategoryService) ListWithCounts() ([]entities.CategoryCount, error) {
	return tags.NewRepository(s.db).ListAllCategoriesWithCounts()
}

// Delete removes a category and strips it from every item.
func (s *CategoryService) Delete(name string) error {
	var deleted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = tags.NewRepository(tx).DeleteCategory(name)
		return err
	})
	if err != nil {
		return wrapStorage(err, "delete category")
	}
	if !deleted {
		return domainerrors.NotFoundf("category %q not found", name)
	}
	s.log.Info("category deleted", "name", name)
	return nil
}

// Rename renames a category, keeping its links.
func (s *CategoryService) Rename(oldName, newName string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tags.NewRepository(tx).RenameCategory(oldName, newName)
	})
	if err != nil {
		return wrapStorage(err, "rename category")
	}
	s.log.Info("category renamed", "from", oldName, "to", newName)
	return nil
}
