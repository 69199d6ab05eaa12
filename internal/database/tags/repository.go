// Package tags provides database operations for categories, parts of speech
// and the link tables that attach them to items.
//
// This package implements the PosStore interface defined in
// internal/http/stores.go and the PosLabeler used by flashcards.
//
// # Interface Implementation
//
//	var _ http.PosStore = (*Repository)(nil)
//	var _ flashcards.PosLabeler = (*Repository)(nil)
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	err := repo.RelinkCategories(itemID, entities.ItemTypeVocab, []string{"JLPT N5", "食べ物"})
//
// Relink operations replace the whole link set of an item. Run them on a
// transaction handle when they must commit together with an item write.
package tags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/kotoba/internal/entities"
	domainerrors "github.com/mrlokans/kotoba/internal/errors"
)

// NoCategory is returned by GetOrCreateCategory for a blank name.
const NoCategory uint = 0

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateCategory returns the id of the category with the trimmed name,
// creating it when missing. A blank name yields NoCategory and the reserved
// name is rejected.
func (r *Repository) GetOrCreateCategory(name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoCategory, nil
	}
	if err := checkCategoryName(name); err != nil {
		return 0, err
	}

	if id, ok, err := r.findCategoryID(name); err != nil || ok {
		return id, err
	}

	category := entities.Category{Name: name}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&category)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 1 && category.ID != 0 {
		return category.ID, nil
	}

	// A concurrent writer inserted the same name first.
	id, ok, err := r.findCategoryID(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("category %q vanished after conflicting insert", name)
	}
	return id, nil
}

func checkCategoryName(name string) error {
	if name == entities.ReservedCategory {
		return domainerrors.InvalidRequestf("category name %q is reserved", name)
	}
	return nil
}

func (r *Repository) findCategoryID(name string) (uint, bool, error) {
	var category entities.Category
	result := r.db.Where("name = ?", name).Limit(1).Find(&category)
	if result.Error != nil {
		return 0, false, result.Error
	}
	return category.ID, result.RowsAffected > 0, nil
}

// LinkCategory attaches an item to a category. Linking twice is a no-op.
func (r *Repository) LinkCategory(itemID uint, itemType entities.ItemType, categoryID uint) error {
	link := entities.ItemCategoryLink{ItemID: itemID, ItemType: itemType, CategoryID: categoryID}
	return r.db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// RelinkCategories replaces the categories of an item with names. Blank and
// duplicate names are ignored; unknown names are created.
func (r *Repository) RelinkCategories(itemID uint, itemType entities.ItemType, names []string) error {
	err := r.db.Where("item_id = ? AND item_type = ?", itemID, itemType).
		Delete(&entities.ItemCategoryLink{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}

	for _, name := range uniqueTrimmed(names) {
		categoryID, err := r.GetOrCreateCategory(name)
		if err != nil {
			return fmt.Errorf("failed to resolve category %q: %w", name, err)
		}
		if err := r.LinkCategory(itemID, itemType, categoryID); err != nil {
			return fmt.Errorf("failed to link category %q: %w", name, err)
		}
	}
	return nil
}

// RelinkPos replaces the parts of speech of a vocab item. Abbreviations that
// are not on the master list are dropped.
func (r *Repository) RelinkPos(itemID uint, abbreviations []string) error {
	if err := r.db.Where("item_id = ?", itemID).Delete(&entities.ItemPosLink{}).Error; err != nil {
		return fmt.Errorf("failed to clear parts of speech: %w", err)
	}

	names := uniqueTrimmed(abbreviations)
	if len(names) == 0 {
		return nil
	}

	var rows []entities.PartOfSpeech
	if err := r.db.Where("name IN ?", names).Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to resolve parts of speech: %w", err)
	}
	for _, p := range rows {
		if err := r.LinkPos(itemID, p.ID); err != nil {
			return fmt.Errorf("failed to link part of speech %s: %w", p.Name, err)
		}
	}
	return nil
}

// LinkPos attaches a part of speech to a vocab item. Linking twice is a no-op.
func (r *Repository) LinkPos(itemID, posID uint) error {
	link := entities.ItemPosLink{ItemID: itemID, PosID: posID}
	return r.db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// GetOrCreatePos returns the master list id for name, appending a new row
// at the end of the list when it is missing.
func (r *Repository) GetOrCreatePos(name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, domainerrors.InvalidRequest("part of speech name is required")
	}

	var existing entities.PartOfSpeech
	result := r.db.Where("name = ?", name).Limit(1).Find(&existing)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		return existing.ID, nil
	}

	var maxOrder int
	if err := r.db.Model(&entities.PartOfSpeech{}).Select("COALESCE(MAX(sort_order), -1)").Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	row := entities.PartOfSpeech{Name: name, Label: name, SortOrder: maxOrder + 1}
	if err := r.db.Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// GetCategoriesForItem returns the category names of an item sorted by name.
func (r *Repository) GetCategoriesForItem(itemID uint, itemType entities.ItemType) ([]string, error) {
	names := []string{}
	err := r.db.Table("categories AS c").
		Joins("JOIN item_category_links AS l ON l.category_id = c.id").
		Where("l.item_id = ? AND l.item_type = ?", itemID, itemType).
		Order("c.name").
		Pluck("c.name", &names).Error
	return names, err
}

// GetPosForItem returns the POS abbreviations of a vocab item in master list order.
func (r *Repository) GetPosForItem(itemID uint) ([]string, error) {
	names := []string{}
	err := r.db.Table("parts_of_speech AS p").
		Joins("JOIN item_pos_links AS l ON l.pos_id = p.id").
		Where("l.item_id = ?", itemID).
		Order("p.sort_order, p.id").
		Pluck("p.name", &names).Error
	return names, err
}

// PosLabels returns the comma-joined POS string of each vocab id that has
// at least one part of speech.
func (r *Repository) PosLabels(itemIDs []uint) (map[uint]string, error) {
	labels := make(map[uint]string, len(itemIDs))
	if len(itemIDs) == 0 {
		return labels, nil
	}

	var rows []struct {
		ItemID uint
		Name   string
	}
	err := r.db.Table("item_pos_links AS l").
		Select("l.item_id AS item_id, p.name AS name").
		Joins("JOIN parts_of_speech AS p ON p.id = l.pos_id").
		Where("l.item_id IN ?", itemIDs).
		Order("l.item_id, p.sort_order, p.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if prev, ok := labels[row.ItemID]; ok {
			labels[row.ItemID] = prev + ", " + row.Name
		} else {
			labels[row.ItemID] = row.Name
		}
	}
	return labels, nil
}

// ListAllCategories returns every category name sorted by name.
func (r *Repository) ListAllCategories() ([]string, error) {
	names := []string{}
	err := r.db.Model(&entities.Category{}).Order("name").Pluck("name", &names).Error
	return names, err
}

// ListAllCategoriesWithCounts returns every category with the number of
// distinct items linked to it. Unused categories report zero.
func (r *Repository) ListAllCategoriesWithCounts() ([]entities.CategoryCount, error) {
	counts := []entities.CategoryCount{}
	err := r.db.Raw(`
		SELECT c.name AS name, COUNT(DISTINCT l.item_type || ':' || l.item_id) AS count
		FROM categories AS c
		LEFT JOIN item_category_links AS l ON l.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`).Scan(&counts).Error
	return counts, err
}

// ListPartsOfSpeech returns the master list in display order.
func (r *Repository) ListPartsOfSpeech() ([]entities.PartOfSpeech, error) {
	var rows []entities.PartOfSpeech
	err := r.db.Order("sort_order, id").Find(&rows).Error
	return rows, err
}

// DeleteCategory strips the category from every item and removes it.
// It reports false when no category has that name.
func (r *Repository) DeleteCategory(name string) (bool, error) {
	id, ok, err := r.findCategoryID(strings.TrimSpace(name))
	if err != nil || !ok {
		return false, err
	}
	if err := r.db.Where("category_id = ?", id).Delete(&entities.ItemCategoryLink{}).Error; err != nil {
		return false, fmt.Errorf("failed to unlink category: %w", err)
	}
	if err := r.db.Delete(&entities.Category{}, id).Error; err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return true, nil
}

// RenameCategory renames a category in place, keeping its links.
func (r *Repository) RenameCategory(oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domainerrors.InvalidRequest("new category name is required")
	}
	if err := checkCategoryName(newName); err != nil {
		return err
	}

	id, ok, err := r.findCategoryID(oldName)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.NotFoundf("category %q not found", oldName)
	}
	if oldName == newName {
		return nil
	}

	if _, taken, err := r.findCategoryID(newName); err != nil {
		return err
	} else if taken {
		return domainerrors.Conflictf("category %q already exists", newName)
	}

	err = r.db.Model(&entities.Category{}).Where("id = ?", id).Update("name", newName).Error
	if isUniqueConstraintErr(err) {
		return domainerrors.Conflictf("category %q already exists", newName)
	}
	return err
}

func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
