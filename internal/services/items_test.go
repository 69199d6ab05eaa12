package services

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/entities"
	domainerrors "github.com/mrlokans/kotoba/internal/errors"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	dbPath := "./test_services_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.Open(dbPath, database.Options{})
	require.NoError(t, err)

	return db, func() {
		db.Close()
		os.Remove(dbPath)
	}
}

func TestItemService_CreateVocabExpandsPos(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	svc := NewItemService(db, nil)

	detail, err := svc.Create(entities.ItemTypeVocab, ItemInput{
		Term:        "  食べる[たべる] ",
		Explanation: "吃",
		Categories:  []string{"N5", "Food", "N5"},
		Pos:         []string{"他動"},
	})
	require.NoError(t, err)

	assert.Equal(t, "食べる[たべる]", detail.Term)
	assert.ElementsMatch(t, []string{"N5", "Food"}, detail.Categories)
	assert.Equal(t, []string{"動", "他動"}, detail.Pos)
}

func TestItemService_CreateGrammarIgnoresPos(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	svc := NewItemService(db, nil)

	detail, err := svc.Create(entities.ItemTypeGrammar, ItemInput{
		Term:       "〜ながら",
		Categories: []string{"N4"},
		Pos:        []string{"名"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"N4"}, detail.Categories)
	assert.Empty(t, detail.Pos)

	var links int64
	require.NoError(t, db.DB.Model(&entities.ItemPosLink{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestItemService_CreateRejectsBlankTerm(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	svc := NewItemService(db, nil)

	_, err := svc.Create(entities.ItemTypeVocab, ItemInput{Term: "   "})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidRequest))
}

func TestItemService_CreateRollsBackOnTagFailure(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	svc := NewItemService(db, nil)

	require.NoError(t, db.DB.Exec("DROP TABLE item_category_links").Error)
	require.NoError(t, db.DB.Migrator().DropTable(&entities.Category{}))

	_, err := svc.Create(entities.ItemTypeVocab, ItemInput{Term: "猫", Categories: []string{"Animals"}})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStorage))

	var count int64
	require.NoError(t, db.DB.Table(entities.ItemTypeVocab.Table()).Count(&count).Error)
	assert.Zero(t, count, "item insert must roll back with its tags")
}

func TestItemService_ReservedCategoryNotStored(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	svc := NewItemService(db, nil)

	_, err := svc.Create(entities.ItemTypeVocab, ItemInput{
		Term:       "猫",
		Categories: []string{entities.ReservedCategory},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidRequest))

	var count int64
	require.NoError(t, db.DB.Table(entities.ItemTypeVocab.Table()).Count(&count).Error)
	assert.Zero(t, count)

	created, err := svc.Create(entities.ItemTypeGrammar, ItemInput{Term: "〜ながら"})
	require.NoError(t, err)
	_, err = svc.Update(created.ID, entities.ItemTypeGrammar, ItemInput{
		Term:       "〜ながら",
		Categories: []string{entities.ReservedCategory},
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidRequest))

	detail, err := svc.Get(created.ID, entities.ItemTypeGrammar)
	require.NoError(t, err)
	assert.Empty(t, detail.Categories)
}

func TestItemService_UpdateReplacesTags(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	svc := NewItemService(db, nil)

	created, err := svc.Create(entities.ItemTypeVocab, ItemInput{
		Term:       "走る",
		Categories: []string{"N5"},
		Pos:        []string{"自動"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, entities.ItemTypeVocab, ItemInput{
		Term:       "走る[はしる]",
		Example:    "駅まで走る。",
		Categories: []string{"Verbs"},
		Pos:        []string{"名"},
	})
	require.NoError(t, err)
	assert.Equal(t, "走る[はしる]", updated.Term)
	assert.Equal(t, "駅まで走る。", updated.Example)
	assert.Equal(t, []string{"Verbs"}, updated.Categories)
	assert.Equal(t, []string{"名"}, updated.Pos)

	// the old category stays in the table even with no items
	names, err := NewCategoryService(db, nil).List()
	require.NoError(t, err)
	assert.Contains(t, names, "N5")
}

func TestItemService_UpdateMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	svc := NewItemService(db, nil)

	_, err := svc.Update(99, entities.ItemTypeGrammar, ItemInput{Term: "x"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestItemService_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	svc := NewItemService(db, nil)

	created, err := svc.Create(entities.ItemTypeVocab, ItemInput{
		Term:       "本",
		Categories: []string{"N5"},
		Pos:        []string{"名"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID, entities.ItemTypeVocab))

	_, err = svc.Get(created.ID, entities.ItemTypeVocab)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	var catLinks, posLinks int64
	require.NoError(t, db.DB.Model(&entities.ItemCategoryLink{}).Count(&catLinks).Error)
	require.NoError(t, db.DB.Model(&entities.ItemPosLink{}).Count(&posLinks).Error)
	assert.Zero(t, catLinks)
	assert.Zero(t, posLinks)

	err = svc.Delete(created.ID, entities.ItemTypeVocab)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
