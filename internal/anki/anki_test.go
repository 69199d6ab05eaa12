package anki

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/tags"
	"github.com/mrlokans/kotoba/internal/entities"
	domainerrors "github.com/mrlokans/kotoba/internal/errors"
	"github.com/mrlokans/kotoba/internal/pos"
)

const header = "#separator:tab\n#html:false\n"

// note builds a 15 column export row.
func note(term, reading, posField, explanation, example string) string {
	cols := make([]string, MinColumns)
	cols[0] = "guid"
	cols[DefaultColumns.Term] = term
	cols[DefaultColumns.Reading] = reading
	cols[DefaultColumns.Pos] = posField
	cols[DefaultColumns.Explanation] = explanation
	cols[DefaultColumns.Example] = example
	return strings.Join(cols, "\t") + "\n"
}

func writeExport(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(header+strings.Join(rows, "")), 0o644))
	return path
}

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	dbPath := "./test_anki_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.Open(dbPath, database.Options{})
	require.NoError(t, err)

	return db, func() {
		db.Close()
		os.Remove(dbPath)
	}
}

func TestReader_SkipsHeaderAndShortRows(t *testing.T) {
	input := header +
		note("猫", "ねこ", "名", "貓", "") +
		"too\tshort\n" +
		note("犬", "いぬ", "名", "狗", "")

	r := NewReader(strings.NewReader(input), DefaultColumns)

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "猫", first.Term)
	assert.Equal(t, 3, first.Line)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "犬", second.Term)
	assert.Equal(t, 5, second.Line)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, r.Skipped)
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader("#separator:tab\n"), DefaultColumns)
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCleanTerm(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		reading string
		want    string
	}{
		{"recomposes reading", "食べる[たべる]", "たべる", "食べる[たべる]"},
		{"adds reading", "学校", "がっこう", "学校[がっこう]"},
		{"no reading", "ありがとう", "", "ありがとう"},
		{"reading equals base", "ありがとう", "ありがとう", "ありがとう"},
		{"gloss is not a reading", "OK", "(英)", "OK"},
		{"full width gloss", "OK", "（英）", "OK"},
		{"inline furigana only", "日本[にほん]語[ご]", "", "日本語"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTerm(tt.term, tt.reading))
		})
	}
}

func TestCleanExample(t *testing.T) {
	assert.Equal(t, "毎朝パンを食べます。", CleanExample(" 毎朝[まいあさ]パンを食[た]べます。 "))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"他動1", "自動2"}, Tokens("他動1・自動2"))
	assert.Equal(t, []string{"名", "副"}, Tokens("名／副"))
	assert.Equal(t, []string{"名", "ナ形"}, Tokens("名 (する), ナ形"))
	assert.Equal(t, []string{"自動1"}, Tokens("自動（１）1"))
	assert.Empty(t, Tokens("  "))
}

func TestPosNormalizer_Normalize(t *testing.T) {
	n := NewPosNormalizer(pos.Default(), nil)

	assert.Equal(t, []string{"動", "自動", "他動"}, n.Normalize("他動1・自動2"))
	assert.Equal(t, []string{"名", "ナ形"}, n.Normalize("ナ形/名/名"))
	assert.Equal(t, []string{"い形"}, n.Normalize("形"))
	assert.Equal(t, []string{pos.Other}, n.Normalize("謎"))
	assert.Equal(t, []string{"名", pos.Other}, n.Normalize("名,英"))
	assert.Nil(t, n.Normalize(""))
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "NEW-JLPT__NEW-N5", CategoryName("/tmp/NEW-JLPT__NEW-N5.txt"))
	assert.Equal(t, "N4 Verbs", CategoryName(`C:\decks\N4 Verbs.txt`))
	assert.Equal(t, DefaultCategory, CategoryName(".txt"))
	assert.Equal(t, DefaultCategory, CategoryName(""))
}

type markConverter struct{}

func (markConverter) Convert(s string) string { return "[tc]" + s }

type fixedInferrer []string

func (f fixedInferrer) Infer(string) []string { return f }

func TestImporter_ImportFile(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	dir := t.TempDir()

	path := writeExport(t, dir, "N5 Verbs.txt",
		note("食べる[たべる]", "たべる", "他動2", "吃", "ご飯[ごはん]を食[た]べる。"),
		note("行く", "いく", "自動1・補動", "去", ""),
		note("", "", "名", "missing term", ""),
		note("空", "そら", "名", "", ""),
	)

	im := NewImporter(db, Options{Converter: markConverter{}})
	res := im.ImportFile(path)
	require.NoError(t, res.Err)

	assert.Equal(t, "N5 Verbs", res.Category)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.CategoryLinks)
	assert.Equal(t, 4, res.PosLinks)
	assert.Equal(t, 2, res.Skipped)

	var vocab []entities.VocabItem
	require.NoError(t, db.DB.Order("id").Find(&vocab).Error)
	require.Len(t, vocab, 2)
	assert.Equal(t, "食べる[たべる]", vocab[0].Term)
	assert.Equal(t, "[tc]吃", vocab[0].Explanation)
	assert.Equal(t, "ご飯を食べる。", vocab[0].Example)
	assert.Equal(t, "行く[いく]", vocab[1].Term)

	repo := tags.NewRepository(db.DB)
	posNames, err := repo.GetPosForItem(vocab[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"動", "他動"}, posNames)

	posNames, err = repo.GetPosForItem(vocab[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"動", "自動"}, posNames)

	categories, err := repo.GetCategoriesForItem(vocab[1].ID, entities.ItemTypeVocab)
	require.NoError(t, err)
	assert.Equal(t, []string{"N5 Verbs"}, categories)
}

func TestImporter_EmptyPosFallsBackOrInfers(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	dir := t.TempDir()

	path := writeExport(t, dir, "misc.txt", note("静か", "しずか", "", "安靜", ""))

	res := NewImporter(db, Options{}).ImportFile(path)
	require.NoError(t, res.Err)
	assert.Zero(t, res.Inferred)

	var first entities.VocabItem
	require.NoError(t, db.DB.First(&first).Error)
	names, err := tags.NewRepository(db.DB).GetPosForItem(first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{pos.Other}, names)

	res = NewImporter(db, Options{Inferrer: fixedInferrer{"ナ形"}}).ImportFile(path)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Inferred)

	var second entities.VocabItem
	require.NoError(t, db.DB.Order("id desc").First(&second).Error)
	names, err = tags.NewRepository(db.DB).GetPosForItem(second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ナ形"}, names)
}

func TestImporter_FailedRowRollsBackFileOnly(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	dir := t.TempDir()

	require.NoError(t, db.DB.Exec(`CREATE TRIGGER reject_boom BEFORE INSERT ON vocab_items
		WHEN NEW.term = 'BOOM' BEGIN SELECT RAISE(ABORT, 'rejected'); END`).Error)

	bad := writeExport(t, dir, "bad.txt",
		note("猫", "ねこ", "名", "貓", ""),
		note("BOOM", "", "名", "x", ""),
	)
	good := writeExport(t, dir, "good.txt", note("犬", "いぬ", "名", "狗", ""))

	results := NewImporter(db, Options{}).ImportFiles([]string{bad, good, filepath.Join(dir, "missing.txt")})
	require.Len(t, results, 3)

	assert.True(t, results[0].Failed())
	assert.Equal(t, 4, results[0].FailedLine)
	assert.Zero(t, results[0].Imported)

	require.NoError(t, results[1].Err)
	assert.Equal(t, 1, results[1].Imported)

	assert.True(t, results[2].Failed())

	var terms []string
	require.NoError(t, db.DB.Model(&entities.VocabItem{}).Pluck("term", &terms).Error)
	assert.Equal(t, []string{"犬[いぬ]"}, terms)

	names, err := tags.NewRepository(db.DB).ListAllCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, names)
}

func TestImporter_ReservedFileNameRejected(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	path := writeExport(t, t.TempDir(), entities.ReservedCategory+".txt", note("猫", "ねこ", "名", "貓", ""))
	res := NewImporter(db, Options{}).ImportFile(path)

	require.True(t, res.Failed())
	assert.True(t, domainerrors.Is(res.Err, domainerrors.ErrInvalidRequest))
	assert.Zero(t, res.Imported)

	var count int64
	require.NoError(t, db.DB.Model(&entities.VocabItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImporter_DryRunWritesNothing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	input := header + note("猫", "ねこ", "名", "貓", "") + note("見る", "みる", "他動1", "看", "")
	res := NewImporter(db, Options{DryRun: true}).ImportReader("preview.txt", strings.NewReader(input))
	require.NoError(t, res.Err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 3, res.PosLinks)

	var count int64
	require.NoError(t, db.DB.Model(&entities.VocabItem{}).Count(&count).Error)
	assert.Zero(t, count)

	names, err := tags.NewRepository(db.DB).ListAllCategories()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestKagomeInferrer(t *testing.T) {
	inf, err := NewKagomeInferrer()
	require.NoError(t, err)

	assert.Equal(t, []string{"動"}, inf.Infer("食べる"))
	assert.Equal(t, []string{"名"}, inf.Infer("猫[ねこ]"))
	assert.Equal(t, []string{"い形"}, inf.Infer("高い"))
	assert.Nil(t, inf.Infer(""))
}

func TestIpaToAbbreviation(t *testing.T) {
	assert.Equal(t, "ナ形", ipaToAbbreviation([]string{"名詞", "形容動詞語幹"}))
	assert.Equal(t, "專", ipaToAbbreviation([]string{"名詞", "固有名詞", "地域"}))
	assert.Equal(t, "接頭", ipaToAbbreviation([]string{"接頭詞", "名詞接続"}))
	assert.Equal(t, "", ipaToAbbreviation([]string{"記号", "一般"}))
	assert.Equal(t, "", ipaToAbbreviation(nil))
}

func TestTraditionalConverter(t *testing.T) {
	c := NewTraditionalConverter(nil)
	assert.Equal(t, "漢語", c.Convert("汉语"))
	assert.Equal(t, "學習日語", c.Convert("学习日语"))
	assert.Equal(t, "", c.Convert(""))
}
